// internal/core/ibge/client.go
package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// URLPadrao é o serviço público de localidades do IBGE.
const URLPadrao = "https://servicodados.ibge.gov.br/api/v1/localidades/municipios"

// Municipio é a fração do retorno da API que interessa ao pipeline.
type Municipio struct {
	ID   json.Number `json:"id"`
	Nome string      `json:"nome"`
}

// Client consulta o registro de municípios. A falha da consulta é degradação
// aceitável: o chamador segue com os códigos sem resolver.
type Client struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(url string, log *zap.Logger) *Client {
	if url == "" {
		url = URLPadrao
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// BuscarMunicipios devolve o mapa código IBGE -> nome do município em caixa
// alta.
func (c *Client) BuscarMunicipios(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição IBGE: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar a API do IBGE: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("falha ao buscar dados do IBGE: status %d", resp.StatusCode)
	}

	var municipios []Municipio
	if err := json.NewDecoder(resp.Body).Decode(&municipios); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta do IBGE: %w", err)
	}

	mapa := make(map[string]string, len(municipios))
	for _, m := range municipios {
		mapa[m.ID.String()] = strings.ToUpper(m.Nome)
	}
	c.log.Info("municípios carregados do IBGE", zap.Int("total", len(mapa)))
	return mapa, nil
}
