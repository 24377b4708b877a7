// internal/core/pipeline/dimensoes.go
package pipeline

import (
	"strings"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// colecaoDimensao acumula pares código->nome preservando a ordem de primeira
// aparição do código.
type colecaoDimensao struct {
	nomes map[string]string
	ordem []string
}

func novaColecaoDimensao() *colecaoDimensao {
	return &colecaoDimensao{nomes: make(map[string]string)}
}

func (c *colecaoDimensao) registrar(codigo, nome string) {
	codigo = strings.TrimSpace(codigo)
	nome = strings.TrimSpace(nome)
	if codigo == "" || nome == "" {
		return
	}
	if _, ok := c.nomes[codigo]; !ok {
		c.ordem = append(c.ordem, codigo)
	}
	c.nomes[codigo] = nome
}

func (c *colecaoDimensao) lista() []domain.Dimensao {
	resultado := make([]domain.Dimensao, 0, len(c.ordem))
	for _, codigo := range c.ordem {
		resultado = append(resultado, domain.Dimensao{Codigo: codigo, Nome: c.nomes[codigo]})
	}
	return resultado
}

// ExtrairDimensoes varre os períodos na ordem ano anterior -> histórico ->
// mês atual e coleta supervisores, vendedores e fornecedores observados. O
// último nome visto por código vence. Supervisores sem código no export ganham
// um código sintetizado do próprio nome, para manter o upsert chaveado.
func ExtrairDimensoes(periodos ...[]domain.Venda) (supervisores, vendedores, fornecedores []domain.Dimensao) {
	sup := novaColecaoDimensao()
	ven := novaColecaoDimensao()
	forn := novaColecaoDimensao()

	for _, periodo := range periodos {
		for _, venda := range periodo {
			codSupervisor := venda.CodSupervisor
			if codSupervisor == "" && venda.Supervisor != "" {
				codSupervisor = SintetizarCodigo(venda.Supervisor)
			}
			sup.registrar(codSupervisor, venda.Supervisor)
			ven.registrar(venda.CodVendedor, venda.Nome)
			forn.registrar(venda.CodFornecedor, venda.Fornecedor)
		}
	}
	return sup.lista(), ven.lista(), forn.lista()
}

// NovasCidades devolve, na ordem de primeira aparição, os municípios das
// linhas cruas já resolvidas que ainda não existem no mapa cidade->filial.
// Elas entram na configuração remota com filial nula, pendentes de ajuste
// manual. A varredura usa o município da própria venda, antes de qualquer
// substituição pela cidade corrente do cliente.
func NovasCidades(filialPorCidade map[string]string, periodos ...[]domain.Linha) []string {
	vistas := make(map[string]bool)
	var novas []string
	for _, periodo := range periodos {
		for _, linha := range periodo {
			cidade := strings.ToUpper(strings.TrimSpace(linha[domain.ColMunicipio]))
			if cidade == "" || vistas[cidade] {
				continue
			}
			vistas[cidade] = true
			if _, ok := filialPorCidade[cidade]; !ok {
				novas = append(novas, cidade)
			}
		}
	}
	return novas
}
