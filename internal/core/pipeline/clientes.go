// internal/core/pipeline/clientes.go
package pipeline

import (
	"strings"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// Colunas do cadastro de clientes e do cadastro de produtos.
const (
	colCadCodigo       = "Código"
	colCadRCA1         = "RCA 1"
	colCadUltimaCompra = "Data da Última Compra"
	colCadFantasia     = "Fantasia"
	colCadCliente      = "Cliente"
	colCadBairro       = "Bairro"
	colCadRamo         = "Descricao"
	colCadBloqueio     = "Bloqueio"
	colProdEmbMaster   = "Qtde embalagem master(Compra)"
)

// Vendedor coringa que marca cliente inativo no cadastro.
const rcaInativos = "53"

// InfoCliente é a visão em memória do cadastro usada durante a reatribuição.
type InfoCliente struct {
	Nome        string
	Cidade      string
	Bairro      string
	RCA1        string
	RazaoSocial string
}

// ProcessarClientes converte o cadastro em duas saídas: o mapa de consulta por
// código e as linhas do payload. A cidade vem preferencialmente do histórico
// de vendas do próprio cliente; o cadastro só vale na ausência de vendas.
func ProcessarClientes(linhas []domain.Linha, cidadePorCliente map[string]string) (map[string]InfoCliente, []domain.Cliente) {
	mapa := make(map[string]InfoCliente, len(linhas))
	payload := make([]domain.Cliente, 0, len(linhas))

	for _, linha := range linhas {
		codCli := strings.TrimSpace(linha[colCadCodigo])
		if codCli == "" {
			continue
		}

		cidade := cidadePorCliente[codCli]
		if cidade == "" {
			cidade = "N/A"
		}

		nome := primeiroNaoVazio(linha[colCadFantasia], linha[colCadCliente], "N/A")
		cliente := domain.Cliente{
			CodigoCliente: codCli,
			RCA1:          linha[colCadRCA1],
			Cidade:        cidade,
			NomeCliente:   nome,
			Bairro:        primeiroNaoVazio(linha[colCadBairro], "N/A"),
			RazaoSocial:   primeiroNaoVazio(linha[colCadCliente], "N/A"),
			Fantasia:      primeiroNaoVazio(linha[colCadFantasia], "N/A"),
			Ramo:          primeiroNaoVazio(linha[colCadRamo], "N/A"),
			UltimaCompra:  FormatarISO(ParseData(linha[colCadUltimaCompra])),
			Bloqueio:      strings.ToUpper(strings.TrimSpace(linha[colCadBloqueio])),
		}

		mapa[codCli] = InfoCliente{
			Nome:        cliente.NomeCliente,
			Cidade:      cliente.Cidade,
			Bairro:      cliente.Bairro,
			RCA1:        cliente.RCA1,
			RazaoSocial: cliente.RazaoSocial,
		}
		payload = append(payload, cliente)
	}
	return mapa, payload
}

// MapearProdutos devolve código do produto -> quantidade da embalagem master.
// Valores ausentes, inválidos ou não positivos valem 1.
func MapearProdutos(linhas []domain.Linha) map[string]int {
	produtos := make(map[string]int, len(linhas))
	for _, linha := range linhas {
		codigo := strings.TrimSpace(linha[colCadCodigo])
		if codigo == "" {
			continue
		}
		qtde := ParseInteiro(linha[colProdEmbMaster])
		if qtde <= 0 {
			qtde = 1
		}
		produtos[codigo] = qtde
	}
	return produtos
}

func primeiroNaoVazio(valores ...string) string {
	for _, v := range valores {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
