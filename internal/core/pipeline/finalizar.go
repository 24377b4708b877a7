// internal/core/pipeline/finalizar.go
package pipeline

import (
	"strings"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// Vendas bonificadas por tipo: o valor é brinde, não receita.
var tiposBonificacao = map[string]bool{"5": true, "11": true}

// NormalizarVendas projeta as linhas cruas já reatribuídas no modelo tipado:
// datas reconciliadas, números em formato brasileiro convertidos, filial com
// zero à esquerda e quantidade em embalagem master calculada.
func NormalizarVendas(linhas []domain.Linha, clientes map[string]InfoCliente, produtos map[string]int) []domain.Venda {
	vendas := make([]domain.Venda, 0, len(linhas))
	for _, linha := range linhas {
		codCli := strings.TrimSpace(linha[domain.ColCodCliente])
		info, noCadastro := clientes[codCli]

		pedido := dataPedidoCorrigida(linha)
		saida := ParseData(linha[domain.ColDtSaida])

		produto := strings.TrimSpace(linha[domain.ColProduto])
		qtdeMaster := produtos[produto]
		if qtdeMaster <= 0 {
			qtdeMaster = 1
		}
		qtVenda := ParseInteiro(linha[domain.ColQtVenda])

		venda := domain.Venda{
			Pedido:           linha[domain.ColPedido],
			Nome:             linha[domain.ColNome],
			Supervisor:       CorrigirSupervisor(linha[domain.ColSupervisor]),
			Produto:          produto,
			Descricao:        linha[domain.ColDescricao],
			Fornecedor:       linha[domain.ColFornecedor],
			ObservacaoFor:    strings.TrimSpace(linha[domain.ColObservacaoFor]),
			CodFornecedor:    strings.TrimSpace(linha[domain.ColCodFornecedor]),
			CodVendedor:      linha[domain.ColCodVendedor],
			CodCliente:       codCli,
			ClienteNome:      nomeCliente(linha, info, noCadastro),
			Cidade:           cidadeCliente(linha, info, noCadastro),
			Bairro:           bairroCliente(linha, info, noCadastro),
			QtVenda:          qtVenda,
			VlVenda:          ParseNumeroBR(linha[domain.ColVlVenda]),
			VlBonific:        ParseNumeroBR(linha[domain.ColVlBonific]),
			VlDevolucao:      ParseNumeroBR(linha[domain.ColVlDevolucao]),
			TotPesoLiq:       ParseNumeroBR(linha[domain.ColTotPesoLiq]),
			DtPedido:         FormatarISO(pedido),
			DtSaida:          FormatarISO(saida),
			Posicao:          linha[domain.ColPosicao],
			Filial:           NormalizarFilial(linha[domain.ColFilial]),
			CodSupervisor:    strings.TrimSpace(linha[domain.ColCodSupervisor]),
			EstoqueUnit:      ParseNumeroBR(linha[domain.ColEstoqueUnit]),
			QtVendaEmbMaster: float64(qtVenda) / float64(qtdeMaster),
			TipoVenda:        strings.TrimSpace(linha[domain.ColTipoVenda]),
		}
		vendas = append(vendas, venda)
	}
	return vendas
}

func nomeCliente(linha domain.Linha, info InfoCliente, noCadastro bool) string {
	if noCadastro && strings.TrimSpace(info.Nome) != "" {
		return info.Nome
	}
	nome := primeiroNaoVazio(
		linha[domain.ColCliente],
		linha[domain.ColNomeCliente],
		linha[domain.ColRazaoSocial],
		"N/A",
	)
	return strings.ToUpper(nome)
}

func cidadeCliente(linha domain.Linha, info InfoCliente, noCadastro bool) string {
	if noCadastro && strings.TrimSpace(info.Cidade) != "" {
		return info.Cidade
	}
	return strings.ToUpper(primeiroNaoVazio(linha[domain.ColMunicipio], "N/A"))
}

func bairroCliente(linha domain.Linha, info InfoCliente, noCadastro bool) string {
	if noCadastro && strings.TrimSpace(info.Bairro) != "" {
		return info.Bairro
	}
	return strings.ToUpper(primeiroNaoVazio(linha[domain.ColBairro], "N/A"))
}

// reclassificarBonificacao move a receita de tipos de venda bonificados para o
// campo de bonificação.
func reclassificarBonificacao(venda domain.Venda) domain.Venda {
	if tiposBonificacao[venda.TipoVenda] && venda.VlVenda > 0 {
		venda.VlBonific += venda.VlVenda
		venda.VlVenda = 0
	}
	return venda
}

// FinalizarDetalhadas produz as linhas do mês corrente: sem os campos de texto
// denormalizados, mantendo pedido, posição e estoque, que só fazem sentido no
// período editável.
func FinalizarDetalhadas(vendas []domain.Venda) []domain.VendaDetalhada {
	resultado := make([]domain.VendaDetalhada, 0, len(vendas))
	for _, venda := range vendas {
		venda = reclassificarBonificacao(venda)
		resultado = append(resultado, domain.VendaDetalhada{
			Pedido:           venda.Pedido,
			Produto:          venda.Produto,
			CodFornecedor:    venda.CodFornecedor,
			CodVendedor:      venda.CodVendedor,
			CodCliente:       venda.CodCliente,
			Cidade:           venda.Cidade,
			QtVenda:          venda.QtVenda,
			VlVenda:          venda.VlVenda,
			VlBonific:        venda.VlBonific,
			VlDevolucao:      venda.VlDevolucao,
			TotPesoLiq:       venda.TotPesoLiq,
			DtPedido:         venda.DtPedido,
			DtSaida:          venda.DtSaida,
			Posicao:          venda.Posicao,
			Filial:           venda.Filial,
			CodSupervisor:    venda.CodSupervisor,
			EstoqueUnit:      venda.EstoqueUnit,
			QtVendaEmbMaster: venda.QtVendaEmbMaster,
			TipoVenda:        venda.TipoVenda,
		})
	}
	return resultado
}

// FinalizarHistoricas produz as linhas dos períodos fechados, que dispensam
// também pedido, posição, estoque unitário e embalagem master.
func FinalizarHistoricas(vendas []domain.Venda) []domain.VendaHistorica {
	resultado := make([]domain.VendaHistorica, 0, len(vendas))
	for _, venda := range vendas {
		venda = reclassificarBonificacao(venda)
		resultado = append(resultado, domain.VendaHistorica{
			Produto:       venda.Produto,
			CodFornecedor: venda.CodFornecedor,
			CodVendedor:   venda.CodVendedor,
			CodCliente:    venda.CodCliente,
			Cidade:        venda.Cidade,
			QtVenda:       venda.QtVenda,
			VlVenda:       venda.VlVenda,
			VlBonific:     venda.VlBonific,
			VlDevolucao:   venda.VlDevolucao,
			TotPesoLiq:    venda.TotPesoLiq,
			DtPedido:      venda.DtPedido,
			DtSaida:       venda.DtSaida,
			Filial:        venda.Filial,
			CodSupervisor: venda.CodSupervisor,
			TipoVenda:     venda.TipoVenda,
		})
	}
	return resultado
}
