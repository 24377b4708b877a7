// internal/core/pipeline/reatribuicao.go
package pipeline

import (
	"strings"
	"time"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// Identidade sintética das vendas de balcão centralizadas em SP.
const (
	codVendedorBalcaoSP  = "BALCAO_SP"
	nomeVendedorBalcaoSP = "BALCAO SP"
	supervisorBalcao     = "BALCAO"
)

// Identidade sintética das vendas da conta Americanas.
const (
	codVendedorAmericanas  = "AMERICANAS"
	nomeVendedorAmericanas = "AMERICANAS"
	supervisorAmericanas   = "AMERICANAS"
	marcaAmericanas        = "AMERICANAS"
)

// Par (cliente, vendedor) cujo faturamento foi migrado para o cartão de
// cliente do balcão: além da identidade, o próprio código do cliente muda.
const (
	codClienteParBalcao  = "8370"
	codVendedorParBalcao = "35"
	codClienteBalcao     = "6421"
)

// Clientes atendidos diretamente pelo balcão, independentemente do vendedor
// que digitou o pedido.
var clientesBalcao = map[string]bool{
	"6421":  true,
	"7230":  true,
	"11125": true,
}

// Ajuste pontual: pedidos deste cliente em dezembro/2025 saíram pela filial
// 05, mesmo que o mapa de cidades diga outra coisa.
const (
	codClienteAjusteDez = "7523"
	filialAjusteDez     = "05"
	anoAjusteDez        = 2025
	mesAjusteDez        = time.December
)

// Reatribuidor reescreve filial, vendedor e supervisor de cada venda para
// refletir a estrutura comercial atual, e não quem digitou o pedido.
type Reatribuidor struct {
	filialPorCidade map[string]string
	clientes        map[string]InfoCliente
	mapas           *Mapas
	casos           []casoEspecial
}

// contextoVenda carrega o estado por linha que os casos especiais consultam.
type contextoVenda struct {
	linha      domain.Linha
	codCli     string
	cliente    InfoCliente
	noCadastro bool
	rca1       string
	inativo    bool
}

// casoEspecial é um par predicado/transformação; o primeiro que casar aplica a
// identidade final da linha.
type casoEspecial struct {
	quando  func(*contextoVenda) bool
	aplicar func(*contextoVenda)
}

func NewReatribuidor(filialPorCidade map[string]string, clientes map[string]InfoCliente, mapas *Mapas) *Reatribuidor {
	r := &Reatribuidor{
		filialPorCidade: filialPorCidade,
		clientes:        clientes,
		mapas:           mapas,
	}
	r.casos = []casoEspecial{
		{quando: r.ehParBalcao, aplicar: r.aplicarParBalcao},
		{quando: r.ehClienteBalcao, aplicar: r.aplicarBalcao},
		{quando: r.ehAmericanas, aplicar: r.aplicarAmericanas},
		{quando: func(ctx *contextoVenda) bool { return ctx.inativo }, aplicar: r.aplicarInativo},
		{quando: func(*contextoVenda) bool { return true }, aplicar: r.aplicarAtivo},
	}
	return r
}

// Reatribuir devolve cópias das linhas com filial, vendedor e supervisor
// reescritos. As linhas de entrada não são alteradas.
func (r *Reatribuidor) Reatribuir(linhas []domain.Linha) []domain.Linha {
	resultado := make([]domain.Linha, len(linhas))
	for i, linha := range linhas {
		resultado[i] = r.reatribuirLinha(linha)
	}
	return resultado
}

func (r *Reatribuidor) reatribuirLinha(linha domain.Linha) domain.Linha {
	nova := copiarLinha(linha)

	// 1. O mapa cidade->filial vindo da configuração manda na filial.
	municipio := strings.ToUpper(strings.TrimSpace(nova[domain.ColMunicipio]))
	if filial, ok := r.filialPorCidade[municipio]; ok && filial != "" {
		nova[domain.ColFilial] = filial
	}

	// 2. O ajuste de dezembro/2025 passa por cima do mapa.
	codCli := strings.TrimSpace(nova[domain.ColCodCliente])
	if codCli == codClienteAjusteDez && caiEmDezembro2025(nova) {
		nova[domain.ColFilial] = filialAjusteDez
	}

	// 3. Situação cadastral do cliente.
	ctx := &contextoVenda{linha: nova, codCli: codCli}
	ctx.cliente, ctx.noCadastro = r.clientes[codCli]
	if ctx.noCadastro {
		ctx.rca1 = strings.TrimSpace(ctx.cliente.RCA1)
	}
	ctx.inativo = !ctx.noCadastro || ctx.rca1 == rcaInativos

	// 4. Primeiro caso que casa define vendedor e supervisor.
	for _, caso := range r.casos {
		if caso.quando(ctx) {
			caso.aplicar(ctx)
			break
		}
	}
	return ctx.linha
}

func (r *Reatribuidor) ehParBalcao(ctx *contextoVenda) bool {
	return ctx.codCli == codClienteParBalcao &&
		strings.TrimSpace(ctx.linha[domain.ColCodVendedor]) == codVendedorParBalcao
}

func (r *Reatribuidor) aplicarParBalcao(ctx *contextoVenda) {
	ctx.linha[domain.ColCodCliente] = codClienteBalcao
	r.aplicarBalcao(ctx)
}

func (r *Reatribuidor) ehClienteBalcao(ctx *contextoVenda) bool {
	return clientesBalcao[ctx.codCli]
}

func (r *Reatribuidor) aplicarBalcao(ctx *contextoVenda) {
	ctx.linha[domain.ColCodVendedor] = codVendedorBalcaoSP
	ctx.linha[domain.ColNome] = nomeVendedorBalcaoSP
	ctx.linha[domain.ColSupervisor] = supervisorBalcao
}

// ehAmericanas procura a marca no nome fantasia ou na razão social; quando o
// cliente não está no cadastro, vale o que a própria linha de venda traz.
func (r *Reatribuidor) ehAmericanas(ctx *contextoVenda) bool {
	var candidatos []string
	if ctx.noCadastro {
		candidatos = []string{ctx.cliente.Nome, ctx.cliente.RazaoSocial}
	} else {
		candidatos = []string{
			ctx.linha[domain.ColCliente],
			ctx.linha[domain.ColNomeCliente],
			ctx.linha[domain.ColRazaoSocial],
		}
	}
	for _, nome := range candidatos {
		if strings.Contains(strings.ToUpper(nome), marcaAmericanas) {
			return true
		}
	}
	return false
}

func (r *Reatribuidor) aplicarAmericanas(ctx *contextoVenda) {
	ctx.linha[domain.ColCodVendedor] = codVendedorAmericanas
	ctx.linha[domain.ColNome] = nomeVendedorAmericanas
	ctx.linha[domain.ColSupervisor] = supervisorAmericanas
}

// aplicarInativo atribui a venda por inferência geográfica: o supervisor que
// domina as cidades do último vendedor do cliente, senão o predominante do
// município da própria venda, senão o rótulo INATIVOS.
func (r *Reatribuidor) aplicarInativo(ctx *contextoVenda) {
	supervisor := ""
	if ultimoVendedor, ok := r.mapas.UltimoVendedorPorCliente[ctx.codCli]; ok {
		if s, ok := r.mapas.SupervisorPorVendedor(ultimoVendedor); ok {
			supervisor = s
		}
	}
	if supervisor == "" {
		municipio := strings.ToUpper(strings.TrimSpace(ctx.linha[domain.ColMunicipio]))
		supervisor = r.mapas.SupervisorPredominante[municipio]
	}
	if supervisor == "" {
		supervisor = "INATIVOS"
	}

	ctx.linha[domain.ColSupervisor] = supervisor
	ctx.linha[domain.ColCodVendedor] = "INAT_" + SintetizarCodigo(supervisor)
	ctx.linha[domain.ColNome] = "INATIVOS " + supervisor
}

// aplicarAtivo usa o RCA do cadastro como dono da venda, com o nome e o
// supervisor correntes do mapa mestre. RCA vazio deixa a linha como veio; RCA
// fora do mapa fica marcado como desconhecido.
func (r *Reatribuidor) aplicarAtivo(ctx *contextoVenda) {
	if ctx.rca1 == "" {
		return
	}
	if info, ok := r.mapas.Vendedores[ctx.rca1]; ok {
		ctx.linha[domain.ColCodVendedor] = ctx.rca1
		ctx.linha[domain.ColNome] = info.Nome
		ctx.linha[domain.ColSupervisor] = info.Supervisor
		return
	}
	ctx.linha[domain.ColCodVendedor] = ctx.rca1
	ctx.linha[domain.ColNome] = "Desconhecido"
	ctx.linha[domain.ColSupervisor] = "Desconhecido"
}

// caiEmDezembro2025 usa a data de pedido já reconciliada com a de saída; sem
// data de pedido, vale a de saída.
func caiEmDezembro2025(linha domain.Linha) bool {
	data := dataPedidoCorrigida(linha)
	if data == nil {
		data = ParseData(linha[domain.ColDtSaida])
	}
	return data != nil && data.Year() == anoAjusteDez && data.Month() == mesAjusteDez
}

// dataPedidoCorrigida aplica o invariante de que o pedido nunca é anterior ao
// mês da saída: quando é, a data do pedido passa a ser a da saída.
func dataPedidoCorrigida(linha domain.Linha) *time.Time {
	pedido := ParseData(linha[domain.ColDtPedido])
	saida := ParseData(linha[domain.ColDtSaida])
	if pedido != nil && saida != nil {
		if pedido.Year() < saida.Year() ||
			(pedido.Year() == saida.Year() && pedido.Month() < saida.Month()) {
			return saida
		}
	}
	return pedido
}
