// internal/domain/models.go
package domain

import "io"

// Linha representa uma linha crua de planilha/CSV: cabeçalho -> valor textual.
// Valores ausentes ficam como string vazia.
type Linha map[string]string

// Colunas das planilhas de vendas exportadas pelo ERP.
const (
	ColPedido        = "PEDIDO"
	ColNome          = "NOME"
	ColSupervisor    = "SUPERV"
	ColProduto       = "PRODUTO"
	ColDescricao     = "DESCRICAO"
	ColFornecedor    = "FORNECEDOR"
	ColObservacaoFor = "OBSERVACAOFOR"
	ColCodFornecedor = "CODFOR"
	ColCodVendedor   = "CODUSUR"
	ColCodCliente    = "CODCLI"
	ColCliente       = "CLIENTE"
	ColNomeCliente   = "NOMECLIENTE"
	ColRazaoSocial   = "RAZAOSOCIAL"
	ColMunicipio     = "MUNICIPIO"
	ColBairro        = "BAIRRO"
	ColQtVenda       = "QTVENDA"
	ColVlVenda       = "VLVENDA"
	ColVlBonific     = "VLBONIFIC"
	ColVlDevolucao   = "VLDEVOLUCAO"
	ColTotPesoLiq    = "TOTPESOLIQ"
	ColDtPedido      = "DTPED"
	ColDtSaida       = "DTSAIDA"
	ColPosicao       = "POSICAO"
	ColFilial        = "FILIAL"
	ColCodSupervisor = "CODSUPERVISOR"
	ColEstoqueUnit   = "ESTOQUEUNIT"
	ColTipoVenda     = "TIPOVENDA"
)

// Venda é a projeção tipada de uma linha de venda depois da normalização.
// Os campos descritivos (nomes, bairro, descrição) ainda estão presentes;
// eles alimentam a extração de dimensões e são descartados na finalização.
type Venda struct {
	Pedido           string  `json:"pedido"`
	Nome             string  `json:"nome"`
	Supervisor       string  `json:"superv"`
	Produto          string  `json:"produto"`
	Descricao        string  `json:"descricao"`
	Fornecedor       string  `json:"fornecedor"`
	ObservacaoFor    string  `json:"observacaofor"`
	CodFornecedor    string  `json:"codfor"`
	CodVendedor      string  `json:"codusur"`
	CodCliente       string  `json:"codcli"`
	ClienteNome      string  `json:"cliente_nome"`
	Cidade           string  `json:"cidade"`
	Bairro           string  `json:"bairro"`
	QtVenda          int     `json:"qtvenda"`
	VlVenda          float64 `json:"vlvenda"`
	VlBonific        float64 `json:"vlbonific"`
	VlDevolucao      float64 `json:"vldevolucao"`
	TotPesoLiq       float64 `json:"totpesoliq"`
	DtPedido         *string `json:"dtped"`
	DtSaida          *string `json:"dtsaida"`
	Posicao          string  `json:"posicao"`
	Filial           string  `json:"filial"`
	CodSupervisor    string  `json:"codsupervisor"`
	EstoqueUnit      float64 `json:"estoqueunit"`
	QtVendaEmbMaster float64 `json:"qtvenda_embalagem_master"`
	TipoVenda        string  `json:"tipovenda"`
}

// VendaDetalhada é a forma enviada para a tabela do mês corrente: mantém os
// códigos de junção e os campos editáveis, sem os textos denormalizados.
type VendaDetalhada struct {
	Pedido           string  `json:"pedido"`
	Produto          string  `json:"produto"`
	CodFornecedor    string  `json:"codfor"`
	CodVendedor      string  `json:"codusur"`
	CodCliente       string  `json:"codcli"`
	Cidade           string  `json:"cidade"`
	QtVenda          int     `json:"qtvenda"`
	VlVenda          float64 `json:"vlvenda"`
	VlBonific        float64 `json:"vlbonific"`
	VlDevolucao      float64 `json:"vldevolucao"`
	TotPesoLiq       float64 `json:"totpesoliq"`
	DtPedido         *string `json:"dtped"`
	DtSaida          *string `json:"dtsaida"`
	Posicao          string  `json:"posicao"`
	Filial           string  `json:"filial"`
	CodSupervisor    string  `json:"codsupervisor"`
	EstoqueUnit      float64 `json:"estoqueunit"`
	QtVendaEmbMaster float64 `json:"qtvenda_embalagem_master"`
	TipoVenda        string  `json:"tipovenda"`
}

// VendaHistorica é a forma enxuta dos dois períodos históricos: sem pedido,
// posição, estoque unitário e quantidade em embalagem master.
type VendaHistorica struct {
	Produto       string  `json:"produto"`
	CodFornecedor string  `json:"codfor"`
	CodVendedor   string  `json:"codusur"`
	CodCliente    string  `json:"codcli"`
	Cidade        string  `json:"cidade"`
	QtVenda       int     `json:"qtvenda"`
	VlVenda       float64 `json:"vlvenda"`
	VlBonific     float64 `json:"vlbonific"`
	VlDevolucao   float64 `json:"vldevolucao"`
	TotPesoLiq    float64 `json:"totpesoliq"`
	DtPedido      *string `json:"dtped"`
	DtSaida       *string `json:"dtsaida"`
	Filial        string  `json:"filial"`
	CodSupervisor string  `json:"codsupervisor"`
	TipoVenda     string  `json:"tipovenda"`
}

// Cliente é a linha enviada para a tabela de clientes.
type Cliente struct {
	CodigoCliente string  `json:"codigo_cliente"`
	RCA1          string  `json:"rca1"`
	Cidade        string  `json:"cidade"`
	NomeCliente   string  `json:"nomecliente"`
	Bairro        string  `json:"bairro"`
	RazaoSocial   string  `json:"razaosocial"`
	Fantasia      string  `json:"fantasia"`
	Ramo          string  `json:"ramo"`
	UltimaCompra  *string `json:"ultimacompra"`
	Bloqueio      string  `json:"bloqueio"`
}

// Dimensao é um par código/nome para upsert nas tabelas de dimensão.
type Dimensao struct {
	Codigo string `json:"codigo"`
	Nome   string `json:"nome"`
}

// Payload é o resultado final devolvido ao chamador para envio em lote.
type Payload struct {
	History        []VendaHistorica `json:"history"`
	Detailed       []VendaDetalhada `json:"detailed"`
	Clients        []Cliente        `json:"clients"`
	NewCities      []string         `json:"newCities"`
	NewSupervisors []Dimensao       `json:"newSupervisors"`
	NewVendors     []Dimensao       `json:"newVendors"`
	NewProviders   []Dimensao       `json:"newProviders"`
}

// Tipos de mensagem emitidos pelo worker durante um lote.
const (
	MensagemProgresso = "progress"
	MensagemResultado = "result"
	MensagemErro      = "error"
)

// Mensagem é a unidade de comunicação assíncrona do worker com o chamador:
// zero ou mais mensagens de progresso e exatamente uma terminal.
type Mensagem struct {
	Tipo       string   `json:"type"`
	Status     string   `json:"status,omitempty"`
	Percentual float64  `json:"percentage,omitempty"`
	Dados      *Payload `json:"data,omitempty"`
	Erro       string   `json:"message,omitempty"`
}

// Arquivo associa um leitor ao nome original do upload (a extensão decide o
// formato de leitura).
type Arquivo struct {
	Nome     string
	Conteudo io.Reader
}

// Entrada reúne os cinco arquivos de um lote e o mapa cidade->filial vindo da
// tabela de configuração remota. Qualquer arquivo pode ser nil.
type Entrada struct {
	VendasAnoAnterior *Arquivo
	VendasAnoAtual    *Arquivo
	VendasMesAtual    *Arquivo
	Clientes          *Arquivo
	Produtos          *Arquivo
	FilialPorCidade   map[string]string
}
