// internal/core/pipeline/service.go
package pipeline

import (
	"context"
	"strings"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/planilha"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
	"go.uber.org/zap"
)

// ProgressoFunc recebe os marcos de andamento do lote. Pode ser nil.
type ProgressoFunc func(status string, percentual float64)

// BuscadorMunicipios abstrai a consulta ao registro de municípios, trocável
// nos testes.
type BuscadorMunicipios interface {
	BuscarMunicipios(ctx context.Context) (map[string]string, error)
}

// Service executa o lote completo de reconciliação: leitura, filtros,
// resolução geográfica, mapas de posse, reatribuição, finalização e montagem
// do payload.
type Service interface {
	Processar(ctx context.Context, entrada domain.Entrada, progresso ProgressoFunc) (*domain.Payload, error)
}

type service struct {
	ibge BuscadorMunicipios
	log  *zap.Logger
}

func NewService(ibge BuscadorMunicipios, log *zap.Logger) Service {
	return &service{ibge: ibge, log: log}
}

func (s *service) Processar(ctx context.Context, entrada domain.Entrada, progresso ProgressoFunc) (*domain.Payload, error) {
	notificar := func(status string, percentual float64) {
		if progresso != nil {
			progresso(status, percentual)
		}
	}

	notificar("Lendo arquivos...", 5)
	anoAnterior, err := planilha.LerArquivo(entrada.VendasAnoAnterior)
	if err != nil {
		return nil, err
	}
	anoAtual, err := planilha.LerArquivo(entrada.VendasAnoAtual)
	if err != nil {
		return nil, err
	}
	mesAtual, err := planilha.LerArquivo(entrada.VendasMesAtual)
	if err != nil {
		return nil, err
	}
	cadastroClientes, err := planilha.LerArquivo(entrada.Clientes)
	if err != nil {
		return nil, err
	}
	cadastroProdutos, err := planilha.LerArquivo(entrada.Produtos)
	if err != nil {
		return nil, err
	}

	notificar("Filtrando vendas Pepsico e linhas inválidas...", 15)
	anoAnterior = filtrarVendas(anoAnterior)
	anoAtual = filtrarVendas(anoAtual)
	mesAtual = filtrarVendas(mesAtual)

	notificar("Verificando códigos IBGE...", 18)
	codigos := ColetarCodigosIBGE(anoAnterior, anoAtual, mesAtual)
	if len(codigos) > 0 {
		notificar("Buscando nomes de cidades (IBGE)...", 19)
		nomePorCodigo, err := s.ibge.BuscarMunicipios(ctx)
		if err != nil {
			// Degradação aceitável: os códigos seguem sem resolver.
			s.log.Warn("consulta ao IBGE falhou, códigos seguem sem resolução", zap.Error(err))
		}
		anoAnterior = ResolverMunicipios(anoAnterior, nomePorCodigo)
		anoAtual = ResolverMunicipios(anoAtual, nomePorCodigo)
		mesAtual = ResolverMunicipios(mesAtual, nomePorCodigo)
	}

	notificar("Mapeando cidades pelas vendas...", 19.5)
	cidadePorCliente := MapearCidadePorCliente(anoAnterior, anoAtual, mesAtual)

	notificar("Processando clientes...", 20)
	clientes, payloadClientes := ProcessarClientes(cadastroClientes, cidadePorCliente)

	notificar("Mapeando produtos...", 30)
	produtos := MapearProdutos(cadastroProdutos)

	notificar("Criando mapa mestre de vendedores...", 40)
	todas := make([]domain.Linha, 0, len(anoAnterior)+len(anoAtual)+len(mesAtual))
	todas = append(todas, anoAnterior...)
	todas = append(todas, anoAtual...)
	todas = append(todas, mesAtual...)
	mapas := ConstruirMapas(todas, mesAtual, clientes)

	notificar("Processando e Reatribuindo vendas...", 50)
	filialPorCidade := normalizarMapaFilial(entrada.FilialPorCidade)
	reatribuidor := NewReatribuidor(filialPorCidade, clientes, mapas)

	vendasAnoAnterior := NormalizarVendas(reatribuidor.Reatribuir(anoAnterior), clientes, produtos)
	vendasAnoAtual := NormalizarVendas(reatribuidor.Reatribuir(anoAtual), clientes, produtos)
	vendasMesAtual := NormalizarVendas(reatribuidor.Reatribuir(mesAtual), clientes, produtos)

	notificar("Preparando dados para envio...", 90)
	historico := FinalizarHistoricas(vendasAnoAnterior)
	historico = append(historico, FinalizarHistoricas(vendasAnoAtual)...)
	detalhadas := FinalizarDetalhadas(vendasMesAtual)

	supervisores, vendedores, fornecedores := ExtrairDimensoes(vendasAnoAnterior, vendasAnoAtual, vendasMesAtual)

	payload := &domain.Payload{
		History:        historico,
		Detailed:       detalhadas,
		Clients:        payloadClientes,
		NewCities:      NovasCidades(filialPorCidade, anoAnterior, anoAtual, mesAtual),
		NewSupervisors: supervisores,
		NewVendors:     vendedores,
		NewProviders:   fornecedores,
	}

	s.log.Info("lote processado",
		zap.Int("historico", len(payload.History)),
		zap.Int("detalhado", len(payload.Detailed)),
		zap.Int("clientes", len(payload.Clients)),
		zap.Int("novasCidades", len(payload.NewCities)),
	)
	return payload, nil
}

// filtrarVendas mantém apenas as linhas da Pepsico com município preenchido;
// o resto é página de estoque ou linha quebrada do export.
func filtrarVendas(linhas []domain.Linha) []domain.Linha {
	resultado := make([]domain.Linha, 0, len(linhas))
	for _, linha := range linhas {
		observacao := strings.ToUpper(strings.TrimSpace(linha[domain.ColObservacaoFor]))
		municipio := strings.TrimSpace(linha[domain.ColMunicipio])
		if observacao == "PEPSICO" && municipio != "" {
			resultado = append(resultado, linha)
		}
	}
	return resultado
}

// normalizarMapaFilial garante chaves em caixa alta, como as cidades
// resolvidas.
func normalizarMapaFilial(original map[string]string) map[string]string {
	normalizado := make(map[string]string, len(original))
	for cidade, filial := range original {
		normalizado[strings.ToUpper(strings.TrimSpace(cidade))] = strings.TrimSpace(filial)
	}
	return normalizado
}
