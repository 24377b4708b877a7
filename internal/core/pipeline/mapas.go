// internal/core/pipeline/mapas.go
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// InfoVendedor é o estado corrente de um vendedor, consolidado a partir do
// histórico completo de vendas.
type InfoVendedor struct {
	Nome       string
	Supervisor string
}

// contagemVotos preserva a ordem de primeira aparição dos supervisores para
// que empates sejam resolvidos de forma determinística.
type contagemVotos struct {
	votos map[string]int
	ordem []string
}

func (c *contagemVotos) somar(supervisor string) {
	if _, ok := c.votos[supervisor]; !ok {
		c.ordem = append(c.ordem, supervisor)
	}
	c.votos[supervisor]++
}

// Mapas reúne as estruturas derivadas de que a reatribuição depende. São
// reconstruídas do zero a cada lote e descartadas ao final.
type Mapas struct {
	Vendedores               map[string]InfoVendedor
	UltimoVendedorPorCliente map[string]string
	CidadesPorVendedor       map[string][]string
	VotosPorCidade           map[string]*contagemVotos
	SupervisorPredominante   map[string]string
}

// ConstruirMapas faz a passada única, ordenada por data de pedido, que
// alimenta os mapas de posse. Linhas sem data ordenam como época zero; a
// ordenação é estável para manter a ordem dos períodos nos empates.
func ConstruirMapas(todas []domain.Linha, mesAtual []domain.Linha, clientes map[string]InfoCliente) *Mapas {
	ordenadas := make([]domain.Linha, len(todas))
	copy(ordenadas, todas)
	sort.SliceStable(ordenadas, func(i, j int) bool {
		return dataPedido(ordenadas[i]).Before(dataPedido(ordenadas[j]))
	})

	m := &Mapas{
		Vendedores:               make(map[string]InfoVendedor),
		UltimoVendedorPorCliente: make(map[string]string),
		CidadesPorVendedor:       make(map[string][]string),
		VotosPorCidade:           make(map[string]*contagemVotos),
		SupervisorPredominante:   make(map[string]string),
	}

	cidadesVistas := make(map[string]map[string]bool)
	for _, linha := range ordenadas {
		codVendedor := strings.TrimSpace(linha[domain.ColCodVendedor])
		if codVendedor == "" {
			continue
		}

		nome := strings.TrimSpace(linha[domain.ColNome])
		supervisor := CorrigirSupervisor(linha[domain.ColSupervisor])

		// Último não vazio vence: uma linha posterior com campo em branco
		// não apaga o que já se sabe do vendedor.
		info, existe := m.Vendedores[codVendedor]
		if !existe {
			info = InfoVendedor{Nome: "N/A", Supervisor: "N/A"}
			if nome != "" {
				info.Nome = nome
			}
			if supervisor != "" {
				info.Supervisor = supervisor
			}
		} else {
			if nome != "" {
				info.Nome = nome
			}
			if supervisor != "" {
				info.Supervisor = supervisor
			}
		}
		m.Vendedores[codVendedor] = info

		if codCli := strings.TrimSpace(linha[domain.ColCodCliente]); codCli != "" {
			m.UltimoVendedorPorCliente[codCli] = codVendedor
		}

		if municipio := strings.ToUpper(strings.TrimSpace(linha[domain.ColMunicipio])); municipio != "" {
			if cidadesVistas[codVendedor] == nil {
				cidadesVistas[codVendedor] = make(map[string]bool)
			}
			if !cidadesVistas[codVendedor][municipio] {
				cidadesVistas[codVendedor][municipio] = true
				m.CidadesPorVendedor[codVendedor] = append(m.CidadesPorVendedor[codVendedor], municipio)
			}
		}
	}

	m.contarVotos(mesAtual, clientes)
	m.elegerPredominantes()
	return m
}

// contarVotos conta, só no mês atual, um voto por venda de cliente ativo para
// o supervisor daquela cidade. Balcão e a marcação INATIVOS ficam de fora.
func (m *Mapas) contarVotos(mesAtual []domain.Linha, clientes map[string]InfoCliente) {
	for _, linha := range mesAtual {
		codCli := strings.TrimSpace(linha[domain.ColCodCliente])
		if _, ativo := clientes[codCli]; !ativo {
			continue
		}

		municipio := strings.ToUpper(strings.TrimSpace(linha[domain.ColMunicipio]))
		supervisor := strings.TrimSpace(linha[domain.ColSupervisor])
		if municipio == "" || supervisor == "" {
			continue
		}
		if strings.ToUpper(supervisor) == "INATIVOS" {
			continue
		}
		supervisor = CorrigirSupervisor(supervisor)
		if supervisor == "BALCAO" {
			continue
		}

		contagem := m.VotosPorCidade[municipio]
		if contagem == nil {
			contagem = &contagemVotos{votos: make(map[string]int)}
			m.VotosPorCidade[municipio] = contagem
		}
		contagem.somar(supervisor)
	}
}

// elegerPredominantes escolhe por cidade o supervisor com mais votos; só uma
// contagem estritamente maior desbanca o atual, então o primeiro visto ganha
// os empates.
func (m *Mapas) elegerPredominantes() {
	for municipio, contagem := range m.VotosPorCidade {
		melhor := "N/A"
		maior := 0
		for _, supervisor := range contagem.ordem {
			if contagem.votos[supervisor] > maior {
				maior = contagem.votos[supervisor]
				melhor = supervisor
			}
		}
		m.SupervisorPredominante[municipio] = melhor
	}
}

// SupervisorPorVendedor agrega os votos de todas as cidades já atendidas pelo
// vendedor e devolve o supervisor com maior soma. O segundo retorno indica se
// houve algum voto.
func (m *Mapas) SupervisorPorVendedor(codVendedor string) (string, bool) {
	cidades := m.CidadesPorVendedor[codVendedor]
	if len(cidades) == 0 {
		return "", false
	}

	soma := make(map[string]int)
	var ordem []string
	for _, cidade := range cidades {
		contagem := m.VotosPorCidade[cidade]
		if contagem == nil {
			continue
		}
		for _, supervisor := range contagem.ordem {
			if _, ok := soma[supervisor]; !ok {
				ordem = append(ordem, supervisor)
			}
			soma[supervisor] += contagem.votos[supervisor]
		}
	}
	if len(ordem) == 0 {
		return "", false
	}

	melhor := ""
	maior := 0
	for _, supervisor := range ordem {
		if soma[supervisor] > maior {
			maior = soma[supervisor]
			melhor = supervisor
		}
	}
	return melhor, true
}

// dataPedido é a chave de ordenação cronológica; linhas sem data válida vão
// para o início.
func dataPedido(linha domain.Linha) time.Time {
	if t := ParseData(linha[domain.ColDtPedido]); t != nil {
		return *t
	}
	return time.Unix(0, 0).UTC()
}
