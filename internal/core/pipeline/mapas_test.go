package pipeline

import (
	"testing"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

func linhaVenda(campos map[string]string) domain.Linha {
	linha := make(domain.Linha, len(campos))
	for k, v := range campos {
		linha[k] = v
	}
	return linha
}

func TestConstruirMapasPosseVendedor(t *testing.T) {
	// A segunda linha é mais antiga; a ordenação por data deve colocá-la
	// antes, e o nome em branco da linha mais nova não pode apagar o nome já
	// conhecido.
	todas := []domain.Linha{
		linhaVenda(map[string]string{
			"CODUSUR": "112", "NOME": "", "SUPERV": "ANA SILVA",
			"CODCLI": "200", "MUNICIPIO": "SAO PAULO", "DTPED": "10/06/2025",
		}),
		linhaVenda(map[string]string{
			"CODUSUR": "112", "NOME": "CARLOS ANDRADE", "SUPERV": "PEDRO LIMA",
			"CODCLI": "300", "MUNICIPIO": "CAMPINAS", "DTPED": "10/01/2025",
		}),
	}

	mapas := ConstruirMapas(todas, nil, nil)

	info, ok := mapas.Vendedores["112"]
	if !ok {
		t.Fatal("vendedor 112 deveria estar no mapa")
	}
	if info.Nome != "CARLOS ANDRADE" {
		t.Errorf("nome em branco não deveria sobrescrever: veio %q", info.Nome)
	}
	if info.Supervisor != "ANA SILVA" {
		t.Errorf("supervisor mais recente deveria vencer: veio %q", info.Supervisor)
	}

	if ultimo := mapas.UltimoVendedorPorCliente["200"]; ultimo != "112" {
		t.Errorf("último vendedor do cliente 200 deveria ser 112, veio %q", ultimo)
	}

	cidades := mapas.CidadesPorVendedor["112"]
	if len(cidades) != 2 || cidades[0] != "CAMPINAS" || cidades[1] != "SAO PAULO" {
		t.Errorf("cidades do vendedor 112 erradas: %v", cidades)
	}
}

func TestConstruirMapasCorrigeSupervisor(t *testing.T) {
	todas := []domain.Linha{
		linhaVenda(map[string]string{
			"CODUSUR": "7", "NOME": "LOJA", "SUPERV": "OSÉAS SANTOS OL",
			"CODCLI": "1", "MUNICIPIO": "SANTOS", "DTPED": "10/01/2025",
		}),
	}
	mapas := ConstruirMapas(todas, nil, nil)
	if sup := mapas.Vendedores["7"].Supervisor; sup != "OSVALDO NUNES O" {
		t.Errorf("grafia não corrigida: %q", sup)
	}
}

func TestVotosPorCidade(t *testing.T) {
	clientes := map[string]InfoCliente{
		"200": {RCA1: "112"},
		"300": {RCA1: "113"},
	}
	mesAtual := []domain.Linha{
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "SANTOS", "SUPERV": "ANA SILVA"}),
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "SANTOS", "SUPERV": "ANA SILVA"}),
		linhaVenda(map[string]string{"CODCLI": "300", "MUNICIPIO": "SANTOS", "SUPERV": "PEDRO LIMA"}),
		// Cliente fora do cadastro não vota.
		linhaVenda(map[string]string{"CODCLI": "999", "MUNICIPIO": "SANTOS", "SUPERV": "PEDRO LIMA"}),
		// Balcão e INATIVOS nunca votam.
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "SANTOS", "SUPERV": "BALCÃO"}),
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "SANTOS", "SUPERV": "INATIVOS"}),
	}

	mapas := ConstruirMapas(nil, mesAtual, clientes)

	if obtido := mapas.SupervisorPredominante["SANTOS"]; obtido != "ANA SILVA" {
		t.Errorf("predominante em SANTOS deveria ser ANA SILVA, veio %q", obtido)
	}
}

func TestPredominanteEmpateFicaComPrimeiro(t *testing.T) {
	clientes := map[string]InfoCliente{"200": {}}
	mesAtual := []domain.Linha{
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "ITU", "SUPERV": "ANA SILVA"}),
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "ITU", "SUPERV": "PEDRO LIMA"}),
	}
	mapas := ConstruirMapas(nil, mesAtual, clientes)
	if obtido := mapas.SupervisorPredominante["ITU"]; obtido != "ANA SILVA" {
		t.Errorf("empate deveria ficar com o primeiro visto, veio %q", obtido)
	}
}

func TestSupervisorPorVendedorAgregaCidades(t *testing.T) {
	clientes := map[string]InfoCliente{"200": {}, "300": {}}
	todas := []domain.Linha{
		linhaVenda(map[string]string{
			"CODUSUR": "55", "NOME": "X", "SUPERV": "ANA SILVA",
			"CODCLI": "200", "MUNICIPIO": "SANTOS", "DTPED": "10/01/2025",
		}),
		linhaVenda(map[string]string{
			"CODUSUR": "55", "NOME": "X", "SUPERV": "ANA SILVA",
			"CODCLI": "300", "MUNICIPIO": "ITU", "DTPED": "11/01/2025",
		}),
	}
	mesAtual := []domain.Linha{
		linhaVenda(map[string]string{"CODCLI": "200", "MUNICIPIO": "SANTOS", "SUPERV": "PEDRO LIMA"}),
		linhaVenda(map[string]string{"CODCLI": "300", "MUNICIPIO": "ITU", "SUPERV": "ANA SILVA"}),
		linhaVenda(map[string]string{"CODCLI": "300", "MUNICIPIO": "ITU", "SUPERV": "ANA SILVA"}),
	}

	mapas := ConstruirMapas(todas, mesAtual, clientes)

	supervisor, ok := mapas.SupervisorPorVendedor("55")
	if !ok {
		t.Fatal("esperava votos para o vendedor 55")
	}
	if supervisor != "ANA SILVA" {
		t.Errorf("soma entre cidades deveria eleger ANA SILVA, veio %q", supervisor)
	}

	if _, ok := mapas.SupervisorPorVendedor("inexistente"); ok {
		t.Error("vendedor sem cidades não deveria ter supervisor")
	}
}
