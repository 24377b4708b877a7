// internal/core/pipeline/geografia.go
package pipeline

import (
	"strings"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
)

// ColetarCodigosIBGE varre o campo de município de todos os períodos e devolve
// os valores que têm cara de código IBGE, sem repetição.
func ColetarCodigosIBGE(periodos ...[]domain.Linha) []string {
	vistos := make(map[string]bool)
	var codigos []string
	for _, periodo := range periodos {
		for _, linha := range periodo {
			valor := strings.TrimSpace(linha[domain.ColMunicipio])
			if IsCodigoIBGE(valor) && !vistos[valor] {
				vistos[valor] = true
				codigos = append(codigos, valor)
			}
		}
	}
	return codigos
}

// ResolverMunicipios troca códigos IBGE pelo nome resolvido em caixa alta.
// Devolve linhas novas; as de entrada não são tocadas.
func ResolverMunicipios(linhas []domain.Linha, nomePorCodigo map[string]string) []domain.Linha {
	if len(nomePorCodigo) == 0 {
		return linhas
	}
	resultado := make([]domain.Linha, len(linhas))
	for i, linha := range linhas {
		valor := strings.TrimSpace(linha[domain.ColMunicipio])
		if nome, ok := nomePorCodigo[valor]; ok && IsCodigoIBGE(valor) {
			nova := copiarLinha(linha)
			nova[domain.ColMunicipio] = nome
			resultado[i] = nova
		} else {
			resultado[i] = linha
		}
	}
	return resultado
}

// MapearCidadePorCliente registra, na ordem ano anterior -> histórico do ano ->
// mês atual, o último município não vazio visto por cliente. Esse mapa é a
// fonte de verdade para a cidade do cliente, acima da cidade do cadastro.
func MapearCidadePorCliente(periodos ...[]domain.Linha) map[string]string {
	cidadePorCliente := make(map[string]string)
	for _, periodo := range periodos {
		for _, linha := range periodo {
			codCli := strings.TrimSpace(linha[domain.ColCodCliente])
			municipio := strings.ToUpper(strings.TrimSpace(linha[domain.ColMunicipio]))
			if codCli != "" && municipio != "" {
				cidadePorCliente[codCli] = municipio
			}
		}
	}
	return cidadePorCliente
}

func copiarLinha(linha domain.Linha) domain.Linha {
	nova := make(domain.Linha, len(linha))
	for k, v := range linha {
		nova[k] = v
	}
	return nova
}
