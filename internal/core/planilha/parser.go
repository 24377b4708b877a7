// internal/core/planilha/parser.go
package planilha

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// LerArquivo materializa o conteúdo de um upload (CSV, XLSX ou XLS legado) em
// linhas cabeçalho->valor. Arquivo nil ou vazio resulta em zero linhas, sem
// erro: a ausência de um período é um estado válido do lote.
func LerArquivo(arquivo *domain.Arquivo) ([]domain.Linha, error) {
	if arquivo == nil || arquivo.Conteudo == nil {
		return nil, nil
	}

	dados, err := io.ReadAll(arquivo.Conteudo)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o arquivo '%s': %w", arquivo.Nome, err)
	}
	if len(dados) == 0 {
		return nil, nil
	}

	switch strings.ToLower(filepath.Ext(arquivo.Nome)) {
	case ".csv":
		return lerCSV(dados)
	case ".xls":
		return lerXLS(dados)
	default:
		return lerXLSX(dados)
	}
}

// lerCSV tolera arquivos fora do RFC-4180 (aspas soltas, linhas com menos
// colunas que o cabeçalho), como os exports do ERP costumam vir.
func lerCSV(dados []byte) ([]domain.Linha, error) {
	texto, err := decodificar(dados)
	if err != nil {
		return nil, err
	}

	var linhas []string
	for _, l := range strings.Split(texto, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			linhas = append(linhas, l)
		}
	}
	if len(linhas) < 1 {
		return nil, nil
	}

	delimitador := ","
	if strings.Contains(linhas[0], ";") {
		delimitador = ";"
	}

	var cabecalhos []string
	for _, c := range strings.Split(strings.TrimSpace(linhas[0]), delimitador) {
		c = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
		c = strings.TrimPrefix(c, "\uFEFF")
		cabecalhos = append(cabecalhos, c)
	}

	resultado := make([]domain.Linha, 0, len(linhas)-1)
	for _, l := range linhas[1:] {
		valores := strings.Split(l, delimitador)
		linha := make(domain.Linha, len(cabecalhos))
		for i, cabecalho := range cabecalhos {
			if i < len(valores) {
				linha[cabecalho] = strings.ReplaceAll(valores[i], `"`, "")
			} else {
				linha[cabecalho] = ""
			}
		}
		resultado = append(resultado, linha)
	}
	return resultado, nil
}

// decodificar tenta UTF-8 e cai para ISO-8859-1 quando a sequência de bytes é
// inválida, espelhando o comportamento dos exports antigos em Latin-1.
func decodificar(dados []byte) (string, error) {
	if utf8.Valid(dados) {
		return string(dados), nil
	}
	decodificado, err := charmap.ISO8859_1.NewDecoder().Bytes(dados)
	if err != nil {
		return "", fmt.Errorf("erro ao decodificar CSV como ISO-8859-1: %w", err)
	}
	return string(decodificado), nil
}

func lerXLSX(dados []byte) ([]domain.Linha, error) {
	f, err := excelize.OpenReader(bytes.NewReader(dados))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir planilha: %w", err)
	}
	defer f.Close()

	abas := f.GetSheetList()
	if len(abas) == 0 {
		return nil, nil
	}

	// Valores crus: células de data chegam como serial numérico e são
	// convertidas adiante pelo normalizador.
	linhas, err := f.GetRows(abas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a aba '%s': %w", abas[0], err)
	}
	return montarLinhas(linhas), nil
}

func lerXLS(dados []byte) ([]domain.Linha, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(dados))
	if err != nil {
		// Alguns sistemas exportam XLSX com extensão .xls.
		if _, errX := excelize.OpenReader(bytes.NewReader(dados)); errX == nil {
			return lerXLSX(dados)
		}
		return nil, fmt.Errorf("erro ao abrir planilha XLS: %w", err)
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, nil
	}

	var linhas [][]string
	for _, row := range sheets[0].GetRows() {
		var valores []string
		for _, cell := range row.GetCols() {
			valores = append(valores, cell.GetString())
		}
		linhas = append(linhas, valores)
	}
	return montarLinhas(linhas), nil
}

// montarLinhas converte a matriz de células em linhas mapeadas, usando a
// primeira linha não vazia como cabeçalho.
func montarLinhas(linhas [][]string) []domain.Linha {
	inicio := -1
	for i, l := range linhas {
		if len(l) > 0 {
			inicio = i
			break
		}
	}
	if inicio == -1 {
		return nil
	}

	cabecalhos := make([]string, len(linhas[inicio]))
	for i, c := range linhas[inicio] {
		cabecalhos[i] = strings.TrimPrefix(strings.TrimSpace(c), "\uFEFF")
	}

	var resultado []domain.Linha
	for _, valores := range linhas[inicio+1:] {
		vazia := true
		linha := make(domain.Linha, len(cabecalhos))
		for i, cabecalho := range cabecalhos {
			if cabecalho == "" {
				continue
			}
			if i < len(valores) {
				linha[cabecalho] = valores[i]
				if strings.TrimSpace(valores[i]) != "" {
					vazia = false
				}
			} else {
				linha[cabecalho] = ""
			}
		}
		if !vazia {
			resultado = append(resultado, linha)
		}
	}
	return resultado
}
