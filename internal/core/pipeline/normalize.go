// internal/core/pipeline/normalize.go
package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	regexCodigoIBGE   = regexp.MustCompile(`^\d{6,7}$`)
	regexMoeda        = regexp.MustCompile(`R\$\s?`)
	regexDataBR       = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	regexNaoAlfaNum   = regexp.MustCompile(`[^A-Z0-9]+`)
	formatoISOMilis   = "2006-01-02T15:04:05.000Z07:00"
	formatosGenericos = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006", // ano isolado vale 1º de janeiro
	}
)

// Serial de planilha: dias desde 1899-12-30. O dia 25569 corresponde à época
// Unix. Só a faixa 1970-9999 é aceita como serial; números menores (um ano
// isolado, por exemplo) seguem para os formatos textuais.
const (
	serialMinimo = 25569   // 1970-01-01
	serialMaximo = 2958465 // 9999-12-31
)

// ParseData aceita datas DD/MM/YYYY, seriais de planilha e formatos ISO
// genéricos. Qualquer outra coisa resulta em nil.
func ParseData(valor string) *time.Time {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return nil
	}

	if m := regexDataBR.FindStringSubmatch(valor); m != nil {
		t, err := time.Parse("02/01/2006", valor)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}

	if serial, err := strconv.ParseFloat(valor, 64); err == nil && serial >= serialMinimo && serial <= serialMaximo {
		milis := int64((serial - serialMinimo) * 86400 * 1000)
		t := time.UnixMilli(milis).UTC()
		return &t
	}

	for _, formato := range formatosGenericos {
		if t, err := time.Parse(formato, valor); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// FormatarISO devolve o instante no formato ISO com milissegundos, igual ao
// gravado na tabela remota; nil permanece nil.
func FormatarISO(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(formatoISOMilis)
	return &s
}

// ParseNumeroBR interpreta números em formato brasileiro ou americano,
// removendo o marcador de moeda. A posição relativa do último ponto e da
// última vírgula decide qual é o separador decimal. Entrada não numérica
// vale 0.
func ParseNumeroBR(valor string) float64 {
	limpo := strings.TrimSpace(regexMoeda.ReplaceAllString(valor, ""))
	if limpo == "" {
		return 0
	}

	ultimaVirgula := strings.LastIndex(limpo, ",")
	ultimoPonto := strings.LastIndex(limpo, ".")

	var numero string
	switch {
	case ultimaVirgula > ultimoPonto:
		numero = strings.ReplaceAll(limpo, ".", "")
		numero = strings.Replace(numero, ",", ".", 1)
	case ultimoPonto > ultimaVirgula:
		numero = strings.ReplaceAll(limpo, ",", "")
	default:
		numero = strings.Replace(limpo, ",", ".", 1)
	}

	resultado, err := strconv.ParseFloat(numero, 64)
	if err != nil {
		return 0
	}
	return resultado
}

// ParseInteiro lê um inteiro em base 10, com 0 como fallback.
func ParseInteiro(valor string) int {
	n, err := strconv.Atoi(strings.TrimSpace(valor))
	if err != nil {
		return 0
	}
	return n
}

// IsCodigoIBGE indica se o valor é um candidato a código de município: 6 ou 7
// dígitos, nada além.
func IsCodigoIBGE(valor string) bool {
	return regexCodigoIBGE.MatchString(strings.TrimSpace(valor))
}

// CorrigirSupervisor aplica as duas regras fixas de saneamento de nome: a
// grafia errada conhecida e a canonização das variações de balcão.
func CorrigirSupervisor(nome string) string {
	nome = strings.TrimSpace(nome)
	if strings.ToUpper(nome) == "OSÉAS SANTOS OL" {
		nome = "OSVALDO NUNES O"
	}
	if EhBalcao(nome) {
		nome = "BALCAO"
	}
	return nome
}

// EhBalcao reconhece qualquer variação de caixa de BALCAO/BALCÃO.
func EhBalcao(nome string) bool {
	maiusculo := strings.ToUpper(strings.TrimSpace(nome))
	return maiusculo == "BALCAO" || maiusculo == "BALCÃO"
}

// NormalizarFilial completa códigos de um dígito com zero à esquerda.
func NormalizarFilial(filial string) string {
	filial = strings.TrimSpace(filial)
	if len(filial) == 1 {
		return "0" + filial
	}
	return filial
}

// SintetizarCodigo transforma um nome em um código estável: caixa alta, sem
// acentos e sem qualquer caractere fora de A-Z0-9.
func SintetizarCodigo(nome string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	semAcentos, _, err := transform.String(t, nome)
	if err != nil {
		semAcentos = nome
	}
	return regexNaoAlfaNum.ReplaceAllString(strings.ToUpper(semAcentos), "")
}
