package ibge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestBuscarMunicipios(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":3550308,"nome":"São Paulo"},{"id":3304557,"nome":"Rio de Janeiro"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	municipios, err := client.BuscarMunicipios(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if municipios["3550308"] != "SÃO PAULO" {
		t.Errorf("nome deveria vir em caixa alta, veio %q", municipios["3550308"])
	}
	if municipios["3304557"] != "RIO DE JANEIRO" {
		t.Errorf("município errado: %q", municipios["3304557"])
	}
}

func TestBuscarMunicipiosStatusInvalido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	if _, err := client.BuscarMunicipios(context.Background()); err == nil {
		t.Error("status 503 deveria resultar em erro")
	}
}

func TestBuscarMunicipiosRespostaInvalida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>manutencao</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	if _, err := client.BuscarMunicipios(context.Background()); err == nil {
		t.Error("resposta não-JSON deveria resultar em erro")
	}
}
