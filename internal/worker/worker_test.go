package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/pipeline"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
	"go.uber.org/zap"
)

type pipelineStub struct {
	processar func(ctx context.Context, entrada domain.Entrada, progresso pipeline.ProgressoFunc) (*domain.Payload, error)
}

func (s *pipelineStub) Processar(ctx context.Context, entrada domain.Entrada, progresso pipeline.ProgressoFunc) (*domain.Payload, error) {
	return s.processar(ctx, entrada, progresso)
}

func coletar(t *testing.T, mensagens <-chan domain.Mensagem) []domain.Mensagem {
	t.Helper()
	var todas []domain.Mensagem
	for {
		select {
		case m, ok := <-mensagens:
			if !ok {
				return todas
			}
			todas = append(todas, m)
		case <-time.After(5 * time.Second):
			t.Fatal("canal de mensagens não fechou")
		}
	}
}

func TestExecutarEmiteProgressoEResultado(t *testing.T) {
	stub := &pipelineStub{processar: func(_ context.Context, _ domain.Entrada, progresso pipeline.ProgressoFunc) (*domain.Payload, error) {
		progresso("Lendo arquivos...", 5)
		progresso("Preparando dados para envio...", 90)
		return &domain.Payload{NewCities: []string{"SAO PAULO"}}, nil
	}}
	w := New(stub, zap.NewNop())

	mensagens, err := w.Executar(context.Background(), domain.Entrada{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	todas := coletar(t, mensagens)
	if len(todas) != 3 {
		t.Fatalf("esperava 3 mensagens, veio %d: %v", len(todas), todas)
	}
	if todas[0].Tipo != domain.MensagemProgresso || todas[0].Percentual != 5 {
		t.Errorf("primeira mensagem errada: %+v", todas[0])
	}
	terminal := todas[len(todas)-1]
	if terminal.Tipo != domain.MensagemResultado || terminal.Dados == nil {
		t.Errorf("mensagem terminal errada: %+v", terminal)
	}
	if len(terminal.Dados.NewCities) != 1 {
		t.Errorf("payload não chegou inteiro: %+v", terminal.Dados)
	}
}

func TestExecutarEmiteErroTerminal(t *testing.T) {
	stub := &pipelineStub{processar: func(context.Context, domain.Entrada, pipeline.ProgressoFunc) (*domain.Payload, error) {
		return nil, errors.New("planilha corrompida")
	}}
	w := New(stub, zap.NewNop())

	mensagens, err := w.Executar(context.Background(), domain.Entrada{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	todas := coletar(t, mensagens)
	if len(todas) != 1 || todas[0].Tipo != domain.MensagemErro || todas[0].Erro != "planilha corrompida" {
		t.Errorf("esperava uma única mensagem de erro: %v", todas)
	}
}

func TestExecutarRecuperaPanico(t *testing.T) {
	stub := &pipelineStub{processar: func(context.Context, domain.Entrada, pipeline.ProgressoFunc) (*domain.Payload, error) {
		panic("estouro")
	}}
	w := New(stub, zap.NewNop())

	mensagens, err := w.Executar(context.Background(), domain.Entrada{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	todas := coletar(t, mensagens)
	if len(todas) != 1 || todas[0].Tipo != domain.MensagemErro {
		t.Fatalf("pânico deveria virar mensagem de erro: %v", todas)
	}
	if !strings.Contains(todas[0].Erro, "estouro") {
		t.Errorf("mensagem deveria trazer o motivo do pânico: %q", todas[0].Erro)
	}
	if !strings.Contains(todas[0].Erro, "goroutine") {
		t.Errorf("mensagem deveria trazer a pilha: %q", todas[0].Erro)
	}
}

func TestExecutarNaoEhReentrante(t *testing.T) {
	segurar := make(chan struct{})
	stub := &pipelineStub{processar: func(context.Context, domain.Entrada, pipeline.ProgressoFunc) (*domain.Payload, error) {
		<-segurar
		return &domain.Payload{}, nil
	}}
	w := New(stub, zap.NewNop())

	mensagens, err := w.Executar(context.Background(), domain.Entrada{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if _, err := w.Executar(context.Background(), domain.Entrada{}); !errors.Is(err, ErrOcupado) {
		t.Errorf("segundo lote simultâneo deveria falhar com ErrOcupado, veio %v", err)
	}

	close(segurar)
	coletar(t, mensagens)

	// Com o primeiro lote encerrado, um novo pode começar.
	mensagens, err = w.Executar(context.Background(), domain.Entrada{})
	if err != nil {
		t.Fatalf("worker deveria estar livre de novo: %v", err)
	}
	coletar(t, mensagens)
}
