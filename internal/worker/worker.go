// internal/worker/worker.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/pipeline"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrOcupado indica que já existe um lote em andamento. O pipeline não é
// reentrante: um lote roda até o fim antes do próximo começar.
var ErrOcupado = errors.New("já existe um processamento de vendas em andamento")

// Worker executa lotes de reconciliação em segundo plano e conversa com o
// chamador só por mensagens: progresso e exatamente uma mensagem terminal.
type Worker struct {
	pipeline pipeline.Service
	log      *zap.Logger
	ocupado  atomic.Bool
}

func New(pipeline pipeline.Service, log *zap.Logger) *Worker {
	return &Worker{pipeline: pipeline, log: log}
}

// Executar dispara o processamento do lote e devolve o canal de mensagens. O
// canal é fechado depois da mensagem terminal. Devolve ErrOcupado se outro
// lote ainda está rodando.
func (w *Worker) Executar(ctx context.Context, entrada domain.Entrada) (<-chan domain.Mensagem, error) {
	if !w.ocupado.CompareAndSwap(false, true) {
		return nil, ErrOcupado
	}

	mensagens := make(chan domain.Mensagem, 16)
	lote := uuid.NewString()
	log := w.log.With(zap.String("lote", lote))

	go func() {
		defer close(mensagens)
		defer w.ocupado.Store(false)

		defer func() {
			if r := recover(); r != nil {
				pilha := debug.Stack()
				log.Error("pânico durante o processamento do lote",
					zap.Any("motivo", r), zap.ByteString("stack", pilha))
				mensagens <- domain.Mensagem{
					Tipo: domain.MensagemErro,
					Erro: fmt.Sprintf("falha inesperada no processamento: %v\n%s", r, pilha),
				}
			}
		}()

		progresso := func(status string, percentual float64) {
			log.Info("progresso do lote", zap.String("status", status), zap.Float64("percentual", percentual))
			mensagens <- domain.Mensagem{
				Tipo:       domain.MensagemProgresso,
				Status:     status,
				Percentual: percentual,
			}
		}

		payload, err := w.pipeline.Processar(ctx, entrada, progresso)
		if err != nil {
			log.Error("lote abortado", zap.Error(err))
			mensagens <- domain.Mensagem{Tipo: domain.MensagemErro, Erro: err.Error()}
			return
		}
		mensagens <- domain.Mensagem{Tipo: domain.MensagemResultado, Dados: payload}
	}()

	return mensagens, nil
}
