// internal/api/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/api/responses"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/domain"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/worker"
	"github.com/gin-gonic/gin"
)

// UploadHandler recebe os arquivos de um lote de vendas e devolve o payload
// consolidado produzido pelo worker.
type UploadHandler struct {
	worker *worker.Worker
}

func NewUploadHandler(w *worker.Worker) *UploadHandler {
	return &UploadHandler{worker: w}
}

// HandleVendasUpload lê até cinco arquivos do formulário (todos opcionais,
// período ausente vale vazio) mais o mapa cidade->filial, roda o lote e
// responde com a mensagem terminal do worker.
func (h *UploadHandler) HandleVendasUpload(c *gin.Context) {
	var fechadores []func()
	defer func() {
		for _, fechar := range fechadores {
			fechar()
		}
	}()

	abrir := func(campo string) (*domain.Arquivo, bool) {
		header, err := c.FormFile(campo)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, true
			}
			responses.Error(c, http.StatusBadRequest, "Arquivo inválido no campo '"+campo+"'", err.Error())
			return nil, false
		}
		arquivo, err := header.Open()
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo '"+header.Filename+"'")
			return nil, false
		}
		fechadores = append(fechadores, func() { arquivo.Close() })
		return &domain.Arquivo{Nome: header.Filename, Conteudo: arquivo}, true
	}

	entrada := domain.Entrada{}
	campos := []struct {
		nome    string
		destino **domain.Arquivo
	}{
		{"vendasAnoAnterior", &entrada.VendasAnoAnterior},
		{"vendasAnoAtual", &entrada.VendasAnoAtual},
		{"vendasMesAtual", &entrada.VendasMesAtual},
		{"clientes", &entrada.Clientes},
		{"produtos", &entrada.Produtos},
	}
	for _, campo := range campos {
		arquivo, ok := abrir(campo.nome)
		if !ok {
			return
		}
		*campo.destino = arquivo
	}

	if mapaJSON := c.PostForm("cityBranchMap"); mapaJSON != "" {
		if err := json.Unmarshal([]byte(mapaJSON), &entrada.FilialPorCidade); err != nil {
			responses.Error(c, http.StatusBadRequest, "Campo 'cityBranchMap' não é um JSON válido", err.Error())
			return
		}
	}

	mensagens, err := h.worker.Executar(c.Request.Context(), entrada)
	if err != nil {
		if errors.Is(err, worker.ErrOcupado) {
			responses.Error(c, http.StatusConflict, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao iniciar o processamento", err.Error())
		return
	}

	// O worker já registra o progresso; aqui só interessa a mensagem terminal.
	var terminal domain.Mensagem
	for mensagem := range mensagens {
		if mensagem.Tipo != domain.MensagemProgresso {
			terminal = mensagem
		}
	}

	if terminal.Tipo == domain.MensagemErro {
		c.JSON(http.StatusInternalServerError, terminal)
		return
	}
	c.JSON(http.StatusOK, terminal)
}
