// internal/api/responses/responses.go
package responses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger é o logger estruturado do processo, inicializado em InitLogger.
var Logger *zap.Logger

// InitLogger configura o logger global. Deve ser chamado uma vez no main.
func InitLogger() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("não foi possível inicializar o logger: " + err.Error())
	}
	Logger = logger
}

// Error registra e devolve um erro JSON no formato {"error": ..., "details": ...}.
func Error(c *gin.Context, status int, mensagem string, detalhes ...string) {
	campos := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
	}
	corpo := gin.H{"error": mensagem}
	if len(detalhes) > 0 {
		corpo["details"] = detalhes[0]
		campos = append(campos, zap.String("details", detalhes[0]))
	}
	Logger.Warn(mensagem, campos...)
	c.JSON(status, corpo)
}
