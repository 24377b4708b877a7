// cmd/web/main.go
package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/api/handlers"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/api/middleware"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/api/responses"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/auth"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/ibge"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/core/pipeline"
	"github.com/Dasksz/ANUAL-EVOLUTION-sub000/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// initFirestoreClient inicializa o cliente do Firestore usado pelo login.
func initFirestoreClient(ctx context.Context) *firestore.Client {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		projectID = "anual-evolution-db"
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, projectID)
	if err != nil {
		log.Fatalf("Erro ao inicializar cliente Firestore para o banco '%s': %v\n", projectID, err)
	}
	log.Printf("Conectado com sucesso ao Firestore, banco de dados: %s", projectID)
	return client
}

func main() {
	_ = godotenv.Load()
	responses.InitLogger()
	defer responses.Logger.Sync()

	ctx := context.Background()
	firestoreClient := initFirestoreClient(ctx)
	defer firestoreClient.Close()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	ibgeClient := ibge.NewClient(os.Getenv("IBGE_URL"), responses.Logger)
	pipelineService := pipeline.NewService(ibgeClient, responses.Logger)
	vendasWorker := worker.New(pipelineService, responses.Logger)

	authService := auth.NewService(firestoreClient, jwtSecret)
	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(vendasWorker)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.POST("/uploads/vendas",
				middleware.PermissionMiddleware("uploads"),
				uploadHandler.HandleVendasUpload)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Servidor iniciado e escutando na porta %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Falha ao iniciar o servidor: ", err)
	}
}
