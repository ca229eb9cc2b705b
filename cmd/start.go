/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/database"
	"github.com/tieubaoca/recipe-assistant/handler"
	"github.com/tieubaoca/recipe-assistant/repository"
	"github.com/tieubaoca/recipe-assistant/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the recipe assistant server",
	Long:  `Starts the HTTP server that answers recipe questions and collects feedback`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		mongoClient, err := repository.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := mongoClient.Ping(context.Background(), nil); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database(cfg.MongoDatabase)

		// Initialize services
		exchangeRepo := repository.NewExchangeRepo(mongoDb)
		exchangeService := service.NewExchangeService(exchangeRepo)
		retrievalService := service.NewRetrievalService(weaviateDb, cfg.Retrieval)

		var aiService service.AIService
		var evaluator service.RelevanceEvaluator
		switch cfg.AIBackend {
		case "gemini":
			geminiService, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.Generation)
			if err != nil {
				log.Fatalf("Failed to create Gemini service: %v", err)
			}
			aiService = geminiService
		default:
			openAIService := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.Generation)
			aiService = openAIService
			if cfg.Generation.EvaluateRelevance {
				evaluator = openAIService
			}
		}

		ragService := service.NewRAGService(retrievalService, aiService, exchangeService, evaluator, cfg.Retrieval.TopK)
		wsService := service.NewWebSocketService(ragService)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		askHandler := handler.NewAskHandler(ragService)
		feedbackHandler := handler.NewFeedbackHandler(exchangeService)
		exchangeHandler := handler.NewExchangeHandler(exchangeService)
		healthHandler := handler.NewHealthHandler()

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", healthHandler.HandleHealth)
		router.GET("/ws/ask", gin.WrapF(wsService.HandleAsk))

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/question", askHandler.HandleAsk)
			apiV1.POST("/feedback", feedbackHandler.HandleFeedback)
			apiV1.GET("/exchanges", exchangeHandler.HandleListRecent)
			apiV1.GET("/stats", exchangeHandler.HandleStats)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
