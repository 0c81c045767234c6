package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pecas/internal/config"
	"pecas/internal/handler"
	"pecas/internal/repository"
	"pecas/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const embeddingDimension = 1536

func main() {
	log.Printf("Assistente de Peças")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	var openaiClient *service.OpenAIClient
	if cfg.OpenAI.Enabled {
		openaiClient = service.NewOpenAIClient(&cfg.OpenAI)
		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
	} else {
		log.Println("⚠️  OpenAI is disabled - queries are parsed by the rule-based extractor only")
		log.Println("   Set OPENAI_API_KEY environment variable to enable slot classification")
	}

	var cache *service.ResultCache
	if cfg.Cache.Enabled {
		cache = service.NewResultCache(time.Duration(cfg.Cache.TTLMinutes) * time.Minute)
		log.Printf("✅ Result cache enabled (TTL %d minutes)", cfg.Cache.TTLMinutes)
	}

	intentParser := service.NewIntentParser(openaiClient)
	assistant := service.NewPartsAssistant(repo, intentParser, cache, cfg.Search)

	log.Println("✅ Services initialized")

	assistantHandler := handler.NewAssistantHandler(assistant)
	catalogHandler := handler.NewCatalogHandler(repo, cfg.Search.SuggestionLimit, cfg.Search.FetchLimit)
	embeddingHandler := handler.NewEmbeddingHandler(repo, embeddingDimension)
	telegramHandler := handler.NewTelegramHandler(assistant, &cfg.Telegram)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "up"
		if err := repo.Ping(c.Request.Context()); err != nil {
			dbStatus = "down"
		}
		c.JSON(200, gin.H{
			"status":   "healthy",
			"service":  "parts-assistant",
			"database": dbStatus,
			"version":  Version,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/assistant", assistantHandler.Search)
		apiV1.GET("/products/:code", catalogHandler.GetProduct)
		apiV1.GET("/compatible/:model", catalogHandler.GetCompatible)
		apiV1.GET("/suggest", catalogHandler.Suggest)
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
	}

	bot := router.Group("/bot/telegram")
	{
		bot.GET("/webhook", telegramHandler.Health)
		bot.POST("/webhook", telegramHandler.Webhook)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
