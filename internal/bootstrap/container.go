package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jewelry-assistant-be/internal/config"
	"jewelry-assistant-be/internal/controller"
	"jewelry-assistant-be/internal/pkg/logger"
	"jewelry-assistant-be/internal/pkg/mailer"
	"jewelry-assistant-be/internal/repository/implementation"
	"jewelry-assistant-be/internal/repository/memory"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/internal/search"
	"jewelry-assistant-be/internal/service"
	"jewelry-assistant-be/internal/sessionstore"
	"jewelry-assistant-be/pkg/assistant/interpret"
	"jewelry-assistant-be/pkg/assistant/recommend"
	"jewelry-assistant-be/pkg/assistant/state"
	"jewelry-assistant-be/pkg/embedding"
	"jewelry-assistant-be/pkg/embedding/jina"
	"jewelry-assistant-be/pkg/llm/factory"

	pktNats "jewelry-assistant-be/pkg/nats"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	CatalogController   controller.ICatalogController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for graceful shutdown
	SysLogger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	assistantLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Session Storage (Redis hot path, Postgres audit trail)
	redisStore := sessionstore.NewRedisStore(
		rdb,
		time.Duration(cfg.Assistant.SessionTTLHours)*time.Hour,
		time.Duration(cfg.Assistant.HistoryTTLHours)*time.Hour,
	)
	databaseStore := sessionstore.NewDatabaseStore(uowFactory)
	sessions := sessionstore.NewLayeredStore(redisStore, databaseStore, assistantLogger)

	// 6. Recommendation Pipeline
	catalogCache := memory.NewCatalogCache(implementation.NewProductRepository(db))
	vectorSearcher := search.NewVectorSearcher(
		embeddingProvider,
		uowFactory,
		cfg.Assistant.MinSimilarity,
		assistantLogger,
	)
	engine := recommend.NewEngine(
		vectorSearcher,
		catalogCache,
		recommend.Config{
			MinSimilarity:    cfg.Assistant.MinSimilarity,
			MinAcceptable:    cfg.Assistant.MinAcceptable,
			SimilarityWeight: cfg.Assistant.SimilarityWeight,
			AttributeBonus:   cfg.Assistant.AttributeBonus,
			SearchLimit:      cfg.Assistant.SearchLimit,
		},
		assistantLogger,
	)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Ai.EmbedProductTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedProductTopic,
		uowFactory,
		embeddingProvider,
	)

	staffMailer := mailer.NewStaffMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.SMTP.StaffEmail,
	)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	var staffNotifier service.StaffNotifier
	if cfg.SMTP.Host != "" && cfg.SMTP.StaffEmail != "" {
		staffNotifier = staffMailer
	}

	assistantService := service.NewAssistantService(
		sessions,
		interpret.New(llmProvider, assistantLogger),
		state.NewMachine(assistantLogger),
		engine,
		uowFactory,
		eventPublisher,
		staffNotifier,
		service.AssistantServiceConfig{
			HistoryLimit: cfg.Assistant.HistoryLimit,
			TopN:         cfg.Assistant.TopN,
			Confidence:   recommend.DefaultConfidenceConfig(),
		},
		assistantLogger,
	)

	catalogService := service.NewCatalogService(uowFactory, publisherService, catalogCache, assistantLogger)
	adminService := service.NewAdminService(uowFactory, cfg.Admin)

	sysLogger.Info("BOOTSTRAP", "Container wired", map[string]interface{}{
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"llm_provider":       cfg.Ai.LLMProvider,
	})

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		CatalogController:   controller.NewCatalogController(catalogService),
		AdminController:     controller.NewAdminController(adminService),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
	}
}
