package supportdesk

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-desk/internal/supportdesk/biz"
	"github.com/kart-io/support-desk/internal/supportdesk/handler"
	"github.com/kart-io/support-desk/internal/supportdesk/router"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	"github.com/kart-io/support-desk/pkg/app"
	"github.com/kart-io/support-desk/pkg/component/database"
	"github.com/kart-io/support-desk/pkg/component/milvus"
	"github.com/kart-io/support-desk/pkg/component/redis"
	"github.com/kart-io/support-desk/pkg/llm"
	"github.com/kart-io/support-desk/pkg/server"

	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/support-desk/pkg/llm/ollama"
	_ "github.com/kart-io/support-desk/pkg/llm/openai"
)

const (
	appName        = "support-desk"
	appDescription = `Support Desk Service

A customer support chatbot backend.

This server provides:
  - Conversational complaint filing with LLM slot filling
  - Complaint status lookup and ticket management
  - Knowledge base retrieval backed by Milvus`
)

// NewApp creates the support desk application.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run starts the support desk service with the given options.
func Run(opts *Options) error {
	ctx := context.Background()

	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting support desk service...", "version", app.GetVersion())

	dbClient, err := database.New(opts.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()
	logger.Infow("Database client initialized", "driver", opts.DB.Driver)

	factory, err := store.NewFactory(dbClient.DB())
	if err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}
	logger.Info("Store layer initialized")

	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	defer milvusClient.Close(context.Background())
	logger.Info("Milvus client initialized")

	vectorStore := store.NewMilvusVectorStore(milvusClient, opts.Desk.Collection, opts.Desk.EmbeddingDim)
	if err := vectorStore.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to prepare knowledge base collection: %w", err)
	}
	logger.Infow("Vector store initialized", "collection", opts.Desk.Collection)

	provider, err := llm.NewProvider(opts.LLM.Provider, opts.LLM.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to initialize llm provider: %w", err)
	}
	logger.Infow("LLM provider initialized",
		"provider", opts.LLM.Provider,
		"chat_model", opts.LLM.ChatModel,
		"embed_model", opts.LLM.EmbedModel,
	)

	embeddingCache := biz.NewNoopEmbeddingCache()
	if opts.Redis.Enabled {
		redisClient, err := redis.New(opts.Redis)
		if err != nil {
			logger.Warnw("Failed to connect to redis, embedding cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			embeddingCache = biz.NewRedisEmbeddingCache(redisClient, opts.Redis.TTL)
			logger.Infow("Embedding cache initialized", "addr", opts.Redis.Addr(), "ttl", opts.Redis.TTL)
		}
	}

	complaintSvc := biz.NewComplaintService(factory.Complaints())
	botSvc := biz.NewBotService(
		provider,
		provider,
		vectorStore,
		factory.Conversations(),
		factory.UserDetails(),
		complaintSvc,
		embeddingCache,
		opts.Desk.Company,
		opts.Desk.TopK,
	)
	indexer := biz.NewIndexer(vectorStore, provider, &biz.IndexerConfig{
		DataDir:      opts.Desk.DataDir,
		ChunkSize:    opts.Desk.ChunkSize,
		ChunkOverlap: opts.Desk.ChunkOverlap,
	})
	logger.Info("Biz layer initialized")

	mgr := server.NewManager(opts.HTTP)
	router.Register(
		mgr,
		handler.NewRootHandler(opts.Desk.Company),
		handler.NewChatbotHandler(botSvc),
		handler.NewComplaintHandler(complaintSvc),
		handler.NewDocsHandler(indexer),
	)

	logger.Info("Support desk service is ready")
	return mgr.Run(ctx)
}
