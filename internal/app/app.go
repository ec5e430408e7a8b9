package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/config"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	db "github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/database"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/extract"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/ingest"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/llm"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/sparse"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/vectorstore/qdrant"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/services"
)

// App owns the wired core: the bot layer reaches ingestion through Ingestor,
// retrieval through Search and answer generation through Answer.
type App struct {
	DBClient core.DbClient
	Store    core.VectorStore
	Ingestor ingest.Ingestor
	Search   *services.SearchService
	Answer   *services.AnswerService
	Server   *Server

	logger  *zap.Logger
	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("database initialized and ready")

	store := qdrant.New(qdrant.Config{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
		DenseDim:   cfg.EmbedDim,
		Logger:     logger,
	})
	if err := store.EnsureCollection(appCtx); err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("vector store: %w", err)
	}
	logger.Info("vector store collection ready", zap.String("collection", cfg.QdrantCollection))

	app := &App{DBClient: dbClient, Store: store, logger: logger}
	app.closers = append(app.closers, dbClient.Close)

	dense, err := app.buildDenseEmbedder(appCtx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	sparseEnc := sparse.NewEncoder()

	chatLLM := llm.NewOpenAILLM(cfg.AIAPIKey, cfg.AIBaseURL, cfg.ChatModel)

	ingestor := ingest.NewDocumentIngestor(dbClient, store, dense, sparseEnc, extract.Default(), ingest.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		BatchSize:    cfg.EmbedBatchSize,
	}, logger)

	app.Ingestor = ingestor
	app.Search = services.NewSearchService(chatLLM, dense, sparseEnc, store, logger)
	app.Answer = services.NewAnswerService(chatLLM, logger)
	app.Server = NewServer(cfg, dbClient, logger)

	return app, nil
}

func (a *App) buildDenseEmbedder(ctx context.Context, cfg *config.Config) (core.DenseEmbedder, error) {
	switch cfg.EmbedProvider {
	case "gemini":
		emb, err := llm.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel, cfg.EmbedDim)
		if err != nil {
			return nil, fmt.Errorf("gemini embedder: %w", err)
		}
		a.closers = append(a.closers, emb.Close)
		return emb, nil
	case "openai", "":
		return llm.NewOpenAIEmbedder(cfg.AIAPIKey, cfg.AIBaseURL, cfg.EmbedModel, cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unknown EMBED_PROVIDER %q", cfg.EmbedProvider)
	}
}

func (a *App) Close() {
	for _, close := range a.closers {
		if err := close(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
}
