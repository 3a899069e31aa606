// Package local implements CLI commands that operate directly on the local
// store, without a running daemon.
package local

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kindling-labs/kindling/internal/config"
	"github.com/kindling-labs/kindling/internal/database"
	"github.com/kindling-labs/kindling/internal/ingest"
	"github.com/kindling-labs/kindling/internal/llm"
	"github.com/kindling-labs/kindling/internal/logbuf"
	"github.com/kindling-labs/kindling/internal/news"
	"github.com/kindling-labs/kindling/internal/repository"
	"github.com/kindling-labs/kindling/internal/service"
)

// Env bundles the wired-up local runtime shared by the commands.
type Env struct {
	Cfg *config.Config
	DB  *sql.DB

	Docs    *repository.DocumentRepository
	Vectors *repository.VectorRepository
	Prompts *repository.PromptCacheRepository
	Threads *repository.ThreadRepository
	NewsRepo *repository.NewsRepository

	Embedder  *service.HashEmbedder
	Retriever *service.Retriever
	Ideas     *service.IdeaService
	Library   *service.Library
	News      *news.Service
	Log       *logbuf.Buffer
}

// OpenEnv loads config, opens the database, and wires the service graph.
// The returned cleanup closes the database.
func OpenEnv(ctx context.Context) (*Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(ctx, database.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init schema: %w", err)
	}

	docs := repository.NewDocumentRepository(db)
	vectors := repository.NewVectorRepository(db)
	prompts := repository.NewPromptCacheRepository(db)
	threads := repository.NewThreadRepository(db)
	newsRepo := repository.NewNewsRepository(db)

	embedder := service.NewHashEmbedder(0)
	retriever := service.NewRetriever(vectors)
	ideas := service.NewIdeaService(docs, vectors, embedder)
	library := service.NewLibrary(ideas)

	env := &Env{
		Cfg:      cfg,
		DB:       db,
		Docs:     docs,
		Vectors:  vectors,
		Prompts:  prompts,
		Threads:  threads,
		NewsRepo: newsRepo,
		Embedder: embedder,
		Retriever: retriever,
		Ideas:    ideas,
		Library:  library,
		News:     news.NewService(newsRepo, cfg.Subreddits(), cfg.NewsLimit),
		Log:      logbuf.New(0, cfg.Debug),
	}
	return env, func() { db.Close() }, nil
}

// PromptService builds the retrieval-augmented generator, or nil when no
// model endpoint is configured.
func (e *Env) PromptService() *service.PromptService {
	if !e.Cfg.HasLLM() {
		return nil
	}
	client := llm.NewClient(llm.Config{
		URL:   e.Cfg.LLMURL,
		Token: e.Cfg.LLMToken,
		Model: e.Cfg.LLMModel,
	})
	return service.NewPromptService(client, e.Prompts, e.Docs, e.Threads, e.Vectors, e.Retriever, e.Embedder, e.Log)
}

// LoadIngest reads the configured ingestion inputs.
func (e *Env) LoadIngest() service.IngestData {
	projects, messages := ingest.LoadAll(e.Cfg.ProjectsPath, e.Cfg.ChatPath)
	return service.IngestData{Projects: projects, Messages: messages}
}

// Rebuild runs the full pipeline over the configured inputs.
func (e *Env) Rebuild(ctx context.Context) error {
	return e.Library.Rebuild(ctx, e.LoadIngest(), service.ScoreContext{})
}

