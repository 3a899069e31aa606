// Package daemon implements the kindlingd commands.
package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kindling-labs/kindling/internal/api/handlers"
	"github.com/kindling-labs/kindling/internal/cli/local"
	"github.com/kindling-labs/kindling/internal/jobs"
	"github.com/kindling-labs/kindling/internal/server"
	"github.com/kindling-labs/kindling/internal/telemetry"
	"github.com/spf13/cobra"
)

const (
	prefetchInterval = 2 * time.Minute
	prefetchTopN     = 10
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local API server",
		Long:  "Starts the kindling daemon: HTTP API plus background prompt prefetch and news refresh workers.",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-workers", false, "Skip background workers")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, cleanup, err := local.OpenEnv(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	cfg := env.Cfg

	if cfg.SentryDSN != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if err := env.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to build idea feed: %w", err)
	}
	log.Printf("feed built: %d ideas", len(env.Library.Feed()))

	promptSvc := env.PromptService()

	feedHandler := handlers.NewFeedHandler(env.Library)
	var promptsHandler *handlers.PromptsHandler
	var chatHandler *handlers.ChatHandler
	if promptSvc != nil {
		promptsHandler = handlers.NewPromptsHandler(env.Library, promptSvc)
		chatHandler = handlers.NewChatHandler(promptSvc, env.Threads, env.Library)
	} else {
		promptsHandler = handlers.NewPromptsHandler(env.Library, nil)
		log.Println("no model endpoint configured: chat disabled, prompts fall back to offline questions")
	}
	newsHandler := handlers.NewNewsHandler(env.News)
	debugHandler := handlers.NewDebugHandler(env.Log)

	router := server.NewRouter(server.RouterConfig{
		FeedHandler:    feedHandler,
		PromptsHandler: promptsHandler,
		ChatHandler:    chatHandler,
		NewsHandler:    newsHandler,
		DebugHandler:   debugHandler,
	})

	noWorkers, _ := cmd.Flags().GetBool("no-workers")
	var workers []*jobs.Worker
	if !noWorkers {
		if promptSvc != nil {
			prefetch := jobs.NewPrefetchWorker(env.Library, promptSvc, env.Prompts, prefetchTopN)
			w := jobs.NewWorker("prefetch", prefetch, prefetchInterval)
			go w.Start(ctx)
			workers = append(workers, w)
		}

		refreshEvery := time.Duration(cfg.NewsRefreshHours) * time.Hour
		if refreshEvery <= 0 {
			refreshEvery = 24 * time.Hour
		}
		w := jobs.NewWorker("news", jobs.NewNewsWorker(env.News), refreshEvery)
		go w.Start(ctx)
		workers = append(workers, w)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
