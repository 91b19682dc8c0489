package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gsarma/codepad/internal/api"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/report"
	"github.com/gsarma/codepad/internal/runner"
	"github.com/gsarma/codepad/internal/snippet"
	"github.com/gsarma/codepad/internal/worker"
	"github.com/gsarma/codepad/internal/workspace"
)

func main() {
	cfg := loadAppConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store snippet.Store = snippet.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()

		pg := snippet.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		store = pg
	} else {
		log.Println("DATABASE_URL not set, snippets are kept in memory")
	}

	snippets, err := snippet.NewManager(ctx, store, cfg.SnippetKey, logger)
	if err != nil {
		log.Fatalf("failed to load snippets: %v", err)
	}

	var reports runner.ReportPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := report.NewPublisher(report.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("failed to initialize report publisher: %v", err)
		}
		defer pub.Close()

		d := worker.New(pub, cfg.ReportWorkers, worker.Options{})
		go d.Start(ctx)
		reports = d
	}

	judge0 := code.NewJudge0Provider(cfg.Judge0)
	ws := workspace.New(workspace.Config{
		Provider:    judge0,
		Snippets:    snippets,
		Logger:      logger,
		Reports:     reports,
		FormatDelay: cfg.FormatDelay,
	})

	router := gin.Default()
	api.RegisterRoutes(router, ws, map[string]code.Provider{"judge0": judge0})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
