package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gcdrrtrade/ai-dividends/internal/config"
	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/httpapi"
	"github.com/gcdrrtrade/ai-dividends/internal/search"
	"github.com/gcdrrtrade/ai-dividends/internal/snapshot"
	"github.com/gcdrrtrade/ai-dividends/internal/store"
	"github.com/gcdrrtrade/ai-dividends/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "config/dividends.yaml"
	if p := os.Getenv("DIVIDENDS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	// The snapshot can live on local disk next to the analyzer or behind a
	// static file host.
	var source snapshot.Source
	if strings.HasPrefix(cfg.Storage.SnapshotPath, "http") {
		source = snapshot.NewHTTPSource(cfg.Storage.SnapshotPath)
	} else {
		source = snapshot.NewFileSource(cfg.Storage.SnapshotPath)
	}

	var history store.HistoryStore
	if cfg.Storage.SQLitePath != "" {
		db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening history database: %v", err)
		}
		defer db.Close()
		history = db
	}

	// The search index is rebuilt by the server whenever a new snapshot is
	// published; on disk when a path is configured, in memory otherwise.
	var newEngine httpapi.EngineFactory
	if cfg.Storage.IndexPath != "" {
		newEngine = func(records []domain.StockRecord) (search.Engine, error) {
			return search.NewBleveEngine(cfg.Storage.IndexPath, records)
		}
	}

	srv := httpapi.NewDashboardServer(source, history, newEngine, cfg.Locale.Default, logger)
	defer srv.Close()
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("dividends server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
