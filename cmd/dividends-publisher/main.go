package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gcdrrtrade/ai-dividends/internal/config"
	"github.com/gcdrrtrade/ai-dividends/internal/marketcal"
	"github.com/gcdrrtrade/ai-dividends/internal/publisher"
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

	// The publisher runs from a timer; keep a rotated log of every cycle.
	var logger *slog.Logger
	if cfg.Publisher.LogFile != "" {
		logger = util.NewFileLogger(cfg.Publisher.LogFile, cfg.Logging.Level, cfg.Logging.Format)
	} else {
		logger = util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	}
	util.SetDefault(logger)

	var cal publisher.TradingCalendar
	if cfg.Publisher.TradingDaysOnly && cfg.Alpaca.APIKey != "" {
		cal = marketcal.New(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
	}

	var history store.HistoryStore
	var archive store.Archiver
	if cfg.Publisher.ArchiveSnapshots {
		if cfg.Storage.SQLitePath != "" {
			db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
			if err != nil {
				log.Fatalf("opening history database: %v", err)
			}
			defer db.Close()
			history = db
		}
		if cfg.Storage.DataDir != "" {
			archive = store.NewParquetArchive(cfg.Storage.DataDir)
		}
	}

	p := publisher.New(cfg.Publisher, cal, history, archive, logger)
	if err := p.Run(context.Background()); err != nil {
		if errors.Is(err, publisher.ErrLocked) {
			logger.Warn("skipping cycle", "error", err)
			os.Exit(0)
		}
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
}
