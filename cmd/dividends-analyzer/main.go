package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gcdrrtrade/ai-dividends/internal/analyze"
	"github.com/gcdrrtrade/ai-dividends/internal/config"
	"github.com/gcdrrtrade/ai-dividends/internal/scanner"
	"github.com/gcdrrtrade/ai-dividends/internal/util"
)

func main() {
	_ = godotenv.Load()

	output := flag.String("o", "", "output file (default: storage.snapshot_path)")
	flag.Parse()

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

	out := *output
	if out == "" {
		out = cfg.Storage.SnapshotPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	tickers, err := scanner.FetchSP500(ctx, &http.Client{Timeout: 30 * time.Second}, cfg.Scanner.ConstituentsURL)
	if err != nil {
		logger.Warn("constituents fetch failed, using fallback list", "error", err)
	}
	if len(tickers) > cfg.Scanner.TickerLimit {
		tickers = tickers[:cfg.Scanner.TickerLimit]
	}
	logger.Info("analyzing universe", "tickers", len(tickers))

	client := scanner.NewClient(cfg.Scanner.ScanURL, cfg.Scanner.RateLimitPerMin, cfg.Scanner.MaxAttempts, logger)
	rows, err := client.Scan(ctx, tickers, cfg.Scanner.ChunkSize)
	if err != nil {
		log.Fatalf("scanning: %v", err)
	}

	records := analyze.Process(rows, analyze.Options{MinMarketCap: cfg.Scanner.MinMarketCap})
	logger.Info("analysis complete", "scanned", len(rows), "selected", len(records))

	doc, err := analyze.BuildDocument(records, len(rows), time.Now())
	if err != nil {
		log.Fatalf("building document: %v", err)
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		log.Fatalf("writing %s: %v", out, err)
	}
	logger.Info("snapshot written", "path", out, "records", len(records))
}
