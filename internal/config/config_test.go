package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dividends.yaml")

	yaml := `
storage:
  data_dir: /data
  snapshot_path: /data/stocks_data.json
  sqlite_path: /data/dividends.db
server:
  host: 127.0.0.1
  port: 8090
scanner:
  ticker_limit: 100
  min_market_cap: 1000000000
publisher:
  work_dir: /srv/ai-dividends
  output_file: stocks_data.json
  trading_days_only: true
logging:
  level: debug
locale:
  default: es
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Scanner.TickerLimit != 100 {
		t.Errorf("Scanner.TickerLimit = %d, want 100", cfg.Scanner.TickerLimit)
	}
	if cfg.Locale.Default != "es" {
		t.Errorf("Locale.Default = %q, want %q", cfg.Locale.Default, "es")
	}
	if !cfg.Publisher.TradingDaysOnly {
		t.Error("Publisher.TradingDaysOnly should be true")
	}

	// Defaults fill unset fields.
	if cfg.Scanner.ScanURL != DefaultScanURL {
		t.Errorf("Scanner.ScanURL = %q, want default", cfg.Scanner.ScanURL)
	}
	if cfg.Scanner.ChunkSize != DefaultChunkSize {
		t.Errorf("Scanner.ChunkSize = %d, want %d", cfg.Scanner.ChunkSize, DefaultChunkSize)
	}
	if cfg.Publisher.Remote != "origin" || cfg.Publisher.Branch != "main" {
		t.Errorf("publisher git defaults = %q/%q", cfg.Publisher.Remote, cfg.Publisher.Branch)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dividends.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  data_dir: /data\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DATA_DIR", "/override")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != "/override" {
		t.Errorf("Storage.DataDir = %q, want /override", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
