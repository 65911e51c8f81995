// Package config loads the YAML configuration for the dividends platform
// and applies environment variable overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shared by the server, analyzer, and
// publisher binaries.
type Config struct {
	Storage   Storage         `yaml:"storage"`
	Server    Server          `yaml:"server"`
	Scanner   Scanner         `yaml:"scanner"`
	Alpaca    Alpaca          `yaml:"alpaca"`
	Publisher PublisherConfig `yaml:"publisher"`
	Logging   Logging         `yaml:"logging"`
	Locale    Locale          `yaml:"locale"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir      string `yaml:"data_dir"`
	SnapshotPath string `yaml:"snapshot_path"` // stocks_data.json
	SQLitePath   string `yaml:"sqlite_path"`
	IndexPath    string `yaml:"index_path"` // bleve search index
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Scanner controls the TradingView scanner client used by the analyzer.
type Scanner struct {
	ScanURL         string  `yaml:"scan_url"`
	ConstituentsURL string  `yaml:"constituents_url"`
	TickerLimit     int     `yaml:"ticker_limit"`
	MinMarketCap    float64 `yaml:"min_market_cap"`
	ChunkSize       int     `yaml:"chunk_size"`
	RateLimitPerMin int     `yaml:"rate_limit_per_min"`
	MaxAttempts     int     `yaml:"max_attempts"`
}

// Alpaca holds credentials for the Alpaca trading-calendar API, used by the
// publisher to skip non-trading days. All fields are optional.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
}

// PublisherConfig defines the scheduled update-and-publish workflow.
type PublisherConfig struct {
	WorkDir          string   `yaml:"work_dir"`
	AnalyzerCmd      []string `yaml:"analyzer_cmd"`
	OutputFile       string   `yaml:"output_file"`
	Remote           string   `yaml:"remote"`
	Branch           string   `yaml:"branch"`
	LockFile         string   `yaml:"lock_file"`
	LogFile          string   `yaml:"log_file"`
	TradingDaysOnly  bool     `yaml:"trading_days_only"`
	ArchiveSnapshots bool     `yaml:"archive_snapshots"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Locale configures the default dashboard language.
type Locale struct {
	Default string `yaml:"default"`
}

// Defaults mirrored from the analyzer's built-in constants.
const (
	DefaultScanURL         = "https://scanner.tradingview.com/america/scan"
	DefaultConstituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	DefaultTickerLimit     = 600
	DefaultMinMarketCap    = 5_000_000_000
	DefaultChunkSize       = 200
)

// Load reads the YAML configuration file at the given path, applies
// defaults, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scanner.ScanURL == "" {
		cfg.Scanner.ScanURL = DefaultScanURL
	}
	if cfg.Scanner.ConstituentsURL == "" {
		cfg.Scanner.ConstituentsURL = DefaultConstituentsURL
	}
	if cfg.Scanner.TickerLimit == 0 {
		cfg.Scanner.TickerLimit = DefaultTickerLimit
	}
	if cfg.Scanner.MinMarketCap == 0 {
		cfg.Scanner.MinMarketCap = DefaultMinMarketCap
	}
	if cfg.Scanner.ChunkSize == 0 {
		cfg.Scanner.ChunkSize = DefaultChunkSize
	}
	if cfg.Scanner.MaxAttempts == 0 {
		cfg.Scanner.MaxAttempts = 3
	}
	if cfg.Scanner.RateLimitPerMin == 0 {
		cfg.Scanner.RateLimitPerMin = 120
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = "stocks_data.json"
	}
	if cfg.Publisher.OutputFile == "" {
		cfg.Publisher.OutputFile = "stocks_data.json"
	}
	if cfg.Publisher.Branch == "" {
		cfg.Publisher.Branch = "main"
	}
	if cfg.Publisher.Remote == "" {
		cfg.Publisher.Remote = "origin"
	}
	if cfg.Locale.Default == "" {
		cfg.Locale.Default = "en"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SNAPSHOT_PATH"); v != "" {
		cfg.Storage.SnapshotPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("INDEX_PATH"); v != "" {
		cfg.Storage.IndexPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (canonical names used by the SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
