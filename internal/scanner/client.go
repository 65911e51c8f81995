package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/util"
)

// Columns requested from the TradingView scanner, in positional order. The
// analyzer depends on these indices; see the analyze package.
var Columns = []string{
	"name", "close", "market_cap_basic", "dividend_yield_recent",
	"Recommend.All", "Perf.5Y", "Volatility.M", "average_volume_10d_calc",
	"description", "sector", "dividend_ex_date_recent",
}

// Row is one instrument's response: the exchange-qualified symbol plus the
// positional data array for Columns. Values arrive untyped; the analyze
// package coerces them.
type Row struct {
	S string `json:"s"`
	D []any  `json:"d"`
}

type scanRequest struct {
	Symbols struct {
		Tickers []string `json:"tickers"`
	} `json:"symbols"`
	Columns []string `json:"columns"`
}

type scanResponse struct {
	Data []Row `json:"data"`
}

// Client queries the TradingView scanner in rate-limited, retried batches.
type Client struct {
	URL         string
	HTTPClient  *http.Client
	Limiter     *util.RateLimiter
	MaxAttempts int
	Log         *slog.Logger
}

// NewClient creates a scanner client with the given request budget.
func NewClient(url string, perMinute, maxAttempts int, log *slog.Logger) *Client {
	return &Client{
		URL:         url,
		HTTPClient:  &http.Client{Timeout: 20 * time.Second},
		Limiter:     util.NewRateLimiter(perMinute),
		MaxAttempts: maxAttempts,
		Log:         log,
	}
}

// Scan fetches data for every ticker. Each ticker is expanded into NASDAQ
// and NYSE candidates since the scanner requires exchange-qualified symbols;
// usually only one of the pair resolves. Failed chunks are logged and
// skipped so one bad batch does not sink the run.
func (c *Client) Scan(ctx context.Context, tickers []string, chunkSize int) ([]Row, error) {
	candidates := make([]string, 0, 2*len(tickers))
	for _, t := range tickers {
		candidates = append(candidates, "NASDAQ:"+t, "NYSE:"+t)
	}

	var all []Row
	for start := 0; start < len(candidates); start += chunkSize {
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}

		if err := c.Limiter.Wait(ctx); err != nil {
			return all, err
		}

		rows, err := c.scanChunk(ctx, candidates[start:end])
		if err != nil {
			c.Log.Warn("scanner chunk failed", "offset", start, "error", err)
			continue
		}
		all = append(all, rows...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("scanner returned no data for %d tickers", len(tickers))
	}
	return all, nil
}

func (c *Client) scanChunk(ctx context.Context, chunk []string) ([]Row, error) {
	reqBody := scanRequest{Columns: Columns}
	reqBody.Symbols.Tickers = chunk

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	var rows []Row
	err = util.Retry(ctx, c.MaxAttempts, 500*time.Millisecond, c.Log, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("scanner status %d", resp.StatusCode)
		}

		var sr scanResponse
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			return fmt.Errorf("decoding scanner response: %w", err)
		}
		rows = sr.Data
		return nil
	})
	return rows, err
}
