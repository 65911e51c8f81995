package dividends

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gcdrrtrade/ai-dividends/internal/httpapi"
	"github.com/gcdrrtrade/ai-dividends/internal/snapshot"
)

const fixture = `{
  "metadata": {"last_updated": "2024-06-10 09:00:00", "total_analyzed": 503},
  "data": [
    {"symbol": "AAPL", "name": "Apple", "sector": "Technology", "price": 200.0, "score": 90, "dividend_yield_pct": 0.5, "tv_signal": "STRONG_BUY"},
    {"symbol": "KO", "name": "Coca-Cola", "sector": "Consumer Staples", "price": 60.0, "score": 80, "dividend_yield_pct": 3.0, "tv_signal": "BUY"}
  ]
}`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stocks_data.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httpapi.NewDashboardServer(snapshot.NewFileSource(path), nil, nil, "en", slog.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestDashboard(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Dashboard(context.Background(), DashboardOptions{})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if resp.Stats.Selected != 2 {
		t.Errorf("selected = %d", resp.Stats.Selected)
	}
	if len(resp.Rows) != 2 || resp.Rows[0].Symbol != "AAPL" {
		t.Errorf("rows = %+v", resp.Rows)
	}

	es, err := c.Dashboard(context.Background(), DashboardOptions{Query: "coca", Lang: "es"})
	if err != nil {
		t.Fatalf("Dashboard(es): %v", err)
	}
	if len(es.Rows) != 1 || es.Rows[0].Symbol != "KO" {
		t.Errorf("filtered rows = %+v", es.Rows)
	}
	if es.Locale != "es" {
		t.Errorf("locale = %q", es.Locale)
	}
}

func TestStockDetail(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.StockDetail(context.Background(), "ko", "")
	if err != nil {
		t.Fatalf("StockDetail: %v", err)
	}
	if resp.Detail.Symbol != "KO" {
		t.Errorf("symbol = %q", resp.Detail.Symbol)
	}

	_, err = c.StockDetail(context.Background(), "NOPE", "")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("missing symbol err = %v", err)
	}
}

func TestSearch(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Symbol != "AAPL" {
		t.Errorf("results = %+v", resp.Results)
	}
}
