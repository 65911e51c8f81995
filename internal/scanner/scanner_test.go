package scanner

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

const constituentsPage = `
<html><body>
<table class="wikitable sortable">
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td><a href="#">MMM</a></td><td>3M</td></tr>
<tr><td><a href="#">BRK.B</a></td><td>Berkshire Hathaway</td></tr>
<tr><td><a href="#">KO</a></td><td>Coca-Cola</td></tr>
</tbody>
</table>
<table class="wikitable"><tbody><tr><td>IGNORED</td></tr></tbody></table>
</body></html>`

func TestParseConstituents(t *testing.T) {
	tickers, err := ParseConstituents([]byte(constituentsPage))
	if err != nil {
		t.Fatalf("ParseConstituents: %v", err)
	}
	want := []string{"MMM", "BRK-B", "KO"}
	if len(tickers) != len(want) {
		t.Fatalf("got %v, want %v", tickers, want)
	}
	for i := range want {
		if tickers[i] != want[i] {
			t.Errorf("ticker %d = %q, want %q", i, tickers[i], want[i])
		}
	}
}

func TestParseConstituentsNoTable(t *testing.T) {
	if _, err := ParseConstituents([]byte("<html><body>nothing</body></html>")); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestFetchSP500FallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	tickers, err := FetchSP500(context.Background(), ts.Client(), ts.URL)
	if err == nil {
		t.Error("expected error from failing server")
	}
	if len(tickers) != len(FallbackTickers) {
		t.Errorf("expected fallback tickers, got %v", tickers)
	}
}

func TestScanBatching(t *testing.T) {
	var batches [][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Symbols struct {
				Tickers []string `json:"tickers"`
			} `json:"symbols"`
			Columns []string `json:"columns"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Columns) != len(Columns) {
			t.Errorf("got %d columns, want %d", len(req.Columns), len(Columns))
		}
		batches = append(batches, req.Symbols.Tickers)

		rows := make([]Row, 0, len(req.Symbols.Tickers))
		for _, s := range req.Symbols.Tickers {
			rows = append(rows, Row{S: s, D: []any{s}})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": rows})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 6000, 1, slog.Default())
	rows, err := c.Scan(context.Background(), []string{"AAPL", "KO", "PEP"}, 4)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// 3 tickers expand to 6 exchange candidates, chunked by 4 → 2 batches.
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if len(rows) != 6 {
		t.Errorf("got %d rows, want 6", len(rows))
	}
	if batches[0][0] != "NASDAQ:AAPL" || batches[0][1] != "NYSE:AAPL" {
		t.Errorf("candidate expansion wrong: %v", batches[0])
	}
}

func TestScanSkipsFailedChunk(t *testing.T) {
	n := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		if n == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []Row{{S: "NYSE:KO"}}})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 6000, 1, slog.Default())
	rows, err := c.Scan(context.Background(), []string{"AAPL", "KO"}, 2)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows from surviving chunk, want 1", len(rows))
	}
}
