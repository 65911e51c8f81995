// Package scanner fetches the analyzer's inputs: the S&P 500 constituent
// list and batched fundamental/technical data from the TradingView scanner.
package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// FallbackTickers is used when the constituents page cannot be fetched or
// parsed, so a degraded run still produces a dashboard.
var FallbackTickers = []string{"AAPL", "MSFT", "GOOG", "JNJ", "KO", "PEP", "O", "XOM", "CVX"}

// FetchSP500 downloads and parses the S&P 500 constituents table, returning
// ticker symbols with dots normalized to dashes (BRK.B → BRK-B). On any
// failure it returns FallbackTickers and the underlying error; callers log
// and continue.
func FetchSP500(ctx context.Context, client *http.Client, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FallbackTickers, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return FallbackTickers, fmt.Errorf("fetching constituents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FallbackTickers, fmt.Errorf("fetching constituents: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FallbackTickers, err
	}

	tickers, err := ParseConstituents(body)
	if err != nil {
		return FallbackTickers, err
	}
	return tickers, nil
}

// ParseConstituents extracts the first column of the first wikitable in the
// page, skipping the header row.
func ParseConstituents(page []byte) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parsing constituents page: %w", err)
	}

	table := findTable(doc)
	if table == nil {
		return nil, fmt.Errorf("no constituents table found")
	}

	var tickers []string
	for row := range rows(table) {
		cell := firstCell(row)
		if cell == nil || cell.Data == "th" {
			continue // header row
		}
		sym := strings.TrimSpace(text(cell))
		if sym == "" {
			continue
		}
		tickers = append(tickers, strings.ReplaceAll(sym, ".", "-"))
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("constituents table is empty")
	}
	return tickers, nil
}

// findTable returns the first <table> carrying the wikitable class.
func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, a := range n.Attr {
			if a.Key == "class" && strings.Contains(a.Val, "wikitable") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTable(c); t != nil {
			return t
		}
	}
	return nil
}

// rows yields every <tr> under the table, including those inside <tbody>.
func rows(table *html.Node) func(func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.Data == "tr" {
				return yield(n)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(table)
	}
}

// firstCell returns the row's first <td> or <th>.
func firstCell(tr *html.Node) *html.Node {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			return c
		}
	}
	return nil
}

// text concatenates all text nodes under n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
