// Package dividends provides a Go client for the dividends-server API.
package dividends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/httpapi"
)

// Client talks to a running dividends-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DashboardOptions select the table filter and locale for Dashboard.
type DashboardOptions struct {
	Query  string
	Window string // all, today, week, month
	Sort   string // score, yield, growth, date
	Lang   string // en, es
}

// Dashboard fetches the full dashboard payload.
func (c *Client) Dashboard(ctx context.Context, opts DashboardOptions) (*httpapi.DashboardResponse, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Window != "" {
		q.Set("window", opts.Window)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Lang != "" {
		q.Set("lang", opts.Lang)
	}

	var resp httpapi.DashboardResponse
	if err := c.get(ctx, "/api/dashboard", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StockDetail fetches one symbol's detail view.
func (c *Client) StockDetail(ctx context.Context, symbol, lang string) (*httpapi.DetailResponse, error) {
	q := url.Values{}
	if lang != "" {
		q.Set("lang", lang)
	}
	var resp httpapi.DetailResponse
	if err := c.get(ctx, "/api/stocks/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search returns raw records matching the query.
func (c *Client) Search(ctx context.Context, query string) (*httpapi.SearchResponse, error) {
	q := url.Values{"q": {query}}
	var resp httpapi.SearchResponse
	if err := c.get(ctx, "/api/search", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SymbolHistory returns a symbol's archived metrics over published dates.
func (c *Client) SymbolHistory(ctx context.Context, symbol string) (*httpapi.HistoryResponse, error) {
	var resp httpapi.HistoryResponse
	if err := c.get(ctx, "/api/history/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
