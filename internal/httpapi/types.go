package httpapi

import (
	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/store"
	"github.com/gcdrrtrade/ai-dividends/internal/view"
)

// DashboardResponse is the full dashboard payload: header stats, top-pick
// cards, and the filtered/sorted table, plus the locale's label table so the
// client can fill its statically tagged slots.
type DashboardResponse struct {
	Stats       view.Stats        `json:"stats"`
	TopPicks    []view.Card       `json:"top_picks"`
	Rows        []view.Row        `json:"rows"`
	Labels      map[string]string `json:"labels"`
	Locale      string            `json:"locale"`
	LastUpdated string            `json:"last_updated,omitempty"`
}

// DetailResponse is one symbol's detail-modal payload.
type DetailResponse struct {
	Detail view.Detail       `json:"detail"`
	Labels map[string]string `json:"labels"`
}

// SearchResponse carries raw matching records for API consumers; the
// dashboard table uses /api/dashboard with q instead.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []domain.StockRecord `json:"results"`
}

// HistoryResponse is a symbol's archived metrics over published dates.
type HistoryResponse struct {
	Symbol string               `json:"symbol"`
	Points []store.HistoryPoint `json:"points"`
}

// LocaleResponse reports the active locale and its label table.
type LocaleResponse struct {
	Locale string            `json:"locale"`
	Labels map[string]string `json:"labels"`
}
