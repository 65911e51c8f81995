// Package store persists published snapshots: per-date Parquet archives of
// the full record set and a SQLite history of per-symbol metrics over time.
package store

import (
	"context"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// HistoryPoint is one symbol's metrics on one published date.
type HistoryPoint struct {
	Date             string  `json:"date"`
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Score            float64 `json:"score"`
	DividendYieldPct float64 `json:"dividend_yield_pct"`
	Growth5YPct      float64 `json:"growth_5y_pct"`
}

// HistoryStore records per-symbol metrics for each published snapshot and
// answers per-symbol history queries.
type HistoryStore interface {
	// RecordSnapshot upserts every record's metrics under the given date.
	RecordSnapshot(ctx context.Context, date string, records []domain.StockRecord) error

	// SymbolHistory returns the points for a symbol in date order.
	SymbolHistory(ctx context.Context, symbol string) ([]HistoryPoint, error)

	// Dates returns all distinct published dates in ascending order.
	Dates(ctx context.Context) ([]string, error)
}

// Archiver persists full record sets by date.
type Archiver interface {
	// WriteDate archives the full record set under the given date.
	WriteDate(date string, records []domain.StockRecord) error

	// ReadDate returns the archived record set for a date.
	ReadDate(date string) ([]domain.StockRecord, error)

	// ListDates returns archived dates in ascending order.
	ListDates() ([]string, error)
}
