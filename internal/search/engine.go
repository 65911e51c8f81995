// Package search provides symbol/name lookup over a snapshot: a canonical
// in-memory substring engine and an optional Bleve full-text index for the
// richer /api/search endpoint.
package search

import (
	"strings"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// Engine finds records by free-text query or exact symbol.
type Engine interface {
	// Search returns records matching the query, best matches first.
	Search(query string) []domain.StockRecord

	// GetBySymbol returns the first record with the given symbol.
	GetBySymbol(symbol string) *domain.StockRecord

	// Close releases index resources.
	Close() error
}

// InMemoryEngine matches the dashboard's filter semantics exactly: a
// case-folded substring test against symbol or name, in snapshot order.
type InMemoryEngine struct {
	records []domain.StockRecord
}

// NewInMemoryEngine creates an engine over the given records. The slice is
// not copied; snapshots are immutable after load.
func NewInMemoryEngine(records []domain.StockRecord) *InMemoryEngine {
	return &InMemoryEngine{records: records}
}

// Search returns every record whose symbol or name contains the query.
func (e *InMemoryEngine) Search(query string) []domain.StockRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var results []domain.StockRecord
	for _, r := range e.records {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Symbol), q) ||
			strings.Contains(strings.ToLower(r.Name), q) {
			results = append(results, r)
		}
	}
	return results
}

// GetBySymbol returns the first record matching symbol, case-insensitively.
func (e *InMemoryEngine) GetBySymbol(symbol string) *domain.StockRecord {
	for i := range e.records {
		if strings.EqualFold(e.records[i].Symbol, symbol) {
			return &e.records[i]
		}
	}
	return nil
}

// Close is a no-op for the in-memory engine.
func (e *InMemoryEngine) Close() error { return nil }
