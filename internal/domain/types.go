// Package domain defines the core types shared across the dividends
// platform: analyzed stock records, snapshots, and trading signals.
package domain

import (
	"strings"
	"time"
)

// Signal is the three-way visual trading signal derived from the raw
// TradingView recommendation string.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// Raw tv_signal values emitted by the analyzer.
const (
	TVStrongBuy  = "STRONG_BUY"
	TVBuy        = "BUY"
	TVStrongSell = "STRONG_SELL"
	TVSell       = "SELL"
	TVNeutral    = "NEUTRAL"
)

// Sentinel ex_div_date values meaning "unknown".
const (
	ExDivUnknown = "N/A"
	ExDivCheckTV = "Check TV"
)

// ExDivDateLayout is the date format the analyzer writes for ex-dividend
// dates.
const ExDivDateLayout = "2006-01-02"

// StockRecord is one analyzed company, as produced by the analyzer and
// consumed by the dashboard. Optional decimals are pointers so absence
// survives a JSON round trip and renders as a placeholder rather than zero.
type StockRecord struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	Sector           string   `json:"sector"`
	Price            float64  `json:"price"`
	Score            float64  `json:"score"`
	Growth5YPct      float64  `json:"growth_5y_pct"`
	DividendYieldPct float64  `json:"dividend_yield_pct"`
	AnnualDividend   *float64 `json:"annual_dividend,omitempty"`
	EstNextPayment   *float64 `json:"est_next_payment,omitempty"`
	ExDivDate        string   `json:"ex_div_date,omitempty"`
	TVSignal         string   `json:"tv_signal,omitempty"`
	RSquared         *float64 `json:"r_squared,omitempty"`

	// Legacy analyzer fields, carried through verbatim.
	Slope      float64 `json:"slope,omitempty"`
	StartPrice float64 `json:"start_price,omitempty"`
	EndPrice   float64 `json:"end_price,omitempty"`
}

// SignalKind maps the raw tv_signal to the three-way visual signal by
// substring match, so STRONG_BUY and BUY collapse to the same bucket.
func (r StockRecord) SignalKind() Signal {
	switch {
	case strings.Contains(r.TVSignal, "BUY"):
		return SignalBuy
	case strings.Contains(r.TVSignal, "SELL"):
		return SignalSell
	default:
		return SignalNeutral
	}
}

// ExDivTime parses the ex-dividend date in the given location. ok is false
// for missing, sentinel, or unparseable values.
func (r StockRecord) ExDivTime(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(r.ExDivDate)
	if s == "" || s == ExDivUnknown || s == ExDivCheckTV {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExDivDateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Metadata describes one analyzer run.
type Metadata struct {
	LastUpdated   string `json:"last_updated,omitempty"`
	TotalAnalyzed int    `json:"total_analyzed,omitempty"`
}

// Snapshot is one fetched analyzer output: the full record set plus run
// metadata. It is the single source of truth for a serving session and is
// never mutated after load; display lists are always recomputed from it.
type Snapshot struct {
	Metadata Metadata
	Records  []StockRecord
}

// Float64Ptr returns a pointer to v. Convenience for building records with
// optional fields.
func Float64Ptr(v float64) *float64 { return &v }
