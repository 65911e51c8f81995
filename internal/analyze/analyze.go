// Package analyze turns raw scanner rows into scored stock records and the
// published stocks_data.json document.
package analyze

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/scanner"
)

// Positions of scanner.Columns in each row's data array.
const (
	colName = iota
	colClose
	colMarketCap
	colDividendYield
	colRecommend
	colPerf5Y
	colVolatilityM
	colAvgVolume
	colDescription
	colSector
	colExDivDate
)

// Options controls record selection.
type Options struct {
	// MinMarketCap drops small caps; dividend reliability correlates with
	// size.
	MinMarketCap float64
}

// Process converts scanner rows into validated, scored records sorted by
// score descending. Dual listings are deduplicated by clean symbol, first
// exchange wins. Rows without a market cap above the floor or without a
// positive dividend yield are dropped.
func Process(rows []scanner.Row, opts Options) []domain.StockRecord {
	seen := make(map[string]bool, len(rows))
	records := make([]domain.StockRecord, 0, len(rows))

	for _, row := range rows {
		sym := cleanSymbol(row)
		if sym == "" || seen[sym] {
			continue
		}

		price := numAt(row.D, colClose)
		marketCap := numAt(row.D, colMarketCap)
		divYield := numAt(row.D, colDividendYield)
		recScore := numAt(row.D, colRecommend)
		perf5y := numAt(row.D, colPerf5Y)
		volatility := numAt(row.D, colVolatilityM)

		if price <= 0 {
			continue
		}
		if marketCap < opts.MinMarketCap {
			continue
		}
		if divYield <= 0 {
			// Must pay a dividend.
			continue
		}

		seen[sym] = true

		tvSignal := signalFor(recScore)
		records = append(records, domain.StockRecord{
			Symbol:           sym,
			Name:             strAt(row.D, colDescription),
			Sector:           strAt(row.D, colSector),
			Price:            price,
			Score:            Score(perf5y, volatility, divYield, tvSignal),
			Growth5YPct:      round(perf5y, 2),
			DividendYieldPct: round(divYield, 2),
			AnnualDividend:   domain.Float64Ptr(round(divYield/100*price, 2)),
			EstNextPayment:   domain.Float64Ptr(round(divYield/100*price/4, 3)),
			ExDivDate:        exDivString(numAt(row.D, colExDivDate)),
			TVSignal:         tvSignal,
			RSquared:         domain.Float64Ptr(rSquaredProxy(volatility)),
			Slope:            round(perf5y/100, 4),
			StartPrice:       0, // legacy
			EndPrice:         price,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	return records
}

// signalFor maps the TradingView Recommend.All value [-1, 1] to the
// categorical signal.
func signalFor(rec float64) string {
	switch {
	case rec > 0.5:
		return domain.TVStrongBuy
	case rec > 0.1:
		return domain.TVBuy
	case rec < -0.5:
		return domain.TVStrongSell
	case rec < -0.1:
		return domain.TVSell
	default:
		return domain.TVNeutral
	}
}

// Score computes the opportunity score in [0, 100] from four components:
// five-year growth (up to 40), monthly-volatility stability (up to 40),
// dividend yield (up to 20), and a signal bonus (10 for BUY, 20 for
// STRONG_BUY).
func Score(perf5y, volatility, divYield float64, tvSignal string) float64 {
	growth := clamp(perf5y, 0, 100) * 0.4

	stability := 0.0
	if volatility > 0 {
		stability = math.Max(0, 40-volatility*4)
	}

	yield := math.Min(divYield*5, 20)

	signal := 0.0
	if strings.Contains(tvSignal, "BUY") {
		signal = 10
	}
	if strings.Contains(tvSignal, "STRONG_BUY") {
		signal = 20
	}

	return math.Min(math.Round(growth+stability+yield+signal), 100)
}

// rSquaredProxy derives the trend-consistency indicator from monthly
// volatility: steadier price action reads as a better regression fit.
func rSquaredProxy(volatility float64) float64 {
	if volatility <= 0 {
		volatility = 1
	}
	return round(1.0/volatility, 2)
}

// exDivString formats a Unix-seconds ex-dividend timestamp, or the unknown
// sentinel when absent.
func exDivString(ts float64) string {
	if ts == 0 {
		return domain.ExDivUnknown
	}
	return time.Unix(int64(ts), 0).UTC().Format(domain.ExDivDateLayout)
}

// cleanSymbol strips the exchange prefix, preferring the name column and
// falling back to the response symbol.
func cleanSymbol(row scanner.Row) string {
	full := strAt(row.D, colName)
	if full == "" {
		full = row.S
	}
	if i := strings.IndexByte(full, ':'); i >= 0 {
		return full[i+1:]
	}
	return full
}

// Document is the published output envelope.
type Document struct {
	Metadata domain.Metadata      `json:"metadata"`
	Data     []domain.StockRecord `json:"data"`
}

// MetadataTimeLayout is the last_updated format the analyzer has always
// written.
const MetadataTimeLayout = "2006-01-02 15:04:05"

// BuildDocument assembles the stocks_data.json payload. totalAnalyzed is the
// raw row count before filtering, shown in the dashboard header.
func BuildDocument(records []domain.StockRecord, totalAnalyzed int, now time.Time) ([]byte, error) {
	doc := Document{
		Metadata: domain.Metadata{
			LastUpdated:   now.Format(MetadataTimeLayout),
			TotalAnalyzed: totalAnalyzed,
		},
		Data: records,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func numAt(d []any, i int) float64 {
	if i >= len(d) {
		return 0
	}
	if f, ok := d[i].(float64); ok {
		return f
	}
	return 0
}

func strAt(d []any, i int) string {
	if i >= len(d) {
		return ""
	}
	if s, ok := d[i].(string); ok {
		return s
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
