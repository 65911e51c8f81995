// Package view builds presentation-neutral view models from snapshots and
// display lists: summary stats, top-pick cards, the truncated table, and the
// detail view with its chart widget configuration. No markup is produced
// here; the HTTP layer serializes these models as-is.
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/i18n"
)

const (
	// TableLimit caps how many display-list rows the table shows.
	TableLimit = 50

	// TopPicksCount is the number of highlight cards.
	TopPicksCount = 3

	// analyzedEstimate is the fixed fallback for the "companies analyzed"
	// stat when the snapshot carries no run metadata.
	analyzedEstimate = "500+"
)

// Score badge classes by threshold.
const (
	BadgeSuccess = "success"
	BadgeWarning = "warning"
	BadgeDanger  = "danger"
)

// Growth direction values for sign-based coloring.
const (
	GrowthUp   = "up"
	GrowthDown = "down"
	GrowthFlat = "flat"
)

// Stats summarizes the full set for the header cards.
type Stats struct {
	Analyzed string `json:"analyzed"`
	Selected int    `json:"selected"`
	AvgYield string `json:"avg_yield"`
}

// BuildStats computes the summary statistics over the full record set.
// The mean yield over an empty set renders as the placeholder rather than
// NaN.
func BuildStats(snap *domain.Snapshot) Stats {
	s := Stats{
		Analyzed: analyzedEstimate,
		Selected: len(snap.Records),
		AvgYield: Placeholder,
	}
	if snap.Metadata.TotalAnalyzed > 0 {
		s.Analyzed = fmt.Sprintf("%d", snap.Metadata.TotalAnalyzed)
	}
	if len(snap.Records) > 0 {
		var sum float64
		for _, r := range snap.Records {
			sum += r.DividendYieldPct
		}
		s.AvgYield = FormatPercent(sum / float64(len(snap.Records)))
	}
	return s
}

// Card is one top-pick highlight.
type Card struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Price  string `json:"price"`
	Yield  string `json:"yield"`
	Score  string `json:"score"`
	Badge  string `json:"badge"`
}

// TopPicks returns cards for the first records of the full set in snapshot
// order; the analyzer already writes records sorted by score.
func TopPicks(snap *domain.Snapshot) []Card {
	n := TopPicksCount
	if len(snap.Records) < n {
		n = len(snap.Records)
	}
	cards := make([]Card, 0, n)
	for _, r := range snap.Records[:n] {
		cards = append(cards, Card{
			Symbol: r.Symbol,
			Name:   r.Name,
			Sector: r.Sector,
			Price:  FormatPrice(r.Price),
			Yield:  FormatPercent(r.DividendYieldPct),
			Score:  FormatScore(r.Score),
			Badge:  ScoreBadge(r.Score),
		})
	}
	return cards
}

// Row is one table row of the display list.
type Row struct {
	Symbol          string        `json:"symbol"`
	Name            string        `json:"name"`
	Price           string        `json:"price"`
	Growth          string        `json:"growth"`
	GrowthDirection string        `json:"growth_direction"`
	Yield           string        `json:"yield"`
	ExDivDate       string        `json:"ex_div_date"`
	Signal          domain.Signal `json:"signal"`
	Score           string        `json:"score"`
	ScoreBadge      string        `json:"score_badge"`
}

// BuildTable renders the first TableLimit records of the display list.
func BuildTable(display []domain.StockRecord) []Row {
	n := len(display)
	if n > TableLimit {
		n = TableLimit
	}
	rows := make([]Row, 0, n)
	for _, r := range display[:n] {
		exDiv := r.ExDivDate
		if exDiv == "" {
			exDiv = Placeholder
		}
		rows = append(rows, Row{
			Symbol:          r.Symbol,
			Name:            r.Name,
			Price:           FormatPrice(r.Price),
			Growth:          FormatSignedPercent(r.Growth5YPct),
			GrowthDirection: growthDirection(r.Growth5YPct),
			Yield:           FormatPercent(r.DividendYieldPct),
			ExDivDate:       exDiv,
			Signal:          r.SignalKind(),
			Score:           FormatScore(r.Score),
			ScoreBadge:      ScoreBadge(r.Score),
		})
	}
	return rows
}

// Detail is the full view of one record, shown in the detail modal.
type Detail struct {
	Symbol         string        `json:"symbol"`
	Name           string        `json:"name"`
	Sector         string        `json:"sector"`
	Price          string        `json:"price"`
	Yield          string        `json:"yield"`
	AnnualDividend string        `json:"annual_dividend"`
	EstNextPayment string        `json:"est_next_payment"`
	ExDivDate      string        `json:"ex_div_date"`
	Growth         string        `json:"growth"`
	RSquared       string        `json:"r_squared"`
	Signal         domain.Signal `json:"signal"`
	Score          string        `json:"score"`
	ScoreBadge     string        `json:"score_badge"`
	Countdown      string        `json:"countdown"`
	Chart          ChartConfig   `json:"chart"`
}

// BuildDetail renders the detail view for one record. now anchors the
// ex-dividend countdown; loc localizes the countdown words.
func BuildDetail(r domain.StockRecord, now time.Time, loc i18n.Locale) Detail {
	exDiv := r.ExDivDate
	if exDiv == "" {
		exDiv = Placeholder
	}
	return Detail{
		Symbol:         r.Symbol,
		Name:           r.Name,
		Sector:         r.Sector,
		Price:          FormatPrice(r.Price),
		Yield:          FormatPercent(r.DividendYieldPct),
		AnnualDividend: FormatOptMoney(r.AnnualDividend),
		EstNextPayment: FormatOptMoney(r.EstNextPayment),
		ExDivDate:      exDiv,
		Growth:         FormatSignedPercent(r.Growth5YPct),
		RSquared:       FormatOptDecimal(r.RSquared),
		Signal:         r.SignalKind(),
		Score:          FormatScore(r.Score),
		ScoreBadge:     ScoreBadge(r.Score),
		Countdown:      Countdown(r, now, loc),
		Chart:          NewChartConfig(r.Symbol, loc),
	}
}

// Countdown renders the days-until-ex-dividend string: the ceiling of the
// day difference from now, "Passed" when the date is today or earlier, or
// the placeholder when the date is unknown.
func Countdown(r domain.StockRecord, now time.Time, loc i18n.Locale) string {
	ex, ok := r.ExDivTime(now.Location())
	if !ok {
		return Placeholder
	}
	diffDays := int(math.Ceil(ex.Sub(now).Hours() / 24))
	if diffDays <= 0 {
		return i18n.T(loc, "countdown.passed")
	}
	return fmt.Sprintf("%d %s", diffDays, i18n.T(loc, "countdown.days"))
}

// ScoreBadge maps a score to its badge class by threshold.
func ScoreBadge(score float64) string {
	switch {
	case score >= 75:
		return BadgeSuccess
	case score >= 50:
		return BadgeWarning
	default:
		return BadgeDanger
	}
}

func growthDirection(g float64) string {
	switch {
	case g > 0:
		return GrowthUp
	case g < 0:
		return GrowthDown
	default:
		return GrowthFlat
	}
}
