package view

import (
	"testing"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/i18n"
)

var testNow = time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC)

func TestBuildStatsMeanYield(t *testing.T) {
	snap := &domain.Snapshot{
		Records: []domain.StockRecord{
			{Symbol: "A", DividendYieldPct: 2.0},
			{Symbol: "B", DividendYieldPct: 4.0},
		},
	}
	s := BuildStats(snap)
	if s.AvgYield != "3.00%" {
		t.Errorf("AvgYield = %q, want 3.00%%", s.AvgYield)
	}
	if s.Selected != 2 {
		t.Errorf("Selected = %d, want 2", s.Selected)
	}
}

func TestBuildStatsEmptySet(t *testing.T) {
	s := BuildStats(&domain.Snapshot{})
	if s.AvgYield != Placeholder {
		t.Errorf("empty-set AvgYield = %q, want placeholder", s.AvgYield)
	}
	if s.Analyzed != "500+" {
		t.Errorf("Analyzed fallback = %q, want 500+", s.Analyzed)
	}
}

func TestBuildStatsAnalyzedFromMetadata(t *testing.T) {
	snap := &domain.Snapshot{Metadata: domain.Metadata{TotalAnalyzed: 982}}
	if s := BuildStats(snap); s.Analyzed != "982" {
		t.Errorf("Analyzed = %q, want 982", s.Analyzed)
	}
}

func TestTopPicksSnapshotOrder(t *testing.T) {
	snap := &domain.Snapshot{
		Records: []domain.StockRecord{
			{Symbol: "A", Score: 10},
			{Symbol: "B", Score: 99},
			{Symbol: "C", Score: 50},
			{Symbol: "D", Score: 80},
		},
	}
	cards := TopPicks(snap)
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	// First three in snapshot order, not re-sorted.
	for i, want := range []string{"A", "B", "C"} {
		if cards[i].Symbol != want {
			t.Errorf("card %d = %s, want %s", i, cards[i].Symbol, want)
		}
	}
}

func TestTopPicksShortSet(t *testing.T) {
	snap := &domain.Snapshot{Records: []domain.StockRecord{{Symbol: "A"}}}
	if got := TopPicks(snap); len(got) != 1 {
		t.Errorf("got %d cards, want 1", len(got))
	}
}

func TestBuildTableTruncation(t *testing.T) {
	records := make([]domain.StockRecord, 60)
	for i := range records {
		records[i] = domain.StockRecord{Symbol: "S", Price: 1}
	}
	if rows := BuildTable(records); len(rows) != TableLimit {
		t.Errorf("got %d rows, want %d", len(rows), TableLimit)
	}
}

func TestBuildTableRow(t *testing.T) {
	rows := BuildTable([]domain.StockRecord{{
		Symbol:           "KO",
		Name:             "Coca-Cola",
		Price:            62.5,
		Growth5YPct:      -12.3,
		DividendYieldPct: 3.07,
		TVSignal:         domain.TVStrongBuy,
		Score:            81,
	}})
	r := rows[0]
	if r.Price != "$62.50" {
		t.Errorf("Price = %q", r.Price)
	}
	if r.Growth != "-12.30%" || r.GrowthDirection != GrowthDown {
		t.Errorf("Growth = %q dir %q", r.Growth, r.GrowthDirection)
	}
	if r.Signal != domain.SignalBuy {
		t.Errorf("Signal = %q, want buy", r.Signal)
	}
	if r.ScoreBadge != BadgeSuccess {
		t.Errorf("ScoreBadge = %q, want success", r.ScoreBadge)
	}
	if r.ExDivDate != Placeholder {
		t.Errorf("empty ex-div should render placeholder, got %q", r.ExDivDate)
	}
}

func TestScoreBadgeThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{75, BadgeSuccess},
		{90, BadgeSuccess},
		{74.9, BadgeWarning},
		{50, BadgeWarning},
		{49.9, BadgeDanger},
		{0, BadgeDanger},
	}
	for _, c := range cases {
		if got := ScoreBadge(c.score); got != c.want {
			t.Errorf("ScoreBadge(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestCountdown(t *testing.T) {
	cases := []struct {
		exDiv string
		loc   i18n.Locale
		want  string
	}{
		{"2024-06-13", i18n.LocaleEN, "3 Days"},
		{"2024-06-10", i18n.LocaleEN, "Passed"},
		{"2024-06-01", i18n.LocaleEN, "Passed"},
		{"2024-06-13", i18n.LocaleES, "3 Días"},
		{"2024-06-10", i18n.LocaleES, "Pasado"},
		{"N/A", i18n.LocaleEN, Placeholder},
		{"Check TV", i18n.LocaleEN, Placeholder},
		{"", i18n.LocaleEN, Placeholder},
	}
	for _, c := range cases {
		r := domain.StockRecord{ExDivDate: c.exDiv}
		if got := Countdown(r, testNow, c.loc); got != c.want {
			t.Errorf("Countdown(%q, %s) = %q, want %q", c.exDiv, c.loc, got, c.want)
		}
	}
}

func TestChartConfigFixedParameters(t *testing.T) {
	cfg := NewChartConfig("KO", i18n.LocaleEN)
	if cfg.Symbol != "KO" {
		t.Errorf("Symbol = %q", cfg.Symbol)
	}
	if cfg.Interval != "D" || cfg.Theme != "dark" || cfg.Range != "12M" {
		t.Errorf("fixed parameters wrong: %+v", cfg)
	}
	if !cfg.Autosize || cfg.ContainerID == "" {
		t.Errorf("widget container config wrong: %+v", cfg)
	}
}
