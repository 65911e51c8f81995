package query

import (
	"testing"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

var testNow = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

func testRecords() []domain.StockRecord {
	return []domain.StockRecord{
		{Symbol: "KO", Name: "Coca-Cola", Score: 82, DividendYieldPct: 3.1, Growth5YPct: 40, ExDivDate: "2024-06-13"},
		{Symbol: "PEP", Name: "PepsiCo", Score: 74, DividendYieldPct: 3.4, Growth5YPct: 25, ExDivDate: "2024-06-10"},
		{Symbol: "XOM", Name: "Exxon Mobil", Score: 65, DividendYieldPct: 3.6, Growth5YPct: 80, ExDivDate: "2024-07-02"},
		{Symbol: "O", Name: "Realty Income", Score: 55, DividendYieldPct: 5.8, Growth5YPct: -10, ExDivDate: "N/A"},
		{Symbol: "JNJ", Name: "Johnson & Johnson", Score: 71, DividendYieldPct: 3.0, Growth5YPct: 12, ExDivDate: "2024-06-24"},
	}
}

func symbols(rs []domain.StockRecord) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Symbol
	}
	return out
}

func TestApplyAllEmptyQueryReturnsFullSet(t *testing.T) {
	full := testRecords()
	got := Apply(full, Filter{Window: WindowAll, Sort: KeyScore}, testNow)
	if len(got) != len(full) {
		t.Fatalf("got %d records, want %d", len(got), len(full))
	}

	// Subset-by-symbol invariant: every display record exists in the full set.
	seen := make(map[string]bool)
	for _, r := range full {
		seen[r.Symbol] = true
	}
	for _, r := range got {
		if !seen[r.Symbol] {
			t.Errorf("display record %q not in full set", r.Symbol)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	full := testRecords()
	Apply(full, Filter{Window: WindowAll, Sort: KeyYield}, testNow)
	if full[0].Symbol != "KO" || full[4].Symbol != "JNJ" {
		t.Error("Apply reordered the input slice")
	}
}

func TestTextPredicate(t *testing.T) {
	full := testRecords()

	got := Apply(full, Filter{Query: "cola", Window: WindowAll, Sort: KeyScore}, testNow)
	if len(got) != 1 || got[0].Symbol != "KO" {
		t.Errorf("query 'cola' = %v, want [KO]", symbols(got))
	}

	// Case-folded symbol substring.
	got = Apply(full, Filter{Query: "xo", Window: WindowAll, Sort: KeyScore}, testNow)
	if len(got) != 1 || got[0].Symbol != "XOM" {
		t.Errorf("query 'xo' = %v, want [XOM]", symbols(got))
	}

	got = Apply(full, Filter{Query: "zzz", Window: WindowAll, Sort: KeyScore}, testNow)
	if len(got) != 0 {
		t.Errorf("query 'zzz' = %v, want empty", symbols(got))
	}
}

func TestDateWindows(t *testing.T) {
	full := testRecords()

	got := Apply(full, Filter{Window: WindowToday, Sort: KeyScore}, testNow)
	if len(got) != 1 || got[0].Symbol != "PEP" {
		t.Errorf("today = %v, want [PEP]", symbols(got))
	}

	// Closed range [midnight, midnight+7d]: 06-10 and 06-13 qualify, 06-24
	// and 07-02 do not, N/A is excluded.
	got = Apply(full, Filter{Window: WindowWeek, Sort: KeyScore}, testNow)
	if want := []string{"KO", "PEP"}; len(got) != 2 || got[0].Symbol != want[0] || got[1].Symbol != want[1] {
		t.Errorf("week = %v, want %v", symbols(got), want)
	}

	got = Apply(full, Filter{Window: WindowMonth, Sort: KeyScore}, testNow)
	if len(got) != 3 {
		t.Errorf("month = %v, want KO/PEP/JNJ", symbols(got))
	}
	for _, r := range got {
		if r.Symbol == "XOM" || r.Symbol == "O" {
			t.Errorf("month window included %s", r.Symbol)
		}
	}
}

func TestWeekWindowClosedUpperBound(t *testing.T) {
	full := []domain.StockRecord{{Symbol: "EDGE", Price: 1, ExDivDate: "2024-06-17"}}
	got := Apply(full, Filter{Window: WindowWeek, Sort: KeyScore}, testNow)
	if len(got) != 1 {
		t.Error("ex-div exactly 7 days out should be inside the closed week window")
	}
}

func TestSortGrowthDescending(t *testing.T) {
	full := testRecords()
	got := Apply(full, Filter{Window: WindowAll, Sort: KeyGrowth}, testNow)
	for i := 1; i < len(got); i++ {
		if got[i-1].Growth5YPct < got[i].Growth5YPct {
			t.Fatalf("growth not descending: %v", symbols(got))
		}
	}
	if got[0].Symbol != "XOM" {
		t.Errorf("highest growth first = %s, want XOM", got[0].Symbol)
	}
}

func TestSortYieldDescending(t *testing.T) {
	got := Apply(testRecords(), Filter{Window: WindowAll, Sort: KeyYield}, testNow)
	if got[0].Symbol != "O" {
		t.Errorf("highest yield first = %s, want O", got[0].Symbol)
	}
}

func TestSortDateUnknownLast(t *testing.T) {
	got := Apply(testRecords(), Filter{Window: WindowAll, Sort: KeyDate}, testNow)
	if got[len(got)-1].Symbol != "O" {
		t.Errorf("N/A ex-div should sort last, got order %v", symbols(got))
	}
	if got[0].Symbol != "PEP" {
		t.Errorf("earliest ex-div first = %s, want PEP", got[0].Symbol)
	}
}

func TestParseSelectors(t *testing.T) {
	if ParseWindow("week") != WindowWeek || ParseWindow("bogus") != WindowAll {
		t.Error("ParseWindow mapping wrong")
	}
	if ParseKey("growth") != KeyGrowth || ParseKey("") != KeyScore {
		t.Error("ParseKey mapping wrong")
	}
}
