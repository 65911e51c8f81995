// Package query derives display lists from the full record set: a text
// predicate, an ex-dividend-date window predicate, and a sort key. Every
// call rebuilds the list from scratch; nothing is patched incrementally.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// Window selects an ex-dividend-date range relative to "today".
type Window string

const (
	WindowAll   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// Key selects the sort order of the display list.
type Key string

const (
	KeyScore  Key = "score"  // descending
	KeyYield  Key = "yield"  // descending
	KeyGrowth Key = "growth" // descending
	KeyDate   Key = "date"   // ascending, unknown dates last
)

// ParseWindow maps a raw selector value to a Window, defaulting to all.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowToday, WindowWeek, WindowMonth:
		return Window(s)
	default:
		return WindowAll
	}
}

// ParseKey maps a raw selector value to a sort Key, defaulting to score.
func ParseKey(s string) Key {
	switch Key(s) {
	case KeyYield, KeyGrowth, KeyDate:
		return Key(s)
	default:
		return KeyScore
	}
}

// Filter is one complete filter/sort selection.
type Filter struct {
	Query  string
	Window Window
	Sort   Key
}

// Apply filters then sorts the full set into a fresh display list. now
// anchors the date windows; its location defines "local time".
func Apply(records []domain.StockRecord, f Filter, now time.Time) []domain.StockRecord {
	out := make([]domain.StockRecord, 0, len(records))
	q := strings.ToLower(strings.TrimSpace(f.Query))

	for _, r := range records {
		if !matchesText(r, q) {
			continue
		}
		if !matchesWindow(r, f.Window, now) {
			continue
		}
		out = append(out, r)
	}

	sortRecords(out, f.Sort, now.Location())
	return out
}

// matchesText reports whether the query is a case-folded substring of the
// record's symbol or name. An empty query passes everything.
func matchesText(r domain.StockRecord, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Symbol), q) ||
		strings.Contains(strings.ToLower(r.Name), q)
}

// matchesWindow evaluates the date window. Records without a usable
// ex-dividend date are excluded from every window except all.
func matchesWindow(r domain.StockRecord, w Window, now time.Time) bool {
	if w == WindowAll {
		return true
	}

	ex, ok := r.ExDivTime(now.Location())
	if !ok {
		return false
	}

	switch w {
	case WindowToday:
		return ex.Year() == now.Year() && ex.YearDay() == now.YearDay()
	case WindowWeek:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := midnight.AddDate(0, 0, 7)
		return !ex.Before(midnight) && !ex.After(end)
	case WindowMonth:
		return ex.Year() == now.Year() && ex.Month() == now.Month()
	default:
		return true
	}
}

func sortRecords(rs []domain.StockRecord, key Key, loc *time.Location) {
	switch key {
	case KeyYield:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].DividendYieldPct > rs[j].DividendYieldPct
		})
	case KeyGrowth:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Growth5YPct > rs[j].Growth5YPct
		})
	case KeyDate:
		sort.SliceStable(rs, func(i, j int) bool {
			return exDivSortValue(rs[i], loc) < exDivSortValue(rs[j], loc)
		})
	default: // KeyScore
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Score > rs[j].Score
		})
	}
}

// exDivSortValue returns the ex-div date as Unix milliseconds, with unknown
// or unparseable dates pushed past every valid date.
func exDivSortValue(r domain.StockRecord, loc *time.Location) int64 {
	ex, ok := r.ExDivTime(loc)
	if !ok {
		return int64(1<<63 - 1)
	}
	return ex.UnixMilli()
}
