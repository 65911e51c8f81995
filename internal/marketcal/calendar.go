// Package marketcal answers trading-day questions via the Alpaca calendar
// API. The publisher uses it to skip weekends and market holidays, where a
// fresh analyzer run could not produce new data anyway.
package marketcal

import (
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// Calendar wraps the Alpaca trading-calendar endpoint.
type Calendar struct {
	client *alpaca.Client
}

// New creates a Calendar with the given Alpaca credentials. baseURL may be
// empty to use the SDK default.
func New(apiKey, apiSecret, baseURL string) *Calendar {
	return &Calendar{
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
	}
}

// IsTradingDay reports whether t falls on a US trading day (ET calendar).
func (c *Calendar) IsTradingDay(t time.Time) (bool, error) {
	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		return false, fmt.Errorf("loading ET timezone: %w", err)
	}
	day := t.In(et)

	days, err := c.client.GetCalendar(alpaca.GetCalendarRequest{
		Start: day.AddDate(0, 0, -1),
		End:   day,
	})
	if err != nil {
		return false, fmt.Errorf("GetCalendar: %w", err)
	}

	want := day.Format("2006-01-02")
	for _, d := range days {
		if d.Date == want {
			return true, nil
		}
	}
	return false, nil
}

// LatestTradingDay returns the most recent trading day at or before t.
func (c *Calendar) LatestTradingDay(t time.Time) (time.Time, error) {
	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Time{}, fmt.Errorf("loading ET timezone: %w", err)
	}
	now := t.In(et)

	days, err := c.client.GetCalendar(alpaca.GetCalendarRequest{
		Start: now.AddDate(0, 0, -7),
		End:   now,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("GetCalendar: %w", err)
	}
	if len(days) == 0 {
		return time.Time{}, fmt.Errorf("no trading days returned from calendar")
	}

	for i := len(days) - 1; i >= 0; i-- {
		d, err := time.Parse("2006-01-02", days[i].Date)
		if err != nil {
			continue
		}
		if !d.After(now) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not determine latest trading day")
}
