package view

import "github.com/gcdrrtrade/ai-dividends/internal/i18n"

// ChartConfig is the configuration blob handed to the embedded TradingView
// chart widget for the selected symbol. The widget is a black box loaded by
// side effect on the client; the server only fixes its parameters. Clients
// must tear the one live instance down on every modal close path.
type ChartConfig struct {
	Symbol      string `json:"symbol"`
	Interval    string `json:"interval"`
	Range       string `json:"range"`
	Theme       string `json:"theme"`
	Style       string `json:"style"`
	Locale      string `json:"locale"`
	Autosize    bool   `json:"autosize"`
	ContainerID string `json:"container_id"`
}

// Fixed widget parameters: daily candles, dark theme, 12-month default
// range.
const (
	chartInterval  = "D"
	chartRange     = "12M"
	chartTheme     = "dark"
	chartStyle     = "1"
	chartContainer = "tradingview_chart"
)

// NewChartConfig builds the fixed widget configuration for a symbol.
func NewChartConfig(symbol string, loc i18n.Locale) ChartConfig {
	return ChartConfig{
		Symbol:      symbol,
		Interval:    chartInterval,
		Range:       chartRange,
		Theme:       chartTheme,
		Style:       chartStyle,
		Locale:      string(loc),
		Autosize:    true,
		ContainerID: chartContainer,
	}
}
