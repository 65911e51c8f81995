package view

import "fmt"

// Placeholder renders for any missing optional value.
const Placeholder = "—"

// FormatPrice formats a price as $X.XX.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// FormatOptMoney formats an optional dollar amount, or the placeholder when
// absent.
func FormatOptMoney(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("$%.2f", *p)
}

// FormatPercent formats a percentage value to two decimals with a suffix.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatSignedPercent formats a percentage with an explicit sign, as shown
// in the growth column.
func FormatSignedPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatOptDecimal formats an optional plain decimal (e.g. R²), or the
// placeholder when absent.
func FormatOptDecimal(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *p)
}

// FormatScore renders the opportunity score as an integer badge value.
func FormatScore(s float64) string {
	return fmt.Sprintf("%.0f", s)
}
