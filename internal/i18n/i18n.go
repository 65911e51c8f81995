// Package i18n holds the two static dashboard string tables (English and
// Spanish) and locale resolution. The selected locale is persisted per
// client by the HTTP layer; this package is pure lookup.
package i18n

// Locale identifies one of the supported languages.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"

	// CookieName is the persisted browser state key for the selection.
	CookieName = "lang"
)

// Resolve maps a raw locale string to a supported Locale, falling back to
// English for anything unknown.
func Resolve(s string) Locale {
	if Locale(s) == LocaleES {
		return LocaleES
	}
	return LocaleEN
}

// tables holds every translatable dashboard string, keyed by logical name.
// Keys mirror the tagged slots of the rendering surface.
var tables = map[Locale]map[string]string{
	LocaleEN: {
		"title":              "AI Dividends",
		"subtitle":           "Dividend opportunities, scored daily",
		"stats.analyzed":     "Companies Analyzed",
		"stats.selected":     "Opportunities Found",
		"stats.avg_yield":    "Average Yield",
		"top_picks":          "Top Picks",
		"search.placeholder": "Search symbol or company...",
		"filter.all":         "All dates",
		"filter.today":       "Ex-div today",
		"filter.week":        "Next 7 days",
		"filter.month":       "This month",
		"sort.score":         "Score",
		"sort.yield":         "Yield",
		"sort.growth":        "5Y Growth",
		"sort.date":          "Ex-div date",
		"table.symbol":       "Symbol",
		"table.price":        "Price",
		"table.growth":       "5Y Growth",
		"table.yield":        "Yield",
		"table.ex_div":       "Ex-Div Date",
		"table.signal":       "Signal",
		"table.score":        "Score",
		"table.view":         "View",
		"detail.sector":      "Sector",
		"detail.price":       "Price",
		"detail.yield":       "Dividend Yield",
		"detail.annual":      "Annual Dividend",
		"detail.next":        "Est. Next Payment",
		"detail.ex_div":      "Ex-Dividend Date",
		"detail.growth":      "5-Year Growth",
		"detail.trend":       "Trend Consistency",
		"detail.countdown":   "Days to Ex-Div",
		"countdown.passed":   "Passed",
		"countdown.days":     "Days",
		"not_generated":      "Data not generated yet. Please check back soon.",
		"not_found":          "Symbol not found",
	},
	LocaleES: {
		"title":              "AI Dividends",
		"subtitle":           "Oportunidades de dividendos, puntuadas a diario",
		"stats.analyzed":     "Empresas Analizadas",
		"stats.selected":     "Oportunidades Encontradas",
		"stats.avg_yield":    "Rentabilidad Media",
		"top_picks":          "Mejores Selecciones",
		"search.placeholder": "Buscar símbolo o empresa...",
		"filter.all":         "Todas las fechas",
		"filter.today":       "Ex-div hoy",
		"filter.week":        "Próximos 7 días",
		"filter.month":       "Este mes",
		"sort.score":         "Puntuación",
		"sort.yield":         "Rentabilidad",
		"sort.growth":        "Crecimiento 5A",
		"sort.date":          "Fecha ex-div",
		"table.symbol":       "Símbolo",
		"table.price":        "Precio",
		"table.growth":       "Crecimiento 5A",
		"table.yield":        "Rentabilidad",
		"table.ex_div":       "Fecha Ex-Div",
		"table.signal":       "Señal",
		"table.score":        "Puntuación",
		"table.view":         "Ver",
		"detail.sector":      "Sector",
		"detail.price":       "Precio",
		"detail.yield":       "Rentabilidad por Dividendo",
		"detail.annual":      "Dividendo Anual",
		"detail.next":        "Próximo Pago Est.",
		"detail.ex_div":      "Fecha Ex-Dividendo",
		"detail.growth":      "Crecimiento a 5 Años",
		"detail.trend":       "Consistencia de Tendencia",
		"detail.countdown":   "Días hasta Ex-Div",
		"countdown.passed":   "Pasado",
		"countdown.days":     "Días",
		"not_generated":      "Datos aún no generados. Vuelve a intentarlo pronto.",
		"not_found":          "Símbolo no encontrado",
	},
}

// T returns the translation for key in the given locale. Unknown keys fall
// back to English, then to the key itself so a missing entry is visible
// rather than blank.
func T(loc Locale, key string) string {
	if table, ok := tables[loc]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := tables[LocaleEN][key]; ok {
		return s
	}
	return key
}

// Table returns a copy of the full string table for a locale, for clients
// that apply translations to statically tagged slots themselves.
func Table(loc Locale) map[string]string {
	src, ok := tables[loc]
	if !ok {
		src = tables[LocaleEN]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
