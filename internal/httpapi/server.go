// Package httpapi serves the dividend dashboard HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/i18n"
	"github.com/gcdrrtrade/ai-dividends/internal/query"
	"github.com/gcdrrtrade/ai-dividends/internal/search"
	"github.com/gcdrrtrade/ai-dividends/internal/snapshot"
	"github.com/gcdrrtrade/ai-dividends/internal/store"
	"github.com/gcdrrtrade/ai-dividends/internal/view"
)

// DashboardServer serves the dashboard HTTP API.
type DashboardServer struct {
	source    snapshot.Source
	history   store.HistoryStore // nil when no history database is configured
	newEngine EngineFactory      // nil falls back to in-memory substring search
	defLoc    i18n.Locale
	log       *slog.Logger

	// The engine is rebuilt whenever the source hands out a new snapshot,
	// so search never serves records from a superseded publish.
	mu         sync.Mutex
	engine     search.Engine
	engineSnap *domain.Snapshot

	// now is replaceable in tests so date windows and countdowns are stable.
	now func() time.Time
}

// EngineFactory builds a search engine over one snapshot's records.
type EngineFactory func(records []domain.StockRecord) (search.Engine, error)

// NewDashboardServer creates a dashboard server over the given snapshot
// source. history and newEngine are optional.
func NewDashboardServer(source snapshot.Source, history store.HistoryStore, newEngine EngineFactory, defaultLocale string, log *slog.Logger) *DashboardServer {
	return &DashboardServer{
		source:    source,
		history:   history,
		newEngine: newEngine,
		defLoc:    i18n.Resolve(defaultLocale),
		log:       log,
		now:       time.Now,
	}
}

// Close releases the current search engine.
func (s *DashboardServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil
	}
	err := s.engine.Close()
	s.engine, s.engineSnap = nil, nil
	return err
}

// searchEngine returns the engine for the given snapshot, rebuilding it when
// the snapshot changed since the last call. A failed factory degrades to the
// in-memory engine rather than taking search down.
func (s *DashboardServer) searchEngine(snap *domain.Snapshot) search.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil && s.engineSnap == snap {
		return s.engine
	}
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			s.log.Warn("closing superseded search index", "error", err)
		}
		s.engine = nil
	}

	if s.newEngine != nil {
		eng, err := s.newEngine(snap.Records)
		if err != nil {
			s.log.Warn("rebuilding search index failed, using substring search", "error", err)
		} else {
			s.engine = eng
		}
	}
	if s.engine == nil {
		s.engine = search.NewInMemoryEngine(snap.Records)
	}
	s.engineSnap = snap
	return s.engine
}

// RegisterRoutes registers all API routes on the given mux.
func (s *DashboardServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/stocks/{symbol}", s.handleStockDetail)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/history/{symbol}", s.handleSymbolHistory)
	mux.HandleFunc("GET /api/locale", s.handleGetLocale)
	mux.HandleFunc("PUT /api/locale/{lang}", s.handleSetLocale)
}

// Handler returns an http.Handler with CORS middleware.
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// locale resolves the request's language: explicit query param first, then
// the persisted cookie, then the server default.
func (s *DashboardServer) locale(r *http.Request) i18n.Locale {
	if v := r.URL.Query().Get("lang"); v != "" {
		return i18n.Resolve(v)
	}
	if c, err := r.Cookie(i18n.CookieName); err == nil && c.Value != "" {
		return i18n.Resolve(c.Value)
	}
	return s.defLoc
}

// load fetches the current snapshot and writes the "not generated yet"
// response when the document does not exist. A nil return means the response
// is already written.
func (s *DashboardServer) load(w http.ResponseWriter, r *http.Request, loc i18n.Locale) *domain.Snapshot {
	snap, err := s.source.Load(r.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrNotAvailable) {
			s.log.Warn("snapshot unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, i18n.T(loc, "not_generated"))
			return nil
		}
		s.log.Error("loading snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return nil
	}
	return snap
}

// parseFilter extracts the filter/sort selection from query params.
func parseFilter(r *http.Request) query.Filter {
	q := r.URL.Query()
	return query.Filter{
		Query:  q.Get("q"),
		Window: query.ParseWindow(q.Get("window")),
		Sort:   query.ParseKey(q.Get("sort")),
	}
}

func (s *DashboardServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	loc := s.locale(r)
	snap := s.load(w, r, loc)
	if snap == nil {
		return
	}

	display := query.Apply(snap.Records, parseFilter(r), s.now())

	writeJSON(w, DashboardResponse{
		Stats:       view.BuildStats(snap),
		TopPicks:    view.TopPicks(snap),
		Rows:        view.BuildTable(display),
		Labels:      i18n.Table(loc),
		Locale:      string(loc),
		LastUpdated: snap.Metadata.LastUpdated,
	})
}

func (s *DashboardServer) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	loc := s.locale(r)
	snap := s.load(w, r, loc)
	if snap == nil {
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	rec := s.searchEngine(snap).GetBySymbol(symbol)
	if rec == nil {
		writeError(w, http.StatusNotFound, i18n.T(loc, "not_found"))
		return
	}

	writeJSON(w, DetailResponse{
		Detail: view.BuildDetail(*rec, s.now(), loc),
		Labels: i18n.Table(loc),
	})
}

func (s *DashboardServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	loc := s.locale(r)
	snap := s.load(w, r, loc)
	if snap == nil {
		return
	}

	q := r.URL.Query().Get("q")
	results := s.searchEngine(snap).Search(q)
	if results == nil {
		results = []domain.StockRecord{}
	}
	writeJSON(w, SearchResponse{Query: q, Results: results})
}

func (s *DashboardServer) handleSymbolHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history not configured")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	points, err := s.history.SymbolHistory(r.Context(), symbol)
	if err != nil {
		s.log.Error("reading symbol history", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if points == nil {
		points = []store.HistoryPoint{}
	}
	writeJSON(w, HistoryResponse{Symbol: symbol, Points: points})
}

func (s *DashboardServer) handleGetLocale(w http.ResponseWriter, r *http.Request) {
	loc := s.locale(r)
	writeJSON(w, LocaleResponse{Locale: string(loc), Labels: i18n.Table(loc)})
}

// handleSetLocale persists the selection in the lang cookie. Unknown values
// resolve to English rather than erroring, matching the resolver.
func (s *DashboardServer) handleSetLocale(w http.ResponseWriter, r *http.Request) {
	loc := i18n.Resolve(r.PathValue("lang"))
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    string(loc),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, LocaleResponse{Locale: string(loc), Labels: i18n.Table(loc)})
}
