package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// Compile-time interface check.
var _ HistoryStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot_history (
	date    TEXT NOT NULL,
	symbol  TEXT NOT NULL,
	price   REAL NOT NULL,
	score   REAL NOT NULL,
	yield   REAL NOT NULL,
	growth  REAL NOT NULL,
	PRIMARY KEY (date, symbol)
);
CREATE INDEX IF NOT EXISTS idx_history_symbol ON snapshot_history(symbol);
`

// SQLiteStore implements HistoryStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot_history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordSnapshot upserts one row per record under the given date, in a
// single transaction. Re-publishing the same date overwrites that date.
func (s *SQLiteStore) RecordSnapshot(ctx context.Context, date string, records []domain.StockRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_history (date, symbol, price, score, yield, growth)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, symbol) DO UPDATE SET
			price = excluded.price,
			score = excluded.score,
			yield = excluded.yield,
			growth = excluded.growth`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, date, r.Symbol, r.Price, r.Score, r.DividendYieldPct, r.Growth5YPct); err != nil {
			return fmt.Errorf("upserting %s/%s: %w", date, r.Symbol, err)
		}
	}

	return tx.Commit()
}

// SymbolHistory returns the recorded points for a symbol in date order.
func (s *SQLiteStore) SymbolHistory(ctx context.Context, symbol string) ([]HistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, symbol, price, score, yield, growth
		FROM snapshot_history
		WHERE symbol = ? COLLATE NOCASE
		ORDER BY date`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []HistoryPoint
	for rows.Next() {
		var p HistoryPoint
		if err := rows.Scan(&p.Date, &p.Symbol, &p.Price, &p.Score, &p.DividendYieldPct, &p.Growth5YPct); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Dates returns all distinct published dates in ascending order.
func (s *SQLiteStore) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT date FROM snapshot_history ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
