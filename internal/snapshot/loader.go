// Package snapshot loads analyzer output documents (stocks_data.json) and
// normalizes them into domain snapshots.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// ErrNotAvailable is returned when the snapshot document does not exist yet
// or cannot be fetched. The API layer maps it to the "not generated yet"
// state instead of a populated dashboard.
var ErrNotAvailable = errors.New("snapshot not available")

// document is the new-schema envelope. The legacy format is a bare array of
// records.
type document struct {
	Metadata domain.Metadata   `json:"metadata"`
	Data     []json.RawMessage `json:"data"`
}

// Parse decodes an analyzer output document in either the `{metadata, data}`
// envelope or the legacy bare-array format, then drops invalid records.
//
// Records are decoded individually from raw messages so one malformed record
// drops that record only rather than failing the whole document or leaking
// NaN/undefined values into the view layer.
func Parse(raw []byte) (*domain.Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrNotAvailable)
	}

	// A document that cannot be decoded at all is treated like a missing
	// one: the dashboard shows the not-generated state either way, and the
	// detail stays in the error for the logs.
	var doc document
	switch raw[0] {
	case '{':
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: malformed document: %v", ErrNotAvailable, err)
		}
	case '[':
		// Legacy: a bare array of records.
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("%w: malformed legacy array: %v", ErrNotAvailable, err)
		}
	default:
		return nil, fmt.Errorf("%w: document is neither object nor array", ErrNotAvailable)
	}

	snap := &domain.Snapshot{
		Metadata: doc.Metadata,
		Records:  make([]domain.StockRecord, 0, len(doc.Data)),
	}

	malformed, invalid := 0, 0
	for _, msg := range doc.Data {
		var r domain.StockRecord
		if err := json.Unmarshal(msg, &r); err != nil {
			malformed++
			continue
		}
		if !valid(r) {
			invalid++
			continue
		}
		snap.Records = append(snap.Records, r)
	}

	if malformed > 0 || invalid > 0 {
		slog.Warn("dropped snapshot records",
			"malformed", malformed,
			"invalid", invalid,
			"kept", len(snap.Records))
	}

	return snap, nil
}

// valid applies the record-level validation rules: a positive price and a
// non-negative score.
func valid(r domain.StockRecord) bool {
	return r.Price > 0 && r.Score >= 0
}
