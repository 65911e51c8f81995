package search

import (
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// indexDoc is the subset of a record that gets indexed. Full records are
// resolved back through the snapshot by symbol, so the index stays small and
// can be rebuilt cheaply on every publish.
type indexDoc struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Sector string  `json:"sector"`
	Score  float64 `json:"score"`
}

// BleveEngine indexes symbol, name, and sector with Bleve, ranking exact and
// prefix symbol matches above fuzzy name hits.
type BleveEngine struct {
	index   bleve.Index
	records []domain.StockRecord
	bySym   map[string]int // lowercase symbol → first record index
}

// NewBleveEngine builds an index at indexPath over the given records. The
// index is derived data: any existing index at the path is replaced, so a
// rebuild after a publish never serves records from a superseded snapshot.
// An in-memory index is used when indexPath is empty.
func NewBleveEngine(indexPath string, records []domain.StockRecord) (*BleveEngine, error) {
	var index bleve.Index
	var err error
	if indexPath == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("clearing search index: %w", err)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	e := &BleveEngine{
		index:   index,
		records: records,
		bySym:   make(map[string]int, len(records)),
	}

	batch := index.NewBatch()
	for i, r := range records {
		key := strings.ToLower(r.Symbol)
		if _, dup := e.bySym[key]; dup {
			// First match wins on lookup; skip duplicate symbols.
			continue
		}
		e.bySym[key] = i
		doc := indexDoc{Symbol: r.Symbol, Name: r.Name, Sector: r.Sector, Score: r.Score}
		if err := batch.Index(key, doc); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", r.Symbol, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("committing index batch: %w", err)
	}

	return e, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	textField.Index = true
	docMapping.AddFieldMappingsAt("symbol", textField)
	docMapping.AddFieldMappingsAt("name", textField)
	docMapping.AddFieldMappingsAt("sector", textField)

	scoreField := bleve.NewNumericFieldMapping()
	scoreField.Store = true
	docMapping.AddFieldMappingsAt("score", scoreField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Search runs a boosted disjunction: exact symbol, symbol prefix, name
// match, then wildcard symbol/name, mirroring how users type either a ticker
// or a fragment of the company name.
func (e *BleveEngine) Search(query string) []domain.StockRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	exact := bleve.NewTermQuery(q)
	exact.SetField("symbol")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(q)
	prefix.SetField("symbol")
	prefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	wildSymbol := bleve.NewWildcardQuery("*" + q + "*")
	wildSymbol.SetField("symbol")
	wildSymbol.SetBoost(2.0)

	wildName := bleve.NewWildcardQuery("*" + q + "*")
	wildName.SetField("name")
	wildName.SetBoost(1.5)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(
		exact, prefix, nameMatch, wildSymbol, wildName,
	))
	req.Size = 50

	res, err := e.index.Search(req)
	if err != nil {
		return nil
	}

	results := make([]domain.StockRecord, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if i, ok := e.bySym[hit.ID]; ok {
			results = append(results, e.records[i])
		}
	}
	return results
}

// GetBySymbol returns the first record matching symbol, case-insensitively.
func (e *BleveEngine) GetBySymbol(symbol string) *domain.StockRecord {
	if i, ok := e.bySym[strings.ToLower(symbol)]; ok {
		return &e.records[i]
	}
	return nil
}

// Close releases the underlying index.
func (e *BleveEngine) Close() error {
	return e.index.Close()
}
