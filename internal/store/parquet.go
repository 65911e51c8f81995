package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gcdrrtrade/ai-dividends/internal/domain"
)

// Compile-time interface check.
var _ Archiver = (*ParquetArchive)(nil)

// ParquetArchive archives the full record set of each published snapshot to
// Parquet files, one per date:
//
//	<DataDir>/us/dividends/<YYYY-MM-DD>.parquet
type ParquetArchive struct {
	DataDir string
}

// NewParquetArchive creates an archive rooted at the given data directory.
func NewParquetArchive(dataDir string) *ParquetArchive {
	return &ParquetArchive{DataDir: dataDir}
}

// dividendRecord is the on-disk Parquet schema. Optional fields stay
// pointers so absence survives the round trip.
type dividendRecord struct {
	Symbol           string   `parquet:"symbol"`
	Name             string   `parquet:"name"`
	Sector           string   `parquet:"sector"`
	Price            float64  `parquet:"price"`
	Score            float64  `parquet:"score"`
	Growth5YPct      float64  `parquet:"growth_5y_pct"`
	DividendYieldPct float64  `parquet:"dividend_yield_pct"`
	AnnualDividend   *float64 `parquet:"annual_dividend,optional"`
	EstNextPayment   *float64 `parquet:"est_next_payment,optional"`
	ExDivDate        string   `parquet:"ex_div_date"`
	TVSignal         string   `parquet:"tv_signal"`
	RSquared         *float64 `parquet:"r_squared,optional"`
}

func (a *ParquetArchive) datePath(date string) string {
	return filepath.Join(a.DataDir, "us", "dividends", date+".parquet")
}

// WriteDate archives the record set for a date, replacing any existing file.
func (a *ParquetArchive) WriteDate(date string, records []domain.StockRecord) error {
	path := a.datePath(date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out := make([]dividendRecord, 0, len(records))
	for _, r := range records {
		out = append(out, dividendRecord{
			Symbol:           r.Symbol,
			Name:             r.Name,
			Sector:           r.Sector,
			Price:            r.Price,
			Score:            r.Score,
			Growth5YPct:      r.Growth5YPct,
			DividendYieldPct: r.DividendYieldPct,
			AnnualDividend:   r.AnnualDividend,
			EstNextPayment:   r.EstNextPayment,
			ExDivDate:        r.ExDivDate,
			TVSignal:         r.TVSignal,
			RSquared:         r.RSquared,
		})
	}

	if err := parquet.WriteFile(path, out); err != nil {
		return fmt.Errorf("archiving snapshot for %s: %w", date, err)
	}
	return nil
}

// ReadDate returns the archived record set for a date.
func (a *ParquetArchive) ReadDate(date string) ([]domain.StockRecord, error) {
	rows, err := parquet.ReadFile[dividendRecord](a.datePath(date))
	if err != nil {
		return nil, fmt.Errorf("reading archive for %s: %w", date, err)
	}

	records := make([]domain.StockRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.StockRecord{
			Symbol:           r.Symbol,
			Name:             r.Name,
			Sector:           r.Sector,
			Price:            r.Price,
			Score:            r.Score,
			Growth5YPct:      r.Growth5YPct,
			DividendYieldPct: r.DividendYieldPct,
			AnnualDividend:   r.AnnualDividend,
			EstNextPayment:   r.EstNextPayment,
			ExDivDate:        r.ExDivDate,
			TVSignal:         r.TVSignal,
			RSquared:         r.RSquared,
		})
	}
	return records, nil
}

// ListDates returns archived dates in ascending order. A missing archive
// directory is an empty archive, not an error.
func (a *ParquetArchive) ListDates() ([]string, error) {
	dir := filepath.Join(a.DataDir, "us", "dividends")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		date := strings.TrimSuffix(e.Name(), ".parquet")
		if len(date) == 10 && date[4] == '-' && date[7] == '-' {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}
