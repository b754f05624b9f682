package replay

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Record is one historical observation: an era's total stake and the
// unbonding principal that started in it.
type Record struct {
	Era        int
	TotalStake float64
	Unbonded   float64
}

// Source defines the interface for loading a historical series.
type Source interface {
	Load() ([]Record, error)
	Name() string
}

// MockSource returns fixed records for development and testing.
type MockSource struct {
	Records []Record
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load() ([]Record, error) {
	return m.Records, nil
}

// CSVSource reads records from a CSV file with columns
// era,total_stake,unbonded. A header row is skipped when present.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Load() ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", i+1, len(row))
		}
		era, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: parse era: %w", i+1, err)
		}
		total, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse total_stake: %w", i+1, err)
		}
		unbonded, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse unbonded: %w", i+1, err)
		}
		records = append(records, Record{Era: era, TotalStake: total, Unbonded: unbonded})
	}
	return records, nil
}
