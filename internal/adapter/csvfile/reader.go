package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/weather-history/internal/domain"
)

// ReadStats describes how many rows a read produced and how many were dropped.
type ReadStats struct {
	Rows    int // rows tokenized from the file
	Broken  int // lines the CSV tokenizer rejected
	Skipped int // rows dropped by the domain loader
}

// LoadFile reads the observation file at path and returns its valid records.
// Malformed rows are dropped; only an unreadable file is an error.
func LoadFile(path string) ([]domain.Record, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads observation rows from r and returns the valid records.
func Load(r io.Reader) ([]domain.Record, ReadStats, error) {
	rows, broken, err := ReadRows(r)
	if err != nil {
		return nil, ReadStats{}, err
	}
	records := domain.ParseRows(rows)
	return records, ReadStats{
		Rows:    len(rows),
		Broken:  broken,
		Skipped: len(rows) - len(records),
	}, nil
}

// ReadRows tokenizes r as comma-separated rows. Ragged rows are returned as
// they are; lines the tokenizer cannot parse are counted and skipped.
func ReadRows(r io.Reader) ([][]string, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string //nolint:prealloc // size depends on file contents
	broken := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			broken++
			continue
		}
		if err != nil {
			return nil, broken, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, broken, nil
}
