package csvfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-history/internal/domain"
)

// Extension is appended to export names that lack it.
const Extension = ".csv"

// AveragesHeader is the header row of an averages export.
var AveragesHeader = []string{"MêsAno", "MediaTempMin"}

// EnsureExtension appends ".csv" unless name already ends with it, ignoring case.
func EnsureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// ExportRecords writes records to name (with ".csv" appended when missing)
// and returns the path written. The output loads back with LoadFile.
func ExportRecords(records []domain.Record, name string) (string, error) {
	path := EnsureExtension(name)
	return path, writeFile(path, func(w io.Writer) error {
		return WriteRecords(w, records)
	})
}

// ExportAverages writes avg to name (with ".csv" appended when missing) and
// returns the path written.
func ExportAverages(avg domain.AverageMap, name string) (string, error) {
	path := EnsureExtension(name)
	return path, writeFile(path, func(w io.Writer) error {
		return WriteAverages(w, avg)
	})
}

// WriteRecords writes one headerless row per record: the dd/mm/yyyy date
// followed by the five measurements with two decimals.
func WriteRecords(w io.Writer, records []domain.Record) error {
	cw := newWriter(w)
	for _, r := range records {
		row := []string{
			r.Date.String(),
			formatValue(r.Precipitation),
			formatValue(r.TempMax),
			formatValue(r.TempMin),
			formatValue(r.Humidity),
			formatValue(r.Wind),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAverages writes the header and one row per entry. Entries without data
// get an empty value field.
func WriteAverages(w io.Writer, avg domain.AverageMap) error {
	cw := newWriter(w)
	if err := cw.Write(AveragesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range avg.Entries {
		value := ""
		if e.Value != nil {
			value = formatValue(*e.Value)
		}
		if err := cw.Write([]string{e.Key, value}); err != nil {
			return fmt.Errorf("write average %s: %w", e.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
