package xlsx

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Extension is appended to report names that lack it.
const Extension = ".xlsx"

const (
	averagesSheet = "Medias"
	recordsSheet  = "Registros"
)

// EnsureExtension appends ".xlsx" unless name already ends with it, ignoring case.
func EnsureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// ExportAverages writes avg as a workbook with one row per year and the
// overall average below, and returns the path written. Years without data
// leave the value cell empty.
func ExportAverages(avg domain.AverageMap, name string) (string, error) {
	path := EnsureExtension(name)

	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{ //nolint:errcheck // metadata only
		Title:   "Media da temperatura minima - " + domain.MonthName(avg.Month),
		Creator: "weather-history",
		Created: avg.ComputedAt.Format("2006-01-02T15:04:05Z"),
	})

	if err := writeAverages(f, avg); err != nil {
		return "", fmt.Errorf("write averages sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// ExportRecords writes records to a single-sheet workbook.
func ExportRecords(records []domain.Record, name string) (string, error) {
	path := EnsureExtension(name)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeRecords(f, records); err != nil {
		return "", fmt.Errorf("write records sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func writeAverages(f *excelize.File, avg domain.AverageMap) error {
	if _, err := f.NewSheet(averagesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(averagesSheet, "A1", &[]any{"MêsAno", "MediaTempMin", "Registros"}); err != nil {
		return err
	}

	row := 2
	for _, e := range avg.Entries {
		values := []any{e.Key, nil, e.Count}
		if e.Value != nil {
			values[1] = *e.Value
		}
		if err := f.SetSheetRow(averagesSheet, cell(1, row), &values); err != nil {
			return err
		}
		row++
	}

	if overall, ok := domain.OverallAverage(avg); ok {
		if err := f.SetSheetRow(averagesSheet, cell(1, row+1), &[]any{"MediaGeral", overall}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(averagesSheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(averagesSheet, "B", "C", 15)
}

func writeRecords(f *excelize.File, records []domain.Record) error {
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return err
	}
	header := []any{"Data", "Precipitacao", "TempMax", "TempMin", "Umidade", "Vento"}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		values := []any{r.Date.String(), r.Precipitation, r.TempMax, r.TempMin, r.Humidity, r.Wind}
		if err := f.SetSheetRow(recordsSheet, cell(1, i+2), &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(recordsSheet, "A", "F", 14)
}

func cell(col, row int) string {
	c, _ := excelize.CoordinatesToCellName(col, row)
	return c
}
