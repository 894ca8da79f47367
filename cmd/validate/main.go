// Command validate checks an observations file before it is used: rows the
// loader would skip, duplicate dates, month coverage of the averages years,
// and that an export loads back to the same records.
//
// Usage:
//
//	go run ./cmd/validate -data data/mock/observations.csv
package main

import (
	"bytes"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/weather-history/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-history/internal/domain"
)

// maxListed caps the errors printed per phase.
const maxListed = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	data := flag.String("data", os.Getenv("WEATHER_DATA_FILE"), "observations CSV file")
	flag.Parse()

	if *data == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*data))
}

func run(path string) int {
	fmt.Println("=== Weather Observations Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	rows, broken, err := csvfile.ReadRows(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", path, err)
		return 1
	}
	records := domain.ParseRows(rows)

	phases := []*phase{
		validateRows(rows, broken),
		validateDuplicates(records),
		validateCoverage(records),
		validateRoundTrip(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d read, %d valid, %d skipped, %d unparseable lines\n",
		len(rows), len(records), len(rows)-len(records), broken)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxListed {
				fmt.Printf("  ... and %d more\n", len(p.errors)-maxListed)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}

func validateRows(rows [][]string, broken int) *phase {
	p := &phase{name: "Row format"}
	if broken > 0 {
		p.errorf("%d lines could not be tokenized", broken)
	}
	for i, row := range rows {
		if _, err := domain.ParseRow(row); err != nil {
			p.errorf("row %d: %v", i+1, err)
		}
	}
	return p
}

func validateDuplicates(records []domain.Record) *phase {
	p := &phase{name: "Unique dates"}
	seen := make(map[domain.Date]int, len(records))
	for _, r := range records {
		seen[r.Date]++
		if seen[r.Date] == 2 {
			p.errorf("%s appears more than once; correct only updates the first", r.Date)
		}
	}
	return p
}

func validateCoverage(records []domain.Record) *phase {
	p := &phase{name: fmt.Sprintf("Coverage %d-%d", domain.FirstAverageYear, domain.LastAverageYear)}
	have := make(map[domain.YearMonth]bool)
	for _, r := range records {
		have[r.Date.YearMonth()] = true
	}
	for y := domain.FirstAverageYear; y <= domain.LastAverageYear; y++ {
		for m := time.January; m <= time.December; m++ {
			if !have[domain.YearMonth{Year: y, Month: m}] {
				p.errorf("no records for %s", domain.AverageKey(m, y))
			}
		}
	}
	return p
}

func validateRoundTrip(records []domain.Record) *phase {
	p := &phase{name: "Export round trip"}

	var first bytes.Buffer
	if err := csvfile.WriteRecords(&first, records); err != nil {
		p.errorf("export: %v", err)
		return p
	}
	back, stats, err := csvfile.Load(bytes.NewReader(first.Bytes()))
	if err != nil {
		p.errorf("reload: %v", err)
		return p
	}
	if stats.Skipped > 0 || len(back) != len(records) {
		p.errorf("exported %d records, reloaded %d (%d skipped)", len(records), len(back), stats.Skipped)
		return p
	}
	for i := range records {
		if back[i].Date != records[i].Date || !closeTo(back[i].Measurements, records[i].Measurements) {
			p.errorf("record %d (%s) changed after reload", i+1, records[i].Date)
		}
	}

	var second bytes.Buffer
	if err := csvfile.WriteRecords(&second, back); err != nil {
		p.errorf("re-export: %v", err)
		return p
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		p.errorf("re-export is not byte-identical")
	}
	return p
}

// closeTo allows the two-decimal rounding applied on export.
func closeTo(a, b domain.Measurements) bool {
	const tol = 0.005 + 1e-9
	return math.Abs(a.Precipitation-b.Precipitation) <= tol &&
		math.Abs(a.TempMax-b.TempMax) <= tol &&
		math.Abs(a.TempMin-b.TempMin) <= tol &&
		math.Abs(a.Humidity-b.Humidity) <= tol &&
		math.Abs(a.Wind-b.Wind) <= tol
}
