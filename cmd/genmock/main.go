// Command genmock writes a deterministic synthetic observations file for
// local runs and fixtures. The same seed always yields the same bytes.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/observations.csv \
//	  -from 2006 -to 2016 -malformed 25 -duplicates 3
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/couchcryptid/weather-history/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-history/internal/domain"
)

// Rows that the loader must skip. Each one breaks a different rule.
var malformedRows = []string{
	"31/02/2010,1.00,30.00,20.00,80.00,2.00",
	"15/13/2010,1.00,30.00,20.00,80.00,2.00",
	"1/5/2010,1.00,30.00,20.00,80.00,2.00",
	"10/01/2010,chuva,30.00,20.00,80.00,2.00",
	"10/01/2010,1.00,30.00,,80.00,2.00",
	"10/01/2010,1.00,30.00",
	"data,precipitacao,temp_max,temp_min,umidade,vento",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	from := flag.Int("from", domain.FirstAverageYear, "first year to generate")
	to := flag.Int("to", domain.LastAverageYear, "last year to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	malformed := flag.Int("malformed", 0, "number of malformed rows to inject")
	duplicates := flag.Int("duplicates", 0, "number of duplicate-date rows to inject")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *from > *to || *from < domain.MinYear || *to > domain.MaxYear {
		return fmt.Errorf("invalid year span %d-%d", *from, *to)
	}

	r := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	records := generate(r, *from, *to)

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w, r, records, *malformed, *duplicates); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.Printf("%s: %d records, %d malformed rows, up to %d duplicates", *out, len(records), *malformed, *duplicates)
	return nil
}

// generate produces one record per day with a southern-hemisphere seasonal
// cycle: warm and wet around January, cool and dry around July.
func generate(r *rand.Rand, fromYear, toYear int) []domain.Record {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	var records []domain.Record //nolint:prealloc // size depends on leap years
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		season := math.Cos(2 * math.Pi * float64(day.YearDay()-15) / 365.25)

		tmin := 15 + 5*season + r.NormFloat64()*1.5
		tmax := tmin + 8 + r.Float64()*4
		precip := 0.0
		if r.Float64() < 0.35+0.25*season {
			precip = r.ExpFloat64() * (6 + 4*season)
		}

		records = append(records, domain.Record{
			Date: domain.DateOf(day),
			Measurements: domain.Measurements{
				Precipitation: round2(precip),
				TempMax:       round2(tmax),
				TempMin:       round2(tmin),
				Humidity:      round2(math.Min(100, 70+10*season+r.NormFloat64()*5)),
				Wind:          round2(math.Abs(2 + r.NormFloat64())),
			},
		})
	}
	return records
}

func write(w io.Writer, r *rand.Rand, records []domain.Record, malformed, duplicates int) error {
	bad := make(map[int]int, malformed)
	for range malformed {
		bad[r.IntN(len(records))]++
	}
	dup := make(map[int]bool, duplicates)
	for range duplicates {
		dup[r.IntN(len(records))] = true
	}

	next := 0
	for i, rec := range records {
		for range bad[i] {
			if _, err := fmt.Fprintf(w, "%s\r\n", malformedRows[next%len(malformedRows)]); err != nil {
				return err
			}
			next++
		}
		batch := []domain.Record{rec}
		if dup[i] {
			twin := rec
			twin.Precipitation = round2(rec.Precipitation + 1)
			batch = append(batch, twin)
		}
		if err := csvfile.WriteRecords(w, batch); err != nil {
			return err
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
