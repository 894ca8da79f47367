package domain

import (
	"strconv"
	"time"
)

// The averages range is fixed; it does not follow the span of the data.
const (
	FirstAverageYear = 2006
	LastAverageYear  = 2016
)

// MonthlyTotal is the accumulated precipitation of one (year, month).
type MonthlyTotal struct {
	Key   YearMonth `json:"key"`
	Total float64   `json:"total"`
}

// MonthlyTotals sums precipitation per (year, month). Keys appear in the
// order of their first occurrence in records.
func MonthlyTotals(records []Record) []MonthlyTotal {
	index := make(map[YearMonth]int)
	var totals []MonthlyTotal
	for _, r := range records {
		key := r.Date.YearMonth()
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, MonthlyTotal{Key: key})
		}
		totals[i].Total += r.Precipitation
	}
	return totals
}

// WettestMonth returns the (year, month) with the largest precipitation total.
// On a tie the key that first occurs in records wins. The second return value
// is false when records is empty.
func WettestMonth(records []Record) (MonthlyTotal, bool) {
	totals := MonthlyTotals(records)
	if len(totals) == 0 {
		return MonthlyTotal{}, false
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t.Total > best.Total {
			best = t
		}
	}
	return best, true
}

// YearAverage is one AverageMap entry. Value is nil when no record matched.
type YearAverage struct {
	Key   string   `json:"key"`
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

// HasData reports whether the entry carries an average.
func (a YearAverage) HasData() bool {
	return a.Value != nil
}

// AverageMap holds the average minimum temperature of one calendar month for
// every year from FirstAverageYear to LastAverageYear, in year order.
type AverageMap struct {
	Month      time.Month    `json:"month"`
	Entries    []YearAverage `json:"entries"`
	ComputedAt time.Time     `json:"computed_at"`
}

// AverageKey builds the "<month-name><year>" key, e.g. "janeiro2010".
func AverageKey(month time.Month, year int) string {
	return MonthName(month) + strconv.Itoa(year)
}

// AnnualAvgTempMin computes the mean TempMin of month for each year in the
// fixed range. The result always has one entry per year.
func AnnualAvgTempMin(records []Record, month time.Month) (AverageMap, error) {
	if err := ValidateMonth(month); err != nil {
		return AverageMap{}, err
	}

	type acc struct {
		sum float64
		n   int
	}
	byYear := make(map[int]*acc)
	for _, r := range records {
		if r.Date.Month != month || r.Date.Year < FirstAverageYear || r.Date.Year > LastAverageYear {
			continue
		}
		a, ok := byYear[r.Date.Year]
		if !ok {
			a = &acc{}
			byYear[r.Date.Year] = a
		}
		a.sum += r.TempMin
		a.n++
	}

	entries := make([]YearAverage, 0, LastAverageYear-FirstAverageYear+1)
	for y := FirstAverageYear; y <= LastAverageYear; y++ {
		e := YearAverage{Key: AverageKey(month, y), Year: y}
		if a, ok := byYear[y]; ok {
			avg := a.sum / float64(a.n)
			e.Value = &avg
			e.Count = a.n
		}
		entries = append(entries, e)
	}

	return AverageMap{Month: month, Entries: entries, ComputedAt: Now()}, nil
}

// OverallAverage is the mean of the entries that have data. It returns false
// when every entry is missing.
func OverallAverage(m AverageMap) (float64, bool) {
	var sum float64
	var n int
	for _, e := range m.Entries {
		if e.Value == nil {
			continue
		}
		sum += *e.Value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Get returns the entry for key.
func (m AverageMap) Get(key string) (YearAverage, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return YearAverage{}, false
}
