package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the dd/mm/yyyy layout used by the observation files.
const DateLayout = "02/01/2006"

// Bounds accepted for user-supplied years.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Date is a calendar day with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a zero-padded dd/mm/yyyy string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as dd/mm/yyyy.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// YearMonth returns the aggregation key of the day.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// MarshalText implements encoding.TextMarshaler using dd/mm/yyyy.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using dd/mm/yyyy.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// YearMonth is the (year, month) key used to group records.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// ParseYearMonth parses "YYYY-MM" (or "MM/YYYY") and validates the result.
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	var ys, ms string
	if before, after, ok := strings.Cut(s, "-"); ok {
		ys, ms = before, after
	} else if before, after, ok := strings.Cut(s, "/"); ok {
		ms, ys = before, after
	} else {
		return YearMonth{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidYearMonth, s)
	}

	y, err := strconv.Atoi(ys)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYear, ys)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, ms)
	}

	ym := YearMonth{Year: y, Month: time.Month(m)}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

// Validate rejects months outside 1..12 and years outside MinYear..MaxYear.
func (ym YearMonth) Validate() error {
	if err := ValidateMonth(ym.Month); err != nil {
		return err
	}
	if ym.Year < MinYear || ym.Year > MaxYear {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidYear, ym.Year, MinYear, MaxYear)
	}
	return nil
}

// FirstDay is the first calendar day of the month.
func (ym YearMonth) FirstDay() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// LastDay is the last calendar day of the month, honouring leap years.
func (ym YearMonth) LastDay() Date {
	// Day 0 of the following month normalizes to the last day of this one.
	t := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC)
	return DateOf(t)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Measurements are the five values recorded for a day. No physical bounds
// are enforced.
type Measurements struct {
	Precipitation float64 `json:"precipitation"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Humidity      float64 `json:"humidity"`
	Wind          float64 `json:"wind"`
}

// Record is one validated daily observation.
type Record struct {
	Date Date `json:"date"`
	Measurements
}
