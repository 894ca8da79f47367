package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// monthNames are the lower-case Portuguese month names used in AverageMap
// keys, e.g. "janeiro2010".
var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the Portuguese name of m, or "mês inválido" when m is out
// of range.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return "mês inválido"
	}
	return monthNames[m-1]
}

// ValidateMonth rejects months outside 1..12.
func ValidateMonth(m time.Month) error {
	if m < time.January || m > time.December {
		return fmt.Errorf("%w: %d (want 1-12)", ErrInvalidMonth, int(m))
	}
	return nil
}

// ParseMonth accepts a month number (1-12) or a Portuguese or English month
// name. Case and diacritics are ignored, so "Março", "marco" and "march" all
// resolve to time.March.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := time.Month(n)
		if err := ValidateMonth(m); err != nil {
			return 0, err
		}
		return m, nil
	}

	key := foldName(s)
	for i, name := range monthNames {
		m := time.Month(i + 1)
		if key == foldName(name) || key == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

// foldName lower-cases s and strips combining marks.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
