package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/couchcryptid/weather-history/internal/domain"
)

// DefaultChartWidth is the length of the longest bar.
const DefaultChartWidth = 40

// RenderChart draws one horizontal bar per year of avg, scaled so the largest
// absolute average spans width characters. Years without data get an empty
// bar.
func RenderChart(w io.Writer, avg domain.AverageMap, width int) error {
	if width < 1 {
		width = DefaultChartWidth
	}

	var peak float64
	for _, e := range avg.Entries {
		if e.HasData() {
			peak = math.Max(peak, math.Abs(*e.Value))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Média da temperatura mínima de %s (%d-%d)\n",
		domain.MonthName(avg.Month), domain.FirstAverageYear, domain.LastAverageYear)
	for _, e := range avg.Entries {
		bar, label := "", "-"
		if e.HasData() {
			if peak > 0 {
				bar = strings.Repeat("#", int(math.Round(math.Abs(*e.Value)/peak*float64(width))))
			}
			label = fmt.Sprintf("%.2f", *e.Value)
		}
		fmt.Fprintf(&b, "%d | %-*s %s\n", e.Year, width, bar, label)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
