package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/session"
)

// Range views select which measurement columns are listed.
const (
	ViewAll           = "all"
	ViewPrecipitation = "precipitation"
	ViewTemperature   = "temperature"
	ViewHumidityWind  = "humidity-wind"
)

// ValidViews lists the accepted --view values.
var ValidViews = []string{ViewAll, ViewPrecipitation, ViewTemperature, ViewHumidityWind}

// RangeResult is the JSON payload of the range command.
type RangeResult struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

// NewRangeCommand creates the range command.
func NewRangeCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to, view string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "List the records between two months",
		Long: `List the records dated from the first day of --from to the last day of
--to, both inclusive, in file order. A --from after --to lists nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRange(rootOpts, cmd, from, to, view)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first month, YYYY-MM (required)")
	cmd.Flags().StringVar(&to, "to", "", "last month, YYYY-MM (required)")
	cmd.Flags().StringVar(&view, "view", ViewAll, "columns to show (all|precipitation|temperature|humidity-wind)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runRange(opts *RootOptions, cmd *cobra.Command, fromArg, toArg, view string) error {
	if !slices.Contains(ValidViews, view) {
		return NewExitError(ExitFailure, fmt.Sprintf("invalid view %q: must be one of %v", view, ValidViews))
	}
	from, err := domain.ParseYearMonth(fromArg)
	if err != nil {
		return classify("invalid --from", err)
	}
	to, err := domain.ParseYearMonth(toArg)
	if err != nil {
		return classify("invalid --to", err)
	}

	sess, err := opts.openSession(opts.logger(cmd), nil)
	if err != nil {
		return err
	}
	records, err := sess.Range(session.RangeRequest{From: from, To: to})
	if err != nil {
		return classify("range", err)
	}

	out := opts.formatter(cmd)
	out.VerboseLog("%d of %d records between %s and %s", len(records), sess.Len(), from, to)
	return out.Success(RangeResult{
		From:    from.String(),
		To:      to.String(),
		Count:   len(records),
		Records: records,
	}, func(w io.Writer) error {
		return writeRangeTable(w, records, view)
	})
}

func writeRangeTable(w io.Writer, records []domain.Record, view string) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum dado encontrado para o intervalo informado.")
		return err
	}

	var header string
	var row func(r domain.Record) string
	switch view {
	case ViewPrecipitation:
		header = fmt.Sprintf("%-12s %-12s", "Data", "Precipitação")
		row = func(r domain.Record) string {
			return fmt.Sprintf("%-12s %-12.2f", r.Date, r.Precipitation)
		}
	case ViewTemperature:
		header = fmt.Sprintf("%-12s %-10s %-10s", "Data", "Temp Max", "Temp Min")
		row = func(r domain.Record) string {
			return fmt.Sprintf("%-12s %-10.2f %-10.2f", r.Date, r.TempMax, r.TempMin)
		}
	case ViewHumidityWind:
		header = fmt.Sprintf("%-12s %-8s %-6s", "Data", "Umidade", "Vento")
		row = func(r domain.Record) string {
			return fmt.Sprintf("%-12s %-8.2f %-6.2f", r.Date, r.Humidity, r.Wind)
		}
	default:
		header = fmt.Sprintf("%-12s %-12s %-10s %-10s %-8s %-6s", "Data", "Precipitação", "Temp Max", "Temp Min", "Umidade", "Vento")
		row = func(r domain.Record) string {
			return fmt.Sprintf("%-12s %-12.2f %-10.2f %-10.2f %-8.2f %-6.2f",
				r.Date, r.Precipitation, r.TempMax, r.TempMin, r.Humidity, r.Wind)
		}
	}

	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintln(w, row(r)); err != nil {
			return err
		}
	}
	return nil
}

// WettestResult is the JSON payload of the wettest command. Found is false
// when no records are loaded.
type WettestResult struct {
	Found bool    `json:"found"`
	Year  int     `json:"year,omitempty"`
	Month int     `json:"month,omitempty"`
	Name  string  `json:"name,omitempty"`
	Total float64 `json:"total"`
}

// NewWettestCommand creates the wettest command.
func NewWettestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wettest",
		Short: "Show the month with the most accumulated precipitation",
		Long: `Sum precipitation per calendar month across the whole file and show the
largest total. On a tie the month seen first in the file wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.openSession(rootOpts.logger(cmd), nil)
			if err != nil {
				return err
			}

			best, ok := sess.WettestMonth()
			res := WettestResult{Found: ok}
			if ok {
				res.Year = best.Key.Year
				res.Month = int(best.Key.Month)
				res.Name = domain.MonthName(best.Key.Month)
				res.Total = best.Total
			}

			return rootOpts.formatter(cmd).Success(res, func(w io.Writer) error {
				if !ok {
					_, err := fmt.Fprintln(w, "Nenhum dado de precipitação disponível.")
					return err
				}
				_, err := fmt.Fprintf(w, "Mês mais chuvoso: %s de %d com %.2f mm de precipitação.\n", res.Name, res.Year, res.Total)
				return err
			})
		},
	}
}

// AveragesResult is the JSON payload of the averages command.
type AveragesResult struct {
	Month   string               `json:"month"`
	Entries []domain.YearAverage `json:"entries"`
	Overall *float64             `json:"overall"`
	CSV     string               `json:"csv,omitempty"`
	XLSX    string               `json:"xlsx,omitempty"`
}

// NewAveragesCommand creates the averages command.
func NewAveragesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		month    string
		chart    bool
		csvOut   string
		xlsxOut  string
		chartCol int
	)

	cmd := &cobra.Command{
		Use:   "averages",
		Short: "Average minimum temperature of a month for 2006-2016",
		Long: `Compute the average minimum temperature of one calendar month for every
year from 2006 to 2016, plus the overall average of the years with data.

--month accepts 1-12 or a month name in Portuguese or English; case and
accents are ignored ("marco", "Março" and "march" are the same month).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMonth(month)
			if err != nil {
				return classify("invalid --month", err)
			}

			sess, err := rootOpts.openSession(rootOpts.logger(cmd), nil)
			if err != nil {
				return err
			}
			avg, err := sess.MonthlyAverages(m)
			if err != nil {
				return classify("averages", err)
			}

			res := AveragesResult{Month: domain.MonthName(m), Entries: avg.Entries}
			if overall, ok := domain.OverallAverage(avg); ok {
				res.Overall = &overall
			}
			if csvOut != "" {
				if res.CSV, err = sess.ExportAverages(csvOut); err != nil {
					return classify("export averages", err)
				}
			}
			if xlsxOut != "" {
				if res.XLSX, err = sess.ExportAveragesWorkbook(xlsxOut); err != nil {
					return classify("export averages workbook", err)
				}
			}

			return rootOpts.formatter(cmd).Success(res, func(w io.Writer) error {
				if err := writeAverages(w, avg, res.Overall); err != nil {
					return err
				}
				if chart {
					fmt.Fprintln(w)
					if err := RenderChart(w, avg, chartCol); err != nil {
						return err
					}
				}
				for _, p := range []string{res.CSV, res.XLSX} {
					if p != "" {
						fmt.Fprintf(w, "Médias salvas em %s\n", p)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month number or name (required)")
	cmd.Flags().BoolVar(&chart, "chart", false, "draw a bar chart of the yearly averages")
	cmd.Flags().IntVar(&chartCol, "chart-width", DefaultChartWidth, "width of the longest chart bar")
	cmd.Flags().StringVarP(&csvOut, "out", "o", "", "save the averages to this CSV file")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "save the averages to this Excel workbook")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func writeAverages(w io.Writer, avg domain.AverageMap, overall *float64) error {
	if _, err := fmt.Fprintln(w, "Médias anuais calculadas:"); err != nil {
		return err
	}
	for _, e := range avg.Entries {
		if e.HasData() {
			fmt.Fprintf(w, "%s: %.2f °C\n", e.Key, *e.Value)
		} else {
			fmt.Fprintf(w, "%s: Sem dados\n", e.Key)
		}
	}
	name := domain.MonthName(avg.Month)
	if overall == nil {
		_, err := fmt.Fprintf(w, "Média geral de %s: Sem dados\n", name)
		return err
	}
	_, err := fmt.Fprintf(w, "Média geral de %s: %.2f °C\n", name, *overall)
	return err
}
