package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-history/internal/session"
)

// MutationResult is the JSON payload of delete and correct.
type MutationResult struct {
	Date       string `json:"date,omitempty"`
	Removed    int    `json:"removed,omitempty"`
	Duplicates int    `json:"duplicates,omitempty"`
	Records    int    `json:"records"`
	Saved      string `json:"saved,omitempty"`
	Workbook   string `json:"workbook,omitempty"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var date, out string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove every record of a date",
		Long: `Remove every record dated --date (dd/mm/yyyy). The data file is not
modified; pass --out to save the remaining records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := session.ParseDeleteRequest(date)
			if err != nil {
				return classify("invalid --date", err)
			}

			sess, err := rootOpts.openSession(rootOpts.logger(cmd), nil)
			if err != nil {
				return err
			}
			res, err := sess.Delete(req)
			if err != nil {
				return classify("delete", err)
			}

			result := MutationResult{Date: res.Date.String(), Removed: res.Removed, Records: sess.Len()}
			if out != "" {
				if result.Saved, err = sess.ExportRecords(out); err != nil {
					return classify("save records", err)
				}
			}

			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				fmt.Fprintf(w, "%d registro(s) de %s excluído(s).\n", result.Removed, result.Date)
				return writeSaved(w, result.Saved)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to delete, dd/mm/yyyy (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the remaining records to this CSV file")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// NewCorrectCommand creates the correct command.
func NewCorrectCommand(rootOpts *RootOptions) *cobra.Command {
	var date, out string
	var values [5]string

	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Replace the measurements of a date",
		Long: `Replace all five measurements of the first record dated --date. Every
value must parse before anything changes. Other records with the same date
keep their values. Pass --out to save the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := session.ParseCorrectRequest(date, values)
			if err != nil {
				return classify("invalid correction", err)
			}

			sess, err := rootOpts.openSession(rootOpts.logger(cmd), nil)
			if err != nil {
				return err
			}
			res, err := sess.Correct(req)
			if err != nil {
				return classify("correct", err)
			}

			result := MutationResult{Date: res.Record.Date.String(), Duplicates: res.Duplicates, Records: sess.Len()}
			if out != "" {
				if result.Saved, err = sess.ExportRecords(out); err != nil {
					return classify("save records", err)
				}
			}

			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				fmt.Fprintf(w, "Registro de %s corrigido.\n", result.Date)
				if result.Duplicates > 0 {
					fmt.Fprintf(w, "Aviso: %d outro(s) registro(s) de %s não foram alterados.\n", result.Duplicates, result.Date)
				}
				return writeSaved(w, result.Saved)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to correct, dd/mm/yyyy (required)")
	cmd.Flags().StringVar(&values[0], "precipitation", "", "new precipitation (required)")
	cmd.Flags().StringVar(&values[1], "temp-max", "", "new maximum temperature (required)")
	cmd.Flags().StringVar(&values[2], "temp-min", "", "new minimum temperature (required)")
	cmd.Flags().StringVar(&values[3], "humidity", "", "new relative humidity (required)")
	cmd.Flags().StringVar(&values[4], "wind", "", "new wind speed (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the corrected records to this CSV file")
	for _, name := range []string{"date", "precipitation", "temp-max", "temp-min", "humidity", "wind"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out, xlsxOut string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the loaded records to a CSV file or Excel workbook",
		Long: `Save the valid records of the data file to --out, appending ".csv" when
missing, and/or to the workbook --xlsx, appending ".xlsx". Malformed input
rows are not carried over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && xlsxOut == "" {
				return NewExitError(ExitFailure, "nothing to export: pass --out and/or --xlsx")
			}

			sess, err := rootOpts.openSession(rootOpts.logger(cmd), nil)
			if err != nil {
				return err
			}

			result := MutationResult{Records: sess.Len()}
			if out != "" {
				if result.Saved, err = sess.ExportRecords(out); err != nil {
					return classify("export records", err)
				}
			}
			if xlsxOut != "" {
				if result.Workbook, err = sess.ExportRecordsWorkbook(xlsxOut); err != nil {
					return classify("export records workbook", err)
				}
			}

			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				if err := writeSaved(w, result.Saved); err != nil {
					return err
				}
				return writeSaved(w, result.Workbook)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "destination CSV file")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "destination Excel workbook")

	return cmd
}

func writeSaved(w io.Writer, path string) error {
	if path == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "Dados salvos em %s\n", path)
	return err
}
