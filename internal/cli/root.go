package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-history/internal/config"
	"github.com/couchcryptid/weather-history/internal/observability"
	"github.com/couchcryptid/weather-history/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	DataFile string
	LogLevel string

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the weather CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Query and maintain a daily weather observations file",
		Long: `Query and maintain a daily weather observations CSV file.

Rows are "dd/mm/yyyy,precipitation,temp_max,temp_min,humidity,wind".
Malformed rows are skipped when the file is loaded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			if opts.DataFile == "" {
				opts.DataFile = cfg.DataFile
			}
			switch {
			case opts.LogLevel != "":
				cfg.LogLevel = opts.LogLevel
			case opts.Verbose:
				cfg.LogLevel = "debug"
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.DataFile, "data", "d", "", "observations CSV file (default $WEATHER_DATA_FILE)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error, default $LOG_LEVEL)")

	cmd.AddCommand(NewRangeCommand(opts))
	cmd.AddCommand(NewWettestCommand(opts))
	cmd.AddCommand(NewAveragesCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCorrectCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPublishCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors are
// reported on stderr, or on stdout as a JSON envelope with --format json.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !slices.Contains(ValidFormats, format) {
		format = "text"
	}
	(&OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}).Error(err)
	return GetExitCode(err)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return observability.NewLoggerWithWriter(cmd.ErrOrStderr(), o.cfg.LogLevel, o.cfg.LogFormat)
}

// openSession loads the data file into a new session. One-shot commands
// register their metrics on a private registry.
func (o *RootOptions) openSession(logger *slog.Logger, metrics *observability.Metrics) (*session.Session, error) {
	if o.DataFile == "" {
		return nil, NewExitError(ExitCommandError, "no data file: pass --data or set WEATHER_DATA_FILE")
	}
	if metrics == nil {
		metrics = observability.NewMetricsWith(prometheus.NewRegistry())
	}
	sess, err := session.Open(o.DataFile, logger, metrics)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load observations", err)
	}
	return sess, nil
}
