package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/weather-history/internal/adapter/kafka"
	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/pipeline"
	"github.com/couchcryptid/weather-history/internal/session"
)

// NewPublishCommand creates the publish command.
func NewPublishCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to, topic string
	var brokers []string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the records to a Kafka topic",
		Long: `Publish the valid records, or the months between --from and --to, to
a Kafka topic as JSON messages keyed by date. Batches follow $BATCH_SIZE and
failed batches are retried up to $PUBLISH_MAX_ATTEMPTS times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.cfg
			if len(brokers) > 0 {
				cfg.KafkaBrokers = brokers
				cfg.KafkaEnabled = true
			}
			if topic != "" {
				cfg.KafkaTopic = topic
			}
			if !cfg.KafkaEnabled {
				return NewExitError(ExitCommandError, "kafka is disabled: pass --brokers or set KAFKA_BROKERS")
			}
			if (from == "") != (to == "") {
				return NewExitError(ExitFailure, "--from and --to must be given together")
			}

			logger := rootOpts.logger(cmd)
			sess, err := rootOpts.openSession(logger, nil)
			if err != nil {
				return err
			}

			records := sess.Records()
			if from != "" {
				start, err := domain.ParseYearMonth(from)
				if err != nil {
					return classify("invalid --from", err)
				}
				end, err := domain.ParseYearMonth(to)
				if err != nil {
					return classify("invalid --to", err)
				}
				if records, err = sess.Range(session.RangeRequest{From: start, To: end}); err != nil {
					return classify("range", err)
				}
			}

			writer := kafkaadapter.NewWriter(cfg, logger)
			defer func() {
				if err := writer.Close(); err != nil {
					logger.Error("kafka writer close error", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pub := pipeline.New(writer, logger, sess.Metrics(), cfg.BatchSize, cfg.PublishMaxAttempts)
			res, err := pub.Publish(ctx, records)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("publish to %s (%d of %d records sent)", cfg.KafkaTopic, res.Records, len(records)), err)
			}

			return rootOpts.formatter(cmd).Success(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d registro(s) publicados em %s (%d lote(s)).\n", res.Records, cfg.KafkaTopic, res.Batches)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first month to publish, YYYY-MM")
	cmd.Flags().StringVar(&to, "to", "", "last month to publish, YYYY-MM")
	cmd.Flags().StringVar(&topic, "topic", "", "destination topic (default $KAFKA_TOPIC)")
	cmd.Flags().StringSliceVar(&brokers, "brokers", nil, "Kafka brokers (default $KAFKA_BROKERS)")

	return cmd
}
