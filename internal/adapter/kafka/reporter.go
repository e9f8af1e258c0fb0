package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/covid-metrics-etl/internal/config"
	"github.com/couchcryptid/covid-metrics-etl/internal/pipeline"
)

// Reporter publishes run reports to a Kafka topic for the alerting side.
// It implements pipeline.Reporter.
type Reporter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewReporter creates a Kafka producer for the configured report topic.
func NewReporter(cfg *config.Config, logger *slog.Logger) *Reporter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Reporter{writer: w, logger: logger}
}

// Publish serializes and writes one run report.
func (r *Reporter) Publish(ctx context.Context, report pipeline.Report) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	return r.writer.WriteMessages(ctx, msg)
}

func (r *Reporter) Close() error {
	return r.writer.Close()
}

// serializeReport marshals a run report into a Kafka message keyed by run ID
// so consumers can dedupe on replays.
func serializeReport(report pipeline.Report) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.RunID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(report.Status)},
			{Key: "finished_at", Value: []byte(report.FinishedAt.Format(time.RFC3339))},
		},
	}, nil
}
