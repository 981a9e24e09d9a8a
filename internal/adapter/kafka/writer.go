package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/disdrometer-etl/internal/config"
	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces interval records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes every interval of every distribution and publishes
// them in a single WriteMessages call. Messages are keyed by station, so the
// Hash balancer keeps one station's intervals ordered within a partition.
func (w *Writer) LoadBatch(ctx context.Context, dsds []*domain.DropSizeDistribution) error {
	var msgs []kafkago.Message
	for _, dsd := range dsds {
		for _, rec := range dsd.Intervals() {
			msg, err := serializeToMessage(rec)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d interval messages: %w", len(msgs), err)
	}
	w.logger.Debug("intervals published", "messages", len(msgs), "datasets", len(dsds))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an IntervalRecord into a Kafka message.
func serializeToMessage(rec domain.IntervalRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize interval record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(rec)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(rec.StationID)},
			{Key: "dataset_id", Value: []byte(rec.DatasetID)},
			{Key: "seconds_of_day", Value: []byte(strconv.Itoa(rec.SecondsOfDay))},
			{Key: "processed_at", Value: []byte(rec.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}

// messageKey is the station ID. Records from an unnamed station fall back to
// their dataset ID, which still keeps one file's intervals together.
func messageKey(rec domain.IntervalRecord) string {
	if rec.StationID != "" {
		return rec.StationID
	}
	return rec.DatasetID
}
