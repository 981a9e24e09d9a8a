package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"github.com/couchcryptid/disdrometer-etl/internal/observability"
)

// ParsivelTransformer implements Transformer by decoding and normalizing raw
// Parsivel files, reporting data quality along the way.
type ParsivelTransformer struct {
	reader    *domain.Reader
	stationID string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewTransformer creates a ParsivelTransformer that stamps every
// distribution with stationID.
func NewTransformer(reader *domain.Reader, stationID string, logger *slog.Logger, metrics *observability.Metrics) *ParsivelTransformer {
	return &ParsivelTransformer{
		reader:    reader,
		stationID: stationID,
		logger:    logger,
		metrics:   metrics,
	}
}

func (t *ParsivelTransformer) Transform(ctx context.Context, raw domain.RawFile) (*domain.DropSizeDistribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dsd, report, err := t.reader.Read(raw.Path)
	t.reportWarnings(raw, report.Warnings)
	if err != nil {
		var sme *domain.ShapeMismatchError
		if errors.As(err, &sme) {
			t.metrics.ShapeMismatches.WithLabelValues(sme.Field).Inc()
		}
		return nil, fmt.Errorf("transform %s: %w", raw.Name, err)
	}

	t.metrics.SentinelValues.WithLabelValues(domain.TagReflectivity.String()).Add(float64(report.MaskedReflectivity))
	t.metrics.SentinelValues.WithLabelValues(domain.TagDropCounts.String()).Add(float64(report.ZeroedDropCounts))

	dsd.StationID = t.stationID
	dsd.Source = raw.Name

	t.logger.Debug("raw file normalized",
		"file", raw.Name,
		"dataset_id", dsd.ID,
		"intervals", report.Intervals,
		"lines", report.Lines,
		"masked_reflectivity", report.MaskedReflectivity,
		"zeroed_drop_counts", report.ZeroedDropCounts,
	)
	return dsd, nil
}

func (t *ParsivelTransformer) reportWarnings(raw domain.RawFile, warnings []domain.MalformedRecord) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		t.metrics.MalformedRecords.WithLabelValues(w.Tag.String()).Inc()
		t.logger.Warn("malformed record skipped",
			"file", raw.Name,
			"line", w.Line,
			"tag", w.Tag.Code(),
			"reason", w.Reason,
		)
	}
	t.logger.Warn("raw file has malformed records", "file", raw.Name, "count", len(warnings))
}
