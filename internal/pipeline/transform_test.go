package pipeline_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"github.com/couchcryptid/disdrometer-etl/internal/mockdata"
	"github.com/couchcryptid/disdrometer-etl/internal/observability"
	"github.com/couchcryptid/disdrometer-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMockFile(t *testing.T, name string, opts mockdata.Options) domain.RawFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, mockdata.Write(f, opts))
	require.NoError(t, f.Close())
	return domain.RawFile{Path: path, Name: name}
}

func newTransformer(metrics *observability.Metrics) *pipeline.ParsivelTransformer {
	reader := domain.NewReader(domain.ParsivelGeometry(), domain.ConditionalMatrix{})
	return pipeline.NewTransformer(reader, "KOUN-P1", slog.Default(), metrics)
}

func TestParsivelTransformer_Transform(t *testing.T) {
	metrics := newTestMetrics()
	raw := writeMockFile(t, "20110910.mis", mockdata.Options{Intervals: 6, Seed: 1, SentinelEvery: 2})

	dsd, err := newTransformer(metrics).Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 6, dsd.Len())
	assert.Equal(t, "KOUN-P1", dsd.StationID)
	assert.Equal(t, "20110910.mis", dsd.Source)
	assert.Equal(t, 3, dsd.Z.MaskedCount())
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.SentinelValues.WithLabelValues("reflectivity")), 1e-9)
	assert.Positive(t, testutil.ToFloat64(metrics.SentinelValues.WithLabelValues("nd")))
}

func TestParsivelTransformer_ShapeMismatch(t *testing.T) {
	metrics := newTestMetrics()
	raw := writeMockFile(t, "broken.mis", mockdata.Options{Intervals: 4, MalformedEvery: 4})

	_, err := newTransformer(metrics).Transform(context.Background(), raw)

	var sme *domain.ShapeMismatchError
	require.ErrorAs(t, err, &sme)
	assert.Equal(t, "nd", sme.Field)
	assert.Contains(t, err.Error(), "broken.mis")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.MalformedRecords.WithLabelValues("nd")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ShapeMismatches.WithLabelValues("nd")), 1e-9)
}

func TestParsivelTransformer_MissingFile(t *testing.T) {
	raw := domain.RawFile{Path: filepath.Join(t.TempDir(), "gone.mis"), Name: "gone.mis"}
	_, err := newTransformer(newTestMetrics()).Transform(context.Background(), raw)

	var fae *domain.FileAccessError
	require.ErrorAs(t, err, &fae)
}

func TestParsivelTransformer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTransformer(newTestMetrics()).Transform(ctx, domain.RawFile{Name: "x"})
	require.ErrorIs(t, err, context.Canceled)
}
