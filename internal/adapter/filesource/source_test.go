package filesource

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLedger struct {
	done map[string]int64
}

func newMemLedger() *memLedger { return &memLedger{done: map[string]int64{}} }

func (m *memLedger) Seen(name string, size int64, _ time.Time) (bool, error) {
	s, ok := m.done[name]
	return ok && s == size, nil
}

func (m *memLedger) Mark(name string, size int64, _ time.Time) error {
	m.done[name] = size
	return nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("01:0.000\n"), 0o600))
	}
}

func TestSource_ExtractBatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "20110912.mis", "20110910.mis", "20110911.mis", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.mis"), 0o755))

	ledger := newMemLedger()
	src := New(dir, "*.mis", 0, ledger, nil, slog.Default())

	batch, err := src.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "20110910.mis", batch[0].Name)
	assert.Equal(t, "20110911.mis", batch[1].Name)
	assert.Equal(t, filepath.Join(dir, "20110910.mis"), batch[0].Path)
	assert.Equal(t, int64(9), batch[0].Size)

	for _, f := range batch {
		require.NoError(t, f.Commit(context.Background()))
	}

	batch, err = src.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "20110912.mis", batch[0].Name)
	require.NoError(t, batch[0].Commit(context.Background()))

	batch, err = src.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSource_UncommittedFileReturnedAgain(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mis")
	src := New(dir, "*.mis", 0, newMemLedger(), nil, slog.Default())

	first, err := src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	second, err := src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, first[0].Name, second[0].Name)
}

func TestSource_CancelledContext(t *testing.T) {
	src := New(t.TempDir(), "*.mis", 0, newMemLedger(), nil, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ExtractBatch(ctx, 5)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSource_SkipsFilesStillBeingWritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20110912.mis")
	clock := clockwork.NewFakeClockAt(time.Date(2011, 9, 12, 12, 0, 0, 0, time.UTC))
	src := New(dir, "*.mis", 5*time.Minute, newMemLedger(), clock, slog.Default())

	writeFiles(t, dir, "20110912.mis")
	require.NoError(t, os.Chtimes(path, clock.Now(), clock.Now()))

	batch, err := src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, batch, "fresh file must wait out the settle window")

	clock.Advance(5 * time.Minute)
	batch, err = src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.NoError(t, batch[0].Commit(context.Background()))

	// The logger appends another interval: the file settles again before reuse.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("01:0.000\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, os.Chtimes(path, clock.Now(), clock.Now()))

	batch, err = src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, batch)

	clock.Advance(10 * time.Minute)
	batch, err = src.ExtractBatch(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(18), batch[0].Size)
}
