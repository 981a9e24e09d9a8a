package filesource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Ledger tracks which raw files were already processed.
type Ledger interface {
	Seen(name string, size int64, modTime time.Time) (bool, error)
	Mark(name string, size int64, modTime time.Time) error
}

// Source lists unprocessed raw files in a directory.
// It implements pipeline.BatchExtractor.
type Source struct {
	dir     string
	pattern string
	settle  time.Duration
	ledger  Ledger
	clock   clockwork.Clock
	logger  *slog.Logger
}

// New creates a Source over files in dir matching the glob pattern. Files
// modified less than settle ago are still being written by the logger and
// are left for a later poll. A nil clock uses the wall clock.
func New(dir, pattern string, settle time.Duration, ledger Ledger, clock clockwork.Clock, logger *slog.Logger) *Source {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Source{dir: dir, pattern: pattern, settle: settle, ledger: ledger, clock: clock, logger: logger}
}

// ExtractBatch returns up to batchSize unprocessed files, oldest name first.
// Instrument files are named by date, so name order is time order. Each
// file's Commit marks it done in the ledger.
func (s *Source) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, s.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", s.pattern, err)
	}
	sort.Strings(matches)

	batch := make([]domain.RawFile, 0, batchSize)
	for _, path := range matches {
		if len(batch) >= batchSize {
			break
		}
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Warn("stat raw file failed, skipping", "path", path, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if age := s.clock.Since(info.ModTime()); age < s.settle {
			s.logger.Debug("raw file still settling", "path", path, "age", age)
			continue
		}

		seen, err := s.ledger.Seen(info.Name(), info.Size(), info.ModTime())
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}
		batch = append(batch, s.rawFile(path, info))
	}
	return batch, nil
}

func (s *Source) rawFile(path string, info os.FileInfo) domain.RawFile {
	name, size, modTime := info.Name(), info.Size(), info.ModTime()
	return domain.RawFile{
		Path:    path,
		Name:    name,
		Size:    size,
		ModTime: modTime,
		Commit: func(_ context.Context) error {
			return s.ledger.Mark(name, size, modTime)
		},
	}
}
