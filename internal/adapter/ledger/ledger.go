package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/jonboulle/clockwork"
)

const keyPrefix = "file/"

// Entry records a raw file that was fully processed.
type Entry struct {
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	CommittedAt time.Time `json:"committed_at"`
}

// Ledger is a pebble-backed record of processed raw files, keyed by file
// name. A file whose size or modification time changed since it was
// recorded counts as new.
type Ledger struct {
	db    *pebble.DB
	clock clockwork.Clock
}

// Open opens or creates a ledger in dir.
func Open(dir string, clock clockwork.Clock) (*Ledger, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", dir, err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ledger{db: db, clock: clock}, nil
}

// Lookup returns the entry for name, if any.
func (l *Ledger) Lookup(name string) (Entry, bool, error) {
	data, closer, err := l.db.Get(key(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("ledger get %s: %w", name, err)
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("ledger decode %s: %w", name, err)
	}
	return e, true, nil
}

// Seen reports whether name was recorded with the same size and mtime.
func (l *Ledger) Seen(name string, size int64, modTime time.Time) (bool, error) {
	e, ok, err := l.Lookup(name)
	if err != nil || !ok {
		return false, err
	}
	return e.Size == size && e.ModTime.Equal(modTime), nil
}

// Mark records name as processed. The write is synced so a crash after
// Mark never reprocesses the file.
func (l *Ledger) Mark(name string, size int64, modTime time.Time) error {
	data, err := json.Marshal(Entry{
		Size:        size,
		ModTime:     modTime.UTC(),
		CommittedAt: l.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("ledger encode %s: %w", name, err)
	}
	if err := l.db.Set(key(name), data, pebble.Sync); err != nil {
		return fmt.Errorf("ledger set %s: %w", name, err)
	}
	return nil
}

// Forget removes name so the next poll picks the file up again.
func (l *Ledger) Forget(name string) error {
	return l.db.Delete(key(name), pebble.Sync)
}

// Close flushes and closes the underlying store.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}
