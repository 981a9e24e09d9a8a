package domain

import (
	"context"
	"time"
)

// RawFile is an unprocessed instrument file waiting in the input directory.
type RawFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Commit  func(ctx context.Context) error
}
