package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNilStream is returned by Normalize when given no stream.
	ErrNilStream = errors.New("nil record stream")

	// ErrGeometryMismatch is returned when bin centers and spreads differ in length.
	ErrGeometryMismatch = errors.New("bin centers and spreads differ in length")

	// ErrConditionalMatrix is wrapped by conditional matrix parse failures.
	ErrConditionalMatrix = errors.New("invalid conditional matrix")
)

// FileAccessError reports an input or side file that could not be read.
// It aborts the whole read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// MalformedRecord describes a recognized line whose payload could not be
// decoded. The line contributed nothing to its series.
type MalformedRecord struct {
	Line   int
	Tag    Tag
	Reason string
}

func (m MalformedRecord) String() string {
	return fmt.Sprintf("line %d: tag %s (%s): %s", m.Line, m.Tag.Code(), m.Tag, m.Reason)
}

// ShapeMismatchError reports a per-interval series whose length disagrees
// with the number of decoded timestamps.
type ShapeMismatchError struct {
	Field string
	Got   int
	Want  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has %d entries, want %d", e.Field, e.Got, e.Want)
}
