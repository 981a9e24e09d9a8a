package domain

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// BinCount is the number of diameter (and velocity) classes.
	BinCount = 32

	// RawMatrixSize is the number of entries in a flattened raw count matrix.
	RawMatrixSize = BinCount * BinCount

	// Sentinel marks a missing value in the raw format.
	Sentinel = -9.999
)

// maxLineSize bounds a single raw line; a 93 line is about 4 KiB.
const maxLineSize = 64 * 1024

// RecordStream holds the per-tag sequences decoded from one raw file, in
// file order. Sequences only line up when every interval carried every tag.
type RecordStream struct {
	RainRate      []float64
	Reflectivity  []float64
	ParticleCount []int
	Time          []int // seconds of day
	DropCounts    [][]float64
	Velocities    [][]float64
	RawCounts     [][]int

	Lines    int
	Warnings []MalformedRecord
}

// Decoder accumulates raw lines into its own RecordStream. A Decoder is not
// safe for concurrent use; create one per file.
type Decoder struct {
	stream *RecordStream
}

// NewDecoder returns a Decoder with an empty stream.
func NewDecoder() *Decoder {
	return &Decoder{stream: &RecordStream{}}
}

// DecodeFile decodes the raw file at path with a fresh Decoder. A file that
// cannot be opened or read returns a *FileAccessError.
func DecodeFile(path string) (*RecordStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	stream, err := DecodeReader(f)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return stream, nil
}

// DecodeReader decodes raw lines from r with a fresh Decoder. Only I/O
// errors fail it; bad payloads end up in the stream's Warnings. Lines longer
// than maxLineSize are drained and skipped.
func DecodeReader(r io.Reader) (*RecordStream, error) {
	d := NewDecoder()
	br := bufio.NewReaderSize(r, 8*1024)

	var (
		line      []byte
		oversized bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if !oversized {
			line = append(line, chunk...)
			oversized = len(line) > maxLineSize
		}
		if isPrefix {
			continue
		}

		if oversized {
			d.skipOversized(line)
		} else {
			d.Feed(string(line))
		}
		line = line[:0]
		oversized = false
	}
	return d.Stream(), nil
}

// Stream returns the decoder's accumulated stream.
func (d *Decoder) Stream() *RecordStream {
	return d.stream
}

// Feed decodes a single raw line. Lines are numbered from 1 in the order
// they are fed.
func (d *Decoder) Feed(line string) {
	d.stream.Lines++
	lineNo := d.stream.Lines

	fields := strings.Split(line, ":")
	if len(fields) < 2 {
		return
	}

	tag := ParseTag(fields[0])
	var err error
	switch tag {
	case TagRainRate:
		var v float64
		if v, err = parseFloat(fields[1]); err == nil {
			d.stream.RainRate = append(d.stream.RainRate, v)
		}
	case TagReflectivity:
		var v float64
		if v, err = parseFloat(fields[1]); err == nil {
			d.stream.Reflectivity = append(d.stream.Reflectivity, v)
		}
	case TagParticleCount:
		var v int
		if v, err = parseInt(fields[1]); err == nil {
			d.stream.ParticleCount = append(d.stream.ParticleCount, v)
		}
	case TagTime:
		var v int
		if v, err = parseSecondsOfDay(fields[1:]); err == nil {
			d.stream.Time = append(d.stream.Time, v)
		}
	case TagDropCounts:
		var row []float64
		if row, err = parseFloatRow(strings.TrimRight(fields[1], "\r\n;"), BinCount); err == nil {
			d.stream.DropCounts = append(d.stream.DropCounts, row)
		}
	case TagVelocities:
		var row []float64
		if row, err = parseFloatRow(strings.TrimRight(fields[1], ";\r\n"), BinCount); err == nil {
			d.stream.Velocities = append(d.stream.Velocities, row)
		}
	case TagRawMatrix:
		var row []int
		if row, err = parseIntRow(strings.Trim(fields[1], "\r\n;"), RawMatrixSize); err == nil {
			d.stream.RawCounts = append(d.stream.RawCounts, row)
		}
	default:
		return
	}

	if err != nil {
		d.stream.Warnings = append(d.stream.Warnings, MalformedRecord{
			Line:   lineNo,
			Tag:    tag,
			Reason: err.Error(),
		})
	}
}

// skipOversized counts a line that exceeded maxLineSize. A recognized tag
// is reported as malformed; anything else is ignored like any unknown tag.
func (d *Decoder) skipOversized(line []byte) {
	d.stream.Lines++
	code, _, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return
	}
	tag := ParseTag(string(code))
	if tag == TagUnknown {
		return
	}
	d.stream.Warnings = append(d.stream.Warnings, MalformedRecord{
		Line:   d.stream.Lines,
		Tag:    tag,
		Reason: fmt.Sprintf("line exceeds %d bytes", maxLineSize),
	})
}

// parseSecondsOfDay converts [HH, MM, SS, ...] into seconds since midnight.
func parseSecondsOfDay(fields []string) (int, error) {
	if len(fields) < 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %d fields", len(fields))
	}
	h, err := parseInt(fields[0])
	if err != nil {
		return 0, fmt.Errorf("hour: %w", err)
	}
	m, err := parseInt(fields[1])
	if err != nil {
		return 0, fmt.Errorf("minute: %w", err)
	}
	s, err := parseInt(fields[2])
	if err != nil {
		return 0, fmt.Errorf("second: %w", err)
	}
	return h*3600 + m*60 + s, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q", strings.TrimSpace(s))
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", strings.TrimSpace(s))
	}
	return v, nil
}

func parseFloatRow(payload string, want int) ([]float64, error) {
	tokens := strings.Split(payload, ";")
	if len(tokens) != want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(tokens))
	}
	row := make([]float64, want)
	for i, tok := range tokens {
		v, err := parseFloat(tok)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

func parseIntRow(payload string, want int) ([]int, error) {
	tokens := strings.Split(payload, ";")
	if len(tokens) != want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(tokens))
	}
	row := make([]int, want)
	for i, tok := range tokens {
		v, err := parseInt(tok)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}
