package domain

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultConditionalMatrixPath is where the service looks for the matrix
// when none is configured.
const DefaultConditionalMatrixPath = "./parsivel_conditional_matrix.txt"

// ConditionalMatrix is the 32x32 diameter x velocity correction table that
// ships with the instrument. It is loaded for reference and not applied.
// TODO: apply it to raw counts once the correction rule is confirmed with the vendor.
type ConditionalMatrix [BinCount][BinCount]int

// LoadConditionalMatrix reads a matrix file: 1024 comma separated integers,
// row major. An unreadable file returns a *FileAccessError.
func LoadConditionalMatrix(path string) (ConditionalMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return ConditionalMatrix{}, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	m, err := ParseConditionalMatrix(f)
	if err != nil {
		return ConditionalMatrix{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseConditionalMatrix reads a comma separated matrix from r.
func ParseConditionalMatrix(r io.Reader) (ConditionalMatrix, error) {
	var m ConditionalMatrix
	data, err := io.ReadAll(r)
	if err != nil {
		return m, err
	}

	tokens := strings.Split(strings.TrimRight(string(data), "\r\n"), ",")
	if len(tokens) != RawMatrixSize {
		return m, fmt.Errorf("%w: expected %d values, got %d", ErrConditionalMatrix, RawMatrixSize, len(tokens))
	}
	for i, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return m, fmt.Errorf("%w: value %d: %q", ErrConditionalMatrix, i, tok)
		}
		m[i/BinCount][i%BinCount] = v
	}
	return m, nil
}

// At returns the entry at row, col of the row major layout.
func (m ConditionalMatrix) At(row, col int) int {
	return m[row][col]
}
