package domain

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrixText(n int) string {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = strconv.Itoa(i % 2)
	}
	return strings.Join(vals, ",")
}

func TestParseConditionalMatrix(t *testing.T) {
	t.Run("valid with trailing newline", func(t *testing.T) {
		m, err := ParseConditionalMatrix(strings.NewReader(matrixText(RawMatrixSize) + "\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, m.At(0, 0))
		assert.Equal(t, 1, m.At(0, 1))
		assert.Equal(t, 1, m.At(31, 31))
	})

	t.Run("wrong count", func(t *testing.T) {
		_, err := ParseConditionalMatrix(strings.NewReader(matrixText(1000)))
		require.ErrorIs(t, err, ErrConditionalMatrix)
		assert.Contains(t, err.Error(), "got 1000")
	})

	t.Run("bad token", func(t *testing.T) {
		text := strings.Replace(matrixText(RawMatrixSize), "1", "x", 1)
		_, err := ParseConditionalMatrix(strings.NewReader(text))
		require.ErrorIs(t, err, ErrConditionalMatrix)
	})
}

func TestLoadConditionalMatrix(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "parsivel_conditional_matrix.txt")
	require.NoError(t, os.WriteFile(path, []byte(matrixText(RawMatrixSize)+"\n"), 0o600))
	m, err := LoadConditionalMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.At(1, 1))

	_, err = LoadConditionalMatrix(filepath.Join(dir, "nope.txt"))
	var fae *FileAccessError
	require.ErrorAs(t, err, &fae)
}
