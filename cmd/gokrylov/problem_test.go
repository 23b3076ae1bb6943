package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagonalProblem(t *testing.T) {
	A, b := diagonalProblem(3)
	y := make([]float64, 3)
	require.NoError(t, A.Apply(y, []float64{1, 1, 1}))
	assert.Equal(t, []float64{1, 2, 3}, y)
	assert.Equal(t, []float64{1, 2, 3}, b)
}

func TestLoadMatrixMarketSymmetricCoordinate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spd.mtx")
	content := `%%MatrixMarket matrix coordinate real symmetric
% 2x2 diagonal
2 2 2
1 1 2.0
2 2 3.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	A, n, err := loadMatrixMarket(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	y := make([]float64, 2)
	require.NoError(t, A.Apply(y, []float64{1, 1}))
	assert.Equal(t, []float64{2, 3}, y)
}

func TestLoadMatrixMarketRejectsNonCoordinateReal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.mtx")
	content := "%%MatrixMarket matrix array real general\n1 1\n5.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, err := loadMatrixMarket(path)
	require.Error(t, err)
}

func TestLoadMatrixMarketRejectsNonSquare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rect.mtx")
	content := "%%MatrixMarket matrix coordinate real general\n2 3 1\n1 1 1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, err := loadMatrixMarket(path)
	require.Error(t, err)
}
