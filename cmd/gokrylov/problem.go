package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/orneryd/gokrylov/operator"
)

// triplet is one (row, col, value) entry of a sparse matrix read from a
// Matrix Market coordinate file.
type triplet struct {
	row, col int
	val      float64
}

// loadMatrixMarket reads a real coordinate-format Matrix Market file
// (the common %%MatrixMarket matrix coordinate real general/symmetric
// header) into a sparse operator.Func. Only the handful of fields a
// solver demo needs are parsed; pattern/complex/array formats are
// rejected rather than silently mishandled.
func loadMatrixMarket(path string) (operator.Func[float64], int, error) {
	f, err := os.Open(path)
	if err != nil {
		return operator.Func[float64]{}, 0, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !scanner.Scan() {
		return operator.Func[float64]{}, 0, fmt.Errorf("%q: empty file", path)
	}
	header := strings.Fields(strings.ToLower(scanner.Text()))
	if len(header) < 5 || header[0] != "%%matrixmarket" || header[1] != "matrix" {
		return operator.Func[float64]{}, 0, fmt.Errorf("%q: not a Matrix Market matrix header", path)
	}
	if header[2] != "coordinate" || header[3] != "real" {
		return operator.Func[float64]{}, 0, fmt.Errorf("%q: only coordinate real format is supported, got %s %s", path, header[2], header[3])
	}
	symmetric := header[4] == "symmetric"

	var rows, cols, nnz int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return operator.Func[float64]{}, 0, fmt.Errorf("%q: malformed size line %q", path, line)
		}
		rows, _ = strconv.Atoi(fields[0])
		cols, _ = strconv.Atoi(fields[1])
		nnz, _ = strconv.Atoi(fields[2])
		break
	}
	if rows != cols {
		return operator.Func[float64]{}, 0, fmt.Errorf("%q: operator is %dx%d, must be square", path, rows, cols)
	}

	entries := make([]triplet, 0, nnz)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return operator.Func[float64]{}, 0, fmt.Errorf("%q: malformed entry line %q", path, line)
		}
		r, _ := strconv.Atoi(fields[0])
		c, _ := strconv.Atoi(fields[1])
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return operator.Func[float64]{}, 0, fmt.Errorf("%q: bad value %q: %w", path, fields[2], err)
		}
		entries = append(entries, triplet{r - 1, c - 1, v})
		if symmetric && r != c {
			entries = append(entries, triplet{c - 1, r - 1, v})
		}
	}
	if err := scanner.Err(); err != nil {
		return operator.Func[float64]{}, 0, fmt.Errorf("%q: reading: %w", path, err)
	}

	return operator.Func[float64]{
		M: rows, N: cols,
		Sym: symmetric, Herm: symmetric,
		ApplyFn: func(y, v []float64) error {
			for i := range y {
				y[i] = 0
			}
			for _, e := range entries {
				y[e.row] += e.val * v[e.col]
			}
			return nil
		},
	}, rows, nil
}

// diagonalProblem builds a synthetic n x n SPD diagonal system A = diag(1,
// 2, ..., n), b = A * ones(n), so the exact solution is the all-ones
// vector — useful for quick demos without needing a file.
func diagonalProblem(n int) (operator.Func[float64], []float64) {
	A := operator.Func[float64]{
		M: n, N: n, Sym: true, Herm: true,
		ApplyFn: func(y, v []float64) error {
			for i := range v {
				y[i] = float64(i+1) * v[i]
			}
			return nil
		},
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i + 1)
	}
	return A, b
}
