package gmres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gokrylov/operator"
)

func matOp(rows [][]float64) operator.Func[float64] {
	n := len(rows)
	return operator.Func[float64]{
		M: n, N: n,
		ApplyFn: func(y, v []float64) error {
			for i := 0; i < n; i++ {
				var sum float64
				for k := 0; k < n; k++ {
					sum += rows[i][k] * v[k]
				}
				y[i] = sum
			}
			return nil
		},
	}
}

func TestSolveDiagonalSystem(t *testing.T) {
	A := matOp([][]float64{{2, 0}, {0, 3}})
	b := []float64{2, 3}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)

	assert.True(t, ws.Stats.Solved)
	assert.InDelta(t, 1.0, ws.X[0], 1e-6)
	assert.InDelta(t, 1.0, ws.X[1], 1e-6)
}

func TestSolveNonSymmetricSystem(t *testing.T) {
	// A rotation-like non-normal matrix; GMRES must still converge since
	// unlike CG it carries no symmetry assumption.
	A := matOp([][]float64{{2, -1, 0}, {1, 2, -1}, {0, 1, 3}})
	b := []float64{1, 2, 3}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{History: true})
	require.NoError(t, err)
	assert.True(t, ws.Stats.Solved)

	var check [3]float64
	require.NoError(t, A.Apply(check[:], ws.X))
	for i := range check {
		assert.InDelta(t, b[i], check[i], 1e-6)
	}
}

func TestSolveWithSmallMemoryRestarts(t *testing.T) {
	A := matOp([][]float64{
		{4, 1, 0, 0},
		{1, 4, 1, 0},
		{0, 1, 4, 1},
		{0, 0, 1, 4},
	})
	b := []float64{1, 2, 3, 4}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{Memory: 2, Itmax: 50})
	require.NoError(t, err)
	assert.True(t, ws.Stats.Solved)

	var check [4]float64
	require.NoError(t, A.Apply(check[:], ws.X))
	for i := range check {
		assert.InDelta(t, b[i], check[i], 1e-6)
	}
}

func TestSolveWarmStartMatchesColdSolve(t *testing.T) {
	A := matOp([][]float64{{3, 1}, {1, 3}})
	b := []float64{4, 4}

	cold, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)

	warm, err := SolveWarmStart[float64, float64](A, b, []float64{0.9, 0.9}, Options[float64, float64]{})
	require.NoError(t, err)

	assert.InDelta(t, cold.X[0], warm.X[0], 1e-6)
	assert.InDelta(t, cold.X[1], warm.X[1], 1e-6)
}

func TestSolveRejectsNonSquareOperator(t *testing.T) {
	A := operator.Func[float64]{M: 3, N: 2, ApplyFn: func(y, v []float64) error { return nil }}
	_, err := Solve[float64, float64](A, []float64{1, 2, 3}, Options[float64, float64]{})
	require.Error(t, err)
}

func TestSolveWithLeftPreconditionerConverges(t *testing.T) {
	A := matOp([][]float64{{4, 0}, {0, 9}})
	M := matOp([][]float64{{1.0 / 4, 0}, {0, 1.0 / 9}})
	b := []float64{4, 9}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{M: M})
	require.NoError(t, err)
	assert.True(t, ws.Stats.Solved)
	assert.InDelta(t, 1.0, ws.X[0], 1e-6)
	assert.InDelta(t, 1.0, ws.X[1], 1e-6)
}

func TestSolveHonorsUserCallback(t *testing.T) {
	A := matOp([][]float64{{4, 1, 0}, {1, 4, 1}, {0, 1, 4}})
	b := []float64{1, 1, 1}

	calls := 0
	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{
		Callback: func(ws *Workspace[float64, float64]) bool {
			calls++
			return calls >= 1
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-requested exit", ws.Stats.Status.String())
}

func TestSolveComplexSystem(t *testing.T) {
	n := 2
	A := operator.Func[complex128]{
		M: n, N: n,
		ApplyFn: func(y, v []complex128) error {
			y[0] = complex(2, 0)*v[0] + complex(0, 1)*v[1]
			y[1] = complex(0, -1)*v[0] + complex(3, 0)*v[1]
			return nil
		},
	}
	b := []complex128{complex(2, 1), complex(-1, 3)}

	ws, err := Solve[complex128, float64](A, b, Options[complex128, float64]{})
	require.NoError(t, err)
	assert.True(t, ws.Stats.Solved)

	var check [2]complex128
	require.NoError(t, A.Apply(check[:], ws.X))
	for i := range check {
		assert.InDelta(t, real(b[i]), real(check[i]), 1e-5)
		assert.InDelta(t, imag(b[i]), imag(check[i]), 1e-5)
	}
}
