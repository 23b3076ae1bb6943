package cg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gokrylov/operator"
)

func diagOp(d []float64) operator.Func[float64] {
	n := len(d)
	return operator.Func[float64]{
		M: n, N: n, Sym: true, Herm: true,
		ApplyFn: func(y, v []float64) error {
			for i := range d {
				y[i] = d[i] * v[i]
			}
			return nil
		},
	}
}

func TestSolveSPDDiagonal(t *testing.T) {
	A := diagOp([]float64{2, 3})
	b := []float64{2, 3}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)

	assert.True(t, ws.Stats.Solved)
	assert.LessOrEqual(t, ws.Stats.Niter, 2)
	assert.InDelta(t, 1.0, ws.X[0], 1e-6)
	assert.InDelta(t, 1.0, ws.X[1], 1e-6)
	assert.False(t, ws.Stats.Indefinite)
}

func TestSolveDetectsIndefiniteOperator(t *testing.T) {
	A := diagOp([]float64{1, -1})
	b := []float64{1, 1}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{CheckCurvature: true})
	require.NoError(t, err)

	assert.True(t, ws.Stats.Indefinite)
	assert.Equal(t, "negative curvature", ws.Stats.Status.String())
	assert.False(t, ws.Stats.Solved)
}

func TestSolveZeroResidualWhenBIsZero(t *testing.T) {
	A := diagOp([]float64{2, 3})
	b := []float64{0, 0}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)

	assert.True(t, ws.Stats.Solved)
	assert.Equal(t, "x = 0 is a zero-residual solution", ws.Stats.Status.String())
	assert.Equal(t, 0, ws.Stats.Niter)
	assert.Equal(t, 0.0, ws.X[0])
	assert.Equal(t, 0.0, ws.X[1])
}

func TestSolveWarmStartMatchesColdSolve(t *testing.T) {
	A := diagOp([]float64{4, 9})
	b := []float64{8, 18}

	cold, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)

	x0 := []float64{1, 1}
	warm, err := SolveWarmStart[float64, float64](A, b, x0, Options[float64, float64]{})
	require.NoError(t, err)

	assert.InDelta(t, cold.X[0], warm.X[0], 1e-6)
	assert.InDelta(t, cold.X[1], warm.X[1], 1e-6)
}

func TestSolveRecordsResidualHistoryOnlyWhenRequested(t *testing.T) {
	A := diagOp([]float64{2, 3, 5})
	b := []float64{1, 1, 1}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{History: true})
	require.NoError(t, err)
	assert.NotEmpty(t, ws.Stats.Residuals)

	ws2, err := Solve[float64, float64](A, b, Options[float64, float64]{})
	require.NoError(t, err)
	assert.Empty(t, ws2.Stats.Residuals)
}

func TestSolveRejectsNonSquareOperator(t *testing.T) {
	A := operator.Func[float64]{M: 3, N: 2, ApplyFn: func(y, v []float64) error { return nil }}
	_, err := Solve[float64, float64](A, []float64{1, 2, 3}, Options[float64, float64]{})
	require.Error(t, err)
}

func TestSolveWithPreconditionerConverges(t *testing.T) {
	A := diagOp([]float64{4, 9, 16})
	M := diagOp([]float64{1.0 / 4, 1.0 / 9, 1.0 / 16}) // exact inverse preconditioner
	b := []float64{4, 9, 16}

	ws, err := Solve[float64, float64](A, b, Options[float64, float64]{M: M})
	require.NoError(t, err)
	assert.True(t, ws.Stats.Solved)
	assert.InDelta(t, 1.0, ws.X[0], 1e-6)
	assert.InDelta(t, 1.0, ws.X[1], 1e-6)
	assert.InDelta(t, 1.0, ws.X[2], 1e-6)
}

func TestSolveHonorsUserCallback(t *testing.T) {
	A := diagOp([]float64{2, 3, 5, 7})
	b := []float64{1, 1, 1, 1}

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
