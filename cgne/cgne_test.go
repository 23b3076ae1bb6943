package cgne

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gokrylov/cg"
	"github.com/orneryd/gokrylov/operator"
)

// underdetermined wraps a 1x2 full-row-rank operator: A = [1 1]. The
// least-norm solution of x1+x2=4 is (2,2).
func underdetermined() operator.Func[float64] {
	return operator.Func[float64]{
		M: 1, N: 2,
		ApplyFn: func(y, v []float64) error {
			y[0] = v[0] + v[1]
			return nil
		},
		AdjointFn: func(y, v []float64) error {
			y[0], y[1] = v[0], v[0]
			return nil
		},
	}
}

func TestSolveMinimumNormSolution(t *testing.T) {
	A := underdetermined()
	b := []float64{4}

	x, st, err := Solve[float64, float64](A, b, cg.Options[float64, float64]{})
	require.NoError(t, err)
	assert.True(t, st.Solved)
	assert.InDelta(t, 2.0, x[0], 1e-6)
	assert.InDelta(t, 2.0, x[1], 1e-6)
}

// overdetermined wraps a 3x1 full-column-rank operator fitting y = x for
// three observations; the least-squares solution recovers the consistent
// value exactly since the system here has no noise.
func overdetermined() operator.Func[float64] {
	return operator.Func[float64]{
		M: 3, N: 1,
		ApplyFn: func(y, v []float64) error {
			y[0], y[1], y[2] = v[0], v[0], v[0]
			return nil
		},
		AdjointFn: func(y, v []float64) error {
			y[0] = v[0] + v[1] + v[2]
			return nil
		},
	}
}

func TestSolveLeastSquaresConsistentSystem(t *testing.T) {
	A := overdetermined()
	b := []float64{5, 5, 5}

	x, st, err := Solve[float64, float64](A, b, cg.Options[float64, float64]{})
	require.NoError(t, err)
	assert.True(t, st.Solved)
	assert.InDelta(t, 5.0, x[0], 1e-6)
}

func TestSolveRejectsWrongRHSLength(t *testing.T) {
	A := underdetermined()
	_, _, err := Solve[float64, float64](A, []float64{1, 2}, cg.Options[float64, float64]{})
	require.Error(t, err)
}

func TestWorkspaceReuseAcrossSolves(t *testing.T) {
	A := underdetermined()
	ws := NewWorkspace[float64, float64](A)

	require.NoError(t, ws.SolveInPlace([]float64{4}, cg.Options[float64, float64]{}))
	assert.InDelta(t, 2.0, ws.X[0], 1e-6)

	require.NoError(t, ws.SolveInPlace([]float64{8}, cg.Options[float64, float64]{}))
	assert.InDelta(t, 4.0, ws.X[0], 1e-6)
}
