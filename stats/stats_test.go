package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusStrings(t *testing.T) {
	cases := map[Status]string{
		StatusUnknown:           "unknown",
		StatusZeroResidual:      "x = 0 is a zero-residual solution",
		StatusSolved:            "solution good enough given atol and rtol",
		StatusMaxIterations:     "maximum number of iterations exceeded",
		StatusNegativeCurvature: "negative curvature",
		StatusLeastSquares:      "found approximate least-squares solution",
		StatusUserRequestedExit: "user-requested exit",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestRecordRespectsHistoryFlag(t *testing.T) {
	var c Common[float64]
	c.Record(false, 1.0)
	assert.Empty(t, c.Residuals)

	c.Record(true, 1.0)
	c.Record(true, 0.5)
	assert.Equal(t, []float64{1.0, 0.5}, c.Residuals)
}

func TestConverged(t *testing.T) {
	assert.True(t, Converged(1e-10, 1.0, 1e-8, 1e-8))
	assert.False(t, Converged(0.5, 1.0, 1e-8, 1e-8))
	// below round-off collapse guard
	assert.True(t, Converged(-1e-20, 1.0, 0, 0))
}
