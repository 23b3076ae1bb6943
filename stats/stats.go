// Package stats holds the residual history, iteration count and terminal
// status code every solver reports, plus the shared tolerance/iteration-cap
// evaluation the solvers poll on each step.
package stats

import "github.com/orneryd/gokrylov/scalar"

// Status is a tagged outcome mirroring the observable status strings the
// library contract fixes. The String() value is itself part of the
// contract — callers may match on it directly.
type Status int

const (
	StatusUnknown Status = iota
	StatusZeroResidual
	StatusSolved
	StatusMaxIterations
	StatusNegativeCurvature
	StatusLeastSquares
	StatusUserRequestedExit
)

func (s Status) String() string {
	switch s {
	case StatusZeroResidual:
		return "x = 0 is a zero-residual solution"
	case StatusSolved:
		return "solution good enough given atol and rtol"
	case StatusMaxIterations:
		return "maximum number of iterations exceeded"
	case StatusNegativeCurvature:
		return "negative curvature"
	case StatusLeastSquares:
		return "found approximate least-squares solution"
	case StatusUserRequestedExit:
		return "user-requested exit"
	default:
		return "unknown"
	}
}

// Common holds the fields every solver's stats record shares.
type Common[T scalar.Real] struct {
	Niter     int
	Solved    bool
	Status    Status
	Residuals []T // empty unless History is requested; append-only
}

// Record appends r to Residuals when history is enabled; otherwise it is a
// no-op, so History:false costs nothing beyond the single branch — the
// sequence is never preallocated to itmax per §9's "history as a lazy
// sequence".
func (c *Common[T]) Record(history bool, r T) {
	if !history {
		return
	}
	c.Residuals = append(c.Residuals, r)
}

// Converged reports whether r satisfies atol + rtol*r0, or has collapsed
// below round-off (r+1 <= 1), guarding against tolerances set below the
// representable precision of T.
func Converged[T scalar.Real](r, r0, atol, rtol T) bool {
	if r+1 <= 1 {
		return true
	}
	return r <= atol+rtol*r0
}
