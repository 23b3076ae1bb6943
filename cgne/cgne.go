// Package cgne implements Craig's method (CGNE): a least-squares/least-norm
// solver for possibly rectangular systems Ax = b, built by running
// CG-Lanczos on the symmetric positive semi-definite normal equations
// AAᴴy = b and recovering x = Aᴴy. A is applied matrix-free: every CG
// step costs exactly one ApplyAdjoint and one Apply, never an explicitly
// formed AAᴴ. A must have full row rank for AAᴴ to be positive definite;
// violating that is a numerical-quality issue, not a safety one.
package cgne

import (
	"fmt"

	"github.com/orneryd/gokrylov/cg"
	"github.com/orneryd/gokrylov/kernel"
	"github.com/orneryd/gokrylov/operator"
	"github.com/orneryd/gokrylov/scalar"
)

// Workspace holds the inner CG-Lanczos workspace (sized to A's row count)
// plus the recovered solution x (sized to A's column count) and the
// adjoint scratch buffer every normal-equation application reuses.
type Workspace[FC scalar.Field, T scalar.Real] struct {
	A operator.Adjointer[FC]

	m, n   int
	X      []FC
	adjTmp []FC

	inner *cg.Workspace[FC, T]
}

// NewWorkspace preallocates every buffer for an operator with the given
// shape.
func NewWorkspace[FC scalar.Field, T scalar.Real](A operator.Adjointer[FC]) *Workspace[FC, T] {
	m, n := A.Shape()
	return &Workspace[FC, T]{
		A: A, m: m, n: n,
		X:      make([]FC, n),
		adjTmp: make([]FC, n),
		inner:  cg.NewWorkspace[FC, T](m),
	}
}

func (ws *Workspace[FC, T]) normalOperator() operator.Func[FC] {
	return operator.Func[FC]{
		M: ws.m, N: ws.m, Sym: true, Herm: true,
		ApplyFn: func(y, v []FC) error {
			if err := ws.A.ApplyAdjoint(ws.adjTmp, v); err != nil {
				return fmt.Errorf("cgne: applying adjoint: %w", err)
			}
			return ws.A.Apply(y, ws.adjTmp)
		},
	}
}

// Stats is an alias for cg's stats record: CGNE's inner solve is CG-Lanczos
// applied to AAᴴ, so it reports the same niter/solved/status/residuals.
type Stats[T scalar.Real] = cg.Stats[T]

// Solve runs a cold-start CGNE solve (x0 = 0) and returns the recovered
// solution x (length n, A's column count) alongside the inner CG stats.
func Solve[FC scalar.Field, T scalar.Real](A operator.Adjointer[FC], b []FC, opts cg.Options[FC, T]) ([]FC, Stats[T], error) {
	ws := NewWorkspace[FC, T](A)
	if len(b) != ws.m {
		return nil, Stats[T]{}, fmt.Errorf("cgne: rhs has length %d, operator has %d rows", len(b), ws.m)
	}
	if err := ws.SolveInPlace(b, opts); err != nil {
		return nil, ws.inner.Stats, err
	}
	return ws.X, ws.inner.Stats, nil
}

// SolveInPlace reuses ws across arbitrarily many solves against the same A.
func (ws *Workspace[FC, T]) SolveInPlace(b []FC, opts cg.Options[FC, T]) error {
	if len(b) != ws.m {
		return fmt.Errorf("cgne: rhs has length %d, operator has %d rows", len(b), ws.m)
	}
	normalOpts := opts
	normalOpts.M = nil // the normal equations are never preconditioned through A's own M/N
	if err := ws.inner.SolveInPlace(ws.normalOperator(), b, normalOpts); err != nil {
		return err
	}
	if err := ws.A.ApplyAdjoint(ws.X, ws.inner.X); err != nil {
		return fmt.Errorf("cgne: recovering x = A^H y: %w", err)
	}
	return nil
}

// Nrm2 reports ||x||, handy for callers checking a least-norm solution's
// scale without reaching into kernel directly.
func Nrm2[FC scalar.Field, T scalar.Real](ws *Workspace[FC, T]) T {
	return kernel.Nrm2[FC, T](ws.n, ws.X)
}
