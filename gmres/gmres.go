// Package gmres implements GMRES (C8): a restarted Arnoldi solver for
// general square systems Ax = b, using modified Gram-Schmidt to build the
// Krylov basis and an incremental Givens-rotation QR factorization of the
// Hessenberg matrix to track the least-squares residual without ever
// forming or refactoring the full Hessenberg matrix.
package gmres

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/orneryd/gokrylov/givens"
	"github.com/orneryd/gokrylov/kernel"
	"github.com/orneryd/gokrylov/operator"
	"github.com/orneryd/gokrylov/scalar"
	"github.com/orneryd/gokrylov/stats"
)

// ErrNonSquareOperator is returned when A is not square.
var ErrNonSquareOperator = errors.New("gmres: operator must be square")

// ErrDimensionMismatch is returned when b's length does not match A's size.
var ErrDimensionMismatch = errors.New("gmres: dimension mismatch between operator and right-hand side")

// Stats extends stats.Common with GMRES's inconsistency flag, set when a
// breakdown is reached without driving the residual below tolerance —
// the Krylov subspace was exhausted before a genuine solution was found.
type Stats[T scalar.Real] struct {
	stats.Common[T]
	Inconsistent bool
}

// Callback is polled once per Arnoldi step; returning true forces a clean,
// user-requested termination.
type Callback[FC scalar.Field, T scalar.Real] func(*Workspace[FC, T]) bool

// Options configures a GMRES solve.
type Options[FC scalar.Field, T scalar.Real] struct {
	M, N            operator.LinearOperator[FC] // left, right preconditioners; nil means identity
	Atol, Rtol      T
	Itmax           int  // total Arnoldi steps across all restarts; 0 means default 2n
	Memory          int  // restart length; 0 means default min(n, 20)
	Reorthogonalize bool // run a second Gram-Schmidt pass per Arnoldi step
	History         bool
	Verbose         int
	Callback        Callback[FC, T]
}

// DefaultOptions returns atol = rtol = sqrt(eps(T)).
func DefaultOptions[FC scalar.Field, T scalar.Real]() Options[FC, T] {
	eps := scalar.Sqrt(scalar.Eps[T]())
	return Options[FC, T]{Atol: eps, Rtol: eps}
}

// Workspace holds every vector, scalar and matrix buffer a restarted GMRES
// solve reuses across cycles and across repeated calls: x, the warm-start
// delta, the Krylov basis V (capacity memory+1), the rotated right-hand
// side z, the Givens cosines/sines c/s, the packed triangular factor R, the
// scratch buffer p for residual and right-preconditioner products, and
// (only when M is set) the scratch buffer q for left-preconditioner
// applications.
type Workspace[FC scalar.Field, T scalar.Real] struct {
	n, memory int

	X, Dx []FC
	W     []FC   // scratch for the current Arnoldi candidate vector
	V     [][]FC // Krylov basis, length memory+1
	Z     []FC   // rotated right-hand side, length memory+1
	C     []T    // Givens cosines, length memory
	S     []FC   // Givens sines, length memory
	R     [][]FC // packed upper-triangular factor, R[j] holds column j
	Hcol  []FC   // scratch Arnoldi coefficients for the column being built

	Q []FC // left-preconditioner scratch, only when M != I
	P []FC // residual / right-preconditioner scratch, always allocated

	InnerIter int // Arnoldi steps completed in the current restart cycle
	WarmStart bool
	Logger    *log.Logger
	Stats     Stats[T]
}

// NewWorkspace preallocates every buffer for a given problem size and
// restart length.
func NewWorkspace[FC scalar.Field, T scalar.Real](n, memory int) *Workspace[FC, T] {
	ws := &Workspace[FC, T]{
		n: n, memory: memory,
		X:    make([]FC, n),
		Dx:   make([]FC, n),
		W:    make([]FC, n),
		Z:    make([]FC, memory+1),
		C:    make([]T, memory),
		S:    make([]FC, memory),
		Hcol: make([]FC, memory+1),
		P:    make([]FC, n),
		Logger: log.New(os.Stderr, "gmres: ", log.LstdFlags),
	}
	ws.V = make([][]FC, memory+1)
	for i := range ws.V {
		ws.V[i] = make([]FC, n)
	}
	ws.R = make([][]FC, memory)
	for j := range ws.R {
		ws.R[j] = make([]FC, memory)
	}
	return ws
}

func checkPreconditions[FC scalar.Field](A operator.LinearOperator[FC], b []FC) (int, error) {
	m, n := A.Shape()
	if m != n {
		return 0, fmt.Errorf("%w: got %dx%d", ErrNonSquareOperator, m, n)
	}
	if len(b) != n {
		return 0, fmt.Errorf("%w: rhs has length %d, operator has size %d", ErrDimensionMismatch, len(b), n)
	}
	return n, nil
}

func defaultMemory(n, memory int) int {
	if memory > 0 {
		if memory > n {
			return n
		}
		return memory
	}
	if n < 20 {
		return n
	}
	return 20
}

// Solve runs a cold-start GMRES solve (x0 = 0).
func Solve[FC scalar.Field, T scalar.Real](A operator.LinearOperator[FC], b []FC, opts Options[FC, T]) (*Workspace[FC, T], error) {
	n, err := checkPreconditions[FC](A, b)
	if err != nil {
		return nil, err
	}
	ws := NewWorkspace[FC, T](n, defaultMemory(n, opts.Memory))
	err = ws.SolveInPlace(A, b, opts)
	return ws, err
}

// SolveWarmStart runs GMRES starting from x0.
func SolveWarmStart[FC scalar.Field, T scalar.Real](A operator.LinearOperator[FC], b, x0 []FC, opts Options[FC, T]) (*Workspace[FC, T], error) {
	n, err := checkPreconditions[FC](A, b)
	if err != nil {
		return nil, err
	}
	if len(x0) != n {
		return nil, fmt.Errorf("%w: x0 has length %d, operator has size %d", ErrDimensionMismatch, len(x0), n)
	}
	ws := NewWorkspace[FC, T](n, defaultMemory(n, opts.Memory))
	ws.WarmStart = true
	kernel.Copy(n, ws.Dx, x0)
	err = ws.SolveInPlace(A, b, opts)
	return ws, err
}

// SolveInPlace reuses ws across arbitrarily many solves, provided the
// restart length it was built with still fits the caller's needs.
func (ws *Workspace[FC, T]) SolveInPlace(A operator.LinearOperator[FC], b []FC, opts Options[FC, T]) error {
	n, err := checkPreconditions[FC](A, b)
	if err != nil {
		return err
	}
	if n != ws.n {
		return fmt.Errorf("gmres: workspace sized for n=%d, operator has n=%d", ws.n, n)
	}

	M, N := opts.M, opts.N
	if M == nil {
		M = operator.Identity[FC]{N: n}
	}
	if N == nil {
		N = operator.Identity[FC]{N: n}
	}
	needM := !operator.IsIdentity[FC](M)
	needN := !operator.IsIdentity[FC](N)
	if needM && ws.Q == nil {
		ws.Q = make([]FC, n)
	}

	atol, rtol := opts.Atol, opts.Rtol
	if atol == 0 && rtol == 0 {
		def := DefaultOptions[FC, T]()
		atol, rtol = def.Atol, def.Rtol
	}
	itmax := opts.Itmax
	if itmax <= 0 {
		itmax = 2 * n
	}
	epsQuarter := scalar.Sqrt(scalar.Sqrt(scalar.Eps[T]()))
	breakdownTol := epsQuarter * epsQuarter * epsQuarter // eps^(3/4)

	ws.Stats = Stats[T]{}

	if ws.WarmStart {
		kernel.Copy(n, ws.X, ws.Dx)
	} else {
		kernel.Fill(n, ws.X, scalar.Zero[FC]())
	}

	var r0M T
	haveR0M := false
	totalIter := 0

	for {
		// Build the preconditioned residual r = M(b - A*x).
		if err := A.Apply(ws.P, ws.X); err != nil {
			return fmt.Errorf("gmres: applying operator: %w", err)
		}
		for i := 0; i < n; i++ {
			ws.W[i] = b[i] - ws.P[i]
		}
		var r []FC
		if needM {
			if err := M.Apply(ws.Q, ws.W); err != nil {
				return fmt.Errorf("gmres: applying left preconditioner: %w", err)
			}
			r = ws.Q
		} else {
			r = ws.W
		}

		beta := kernel.Nrm2[FC, T](n, r)
		if !haveR0M {
			r0M = beta
			haveR0M = true
		}

		if beta+1 <= 1 {
			ws.Stats.Status = stats.StatusZeroResidual
			ws.Stats.Solved = true
			ws.Stats.Niter = totalIter
			ws.Stats.Record(opts.History, beta)
			return nil
		}

		kernel.Copy(n, ws.V[0], r)
		kernel.Scal(n, scalar.FromReal[FC, T](1/beta), ws.V[0])
		for i := range ws.Z {
			ws.Z[i] = scalar.Zero[FC]()
		}
		ws.Z[0] = scalar.FromReal[FC, T](beta)
		if totalIter == 0 {
			ws.Stats.Record(opts.History, beta)
		}

		cycleLen := ws.memory
		if remaining := itmax - totalIter; remaining < cycleLen {
			cycleLen = remaining
		}

		j := 0
		breakdown := false
		solved := false
		userExit := false

		for ; j < cycleLen; j++ {
			avec := ws.V[j]
			if needN {
				if err := N.Apply(ws.P, ws.V[j]); err != nil {
					return fmt.Errorf("gmres: applying right preconditioner: %w", err)
				}
				avec = ws.P
			}
			if err := A.Apply(ws.W, avec); err != nil {
				return fmt.Errorf("gmres: applying operator: %w", err)
			}
			if needM {
				if err := M.Apply(ws.Q, ws.W); err != nil {
					return fmt.Errorf("gmres: applying left preconditioner: %w", err)
				}
				kernel.Copy(n, ws.W, ws.Q)
			}

			for i := 0; i <= j; i++ {
				ws.Hcol[i] = kernel.Dot(n, ws.V[i], ws.W)
				kernel.Axpy(n, -ws.Hcol[i], ws.V[i], ws.W)
			}
			if opts.Reorthogonalize {
				for i := 0; i <= j; i++ {
					corr := kernel.Dot(n, ws.V[i], ws.W)
					kernel.Axpy(n, -corr, ws.V[i], ws.W)
					ws.Hcol[i] += corr
				}
			}

			hNext := kernel.Nrm2[FC, T](n, ws.W)
			totalIter++
			ws.InnerIter = j + 1

			if hNext <= breakdownTol {
				breakdown = true
			} else {
				kernel.Copy(n, ws.V[j+1], ws.W)
				kernel.Scal(n, scalar.FromReal[FC, T](1/hNext), ws.V[j+1])
			}

			// Apply every previous rotation to the new Hessenberg column:
			// [c_i  conj(s_i)] [h_i  ]   [h_i  ]'
			// [s_i   -c_i    ] [h_i+1] = [h_i+1]'
			for i := 0; i < j; i++ {
				hi, hi1 := ws.Hcol[i], ws.Hcol[i+1]
				ci := scalar.FromReal[FC, T](ws.C[i])
				si := ws.S[i]
				ws.Hcol[i] = ci*hi + scalar.Conj(si)*hi1
				ws.Hcol[i+1] = si*hi - ci*hi1
			}

			c, s, rjj := givens.SymGivens[FC, T](ws.Hcol[j], scalar.FromReal[FC, T](hNext))
			ws.C[j], ws.S[j] = c, s
			for i := 0; i <= j; i++ {
				ws.R[j][i] = scalar.Zero[FC]()
			}
			copy(ws.R[j][:j], ws.Hcol[:j])
			ws.R[j][j] = rjj

			// Apply the same rotation to the rotated right-hand side; its
			// second entry is 0 before this step, so this reduces to
			// scaling z[j] by c and s respectively.
			zj := ws.Z[j]
			ws.Z[j] = scalar.FromReal[FC, T](c) * zj
			ws.Z[j+1] = s * zj

			rNorm := scalar.Abs[FC, T](ws.Z[j+1])
			ws.Stats.Record(opts.History, rNorm)

			if opts.Verbose > 0 && totalIter%opts.Verbose == 0 {
				ws.Logger.Printf("iter %d residual %v", totalIter, rNorm)
			}

			if stats.Converged(rNorm, r0M, atol, rtol) {
				solved = true
			}
			if opts.Callback != nil && opts.Callback(ws) {
				userExit = true
			}

			if solved || breakdown || userExit || totalIter >= itmax {
				break
			}
		}

		m := j
		if j < cycleLen {
			m = j + 1
		} else {
			m = cycleLen
		}

		ws.backSubstitute(m, breakdownTol)
		if err := ws.applyCorrection(N, needN, m); err != nil {
			return fmt.Errorf("gmres: applying right preconditioner: %w", err)
		}

		ws.Stats.Niter = totalIter
		if solved {
			ws.Stats.Status = stats.StatusSolved
			ws.Stats.Solved = true
			return nil
		}
		if userExit {
			ws.Stats.Status = stats.StatusUserRequestedExit
			return nil
		}
		if breakdown {
			if stats.Converged(scalar.Abs[FC, T](ws.Z[m]), r0M, atol, rtol) {
				ws.Stats.Status = stats.StatusSolved
				ws.Stats.Solved = true
			} else {
				ws.Stats.Status = stats.StatusLeastSquares
				ws.Stats.Inconsistent = true
			}
			return nil
		}
		if totalIter >= itmax {
			ws.Stats.Status = stats.StatusMaxIterations
			return nil
		}
		// Otherwise the cycle filled up without converging: restart.
	}
}

// backSubstitute solves the m x m upper-triangular system R y = z for y,
// writing y into ws.Hcol[:m] (reused as scratch; it is rebuilt from scratch
// at the start of every Arnoldi step). A diagonal entry at or below
// breakdownTol means R is (numerically) rank-deficient: the corresponding
// y[j] is set to 0 rather than divided out, and the solve is marked
// inconsistent since the least-squares system has no unique solution.
func (ws *Workspace[FC, T]) backSubstitute(m int, breakdownTol T) {
	y := ws.Hcol[:m]
	for j := m - 1; j >= 0; j-- {
		sum := ws.Z[j]
		for k := j + 1; k < m; k++ {
			sum -= ws.R[k][j] * y[k]
		}
		if rjj := ws.R[j][j]; scalar.Abs[FC, T](rjj) > breakdownTol {
			y[j] = sum / rjj
		} else {
			y[j] = scalar.Zero[FC]()
			ws.Stats.Inconsistent = true
		}
	}
}

// applyCorrection forms Δx = V[:m] * y (y left in ws.Hcol[:m] by
// backSubstitute), right-preconditions it if needed, and adds it to ws.X.
func (ws *Workspace[FC, T]) applyCorrection(N operator.LinearOperator[FC], needN bool, m int) error {
	n := ws.n
	y := ws.Hcol[:m]
	kernel.Fill(n, ws.W, scalar.Zero[FC]())
	for j := 0; j < m; j++ {
		kernel.Axpy(n, y[j], ws.V[j], ws.W)
	}
	if needN {
		if err := N.Apply(ws.P, ws.W); err != nil {
			return err
		}
		kernel.Axpy(n, scalar.One[FC](), ws.P, ws.X)
		return nil
	}
	kernel.Axpy(n, scalar.One[FC](), ws.W, ws.X)
	return nil
}
