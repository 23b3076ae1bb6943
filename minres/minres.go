// Package minres implements MINRES (C9, supplemented): a short-recurrence
// solver for symmetric (possibly indefinite) systems Ax = b. It reuses the
// same M-orthonormal Lanczos process as package cg, but — because CG's
// coupled recursion is only valid when A is positive definite — tracks the
// solution with GMRES's incremental Givens-rotation QR of the (now
// tridiagonal, not full Hessenberg) factor instead. The tridiagonal
// structure means each new column only ever interacts with the previous
// two Givens rotations, so the whole solve runs in fixed, iteration-count-
// independent memory: three Lanczos vectors and three direction vectors,
// never a growing Krylov basis.
package minres

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
var ErrNonSquareOperator = errors.New("minres: operator must be square")

// ErrDimensionMismatch is returned when b's length does not match A's size.
var ErrDimensionMismatch = errors.New("minres: dimension mismatch between operator and right-hand side")

// Stats is stats.Common verbatim: MINRES is defined for indefinite A, so
// unlike cg it has no negative-curvature failure mode to report.
type Stats[T scalar.Real] = stats.Common[T]

// Callback is polled once per Lanczos step; returning true forces a clean,
// user-requested termination.
type Callback[FC scalar.Field, T scalar.Real] func(*Workspace[FC, T]) bool

// Options configures a MINRES solve.
type Options[FC scalar.Field, T scalar.Real] struct {
	M          operator.LinearOperator[FC] // preconditioner; nil means identity
	Atol, Rtol T
	Itmax      int // 0 means default 2n
	History    bool
	Verbose    int
	Callback   Callback[FC, T]
}

// DefaultOptions returns atol = rtol = sqrt(eps(T)).
func DefaultOptions[FC scalar.Field, T scalar.Real]() Options[FC, T] {
	eps := scalar.Sqrt(scalar.Eps[T]())
	return Options[FC, T]{Atol: eps, Rtol: eps}
}

// Workspace holds every buffer a MINRES solve reuses: x, the warm-start
// delta, the rotating Lanczos triple Mv/Mv_prev/Mv_next, the rotating
// direction triple w/w_prev/w_prev2, and (only when a preconditioner is
// set) the auxiliary Lanczos vector v.
type Workspace[FC scalar.Field, T scalar.Real] struct {
	n int

	X, Dx               []FC
	Mv, MvPrev, MvNext  []FC
	W, WPrev, WPrev2    []FC
	V                   []FC // allocated lazily, only when M != I

	WarmStart bool
	Logger    *log.Logger
	Stats     Stats[T]
}

// NewWorkspace preallocates every buffer except V.
func NewWorkspace[FC scalar.Field, T scalar.Real](n int) *Workspace[FC, T] {
	return &Workspace[FC, T]{
		n:      n,
		X:      make([]FC, n),
		Dx:     make([]FC, n),
		Mv:     make([]FC, n),
		MvPrev: make([]FC, n),
		MvNext: make([]FC, n),
		W:      make([]FC, n),
		WPrev:  make([]FC, n),
		WPrev2: make([]FC, n),
		Logger: log.New(os.Stderr, "minres: ", log.LstdFlags),
	}
}

func checkPreconditions[FC scalar.Field](A operator.LinearOperator[FC], b []FC) error {
	m, n := A.Shape()
	if m != n {
		return fmt.Errorf("%w: got %dx%d", ErrNonSquareOperator, m, n)
	}
	if len(b) != n {
		return fmt.Errorf("%w: rhs has length %d, operator has size %d", ErrDimensionMismatch, len(b), n)
	}
	return nil
}

// Solve runs a cold-start MINRES solve (x0 = 0).
func Solve[FC scalar.Field, T scalar.Real](A operator.LinearOperator[FC], b []FC, opts Options[FC, T]) (*Workspace[FC, T], error) {
	if err := checkPreconditions[FC](A, b); err != nil {
		return nil, err
	}
	_, n := A.Shape()
	ws := NewWorkspace[FC, T](n)
	err := ws.SolveInPlace(A, b, opts)
	return ws, err
}

// SolveWarmStart runs MINRES starting from x0.
func SolveWarmStart[FC scalar.Field, T scalar.Real](A operator.LinearOperator[FC], b, x0 []FC, opts Options[FC, T]) (*Workspace[FC, T], error) {
	if err := checkPreconditions[FC](A, b); err != nil {
		return nil, err
	}
	_, n := A.Shape()
	if len(x0) != n {
		return nil, fmt.Errorf("%w: x0 has length %d, operator has size %d", ErrDimensionMismatch, len(x0), n)
	}
	ws := NewWorkspace[FC, T](n)
	ws.WarmStart = true
	kernel.Copy(n, ws.Dx, x0)
	err := ws.SolveInPlace(A, b, opts)
	return ws, err
}

// SolveInPlace reuses ws across arbitrarily many solves.
func (ws *Workspace[FC, T]) SolveInPlace(A operator.LinearOperator[FC], b []FC, opts Options[FC, T]) error {
	if err := checkPreconditions[FC](A, b); err != nil {
		return err
	}
	n := ws.n

	M := opts.M
	if M == nil {
		M = operator.Identity[FC]{N: n}
	}
	needM := !operator.IsIdentity[FC](M)
	if needM && ws.V == nil {
		ws.V = make([]FC, n)
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

	ws.Stats = Stats[T]{}

	// r0 = b - A*x0.
	if ws.WarmStart {
		if err := A.Apply(ws.W, ws.Dx); err != nil {
			return fmt.Errorf("minres: applying operator to warm-start guess: %w", err)
		}
		for i := 0; i < n; i++ {
			ws.Mv[i] = b[i] - ws.W[i]
		}
	} else {
		kernel.Copy(n, ws.Mv, b)
	}
	kernel.Fill(n, ws.X, scalar.Zero[FC]())
	kernel.Fill(n, ws.W, scalar.Zero[FC]())
	kernel.Fill(n, ws.WPrev, scalar.Zero[FC]())

	var beta1 T
	if needM {
		if err := M.Apply(ws.V, ws.Mv); err != nil {
			return fmt.Errorf("minres: applying preconditioner: %w", err)
		}
		beta1 = scalar.Sqrt(kernel.Dotr[FC, T](n, ws.V, ws.Mv))
	} else {
		beta1 = kernel.Nrm2[FC, T](n, ws.Mv)
	}

	if beta1+1 <= 1 {
		ws.Stats.Status = stats.StatusZeroResidual
		ws.Stats.Solved = true
		return ws.finalize(n)
	}

	invBeta1 := scalar.FromReal[FC, T](1 / beta1)
	kernel.Scal(n, invBeta1, ws.Mv)
	if needM {
		kernel.Scal(n, invBeta1, ws.V)
	}

	r0M := beta1
	zetaBar := scalar.FromReal[FC, T](beta1)
	cKm2, sKm2 := T(1), scalar.Zero[FC]()
	cKm1, sKm1 := T(-1), scalar.Zero[FC]() // c = -1 leaves the first column's alpha_1 unflipped
	beta := T(0) // beta_k, the row k-1 raw entry of the tridiagonal column; 0 for k=1

	niter := 0
	for niter < itmax {
		niter++

		vk := ws.Mv
		if needM {
			vk = ws.V
		}
		if err := A.Apply(ws.MvNext, vk); err != nil {
			return fmt.Errorf("minres: applying operator: %w", err)
		}
		alpha := kernel.Dotr[FC, T](n, vk, ws.MvNext)

		u := ws.MvNext
		kernel.Axpy(n, -scalar.FromReal[FC, T](alpha), ws.Mv, u)
		kernel.Axpy(n, -scalar.FromReal[FC, T](beta), ws.MvPrev, u)

		// With a preconditioner, M*u goes into MvPrev (no longer needed) so
		// that V still holds v_k for the direction update below.
		var betaNext T
		if needM {
			if err := M.Apply(ws.MvPrev, u); err != nil {
				return fmt.Errorf("minres: applying preconditioner: %w", err)
			}
			betaNext = scalar.Sqrt(kernel.Dotr[FC, T](n, ws.MvPrev, u))
		} else {
			betaNext = kernel.Nrm2[FC, T](n, u)
		}

		// Apply the two previous rotations to this column's raw entries
		// (0, beta, alpha); row k-2 is finalized immediately (second
		// superdiagonal), row k-1 carries forward into this step's new
		// rotation against beta_{k+1}.
		betaFC := scalar.FromReal[FC, T](beta)
		alphaFC := scalar.FromReal[FC, T](alpha)
		rKm2k := scalar.Conj(sKm2) * betaFC
		carry := -scalar.FromReal[FC, T](cKm2) * betaFC
		rKm1k := scalar.FromReal[FC, T](cKm1)*carry + scalar.Conj(sKm1)*alphaFC
		gammaTmp := sKm1*carry - scalar.FromReal[FC, T](cKm1)*alphaFC

		c, s, rkk := givens.SymGivens[FC, T](gammaTmp, scalar.FromReal[FC, T](betaNext))

		zetaK := scalar.FromReal[FC, T](c) * zetaBar
		zetaBarNext := s * zetaBar

		// w_k = (v_k - rKm2k*w_{k-2} - rKm1k*w_{k-1}) / rkk, written into the
		// oldest direction buffer before the triple rotates into place.
		if scalar.Abs[FC, T](rkk) > 0 {
			invRkk := scalar.One[FC]() / rkk
			for i := 0; i < n; i++ {
				ws.WPrev2[i] = (vk[i] - rKm2k*ws.WPrev[i] - rKm1k*ws.W[i]) * invRkk
			}
		} else {
			kernel.Fill(n, ws.WPrev2, scalar.Zero[FC]())
		}
		ws.WPrev2, ws.WPrev, ws.W = ws.WPrev, ws.W, ws.WPrev2

		kernel.Axpy(n, zetaK, ws.W, ws.X)

		rNorm := scalar.Abs[FC, T](zetaBarNext)
		ws.Stats.Record(opts.History, rNorm)

		if opts.Verbose > 0 && niter%opts.Verbose == 0 {
			ws.Logger.Printf("iter %d residual %v", niter, rNorm)
		}

		solved := stats.Converged(rNorm, r0M, atol, rtol)
		if solved {
			ws.Stats.Solved = true
			ws.Stats.Status = stats.StatusSolved
		}
		userExit := opts.Callback != nil && opts.Callback(ws)
		if userExit {
			ws.Stats.Status = stats.StatusUserRequestedExit
		}

		breakdown := betaNext+1 <= 1
		if solved || userExit {
			ws.Stats.Niter = niter
			return ws.finalize(n)
		}
		if breakdown {
			if !solved {
				ws.Stats.Status = stats.StatusSolved // exact solution reached within the Krylov space
				ws.Stats.Solved = true
			}
			ws.Stats.Niter = niter
			return ws.finalize(n)
		}

		invBetaNext := scalar.FromReal[FC, T](1 / betaNext)
		kernel.Scal(n, invBetaNext, u)
		if needM {
			kernel.Scal(n, invBetaNext, ws.MvPrev)
			ws.V, ws.MvPrev = ws.MvPrev, ws.V // V now holds v_{k+1}
		}

		cKm2, sKm2 = cKm1, sKm1
		cKm1, sKm1 = c, s
		beta = betaNext
		zetaBar = zetaBarNext
		ws.MvPrev, ws.Mv, ws.MvNext = ws.Mv, ws.MvNext, ws.MvPrev
	}

	ws.Stats.Status = stats.StatusMaxIterations
	ws.Stats.Solved = false
	ws.Stats.Niter = niter
	return ws.finalize(n)
}

func (ws *Workspace[FC, T]) finalize(n int) error {
	if ws.WarmStart {
		kernel.Axpy(n, scalar.One[FC](), ws.Dx, ws.X)
	}
	return nil
}
