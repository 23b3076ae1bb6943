// Package cg implements CG-Lanczos (C7): a short-recurrence solver for
// Hermitian systems Ax = b built on the M-orthonormal Lanczos process, with
// an optional curvature monitor that detects non-positive-definite
// directions.
package cg

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/orneryd/gokrylov/kernel"
	"github.com/orneryd/gokrylov/operator"
	"github.com/orneryd/gokrylov/scalar"
	"github.com/orneryd/gokrylov/stats"
)

// ErrNonSquareOperator is returned when A is not square.
var ErrNonSquareOperator = errors.New("cg: operator must be square")

// ErrDimensionMismatch is returned when b's length does not match A's size.
var ErrDimensionMismatch = errors.New("cg: dimension mismatch between operator and right-hand side")

// Stats extends stats.Common with CG-Lanczos's operator-norm estimate and
// indefiniteness flag.
type Stats[T scalar.Real] struct {
	stats.Common[T]
	Anorm      T
	Indefinite bool
}

// Callback is polled once per inner iteration; returning true forces a
// clean, user-requested termination.
type Callback[FC scalar.Field, T scalar.Real] func(*Workspace[FC, T]) bool

// Options configures a CG-Lanczos solve. The zero value is usable: when
// Atol and Rtol are both 0 the DefaultOptions tolerances apply, and Itmax 0
// means 2n.
type Options[FC scalar.Field, T scalar.Real] struct {
	M              operator.LinearOperator[FC] // left/right preconditioner; nil means identity
	Atol, Rtol     T
	Itmax          int // 0 means default 2n
	CheckCurvature bool
	History        bool
	Verbose        int // 0 disables logging; N logs every N iterations
	Callback       Callback[FC, T]
}

// DefaultOptions returns atol = rtol = sqrt(eps(T)), matching every other
// default in the library.
func DefaultOptions[FC scalar.Field, T scalar.Real]() Options[FC, T] {
	eps := scalar.Sqrt(scalar.Eps[T]())
	return Options[FC, T]{Atol: eps, Rtol: eps}
}

// Workspace holds every vector and scalar a CG-Lanczos solve reuses across
// calls: x, the warm-start delta, the rotating Lanczos triple Mv/Mv_prev/
// Mv_next, the CG direction p, and (only when a preconditioner is set) the
// auxiliary Lanczos vector v.
type Workspace[FC scalar.Field, T scalar.Real] struct {
	n int

	X, Dx              []FC
	Mv, MvPrev, MvNext []FC
	P                  []FC
	V                  []FC // allocated lazily, only when M != I

	WarmStart bool
	Logger    *log.Logger
	Stats     Stats[T]
}

// NewWorkspace preallocates every buffer except V, which is created lazily
// on first use with a non-identity preconditioner.
func NewWorkspace[FC scalar.Field, T scalar.Real](n int) *Workspace[FC, T] {
	return &Workspace[FC, T]{
		n:      n,
		X:      make([]FC, n),
		Dx:     make([]FC, n),
		Mv:     make([]FC, n),
		MvPrev: make([]FC, n),
		MvNext: make([]FC, n),
		P:      make([]FC, n),
		Logger: log.New(os.Stderr, "cg: ", log.LstdFlags),
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

// Solve runs a cold-start CG-Lanczos solve (x0 = 0) and returns a fresh
// workspace holding the solution and stats.
func Solve[FC scalar.Field, T scalar.Real](A operator.LinearOperator[FC], b []FC, opts Options[FC, T]) (*Workspace[FC, T], error) {
	if err := checkPreconditions[FC](A, b); err != nil {
		return nil, err
	}
	_, n := A.Shape()
	ws := NewWorkspace[FC, T](n)
	err := ws.SolveInPlace(A, b, opts)
	return ws, err
}

// SolveWarmStart runs CG-Lanczos starting from x0: x0 is stored into the
// workspace's delta buffer, the solver solves for the correction, and the
// returned workspace's X holds x0 + correction.
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

// SolveInPlace reuses ws across arbitrarily many solves. When ws.WarmStart
// was set by a prior SolveWarmStart call and the caller wants a cold solve
// next, reset ws.WarmStart to false and ws.Dx to zero first.
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

	// r0 = b - A*x0 (x0 = 0 for a cold solve; stored in ws.Dx for warm).
	if ws.WarmStart {
		if err := A.Apply(ws.P, ws.Dx); err != nil {
			return fmt.Errorf("cg: applying operator to warm-start guess: %w", err)
		}
		for i := 0; i < n; i++ {
			ws.Mv[i] = b[i] - ws.P[i]
		}
	} else {
		kernel.Copy(n, ws.Mv, b)
	}
	kernel.Fill(n, ws.X, scalar.Zero[FC]())
	kernel.Fill(n, ws.MvPrev, scalar.Zero[FC]()) // Mv_0 = 0; may hold a vector from a previous solve

	var beta1 T
	if needM {
		if err := M.Apply(ws.V, ws.Mv); err != nil {
			return fmt.Errorf("cg: applying preconditioner: %w", err)
		}
		beta1 = scalar.Sqrt(kernel.Dotr[FC, T](n, ws.V, ws.Mv))
	} else {
		beta1 = kernel.Nrm2[FC, T](n, ws.Mv)
	}

	if beta1+1 <= 1 {
		ws.Stats.Status = stats.StatusZeroResidual
		ws.Stats.Solved = true
		ws.Stats.Record(opts.History, beta1)
		return ws.finalize(n)
	}

	// p_1 = sigma_1 v_1 = beta1 v_1: copied before v_1 is normalized.
	if needM {
		kernel.Copy(n, ws.P, ws.V)
	} else {
		kernel.Copy(n, ws.P, ws.Mv)
	}
	invBeta1 := scalar.FromReal[FC, T](1 / beta1)
	kernel.Scal(n, invBeta1, ws.Mv)
	if needM {
		kernel.Scal(n, invBeta1, ws.V)
	}

	r0M := beta1
	sigma := beta1
	ws.Stats.Record(opts.History, beta1)

	gammaPrev, omegaPrev := T(1), T(0)
	betaPrev, beta := T(0), beta1
	anorm2 := T(0)

	niter := 0
	for niter < itmax {
		niter++

		vk := ws.Mv
		if needM {
			vk = ws.V
		}
		if err := A.Apply(ws.MvNext, vk); err != nil {
			return fmt.Errorf("cg: applying operator: %w", err)
		}
		delta := kernel.Dotr[FC, T](n, vk, ws.MvNext)
		anorm2 += betaPrev*betaPrev + beta*beta + delta*delta

		denom := delta - omegaPrev/gammaPrev
		if denom <= 0 && opts.CheckCurvature {
			ws.Stats.Indefinite = true
			ws.Stats.Status = stats.StatusNegativeCurvature
			ws.Stats.Niter = niter
			ws.Stats.Anorm = scalar.Sqrt(anorm2)
			return ws.finalize(n)
		}
		gamma := 1 / denom

		kernel.Axpy(n, scalar.FromReal[FC, T](gamma), ws.P, ws.X)

		// u = A v_k - delta*Mv_k - beta*Mv_prev, built in place in MvNext.
		u := ws.MvNext
		kernel.Axpy(n, -scalar.FromReal[FC, T](delta), ws.Mv, u)
		kernel.Axpy(n, -scalar.FromReal[FC, T](beta), ws.MvPrev, u)

		var betaNext T
		if needM {
			if err := M.Apply(ws.V, u); err != nil {
				return fmt.Errorf("cg: applying preconditioner: %w", err)
			}
			betaNext = scalar.Sqrt(kernel.Dotr[FC, T](n, ws.V, u))
		} else {
			betaNext = kernel.Nrm2[FC, T](n, u)
		}

		sigmaNext := -betaNext * gamma * sigma
		omega := (betaNext * gamma) * (betaNext * gamma)

		if betaNext+1 <= 1 {
			// Lucky breakdown: the Krylov subspace already contains the
			// exact solution.
			ws.Stats.Solved = true
			ws.Stats.Status = stats.StatusSolved
			ws.Stats.Niter = niter
			ws.Stats.Anorm = scalar.Sqrt(anorm2)
			ws.Stats.Record(opts.History, scalar.Abs[T, T](sigmaNext))
			return ws.finalize(n)
		}

		invBetaNext := scalar.FromReal[FC, T](1 / betaNext)
		kernel.Scal(n, invBetaNext, u) // u now holds Mv_{k+1}
		if needM {
			kernel.Scal(n, invBetaNext, ws.V) // V now holds v_{k+1}
		}

		vNext := u
		if needM {
			vNext = ws.V
		}
		kernel.Axpby(n, scalar.FromReal[FC, T](sigmaNext), vNext, scalar.FromReal[FC, T](omega), ws.P)

		rNorm := scalar.Abs[T, T](sigmaNext)
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

		if solved || userExit {
			ws.Stats.Niter = niter
			ws.Stats.Anorm = scalar.Sqrt(anorm2)
			return ws.finalize(n)
		}

		betaPrev, beta = beta, betaNext
		sigma = sigmaNext
		gammaPrev, omegaPrev = gamma, omega
		ws.MvPrev, ws.Mv, ws.MvNext = ws.Mv, ws.MvNext, ws.MvPrev
	}

	ws.Stats.Status = stats.StatusMaxIterations
	ws.Stats.Solved = false
	ws.Stats.Niter = niter
	ws.Stats.Anorm = scalar.Sqrt(anorm2)
	return ws.finalize(n)
}

func (ws *Workspace[FC, T]) finalize(n int) error {
	if ws.WarmStart {
		kernel.Axpy(n, scalar.One[FC](), ws.Dx, ws.X)
	}
	return nil
}
