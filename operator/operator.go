// Package operator defines the polymorphic linear-operator contract every
// solver is written against: shape, an apply method, and optional adjoint
// and transpose applications, plus a flag distinguishing multiplicative
// preconditioners from ones that act by left-division.
//
// A LinearOperator is supplied by the caller and never owned or mutated by
// a solver: lifetime and storage (dense, sparse, device-resident,
// callable-backed) are entirely the operator implementation's concern.
package operator

import "github.com/orneryd/gokrylov/scalar"

// LinearOperator is the contract every solver (cg, gmres, cgne, minres)
// is written against. Dimensions are rows m (output length) by cols n
// (input length); for square-system methods the caller must pass an
// operator with m == n.
type LinearOperator[FC scalar.Field] interface {
	// Shape returns (rows, cols).
	Shape() (m, n int)

	// Symmetric reports whether the operator is symmetric (real FC) —
	// solvers that require it trust this flag; violating it is undefined
	// numerical behaviour, never memory unsafety.
	Symmetric() bool

	// Hermitian reports whether the operator is Hermitian (complex FC).
	// Hermitian implies Symmetric for real FC and implies m == n.
	Hermitian() bool

	// UsesDivision reports whether Apply models y <- Op^-1 v via a solve
	// (true) rather than a direct multiplication (false). Preconditioners
	// built from a factorization typically set this true.
	UsesDivision() bool

	// Apply computes y <- Op*v (or y <- Op^-1*v when UsesDivision is
	// true). len(v) must equal n, len(y) must equal m.
	Apply(y, v []FC) error
}

// Adjointer is implemented by operators that can additionally apply their
// Hermitian adjoint: y <- Op^H v.
type Adjointer[FC scalar.Field] interface {
	LinearOperator[FC]
	ApplyAdjoint(y, v []FC) error
}

// Transposer is implemented by operators that can additionally apply their
// transpose (ignoring conjugation): y <- Op^T v.
type Transposer[FC scalar.Field] interface {
	LinearOperator[FC]
	ApplyTranspose(y, v []FC) error
}

// Identity is the multiplicative identity operator of size n, used as the
// default preconditioner everywhere M or N is not supplied.
type Identity[FC scalar.Field] struct {
	N int
}

func (id Identity[FC]) Shape() (int, int)  { return id.N, id.N }
func (id Identity[FC]) Symmetric() bool    { return true }
func (id Identity[FC]) Hermitian() bool    { return true }
func (id Identity[FC]) UsesDivision() bool { return false }

func (id Identity[FC]) Apply(y, v []FC) error {
	copy(y[:id.N], v[:id.N])
	return nil
}

func (id Identity[FC]) ApplyAdjoint(y, v []FC) error   { return id.Apply(y, v) }
func (id Identity[FC]) ApplyTranspose(y, v []FC) error { return id.Apply(y, v) }

// IsIdentity reports whether op is the Identity sentinel, the test solvers
// use to decide whether a preconditioner stage can be skipped/aliased
// entirely rather than executed as a real multiplication.
func IsIdentity[FC scalar.Field](op LinearOperator[FC]) bool {
	_, ok := op.(Identity[FC])
	return ok
}

// Func adapts a plain callable into a LinearOperator, the idiomatic way to
// wrap a matrix-free operator (e.g. an FFT-based multiply) without writing
// a named type, mirroring the functional-operator style used throughout
// the retrieval pack's own Krylov-adjacent code.
type Func[FC scalar.Field] struct {
	M, N            int
	Sym, Herm, Ldiv bool
	ApplyFn         func(y, v []FC) error
	AdjointFn       func(y, v []FC) error
	TransposeFn     func(y, v []FC) error
}

func (f Func[FC]) Shape() (int, int)  { return f.M, f.N }
func (f Func[FC]) Symmetric() bool    { return f.Sym }
func (f Func[FC]) Hermitian() bool    { return f.Herm }
func (f Func[FC]) UsesDivision() bool { return f.Ldiv }

func (f Func[FC]) Apply(y, v []FC) error { return f.ApplyFn(y, v) }

func (f Func[FC]) ApplyAdjoint(y, v []FC) error {
	if f.AdjointFn == nil {
		return f.ApplyFn(y, v)
	}
	return f.AdjointFn(y, v)
}

func (f Func[FC]) ApplyTranspose(y, v []FC) error {
	if f.TransposeFn == nil {
		return f.ApplyFn(y, v)
	}
	return f.TransposeFn(y, v)
}
