package operator

import (
	"fmt"

	"github.com/orneryd/gokrylov/scalar"
)

// Block2x2 composes four sub-operators into the coupled/saddle-point
// system
//
//	[ A  B ] [x]   [p]
//	[ C  D ] [y] = [q]
//
// over the concatenated vector (x; y), so GMRES can be pointed at a coupled
// system without the core solver kernels knowing anything about block
// structure. Block2x2 has no ApplyAdjoint, so it is not an
// operator.Adjointer and cannot be passed to cgne. D may be nil for the
// common saddle-point shape C = B^H, D = 0.
type Block2x2[FC scalar.Field] struct {
	A, B, C, D LinearOperator[FC]

	// scratch avoids per-Apply allocation; sized lazily on first use.
	tmp1, tmp2 []FC
}

// NewBlock2x2 validates the block shapes and returns a ready operator: B's
// rows must equal A's rows, C's cols must equal A's cols, and D (if
// non-nil) must have C's rows and B's cols. Squareness of A, D or the
// whole block operator is not checked.
func NewBlock2x2[FC scalar.Field](a, b, c, d LinearOperator[FC]) (*Block2x2[FC], error) {
	am, an := a.Shape()
	bm, bn := b.Shape()
	cm, cn := c.Shape()
	if am != bm {
		return nil, fmt.Errorf("operator: block rows mismatch: A is %dx%d, B is %dx%d", am, an, bm, bn)
	}
	if cn != an {
		return nil, fmt.Errorf("operator: block cols mismatch: A is %dx%d, C is %dx%d", am, an, cm, cn)
	}
	if d != nil {
		dm, dn := d.Shape()
		if dm != cm || dn != bn {
			return nil, fmt.Errorf("operator: block D shape %dx%d incompatible with B %dx%d / C %dx%d", dm, dn, bm, bn, cm, cn)
		}
	}
	return &Block2x2[FC]{A: a, B: b, C: c, D: d}, nil
}

func (op *Block2x2[FC]) Shape() (int, int) {
	am, an := op.A.Shape()
	_, bn := op.B.Shape()
	cm, _ := op.C.Shape()
	return am + cm, an + bn
}

func (op *Block2x2[FC]) Symmetric() bool  { return false }
func (op *Block2x2[FC]) Hermitian() bool  { return false }
func (op *Block2x2[FC]) UsesDivision() bool { return false }

// Apply computes (p; q) <- (A x + B y; C x + D y) where v = (x; y).
func (op *Block2x2[FC]) Apply(out, v []FC) error {
	_, an := op.A.Shape()
	am, _ := op.A.Shape()
	cm, _ := op.C.Shape()
	x, y := v[:an], v[an:]

	if cap(op.tmp1) < am {
		op.tmp1 = make([]FC, am)
	}
	if cap(op.tmp2) < cm {
		op.tmp2 = make([]FC, cm)
	}
	p := out[:am]
	q := out[am : am+cm]
	t1 := op.tmp1[:am]
	t2 := op.tmp2[:cm]

	if err := op.A.Apply(p, x); err != nil {
		return err
	}
	if err := op.B.Apply(t1, y); err != nil {
		return err
	}
	for i := range p {
		p[i] += t1[i]
	}

	if err := op.C.Apply(q, x); err != nil {
		return err
	}
	if op.D != nil {
		if err := op.D.Apply(t2, y); err != nil {
			return err
		}
		for i := range q {
			q[i] += t2[i]
		}
	}
	return nil
}
