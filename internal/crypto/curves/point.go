package curves

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// affine is either the identity or a pair (x, y) on the curve.
type affine struct {
	inf  bool
	x, y *big.Int
}

var identity = affine{inf: true}

// Point is an element of a curve group. Points are immutable; the only
// mutable state is the fixed-base table, which is derived from the value and
// written at most once.
type Point struct {
	curve *Curve
	affine

	fb *fixedBase
}

func (c *Curve) point(a affine) *Point {
	return &Point{curve: c, affine: a, fb: &fixedBase{}}
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve {
	return p.curve
}

func (p *Point) IsIdentity() bool {
	return p.inf
}

// X returns a copy of the x coordinate, or nil for the identity.
func (p *Point) X() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the identity.
func (p *Point) Y() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal compares curve and value. The fixed-base table is ignored.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	if !p.curve.Equal(q.curve) {
		return false
	}
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

func (p *Point) sameCurve(op string, q *Point) error {
	if !p.curve.Equal(q.curve) {
		return ecc.NewError(op, p.curve.String()+" vs "+q.curve.String(), ecc.ErrCurveMismatch)
	}
	return nil
}

// Add returns p + q.
func (p *Point) Add(q *Point) (*Point, error) {
	if err := p.sameCurve("curves.Add", q); err != nil {
		return nil, err
	}
	return p.curve.point(p.curve.add(p.affine, q.affine)), nil
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) (*Point, error) {
	if err := p.sameCurve("curves.Sub", q); err != nil {
		return nil, err
	}
	return p.curve.point(p.curve.add(p.affine, p.curve.neg(q.affine))), nil
}

// Double returns 2p.
func (p *Point) Double() *Point {
	return p.curve.point(p.curve.double(p.affine))
}

// Neg returns -p.
func (p *Point) Neg() *Point {
	return p.curve.point(p.curve.neg(p.affine))
}

// ScalarMult returns k*p. A zero k yields the identity and a negative k
// yields |k|*(-p). k is not reduced mod n.
func (p *Point) ScalarMult(k *big.Int) *Point {
	if k.Sign() == 0 || p.inf {
		return p.curve.Identity()
	}
	abs := new(big.Int).Abs(k)

	var r affine
	if t := p.fb.get(); t != nil && t.covers(abs) {
		r = t.mul(p.curve, abs)
	} else {
		r = p.curve.mul(p.affine, abs)
	}

	if k.Sign() < 0 {
		r = p.curve.neg(r)
	}
	return p.curve.point(r)
}

// Precompute builds the fixed-base table for p and returns p. It is safe to
// call concurrently and more than once.
func (p *Point) Precompute() *Point {
	p.fb.once.Do(func() {
		p.fb.table.Store(newCombTable(p.curve, p.affine))
	})
	return p
}

// IsPrecomputed reports whether the fixed-base table has been built.
func (p *Point) IsPrecomputed() bool {
	return p.fb.get() != nil
}

type fixedBase struct {
	once  sync.Once
	table atomic.Pointer[combTable]
}

func (fb *fixedBase) get() *combTable {
	return fb.table.Load()
}

// group law dispatch

func (c *Curve) add(p, q affine) affine {
	switch c.model {
	case ShortWeierstrass:
		return c.addWeierstrass(p, q)
	case Edwards, TwistedEdwards:
		return c.addEdwards(p, q)
	case Montgomery:
		return c.addMontgomery(p, q)
	}
	panic("curves: unsupported model " + c.model.String())
}

func (c *Curve) double(p affine) affine {
	switch c.model {
	case ShortWeierstrass:
		return c.doubleWeierstrass(p)
	case Edwards, TwistedEdwards:
		return c.addEdwards(p, p)
	case Montgomery:
		return c.doubleMontgomery(p)
	}
	panic("curves: unsupported model " + c.model.String())
}

func (c *Curve) neg(p affine) affine {
	if p.inf {
		return identity
	}
	switch c.model {
	case Edwards, TwistedEdwards:
		return affine{x: c.f.Neg(p.x), y: new(big.Int).Set(p.y)}
	default:
		return affine{x: new(big.Int).Set(p.x), y: c.f.Neg(p.y)}
	}
}

func (c *Curve) mul(p affine, k *big.Int) affine {
	if c.model == Montgomery {
		return c.ladder(p, k)
	}
	return c.doubleAndAdd(p, k)
}

// doubleAndAdd scans k from the most significant bit.
func (c *Curve) doubleAndAdd(p affine, k *big.Int) affine {
	r := identity
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.double(r)
		if k.Bit(i) == 1 {
			r = c.add(r, p)
		}
	}
	return r
}

// normalize maps the affine neutral point of the Edwards models to the
// identity state so that identity has a single representation.
func (c *Curve) normalize(p affine) affine {
	if p.inf {
		return p
	}
	switch c.model {
	case Edwards:
		if p.x.Sign() == 0 && p.y.Cmp(c.coeff0) == 0 {
			return identity
		}
	case TwistedEdwards:
		if p.x.Sign() == 0 && p.y.Cmp(big.NewInt(1)) == 0 {
			return identity
		}
	}
	return p
}
