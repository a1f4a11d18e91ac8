// Package curves implements elliptic curve groups over prime fields in four
// models: short Weierstrass, Edwards, Montgomery and twisted Edwards.
package curves

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/smallyu/go-ecc/internal/crypto/field"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Curve describes one curve. Coefficients are interpreted per model:
//
//	ShortWeierstrass  y^2 = x^3 + a*x + b            (coeff0=a, coeff1=b)
//	Edwards           x^2 + y^2 = c^2(1 + d*x^2*y^2) (coeff0=c, coeff1=d)
//	Montgomery        B*y^2 = x^3 + A*x^2 + x        (coeff0=B, coeff1=A)
//	TwistedEdwards    a*x^2 + y^2 = 1 + d*x^2*y^2    (coeff0=a, coeff1=d)
//
// A Curve is immutable once constructed.
type Curve struct {
	name   string
	model  Model
	p      *big.Int
	coeff0 *big.Int
	coeff1 *big.Int
	n      *big.Int
	h      *big.Int
	gx, gy *big.Int
	bits   int

	f *field.Field

	// Montgomery ladder constant (A+2)/4
	a24 *big.Int

	baseOnce sync.Once
	basePt   *Point
}

// NewShortWeierstrass builds y^2 = x^3 + ax + b.
func NewShortWeierstrass(p, a, b, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	return newCurve("", ShortWeierstrass, p, a, b, n, h, gx, gy, bits)
}

// NewEdwards builds x^2 + y^2 = c^2(1 + dx^2y^2).
func NewEdwards(p, c, d, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	return newCurve("", Edwards, p, c, d, n, h, gx, gy, bits)
}

// NewMontgomery builds By^2 = x^3 + Ax^2 + x. Note the (B, A) order.
func NewMontgomery(p, B, A, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	return newCurve("", Montgomery, p, B, A, n, h, gx, gy, bits)
}

// NewTwistedEdwards builds ax^2 + y^2 = 1 + dx^2y^2.
func NewTwistedEdwards(p, a, d, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	return newCurve("", TwistedEdwards, p, a, d, n, h, gx, gy, bits)
}

// New builds a curve of the given model from explicit parameters.
func New(model Model, p, coeff0, coeff1, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	return newCurve("", model, p, coeff0, coeff1, n, h, gx, gy, bits)
}

func newCurve(name string, model Model, p, coeff0, coeff1, n, h, gx, gy *big.Int, bits int) (*Curve, error) {
	if !model.Valid() {
		return nil, fmt.Errorf("curves: unsupported model %d", int(model))
	}
	if p == nil || coeff0 == nil || coeff1 == nil || n == nil || h == nil || gx == nil || gy == nil {
		return nil, fmt.Errorf("curves: missing curve parameter")
	}
	if p.Cmp(big.NewInt(3)) < 0 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("curves: modulus must be an odd prime")
	}
	if n.Sign() <= 0 || h.Sign() <= 0 || bits <= 0 {
		return nil, fmt.Errorf("curves: order, cofactor and bit size must be positive")
	}

	f := field.NewField(p)
	c := &Curve{
		name:   name,
		model:  model,
		p:      new(big.Int).Set(p),
		coeff0: f.Reduce(coeff0),
		coeff1: f.Reduce(coeff1),
		n:      new(big.Int).Set(n),
		h:      new(big.Int).Set(h),
		gx:     f.Reduce(gx),
		gy:     f.Reduce(gy),
		bits:   bits,
		f:      f,
	}

	if model == Montgomery {
		if c.coeff0.Sign() == 0 {
			return nil, fmt.Errorf("curves: montgomery coefficient B must be non-zero")
		}
		inv4, _ := f.Inv(big.NewInt(4))
		c.a24 = f.Mul(f.Add(c.coeff1, big.NewInt(2)), inv4)
	}

	if !c.IsOnCurve(c.gx, c.gy) {
		return nil, ecc.NewError("curves.New", "generator fails the curve equation", ecc.ErrPointNotOnCurve)
	}
	return c, nil
}

// IsOnCurve evaluates the model equation for the pair (x, y) mod p.
func (c *Curve) IsOnCurve(x, y *big.Int) bool {
	if x == nil || y == nil {
		return false
	}
	f := c.f
	x = f.Reduce(x)
	y = f.Reduce(y)
	x2 := f.Sqr(x)
	y2 := f.Sqr(y)

	var lhs, rhs *big.Int
	switch c.model {
	case ShortWeierstrass:
		// y^2 = x^3 + ax + b
		lhs = y2
		rhs = f.Add(f.Add(f.Mul(x2, x), f.Mul(c.coeff0, x)), c.coeff1)
	case Edwards:
		// x^2 + y^2 = c^2(1 + dx^2y^2)
		lhs = f.Add(x2, y2)
		rhs = f.Mul(f.Sqr(c.coeff0), f.Add(big.NewInt(1), f.Mul(c.coeff1, f.Mul(x2, y2))))
	case Montgomery:
		// By^2 = x^3 + Ax^2 + x
		lhs = f.Mul(c.coeff0, y2)
		rhs = f.Add(f.Add(f.Mul(x2, x), f.Mul(c.coeff1, x2)), x)
	case TwistedEdwards:
		// ax^2 + y^2 = 1 + dx^2y^2
		lhs = f.Add(f.Mul(c.coeff0, x2), y2)
		rhs = f.Add(big.NewInt(1), f.Mul(c.coeff1, f.Mul(x2, y2)))
	default:
		return false
	}
	return lhs.Cmp(rhs) == 0
}

// Equal reports whether both curves have the same model and parameters.
// Names are labels only and are not compared.
func (c *Curve) Equal(o *Curve) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	return c.model == o.model &&
		c.bits == o.bits &&
		c.p.Cmp(o.p) == 0 &&
		c.coeff0.Cmp(o.coeff0) == 0 &&
		c.coeff1.Cmp(o.coeff1) == 0 &&
		c.n.Cmp(o.n) == 0 &&
		c.h.Cmp(o.h) == 0 &&
		c.gx.Cmp(o.gx) == 0 &&
		c.gy.Cmp(o.gy) == 0
}

func (c *Curve) String() string {
	if c.name != "" {
		return c.name
	}
	return fmt.Sprintf("%s/%d", c.model, c.bits)
}

func (c *Curve) Name() string        { return c.name }
func (c *Curve) Model() Model        { return c.model }
func (c *Curve) P() *big.Int         { return new(big.Int).Set(c.p) }
func (c *Curve) Coeff0() *big.Int    { return new(big.Int).Set(c.coeff0) }
func (c *Curve) Coeff1() *big.Int    { return new(big.Int).Set(c.coeff1) }
func (c *Curve) N() *big.Int         { return new(big.Int).Set(c.n) }
func (c *Curve) H() *big.Int         { return new(big.Int).Set(c.h) }
func (c *Curve) Gx() *big.Int        { return new(big.Int).Set(c.gx) }
func (c *Curve) Gy() *big.Int        { return new(big.Int).Set(c.gy) }
func (c *Curve) Bits() int           { return c.bits }
func (c *Curve) Field() *field.Field { return c.f }

// ByteLen is the width in bytes of one encoded coordinate.
func (c *Curve) ByteLen() int {
	return (c.p.BitLen() + 7) / 8
}

// OrderByteLen is the width in bytes of one encoded scalar mod n.
func (c *Curve) OrderByteLen() int {
	return (c.n.BitLen() + 7) / 8
}

// Identity returns the neutral element.
func (c *Curve) Identity() *Point {
	return c.point(identity)
}

// Generator returns G. The value is shared by every caller and carries a
// fixed-base table that is built on first use.
func (c *Curve) Generator() *Point {
	c.baseOnce.Do(func() {
		c.basePt = c.point(affine{x: c.Gx(), y: c.Gy()}).Precompute()
	})
	return c.basePt
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *big.Int) *Point {
	return c.Generator().ScalarMult(k)
}

// NewPoint validates (x, y) against the curve equation.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if !c.IsOnCurve(x, y) {
		return nil, ecc.NewError("curves.NewPoint", fmt.Sprintf("(%s, %s) on %s", x.Text(16), y.Text(16), c), ecc.ErrPointNotOnCurve)
	}
	return c.point(c.normalize(affine{x: c.f.Reduce(x), y: c.f.Reduce(y)})), nil
}

// RandomScalar samples uniformly from [1,n).
func (c *Curve) RandomScalar() (*big.Int, error) {
	max := new(big.Int).Sub(c.n, big.NewInt(1))
	k, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}

// RandomPoint returns k*G for k sampled uniformly from [0,n).
func (c *Curve) RandomPoint() (*Point, error) {
	k, err := rand.Int(rand.Reader, c.n)
	if err != nil {
		return nil, err
	}
	return c.ScalarBaseMult(k), nil
}
