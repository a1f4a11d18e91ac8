package curves

import (
	"math/big"

	"filippo.io/edwards25519"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// namedCurve reports whether c carries the parameters of the registered
// curve called name.
func namedCurve(c *Curve, name string) bool {
	ref, err := ByName(name)
	return err == nil && c.Equal(ref)
}

// reverse returns a little-endian copy of a big-endian buffer and vice versa.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

// ToEdwards25519 converts a point of the Ed25519 curve into its
// filippo.io/edwards25519 form via the RFC 8032 encoding.
func (p *Point) ToEdwards25519() (*edwards25519.Point, error) {
	const op = "curves.ToEdwards25519"
	if !namedCurve(p.curve, "Ed25519") {
		return nil, ecc.NewError(op, p.curve.String(), ecc.ErrCurveMismatch)
	}
	if p.inf {
		return edwards25519.NewIdentityPoint(), nil
	}

	var be [32]byte
	p.y.FillBytes(be[:])
	b := reverse(be[:])
	b[31] |= byte(p.x.Bit(0)) << 7

	q, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, ecc.NewError(op, err.Error(), ecc.ErrInvalidEncoding)
	}
	return q, nil
}

// FromEdwards25519 decodes an edwards25519 point onto the registered Ed25519
// curve.
func FromEdwards25519(q *edwards25519.Point) (*Point, error) {
	const op = "curves.FromEdwards25519"
	c, err := ByName("Ed25519")
	if err != nil {
		return nil, err
	}

	b := q.Bytes()
	sign := uint(b[31] >> 7)
	b[31] &= 0x7f
	y := new(big.Int).SetBytes(reverse(b))
	if y.Cmp(c.p) >= 0 {
		return nil, ecc.NewError(op, "y not reduced", ecc.ErrInvalidEncoding)
	}

	// x^2 = (1 - y^2)/(a - d*y^2)
	f := c.f
	y2 := f.Sqr(y)
	x2, ok := f.Div(f.Sub(big.NewInt(1), y2), f.Sub(c.coeff0, f.Mul(c.coeff1, y2)))
	if !ok {
		return nil, ecc.NewError(op, "degenerate y", ecc.ErrInvalidEncoding)
	}
	x, ok := f.Sqrt(x2)
	if !ok {
		return nil, ecc.NewError(op, "no square root", ecc.ErrInvalidEncoding)
	}
	if x.Bit(0) != sign {
		if x.Sign() == 0 {
			return nil, ecc.NewError(op, "negative zero", ecc.ErrInvalidEncoding)
		}
		x = f.Neg(x)
	}
	return c.NewPoint(x, y)
}
