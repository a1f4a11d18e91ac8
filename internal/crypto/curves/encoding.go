package curves

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

const (
	markerIdentity     = 0x00
	markerEven         = 0x02
	markerOdd          = 0x03
	markerUncompressed = 0x04
)

// Compress returns the 1+ByteLen byte encoding: 0x00 and zeros for the
// identity, otherwise 0x02 or 0x03 by the parity of y followed by x.
func (p *Point) Compress() []byte {
	l := p.curve.ByteLen()
	out := make([]byte, 1+l)
	if p.inf {
		return out
	}
	out[0] = markerEven | byte(p.y.Bit(0))
	p.x.FillBytes(out[1:])
	return out
}

// Uncompressed returns 0x04 || x || y. The identity is encoded as zeros.
func (p *Point) Uncompressed() []byte {
	l := p.curve.ByteLen()
	out := make([]byte, 1+2*l)
	if p.inf {
		return out
	}
	out[0] = markerUncompressed
	p.x.FillBytes(out[1 : 1+l])
	p.y.FillBytes(out[1+l:])
	return out
}

// String is the hex form of Compress.
func (p *Point) String() string {
	return hex.EncodeToString(p.Compress())
}

// ParsePoint inverts Point.String.
func (c *Curve) ParsePoint(s string) (*Point, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError("curves.ParsePoint", err.Error(), ecc.ErrInvalidEncoding)
	}
	return c.Decompress(b)
}

// Decode accepts either the compressed or the uncompressed encoding.
func (c *Curve) Decode(b []byte) (*Point, error) {
	l := c.ByteLen()
	if len(b) != 1+2*l {
		return c.Decompress(b)
	}
	if b[0] == markerIdentity {
		if !allZero(b[1:]) {
			return nil, ecc.NewError("curves.Decode", "identity with non-zero body", ecc.ErrInvalidEncoding)
		}
		return c.Identity(), nil
	}
	if b[0] != markerUncompressed {
		return nil, ecc.NewError("curves.Decode", fmt.Sprintf("marker 0x%02x", b[0]), ecc.ErrInvalidEncoding)
	}
	x := new(big.Int).SetBytes(b[1 : 1+l])
	y := new(big.Int).SetBytes(b[1+l:])
	if x.Cmp(c.p) >= 0 || y.Cmp(c.p) >= 0 {
		return nil, ecc.NewError("curves.Decode", "coordinate not reduced", ecc.ErrInvalidEncoding)
	}
	return c.nonIdentity("curves.Decode", x, y)
}

// Decompress inverts Compress.
func (c *Curve) Decompress(b []byte) (*Point, error) {
	const op = "curves.Decompress"
	l := c.ByteLen()
	if len(b) != 1+l {
		return nil, ecc.NewError(op, fmt.Sprintf("length %d, want %d", len(b), 1+l), ecc.ErrInvalidEncoding)
	}

	switch b[0] {
	case markerIdentity:
		if !allZero(b[1:]) {
			return nil, ecc.NewError(op, "identity with non-zero body", ecc.ErrInvalidEncoding)
		}
		return c.Identity(), nil
	case markerEven, markerOdd:
	default:
		return nil, ecc.NewError(op, fmt.Sprintf("marker 0x%02x", b[0]), ecc.ErrInvalidEncoding)
	}

	x := new(big.Int).SetBytes(b[1:])
	if x.Cmp(c.p) >= 0 {
		return nil, ecc.NewError(op, "x not reduced", ecc.ErrInvalidEncoding)
	}
	y2, ok := c.ySquared(x)
	if !ok {
		return nil, ecc.NewError(op, "x has no y on "+c.String(), ecc.ErrInvalidEncoding)
	}
	y, ok := c.f.Sqrt(y2)
	if !ok {
		return nil, ecc.NewError(op, "no square root", ecc.ErrInvalidEncoding)
	}

	odd := uint(b[0] & 1)
	if y.Bit(0) != odd {
		if y.Sign() == 0 {
			return nil, ecc.NewError(op, "odd marker for y = 0", ecc.ErrInvalidEncoding)
		}
		y = c.f.Neg(y)
	}
	return c.nonIdentity(op, x, y)
}

// nonIdentity builds (x, y) for the coordinate encodings. The Edwards
// neutral element has affine coordinates but only the 0x00 encoding.
func (c *Curve) nonIdentity(op string, x, y *big.Int) (*Point, error) {
	p, err := c.NewPoint(x, y)
	if err != nil {
		return nil, err
	}
	if p.IsIdentity() {
		return nil, ecc.NewError(op, "identity must use the 0x00 marker", ecc.ErrInvalidEncoding)
	}
	return p, nil
}

// ySquared solves the model equation for y^2. It reports false when the
// required division is by zero.
func (c *Curve) ySquared(x *big.Int) (*big.Int, bool) {
	f := c.f
	x2 := f.Sqr(x)
	one := big.NewInt(1)

	switch c.model {
	case ShortWeierstrass:
		// x^3 + ax + b
		return f.Add(f.Add(f.Mul(x2, x), f.Mul(c.coeff0, x)), c.coeff1), true
	case Montgomery:
		// (x^3 + Ax^2 + x)/B
		return f.Div(f.Add(f.Add(f.Mul(x2, x), f.Mul(c.coeff1, x2)), x), c.coeff0)
	case Edwards:
		// (c^2 - x^2)/(1 - c^2*d*x^2)
		c2 := f.Sqr(c.coeff0)
		return f.Div(f.Sub(c2, x2), f.Sub(one, f.Mul(c2, f.Mul(c.coeff1, x2))))
	case TwistedEdwards:
		// (1 - ax^2)/(1 - dx^2)
		return f.Div(f.Sub(one, f.Mul(c.coeff0, x2)), f.Sub(one, f.Mul(c.coeff1, x2)))
	}
	return nil, false
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
