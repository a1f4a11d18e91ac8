// Package elgamal implements EC-ElGamal encryption of curve points.
package elgamal

import (
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Ciphertext is the pair (C, D) = (k*G, M + k*Q).
type Ciphertext struct {
	c, d *curves.Point
}

// NewCiphertext assembles a ciphertext from its two points.
func NewCiphertext(c, d *curves.Point) (*Ciphertext, error) {
	if !c.Curve().Equal(d.Curve()) {
		return nil, ecc.NewError("elgamal.NewCiphertext", c.Curve().String()+" vs "+d.Curve().String(), ecc.ErrCurveMismatch)
	}
	return &Ciphertext{c: c, d: d}, nil
}

// Encrypt encrypts the point m to the public key pub.
func Encrypt(pub, m *curves.Point) (*Ciphertext, error) {
	curve := pub.Curve()
	if !curve.Equal(m.Curve()) {
		return nil, ecc.NewError("elgamal.Encrypt", curve.String()+" vs "+m.Curve().String(), ecc.ErrCurveMismatch)
	}
	k, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	d, err := m.Add(pub.ScalarMult(k))
	if err != nil {
		return nil, err
	}
	return &Ciphertext{c: curve.ScalarBaseMult(k), d: d}, nil
}

// Decrypt returns D - priv*C. A wrong key yields an unrelated point, never
// an error.
func (ct *Ciphertext) Decrypt(priv *big.Int) *curves.Point {
	m, _ := ct.d.Sub(ct.c.ScalarMult(priv))
	return m
}

func (ct *Ciphertext) C() *curves.Point { return ct.c }
func (ct *Ciphertext) D() *curves.Point { return ct.d }

// Curve returns the curve both points live on.
func (ct *Ciphertext) Curve() *curves.Curve { return ct.c.Curve() }

func (ct *Ciphertext) Equal(o *Ciphertext) bool {
	if ct == nil || o == nil {
		return ct == o
	}
	return ct.c.Equal(o.c) && ct.d.Equal(o.d)
}
