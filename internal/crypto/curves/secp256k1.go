package curves

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// IsSecp256k1 reports whether c has the secp256k1 parameters, whatever its
// name.
func (c *Curve) IsSecp256k1() bool {
	params := secp256k1.S256().Params()
	return c.model == ShortWeierstrass &&
		c.p.Cmp(params.P) == 0 &&
		c.coeff0.Sign() == 0 &&
		c.coeff1.Cmp(params.B) == 0 &&
		c.n.Cmp(params.N) == 0 &&
		c.gx.Cmp(params.Gx) == 0 &&
		c.gy.Cmp(params.Gy) == 0
}

// ToSecp256k1 converts p into a decred public key.
func (p *Point) ToSecp256k1() (*secp256k1.PublicKey, error) {
	const op = "curves.ToSecp256k1"
	if !p.curve.IsSecp256k1() {
		return nil, ecc.NewError(op, p.curve.String(), ecc.ErrCurveMismatch)
	}
	if p.inf {
		return nil, ecc.NewError(op, "identity has no public key form", ecc.ErrInvalidEncoding)
	}
	return secp256k1.ParsePubKey(p.Compress())
}

// FromSecp256k1 converts a decred public key into a point on the registered
// secp256k1 curve.
func FromSecp256k1(pk *secp256k1.PublicKey) (*Point, error) {
	c, err := ByName("secp256k1")
	if err != nil {
		return nil, err
	}
	return c.Decompress(pk.SerializeCompressed())
}
