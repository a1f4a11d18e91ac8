package curves

import (
	"math/big"

	"github.com/cloudflare/circl/dh/x25519"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// ToX25519 returns the little-endian u-coordinate of a Curve25519 point.
// X25519 keys carry no sign, so p and -p map to the same key.
func (p *Point) ToX25519() (*x25519.Key, error) {
	const op = "curves.ToX25519"
	if !namedCurve(p.curve, "Curve25519") {
		return nil, ecc.NewError(op, p.curve.String(), ecc.ErrCurveMismatch)
	}
	if p.inf {
		return nil, ecc.NewError(op, "identity has no u-coordinate", ecc.ErrInvalidEncoding)
	}
	var be [x25519.Size]byte
	p.x.FillBytes(be[:])

	var k x25519.Key
	copy(k[:], reverse(be[:]))
	return &k, nil
}

// FromX25519 lifts an X25519 key to the Curve25519 point with that
// u-coordinate and an even y. The top bit is masked as in RFC 7748.
func FromX25519(k *x25519.Key) (*Point, error) {
	c, err := ByName("Curve25519")
	if err != nil {
		return nil, err
	}
	le := append([]byte(nil), k[:]...)
	le[x25519.Size-1] &= 0x7f
	u := c.f.Reduce(new(big.Int).SetBytes(reverse(le)))

	enc := make([]byte, 1+c.ByteLen())
	enc[0] = markerEven
	u.FillBytes(enc[1:])
	return c.Decompress(enc)
}
