// Package ecdsa implements ECDSA over any curve from the curves package.
package ecdsa

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Scheme binds a curve to a message digest.
type Scheme struct {
	curve *curves.Curve
	hash  ecc.HashFunc
}

// NewScheme returns a signer/verifier for curve. A nil hash selects SHA-256.
func NewScheme(curve *curves.Curve, h ecc.HashFunc) *Scheme {
	if h == nil {
		h = sha256.New
	}
	return &Scheme{curve: curve, hash: h}
}

// Curve returns the curve the scheme operates on.
func (s *Scheme) Curve() *curves.Curve {
	return s.curve
}

// Signature is the pair (r, s) in [1,n).
type Signature struct {
	r, s  *big.Int
	curve *curves.Curve
}

// NewSignature wraps r and s for curve. Both must be non-negative and fit in
// OrderByteLen bytes; membership in [1,n) is left to Verify.
func NewSignature(curve *curves.Curve, r, s *big.Int) (*Signature, error) {
	size := curve.OrderByteLen()
	for _, v := range []*big.Int{r, s} {
		if v == nil || v.Sign() < 0 || len(v.Bytes()) > size {
			return nil, ecc.NewError("ecdsa.NewSignature", fmt.Sprintf("component does not fit in %d bytes", size), ecc.ErrMalformedSignature)
		}
	}
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s), curve: curve}, nil
}

func (sig *Signature) R() *big.Int { return new(big.Int).Set(sig.r) }
func (sig *Signature) S() *big.Int { return new(big.Int).Set(sig.s) }

// Bytes returns r || s, each left-padded to the byte length of n.
func (sig *Signature) Bytes() []byte {
	size := sig.curve.OrderByteLen()
	out := make([]byte, 2*size)
	sig.r.FillBytes(out[:size])
	sig.s.FillBytes(out[size:])
	return out
}

func (sig *Signature) Equal(o *Signature) bool {
	if sig == nil || o == nil {
		return sig == o
	}
	return sig.r.Cmp(o.r) == 0 && sig.s.Cmp(o.s) == 0
}

// ParseSignature inverts Signature.Bytes.
func (s *Scheme) ParseSignature(b []byte) (*Signature, error) {
	size := s.curve.OrderByteLen()
	if len(b) != 2*size {
		return nil, ecc.NewError("ecdsa.ParseSignature", fmt.Sprintf("length %d, want %d", len(b), 2*size), ecc.ErrMalformedSignature)
	}
	return &Signature{
		r:     new(big.Int).SetBytes(b[:size]),
		s:     new(big.Int).SetBytes(b[size:]),
		curve: s.curve,
	}, nil
}

// hashToInt digests msg, keeps the leftmost OrderByteLen bytes of the result
// and reduces them mod n. Orders that are not byte aligned keep the extra
// low bits, unlike the FIPS 186 bit truncation.
func (s *Scheme) hashToInt(msg []byte) *big.Int {
	h := s.hash()
	h.Write(msg)
	digest := h.Sum(nil)

	e := new(big.Int).SetBytes(digest[:min(len(digest), s.curve.OrderByteLen())])
	return e.Mod(e, s.curve.N())
}

func inRange(v, n *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(n) < 0
}

// Sign produces a signature over msg with a fresh random nonce.
func (s *Scheme) Sign(priv *big.Int, msg []byte) (*Signature, error) {
	n := s.curve.N()
	if !inRange(priv, n) {
		return nil, ecc.NewError("ecdsa.Sign", "private key outside [1,n)", ecc.ErrInvalidScalar)
	}
	e := s.hashToInt(msg)

	for {
		k, err := s.curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		R := s.curve.ScalarBaseMult(k)
		r := new(big.Int).Mod(R.X(), n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		sv := new(big.Int).Mul(r, priv)
		sv.Add(sv, e)
		sv.Mul(sv, kInv)
		sv.Mod(sv, n)
		if sv.Sign() == 0 {
			continue
		}
		return &Signature{r: r, s: sv, curve: s.curve}, nil
	}
}

// Verify reports whether sig is a valid signature of msg under pub. Any
// malformed input yields false.
func (s *Scheme) Verify(pub *curves.Point, msg []byte, sig *Signature) bool {
	if pub == nil || sig == nil || pub.IsIdentity() || !pub.Curve().Equal(s.curve) {
		return false
	}
	n := s.curve.N()
	if !inRange(sig.r, n) || !inRange(sig.s, n) {
		return false
	}
	e := s.hashToInt(msg)

	w := new(big.Int).ModInverse(sig.s, n)
	u1 := new(big.Int).Mul(e, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.r, w)
	u2.Mod(u2, n)

	P, err := s.curve.ScalarBaseMult(u1).Add(pub.ScalarMult(u2))
	if err != nil || P.IsIdentity() {
		return false
	}
	v := new(big.Int).Mod(P.X(), n)
	return v.Cmp(sig.r) == 0
}

// PublicKey returns priv*G.
func (s *Scheme) PublicKey(priv *big.Int) (*curves.Point, error) {
	if !inRange(priv, s.curve.N()) {
		return nil, ecc.NewError("ecdsa.PublicKey", "private key outside [1,n)", ecc.ErrInvalidScalar)
	}
	return s.curve.ScalarBaseMult(priv), nil
}
