package ecdsa

import (
	"math/big"

	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// ToSecp256k1 converts sig into the decred representation. Both values must
// already be reduced mod n.
func (sig *Signature) ToSecp256k1() (*secpecdsa.Signature, error) {
	const op = "ecdsa.ToSecp256k1"
	if !sig.curve.IsSecp256k1() {
		return nil, ecc.NewError(op, "not a secp256k1 signature", ecc.ErrCurveMismatch)
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig.r.Bytes()) || r.IsZero() {
		return nil, ecc.NewError(op, "r out of range", ecc.ErrMalformedSignature)
	}
	if s.SetByteSlice(sig.s.Bytes()) || s.IsZero() {
		return nil, ecc.NewError(op, "s out of range", ecc.ErrMalformedSignature)
	}
	return secpecdsa.NewSignature(&r, &s), nil
}

// SerializeDER returns the Bitcoin DER form of sig. The encoder normalises s
// to the lower half of the order, which keeps the signature valid.
func (sig *Signature) SerializeDER() ([]byte, error) {
	ds, err := sig.ToSecp256k1()
	if err != nil {
		return nil, err
	}
	r, s := ds.R(), ds.S()
	return btcecdsa.NewSignature(&r, &s).Serialize(), nil
}

// ParseDERSignature decodes a strict DER secp256k1 signature. curve must be
// secp256k1.
func ParseDERSignature(curve *curves.Curve, der []byte) (*Signature, error) {
	const op = "ecdsa.ParseDERSignature"
	if !curve.IsSecp256k1() {
		return nil, ecc.NewError(op, curve.String(), ecc.ErrCurveMismatch)
	}
	ds, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, ecc.NewError(op, err.Error(), ecc.ErrMalformedSignature)
	}
	r, s := ds.R(), ds.S()
	rb, sb := r.Bytes(), s.Bytes()
	return NewSignature(curve, new(big.Int).SetBytes(rb[:]), new(big.Int).SetBytes(sb[:]))
}
