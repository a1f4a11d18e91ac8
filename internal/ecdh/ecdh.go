// Package ecdh implements the ephemeral-static ECDH file encryption
// workflow: a shared point hashed with SHA-256 keys XSalsa20.
package ecdh

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"golang.org/x/crypto/salsa20"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// NonceSize is the XSalsa20 nonce length.
const NonceSize = 24

// Message is one sealed payload.
type Message struct {
	Ephemeral  *curves.Point
	Nonce      [NonceSize]byte
	Ciphertext []byte
}

// GenerateKey returns a private scalar in [1,n) and its public point.
func GenerateKey(curve *curves.Curve) (*big.Int, *curves.Point, error) {
	priv, err := curve.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	return priv, curve.ScalarBaseMult(priv), nil
}

// SharedPoint returns priv*pub. The identity is rejected since it would
// give every party the same key.
func SharedPoint(curve *curves.Curve, priv *big.Int, pub *curves.Point) (*curves.Point, error) {
	const op = "ecdh.SharedPoint"
	if !pub.Curve().Equal(curve) {
		return nil, ecc.NewError(op, curve.String()+" vs "+pub.Curve().String(), ecc.ErrCurveMismatch)
	}
	if priv.Sign() <= 0 || priv.Cmp(curve.N()) >= 0 {
		return nil, ecc.NewError(op, "private key outside [1,n)", ecc.ErrInvalidScalar)
	}
	s := pub.ScalarMult(priv)
	if s.IsIdentity() {
		return nil, ecc.NewError(op, "shared point is the identity", ecc.ErrInvalidEncoding)
	}
	return s, nil
}

// DeriveKey hashes the compressed shared point into a symmetric key.
func DeriveKey(shared *curves.Point) [32]byte {
	return sha256.Sum256(shared.Compress())
}

// Seal encrypts plaintext to pub under a fresh ephemeral key and nonce.
func Seal(pub *curves.Point, plaintext []byte) (*Message, error) {
	curve := pub.Curve()
	ePriv, ePub, err := GenerateKey(curve)
	if err != nil {
		return nil, err
	}
	shared, err := SharedPoint(curve, ePriv, pub)
	if err != nil {
		return nil, err
	}
	key := DeriveKey(shared)

	msg := &Message{Ephemeral: ePub, Ciphertext: make([]byte, len(plaintext))}
	if _, err := rand.Read(msg.Nonce[:]); err != nil {
		return nil, fmt.Errorf("ecdh: read nonce: %w", err)
	}
	salsa20.XORKeyStream(msg.Ciphertext, plaintext, msg.Nonce[:], &key)
	return msg, nil
}

// Open decrypts msg with the recipient's private key. The stream cipher is
// not authenticated, so a wrong key yields garbage rather than an error.
func Open(curve *curves.Curve, priv *big.Int, msg *Message) ([]byte, error) {
	shared, err := SharedPoint(curve, priv, msg.Ephemeral)
	if err != nil {
		return nil, err
	}
	key := DeriveKey(shared)

	out := make([]byte, len(msg.Ciphertext))
	salsa20.XORKeyStream(out, msg.Ciphertext, msg.Nonce[:], &key)
	return out, nil
}
