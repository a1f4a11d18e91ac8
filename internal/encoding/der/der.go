// Package der encodes keys, curves and messages as DER structures.
//
//	Curve          ::= SEQUENCE { p OCTET STRING, type ENUMERATED,
//	                              param SEQUENCE { p1 OCTET STRING, p2 OCTET STRING },
//	                              n OCTET STRING, h OCTET STRING,
//	                              g SEQUENCE { x OCTET STRING, y OCTET STRING },
//	                              bits INTEGER }
//	PrivateKey     ::= SEQUENCE { privkey OCTET STRING, curve Curve }
//	PublicKey      ::= SEQUENCE { pubkey OCTET STRING, curve Curve }
//	ECDHMessage    ::= SEQUENCE { ephemeral OCTET STRING, nonce OCTET STRING, ctext OCTET STRING }
//	ElGamalMessage ::= SEQUENCE { c OCTET STRING, d OCTET STRING, curve Curve }
//
// Integers travel as minimal big-endian octet strings; zero is one 0x00 byte.
// Points travel in compressed form.
package der

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/internal/crypto/elgamal"
	"github.com/smallyu/go-ecc/internal/crypto/field"
	"github.com/smallyu/go-ecc/internal/ecdh"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

func malformed(op, what string) error {
	return ecc.NewError(op, what, ecc.ErrInvalidEncoding)
}

func addInt(b *cryptobyte.Builder, v *big.Int) {
	b.AddASN1OctetString(field.IntBytes(v))
}

func readInt(s *cryptobyte.String, out **big.Int) bool {
	var raw []byte
	if !s.ReadASN1Bytes(&raw, asn1.OCTET_STRING) || len(raw) == 0 {
		return false
	}
	*out = new(big.Int).SetBytes(raw)
	return true
}

func addCurve(b *cryptobyte.Builder, c *curves.Curve) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addInt(b, c.P())
		b.AddASN1Enum(int64(c.Model()))
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addInt(b, c.Coeff0())
			addInt(b, c.Coeff1())
		})
		addInt(b, c.N())
		addInt(b, c.H())
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addInt(b, c.Gx())
			addInt(b, c.Gy())
		})
		b.AddASN1Int64(int64(c.Bits()))
	})
}

func readCurve(s *cryptobyte.String) (*curves.Curve, error) {
	const op = "der.readCurve"
	var (
		body, param, gen        cryptobyte.String
		p, c0, c1, n, h, gx, gy *big.Int
		model, bits             int
	)
	if !s.ReadASN1(&body, asn1.SEQUENCE) ||
		!readInt(&body, &p) ||
		!body.ReadASN1Enum(&model) ||
		!body.ReadASN1(&param, asn1.SEQUENCE) ||
		!readInt(&param, &c0) || !readInt(&param, &c1) || !param.Empty() ||
		!readInt(&body, &n) ||
		!readInt(&body, &h) ||
		!body.ReadASN1(&gen, asn1.SEQUENCE) ||
		!readInt(&gen, &gx) || !readInt(&gen, &gy) || !gen.Empty() ||
		!body.ReadASN1Integer(&bits) ||
		!body.Empty() {
		return nil, malformed(op, "curve structure")
	}
	m := curves.Model(model)
	if !m.Valid() {
		return nil, malformed(op, fmt.Sprintf("curve type %d", model))
	}
	c, err := curves.New(m, p, c0, c1, n, h, gx, gy, bits)
	if err != nil {
		return nil, ecc.NewError(op, err.Error(), ecc.ErrInvalidEncoding)
	}
	return c, nil
}

// MarshalCurve encodes the explicit parameters of c.
func MarshalCurve(c *curves.Curve) ([]byte, error) {
	var b cryptobyte.Builder
	addCurve(&b, c)
	return b.Bytes()
}

// ParseCurve decodes a Curve structure and rebuilds the curve, validating
// its generator.
func ParseCurve(der []byte) (*curves.Curve, error) {
	s := cryptobyte.String(der)
	c, err := readCurve(&s)
	if err != nil {
		return nil, err
	}
	if !s.Empty() {
		return nil, malformed("der.ParseCurve", "trailing data")
	}
	return c, nil
}

// MarshalPrivateKey encodes priv together with its curve.
func MarshalPrivateKey(c *curves.Curve, priv *big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addInt(b, priv)
		addCurve(b, c)
	})
	return b.Bytes()
}

// ParsePrivateKey decodes a PrivateKey structure. The scalar must lie in
// [1,n).
func ParsePrivateKey(der []byte) (*curves.Curve, *big.Int, error) {
	const op = "der.ParsePrivateKey"
	var (
		body cryptobyte.String
		priv *big.Int
	)
	s := cryptobyte.String(der)
	if !s.ReadASN1(&body, asn1.SEQUENCE) || !s.Empty() || !readInt(&body, &priv) {
		return nil, nil, malformed(op, "private key structure")
	}
	c, err := readCurve(&body)
	if err != nil {
		return nil, nil, err
	}
	if !body.Empty() {
		return nil, nil, malformed(op, "trailing data")
	}
	if priv.Sign() == 0 || priv.Cmp(c.N()) >= 0 {
		return nil, nil, ecc.NewError(op, "private key outside [1,n)", ecc.ErrInvalidScalar)
	}
	return c, priv, nil
}

// MarshalPublicKey encodes the compressed point and its curve.
func MarshalPublicKey(p *curves.Point) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1OctetString(p.Compress())
		addCurve(b, p.Curve())
	})
	return b.Bytes()
}

// ParsePublicKey decodes a PublicKey structure.
func ParsePublicKey(der []byte) (*curves.Point, error) {
	const op = "der.ParsePublicKey"
	var (
		body cryptobyte.String
		raw  []byte
	)
	s := cryptobyte.String(der)
	if !s.ReadASN1(&body, asn1.SEQUENCE) || !s.Empty() || !body.ReadASN1Bytes(&raw, asn1.OCTET_STRING) {
		return nil, malformed(op, "public key structure")
	}
	c, err := readCurve(&body)
	if err != nil {
		return nil, err
	}
	if !body.Empty() {
		return nil, malformed(op, "trailing data")
	}
	return c.Decompress(raw)
}

// MarshalECDHMessage encodes a sealed message. The curve is implied by the
// recipient key and not repeated.
func MarshalECDHMessage(m *ecdh.Message) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1OctetString(m.Ephemeral.Compress())
		b.AddASN1OctetString(m.Nonce[:])
		b.AddASN1OctetString(m.Ciphertext)
	})
	return b.Bytes()
}

// ParseECDHMessage decodes a sealed message addressed to a key on curve.
func ParseECDHMessage(curve *curves.Curve, der []byte) (*ecdh.Message, error) {
	const op = "der.ParseECDHMessage"
	var (
		body                   cryptobyte.String
		eph, nonce, ciphertext []byte
	)
	s := cryptobyte.String(der)
	if !s.ReadASN1(&body, asn1.SEQUENCE) || !s.Empty() ||
		!body.ReadASN1Bytes(&eph, asn1.OCTET_STRING) ||
		!body.ReadASN1Bytes(&nonce, asn1.OCTET_STRING) ||
		!body.ReadASN1Bytes(&ciphertext, asn1.OCTET_STRING) ||
		!body.Empty() {
		return nil, malformed(op, "message structure")
	}
	if len(nonce) != ecdh.NonceSize {
		return nil, malformed(op, fmt.Sprintf("nonce length %d", len(nonce)))
	}
	p, err := curve.Decompress(eph)
	if err != nil {
		return nil, err
	}
	m := &ecdh.Message{Ephemeral: p, Ciphertext: append([]byte{}, ciphertext...)}
	copy(m.Nonce[:], nonce)
	return m, nil
}

// MarshalCiphertext encodes an EC-ElGamal ciphertext with its curve.
func MarshalCiphertext(ct *elgamal.Ciphertext) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1OctetString(ct.C().Compress())
		b.AddASN1OctetString(ct.D().Compress())
		addCurve(b, ct.Curve())
	})
	return b.Bytes()
}

// ParseCiphertext decodes an EC-ElGamal ciphertext.
func ParseCiphertext(der []byte) (*elgamal.Ciphertext, error) {
	const op = "der.ParseCiphertext"
	var (
		body   cryptobyte.String
		cb, db []byte
	)
	s := cryptobyte.String(der)
	if !s.ReadASN1(&body, asn1.SEQUENCE) || !s.Empty() ||
		!body.ReadASN1Bytes(&cb, asn1.OCTET_STRING) ||
		!body.ReadASN1Bytes(&db, asn1.OCTET_STRING) {
		return nil, malformed(op, "ciphertext structure")
	}
	c, err := readCurve(&body)
	if err != nil {
		return nil, err
	}
	if !body.Empty() {
		return nil, malformed(op, "trailing data")
	}
	cp, err := c.Decompress(cb)
	if err != nil {
		return nil, err
	}
	dp, err := c.Decompress(db)
	if err != nil {
		return nil, err
	}
	return elgamal.NewCiphertext(cp, dp)
}
