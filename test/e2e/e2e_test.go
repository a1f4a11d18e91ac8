package e2e

import (
	"bytes"
	"testing"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/internal/crypto/ecdsa"
	"github.com/smallyu/go-ecc/internal/crypto/elgamal"
	"github.com/smallyu/go-ecc/internal/ecdh"
	"github.com/smallyu/go-ecc/internal/encoding/der"
	"github.com/smallyu/go-ecc/internal/encoding/pem"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

// armor encodes and re-parses a key the way it would travel between parties.
func armorPublicKey(t *testing.T, p *curves.Point) *curves.Point {
	t.Helper()
	body, err := der.MarshalPublicKey(p)
	if err != nil {
		t.Fatalf("MarshalPublicKey failed: %v", err)
	}
	raw, _, err := pem.Unwrap(pem.LabelPublicKey, pem.Wrap(pem.LabelPublicKey, body))
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}
	q, err := der.ParsePublicKey(raw)
	if err != nil {
		t.Fatalf("ParsePublicKey failed: %v", err)
	}
	return q
}

func TestCryptoIntegration(t *testing.T) {
	for _, name := range []string{"secp256k1", "P521", "E-521", "M-511", "Ed25519"} {
		t.Run(name, func(t *testing.T) {
			curve, err := curves.ByName(name)
			if err != nil {
				t.Fatalf("ByName failed: %v", err)
			}

			// 1. Key generation, keys exchanged in armored form
			alicePriv, alicePub, err := ecdh.GenerateKey(curve)
			if err != nil {
				t.Fatalf("GenerateKey failed: %v", err)
			}
			bobPriv, bobPub, err := ecdh.GenerateKey(curve)
			if err != nil {
				t.Fatalf("GenerateKey failed: %v", err)
			}
			alicePub = armorPublicKey(t, alicePub)
			bobPub = armorPublicKey(t, bobPub)

			body, err := der.MarshalPrivateKey(curve, bobPriv)
			if err != nil {
				t.Fatalf("MarshalPrivateKey failed: %v", err)
			}
			bobCurve, bobPriv2, err := der.ParsePrivateKey(body)
			if err != nil {
				t.Fatalf("ParsePrivateKey failed: %v", err)
			}
			if !bobCurve.Equal(curve) || bobPriv2.Cmp(bobPriv) != 0 {
				t.Fatalf("private key did not survive encoding")
			}

			// 2. Alice seals a message to Bob
			plaintext := []byte("the eagle has landed")
			msg, err := ecdh.Seal(bobPub, plaintext)
			if err != nil {
				t.Fatalf("Seal failed: %v", err)
			}
			wire, err := der.MarshalECDHMessage(msg)
			if err != nil {
				t.Fatalf("MarshalECDHMessage failed: %v", err)
			}
			received, err := der.ParseECDHMessage(bobCurve, wire)
			if err != nil {
				t.Fatalf("ParseECDHMessage failed: %v", err)
			}
			opened, err := ecdh.Open(bobCurve, bobPriv2, received)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("opened %q, want %q", opened, plaintext)
			}

			// 3. Alice signs, Bob verifies
			h, _ := ecc.HashByName("sha512")
			scheme := ecdsa.NewScheme(curve, h)
			sig, err := scheme.Sign(alicePriv, plaintext)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			parsed, err := scheme.ParseSignature(sig.Bytes())
			if err != nil {
				t.Fatalf("ParseSignature failed: %v", err)
			}
			if !scheme.Verify(alicePub, plaintext, parsed) {
				t.Errorf("signature rejected")
			}

			// 4. Alice encrypts a point to Bob with EC-ElGamal
			m, err := curve.RandomPoint()
			if err != nil {
				t.Fatalf("RandomPoint failed: %v", err)
			}
			ct, err := elgamal.Encrypt(bobPub, m)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			wire, err = der.MarshalCiphertext(ct)
			if err != nil {
				t.Fatalf("MarshalCiphertext failed: %v", err)
			}
			ct2, err := der.ParseCiphertext(wire)
			if err != nil {
				t.Fatalf("ParseCiphertext failed: %v", err)
			}
			if !ct2.Decrypt(bobPriv).Equal(m) {
				t.Errorf("ElGamal round trip failed")
			}
		})
	}
}
