package ecdsa

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

var testMessage = []byte("the quick brown fox jumps over the lazy dog")

func TestSignVerifyAllCurves(t *testing.T) {
	for _, name := range curves.Names() {
		c, err := curves.ByName(name)
		require.NoError(t, err)
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, hashName := range []string{"sha256", "sha384", "sha512"} {
				h, err := ecc.HashByName(hashName)
				require.NoError(t, err)
				scheme := NewScheme(c, h)

				priv, err := c.RandomScalar()
				require.NoError(t, err)
				pub, err := scheme.PublicKey(priv)
				require.NoError(t, err)

				sig, err := scheme.Sign(priv, testMessage)
				require.NoError(t, err)
				if !scheme.Verify(pub, testMessage, sig) {
					t.Fatalf("%s/%s: valid signature rejected", name, hashName)
				}

				for i := range testMessage {
					tampered := append([]byte(nil), testMessage...)
					tampered[i] ^= 0x01
					if scheme.Verify(pub, tampered, sig) {
						t.Fatalf("%s/%s: message byte %d flipped, still verifies", name, hashName, i)
					}
				}

				other, err := c.RandomPoint()
				require.NoError(t, err)
				assert.False(t, scheme.Verify(other, testMessage, sig), "%s: wrong key", hashName)

				raw := sig.Bytes()
				require.Len(t, raw, 2*c.OrderByteLen())
				parsed, err := scheme.ParseSignature(raw)
				require.NoError(t, err)
				require.True(t, parsed.Equal(sig))

				for i := range raw {
					flipped := append([]byte(nil), raw...)
					flipped[i] ^= 0x80
					bad, err := scheme.ParseSignature(flipped)
					require.NoError(t, err)
					if scheme.Verify(pub, testMessage, bad) {
						t.Fatalf("%s/%s: flipped byte %d still verifies", name, hashName, i)
					}
				}
			}
		})
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	c, err := curves.ByName("secp256r1")
	require.NoError(t, err)
	scheme := NewScheme(c, nil)
	priv, err := c.RandomScalar()
	require.NoError(t, err)
	pub, err := scheme.PublicKey(priv)
	require.NoError(t, err)
	sig, err := scheme.Sign(priv, testMessage)
	require.NoError(t, err)

	n := c.N()
	zero := big.NewInt(0)
	for _, rs := range [][2]*big.Int{
		{zero, sig.S()},
		{sig.R(), zero},
		{n, sig.S()},
		{sig.R(), n},
	} {
		bad, err := NewSignature(c, rs[0], rs[1])
		require.NoError(t, err)
		assert.False(t, scheme.Verify(pub, testMessage, bad))
	}
	assert.False(t, scheme.Verify(nil, testMessage, sig))
	assert.False(t, scheme.Verify(pub, testMessage, nil))
	assert.False(t, scheme.Verify(c.Identity(), testMessage, sig))

	k1, err := curves.ByName("secp256k1")
	require.NoError(t, err)
	assert.False(t, scheme.Verify(k1.Generator(), testMessage, sig))
}

func TestSignRejectsBadKey(t *testing.T) {
	c, err := curves.ByName("secp192r1")
	require.NoError(t, err)
	scheme := NewScheme(c, sha256.New)
	for _, k := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), c.N()} {
		_, err := scheme.Sign(k, testMessage)
		assert.ErrorIs(t, err, ecc.ErrInvalidScalar)
	}
}

func TestParseSignatureLength(t *testing.T) {
	c, err := curves.ByName("secp521r1")
	require.NoError(t, err)
	scheme := NewScheme(c, nil)
	for _, l := range []int{0, 1, 2*c.OrderByteLen() - 1, 2*c.OrderByteLen() + 1} {
		_, err := scheme.ParseSignature(make([]byte, l))
		assert.ErrorIs(t, err, ecc.ErrMalformedSignature, "length %d", l)
	}
}

func TestHashTruncation(t *testing.T) {
	// Ed25519's order is 253 bits: all 32 leading digest bytes are kept
	// before reducing mod n, not just the leftmost 253 bits.
	c, err := curves.ByName("Ed25519")
	require.NoError(t, err)
	require.NotZero(t, c.N().BitLen()%8)
	h, err := ecc.HashByName("sha512")
	require.NoError(t, err)
	scheme := NewScheme(c, h)

	d := h()
	d.Write(testMessage)
	digest := d.Sum(nil)
	want := new(big.Int).SetBytes(digest[:c.OrderByteLen()])
	want.Mod(want, c.N())
	assert.Equal(t, 0, scheme.hashToInt(testMessage).Cmp(want))

	bitwise := new(big.Int).SetBytes(digest)
	bitwise.Rsh(bitwise, uint(len(digest)*8-c.N().BitLen()))
	bitwise.Mod(bitwise, c.N())
	assert.NotEqual(t, 0, scheme.hashToInt(testMessage).Cmp(bitwise))

	// A digest narrower than n is used whole.
	p521, err := curves.ByName("secp521r1")
	require.NoError(t, err)
	short := NewScheme(p521, sha256.New)
	sum := sha256.Sum256(testMessage)
	assert.Equal(t, 0, short.hashToInt(testMessage).Cmp(new(big.Int).SetBytes(sum[:])))
}

func TestNewSignatureWidth(t *testing.T) {
	c, err := curves.ByName("secp256r1")
	require.NoError(t, err)
	wide := new(big.Int).Lsh(big.NewInt(1), uint(8*c.OrderByteLen()))
	one := big.NewInt(1)

	for _, rs := range [][2]*big.Int{{wide, one}, {one, wide}, {big.NewInt(-1), one}, {nil, one}} {
		_, err := NewSignature(c, rs[0], rs[1])
		assert.ErrorIs(t, err, ecc.ErrMalformedSignature)
	}

	edge := new(big.Int).Sub(wide, one)
	sig, err := NewSignature(c, edge, one)
	require.NoError(t, err)
	assert.Len(t, sig.Bytes(), 2*c.OrderByteLen())
}

func TestSecp256k1CrossVerify(t *testing.T) {
	c, err := curves.ByName("secp256k1")
	require.NoError(t, err)
	scheme := NewScheme(c, sha256.New)
	digest := sha256.Sum256(testMessage)

	for i := 0; i < 10; i++ {
		priv, err := c.RandomScalar()
		require.NoError(t, err)
		pub, err := scheme.PublicKey(priv)
		require.NoError(t, err)
		pk, err := pub.ToSecp256k1()
		require.NoError(t, err)

		// ours verified by decred
		sig, err := scheme.Sign(priv, testMessage)
		require.NoError(t, err)
		ds, err := sig.ToSecp256k1()
		require.NoError(t, err)
		assert.True(t, ds.Verify(digest[:], pk))

		// DER round trip via btcec; s may be normalised to the low half
		der, err := sig.SerializeDER()
		require.NoError(t, err)
		parsed, err := ParseDERSignature(c, der)
		require.NoError(t, err)
		assert.True(t, scheme.Verify(pub, testMessage, parsed))
		lowS := new(big.Int).Sub(c.N(), sig.S())
		assert.True(t, parsed.S().Cmp(sig.S()) == 0 || parsed.S().Cmp(lowS) == 0)

		// RFC 6979 signatures from btcec verified by us
		bkey, _ := btcec.PrivKeyFromBytes(priv.Bytes())
		bsig := btcecdsa.Sign(bkey, digest[:])
		rfc, err := ParseDERSignature(c, bsig.Serialize())
		require.NoError(t, err)
		assert.True(t, scheme.Verify(pub, testMessage, rfc))
	}

	_, err = ParseDERSignature(c, []byte{0x30, 0x01})
	assert.ErrorIs(t, err, ecc.ErrMalformedSignature)

	p256, err := curves.ByName("P256")
	require.NoError(t, err)
	_, err = ParseDERSignature(p256, nil)
	assert.ErrorIs(t, err, ecc.ErrCurveMismatch)
}
