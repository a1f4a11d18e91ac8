package field

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex " + s)
	}
	return v
}

// testModuli spans the residue classes the curve registry uses.
var testModuli = map[string]*big.Int{
	"13":        big.NewInt(13), // 5 mod 8
	"97":        big.NewInt(97), // 1 mod 32
	"secp112r1": mustHex("DB7C2ABF62E35E668076BEAD208B"),
	"secp224k1": mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFE56D"),
	"secp224r1": mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF000000000000000000000001"),
	"secp256k1": mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"),
	"2^255-19":  mustHex("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed"),
}

func TestSqrtMethodSelection(t *testing.T) {
	assert.Equal(t, sqrt3Mod4, NewField(testModuli["secp256k1"]).method)
	assert.Equal(t, sqrt3Mod4, NewField(testModuli["secp112r1"]).method)
	assert.Equal(t, sqrtTonelliShanks, NewField(testModuli["secp224r1"]).method)
	assert.Equal(t, sqrtTonelliShanks, NewField(testModuli["2^255-19"]).method)

	f := NewField(testModuli["secp224r1"])
	assert.Equal(t, 96, f.s)
	assert.Equal(t, -1, big.Jacobi(f.z, f.p))
}

func TestFieldProperties(t *testing.T) {
	const samples = 10000

	for name, p := range testModuli {
		t.Run(name, func(t *testing.T) {
			oneE := NewInt64(1, p)
			for i := 0; i < samples; i++ {
				e, err := Random(p)
				if err != nil {
					t.Fatalf("Random failed: %v", err)
				}
				f, err := Random(p)
				if err != nil {
					t.Fatalf("Random failed: %v", err)
				}

				// (e+f)-f == e
				sum, err := e.Add(f)
				if err != nil {
					t.Fatalf("Add failed: %v", err)
				}
				back, err := sum.Sub(f)
				if err != nil {
					t.Fatalf("Sub failed: %v", err)
				}
				if !back.Equal(e) {
					t.Fatalf("(e+f)-f != e for e=%s f=%s", e, f)
				}

				// e*f == f*e
				ef, _ := e.Mul(f)
				fe, _ := f.Mul(e)
				if !ef.Equal(fe) {
					t.Fatalf("e*f != f*e for e=%s f=%s", e, f)
				}

				// e * e^-1 == 1
				inv, ok := e.Inverse()
				if e.IsZero() {
					if ok {
						t.Fatalf("zero has an inverse")
					}
				} else {
					if !ok {
						t.Fatalf("no inverse for %s", e)
					}
					prod, _ := e.Mul(inv)
					if !prod.Equal(oneE) {
						t.Fatalf("e*inv(e) != 1 for e=%s", e)
					}
				}

				// sqrt(e)^2 == e
				if r, ok := e.Sqrt(); ok {
					sq, _ := r.Mul(r)
					if !sq.Equal(e) {
						t.Fatalf("sqrt(%s)^2 = %s", e, sq)
					}
				}

				// pow(e,j) by repeated multiplication
				j := i % 8
				want := oneE
				for k := 0; k < j; k++ {
					want, _ = want.Mul(e)
				}
				got, err := e.Exp(big.NewInt(int64(j)))
				if err != nil {
					t.Fatalf("Exp failed: %v", err)
				}
				if !got.Equal(want) {
					t.Fatalf("e^%d mismatch for e=%s", j, e)
				}
			}
		})
	}
}

func TestSquaresAlwaysHaveRoots(t *testing.T) {
	for name, p := range testModuli {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				b := rapid.SliceOfN(rapid.Byte(), 1, 40).Draw(rt, "bytes")
				e := FromBytes(b, p)
				sq, _ := e.Mul(e)
				r, ok := sq.Sqrt()
				if !ok {
					rt.Fatalf("square %s has no root", sq)
				}
				if !r.Equal(e) && !r.Equal(e.Neg()) {
					rt.Fatalf("root %s is neither %s nor its negation", r, e)
				}
			})
		})
	}
}

func TestDistributive(t *testing.T) {
	p := testModuli["secp224r1"]
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.Byte(), 1, 28)
		a := FromBytes(gen.Draw(rt, "a"), p)
		b := FromBytes(gen.Draw(rt, "b"), p)
		c := FromBytes(gen.Draw(rt, "c"), p)

		bc, _ := b.Add(c)
		lhs, _ := a.Mul(bc)
		ab, _ := a.Mul(b)
		ac, _ := a.Mul(c)
		rhs, _ := ab.Add(ac)
		if !lhs.Equal(rhs) {
			rt.Fatalf("a(b+c) != ab+ac")
		}

		neg, _ := a.Add(a.Neg())
		if !neg.IsZero() {
			rt.Fatalf("a + (-a) != 0")
		}
	})
}

func TestNonResidue(t *testing.T) {
	p := big.NewInt(13)
	// quadratic residues mod 13 are 1, 3, 4, 9, 10, 12
	for _, v := range []int64{2, 5, 6, 7, 8, 11} {
		_, ok := NewInt64(v, p).Sqrt()
		assert.False(t, ok, "%d should not be a residue mod 13", v)
	}
	for _, v := range []int64{0, 1, 3, 4, 9, 10, 12} {
		r, ok := NewInt64(v, p).Sqrt()
		assert.True(t, ok, "%d should be a residue mod 13", v)
		sq, _ := r.Mul(r)
		assert.Equal(t, v, sq.Value().Int64())
	}
}

func TestModulusMismatch(t *testing.T) {
	a := NewInt64(3, big.NewInt(13))
	b := NewInt64(3, big.NewInt(17))

	_, err := a.Add(b)
	assert.True(t, errors.Is(err, ecc.ErrModulusMismatch))
	_, err = a.Sub(b)
	assert.True(t, errors.Is(err, ecc.ErrModulusMismatch))
	_, err = a.Mul(b)
	assert.True(t, errors.Is(err, ecc.ErrModulusMismatch))
	assert.False(t, a.Equal(b))
}

func TestReduction(t *testing.T) {
	p := big.NewInt(13)
	assert.Equal(t, int64(12), NewInt64(-1, p).Value().Int64())
	assert.Equal(t, int64(2), NewInt64(28, p).Value().Int64())
	assert.True(t, NewInt64(13, p).IsZero())
	assert.Equal(t, int64(13), NewInt64(0, p).Modulus().Int64())
}

func TestExpRejectsNegative(t *testing.T) {
	_, err := NewInt64(2, big.NewInt(13)).Exp(big.NewInt(-1))
	assert.True(t, errors.Is(err, ecc.ErrInvalidScalar))
}

func TestBytesAndTextRoundTrip(t *testing.T) {
	p := testModuli["secp256k1"]

	zero := NewInt64(0, p)
	assert.Equal(t, []byte{0}, zero.Bytes())
	assert.Equal(t, "0x0", zero.String())

	for i := 0; i < 200; i++ {
		e, err := Random(p)
		if err != nil {
			t.Fatalf("Random failed: %v", err)
		}

		fromBytes := FromBytes(e.Bytes(), p)
		assert.True(t, fromBytes.Equal(e))

		parsed, err := Parse(e.String(), p)
		assert.NoError(t, err)
		assert.True(t, parsed.Equal(e))
	}

	_, err := Parse("1234", p)
	assert.True(t, errors.Is(err, ecc.ErrInvalidEncoding))
	_, err = Parse("0xzz", p)
	assert.True(t, errors.Is(err, ecc.ErrInvalidEncoding))
	_, err = Parse("0x"+p.Text(16), p)
	assert.True(t, errors.Is(err, ecc.ErrInvalidEncoding))

	small := big.NewInt(13)
	for _, s := range []string{"0x-5", "0x+3", "0x0005", "0x00", "0xA", "0Xa", " 0x5", "0x5 ", "0x_5"} {
		_, err := Parse(s, small)
		assert.True(t, errors.Is(err, ecc.ErrInvalidEncoding), "%q accepted", s)
	}
	for _, s := range []string{"0x0", "0x5", "0xa", "0xc"} {
		e, err := Parse(s, small)
		assert.NoError(t, err)
		assert.Equal(t, s, e.String())
	}
}
