// Package field implements arithmetic modulo an odd prime.
package field

import (
	"crypto/rand"
	"math/big"
)

var one = big.NewInt(1)

// sqrtMethod selects the square root algorithm for a modulus.
type sqrtMethod int

const (
	sqrt3Mod4 sqrtMethod = iota
	sqrtTonelliShanks
)

// Field holds a prime modulus together with the constants its square root
// needs. All inputs are expected to be reduced; all outputs are reduced.
type Field struct {
	p      *big.Int
	method sqrtMethod

	// (p+1)/4 when p = 3 mod 4
	exp34 *big.Int

	// Tonelli-Shanks: p-1 = q*2^s with q odd, z a non-residue
	q    *big.Int
	s    int
	z    *big.Int
	half *big.Int // (p-1)/2
}

// NewField prepares a Field for the odd prime p.
func NewField(p *big.Int) *Field {
	f := &Field{p: new(big.Int).Set(p)}
	f.half = new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)

	if p.Bit(0) == 1 && p.Bit(1) == 1 {
		f.method = sqrt3Mod4
		f.exp34 = new(big.Int).Add(p, one)
		f.exp34.Rsh(f.exp34, 2)
		return f
	}

	f.method = sqrtTonelliShanks
	f.q = new(big.Int).Sub(p, one)
	for f.q.Bit(0) == 0 {
		f.q.Rsh(f.q, 1)
		f.s++
	}
	for z := int64(2); ; z++ {
		zz := big.NewInt(z)
		if big.Jacobi(zz, p) == -1 {
			f.z = zz
			break
		}
	}
	return f
}

// P returns a copy of the modulus.
func (f *Field) P() *big.Int {
	return new(big.Int).Set(f.p)
}

// BitLen returns the bit length of the modulus.
func (f *Field) BitLen() int {
	return f.p.BitLen()
}

// Reduce returns v mod p in [0,p).
func (f *Field) Reduce(v *big.Int) *big.Int {
	r := new(big.Int).Mod(v, f.p)
	return r
}

func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	if r.Cmp(f.p) >= 0 {
		r.Sub(r, f.p)
	}
	return r
}

func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.Add(r, f.p)
	}
	return r
}

func (f *Field) Neg(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(f.p, a)
}

func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

func (f *Field) Sqr(a *big.Int) *big.Int {
	return f.Mul(a, a)
}

// Exp computes a^k for k >= 0.
func (f *Field) Exp(a, k *big.Int) *big.Int {
	return new(big.Int).Exp(a, k, f.p)
}

// Inv returns a^-1, or false when a is zero.
func (f *Field) Inv(a *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return nil, false
	}
	r := new(big.Int).ModInverse(a, f.p)
	if r == nil {
		return nil, false
	}
	return r, true
}

// Div returns a/b, or false when b is zero.
func (f *Field) Div(a, b *big.Int) (*big.Int, bool) {
	inv, ok := f.Inv(b)
	if !ok {
		return nil, false
	}
	return f.Mul(a, inv), true
}

// IsSquare reports whether a is a quadratic residue, zero included.
func (f *Field) IsSquare(a *big.Int) bool {
	if a.Sign() == 0 {
		return true
	}
	return f.Exp(a, f.half).Cmp(one) == 0
}

// Sqrt returns a square root of a, or false when a is not a residue.
func (f *Field) Sqrt(a *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return new(big.Int), true
	}
	if !f.IsSquare(a) {
		return nil, false
	}

	var r *big.Int
	switch f.method {
	case sqrt3Mod4:
		r = f.Exp(a, f.exp34)
	default:
		r = f.tonelliShanks(a)
	}

	if f.Sqr(r).Cmp(a) != 0 {
		return nil, false
	}
	return r, true
}

// tonelliShanks assumes a is a non-zero residue.
func (f *Field) tonelliShanks(a *big.Int) *big.Int {
	m := f.s
	c := f.Exp(f.z, f.q)
	t := f.Exp(a, f.q)
	e := new(big.Int).Add(f.q, one)
	e.Rsh(e, 1)
	r := f.Exp(a, e)

	for t.Cmp(one) != 0 {
		// find the least i with t^(2^i) == 1
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt = f.Sqr(tt)
			i++
			if i == m {
				return r
			}
		}
		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b = f.Sqr(b)
		}
		m = i
		c = f.Sqr(b)
		t = f.Mul(t, c)
		r = f.Mul(r, b)
	}
	return r
}

// Random samples uniformly in [0,p).
func (f *Field) Random() (*big.Int, error) {
	return rand.Int(rand.Reader, f.p)
}

// Equal reports whether both fields share the same modulus.
func (f *Field) Equal(o *Field) bool {
	return f == o || f.p.Cmp(o.p) == 0
}
