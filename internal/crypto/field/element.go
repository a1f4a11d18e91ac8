package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Element is an immutable integer modulo a prime. The value is always held
// in canonical form [0,p).
type Element struct {
	v *big.Int
	f *Field
}

// New returns v mod p. Negative values are reduced into [0,p).
func New(v, p *big.Int) Element {
	return NewIn(NewField(p), v)
}

// NewInt64 is New for small constants.
func NewInt64(v int64, p *big.Int) Element {
	return New(big.NewInt(v), p)
}

// NewIn returns v mod f.P() bound to an existing Field.
func NewIn(f *Field, v *big.Int) Element {
	return Element{v: f.Reduce(v), f: f}
}

// Random returns an element sampled uniformly from [0,p).
func Random(p *big.Int) (Element, error) {
	f := NewField(p)
	v, err := f.Random()
	if err != nil {
		return Element{}, err
	}
	return Element{v: v, f: f}, nil
}

// FromBytes interprets b as a big-endian integer and reduces it mod p.
func FromBytes(b []byte, p *big.Int) Element {
	return New(new(big.Int).SetBytes(b), p)
}

// Parse reads the canonical text form produced by String.
func Parse(s string, p *big.Int) (Element, error) {
	hex, ok := strings.CutPrefix(s, "0x")
	if !ok || hex == "" {
		return Element{}, ecc.NewError("field.Parse", fmt.Sprintf("missing 0x prefix in %q", s), ecc.ErrInvalidEncoding)
	}
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return Element{}, ecc.NewError("field.Parse", fmt.Sprintf("bad hex %q", s), ecc.ErrInvalidEncoding)
	}
	if v.Cmp(p) >= 0 {
		return Element{}, ecc.NewError("field.Parse", "value not reduced", ecc.ErrInvalidEncoding)
	}
	// signs, leading zeros and upper case all parse but are not canonical
	if v.Sign() < 0 || v.Text(16) != hex {
		return Element{}, ecc.NewError("field.Parse", fmt.Sprintf("non-canonical hex %q", s), ecc.ErrInvalidEncoding)
	}
	return New(v, p), nil
}

// Value returns a copy of the canonical value.
func (e Element) Value() *big.Int {
	return new(big.Int).Set(e.v)
}

// Modulus returns a copy of p.
func (e Element) Modulus() *big.Int {
	return e.f.P()
}

// Field returns the modulus-bound arithmetic used by e.
func (e Element) Field() *Field {
	return e.f
}

func (e Element) IsZero() bool {
	return e.v.Sign() == 0
}

// Equal reports whether e and o have the same modulus and value.
func (e Element) Equal(o Element) bool {
	if e.f == nil || o.f == nil {
		return e.f == o.f
	}
	return e.f.Equal(o.f) && e.v.Cmp(o.v) == 0
}

func (e Element) check(op string, o Element) error {
	if !e.f.Equal(o.f) {
		return ecc.NewError(op, fmt.Sprintf("%s != %s", e.f.p.Text(16), o.f.p.Text(16)), ecc.ErrModulusMismatch)
	}
	return nil
}

func (e Element) Add(o Element) (Element, error) {
	if err := e.check("field.Add", o); err != nil {
		return Element{}, err
	}
	return Element{v: e.f.Add(e.v, o.v), f: e.f}, nil
}

func (e Element) Sub(o Element) (Element, error) {
	if err := e.check("field.Sub", o); err != nil {
		return Element{}, err
	}
	return Element{v: e.f.Sub(e.v, o.v), f: e.f}, nil
}

func (e Element) Mul(o Element) (Element, error) {
	if err := e.check("field.Mul", o); err != nil {
		return Element{}, err
	}
	return Element{v: e.f.Mul(e.v, o.v), f: e.f}, nil
}

func (e Element) Neg() Element {
	return Element{v: e.f.Neg(e.v), f: e.f}
}

// Exp returns e^k. Negative exponents are rejected.
func (e Element) Exp(k *big.Int) (Element, error) {
	if k.Sign() < 0 {
		return Element{}, ecc.NewError("field.Exp", fmt.Sprintf("negative exponent %s", k), ecc.ErrInvalidScalar)
	}
	return Element{v: e.f.Exp(e.v, k), f: e.f}, nil
}

// Inverse returns the multiplicative inverse; ok is false for zero.
func (e Element) Inverse() (Element, bool) {
	inv, ok := e.f.Inv(e.v)
	if !ok {
		return Element{}, false
	}
	return Element{v: inv, f: e.f}, true
}

// Sqrt returns one of the two square roots; ok is false for non-residues.
func (e Element) Sqrt() (Element, bool) {
	r, ok := e.f.Sqrt(e.v)
	if !ok {
		return Element{}, false
	}
	return Element{v: r, f: e.f}, true
}

// Bytes returns the minimal big-endian encoding, a single zero byte for zero.
func (e Element) Bytes() []byte {
	return IntBytes(e.v)
}

// String returns the canonical text form, lowercase hex with a 0x prefix.
func (e Element) String() string {
	if e.f == nil {
		return "<nil>"
	}
	return "0x" + e.v.Text(16)
}

// IntBytes is the canonical encoding of a non-negative integer: big-endian,
// minimal length, one zero byte for zero.
func IntBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	return v.Bytes()
}
