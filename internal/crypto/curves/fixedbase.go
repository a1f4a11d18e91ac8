package curves

import "math/big"

const (
	combWidth = 8
	combRow   = 1 << combWidth
)

// combTable holds, for each 8-bit window l of the scalar, the multiples
// j * 2^(8l) * P for j in [0, 256). A multiplication is then one addition per
// window and no doublings.
type combTable struct {
	levels [][]affine
}

// newCombTable covers scalars up to max(bits, |n|) bits, so every reduced
// scalar fits even when the order is wider than the nominal size.
func newCombTable(c *Curve, p affine) *combTable {
	width := c.bits
	if nb := c.n.BitLen(); nb > width {
		width = nb
	}
	levels := (width + combWidth - 1) / combWidth

	t := &combTable{levels: make([][]affine, levels)}
	base := p
	for l := range t.levels {
		row := make([]affine, combRow)
		row[0] = identity
		row[1] = base
		for j := 2; j < combRow; j++ {
			row[j] = c.add(row[j-1], base)
		}
		t.levels[l] = row
		base = c.add(row[combRow-1], base)
	}
	return t
}

func (t *combTable) covers(k *big.Int) bool {
	return k.BitLen() <= combWidth*len(t.levels)
}

func (t *combTable) mul(c *Curve, k *big.Int) affine {
	r := identity
	for l, row := range t.levels {
		var j uint
		for b := 0; b < combWidth; b++ {
			j |= k.Bit(l*combWidth+b) << b
		}
		if j != 0 {
			r = c.add(r, row[j])
		}
	}
	return r
}
