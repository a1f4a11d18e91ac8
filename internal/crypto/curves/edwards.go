package curves

import "math/big"

// edwardsParams returns (a, c, d) so that both Edwards models share one
// addition law: a*x^2 + y^2 = c^2(1 + d*x^2*y^2).
func (c *Curve) edwardsParams() (a, cc, d *big.Int) {
	one := big.NewInt(1)
	if c.model == TwistedEdwards {
		return c.coeff0, one, c.coeff1
	}
	return one, c.coeff0, c.coeff1
}

// addEdwards is the unified addition law
//
//	x3 = (x1*y2 + y1*x2) / (c*(1 + d*x1*x2*y1*y2))
//	y3 = (y1*y2 - a*x1*x2) / (c*(1 - d*x1*x2*y1*y2))
//
// It covers doubling and the neutral element without special cases. The
// denominators never vanish on complete curves (d a non-square); every named
// Edwards curve is complete.
func (c *Curve) addEdwards(p, q affine) affine {
	f := c.f
	a, cc, d := c.edwardsParams()

	x1, y1 := c.edwardsCoords(p)
	x2, y2 := c.edwardsCoords(q)

	x1x2 := f.Mul(x1, x2)
	y1y2 := f.Mul(y1, y2)
	t := f.Mul(d, f.Mul(x1x2, y1y2))

	nx := f.Add(f.Mul(x1, y2), f.Mul(y1, x2))
	ny := f.Sub(y1y2, f.Mul(a, x1x2))
	one := big.NewInt(1)
	dx := f.Mul(cc, f.Add(one, t))
	dy := f.Mul(cc, f.Sub(one, t))

	// one inversion for both denominators
	inv, ok := f.Inv(f.Mul(dx, dy))
	if !ok {
		panic("curves: exceptional edwards addition on incomplete curve " + c.String())
	}
	x3 := f.Mul(nx, f.Mul(dy, inv))
	y3 := f.Mul(ny, f.Mul(dx, inv))
	return c.normalize(affine{x: x3, y: y3})
}

// edwardsCoords expands the identity state into the affine neutral (0, c).
func (c *Curve) edwardsCoords(p affine) (x, y *big.Int) {
	if p.inf {
		_, cc, _ := c.edwardsParams()
		return new(big.Int), cc
	}
	return p.x, p.y
}
