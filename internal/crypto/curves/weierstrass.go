package curves

import "math/big"

// addWeierstrass is the affine chord rule, with the tangent and inverse
// cases handled explicitly.
func (c *Curve) addWeierstrass(p, q affine) affine {
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	f := c.f
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) == 0 {
			return c.doubleWeierstrass(p)
		}
		// q = -p
		return identity
	}

	// lambda = (y2-y1)/(x2-x1)
	l, _ := f.Div(f.Sub(q.y, p.y), f.Sub(q.x, p.x))
	x3 := f.Sub(f.Sub(f.Sqr(l), p.x), q.x)
	y3 := f.Sub(f.Mul(l, f.Sub(p.x, x3)), p.y)
	return affine{x: x3, y: y3}
}

// doubleWeierstrass is the affine tangent rule.
func (c *Curve) doubleWeierstrass(p affine) affine {
	if p.inf || p.y.Sign() == 0 {
		return identity
	}
	f := c.f

	// lambda = (3x^2 + a)/(2y)
	num := f.Add(f.Mul(big.NewInt(3), f.Sqr(p.x)), c.coeff0)
	l, _ := f.Div(num, f.Add(p.y, p.y))
	x3 := f.Sub(f.Sqr(l), f.Add(p.x, p.x))
	y3 := f.Sub(f.Mul(l, f.Sub(p.x, x3)), p.y)
	return affine{x: x3, y: y3}
}
