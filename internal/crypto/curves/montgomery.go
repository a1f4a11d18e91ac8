package curves

import "math/big"

// addMontgomery is the affine addition law on By^2 = x^3 + Ax^2 + x.
func (c *Curve) addMontgomery(p, q affine) affine {
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	f := c.f
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) == 0 {
			return c.doubleMontgomery(p)
		}
		return identity
	}

	// lambda = (y2-y1)/(x2-x1)
	l, _ := f.Div(f.Sub(q.y, p.y), f.Sub(q.x, p.x))
	return c.montgomeryChord(l, p, q)
}

// doubleMontgomery uses lambda = (3x^2 + 2Ax + 1)/(2By).
func (c *Curve) doubleMontgomery(p affine) affine {
	if p.inf || p.y.Sign() == 0 {
		return identity
	}
	f := c.f
	B, A := c.coeff0, c.coeff1

	num := f.Add(f.Add(f.Mul(big.NewInt(3), f.Sqr(p.x)), f.Mul(big.NewInt(2), f.Mul(A, p.x))), big.NewInt(1))
	l, _ := f.Div(num, f.Mul(big.NewInt(2), f.Mul(B, p.y)))
	return c.montgomeryChord(l, p, p)
}

// montgomeryChord finishes an addition given the slope:
// x3 = B*l^2 - A - x1 - x2, y3 = l*(x1 - x3) - y1.
func (c *Curve) montgomeryChord(l *big.Int, p, q affine) affine {
	f := c.f
	B, A := c.coeff0, c.coeff1
	x3 := f.Sub(f.Sub(f.Sub(f.Mul(B, f.Sqr(l)), A), p.x), q.x)
	y3 := f.Sub(f.Mul(l, f.Sub(p.x, x3)), p.y)
	return affine{x: x3, y: y3}
}

// ladder computes k*p with the x-only Montgomery ladder on projective
// (X:Z) coordinates and recovers y afterwards (Okeya-Sakurai). Points of
// order two have y = 0, which the recovery formula divides by, so they take
// the affine double-and-add path.
func (c *Curve) ladder(p affine, k *big.Int) affine {
	if p.inf {
		return identity
	}
	if p.y.Sign() == 0 {
		return c.doubleAndAdd(p, k)
	}
	f := c.f

	// R0 = identity, R1 = p; R1 - R0 = p throughout.
	x0, z0 := big.NewInt(1), new(big.Int)
	x1, z1 := new(big.Int).Set(p.x), big.NewInt(1)

	for i := k.BitLen() - 1; i >= 0; i-- {
		if k.Bit(i) == 1 {
			x0, z0, x1, z1 = x1, z1, x0, z0
		}

		// R1 = R0 + R1 (differential, difference p)
		u := f.Mul(f.Sub(x0, z0), f.Add(x1, z1))
		v := f.Mul(f.Add(x0, z0), f.Sub(x1, z1))
		ax := f.Sqr(f.Add(u, v))
		az := f.Mul(p.x, f.Sqr(f.Sub(u, v)))

		// R0 = 2*R0
		s := f.Sqr(f.Add(x0, z0))
		d := f.Sqr(f.Sub(x0, z0))
		t := f.Sub(s, d)
		dx := f.Mul(s, d)
		dz := f.Mul(t, f.Add(d, f.Mul(c.a24, t)))

		x0, z0, x1, z1 = dx, dz, ax, az
		if k.Bit(i) == 1 {
			x0, z0, x1, z1 = x1, z1, x0, z0
		}
	}

	if z0.Sign() == 0 {
		return identity
	}
	xq, _ := f.Div(x0, z0)
	if z1.Sign() == 0 {
		// k*p + p is the identity, so k*p = -p
		return affine{x: new(big.Int).Set(p.x), y: f.Neg(p.y)}
	}
	xs, _ := f.Div(x1, z1)
	return affine{x: xq, y: c.recoverY(p, xq, xs)}
}

// recoverY returns y of Q = k*P given x(P), y(P), x(Q) and x(Q+P):
//
//	y_Q = ((xP*xQ + 1)(xP + xQ + 2A) - 2A - (xP - xQ)^2 * x(Q+P)) / (2B*yP)
func (c *Curve) recoverY(p affine, xq, xs *big.Int) *big.Int {
	f := c.f
	B, A := c.coeff0, c.coeff1
	twoA := f.Add(A, A)

	t1 := f.Add(f.Mul(p.x, xq), big.NewInt(1))
	t2 := f.Add(f.Add(p.x, xq), twoA)
	num := f.Sub(f.Mul(t1, t2), twoA)
	num = f.Sub(num, f.Mul(f.Sqr(f.Sub(p.x, xq)), xs))

	y, _ := f.Div(num, f.Mul(f.Add(B, B), p.y))
	return y
}
