package cds

import (
	"fmt"
	"math"
)

const (
	solverTolerance = 1e-14
	solverMaxIter   = 100
	machineEpsilon  = 2.220446049250313e-16
)

// solveBrent finds a root of f within [lo, hi] using Brent's method
// (bisection with inverse quadratic interpolation). The bracket must
// contain a sign change; the solver is deterministic given the bracket,
// tolerance and iteration budget, and fails explicitly rather than
// truncating silently.
func solveBrent(f func(float64) (float64, error), lo, hi float64) (float64, error) {
	return brent(f, lo, hi, solverMaxIter)
}

func brent(f func(float64) (float64, error), lo, hi float64, maxIter int) (float64, error) {
	a, b := lo, hi
	fa, err := f(a)
	if err != nil {
		return 0, fmt.Errorf("solveBrent: %w", err)
	}
	fb, err := f(b)
	if err != nil {
		return 0, fmt.Errorf("solveBrent: %w", err)
	}
	if (fa > 0 && fb > 0) || (fa < 0 && fb < 0) {
		return 0, fmt.Errorf("solveBrent: %w in [%.6g, %.6g] (f: %.6g, %.6g)", ErrNoBracket, lo, hi, fa, fb)
	}

	c, fc := a, fa
	d := b - a
	e := d

	for iter := 0; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machineEpsilon*math.Abs(b) + 0.5*solverTolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt inverse quadratic interpolation (secant when a == c).
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb, err = f(b)
		if err != nil {
			return 0, fmt.Errorf("solveBrent: %w", err)
		}
	}
	return 0, fmt.Errorf("solveBrent: %w after %d iterations", ErrNoConvergence, maxIter)
}
