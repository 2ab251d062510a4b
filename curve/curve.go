// Package curve provides deterministic discount curves for CDS valuation.
package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// DiscountCurve supplies a discount factor for a time measured in years
// from the valuation date.
type DiscountCurve interface {
	DF(t float64) float64
}

// Flat is a single continuously-compounded annual rate.
//
// DF is defined for any t; small negative offsets near time zero return a
// factor above one under the same formula.
type Flat struct {
	Rate float64
}

// DF returns exp(-rate*t).
func (c Flat) DF(t float64) float64 {
	return math.Exp(-c.Rate * t)
}

// Pillar is a defining node of an interpolated discount curve.
type Pillar struct {
	Time float64
	DF   float64
}

// PiecewiseLinear interpolates discount factors linearly between pillars and
// extrapolates flat beyond the first/last pillar.
type PiecewiseLinear struct {
	pillars []Pillar
	pl      interp.PiecewiseLinear
}

// NewPiecewiseLinear builds a pillar curve. At least two pillars are
// required and pillar times must be strictly increasing.
func NewPiecewiseLinear(pillars []Pillar) (*PiecewiseLinear, error) {
	if len(pillars) < 2 {
		return nil, fmt.Errorf("NewPiecewiseLinear: need at least two pillars, got %d", len(pillars))
	}
	times := make([]float64, len(pillars))
	dfs := make([]float64, len(pillars))
	for i, p := range pillars {
		if i > 0 && p.Time <= pillars[i-1].Time {
			return nil, fmt.Errorf("NewPiecewiseLinear: pillar times must be strictly increasing (%.6f after %.6f)", p.Time, pillars[i-1].Time)
		}
		times[i] = p.Time
		dfs[i] = p.DF
	}

	c := &PiecewiseLinear{pillars: append([]Pillar(nil), pillars...)}
	if err := c.pl.Fit(times, dfs); err != nil {
		return nil, fmt.Errorf("NewPiecewiseLinear: fit: %w", err)
	}
	return c, nil
}

// FromZeroRates builds a pillar curve from (time, continuously-compounded
// zero rate) pairs, converting each rate to a discount factor.
func FromZeroRates(pillars []Pillar) (*PiecewiseLinear, error) {
	converted := make([]Pillar, len(pillars))
	for i, p := range pillars {
		converted[i] = Pillar{Time: p.Time, DF: math.Exp(-p.DF * p.Time)}
	}
	return NewPiecewiseLinear(converted)
}

// DF interpolates linearly inside the pillar range and clamps to the first
// or last pillar value outside it.
func (c *PiecewiseLinear) DF(t float64) float64 {
	first := c.pillars[0]
	last := c.pillars[len(c.pillars)-1]
	if t <= first.Time {
		return first.DF
	}
	if t >= last.Time {
		return last.DF
	}
	return c.pl.Predict(t)
}

// Pillars returns a copy of the defining nodes.
func (c *PiecewiseLinear) Pillars() []Pillar {
	return append([]Pillar(nil), c.pillars...)
}
