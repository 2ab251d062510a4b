// Package hazard models a term structure of default intensities as an
// ordered, contiguous set of piecewise-constant segments.
package hazard

import (
	"fmt"
	"math"
)

// Segment is a constant annualized default intensity over [Start, End).
type Segment struct {
	Start float64
	End   float64
	Rate  float64
}

// SurvivalFactor returns exp(-rate * clamped length) where the length is
// the overlap of [Start, End] with [Start, t].
func (s Segment) SurvivalFactor(t float64) float64 {
	clamped := math.Max(0, math.Min(t, s.End)-s.Start)
	return math.Exp(-s.Rate * clamped)
}

// Curve is an immutable piecewise-constant hazard curve starting at time
// zero. Extension operations return new values; a constructed curve is safe
// to share across concurrent valuation runs.
type Curve struct {
	segments []Segment
}

// New validates and builds a curve. The segment list must be non-empty,
// start at time zero, and be contiguous (no gaps, no overlaps).
func New(segments []Segment) (Curve, error) {
	if len(segments) == 0 {
		return Curve{}, fmt.Errorf("hazard.New: segments are required")
	}
	if segments[0].Start != 0 {
		return Curve{}, fmt.Errorf("hazard.New: curve must start at 0, got %.6f", segments[0].Start)
	}
	for i, seg := range segments {
		if seg.End <= seg.Start {
			return Curve{}, fmt.Errorf("hazard.New: segment %d has non-positive span [%.6f, %.6f]", i, seg.Start, seg.End)
		}
		if i > 0 && seg.Start != segments[i-1].End {
			return Curve{}, fmt.Errorf("hazard.New: segments must be contiguous (%.6f != %.6f at index %d)", seg.Start, segments[i-1].End, i)
		}
	}
	return Curve{segments: append([]Segment(nil), segments...)}, nil
}

// FromRates builds a curve from parallel maturity/hazard-rate sequences.
// Maturities are the segment end points; the first segment starts at zero.
func FromRates(maturities, rates []float64) (Curve, error) {
	if len(maturities) != len(rates) {
		return Curve{}, fmt.Errorf("hazard.FromRates: maturities and rates length mismatch (%d vs %d)", len(maturities), len(rates))
	}
	segments := make([]Segment, len(maturities))
	last := 0.0
	for i, m := range maturities {
		segments[i] = Segment{Start: last, End: m, Rate: rates[i]}
		last = m
	}
	return New(segments)
}

// Extend returns a new curve with one more segment spanning from the
// current end to maturity.
func (c Curve) Extend(maturity, rate float64) (Curve, error) {
	segments := append(append([]Segment(nil), c.segments...), Segment{
		Start: c.End(),
		End:   maturity,
		Rate:  rate,
	})
	return New(segments)
}

// ReplaceLast returns a new curve whose final segment carries the given
// rate. The receiver is unchanged.
func (c Curve) ReplaceLast(rate float64) Curve {
	segments := append([]Segment(nil), c.segments...)
	last := &segments[len(segments)-1]
	last.Rate = rate
	return Curve{segments: segments}
}

// SurvivalProbability returns the probability of no default by time t.
//
// The curve is understood to extend to its last segment end only; beyond
// that the accumulated intensity is clamped at the curve end.
func (c Curve) SurvivalProbability(t float64) float64 {
	totalLog := 0.0
	for _, seg := range c.segments {
		if t <= seg.Start {
			break
		}
		contrib := math.Max(0, math.Min(t, seg.End)-seg.Start)
		totalLog += seg.Rate * contrib
		if t <= seg.End {
			break
		}
	}
	return math.Exp(-totalLog)
}

// Intensity returns the hazard rate of the segment containing t, or the
// last segment's rate beyond the curve end.
func (c Curve) Intensity(t float64) float64 {
	for _, seg := range c.segments {
		if seg.Start <= t && t <= seg.End {
			return seg.Rate
		}
	}
	return c.segments[len(c.segments)-1].Rate
}

// Segments returns a copy of the underlying segments.
func (c Curve) Segments() []Segment {
	return append([]Segment(nil), c.segments...)
}

// Maturities returns the segment end points in order.
func (c Curve) Maturities() []float64 {
	out := make([]float64, len(c.segments))
	for i, seg := range c.segments {
		out[i] = seg.End
	}
	return out
}

// End returns the curve's last covered time, or zero for the zero value.
func (c Curve) End() float64 {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[len(c.segments)-1].End
}
