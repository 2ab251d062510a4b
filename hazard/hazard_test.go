package hazard_test

import (
	"math"
	"testing"

	"github.com/meenmo/cdslib/hazard"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := hazard.New(nil); err == nil {
		t.Fatalf("expected error for empty segments")
	}
	if _, err := hazard.New([]hazard.Segment{{Start: 0.5, End: 1, Rate: 0.01}}); err == nil {
		t.Fatalf("expected error for curve not starting at 0")
	}
	if _, err := hazard.New([]hazard.Segment{
		{Start: 0, End: 1, Rate: 0.01},
		{Start: 1.5, End: 2, Rate: 0.02},
	}); err == nil {
		t.Fatalf("expected error for non-contiguous segments")
	}
}

func TestNewRejectsNonPositiveSpan(t *testing.T) {
	t.Parallel()

	if _, err := hazard.New([]hazard.Segment{{Start: 0, End: 0, Rate: 0.01}}); err == nil {
		t.Fatalf("expected error for zero-length segment")
	}
	// Unsorted maturities would produce a backwards second segment.
	if _, err := hazard.FromRates([]float64{3.0, 1.0}, []float64{0.02, 0.05}); err == nil {
		t.Fatalf("expected error for decreasing maturities")
	}
}

func TestSurvivalProbability(t *testing.T) {
	t.Parallel()

	c, err := hazard.FromRates([]float64{1.0, 3.0}, []float64{0.02, 0.05})
	if err != nil {
		t.Fatalf("FromRates error: %v", err)
	}

	if got := c.SurvivalProbability(0); math.Abs(got-1.0) > 1e-15 {
		t.Fatalf("S(0) mismatch: got %.15f", got)
	}
	want := math.Exp(-0.02 * 0.5)
	if got := c.SurvivalProbability(0.5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("S(0.5) mismatch: got %.15f want %.15f", got, want)
	}
	want = math.Exp(-(0.02*1.0 + 0.05*1.0))
	if got := c.SurvivalProbability(2.0); math.Abs(got-want) > 1e-15 {
		t.Fatalf("S(2) mismatch: got %.15f want %.15f", got, want)
	}
	// Beyond the curve end the accumulated intensity clamps at the end.
	want = math.Exp(-(0.02*1.0 + 0.05*2.0))
	if got := c.SurvivalProbability(10.0); math.Abs(got-want) > 1e-15 {
		t.Fatalf("S(10) mismatch: got %.15f want %.15f", got, want)
	}
}

func TestIntensity(t *testing.T) {
	t.Parallel()

	c, err := hazard.FromRates([]float64{1.0, 3.0}, []float64{0.02, 0.05})
	if err != nil {
		t.Fatalf("FromRates error: %v", err)
	}

	if got := c.Intensity(0.5); got != 0.02 {
		t.Fatalf("Intensity(0.5) mismatch: got %.6f", got)
	}
	// Boundary belongs to the earlier segment.
	if got := c.Intensity(1.0); got != 0.02 {
		t.Fatalf("Intensity(1.0) mismatch: got %.6f", got)
	}
	if got := c.Intensity(2.0); got != 0.05 {
		t.Fatalf("Intensity(2.0) mismatch: got %.6f", got)
	}
	// Tolerant lookup beyond the curve end.
	if got := c.Intensity(99.0); got != 0.05 {
		t.Fatalf("Intensity(99) mismatch: got %.6f", got)
	}
}

func TestExtendAndReplaceLastAreImmutable(t *testing.T) {
	t.Parallel()

	base, err := hazard.FromRates([]float64{1.0}, []float64{0.02})
	if err != nil {
		t.Fatalf("FromRates error: %v", err)
	}

	extended, err := base.Extend(3.0, 0.05)
	if err != nil {
		t.Fatalf("Extend error: %v", err)
	}
	if got := len(base.Segments()); got != 1 {
		t.Fatalf("base curve mutated by Extend: %d segments", got)
	}
	if got := extended.End(); got != 3.0 {
		t.Fatalf("extended end mismatch: got %.6f", got)
	}

	replaced := extended.ReplaceLast(0.09)
	if got := extended.Segments()[1].Rate; got != 0.05 {
		t.Fatalf("source curve mutated by ReplaceLast: rate %.6f", got)
	}
	if got := replaced.Segments()[1].Rate; got != 0.09 {
		t.Fatalf("replaced rate mismatch: got %.6f", got)
	}
}

func TestFromRatesLengthMismatch(t *testing.T) {
	t.Parallel()

	if _, err := hazard.FromRates([]float64{1.0, 2.0}, []float64{0.02}); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}
