package cds_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
)

func TestCalibrateSingleQuote(t *testing.T) {
	t.Parallel()

	quotes := []cds.Quote{{Maturity: 5.0, SpreadBPS: 100.0}}
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	result, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		t.Fatalf("Calibrate error: %v", err)
	}

	segments := result.Curve.Segments()
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 5.0 {
		t.Fatalf("segment bounds mismatch: [%.4f, %.4f]", segments[0].Start, segments[0].End)
	}
	if segments[0].Rate <= 0 {
		t.Fatalf("hazard rate should be positive, got %.8f", segments[0].Rate)
	}

	model, err := cds.ParSpread(result.Curve, dc, 5.0, params)
	if err != nil {
		t.Fatalf("ParSpread error: %v", err)
	}
	if math.Abs(model*10000.0-100.0) > 1e-6 {
		t.Fatalf("model spread %.10f bps, want 100 within 1e-6", model*10000.0)
	}
}

func TestCalibrateRoundTrip(t *testing.T) {
	t.Parallel()

	quotes := []cds.Quote{
		{Maturity: 1.0, SpreadBPS: 60.0},
		{Maturity: 3.0, SpreadBPS: 95.0},
		{Maturity: 5.0, SpreadBPS: 130.0},
		{Maturity: 7.0, SpreadBPS: 160.0},
		{Maturity: 10.0, SpreadBPS: 190.0},
	}
	dc := curve.Flat{Rate: 0.015}
	params := cds.DefaultParams()

	result, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		t.Fatalf("Calibrate error: %v", err)
	}
	if got := len(result.Curve.Segments()); got != len(quotes) {
		t.Fatalf("expected %d segments, got %d", len(quotes), got)
	}

	for i, quote := range quotes {
		model, err := cds.ParSpread(result.Curve, dc, quote.Maturity, params)
		if err != nil {
			t.Fatalf("ParSpread(%.1f) error: %v", quote.Maturity, err)
		}
		if math.Abs(model-quote.SpreadDecimal()) > 1e-10 {
			t.Fatalf("round trip failed at %.1fy: model %.12e market %.12e", quote.Maturity, model, quote.SpreadDecimal())
		}
		if math.Abs(result.ParErrors[i]) > 1e-10 {
			t.Fatalf("residual too large at %.1fy: %.3e", quote.Maturity, result.ParErrors[i])
		}
	}

	// Upward-sloping spreads imply increasing forward intensities here.
	segments := result.Curve.Segments()
	for _, seg := range segments {
		if seg.Rate <= 0 {
			t.Fatalf("non-positive hazard rate %.8f over [%.1f, %.1f]", seg.Rate, seg.Start, seg.End)
		}
	}
}

func TestCalibrateLocality(t *testing.T) {
	t.Parallel()

	base := []cds.Quote{
		{Maturity: 1.0, SpreadBPS: 80.0},
		{Maturity: 3.0, SpreadBPS: 110.0},
		{Maturity: 5.0, SpreadBPS: 140.0},
	}
	extended := append(append([]cds.Quote(nil), base...), cds.Quote{Maturity: 10.0, SpreadBPS: 200.0})
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	short, err := cds.Calibrate(base, dc, params)
	if err != nil {
		t.Fatalf("Calibrate(base) error: %v", err)
	}
	long, err := cds.Calibrate(extended, dc, params)
	if err != nil {
		t.Fatalf("Calibrate(extended) error: %v", err)
	}

	shortSegs := short.Curve.Segments()
	longSegs := long.Curve.Segments()
	for i := range shortSegs {
		// Bit-identical: appending a longer quote must not touch earlier segments.
		if shortSegs[i].Rate != longSegs[i].Rate {
			t.Fatalf("segment %d changed: %.17g vs %.17g", i, shortSegs[i].Rate, longSegs[i].Rate)
		}
	}
}

func TestCalibratePillarDiscountCurve(t *testing.T) {
	t.Parallel()

	dc, err := curve.FromZeroRates([]curve.Pillar{
		{Time: 0.5, DF: 0.008},
		{Time: 2.0, DF: 0.012},
		{Time: 5.0, DF: 0.018},
		{Time: 10.0, DF: 0.022},
	})
	if err != nil {
		t.Fatalf("FromZeroRates error: %v", err)
	}

	quotes := []cds.Quote{
		{Maturity: 2.0, SpreadBPS: 75.0},
		{Maturity: 5.0, SpreadBPS: 120.0},
	}
	params := cds.DefaultParams()

	result, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		t.Fatalf("Calibrate error: %v", err)
	}
	for _, quote := range quotes {
		model, err := cds.ParSpread(result.Curve, dc, quote.Maturity, params)
		if err != nil {
			t.Fatalf("ParSpread(%.1f) error: %v", quote.Maturity, err)
		}
		if math.Abs(model-quote.SpreadDecimal()) > 1e-10 {
			t.Fatalf("round trip failed at %.1fy: model %.12e", quote.Maturity, model)
		}
	}
}

func TestCalibrateInputValidation(t *testing.T) {
	t.Parallel()

	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	if _, err := cds.Calibrate(nil, dc, params); err == nil {
		t.Fatalf("expected error for empty quotes")
	}
	if _, err := cds.Calibrate([]cds.Quote{{Maturity: -1, SpreadBPS: 100}}, dc, params); err == nil {
		t.Fatalf("expected error for non-positive maturity")
	}
	if _, err := cds.Calibrate([]cds.Quote{
		{Maturity: 5, SpreadBPS: 100},
		{Maturity: 5, SpreadBPS: 110},
	}, dc, params); err == nil {
		t.Fatalf("expected error for duplicate maturity")
	}
}

func TestCalibrateUnreachableSpread(t *testing.T) {
	t.Parallel()

	// A 400% running spread cannot be matched by any intensity inside the
	// calibration bracket.
	quotes := []cds.Quote{{Maturity: 5.0, SpreadBPS: 40000.0}}
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	_, err := cds.Calibrate(quotes, dc, params)
	if !errors.Is(err, cds.ErrNoBracket) {
		t.Fatalf("expected ErrNoBracket, got %v", err)
	}
}
