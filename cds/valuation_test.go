package cds_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
	"github.com/meenmo/cdslib/hazard"
)

func mustCurve(t *testing.T, maturities, rates []float64) hazard.Curve {
	t.Helper()
	hc, err := hazard.FromRates(maturities, rates)
	if err != nil {
		t.Fatalf("FromRates error: %v", err)
	}
	return hc
}

func TestPV01Identity(t *testing.T) {
	t.Parallel()

	hc := mustCurve(t, []float64{2.0, 5.0}, []float64{0.015, 0.025})
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	for _, maturity := range []float64{1.0, 2.0, 5.0} {
		annuity, err := cds.Annuity(hc, dc, maturity, params)
		if err != nil {
			t.Fatalf("Annuity(%.1f) error: %v", maturity, err)
		}
		pv01, err := cds.PV01(hc, dc, maturity, params)
		if err != nil {
			t.Fatalf("PV01(%.1f) error: %v", maturity, err)
		}
		if math.Abs(annuity-pv01*10000.0) > 1e-12 {
			t.Fatalf("PV01 identity broken at %.1fy: annuity %.15f pv01*1e4 %.15f", maturity, annuity, pv01*10000.0)
		}
	}
}

func TestPremiumLegLinearInCoupon(t *testing.T) {
	t.Parallel()

	hc := mustCurve(t, []float64{5.0}, []float64{0.02})
	dc := curve.Flat{Rate: 0.015}
	params := cds.DefaultParams()

	annuity, err := cds.Annuity(hc, dc, 5.0, params)
	if err != nil {
		t.Fatalf("Annuity error: %v", err)
	}
	for _, s := range []float64{0.0025, 0.01, 0.055} {
		pv, err := cds.PremiumLegPV(hc, dc, 5.0, s, params)
		if err != nil {
			t.Fatalf("PremiumLegPV(%.4f) error: %v", s, err)
		}
		if math.Abs(pv-s*annuity) > 1e-12 {
			t.Fatalf("premium leg not linear at s=%.4f: pv %.15f want %.15f", s, pv, s*annuity)
		}
	}
}

func TestShortMaturityBoundary(t *testing.T) {
	t.Parallel()

	hc := mustCurve(t, []float64{5.0}, []float64{0.02})
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams() // quarterly: round(0.1 * 4) == 0

	premium, err := cds.PremiumLegPV(hc, dc, 0.1, 0.01, params)
	if err != nil {
		t.Fatalf("PremiumLegPV error: %v", err)
	}
	if premium != 0 {
		t.Fatalf("premium PV should be exactly 0, got %.15f", premium)
	}

	protection, err := cds.ProtectionLeg(hc, dc, 0.1, params)
	if err != nil {
		t.Fatalf("ProtectionLeg error: %v", err)
	}
	if protection != 0 {
		t.Fatalf("protection PV should be exactly 0, got %.15f", protection)
	}

	if _, err := cds.ParSpread(hc, dc, 0.1, params); !errors.Is(err, cds.ErrZeroAnnuity) {
		t.Fatalf("expected ErrZeroAnnuity, got %v", err)
	}
}

func TestProtectionLegCreditTriangle(t *testing.T) {
	t.Parallel()

	// Zero recovery, zero rates and no payment delays make the midpoint
	// discretization exact: the default probabilities telescope to
	// 1 - exp(-h*T).
	const h, maturity = 0.03, 5.0
	hc := mustCurve(t, []float64{maturity}, []float64{h})
	dc := curve.Flat{Rate: 0}
	params := cds.Params{
		RecoveryRate:     0,
		Frequency:        4,
		StepInDays:       0,
		CashSettleDays:   0,
		DayCount:         365.0,
		AccrualOnDefault: false,
	}

	got, err := cds.ProtectionLeg(hc, dc, maturity, params)
	if err != nil {
		t.Fatalf("ProtectionLeg error: %v", err)
	}
	want := 1.0 - math.Exp(-h*maturity)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("credit triangle mismatch: got %.15f want %.15f", got, want)
	}
}

func TestAccrualOnDefaultContribution(t *testing.T) {
	t.Parallel()

	hc := mustCurve(t, []float64{5.0}, []float64{0.02})
	dc := curve.Flat{Rate: 0.01}

	withAccrual := cds.DefaultParams()
	withoutAccrual := withAccrual
	withoutAccrual.AccrualOnDefault = false

	full, err := cds.PremiumLeg(hc, dc, 5.0, 0.01, withAccrual)
	if err != nil {
		t.Fatalf("PremiumLeg error: %v", err)
	}
	bare, err := cds.PremiumLeg(hc, dc, 5.0, 0.01, withoutAccrual)
	if err != nil {
		t.Fatalf("PremiumLeg error: %v", err)
	}

	if bare.AccrualOnDefaultPV != 0 {
		t.Fatalf("accrual PV should be 0 when disabled, got %.15f", bare.AccrualOnDefaultPV)
	}
	if full.AccrualOnDefaultPV <= 0 {
		t.Fatalf("accrual PV should be positive, got %.15f", full.AccrualOnDefaultPV)
	}
	if math.Abs(full.CouponPV-bare.CouponPV) > 1e-15 {
		t.Fatalf("coupon PV must not depend on the accrual flag: %.15f vs %.15f", full.CouponPV, bare.CouponPV)
	}
	// The accrued stub is worth far less than a full coupon period.
	if full.AccrualOnDefaultPV >= full.CouponPV {
		t.Fatalf("accrual PV %.15f unexpectedly exceeds coupon PV %.15f", full.AccrualOnDefaultPV, full.CouponPV)
	}
}

func TestDegenerateHazardCurve(t *testing.T) {
	t.Parallel()

	// Intensity steep enough that survival underflows to zero at the
	// step-in date.
	hc := mustCurve(t, []float64{5.0}, []float64{3e8})
	dc := curve.Flat{Rate: 0.01}
	params := cds.DefaultParams()

	if _, err := cds.PremiumLegPV(hc, dc, 5.0, 0.01, params); !errors.Is(err, cds.ErrInvalidSurvival) {
		t.Fatalf("expected ErrInvalidSurvival, got %v", err)
	}
	if _, err := cds.ProtectionLeg(hc, dc, 5.0, params); !errors.Is(err, cds.ErrInvalidSurvival) {
		t.Fatalf("expected ErrInvalidSurvival, got %v", err)
	}
}
