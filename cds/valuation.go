// Package cds values credit default swap legs under ISDA V timing
// conventions and bootstraps piecewise hazard curves from market spreads.
package cds

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/meenmo/cdslib/curve"
	"github.com/meenmo/cdslib/hazard"
)

// PremiumLegBreakdown decomposes the premium leg into the scheduled coupon
// PV and the accrual-on-default PV.
type PremiumLegBreakdown struct {
	CouponPV           float64
	AccrualOnDefaultPV float64
}

// Total is the full premium leg present value.
func (b PremiumLegBreakdown) Total() float64 {
	return b.CouponPV + b.AccrualOnDefaultPV
}

// couponTimes returns payment times k/frequency for k = 1..round(maturity*frequency).
// A maturity shorter than one coupon period yields an empty schedule.
func couponTimes(maturity float64, frequency int) []float64 {
	count := int(math.Round(maturity * float64(frequency)))
	if count <= 0 {
		return nil
	}
	times := make([]float64, count)
	for k := 1; k <= count; k++ {
		times[k-1] = float64(k) / float64(frequency)
	}
	return times
}

// periodStarts shifts the payment times by one period, with the first
// period starting at zero.
func periodStarts(times []float64) []float64 {
	if len(times) == 0 {
		return nil
	}
	starts := make([]float64, len(times))
	copy(starts[1:], times[:len(times)-1])
	return starts
}

// conditionalSurvival returns survival probabilities at the given times,
// conditional on survival to the step-in date.
func conditionalSurvival(hc hazard.Curve, times []float64, params Params) ([]float64, error) {
	if len(times) == 0 {
		return nil, nil
	}
	offset := params.StepInYears()
	base := hc.SurvivalProbability(offset)
	if base <= 0 {
		return nil, fmt.Errorf("conditionalSurvival: %w (base %.6e)", ErrInvalidSurvival, base)
	}
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = hc.SurvivalProbability(offset+t) / base
	}
	return out, nil
}

// PremiumLeg returns the premium leg breakdown for a running coupon quoted
// as a decimal rate. Both components are linear in the coupon.
func PremiumLeg(hc hazard.Curve, dc curve.DiscountCurve, maturity, coupon float64, params Params) (PremiumLegBreakdown, error) {
	times := couponTimes(maturity, params.Frequency)
	if len(times) == 0 {
		return PremiumLegBreakdown{}, nil
	}
	starts := periodStarts(times)

	survEnd, err := conditionalSurvival(hc, times, params)
	if err != nil {
		return PremiumLegBreakdown{}, fmt.Errorf("PremiumLeg: %w", err)
	}

	offset := params.PaymentOffset()
	couponPV := 0.0
	for i, t := range times {
		accrual := t - starts[i]
		couponPV += coupon * accrual * dc.DF(offset+t) * survEnd[i]
	}

	if !params.AccrualOnDefault {
		return PremiumLegBreakdown{CouponPV: couponPV}, nil
	}

	accrualPV, err := accrualOnDefaultPV(hc, dc, params, starts, times, coupon)
	if err != nil {
		return PremiumLegBreakdown{}, fmt.Errorf("PremiumLeg: %w", err)
	}
	return PremiumLegBreakdown{CouponPV: couponPV, AccrualOnDefaultPV: accrualPV}, nil
}

// PremiumLegPV is the total premium leg present value.
func PremiumLegPV(hc hazard.Curve, dc curve.DiscountCurve, maturity, coupon float64, params Params) (float64, error) {
	breakdown, err := PremiumLeg(hc, dc, maturity, coupon, params)
	if err != nil {
		return 0, err
	}
	return breakdown.Total(), nil
}

// Annuity is the premium leg present value for a unit (100%) spread.
func Annuity(hc hazard.Curve, dc curve.DiscountCurve, maturity float64, params Params) (float64, error) {
	return PremiumLegPV(hc, dc, maturity, 1.0, params)
}

// PV01 is the present value of one basis point of running spread.
func PV01(hc hazard.Curve, dc curve.DiscountCurve, maturity float64, params Params) (float64, error) {
	annuity, err := Annuity(hc, dc, maturity, params)
	if err != nil {
		return 0, err
	}
	return annuity / 10000.0, nil
}

// integrationSteps is the accrual integral's discretization policy:
// roughly semi-monthly resolution, floored at 6 and capped at 512 steps.
// The count is part of the valuation contract, not an accuracy knob.
func integrationSteps(length float64, params Params) int {
	approxDays := math.Max(length*params.DayCount, 1.0)
	steps := int(math.Ceil(approxDays / 15.0))
	if steps < 6 {
		steps = 6
	}
	if steps > 512 {
		steps = 512
	}
	return steps
}

// accrualOnDefaultPV integrates (t - start) * defaultDensity(t) * df(t)
// over each coupon period with the trapezoid rule on a uniform grid.
func accrualOnDefaultPV(hc hazard.Curve, dc curve.DiscountCurve, params Params, starts, ends []float64, coupon float64) (float64, error) {
	stepIn := params.StepInYears()
	payOffset := params.PaymentOffset()

	base := hc.SurvivalProbability(stepIn)
	if base <= 0 {
		return 0, fmt.Errorf("accrualOnDefaultPV: %w (base %.6e)", ErrInvalidSurvival, base)
	}

	total := 0.0
	for i := range ends {
		start, end := starts[i], ends[i]
		if end <= start {
			continue
		}
		steps := integrationSteps(end-start, params)
		grid := floats.Span(make([]float64, steps+1), start, end)
		integrand := make([]float64, len(grid))
		for j, t := range grid {
			absolute := stepIn + t
			density := hc.Intensity(absolute) * hc.SurvivalProbability(absolute) / base
			integrand[j] = (t - start) * density * dc.DF(payOffset+t)
		}
		total += integrate.Trapezoidal(grid, integrand)
	}
	return coupon * total, nil
}

// ProtectionLeg values the contingent leg. Default within a coupon period
// is assumed to occur at the period midpoint.
func ProtectionLeg(hc hazard.Curve, dc curve.DiscountCurve, maturity float64, params Params) (float64, error) {
	times := couponTimes(maturity, params.Frequency)
	if len(times) == 0 {
		return 0, nil
	}
	starts := periodStarts(times)

	survEnd, err := conditionalSurvival(hc, times, params)
	if err != nil {
		return 0, fmt.Errorf("ProtectionLeg: %w", err)
	}
	survStart, err := conditionalSurvival(hc, starts, params)
	if err != nil {
		return 0, fmt.Errorf("ProtectionLeg: %w", err)
	}

	offset := params.PaymentOffset()
	pv := 0.0
	for i, t := range times {
		defaultProb := survStart[i] - survEnd[i]
		mid := starts[i] + 0.5*(t-starts[i])
		pv += dc.DF(offset+mid) * defaultProb
	}
	return params.LGD() * pv, nil
}

// ParSpread is the coupon rate equating premium and protection leg PVs,
// as a decimal.
func ParSpread(hc hazard.Curve, dc curve.DiscountCurve, maturity float64, params Params) (float64, error) {
	protection, err := ProtectionLeg(hc, dc, maturity, params)
	if err != nil {
		return 0, fmt.Errorf("ParSpread: %w", err)
	}
	annuity, err := Annuity(hc, dc, maturity, params)
	if err != nil {
		return 0, fmt.Errorf("ParSpread: %w", err)
	}
	if annuity == 0 {
		return 0, fmt.Errorf("ParSpread: %w (maturity %.4f, frequency %d)", ErrZeroAnnuity, maturity, params.Frequency)
	}
	return protection / annuity, nil
}
