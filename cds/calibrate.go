package cds

import (
	"fmt"
	"sort"

	"github.com/meenmo/cdslib/curve"
	"github.com/meenmo/cdslib/hazard"
)

// Calibration bounds for a single segment's hazard rate. A market spread
// whose implied intensity falls outside this bracket is treated as
// unreachable and aborts the bootstrap.
const (
	hazardLowerBound = 1e-6
	hazardUpperBound = 5.0
)

// Result is a calibrated hazard curve plus the par-spread residual
// (model minus market, decimal) recorded as each segment was solved.
type Result struct {
	Curve     hazard.Curve
	ParErrors []float64
}

// Calibrate bootstraps a piecewise-constant hazard curve from market quotes,
// one maturity bucket at a time. Each step solves for the last segment's
// rate so that the model par spread matches the quoted spread; previously
// solved segments are frozen, so later quotes never influence earlier ones.
//
// A failed step aborts the whole bootstrap; no default rate is substituted.
func Calibrate(quotes []Quote, dc curve.DiscountCurve, params Params) (Result, error) {
	if len(quotes) == 0 {
		return Result{}, fmt.Errorf("Calibrate: quotes are required")
	}

	sorted := append([]Quote(nil), quotes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Maturity < sorted[j].Maturity })

	if sorted[0].Maturity <= 0 {
		return Result{}, fmt.Errorf("Calibrate: maturity must be positive, got %.6f", sorted[0].Maturity)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Maturity == sorted[i-1].Maturity {
			return Result{}, fmt.Errorf("Calibrate: duplicate maturity %.6f", sorted[i].Maturity)
		}
	}

	var (
		base      hazard.Curve
		parErrors = make([]float64, 0, len(sorted))
	)

	for i, quote := range sorted {
		var (
			trial hazard.Curve
			err   error
		)
		if i == 0 {
			trial, err = hazard.FromRates([]float64{quote.Maturity}, []float64{hazardLowerBound})
		} else {
			trial, err = base.Extend(quote.Maturity, hazardLowerBound)
		}
		if err != nil {
			return Result{}, fmt.Errorf("Calibrate: segment to %.4fy: %w", quote.Maturity, err)
		}

		target := quote.SpreadDecimal()
		objective := func(rate float64) (float64, error) {
			model, err := ParSpread(trial.ReplaceLast(rate), dc, quote.Maturity, params)
			if err != nil {
				return 0, err
			}
			return model - target, nil
		}

		solved, err := solveBrent(objective, hazardLowerBound, hazardUpperBound)
		if err != nil {
			return Result{}, fmt.Errorf("Calibrate: %.4fy @ %.2fbp: %w", quote.Maturity, quote.SpreadBPS, err)
		}

		base = trial.ReplaceLast(solved)
		residual, err := objective(solved)
		if err != nil {
			return Result{}, fmt.Errorf("Calibrate: residual at %.4fy: %w", quote.Maturity, err)
		}
		parErrors = append(parErrors, residual)
	}

	return Result{Curve: base, ParErrors: parErrors}, nil
}
