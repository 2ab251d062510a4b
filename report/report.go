// Package report derives pricing and reconciliation rows from a calibrated
// hazard curve for the console/reporting layer. It contains no pricing
// logic of its own.
package report

import (
	"fmt"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
	"github.com/meenmo/cdslib/hazard"
)

// PricingRow describes PV contributions for one quoted tenor, per unit
// notional.
type PricingRow struct {
	Maturity   float64
	Premium    float64
	Protection float64
	Net        float64
	Coupon     float64
	Accrual    float64
	PV01       float64
}

// ParErrorRow reconciles a market quote against the model par spread.
type ParErrorRow struct {
	Maturity  float64
	MarketBPS float64
	ModelBPS  float64
	ErrorBPS  float64
}

// PriceQuotes values each quote's legs off the calibrated curve.
func PriceQuotes(hc hazard.Curve, dc curve.DiscountCurve, quotes []cds.Quote, params cds.Params) ([]PricingRow, error) {
	rows := make([]PricingRow, 0, len(quotes))
	for _, quote := range quotes {
		breakdown, err := cds.PremiumLeg(hc, dc, quote.Maturity, quote.SpreadDecimal(), params)
		if err != nil {
			return nil, fmt.Errorf("PriceQuotes: premium at %.4fy: %w", quote.Maturity, err)
		}
		protection, err := cds.ProtectionLeg(hc, dc, quote.Maturity, params)
		if err != nil {
			return nil, fmt.Errorf("PriceQuotes: protection at %.4fy: %w", quote.Maturity, err)
		}
		pv01, err := cds.PV01(hc, dc, quote.Maturity, params)
		if err != nil {
			return nil, fmt.Errorf("PriceQuotes: pv01 at %.4fy: %w", quote.Maturity, err)
		}
		rows = append(rows, PricingRow{
			Maturity:   quote.Maturity,
			Premium:    breakdown.Total(),
			Protection: protection,
			Net:        protection - breakdown.Total(),
			Coupon:     breakdown.CouponPV,
			Accrual:    breakdown.AccrualOnDefaultPV,
			PV01:       pv01,
		})
	}
	return rows, nil
}

// ParReconciliation recomputes model par spreads and the residual against
// each market quote, in basis points.
func ParReconciliation(hc hazard.Curve, dc curve.DiscountCurve, quotes []cds.Quote, params cds.Params) ([]ParErrorRow, error) {
	rows := make([]ParErrorRow, 0, len(quotes))
	for _, quote := range quotes {
		model, err := cds.ParSpread(hc, dc, quote.Maturity, params)
		if err != nil {
			return nil, fmt.Errorf("ParReconciliation: %.4fy: %w", quote.Maturity, err)
		}
		rows = append(rows, ParErrorRow{
			Maturity:  quote.Maturity,
			MarketBPS: quote.SpreadBPS,
			ModelBPS:  model * 10000.0,
			ErrorBPS:  (model - quote.SpreadDecimal()) * 10000.0,
		})
	}
	return rows, nil
}

// Scale multiplies the per-unit-notional PVs by a notional. Scaling is a
// linear post-processing step; the core always prices per unit.
func Scale(rows []PricingRow, notional float64) []PricingRow {
	scaled := make([]PricingRow, len(rows))
	for i, row := range rows {
		scaled[i] = PricingRow{
			Maturity:   row.Maturity,
			Premium:    row.Premium * notional,
			Protection: row.Protection * notional,
			Net:        row.Net * notional,
			Coupon:     row.Coupon * notional,
			Accrual:    row.Accrual * notional,
			PV01:       row.PV01 * notional,
		}
	}
	return scaled
}
