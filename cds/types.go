package cds

import "errors"

var (
	// ErrInvalidSurvival is returned when the survival probability at the
	// step-in date is not positive (degenerate or too-steep hazard curve).
	ErrInvalidSurvival = errors.New("invalid survival probability at step-in date")

	// ErrZeroAnnuity is returned when a par spread is requested for a
	// maturity whose premium-leg annuity is exactly zero.
	ErrZeroAnnuity = errors.New("premium leg annuity is zero")

	// ErrNoBracket is returned when the root-finder bracket does not
	// contain a sign change.
	ErrNoBracket = errors.New("root is not bracketed")

	// ErrNoConvergence is returned when the root-finder exhausts its
	// iteration budget without converging to tolerance.
	ErrNoConvergence = errors.New("root-finder failed to converge")
)

// Quote is a market CDS quote: maturity in years and running spread in
// basis points.
type Quote struct {
	Maturity  float64
	SpreadBPS float64
}

// SpreadDecimal returns the quoted spread as a decimal rate.
func (q Quote) SpreadDecimal() float64 {
	return q.SpreadBPS / 10000.0
}

// Params holds the ISDA V timing and recovery conventions shared by all
// valuation calls in a run. The value is immutable and safe to share by
// reference across concurrent calibrations.
type Params struct {
	// RecoveryRate is the assumed fraction of notional recovered on
	// default, in [0, 1].
	RecoveryRate float64

	// Frequency is the number of coupon payments per year.
	Frequency int

	// StepInDays delays the date at which credit protection is deemed
	// effective.
	StepInDays int

	// CashSettleDays delays cash settlement of contingent payments.
	CashSettleDays int

	// DayCount is the denominator converting days to years (e.g. 365).
	DayCount float64

	// AccrualOnDefault pays accrued coupon up to the default time when set.
	AccrualOnDefault bool
}

// DefaultParams returns the documented market defaults: 40% recovery,
// quarterly coupons, T+1 step-in, T+3 cash settlement, ACT/365 accrual,
// accrual-on-default enabled.
func DefaultParams() Params {
	return Params{
		RecoveryRate:     0.4,
		Frequency:        4,
		StepInDays:       1,
		CashSettleDays:   3,
		DayCount:         365.0,
		AccrualOnDefault: true,
	}
}

// StepInYears converts the step-in delay to years.
func (p Params) StepInYears() float64 {
	return float64(p.StepInDays) / p.DayCount
}

// CashSettleYears converts the cash-settlement delay to years.
func (p Params) CashSettleYears() float64 {
	return float64(p.CashSettleDays) / p.DayCount
}

// PaymentOffset is the combined step-in plus cash-settlement delay applied
// to discounting.
func (p Params) PaymentOffset() float64 {
	return p.StepInYears() + p.CashSettleYears()
}

// LGD is the loss given default, 1 - recovery.
func (p Params) LGD() float64 {
	return 1.0 - p.RecoveryRate
}
