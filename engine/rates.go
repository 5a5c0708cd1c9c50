/*
rates.go - Rate constants as an explicit configuration value

PURPOSE:
  The original system kept lending rates in process-wide globals. Here they
  are an immutable Rates value constructed once at startup and passed into
  each calculator, which keeps every computation deterministic and lets
  tests run varied rate regimes side by side.

FIELDS:
  OneMonthDays           30    billing month length in days
  GracePeriodDays        7     extra days still counted as the same month
  OneYearMonths          12
  OneYearMonthThreshold  6     point accrual starts after this many months
  MonthlyLendingRate     0.02  2% per month
  PointsValuePerUnit     1000  money value of one point
  Multiplier             interest-ratio to limit-multiplier interpolation

SEE ALSO:
  - limit.go: Uses the Multiplier rule
  - factory/rates.go: JSON loading with defaults
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// MultiplierRule maps a member's interest-to-savings ratio onto a borrowing
// limit multiplier by linear interpolation between its two anchor points.
type MultiplierRule struct {
	MinInterestRatio decimal.Decimal // ratio at (or below) which MaxMultiplier applies
	MaxInterestRatio decimal.Decimal // ratio at (or above) which MinMultiplier applies
	MinMultiplier    decimal.Decimal
	MaxMultiplier    decimal.Decimal
}

// Rates is the engine's complete rate configuration. Read-only for the
// engine's lifetime; there is no hot-reload contract.
type Rates struct {
	OneMonthDays          int
	GracePeriodDays       int
	OneYearMonths         int
	OneYearMonthThreshold int
	MonthlyLendingRate    decimal.Decimal
	PointsValuePerUnit    decimal.Decimal
	Multiplier            MultiplierRule
}

// DefaultRates returns the club's standing rate regime.
func DefaultRates() Rates {
	return Rates{
		OneMonthDays:          30,
		GracePeriodDays:       7,
		OneYearMonths:         12,
		OneYearMonthThreshold: 6,
		MonthlyLendingRate:    decimal.RequireFromString("0.02"),
		PointsValuePerUnit:    decimal.NewFromInt(1000),
		Multiplier: MultiplierRule{
			MinInterestRatio: decimal.RequireFromString("0.18"),
			MaxInterestRatio: decimal.RequireFromString("0.36"),
			MinMultiplier:    decimal.RequireFromString("1.2"),
			MaxMultiplier:    decimal.RequireFromString("2.0"),
		},
	}
}

// Validate checks the configuration for internal consistency.
func (r Rates) Validate() error {
	if r.OneMonthDays <= 0 {
		return NewInvalidInput("one_month_days", "must be positive")
	}
	if r.GracePeriodDays < 0 || r.GracePeriodDays >= r.OneMonthDays {
		return NewInvalidInput("grace_period_days", "must be in [0, one_month_days)")
	}
	if r.OneYearMonths <= 0 {
		return NewInvalidInput("one_year_months", "must be positive")
	}
	if r.OneYearMonthThreshold < 0 || r.OneYearMonthThreshold > r.OneYearMonths {
		return NewInvalidInput("one_year_month_threshold", "must be in [0, one_year_months]")
	}
	if !r.MonthlyLendingRate.IsPositive() {
		return NewInvalidInput("monthly_lending_rate", "must be positive")
	}
	if !r.PointsValuePerUnit.IsPositive() {
		return NewInvalidInput("points_value_per_unit", "must be positive")
	}
	m := r.Multiplier
	if m.MinInterestRatio.GreaterThanOrEqual(m.MaxInterestRatio) {
		return NewInvalidInput("multiplier", "min_interest_ratio must be below max_interest_ratio")
	}
	if m.MinMultiplier.GreaterThanOrEqual(m.MaxMultiplier) {
		return NewInvalidInput("multiplier", "min_multiplier must be below max_multiplier")
	}
	return nil
}
