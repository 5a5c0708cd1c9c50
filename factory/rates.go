/*
Package factory provides JSON to engine.Rates conversion.

PURPOSE:
  Lets deployments override the club's rate regime without code changes:
  administrators keep a JSON rates file under version control, and the
  server loads it at startup. Omitted fields fall back to the defaults,
  and the result is validated before the engine ever sees it.

JSON SCHEMA:
  {
    "one_month_days": 30,
    "grace_period_days": 7,
    "one_year_months": 12,
    "one_year_month_threshold": 6,
    "monthly_lending_rate": "0.02",
    "points_value_per_unit": "1000",
    "multiplier": {
      "min_interest_ratio": "0.18",
      "max_interest_ratio": "0.36",
      "min_multiplier": "1.2",
      "max_multiplier": "2.0"
    }
  }

  Rates and ratios are JSON strings so they parse losslessly into
  decimals.

USAGE:
  rates, err := factory.ParseRates(jsonBytes)
  // or
  rates, err := factory.LoadRatesFile("./rates.json")

SEE ALSO:
  - engine/rates.go: The Rates value and its validation
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RatesJSON struct {
	OneMonthDays          *int            `json:"one_month_days,omitempty"`
	GracePeriodDays       *int            `json:"grace_period_days,omitempty"`
	OneYearMonths         *int            `json:"one_year_months,omitempty"`
	OneYearMonthThreshold *int            `json:"one_year_month_threshold,omitempty"`
	MonthlyLendingRate    string          `json:"monthly_lending_rate,omitempty"`
	PointsValuePerUnit    string          `json:"points_value_per_unit,omitempty"`
	Multiplier            *MultiplierJSON `json:"multiplier,omitempty"`
}

type MultiplierJSON struct {
	MinInterestRatio string `json:"min_interest_ratio,omitempty"`
	MaxInterestRatio string `json:"max_interest_ratio,omitempty"`
	MinMultiplier    string `json:"min_multiplier,omitempty"`
	MaxMultiplier    string `json:"max_multiplier,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRates builds a validated engine.Rates from JSON, filling omitted
// fields from the defaults.
func ParseRates(data []byte) (engine.Rates, error) {
	var cfg RatesJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return engine.Rates{}, fmt.Errorf("invalid rates JSON: %w", err)
	}

	rates := engine.DefaultRates()

	if cfg.OneMonthDays != nil {
		rates.OneMonthDays = *cfg.OneMonthDays
	}
	if cfg.GracePeriodDays != nil {
		rates.GracePeriodDays = *cfg.GracePeriodDays
	}
	if cfg.OneYearMonths != nil {
		rates.OneYearMonths = *cfg.OneYearMonths
	}
	if cfg.OneYearMonthThreshold != nil {
		rates.OneYearMonthThreshold = *cfg.OneYearMonthThreshold
	}

	var err error
	if rates.MonthlyLendingRate, err = override(rates.MonthlyLendingRate, cfg.MonthlyLendingRate, "monthly_lending_rate"); err != nil {
		return engine.Rates{}, err
	}
	if rates.PointsValuePerUnit, err = override(rates.PointsValuePerUnit, cfg.PointsValuePerUnit, "points_value_per_unit"); err != nil {
		return engine.Rates{}, err
	}

	if cfg.Multiplier != nil {
		m := &rates.Multiplier
		if m.MinInterestRatio, err = override(m.MinInterestRatio, cfg.Multiplier.MinInterestRatio, "min_interest_ratio"); err != nil {
			return engine.Rates{}, err
		}
		if m.MaxInterestRatio, err = override(m.MaxInterestRatio, cfg.Multiplier.MaxInterestRatio, "max_interest_ratio"); err != nil {
			return engine.Rates{}, err
		}
		if m.MinMultiplier, err = override(m.MinMultiplier, cfg.Multiplier.MinMultiplier, "min_multiplier"); err != nil {
			return engine.Rates{}, err
		}
		if m.MaxMultiplier, err = override(m.MaxMultiplier, cfg.Multiplier.MaxMultiplier, "max_multiplier"); err != nil {
			return engine.Rates{}, err
		}
	}

	if err := rates.Validate(); err != nil {
		return engine.Rates{}, err
	}
	return rates, nil
}

// LoadRatesFile reads and parses a rates file. An empty path returns the
// defaults.
func LoadRatesFile(path string) (engine.Rates, error) {
	if path == "" {
		return engine.DefaultRates(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Rates{}, fmt.Errorf("read rates file: %w", err)
	}
	return ParseRates(data)
}

func override(current decimal.Decimal, raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return current, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return value, nil
}
