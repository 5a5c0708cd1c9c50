package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/factory"
)

func TestParseRates_EmptyObjectIsDefaults(t *testing.T) {
	rates, err := factory.ParseRates([]byte(`{}`))
	require.NoError(t, err)

	def := engine.DefaultRates()
	assert.Equal(t, def.OneMonthDays, rates.OneMonthDays)
	assert.Equal(t, def.GracePeriodDays, rates.GracePeriodDays)
	assert.True(t, rates.MonthlyLendingRate.Equal(def.MonthlyLendingRate))
	assert.True(t, rates.Multiplier.MaxMultiplier.Equal(def.Multiplier.MaxMultiplier))
}

func TestParseRates_Overrides(t *testing.T) {
	rates, err := factory.ParseRates([]byte(`{
		"grace_period_days": 5,
		"monthly_lending_rate": "0.015",
		"multiplier": {"max_multiplier": "2.5"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 5, rates.GracePeriodDays)
	assert.True(t, rates.MonthlyLendingRate.Equal(decimal.RequireFromString("0.015")))
	assert.True(t, rates.Multiplier.MaxMultiplier.Equal(decimal.RequireFromString("2.5")))
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, rates.OneMonthDays)
	assert.True(t, rates.Multiplier.MinMultiplier.Equal(decimal.RequireFromString("1.2")))
}

func TestParseRates_RejectsInvalid(t *testing.T) {
	// Malformed JSON.
	_, err := factory.ParseRates([]byte(`{`))
	assert.Error(t, err)

	// Unparseable decimal.
	_, err = factory.ParseRates([]byte(`{"monthly_lending_rate": "two percent"}`))
	assert.Error(t, err)

	// Structurally valid but inconsistent: grace window a month long.
	_, err = factory.ParseRates([]byte(`{"grace_period_days": 30}`))
	assert.True(t, engine.IsInvalidInput(err))
}

func TestLoadRatesFile_EmptyPathIsDefaults(t *testing.T) {
	rates, err := factory.LoadRatesFile("")
	require.NoError(t, err)
	assert.True(t, rates.MonthlyLendingRate.Equal(engine.DefaultRates().MonthlyLendingRate))
}
