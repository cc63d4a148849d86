package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5250, cfg.Server.Port)
	assert.Equal(t, 150.0, cfg.Valuation.DefaultPricePerSqft)
	assert.Equal(t, 10, cfg.Valuation.MaxComparables)
	assert.Equal(t, 0.3, cfg.Valuation.SizeTolerance)
	assert.Equal(t, 5.0, cfg.Market.EmergingGrowthThreshold)
	assert.Equal(t, 0.2, cfg.Market.SellersMarketThreshold)
	assert.Equal(t, 6.0, cfg.Investment.BaseRentalYield)
	assert.Equal(t, 15.0, cfg.Investment.DefaultMinROI)
	assert.Equal(t, 5, cfg.Investment.DefaultMaxOpportunities)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("VALUATION_MAX_COMPARABLES", "25")
	t.Setenv("INVESTMENT_BASE_RENTAL_YIELD", "4.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Valuation.MaxComparables)
	assert.Equal(t, 4.5, cfg.Investment.BaseRentalYield)
}
