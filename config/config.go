package config

import "github.com/caarlos0/env/v6"

// Config carries the tunable thresholds of the analysis models. Override
// through the environment.
type Config struct {
	Server struct {
		Port int `env:"SERVER_PORT" envDefault:"5250"`
	}

	Valuation struct {
		// Fallback price per square foot when neither comparables nor
		// snapshots exist
		DefaultPricePerSqft float64 `env:"VALUATION_DEFAULT_PRICE_PER_SQFT" envDefault:"150"`

		// Maximum number of comparable transactions per valuation
		MaxComparables int `env:"VALUATION_MAX_COMPARABLES" envDefault:"10"`

		// Maximum relative floor-area difference for a comparable
		SizeTolerance float64 `env:"VALUATION_SIZE_TOLERANCE" envDefault:"0.3"`
	}

	Market struct {
		// Minimum 6-month price growth (%) for an emerging market
		EmergingGrowthThreshold float64 `env:"MARKET_EMERGING_GROWTH_THRESHOLD" envDefault:"5.0"`

		// Absorption rate above which a market favors sellers
		SellersMarketThreshold float64 `env:"MARKET_SELLERS_THRESHOLD" envDefault:"0.2"`
	}

	Investment struct {
		// Assumed annual rental yield (%) per area, pending real rental data
		BaseRentalYield float64 `env:"INVESTMENT_BASE_RENTAL_YIELD" envDefault:"6.0"`

		// Default minimum acceptable ROI (%) when ranking opportunities
		DefaultMinROI float64 `env:"INVESTMENT_DEFAULT_MIN_ROI" envDefault:"15.0"`

		// Default maximum number of ranked opportunities
		DefaultMaxOpportunities int `env:"INVESTMENT_DEFAULT_MAX_OPPORTUNITIES" envDefault:"5"`
	}
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
