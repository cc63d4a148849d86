package models

import "time"

// DefaultSellersMarketThreshold is the absorption rate above which a market
// is considered to favor sellers.
const DefaultSellersMarketThreshold = 0.2

// MarketSnapshot captures aggregate market conditions for one area at one
// point in time.
type MarketSnapshot struct {
	Area               string                 `json:"area"`
	Date               time.Time              `json:"date"`
	MedianPrice        float64                `json:"median_price"`
	AveragePrice       float64                `json:"average_price"`
	TotalSales         int                    `json:"total_sales"`
	Inventory          int                    `json:"inventory"`
	DaysOnMarket       float64                `json:"days_on_market"`
	PricePerSqft       float64                `json:"price_per_sqft"`
	EconomicIndicators map[string]float64     `json:"economic_indicators,omitempty"`
	DemographicData    map[string]interface{} `json:"demographic_data,omitempty"`
	SeasonalFactors    map[string]float64     `json:"seasonal_factors,omitempty"`
}

// AbsorptionRate returns monthly sales divided by current inventory,
// or 0 when there is no inventory.
func (m *MarketSnapshot) AbsorptionRate() float64 {
	return SafeRatio(float64(m.TotalSales), float64(m.Inventory), 0)
}

// IsSellersMarket reports whether the absorption rate exceeds the threshold.
func (m *MarketSnapshot) IsSellersMarket(threshold float64) bool {
	return m.AbsorptionRate() > threshold
}
