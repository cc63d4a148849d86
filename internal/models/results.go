package models

import "time"

// TrendDirection is the direction of a market trend.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendStable  TrendDirection = "stable"
	TrendUnknown TrendDirection = "unknown"
)

// RiskLevel classifies investment risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TimeHorizon is the recommended investment holding period.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// MarketTrend is the result of a trend analysis over an area.
type MarketTrend struct {
	Area                   string         `json:"area"`
	Direction              TrendDirection `json:"direction"`
	PriceChangePercent     float64        `json:"price_change_percent"`
	VolumeChangePercent    float64        `json:"volume_change_percent"`
	InventoryChangePercent float64        `json:"inventory_change_percent"`
	PeriodStart            time.Time      `json:"period_start"`
	PeriodEnd              time.Time      `json:"period_end"`
	ConfidenceScore        float64        `json:"confidence_score"`
}

// Valuation is the output of a property value prediction. The named
// contributing factors are the multiplicative terms of the final value.
type Valuation struct {
	PredictedValue      float64            `json:"predicted_value"`
	ConfidenceLow       float64            `json:"confidence_low"`
	ConfidenceHigh      float64            `json:"confidence_high"`
	ConfidenceLevel     float64            `json:"confidence_level"`
	ContributingFactors map[string]float64 `json:"contributing_factors"`
	MarketTrend         TrendDirection     `json:"market_trend"`
	PredictionDate      time.Time          `json:"prediction_date"`
}

// Opportunity is a scored, risk-annotated investment opportunity.
type Opportunity struct {
	Location               string      `json:"location"`
	OpportunityScore       float64     `json:"opportunity_score"`
	PredictedROI           float64     `json:"predicted_roi"`
	PredictedAppreciation  float64     `json:"predicted_appreciation"`
	RentalYield            float64     `json:"rental_yield"`
	RiskLevel              RiskLevel   `json:"risk_level"`
	TimeHorizon            TimeHorizon `json:"time_horizon"`
	KeyFactors             []string    `json:"key_factors"`
	Recommendation         string      `json:"recommendation"`
}

// ROIProjection details the expected return on a property investment over a
// holding period.
type ROIProjection struct {
	TotalROIPercent     float64 `json:"total_roi_percent"`
	AnnualROIPercent    float64 `json:"annual_roi_percent"`
	RentalYieldPercent  float64 `json:"rental_yield_percent"`
	AppreciationPercent float64 `json:"appreciation_percent"`
	TotalRentalIncome   float64 `json:"total_rental_income"`
	TotalAppreciation   float64 `json:"total_appreciation"`
	TotalReturn         float64 `json:"total_return"`
}
