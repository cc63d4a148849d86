package investment

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"estateiq/server/config"
	"estateiq/server/internal/market"
	"estateiq/server/internal/models"
	"estateiq/server/internal/store"
)

// rentPerSqft is the monthly rent rate per unit of area by property type,
// used when no rent estimate is supplied.
var rentPerSqft = map[models.PropertyType]float64{
	models.PropertyTypeApartment:   1.5,
	models.PropertyTypeVilla:       1.8,
	models.PropertyTypeTownhouse:   1.6,
	models.PropertyTypeResidential: 1.5,
	models.PropertyTypeCommercial:  2.0,
}

const defaultRentPerSqft = 1.5

// Analyzer scores and ranks investment opportunities and projects returns.
type Analyzer struct {
	store  *store.Store
	market *market.Analyzer
	cfg    *config.Config
	logger *logrus.Logger
}

// NewAnalyzer creates an investment analyzer on top of the market analyzer.
func NewAnalyzer(recordStore *store.Store, marketAnalyzer *market.Analyzer, cfg *config.Config, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{
		store:  recordStore,
		market: marketAnalyzer,
		cfg:    cfg,
		logger: logger,
	}
}

// RentalYield returns the expected annual rental yield (%) for a property at
// the given purchase price. When monthlyRent is nil the rent is estimated
// from the property's type, size and amenities.
func (a *Analyzer) RentalYield(prop models.Property, purchasePrice float64, monthlyRent *float64) (float64, error) {
	if purchasePrice <= 0 {
		return 0, fmt.Errorf("%w: purchase price must be positive, got %v", models.ErrInvalidInput, purchasePrice)
	}

	var rent float64
	if monthlyRent != nil {
		rent = *monthlyRent
	} else {
		if err := prop.Validate(); err != nil {
			return 0, err
		}
		rent = a.estimateMonthlyRent(prop)
	}

	annualRent := rent * 12
	return annualRent / purchasePrice * 100, nil
}

// estimateMonthlyRent derives a rent estimate from type-specific rates with
// a 2% bump per amenity.
func (a *Analyzer) estimateMonthlyRent(prop models.Property) float64 {
	rate, ok := rentPerSqft[prop.PropertyType]
	if !ok {
		rate = defaultRentPerSqft
	}

	baseRent := prop.SquareFeet * rate
	amenityBonus := float64(len(prop.Amenities)) * 0.02
	return baseRent * (1.0 + amenityBonus)
}

// ProjectROI projects the return on a property held for the given number of
// years. When appreciationRate is nil the dampened 12-month market trend for
// the property's location is used.
func (a *Analyzer) ProjectROI(prop models.Property, purchasePrice float64, holdingYears int, appreciationRate *float64) (models.ROIProjection, error) {
	if holdingYears <= 0 {
		return models.ROIProjection{}, fmt.Errorf("%w: holding period must be positive, got %d", models.ErrInvalidInput, holdingYears)
	}

	rentalYield, err := a.RentalYield(prop, purchasePrice, nil)
	if err != nil {
		return models.ROIProjection{}, err
	}

	var rate float64
	if appreciationRate != nil {
		rate = *appreciationRate
	} else {
		trend := a.market.AnalyzeTrend(prop.Location, market.DefaultTrendMonths)
		// Trends do not continue forever; dampen the historical change.
		rate = trend.PriceChangePercent * 0.7
	}

	annualRentalIncome := purchasePrice * (rentalYield / 100)
	totalRentalIncome := annualRentalIncome * float64(holdingYears)

	appreciation := purchasePrice * (math.Pow(1+rate/100, float64(holdingYears)) - 1)

	totalReturn := totalRentalIncome + appreciation
	roiPercent := totalReturn / purchasePrice * 100

	return models.ROIProjection{
		TotalROIPercent:     roiPercent,
		AnnualROIPercent:    roiPercent / float64(holdingYears),
		RentalYieldPercent:  rentalYield,
		AppreciationPercent: appreciation / purchasePrice * 100,
		TotalRentalIncome:   totalRentalIncome,
		TotalAppreciation:   appreciation,
		TotalReturn:         totalReturn,
	}, nil
}

// RankOpportunities scores every registered neighborhood and returns up to
// maxResults opportunities with predicted ROI at or above minROI, ordered by
// opportunity score descending. Ties keep neighborhood insertion order.
func (a *Analyzer) RankOpportunities(maxResults int, minROI float64) []models.Opportunity {
	var opportunities []models.Opportunity

	for _, neighborhood := range a.store.Neighborhoods() {
		area := neighborhood.Name

		trend := a.market.AnalyzeTrend(area, market.DefaultTrendMonths)
		heatIndex := a.market.HeatIndex(area)
		velocity := a.market.Velocity(area)

		score := a.opportunityScore(neighborhood, trend, heatIndex, velocity)
		predictedROI := a.areaROI(trend)

		if predictedROI < minROI {
			continue
		}

		opportunities = append(opportunities, models.Opportunity{
			Location:              area,
			OpportunityScore:      score,
			PredictedROI:          predictedROI,
			PredictedAppreciation: trend.PriceChangePercent,
			RentalYield:           a.cfg.Investment.BaseRentalYield,
			RiskLevel:             riskLevel(trend, heatIndex, neighborhood),
			TimeHorizon:           timeHorizon(trend),
			KeyFactors:            keyFactors(neighborhood, trend, heatIndex),
			Recommendation:        recommendation(score, predictedROI, riskLevel(trend, heatIndex, neighborhood)),
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].OpportunityScore > opportunities[j].OpportunityScore
	})

	if maxResults > 0 && len(opportunities) > maxResults {
		opportunities = opportunities[:maxResults]
	}

	a.logger.WithFields(logrus.Fields{
		"candidates": len(a.store.Neighborhoods()),
		"returned":   len(opportunities),
		"min_roi":    minROI,
	}).Debug("Ranked investment opportunities")

	return opportunities
}

// opportunityScore combines desirability, market conditions, growth and
// economic factors into a 0-100 score.
func (a *Analyzer) opportunityScore(n models.Neighborhood, trend models.MarketTrend, heatIndex, velocity float64) float64 {
	desirability := n.DesirabilityScore()
	marketScore := (heatIndex + velocity) / 2
	growthScore := models.Clamp(trend.PriceChangePercent*5, 0, 50)
	economicScore := math.Min(n.EmploymentRate, 50) + math.Min(n.GrowthRate*10, 25)

	score := desirability*0.30 +
		marketScore*0.25 +
		growthScore*0.25 +
		economicScore*0.20

	return models.Clamp(score, 0, 100)
}

// areaROI estimates a 5-year ROI from the trend plus the assumed area
// rental yield.
func (a *Analyzer) areaROI(trend models.MarketTrend) float64 {
	appreciationROI := trend.PriceChangePercent * 5
	rentalROI := a.cfg.Investment.BaseRentalYield * 5
	return appreciationROI + rentalROI
}

func riskLevel(trend models.MarketTrend, heatIndex float64, n models.Neighborhood) models.RiskLevel {
	riskFactors := 0
	if math.Abs(trend.PriceChangePercent) > 15 {
		riskFactors++
	}
	if heatIndex > 80 {
		riskFactors++
	}
	if n.CrimeRate > 10 {
		riskFactors++
	}
	if trend.ConfidenceScore < 0.5 {
		riskFactors++
	}

	switch {
	case riskFactors >= 3:
		return models.RiskHigh
	case riskFactors >= 1:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func timeHorizon(trend models.MarketTrend) models.TimeHorizon {
	switch {
	case trend.PriceChangePercent > 10:
		return models.HorizonShort
	case trend.PriceChangePercent > 3:
		return models.HorizonMedium
	default:
		return models.HorizonLong
	}
}

// keyFactors runs the fixed checklist in order and keeps the first five
// matches.
func keyFactors(n models.Neighborhood, trend models.MarketTrend, heatIndex float64) []string {
	var factors []string

	if trend.PriceChangePercent > 5 {
		factors = append(factors, "Strong price appreciation")
	}
	if n.GrowthRate > 0.05 {
		factors = append(factors, "High population growth")
	}
	if n.SchoolRating > 8 {
		factors = append(factors, "Excellent schools")
	}
	if heatIndex > 70 {
		factors = append(factors, "Hot market with high demand")
	}
	if n.WalkabilityScore > 70 {
		factors = append(factors, "High walkability")
	}
	if n.MedianIncome > 75000 {
		factors = append(factors, "High-income area")
	}

	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}

func recommendation(score, predictedROI float64, risk models.RiskLevel) string {
	switch {
	case score > 75 && predictedROI > 25:
		return "Strong Buy - High opportunity with excellent returns"
	case score > 60 && predictedROI > 15:
		return "Buy - Good opportunity with solid returns"
	case score > 45 && predictedROI > 10:
		return "Consider - Moderate opportunity, suitable for diversification"
	case risk == models.RiskHigh:
		return "Caution - High risk, recommend thorough due diligence"
	default:
		return "Hold - Limited opportunity at current market conditions"
	}
}
