package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"estateiq/server/config"
	"estateiq/server/internal/investment"
	"estateiq/server/internal/market"
	"estateiq/server/internal/models"
	"estateiq/server/internal/valuation"
)

// Generator assembles buyer, seller and investor decision payloads from the
// valuation engine and the market and investment analyzers.
type Generator struct {
	engine     *valuation.Engine
	market     *market.Analyzer
	investment *investment.Analyzer
	cfg        *config.Config
	logger     *logrus.Logger
}

// NewGenerator creates an insight generator over the three analysis models.
func NewGenerator(engine *valuation.Engine, marketAnalyzer *market.Analyzer, investmentAnalyzer *investment.Analyzer, cfg *config.Config, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{
		engine:     engine,
		market:     marketAnalyzer,
		investment: investmentAnalyzer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Timing scores how favorable current conditions are for one side of a
// transaction.
type Timing struct {
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons"`
}

// MarketConditions summarizes the market around a property.
type MarketConditions struct {
	Trend              models.TrendDirection `json:"trend"`
	HeatIndex          float64               `json:"heat_index"`
	Velocity           float64               `json:"velocity,omitempty"`
	PriceChangePercent float64               `json:"price_change_percent"`
}

// FutureProjection holds projected property values at standard horizons.
type FutureProjection struct {
	OneYear   float64 `json:"one_year"`
	ThreeYear float64 `json:"three_year"`
	FiveYear  float64 `json:"five_year"`
}

// BuyerReport is the decision payload for a prospective buyer.
type BuyerReport struct {
	PropertyID       string           `json:"property_id"`
	PredictedValue   float64          `json:"predicted_value"`
	ConfidenceLow    float64          `json:"confidence_low"`
	ConfidenceHigh   float64          `json:"confidence_high"`
	ConfidenceLevel  float64          `json:"confidence_level"`
	ValueAssessment  string           `json:"value_assessment"`
	BudgetFit        string           `json:"budget_fit"`
	MarketConditions MarketConditions `json:"market_conditions"`
	Timing           Timing           `json:"timing"`
	NegotiationTips  []string         `json:"negotiation_tips"`
	FutureProjection FutureProjection `json:"future_projections"`
	KeyInsights      []string         `json:"key_insights"`
}

// BuyerInsights evaluates a property against a buyer's budget.
func (g *Generator) BuyerInsights(prop models.Property, budget float64) (BuyerReport, error) {
	prediction, err := g.engine.PredictValue(prop, time.Time{})
	if err != nil {
		return BuyerReport{}, err
	}

	trend := g.market.AnalyzeTrend(prop.Location, market.DefaultTrendMonths)
	heatIndex := g.market.HeatIndex(prop.Location)

	timing := assessBuyingTiming(trend, heatIndex)
	valueAssessment := assessPropertyValue(prediction.PredictedValue, budget)
	affordability := assessAffordability(budget, prediction.PredictedValue)

	return BuyerReport{
		PropertyID:      prop.ID,
		PredictedValue:  prediction.PredictedValue,
		ConfidenceLow:   prediction.ConfidenceLow,
		ConfidenceHigh:  prediction.ConfidenceHigh,
		ConfidenceLevel: prediction.ConfidenceLevel,
		ValueAssessment: valueAssessment,
		BudgetFit:       affordability,
		MarketConditions: MarketConditions{
			Trend:              trend.Direction,
			HeatIndex:          heatIndex,
			PriceChangePercent: trend.PriceChangePercent,
		},
		Timing:           timing,
		NegotiationTips:  negotiationTips(prediction, trend, heatIndex),
		FutureProjection: g.projectFutureValue(prop, prediction),
		KeyInsights: []string{
			fmt.Sprintf("Property valued at $%.0f with %.0f%% confidence", prediction.PredictedValue, prediction.ConfidenceLevel*100),
			fmt.Sprintf("Value assessment: %s", valueAssessment),
			fmt.Sprintf("Affordability: %s", affordability),
			fmt.Sprintf("Market trend: %s", trend.Direction),
		},
	}, nil
}

// PriceRange brackets a recommended list price.
type PriceRange struct {
	Minimum float64 `json:"minimum"`
	Optimal float64 `json:"optimal"`
	Maximum float64 `json:"maximum"`
}

// PricingStrategy is the seller-facing pricing recommendation.
type PricingStrategy struct {
	MarketValue          float64    `json:"market_value"`
	RecommendedListPrice float64    `json:"recommended_list_price"`
	Strategy             string     `json:"strategy"`
	Range                PriceRange `json:"pricing_range"`
}

// SellerReport is the decision payload for a prospective seller.
type SellerReport struct {
	PropertyID            string           `json:"property_id"`
	MarketValue           float64          `json:"market_value"`
	ConfidenceLow         float64          `json:"confidence_low"`
	ConfidenceHigh        float64          `json:"confidence_high"`
	ConfidenceLevel       float64          `json:"confidence_level"`
	MarketConditions      MarketConditions `json:"market_conditions"`
	Timing                Timing           `json:"timing"`
	PricingStrategy       PricingStrategy  `json:"pricing_strategy"`
	EstimatedDaysOnMarket int              `json:"estimated_days_on_market"`
	MarketingTips         []string         `json:"marketing_recommendations"`
	KeyInsights           []string         `json:"key_insights"`
}

// SellerInsights evaluates selling conditions for a property. desiredPrice
// is advisory and may be nil.
func (g *Generator) SellerInsights(prop models.Property, desiredPrice *float64) (SellerReport, error) {
	prediction, err := g.engine.PredictValue(prop, time.Time{})
	if err != nil {
		return SellerReport{}, err
	}

	trend := g.market.AnalyzeTrend(prop.Location, market.DefaultTrendMonths)
	heatIndex := g.market.HeatIndex(prop.Location)
	velocity := g.market.Velocity(prop.Location)

	timing := assessSellingTiming(trend, heatIndex, velocity)
	strategy := pricingStrategy(prediction, heatIndex)
	daysOnMarket := g.estimateTimeToSell(velocity, strategy.RecommendedListPrice, prediction.PredictedValue)

	keyInsights := []string{
		fmt.Sprintf("Market value: $%.0f", prediction.PredictedValue),
		fmt.Sprintf("Market conditions: %s market", trend.Direction),
		fmt.Sprintf("Market heat index: %.0f/100", heatIndex),
		fmt.Sprintf("Timing: %s", timing.Recommendation),
	}
	if g.market.SellersMarket(prop.Location, g.cfg.Market.SellersMarketThreshold) {
		keyInsights = append(keyInsights, "Absorption rate favors sellers")
	}

	return SellerReport{
		PropertyID:      prop.ID,
		MarketValue:     prediction.PredictedValue,
		ConfidenceLow:   prediction.ConfidenceLow,
		ConfidenceHigh:  prediction.ConfidenceHigh,
		ConfidenceLevel: prediction.ConfidenceLevel,
		MarketConditions: MarketConditions{
			Trend:              trend.Direction,
			HeatIndex:          heatIndex,
			Velocity:           velocity,
			PriceChangePercent: trend.PriceChangePercent,
		},
		Timing:                timing,
		PricingStrategy:       strategy,
		EstimatedDaysOnMarket: daysOnMarket,
		MarketingTips:         marketingTips(prop, trend),
		KeyInsights:           keyInsights,
	}, nil
}

// InvestorGoals captures an investor's screening criteria.
type InvestorGoals struct {
	MinROI        float64          `json:"min_roi"`
	RiskTolerance models.RiskLevel `json:"risk_tolerance"`
}

// Allocation is one slot in a recommended portfolio.
type Allocation struct {
	Location            string           `json:"location"`
	AllocationPercent   float64          `json:"allocation_percent"`
	EstimatedInvestment float64          `json:"estimated_investment"`
	ExpectedROI         float64          `json:"expected_roi"`
	RiskLevel           models.RiskLevel `json:"risk_level"`
}

// PortfolioStrategy recommends how to spread a budget over opportunities.
type PortfolioStrategy struct {
	RecommendedAllocation   []Allocation `json:"recommended_allocation"`
	DiversificationStrategy string       `json:"diversification_strategy"`
	ExpectedPortfolioROI    float64      `json:"expected_portfolio_roi"`
}

// InvestorReport is the decision payload for an investor.
type InvestorReport struct {
	Budget           float64              `json:"budget"`
	Goals            InvestorGoals        `json:"investment_goals"`
	TopOpportunities []models.Opportunity `json:"top_opportunities"`
	EmergingMarkets  []string             `json:"emerging_markets"`
	Portfolio        PortfolioStrategy    `json:"portfolio_strategy"`
	KeyInsights      []string             `json:"key_insights"`
}

// InvestorInsights screens opportunities against the investor's goals and
// proposes a portfolio allocation.
func (g *Generator) InvestorInsights(budget float64, goals InvestorGoals) InvestorReport {
	minROI := goals.MinROI
	if minROI <= 0 {
		minROI = g.cfg.Investment.DefaultMinROI
	}
	if goals.RiskTolerance == "" {
		goals.RiskTolerance = models.RiskMedium
	}

	opportunities := g.investment.RankOpportunities(10, minROI)
	filtered := filterByRisk(opportunities, goals.RiskTolerance)
	emergingMarkets := g.market.EmergingMarkets(g.cfg.Market.EmergingGrowthThreshold)

	top := filtered
	if len(top) > 5 {
		top = top[:5]
	}

	return InvestorReport{
		Budget:           budget,
		Goals:            goals,
		TopOpportunities: top,
		EmergingMarkets:  emergingMarkets,
		Portfolio:        portfolioStrategy(filtered, budget),
		KeyInsights:      investorKeyInsights(filtered, emergingMarkets),
	}
}

// PropertySummary is the property block of a comprehensive report.
type PropertySummary struct {
	ID           string              `json:"id"`
	Location     string              `json:"location"`
	PropertyType models.PropertyType `json:"property_type"`
	SquareFeet   float64             `json:"square_feet"`
	Bedrooms     *int                `json:"bedrooms,omitempty"`
	Bathrooms    *float64            `json:"bathrooms,omitempty"`
	Age          *int                `json:"age,omitempty"`
}

// MarketAnalysis is the market block of a comprehensive report.
type MarketAnalysis struct {
	Area                string                `json:"area"`
	TrendDirection      models.TrendDirection `json:"trend_direction"`
	PriceChangePercent  float64               `json:"price_change_percent"`
	VolumeChangePercent float64               `json:"volume_change_percent"`
	HeatIndex           float64               `json:"heat_index"`
	MarketVelocity      float64               `json:"market_velocity"`
}

// InvestmentMetrics is the investment block of a comprehensive report.
type InvestmentMetrics struct {
	RentalYield   float64              `json:"rental_yield"`
	ROIProjection models.ROIProjection `json:"roi_projections"`
}

// Report is the full property analysis payload.
type Report struct {
	Property        PropertySummary   `json:"property"`
	Valuation       models.Valuation  `json:"valuation"`
	MarketAnalysis  MarketAnalysis    `json:"market_analysis"`
	Investment      InvestmentMetrics `json:"investment_metrics"`
	Recommendations []string          `json:"recommendations"`
}

// ComprehensiveReport runs valuation, trend and investment analysis for one
// property and assembles the combined report.
func (g *Generator) ComprehensiveReport(prop models.Property) (Report, error) {
	prediction, err := g.engine.PredictValue(prop, time.Time{})
	if err != nil {
		return Report{}, err
	}

	trend := g.market.AnalyzeTrend(prop.Location, market.DefaultTrendMonths)
	heatIndex := g.market.HeatIndex(prop.Location)
	velocity := g.market.Velocity(prop.Location)

	rentalYield, err := g.investment.RentalYield(prop, prediction.PredictedValue, nil)
	if err != nil {
		return Report{}, err
	}
	roiProjection, err := g.investment.ProjectROI(prop, prediction.PredictedValue, 5, nil)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Property: PropertySummary{
			ID:           prop.ID,
			Location:     prop.Location,
			PropertyType: prop.PropertyType,
			SquareFeet:   prop.SquareFeet,
			Bedrooms:     prop.Bedrooms,
			Bathrooms:    prop.Bathrooms,
			Age:          prop.Age(time.Now()),
		},
		Valuation:      prediction,
		MarketAnalysis: MarketAnalysis{
			Area:                prop.Location,
			TrendDirection:      trend.Direction,
			PriceChangePercent:  trend.PriceChangePercent,
			VolumeChangePercent: trend.VolumeChangePercent,
			HeatIndex:           heatIndex,
			MarketVelocity:      velocity,
		},
		Investment: InvestmentMetrics{
			RentalYield:   rentalYield,
			ROIProjection: roiProjection,
		},
		Recommendations: comprehensiveRecommendations(prediction, trend, heatIndex),
	}, nil
}

func assessBuyingTiming(trend models.MarketTrend, heatIndex float64) Timing {
	score := 50
	var reasons []string

	switch trend.Direction {
	case models.TrendDown:
		score += 20
		reasons = append(reasons, "Market prices declining - buyer's market")
	case models.TrendUp:
		score -= 15
		reasons = append(reasons, "Market prices rising - act quickly")
	}

	if heatIndex < 40 {
		score += 15
		reasons = append(reasons, "Low market competition")
	} else if heatIndex > 70 {
		score -= 20
		reasons = append(reasons, "High market competition - expect bidding wars")
	}

	return Timing{Score: score, Recommendation: timingRecommendation(score, "buy"), Reasons: reasons}
}

func assessSellingTiming(trend models.MarketTrend, heatIndex, velocity float64) Timing {
	score := 50
	var reasons []string

	switch trend.Direction {
	case models.TrendUp:
		score += 20
		reasons = append(reasons, "Market prices rising - seller's market")
	case models.TrendDown:
		score -= 15
		reasons = append(reasons, "Market prices declining - consider waiting")
	}

	if heatIndex > 70 {
		score += 20
		reasons = append(reasons, "High market demand")
	} else if heatIndex < 40 {
		score -= 15
		reasons = append(reasons, "Low market demand")
	}

	if velocity > 70 {
		score += 10
		reasons = append(reasons, "Properties selling quickly")
	} else if velocity < 40 {
		score -= 10
		reasons = append(reasons, "Properties taking longer to sell")
	}

	return Timing{Score: score, Recommendation: timingRecommendation(score, "sell"), Reasons: reasons}
}

func timingRecommendation(score int, side string) string {
	switch {
	case score >= 70:
		return fmt.Sprintf("Excellent time to %s", side)
	case score >= 55:
		return fmt.Sprintf("Good time to %s", side)
	case score >= 45:
		return "Neutral - market is balanced"
	case score >= 30:
		return fmt.Sprintf("Challenging market for %sers", side)
	default:
		return "Consider waiting for better conditions"
	}
}

func assessPropertyValue(predictedValue, askingPrice float64) string {
	ratio := models.SafeRatio(predictedValue, askingPrice, 1)
	switch {
	case ratio > 1.15:
		return "Excellent value - priced well below market"
	case ratio > 1.05:
		return "Good value - priced below market"
	case ratio > 0.95:
		return "Fair value - priced at market"
	case ratio > 0.85:
		return "Overpriced - above market value"
	default:
		return "Significantly overpriced - well above market"
	}
}

func assessAffordability(budget, price float64) string {
	ratio := models.SafeRatio(price, budget, 2)
	switch {
	case ratio <= 0.85:
		return "Well within budget"
	case ratio <= 1.0:
		return "Within budget"
	case ratio <= 1.1:
		return "Slightly over budget"
	default:
		return "Over budget"
	}
}

func negotiationTips(prediction models.Valuation, trend models.MarketTrend, heatIndex float64) []string {
	var tips []string

	if heatIndex < 50 {
		tips = append(tips,
			"Low competition - you have negotiating power",
			"Consider offering 5-10% below asking price")
	} else {
		tips = append(tips,
			"High competition - be prepared to act quickly",
			"Consider offering close to asking price")
	}

	if trend.Direction == models.TrendDown {
		tips = append(tips, "Declining market - use recent comparables in negotiation")
	}

	if prediction.ConfidenceLevel > 0.8 {
		tips = append(tips, fmt.Sprintf("Strong data supports value of $%.0f", prediction.PredictedValue))
	}

	return tips
}

// projectFutureValue uses the forecast when history allows, otherwise fixed
// conservative appreciation rates.
func (g *Generator) projectFutureValue(prop models.Property, prediction models.Valuation) FutureProjection {
	current := prediction.PredictedValue
	fallback := FutureProjection{
		OneYear:   current * 1.03,
		ThreeYear: current * 1.09,
		FiveYear:  current * 1.15,
	}

	forecast := g.engine.ForecastTrend(prop.Location, 36)
	if len(forecast) == 0 {
		return fallback
	}

	dates := make([]time.Time, 0, len(forecast))
	for d := range forecast {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	projection := fallback
	if len(dates) > 11 {
		projection.OneYear = forecast[dates[11]]
	}
	projection.ThreeYear = forecast[dates[len(dates)-1]]
	return projection
}

func pricingStrategy(prediction models.Valuation, heatIndex float64) PricingStrategy {
	marketValue := prediction.PredictedValue

	var recommended float64
	var strategy string
	switch {
	case heatIndex > 70:
		recommended = marketValue * 1.05
		strategy = "Price at premium due to high demand"
	case heatIndex < 40:
		recommended = marketValue * 0.95
		strategy = "Price competitively to attract buyers"
	default:
		recommended = marketValue
		strategy = "Price at market value"
	}

	return PricingStrategy{
		MarketValue:          marketValue,
		RecommendedListPrice: recommended,
		Strategy:             strategy,
		Range: PriceRange{
			Minimum: marketValue * 0.90,
			Optimal: recommended,
			Maximum: marketValue * 1.10,
		},
	}
}

func (g *Generator) estimateTimeToSell(velocity, listPrice, marketValue float64) int {
	baseDays := int(100 - velocity)

	priceRatio := models.SafeRatio(listPrice, marketValue, 1)
	if priceRatio > 1.1 {
		baseDays = int(float64(baseDays) * 1.5)
	} else if priceRatio < 0.95 {
		baseDays = int(float64(baseDays) * 0.7)
	}

	if baseDays < 7 {
		baseDays = 7
	}
	return baseDays
}

func marketingTips(prop models.Property, trend models.MarketTrend) []string {
	tips := []string{
		"Professional photos are essential",
		"Stage the property to highlight its best features",
	}

	if len(prop.Amenities) > 0 {
		highlight := prop.Amenities
		if len(highlight) > 3 {
			highlight = highlight[:3]
		}
		tips = append(tips, fmt.Sprintf("Highlight proximity to %s", joinList(highlight)))
	}

	if trend.Direction == models.TrendUp {
		tips = append(tips, "Emphasize market appreciation in marketing materials")
	}

	if age := prop.Age(time.Now()); age != nil && *age < 5 {
		tips = append(tips, "Emphasize modern construction and features")
	}

	return tips
}

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

func filterByRisk(opportunities []models.Opportunity, tolerance models.RiskLevel) []models.Opportunity {
	var out []models.Opportunity
	for _, opp := range opportunities {
		switch tolerance {
		case models.RiskLow:
			if opp.RiskLevel == models.RiskLow {
				out = append(out, opp)
			}
		case models.RiskMedium:
			if opp.RiskLevel == models.RiskLow || opp.RiskLevel == models.RiskMedium {
				out = append(out, opp)
			}
		default:
			out = append(out, opp)
		}
	}
	return out
}

func portfolioStrategy(opportunities []models.Opportunity, budget float64) PortfolioStrategy {
	if len(opportunities) == 0 {
		return PortfolioStrategy{
			DiversificationStrategy: "Insufficient opportunities at current criteria",
		}
	}

	var diversification string
	var allocationCount int
	switch {
	case budget > 1000000:
		diversification = "Diversify across 3-5 properties in different areas"
		allocationCount = 5
	case budget > 500000:
		diversification = "Consider 2-3 properties for diversification"
		allocationCount = 3
	default:
		diversification = "Focus on 1-2 high-quality properties"
		allocationCount = 2
	}
	if allocationCount > len(opportunities) {
		allocationCount = len(opportunities)
	}

	perProperty := budget / float64(allocationCount)
	allocations := make([]Allocation, 0, allocationCount)
	var totalROI float64
	for _, opp := range opportunities[:allocationCount] {
		allocations = append(allocations, Allocation{
			Location:            opp.Location,
			AllocationPercent:   100 / float64(allocationCount),
			EstimatedInvestment: perProperty,
			ExpectedROI:         opp.PredictedROI,
			RiskLevel:           opp.RiskLevel,
		})
		totalROI += opp.PredictedROI
	}

	return PortfolioStrategy{
		RecommendedAllocation:   allocations,
		DiversificationStrategy: diversification,
		ExpectedPortfolioROI:    totalROI / float64(allocationCount),
	}
}

func investorKeyInsights(opportunities []models.Opportunity, emergingMarkets []string) []string {
	var out []string

	if len(opportunities) > 0 {
		top := opportunities[0]
		out = append(out,
			fmt.Sprintf("Top opportunity: %s with %.0f/100 score", top.Location, top.OpportunityScore),
			fmt.Sprintf("Expected ROI: %.1f%%", top.PredictedROI))
	}

	if len(emergingMarkets) > 0 {
		highlight := emergingMarkets
		if len(highlight) > 3 {
			highlight = highlight[:3]
		}
		out = append(out, fmt.Sprintf("Emerging markets: %s", joinList(highlight)))
	}

	out = append(out, "Diversification recommended for risk management")
	return out
}

func comprehensiveRecommendations(prediction models.Valuation, trend models.MarketTrend, heatIndex float64) []string {
	recommendations := []string{
		fmt.Sprintf("Property is valued at $%.0f with %s market trend", prediction.PredictedValue, prediction.MarketTrend),
	}

	if heatIndex > 70 {
		recommendations = append(recommendations, "High market demand - competitive environment")
	} else if heatIndex < 40 {
		recommendations = append(recommendations, "Lower market demand - negotiation opportunities")
	}

	switch trend.Direction {
	case models.TrendUp:
		recommendations = append(recommendations, "Appreciation expected - good for sellers, buyers should act quickly")
	case models.TrendDown:
		recommendations = append(recommendations, "Market softening - good for buyers, sellers may want to wait")
	}

	return recommendations
}
