package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"estateiq/server/config"
	"estateiq/server/internal/insights"
	"estateiq/server/internal/investment"
	"estateiq/server/internal/market"
	"estateiq/server/internal/metrics"
	"estateiq/server/internal/models"
	"estateiq/server/internal/store"
	"estateiq/server/internal/valuation"
)

// Handler wires the HTTP surface to the analysis models. No business logic
// lives here; handlers bind input, call the engines and render the result.
type Handler struct {
	store      *store.Store
	engine     *valuation.Engine
	market     *market.Analyzer
	investment *investment.Analyzer
	insights   *insights.Generator
	cfg        *config.Config
	logger     *logrus.Logger
	metrics    *metrics.Collector
}

// NewHandler creates the API handler over the analysis models.
func NewHandler(recordStore *store.Store, cfg *config.Config, logger *logrus.Logger, collector *metrics.Collector) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	engine := valuation.NewEngine(recordStore, cfg, logger)
	marketAnalyzer := market.NewAnalyzer(recordStore, logger)
	investmentAnalyzer := investment.NewAnalyzer(recordStore, marketAnalyzer, cfg, logger)
	insightGenerator := insights.NewGenerator(engine, marketAnalyzer, investmentAnalyzer, cfg, logger)

	return &Handler{
		store:      recordStore,
		engine:     engine,
		market:     marketAnalyzer,
		investment: investmentAnalyzer,
		insights:   insightGenerator,
		cfg:        cfg,
		logger:     logger,
		metrics:    collector,
	}
}

// TransactionRequest is the ingestion schema for one sale record. The
// category string is validated here, before it reaches the core.
type TransactionRequest struct {
	ID            string    `json:"id" binding:"required"`
	PropertyID    string    `json:"property_id"`
	SalePrice     float64   `json:"sale_price" binding:"required,gt=0"`
	Date          time.Time `json:"date" binding:"required"`
	PropertyType  string    `json:"property_type" binding:"required"`
	SquareFeet    float64   `json:"square_feet" binding:"required,gt=0"`
	Location      string    `json:"location" binding:"required"`
	BuyerType     string    `json:"buyer_type"`
	FinancingType string    `json:"financing_type"`
}

// PropertyRequest is the boundary schema for a property under evaluation.
type PropertyRequest struct {
	ID           string                 `json:"id"`
	Location     string                 `json:"location" binding:"required"`
	PropertyType string                 `json:"property_type" binding:"required"`
	SquareFeet   float64                `json:"square_feet" binding:"required,gt=0"`
	Bedrooms     *int                   `json:"bedrooms"`
	Bathrooms    *float64               `json:"bathrooms"`
	YearBuilt    *int                   `json:"year_built"`
	Amenities    []string               `json:"amenities"`
	Neighborhood string                 `json:"neighborhood"`
	Latitude     *float64               `json:"latitude"`
	Longitude    *float64               `json:"longitude"`
	Features     map[string]interface{} `json:"features"`
}

func (r *PropertyRequest) toProperty() (models.Property, error) {
	propertyType, err := models.ParsePropertyType(r.PropertyType)
	if err != nil {
		return models.Property{}, err
	}

	prop := models.Property{
		ID:           r.ID,
		Location:     r.Location,
		PropertyType: propertyType,
		SquareFeet:   r.SquareFeet,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		YearBuilt:    r.YearBuilt,
		Amenities:    r.Amenities,
		Neighborhood: r.Neighborhood,
		Features:     r.Features,
	}
	if r.Latitude != nil && r.Longitude != nil {
		point := orb.Point{*r.Longitude, *r.Latitude}
		prop.Coordinates = &point
	}
	return prop, nil
}

// AddTransactions ingests a batch of sale records.
func (h *Handler) AddTransactions(c *gin.Context) {
	var requests []TransactionRequest
	if err := c.ShouldBindJSON(&requests); err != nil {
		h.logger.WithError(err).Error("Failed to parse transaction batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction batch"})
		return
	}

	records := make([]models.Transaction, 0, len(requests))
	for _, req := range requests {
		propertyType, err := models.ParsePropertyType(req.PropertyType)
		if err != nil {
			h.logger.WithError(err).Error("Rejected transaction with unknown property type")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records = append(records, models.Transaction{
			ID:            req.ID,
			PropertyID:    req.PropertyID,
			SalePrice:     req.SalePrice,
			Date:          req.Date,
			PropertyType:  propertyType,
			SquareFeet:    req.SquareFeet,
			Location:      req.Location,
			BuyerType:     req.BuyerType,
			FinancingType: req.FinancingType,
		})
	}

	h.store.AddTransactions(records)
	if h.metrics != nil {
		h.metrics.RecordIngestion("transaction", len(records))
	}
	c.JSON(http.StatusOK, gin.H{"ingested": len(records)})
}

// AddMarketSnapshots ingests a batch of market snapshots.
func (h *Handler) AddMarketSnapshots(c *gin.Context) {
	var snapshots []models.MarketSnapshot
	if err := c.ShouldBindJSON(&snapshots); err != nil {
		h.logger.WithError(err).Error("Failed to parse market snapshot batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid market snapshot batch"})
		return
	}

	h.store.AddMarketSnapshots(snapshots)
	if h.metrics != nil {
		h.metrics.RecordIngestion("market_snapshot", len(snapshots))
	}
	c.JSON(http.StatusOK, gin.H{"ingested": len(snapshots)})
}

// AddNeighborhoods ingests a batch of neighborhood profiles.
func (h *Handler) AddNeighborhoods(c *gin.Context) {
	var neighborhoods []models.Neighborhood
	if err := c.ShouldBindJSON(&neighborhoods); err != nil {
		h.logger.WithError(err).Error("Failed to parse neighborhood batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid neighborhood batch"})
		return
	}

	h.store.AddNeighborhoods(neighborhoods)
	if h.metrics != nil {
		h.metrics.RecordIngestion("neighborhood", len(neighborhoods))
	}
	c.JSON(http.StatusOK, gin.H{"ingested": len(neighborhoods)})
}

// ValuationRequest asks for a property valuation, optionally at a specific
// date.
type ValuationRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
	At       *time.Time      `json:"at"`
}

// PredictValue runs the valuation model for one property.
func (h *Handler) PredictValue(c *gin.Context) {
	var req ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse valuation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid valuation request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at := time.Time{}
	if req.At != nil {
		at = *req.At
	}

	result, err := h.engine.PredictValue(prop, at)
	if err != nil {
		h.renderError(c, err, "Failed to predict value")
		return
	}

	if h.metrics != nil {
		h.metrics.ValuationsTotal.Inc()
	}
	c.JSON(http.StatusOK, result)
}

// GetTrend analyzes the market trend for an area.
func (h *Handler) GetTrend(c *gin.Context) {
	area := c.Param("area")
	months, err := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(market.DefaultTrendMonths)))
	if err != nil || months <= 0 {
		months = market.DefaultTrendMonths
	}

	c.JSON(http.StatusOK, h.market.AnalyzeTrend(area, months))
}

// GetHeatIndex returns the market heat index for an area.
func (h *Handler) GetHeatIndex(c *gin.Context) {
	area := c.Param("area")
	c.JSON(http.StatusOK, gin.H{"area": area, "heat_index": h.market.HeatIndex(area)})
}

// GetVelocity returns the market velocity for an area.
func (h *Handler) GetVelocity(c *gin.Context) {
	area := c.Param("area")
	c.JSON(http.StatusOK, gin.H{"area": area, "velocity": h.market.Velocity(area)})
}

// GetForecast projects median prices for an area.
func (h *Handler) GetForecast(c *gin.Context) {
	area := c.Param("area")
	months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
	if err != nil || months < 0 {
		months = 12
	}

	c.JSON(http.StatusOK, gin.H{
		"area":     area,
		"forecast": h.engine.ForecastTrend(area, months),
	})
}

// GetEmergingMarkets lists areas with strong recent growth.
func (h *Handler) GetEmergingMarkets(c *gin.Context) {
	minGrowth := h.cfg.Market.EmergingGrowthThreshold
	if raw := c.Query("min_growth"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			minGrowth = parsed
		}
	}

	c.JSON(http.StatusOK, gin.H{"emerging_markets": h.market.EmergingMarkets(minGrowth)})
}

// GetOpportunities ranks investment opportunities.
func (h *Handler) GetOpportunities(c *gin.Context) {
	maxResults := h.cfg.Investment.DefaultMaxOpportunities
	if raw := c.Query("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}

	minROI := h.cfg.Investment.DefaultMinROI
	if raw := c.Query("min_roi"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			minROI = parsed
		}
	}

	if h.metrics != nil {
		h.metrics.OpportunityQueries.Inc()
	}
	c.JSON(http.StatusOK, h.investment.RankOpportunities(maxResults, minROI))
}

// RentalYieldRequest asks for a rental yield estimate.
type RentalYieldRequest struct {
	Property      PropertyRequest `json:"property" binding:"required"`
	PurchasePrice float64         `json:"purchase_price" binding:"required,gt=0"`
	MonthlyRent   *float64        `json:"monthly_rent"`
}

// GetRentalYield estimates the annual rental yield for a property.
func (h *Handler) GetRentalYield(c *gin.Context) {
	var req RentalYieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse rental yield request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rental yield request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	yield, err := h.investment.RentalYield(prop, req.PurchasePrice, req.MonthlyRent)
	if err != nil {
		h.renderError(c, err, "Failed to calculate rental yield")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_yield_percent": yield})
}

// ROIRequest asks for an ROI projection.
type ROIRequest struct {
	Property         PropertyRequest `json:"property" binding:"required"`
	PurchasePrice    float64         `json:"purchase_price" binding:"required,gt=0"`
	HoldingYears     int             `json:"holding_years"`
	AppreciationRate *float64        `json:"appreciation_rate"`
}

// ProjectROI projects investment returns for a property.
func (h *Handler) ProjectROI(c *gin.Context) {
	var req ROIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse ROI request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ROI request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	years := req.HoldingYears
	if years <= 0 {
		years = 5
	}

	projection, err := h.investment.ProjectROI(prop, req.PurchasePrice, years, req.AppreciationRate)
	if err != nil {
		h.renderError(c, err, "Failed to project ROI")
		return
	}

	c.JSON(http.StatusOK, projection)
}

// BuyerInsightsRequest asks for a buyer decision payload.
type BuyerInsightsRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
	Budget   float64         `json:"budget" binding:"required,gt=0"`
}

// GetBuyerInsights builds a buyer report for a property and budget.
func (h *Handler) GetBuyerInsights(c *gin.Context) {
	var req BuyerInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse buyer insights request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid buyer insights request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.insights.BuyerInsights(prop, req.Budget)
	if err != nil {
		h.renderError(c, err, "Failed to generate buyer insights")
		return
	}

	c.JSON(http.StatusOK, report)
}

// SellerInsightsRequest asks for a seller decision payload.
type SellerInsightsRequest struct {
	Property     PropertyRequest `json:"property" binding:"required"`
	DesiredPrice *float64        `json:"desired_price"`
}

// GetSellerInsights builds a seller report for a property.
func (h *Handler) GetSellerInsights(c *gin.Context) {
	var req SellerInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse seller insights request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seller insights request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.insights.SellerInsights(prop, req.DesiredPrice)
	if err != nil {
		h.renderError(c, err, "Failed to generate seller insights")
		return
	}

	c.JSON(http.StatusOK, report)
}

// InvestorInsightsRequest asks for an investor decision payload.
type InvestorInsightsRequest struct {
	Budget        float64          `json:"budget" binding:"required,gt=0"`
	MinROI        float64          `json:"min_roi"`
	RiskTolerance models.RiskLevel `json:"risk_tolerance"`
}

// GetInvestorInsights builds an investor report for a budget and goals.
func (h *Handler) GetInvestorInsights(c *gin.Context) {
	var req InvestorInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse investor insights request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid investor insights request"})
		return
	}

	report := h.insights.InvestorInsights(req.Budget, insights.InvestorGoals{
		MinROI:        req.MinROI,
		RiskTolerance: req.RiskTolerance,
	})
	c.JSON(http.StatusOK, report)
}

// ReportRequest asks for a comprehensive property report.
type ReportRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
}

// GetComprehensiveReport builds the full analysis report for a property.
func (h *Handler) GetComprehensiveReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse report request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report request"})
		return
	}

	prop, err := req.Property.toProperty()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.insights.ComprehensiveReport(prop)
	if err != nil {
		h.renderError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) renderError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)
	if h.metrics != nil {
		h.metrics.RecordAPIError("handler", c.FullPath())
	}

	if errors.Is(err, models.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
