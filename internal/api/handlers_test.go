package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateiq/server/config"
	"estateiq/server/internal/models"
	"estateiq/server/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Valuation.DefaultPricePerSqft = 150
	cfg.Valuation.MaxComparables = 10
	cfg.Valuation.SizeTolerance = 0.3
	cfg.Market.EmergingGrowthThreshold = 5.0
	cfg.Market.SellersMarketThreshold = 0.2
	cfg.Investment.BaseRentalYield = 6.0
	cfg.Investment.DefaultMinROI = 15.0
	cfg.Investment.DefaultMaxOpportunities = 5
	return cfg
}

func newTestRouter() (*gin.Engine, *store.Store) {
	gin.SetMode(gin.TestMode)

	recordStore := store.NewStore(nil)
	handler := NewHandler(recordStore, testConfig(), nil, nil)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, recordStore
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func propertyPayload() map[string]interface{} {
	return map[string]interface{}{
		"id":            "prop-1",
		"location":      "Downtown",
		"property_type": "apartment",
		"square_feet":   1000,
	}
}

func TestIngestThenPredictValue(t *testing.T) {
	router, _ := newTestRouter()

	now := time.Now().UTC()
	transactions := []TransactionRequest{
		{ID: "t1", SalePrice: 500000, Date: now.AddDate(0, -1, 0), PropertyType: "apartment", SquareFeet: 1000, Location: "Downtown"},
		{ID: "t2", SalePrice: 520000, Date: now.AddDate(0, -2, 0), PropertyType: "apartment", SquareFeet: 1050, Location: "Downtown"},
	}
	resp := doJSON(t, router, http.MethodPost, "/api/transactions", transactions)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ingested": 2}`, resp.Body.String())

	var snapshots []models.MarketSnapshot
	for i := 0; i < 6; i++ {
		snapshots = append(snapshots, models.MarketSnapshot{
			Area:         "Downtown",
			Date:         now.AddDate(0, i-6, 0),
			MedianPrice:  500000,
			AveragePrice: 505000,
			TotalSales:   40,
			Inventory:    150,
			DaysOnMarket: 30,
			PricePerSqft: 500,
		})
	}
	resp = doJSON(t, router, http.MethodPost, "/api/market-data", snapshots)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/valuations", map[string]interface{}{
		"property": propertyPayload(),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var result models.Valuation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Greater(t, result.PredictedValue, 0.0)
	assert.Greater(t, result.ConfidenceLevel, 0.0)
	assert.Contains(t, result.ContributingFactors, "base_value")
}

func TestPredictValueRejectsUnknownPropertyType(t *testing.T) {
	router, _ := newTestRouter()

	payload := propertyPayload()
	payload["property_type"] = "castle"

	resp := doJSON(t, router, http.MethodPost, "/api/valuations", map[string]interface{}{
		"property": payload,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "unknown property type")
}

func TestPredictValueRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/valuations", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetTrendWithoutData(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodGet, "/api/areas/Nowhere/trend", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var trend models.MarketTrend
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &trend))
	assert.Equal(t, models.TrendUnknown, trend.Direction)
	assert.Equal(t, "Nowhere", trend.Area)
}

func TestGetHeatIndexWithoutData(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodGet, "/api/areas/Nowhere/heat-index", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Area      string  `json:"area"`
		HeatIndex float64 `json:"heat_index"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Nowhere", body.Area)
	assert.InDelta(t, 50, body.HeatIndex, 1e-9)
}

func TestGetForecastWithoutHistoryIsEmpty(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodGet, "/api/areas/Nowhere/forecast?months=6", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Area     string             `json:"area"`
		Forecast map[string]float64 `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Empty(t, body.Forecast)
}

func TestGetOpportunities(t *testing.T) {
	router, recordStore := newTestRouter()

	now := time.Now().UTC()
	var snapshots []models.MarketSnapshot
	for i := 0; i < 12; i++ {
		snapshots = append(snapshots, models.MarketSnapshot{
			Area:         "Hotspot",
			Date:         now.AddDate(0, i-12, 0),
			MedianPrice:  400000 + float64(i)*8000,
			AveragePrice: 400000 + float64(i)*8000,
			TotalSales:   40 + i,
			Inventory:    150,
			DaysOnMarket: 30,
			PricePerSqft: 400,
		})
	}
	recordStore.AddMarketSnapshots(snapshots)
	recordStore.AddNeighborhoods([]models.Neighborhood{
		{ID: "n1", Name: "Hotspot", MedianIncome: 80000, EmploymentRate: 95, SchoolRating: 8, GrowthRate: 0.06, CrimeRate: 4},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/opportunities?min_roi=10", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var opportunities []models.Opportunity
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &opportunities))
	require.NotEmpty(t, opportunities)
	assert.Equal(t, "Hotspot", opportunities[0].Location)
	assert.NotEmpty(t, opportunities[0].Recommendation)
}

func TestGetEmergingMarketsWithoutData(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodGet, "/api/emerging-markets", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		EmergingMarkets []string `json:"emerging_markets"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Empty(t, body.EmergingMarkets)
}

func TestRentalYieldEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodPost, "/api/rental-yield", map[string]interface{}{
		"property":       propertyPayload(),
		"purchase_price": 400000,
		"monthly_rent":   2000,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		RentalYieldPercent float64 `json:"rental_yield_percent"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.InDelta(t, 6.0, body.RentalYieldPercent, 1e-9)
}

func TestProjectROIEndpointDefaultsHoldingPeriod(t *testing.T) {
	router, _ := newTestRouter()

	rate := 0.0
	resp := doJSON(t, router, http.MethodPost, "/api/roi", map[string]interface{}{
		"property":          propertyPayload(),
		"purchase_price":    300000,
		"appreciation_rate": rate,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var projection models.ROIProjection
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &projection))
	assert.Zero(t, projection.TotalAppreciation)
	assert.Greater(t, projection.TotalRentalIncome, 0.0)
	// Default holding period is five years of rental income.
	assert.InDelta(t, projection.TotalROIPercent/5, projection.AnnualROIPercent, 1e-9)
}

func TestInvestorInsightsRequiresBudget(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodPost, "/api/insights/investor", map[string]interface{}{
		"min_roi": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBuyerInsightsEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodPost, "/api/insights/buyer", map[string]interface{}{
		"property": propertyPayload(),
		"budget":   1000000,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		PropertyID      string   `json:"property_id"`
		PredictedValue  float64  `json:"predicted_value"`
		ValueAssessment string   `json:"value_assessment"`
		KeyInsights     []string `json:"key_insights"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "prop-1", body.PropertyID)
	assert.Greater(t, body.PredictedValue, 0.0)
	assert.Len(t, body.KeyInsights, 4)
}

func TestComprehensiveReportEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	resp := doJSON(t, router, http.MethodPost, "/api/reports/comprehensive", map[string]interface{}{
		"property": propertyPayload(),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Property struct {
			ID string `json:"id"`
		} `json:"property"`
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "prop-1", body.Property.ID)
	assert.NotEmpty(t, body.Recommendations)
}
