package market

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"estateiq/server/internal/models"
	"estateiq/server/internal/store"
)

// DefaultTrendMonths is the analysis window when the caller does not pick one.
const DefaultTrendMonths = 12

// heatTrendMonths is the fixed window for the intensity metrics.
const heatTrendMonths = 6

// Analyzer computes directional and intensity metrics over the market
// snapshot history. It reads the store but never mutates it.
type Analyzer struct {
	store  *store.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewAnalyzer creates a market analyzer over the given record store.
func NewAnalyzer(recordStore *store.Store, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{
		store:  recordStore,
		logger: logger,
		now:    time.Now,
	}
}

// AnalyzeTrend computes price, volume and inventory changes for an area over
// the trailing window. With fewer than 2 snapshots for the area the result
// is the unknown trend with zero confidence.
func (a *Analyzer) AnalyzeTrend(area string, periodMonths int) models.MarketTrend {
	if periodMonths <= 0 {
		periodMonths = DefaultTrendMonths
	}

	areaData := a.store.SnapshotsForArea(area)
	if len(areaData) < 2 {
		now := a.now()
		return models.MarketTrend{
			Area:        area,
			Direction:   models.TrendUnknown,
			PeriodStart: now,
			PeriodEnd:   now,
		}
	}

	endDate := areaData[len(areaData)-1].Date
	startDate := endDate.AddDate(0, 0, -periodMonths*30)

	var periodData []models.MarketSnapshot
	for _, snap := range areaData {
		if !snap.Date.Before(startDate) {
			periodData = append(periodData, snap)
		}
	}
	if len(periodData) < 2 {
		periodData = areaData[len(areaData)-2:]
	}

	start := periodData[0]
	end := periodData[len(periodData)-1]

	priceChange := models.SafeRatio(end.MedianPrice-start.MedianPrice, start.MedianPrice, 0) * 100
	volumeChange := float64(end.TotalSales-start.TotalSales) / math.Max(float64(start.TotalSales), 1) * 100
	inventoryChange := float64(end.Inventory-start.Inventory) / math.Max(float64(start.Inventory), 1) * 100

	direction := models.TrendStable
	if priceChange > 3 {
		direction = models.TrendUp
	} else if priceChange < -3 {
		direction = models.TrendDown
	}

	return models.MarketTrend{
		Area:                   area,
		Direction:              direction,
		PriceChangePercent:     priceChange,
		VolumeChangePercent:    volumeChange,
		InventoryChangePercent: inventoryChange,
		PeriodStart:            start.Date,
		PeriodEnd:              end.Date,
		ConfidenceScore:        math.Min(float64(len(periodData))/float64(periodMonths), 1.0),
	}
}

// Velocity scores how fast properties transact in an area (0-100, higher is
// faster). Without snapshot data the score is a neutral 50.
func (a *Analyzer) Velocity(area string) float64 {
	recent, ok := a.store.LatestSnapshot(area)
	if !ok {
		return 50.0
	}

	// Lower days on market means a faster market.
	velocityScore := math.Max(0, 100-recent.DaysOnMarket)
	absorptionScore := math.Min(recent.AbsorptionRate()*100, 50)

	return velocityScore*0.6 + absorptionScore*0.4
}

// HeatIndex scores market competitiveness for an area (0-100, higher is
// hotter), combining velocity, absorption, the 6-month price trend and
// inventory scarcity. Without snapshot data the score is a neutral 50.
func (a *Analyzer) HeatIndex(area string) float64 {
	recent, ok := a.store.LatestSnapshot(area)
	if !ok {
		return 50.0
	}

	velocity := a.Velocity(area)
	absorption := math.Min(recent.AbsorptionRate()*100, 100)

	trend := a.AnalyzeTrend(area, heatTrendMonths)
	trendScore := models.Clamp(trend.PriceChangePercent*5, 0, 100)

	inventoryScore := math.Max(0, 100-float64(recent.Inventory)/math.Max(float64(recent.TotalSales), 1)*20)

	heat := velocity*0.30 + absorption*0.25 + trendScore*0.25 + inventoryScore*0.20

	return math.Min(heat, 100)
}

// SellersMarket reports whether the area's latest absorption rate clears
// the threshold. Without snapshot data the market is not a seller's market.
func (a *Analyzer) SellersMarket(area string, threshold float64) bool {
	recent, ok := a.store.LatestSnapshot(area)
	if !ok {
		return false
	}
	return recent.IsSellersMarket(threshold)
}

// EmergingMarkets returns the areas whose 6-month price growth meets the
// threshold with rising sales volume.
func (a *Analyzer) EmergingMarkets(minGrowthRate float64) []string {
	var emerging []string
	for _, area := range a.store.Areas() {
		trend := a.AnalyzeTrend(area, heatTrendMonths)
		if trend.PriceChangePercent >= minGrowthRate && trend.VolumeChangePercent > 0 {
			emerging = append(emerging, area)
		}
	}
	return emerging
}
