package valuation

import (
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"estateiq/server/config"
	"estateiq/server/internal/models"
	"estateiq/server/internal/store"
)

// seasonalWeights maps month to a price multiplier. Spring and early summer
// are the strong listing months.
var seasonalWeights = map[time.Month]float64{
	time.January:   0.92,
	time.February:  0.94,
	time.March:     1.02,
	time.April:     1.08,
	time.May:       1.12,
	time.June:      1.10,
	time.July:      1.05,
	time.August:    1.03,
	time.September: 1.06,
	time.October:   1.04,
	time.November:  0.98,
	time.December:  0.96,
}

// Engine predicts property values from comparable sales and market
// snapshots. It reads the store but never mutates it.
type Engine struct {
	store  *store.Store
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewEngine creates a valuation engine over the given record store.
func NewEngine(recordStore *store.Store, cfg *config.Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		store:  recordStore,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// PredictValue estimates the value of a property at the given time. A zero
// time means "now". The returned valuation carries a confidence interval,
// a confidence level in [0,1] and the multiplicative factor breakdown.
func (e *Engine) PredictValue(prop models.Property, at time.Time) (models.Valuation, error) {
	if err := prop.Validate(); err != nil {
		return models.Valuation{}, err
	}
	if at.IsZero() {
		at = e.now()
	}

	comparables := e.findComparables(prop)
	baseValue := e.baseValue(prop, comparables)
	locationFactor := e.locationFactor(prop.Location)
	propertyFactor := e.propertyFactor(prop)
	seasonalFactor := seasonalWeights[at.Month()]
	trendFactor := e.trendFactor(prop.Location, at)

	predicted := baseValue * locationFactor * propertyFactor * seasonalFactor * trendFactor

	confidence := e.confidence(len(comparables))
	margin := predicted * (1 - confidence) * 0.5

	e.logger.WithFields(logrus.Fields{
		"property_id": prop.ID,
		"location":    prop.Location,
		"comparables": len(comparables),
		"predicted":   predicted,
	}).Debug("Computed valuation")

	return models.Valuation{
		PredictedValue:  predicted,
		ConfidenceLow:   predicted - margin,
		ConfidenceHigh:  predicted + margin,
		ConfidenceLevel: confidence,
		ContributingFactors: map[string]float64{
			"base_value":          baseValue,
			"location_adjustment": locationFactor,
			"property_features":   propertyFactor,
			"seasonal_adjustment": seasonalFactor,
			"market_trend":        trendFactor,
		},
		MarketTrend:    trendLabel(trendFactor),
		PredictionDate: at,
	}, nil
}

// ForecastTrend projects median prices for an area over the coming months
// by linear extrapolation of up to the last 12 snapshots, seasonally
// adjusted. Fewer than 2 snapshots yields an empty forecast.
func (e *Engine) ForecastTrend(area string, monthsAhead int) map[time.Time]float64 {
	forecast := make(map[time.Time]float64)

	areaSnaps := e.store.SnapshotsForArea(area)
	if len(areaSnaps) > 12 {
		areaSnaps = areaSnaps[len(areaSnaps)-12:]
	}
	if len(areaSnaps) < 2 {
		return forecast
	}

	first := areaSnaps[0].MedianPrice
	last := areaSnaps[len(areaSnaps)-1].MedianPrice
	trendPerStep := (last - first) / float64(len(areaSnaps))

	now := e.now()
	for i := 0; i < monthsAhead; i++ {
		future := now.AddDate(0, 0, 30*i)
		seasonal := seasonalWeights[future.Month()]
		predicted := last + trendPerStep*float64(i)*seasonal
		forecast[future] = math.Max(predicted, 0)
	}
	return forecast
}

// findComparables selects recent transactions of the same type, within the
// size tolerance and in the same location (case-insensitive), most recent
// first, capped at the configured maximum.
func (e *Engine) findComparables(prop models.Property) []models.Transaction {
	var comparables []models.Transaction

	// Store order is oldest first; walk backwards for most recent first.
	transactions := e.store.Transactions()
	for i := len(transactions) - 1; i >= 0; i-- {
		tx := transactions[i]
		if tx.PropertyType != prop.PropertyType {
			continue
		}
		sizeDiff := math.Abs(tx.SquareFeet - prop.SquareFeet)
		if sizeDiff/prop.SquareFeet > e.cfg.Valuation.SizeTolerance {
			continue
		}
		if !strings.EqualFold(tx.Location, prop.Location) {
			continue
		}
		comparables = append(comparables, tx)
		if len(comparables) == e.cfg.Valuation.MaxComparables {
			break
		}
	}
	return comparables
}

// baseValue computes the comparable-weighted value, falling back to the
// market average and then the default rate when comparables are missing or
// their combined weight degenerates.
func (e *Engine) baseValue(prop models.Property, comparables []models.Transaction) float64 {
	if len(comparables) == 0 {
		return e.fallbackBaseValue(prop)
	}

	now := e.now()
	var weightedSum, totalWeight float64
	for _, comp := range comparables {
		daysAgo := now.Sub(comp.Date).Hours() / 24
		recencyWeight := 1.0 / (1.0 + daysAgo/365)

		// The size weight is deliberately not floored at zero: comparables
		// near the admission boundary can carry negative weight. The
		// degenerate sum is guarded below.
		sizeDiff := math.Abs(comp.SquareFeet - prop.SquareFeet)
		sizeWeight := 1.0 - sizeDiff/prop.SquareFeet

		weight := recencyWeight * sizeWeight
		weightedSum += comp.PricePerSqft() * weight
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return e.fallbackBaseValue(prop)
	}
	return prop.SquareFeet * (weightedSum / totalWeight)
}

func (e *Engine) fallbackBaseValue(prop models.Property) float64 {
	recent := e.store.RecentSnapshots(6)
	if len(recent) > 0 {
		var sum float64
		for _, snap := range recent {
			sum += snap.PricePerSqft
		}
		return prop.SquareFeet * (sum / float64(len(recent)))
	}
	return prop.SquareFeet * e.cfg.Valuation.DefaultPricePerSqft
}

// locationFactor compares the area's latest average price to the overall
// market average of the 6 most recent snapshots.
func (e *Engine) locationFactor(location string) float64 {
	latest, ok := e.store.LatestSnapshot(location)
	if !ok {
		return 1.0
	}

	recent := e.store.RecentSnapshots(6)
	var sum float64
	for _, snap := range recent {
		sum += snap.AveragePrice
	}
	overallAvg := sum / float64(len(recent))

	return models.SafeRatio(latest.AveragePrice, overallAvg, 1.0)
}

// propertyFactor adjusts for construction age and amenities.
func (e *Engine) propertyFactor(prop models.Property) float64 {
	factor := 1.0

	if age := prop.Age(e.now()); age != nil {
		if *age < 5 {
			factor *= 1.10
		} else if *age > 30 {
			factor *= 0.90
		}
	}

	// 0.5% per amenity, capped at 10%.
	amenityBonus := math.Min(float64(len(prop.Amenities))*0.005, 0.10)
	factor *= 1.0 + amenityBonus

	return factor
}

// trendFactor dampens the area's year-over-year median price change and
// extrapolates it over the months between now and the prediction date.
func (e *Engine) trendFactor(location string, at time.Time) float64 {
	areaSnaps := e.store.SnapshotsForArea(location)
	if len(areaSnaps) < 2 {
		return 1.0
	}

	recent := areaSnaps[len(areaSnaps)-1]
	yearAgo := areaSnaps[0]
	if len(areaSnaps) >= 12 {
		yearAgo = areaSnaps[len(areaSnaps)-12]
	}

	yoyChange := models.SafeRatio(recent.MedianPrice-yearAgo.MedianPrice, yearAgo.MedianPrice, 0)

	now := e.now()
	monthsForward := (at.Year()-now.Year())*12 + int(at.Month()) - int(now.Month())

	return 1.0 + (yoyChange*float64(monthsForward)/12)*0.7
}

// confidence blends comparable count and overall snapshot volume, each with
// its own ceiling, and clamps the mean to [0,1].
func (e *Engine) confidence(numComparables int) float64 {
	comparableConfidence := math.Min(float64(numComparables)/10, 0.85)
	dataConfidence := math.Min(float64(e.store.SnapshotCount())/24, 0.95)
	return models.Clamp((comparableConfidence+dataConfidence)/2, 0, 1)
}

func trendLabel(trendFactor float64) models.TrendDirection {
	switch {
	case trendFactor > 1.03:
		return models.TrendUp
	case trendFactor < 0.97:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}
