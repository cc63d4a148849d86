package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeRatio(t *testing.T) {
	tests := []struct {
		name     string
		num      float64
		den      float64
		fallback float64
		expected float64
	}{
		{"Normal division", 10, 4, 0, 2.5},
		{"Zero denominator", 10, 0, 1.0, 1.0},
		{"Negative denominator", 10, -5, 0.5, 0.5},
		{"Zero numerator", 0, 4, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeRatio(tt.num, tt.den, tt.fallback))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestParsePropertyType(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    PropertyType
		expectError bool
	}{
		{"Apartment", "apartment", PropertyTypeApartment, false},
		{"Mixed case", "Villa", PropertyTypeVilla, false},
		{"Surrounding whitespace", "  townhouse ", PropertyTypeTownhouse, false},
		{"Unknown type", "castle", "", true},
		{"Empty string", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, err := ParsePropertyType(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pt)
		})
	}
}

func TestPropertyValidate(t *testing.T) {
	prop := Property{Location: "Downtown", PropertyType: PropertyTypeApartment, SquareFeet: 1200}
	assert.NoError(t, prop.Validate())

	prop.SquareFeet = 0
	assert.ErrorIs(t, prop.Validate(), ErrInvalidInput)

	prop.SquareFeet = -100
	assert.ErrorIs(t, prop.Validate(), ErrInvalidInput)
}

func TestPropertyAge(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	prop := Property{}
	assert.Nil(t, prop.Age(now))

	year := 2019
	prop.YearBuilt = &year
	age := prop.Age(now)
	require.NotNil(t, age)
	assert.Equal(t, 5, *age)
}

func TestPropertyHasAmenity(t *testing.T) {
	prop := Property{Amenities: []string{"Pool", "gym", "School"}}

	assert.True(t, prop.HasAmenity("pool"))
	assert.True(t, prop.HasAmenity("GYM"))
	assert.False(t, prop.HasAmenity("park"))
}

func TestTransactionPricePerSqft(t *testing.T) {
	tx := Transaction{SalePrice: 500000, SquareFeet: 1000}
	assert.Equal(t, 500.0, tx.PricePerSqft())

	tx.SquareFeet = 0
	assert.Equal(t, 0.0, tx.PricePerSqft())
}

func TestMarketSnapshotAbsorptionRate(t *testing.T) {
	snap := MarketSnapshot{TotalSales: 40, Inventory: 200}
	assert.InDelta(t, 0.2, snap.AbsorptionRate(), 1e-9)

	snap.Inventory = 0
	assert.Equal(t, 0.0, snap.AbsorptionRate())
}

func TestMarketSnapshotIsSellersMarket(t *testing.T) {
	snap := MarketSnapshot{TotalSales: 60, Inventory: 200}
	assert.True(t, snap.IsSellersMarket(DefaultSellersMarketThreshold))

	snap.TotalSales = 10
	assert.False(t, snap.IsSellersMarket(DefaultSellersMarketThreshold))
}

func TestNeighborhoodDesirabilityScore(t *testing.T) {
	tests := []struct {
		name         string
		neighborhood Neighborhood
		check        func(t *testing.T, score float64)
	}{
		{
			name: "Strong neighborhood",
			neighborhood: Neighborhood{
				MedianIncome:     90000,
				CrimeRate:        3,
				SchoolRating:     9,
				AmenityScore:     80,
				WalkabilityScore: 85,
				TransitScore:     75,
			},
			check: func(t *testing.T, score float64) {
				assert.Greater(t, score, 50.0)
				assert.LessOrEqual(t, score, 100.0)
			},
		},
		{
			name:         "Empty profile",
			neighborhood: Neighborhood{},
			check: func(t *testing.T, score float64) {
				// Zero crime still earns the full safety component.
				assert.InDelta(t, 5.0, score, 1e-9)
			},
		},
		{
			name: "Extreme values stay clamped",
			neighborhood: Neighborhood{
				MedianIncome:     10000000,
				SchoolRating:     10,
				AmenityScore:     100,
				WalkabilityScore: 100,
				TransitScore:     100,
			},
			check: func(t *testing.T, score float64) {
				assert.LessOrEqual(t, score, 100.0)
				assert.GreaterOrEqual(t, score, 0.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.neighborhood.DesirabilityScore())
		})
	}
}
