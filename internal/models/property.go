package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// PropertyType is the closed set of property categories.
type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
	PropertyTypeIndustrial  PropertyType = "industrial"
	PropertyTypeLand        PropertyType = "land"
	PropertyTypeApartment   PropertyType = "apartment"
	PropertyTypeVilla       PropertyType = "villa"
	PropertyTypeTownhouse   PropertyType = "townhouse"
)

// ParsePropertyType validates a category string at the ingestion boundary.
func ParsePropertyType(s string) (PropertyType, error) {
	pt := PropertyType(strings.ToLower(strings.TrimSpace(s)))
	switch pt {
	case PropertyTypeResidential, PropertyTypeCommercial, PropertyTypeIndustrial,
		PropertyTypeLand, PropertyTypeApartment, PropertyTypeVilla, PropertyTypeTownhouse:
		return pt, nil
	}
	return "", fmt.Errorf("%w: unknown property type %q", ErrInvalidInput, s)
}

// Property describes a real estate property under evaluation.
// Coordinates are carried for ingestion and display only; location matching
// is exact string comparison, never geographic distance.
type Property struct {
	ID           string                 `json:"id"`
	Location     string                 `json:"location"`
	PropertyType PropertyType           `json:"property_type"`
	SquareFeet   float64                `json:"square_feet"`
	Bedrooms     *int                   `json:"bedrooms,omitempty"`
	Bathrooms    *float64               `json:"bathrooms,omitempty"`
	YearBuilt    *int                   `json:"year_built,omitempty"`
	Amenities    []string               `json:"amenities,omitempty"`
	Neighborhood string                 `json:"neighborhood,omitempty"`
	Coordinates  *orb.Point             `json:"coordinates,omitempty"`
	Features     map[string]interface{} `json:"features,omitempty"`
}

// Age returns the property age in years relative to the given time,
// or nil when the construction year is unknown.
func (p *Property) Age(now time.Time) *int {
	if p.YearBuilt == nil {
		return nil
	}
	age := now.Year() - *p.YearBuilt
	return &age
}

// HasAmenity reports whether the property lists the amenity, case-insensitively.
func (p *Property) HasAmenity(amenity string) bool {
	for _, a := range p.Amenities {
		if strings.EqualFold(a, amenity) {
			return true
		}
	}
	return false
}

// Validate checks the valuation-input contract.
func (p *Property) Validate() error {
	if p.SquareFeet <= 0 {
		return fmt.Errorf("%w: square footage must be positive, got %v", ErrInvalidInput, p.SquareFeet)
	}
	if _, err := ParsePropertyType(string(p.PropertyType)); err != nil {
		return err
	}
	return nil
}
