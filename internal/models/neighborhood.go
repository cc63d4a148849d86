package models

import "math"

// Neighborhood holds demographics and quality scores for one neighborhood.
type Neighborhood struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Population       int     `json:"population"`
	MedianIncome     float64 `json:"median_income"`
	EmploymentRate   float64 `json:"employment_rate"`
	CrimeRate        float64 `json:"crime_rate"`
	SchoolRating     float64 `json:"school_rating"`
	AmenityScore     float64 `json:"amenity_score"`
	WalkabilityScore float64 `json:"walkability_score"`
	TransitScore     float64 `json:"transit_score"`
	GrowthRate       float64 `json:"growth_rate"`
}

// DesirabilityScore combines income, safety, education, location and
// amenities into a 0-100 quality score.
func (n *Neighborhood) DesirabilityScore() float64 {
	incomeScore := math.Min(n.MedianIncome/1000, 50)
	safetyScore := math.Max(0, 20-n.CrimeRate)
	educationScore := n.SchoolRating * 2
	locationScore := (n.WalkabilityScore + n.TransitScore) / 10

	total := incomeScore*0.25 +
		safetyScore*0.25 +
		educationScore*0.20 +
		locationScore*0.15 +
		n.AmenityScore*0.15

	return math.Min(total, 100)
}
