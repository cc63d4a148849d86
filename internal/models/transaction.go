package models

import "time"

// Transaction is an immutable historical sale record. Records are created at
// ingestion and never mutated.
type Transaction struct {
	ID            string       `json:"id"`
	PropertyID    string       `json:"property_id"`
	SalePrice     float64      `json:"sale_price"`
	Date          time.Time    `json:"date"`
	PropertyType  PropertyType `json:"property_type"`
	SquareFeet    float64      `json:"square_feet"`
	Location      string       `json:"location"`
	BuyerType     string       `json:"buyer_type,omitempty"`
	FinancingType string       `json:"financing_type,omitempty"`
}

// PricePerSqft returns the sale price per unit of area, or 0 when the
// recorded area is not positive.
func (t *Transaction) PricePerSqft() float64 {
	return SafeRatio(t.SalePrice, t.SquareFeet, 0)
}
