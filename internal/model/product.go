package model

import "math"

// Product is a retail item under price monitoring.
type Product struct {
	ID          int64
	Name        string
	Description string
	Rating      *float64
	URLInfo     string
	URLPrice    string
}

// RoundedRating returns the rating rounded to one decimal, or nil when the vendor has none.
func (p Product) RoundedRating() *float64 {
	if p.Rating == nil {
		return nil
	}
	r := RoundRating(*p.Rating)
	return &r
}

// RoundRating rounds half away from zero to one decimal place.
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}
