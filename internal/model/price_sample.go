package model

import "time"

// PriceSample is one observed price of a product.
type PriceSample struct {
	ID         int64
	ProductID  int64
	Price      float64
	RecordedAt time.Time
}
