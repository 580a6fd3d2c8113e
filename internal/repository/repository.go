package repository

import (
	"context"
	"errors"
	"time"

	"github.com/iyhunko/price-monitor/internal/model"
)

// ErrProductNotFound is returned when an operation targets a product id that does not exist.
var ErrProductNotFound = errors.New("product not found")

// CatalogStore persists monitored products and their price history.
type CatalogStore interface {
	AddProduct(ctx context.Context, product *model.Product) (int64, error)
	RemoveProduct(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	AppendPriceSample(ctx context.Context, productID int64, price float64, observedAt time.Time) (int64, error)
	PriceHistory(ctx context.Context, productID int64) ([]model.PriceSample, error)
}

// ForeignKeyError represents a database foreign key violation.
type ForeignKeyError struct {
	Detail string
}

func (f *ForeignKeyError) Error() string {
	return "referenced product does not exist: " + f.Detail
}

// Unwrap lets errors.Is(err, ErrProductNotFound) match a foreign key violation.
func (f *ForeignKeyError) Unwrap() error {
	return ErrProductNotFound
}
