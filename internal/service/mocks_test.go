package service_test

import (
	"context"
	"time"

	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockCatalogStore is a mock implementation of repository.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) AddProduct(ctx context.Context, product *model.Product) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) RemoveProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogStore) AppendPriceSample(ctx context.Context, productID int64, price float64, observedAt time.Time) (int64, error) {
	args := m.Called(ctx, productID, price, observedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogStore) PriceHistory(ctx context.Context, productID int64) ([]model.PriceSample, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceSample), args.Error(1)
}

// MockFetcher is a mock implementation of service.DocumentFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchDocument(ctx context.Context, url string) (extraction.Document, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(extraction.Document), args.Error(1)
}

func mustDocument(raw string) extraction.Document {
	doc, err := extraction.ParseDocument([]byte(raw))
	if err != nil {
		panic(err)
	}
	return doc
}

func priceDocument(price string) extraction.Document {
	return mustDocument(`{"body":{"materialPrices":[{"price":{"salePrice":` + price + `}}]}}`)
}
