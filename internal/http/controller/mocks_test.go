package controller_test

import (
	"context"

	"github.com/iyhunko/price-monitor/internal/conversation"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) AddProduct(ctx context.Context, urlInfo, urlPrice string) (*model.Product, error) {
	args := m.Called(ctx, urlInfo, urlPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalog) RemoveProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalog) PriceHistory(ctx context.Context, id int64) ([]model.PriceSample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceSample), args.Error(1)
}

type MockConversation struct {
	mock.Mock
}

func (m *MockConversation) Handle(ctx context.Context, msg conversation.Message) []conversation.Reply {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]conversation.Reply)
}
