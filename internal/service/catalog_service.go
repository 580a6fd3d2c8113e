package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/metrics"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
)

// DocumentFetcher downloads and parses a vendor API document.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (extraction.Document, error)
}

// CatalogService holds the add/remove/list/history use-cases shared by the chat and HTTP surfaces.
type CatalogService struct {
	store   repository.CatalogStore
	fetcher DocumentFetcher
}

func NewCatalogService(store repository.CatalogStore, fetcher DocumentFetcher) *CatalogService {
	return &CatalogService{
		store:   store,
		fetcher: fetcher,
	}
}

// AddProduct validates both URLs, extracts the product info from urlInfo and stores the product.
// Failures are extraction errors (see extraction.Kind) or wrapped store errors.
func (cs *CatalogService) AddProduct(ctx context.Context, urlInfo, urlPrice string) (*model.Product, error) {
	for _, u := range []string{urlInfo, urlPrice} {
		if err := extraction.ValidateURL(u); err != nil {
			return nil, err
		}
	}

	doc, err := cs.fetcher.FetchDocument(ctx, urlInfo)
	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(extraction.Kind(err)).Inc()
		return nil, err
	}
	info, err := extraction.ExtractInfo(doc)
	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(extraction.Kind(err)).Inc()
		return nil, err
	}

	product := &model.Product{
		Name:        info.Name,
		Description: info.Description,
		Rating:      info.Rating,
		URLInfo:     urlInfo,
		URLPrice:    urlPrice,
	}
	if _, err := cs.store.AddProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	metrics.ProductsAdded.Inc()
	slog.Info("product added to monitoring", slog.Int64("product_id", product.ID), slog.String("name", product.Name))
	return product, nil
}

// RemoveProduct deletes the product and its price history.
func (cs *CatalogService) RemoveProduct(ctx context.Context, id int64) error {
	if err := cs.store.RemoveProduct(ctx, id); err != nil {
		return err
	}
	metrics.ProductsRemoved.Inc()
	slog.Info("product removed from monitoring", slog.Int64("product_id", id))
	return nil
}

func (cs *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return cs.store.ListProducts(ctx)
}

// PriceHistory returns repository.ErrProductNotFound for unknown ids, and an empty slice for products without samples.
func (cs *CatalogService) PriceHistory(ctx context.Context, id int64) ([]model.PriceSample, error) {
	exists, err := cs.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return cs.store.PriceHistory(ctx, id)
}
