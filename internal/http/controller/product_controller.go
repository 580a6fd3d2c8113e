package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
)

// Catalog is the catalog surface exposed over HTTP.
type Catalog interface {
	AddProduct(ctx context.Context, urlInfo, urlPrice string) (*model.Product, error)
	RemoveProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]model.Product, error)
	PriceHistory(ctx context.Context, id int64) ([]model.PriceSample, error)
}

// ProductController handles HTTP requests for monitored products.
type ProductController struct {
	catalog Catalog
}

func NewProductController(catalog Catalog) *ProductController {
	return &ProductController{
		catalog: catalog,
	}
}

// AddProductRequest represents the request body for adding a product to monitoring.
type AddProductRequest struct {
	URLInfo  string `json:"url_info" binding:"required"`
	URLPrice string `json:"url_price" binding:"required"`
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rating      *float64 `json:"rating"`
}

// PriceSampleResponse is one price history entry.
type PriceSampleResponse struct {
	ProductID int64     `json:"product_id"`
	Price     float64   `json:"price"`
	Date      time.Time `json:"date"`
}

// AddProduct handles POST /products. The info document is fetched once; the price URL is only validated.
func (pc *ProductController) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := pc.catalog.AddProduct(c.Request.Context(), req.URLInfo, req.URLPrice)
	if err != nil {
		status, message := addProductFailure(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to add product", slog.Any("err", err))
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(*product))
}

func addProductFailure(err error) (int, string) {
	switch extraction.Kind(err) {
	case extraction.KindMalformedURL:
		return http.StatusBadRequest, "invalid url"
	case extraction.KindConnection:
		return http.StatusBadGateway, "vendor is unreachable"
	case extraction.KindAuth, extraction.KindFormat, extraction.KindValidation:
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "failed to add product"
	}
}

// ListProducts handles GET /products. Ratings are rounded to one decimal place.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.catalog.ListProducts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list products", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "no products under monitoring"})
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		p.Rating = p.RoundedRating()
		resp = append(resp, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	err := pc.catalog.RemoveProduct(c.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case err != nil:
		slog.Error("failed to remove product", slog.Int64("product_id", id), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove product"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "product removed from monitoring"})
	}
}

// PriceHistory handles GET /products/:id/history, oldest sample first.
func (pc *ProductController) PriceHistory(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	samples, err := pc.catalog.PriceHistory(c.Request.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		slog.Error("failed to load price history", slog.Int64("product_id", id), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load price history"})
		return
	}

	resp := make([]PriceSampleResponse, 0, len(samples))
	for _, s := range samples {
		resp = append(resp, PriceSampleResponse{ProductID: s.ProductID, Price: s.Price, Date: s.RecordedAt.UTC()})
	}
	c.JSON(http.StatusOK, resp)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return 0, false
	}
	return id, true
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Rating:      p.Rating,
	}
}
