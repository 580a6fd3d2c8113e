package controller_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/http/controller"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	infoURL  = "https://vendor/api/123"
	priceURL = "https://vendor/api/price/123"
)

func newProductRouter(catalog controller.Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctr := controller.NewProductController(catalog)
	router.POST("/products", ctr.AddProduct)
	router.GET("/products", ctr.ListProducts)
	router.DELETE("/products/:id", ctr.DeleteProduct)
	router.GET("/products/:id/history", ctr.PriceHistory)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductController_AddProduct(t *testing.T) {
	body := fmt.Sprintf(`{"url_info":%q,"url_price":%q}`, infoURL, priceURL)

	t.Run("created", func(t *testing.T) {
		// given
		rating := 4.66
		catalog := new(MockCatalog)
		catalog.On("AddProduct", mock.Anything, infoURL, priceURL).
			Return(&model.Product{ID: 7, Name: "Widget", Description: "d", Rating: &rating}, nil)
		router := newProductRouter(catalog)

		// when
		w := serve(router, http.MethodPost, "/products", body)

		// then
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":7,"name":"Widget","description":"d","rating":4.66}`, w.Body.String())
		catalog.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		catalog := new(MockCatalog)
		router := newProductRouter(catalog)

		w := serve(router, http.MethodPost, "/products", `{"url_info":"https://vendor/api/1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		catalog.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	failures := []struct {
		name   string
		err    error
		status int
	}{
		{"malformed url", extraction.MalformedURLError{URL: "x", Err: errors.New("bad")}, http.StatusBadRequest},
		{"vendor unreachable", extraction.ConnectionError{URL: infoURL, Err: errors.New("refused")}, http.StatusBadGateway},
		{"auth", extraction.AuthError{URL: infoURL, StatusCode: 403}, http.StatusUnprocessableEntity},
		{"format", extraction.FormatError{URL: infoURL, StatusCode: 500}, http.StatusUnprocessableEntity},
		{"validation", extraction.ValidationError{Key: "body.name", Reason: "missing"}, http.StatusUnprocessableEntity},
		{"store", fmt.Errorf("failed to add product: %w", errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockCatalog)
			catalog.On("AddProduct", mock.Anything, infoURL, priceURL).Return(nil, tt.err)
			router := newProductRouter(catalog)

			w := serve(router, http.MethodPost, "/products", body)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestProductController_ListProducts(t *testing.T) {
	t.Run("ratings are rounded", func(t *testing.T) {
		// given
		rating := 4.66
		catalog := new(MockCatalog)
		catalog.On("ListProducts", mock.Anything).Return([]model.Product{
			{ID: 1, Name: "Widget", Rating: &rating},
			{ID: 2, Name: "Gadget"},
		}, nil)
		router := newProductRouter(catalog)

		// when
		w := serve(router, http.MethodGet, "/products", "")

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[
			{"id":1,"name":"Widget","description":"","rating":4.7},
			{"id":2,"name":"Gadget","description":"","rating":null}
		]`, w.Body.String())
	})

	t.Run("empty catalog", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("ListProducts", mock.Anything).Return([]model.Product{}, nil)
		router := newProductRouter(catalog)

		w := serve(router, http.MethodGet, "/products", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"no products under monitoring"}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("ListProducts", mock.Anything).Return(nil, errors.New("db down"))
		router := newProductRouter(catalog)

		w := serve(router, http.MethodGet, "/products", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestProductController_DeleteProduct(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"removed", "/products/1", nil, http.StatusOK},
		{"not found", "/products/999", repository.ErrProductNotFound, http.StatusNotFound},
		{"store failure", "/products/1", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockCatalog)
			catalog.On("RemoveProduct", mock.Anything, mock.AnythingOfType("int64")).Return(tt.err)
			router := newProductRouter(catalog)

			w := serve(router, http.MethodDelete, tt.path, "")

			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		catalog := new(MockCatalog)
		router := newProductRouter(catalog)

		w := serve(router, http.MethodDelete, "/products/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		catalog.AssertNotCalled(t, "RemoveProduct", mock.Anything, mock.Anything)
	})
}

func TestProductController_PriceHistory(t *testing.T) {
	t.Run("samples oldest first", func(t *testing.T) {
		// given
		at := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)
		catalog := new(MockCatalog)
		catalog.On("PriceHistory", mock.Anything, int64(1)).Return([]model.PriceSample{
			{ID: 1, ProductID: 1, Price: 1999, RecordedAt: at},
			{ID: 2, ProductID: 1, Price: 1899.5, RecordedAt: at.Add(time.Hour)},
		}, nil)
		router := newProductRouter(catalog)

		// when
		w := serve(router, http.MethodGet, "/products/1/history", "")

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[
			{"product_id":1,"price":1999,"date":"2024-03-01T09:05:07Z"},
			{"product_id":1,"price":1899.5,"date":"2024-03-01T10:05:07Z"}
		]`, w.Body.String())
	})

	t.Run("no samples", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("PriceHistory", mock.Anything, int64(1)).Return([]model.PriceSample{}, nil)
		router := newProductRouter(catalog)

		w := serve(router, http.MethodGet, "/products/1/history", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("unknown product", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("PriceHistory", mock.Anything, int64(999)).Return(nil, repository.ErrProductNotFound)
		router := newProductRouter(catalog)

		w := serve(router, http.MethodGet, "/products/999/history", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
