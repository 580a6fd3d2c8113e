package conversation_test

import (
	"strconv"

	"github.com/iyhunko/price-monitor/internal/model"
)

func newProduct() *model.Product {
	rating := 4.5
	return &model.Product{
		Name:     "Widget",
		Rating:   &rating,
		URLInfo:  infoURL,
		URLPrice: priceURL,
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
