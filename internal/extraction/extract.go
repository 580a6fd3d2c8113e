package extraction

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Info is the descriptive data of a product.
type Info struct {
	Name        string
	Description string
	Rating      *float64
}

// ExtractInfo reads body.name, body.description and body.rating.star.
func ExtractInfo(doc Document) (Info, error) {
	body, bodyPath, err := object(doc.root, "", "body")
	if err != nil {
		return Info{}, err
	}

	name, ok := optional(body, "name")
	if !ok {
		return Info{}, ValidationError{Key: join(bodyPath, "name"), Reason: "missing key"}
	}

	info := Info{Name: name.String()}
	if description, ok := optional(body, "description"); ok {
		info.Description = description.String()
	}
	if rating, ok := optional(body, "rating"); ok {
		if star, ok := optional(rating, "star"); ok {
			if v, ok := number(star); ok {
				info.Rating = &v
			}
		}
	}
	return info, nil
}

// ExtractPrice reads body.materialPrices[0].price.salePrice.
func ExtractPrice(doc Document) (float64, error) {
	body, path, err := object(doc.root, "", "body")
	if err != nil {
		return 0, err
	}

	path = join(path, "materialPrices")
	prices, ok := optional(body, "materialPrices")
	if !ok {
		return 0, ValidationError{Key: path, Reason: "missing key"}
	}
	if !prices.IsArray() {
		return 0, ValidationError{Key: path, Reason: "expected a list"}
	}
	entries := prices.Array()
	path += "[0]"
	if len(entries) == 0 {
		return 0, ValidationError{Key: path, Reason: "list is empty"}
	}

	price, path, err := object(entries[0], path, "price")
	if err != nil {
		return 0, err
	}

	path = join(path, "salePrice")
	sale, ok := optional(price, "salePrice")
	if !ok {
		return 0, ValidationError{Key: path, Reason: "missing key"}
	}
	v, ok := number(sale)
	if !ok {
		return 0, ValidationError{Key: path, Reason: "not a number: " + sale.Raw}
	}
	return v, nil
}

// number accepts JSON numbers and strings holding a number.
func number(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		var err error
		v, err = strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
