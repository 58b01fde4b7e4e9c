package form

import (
	"net/url"
	"strings"

	"github.com/DPlauder/meisterplan/internal/domain"
)

type ProductInput struct {
	ArticleNum  string `form:"articleNum" validate:"present"`
	Name        string `form:"name" validate:"present"`
	Description string `form:"description"`
	Price       string `form:"price" validate:"present,price"`
}

var productMessages = map[string]string{
	"articleNum.present": "Article number is required",
	"name.present":       "Product name is required",
	"price.present":      "Price is required",
	"price.price":        "Price must be a number greater than 0",
}

func ProductInputFromValues(v url.Values) ProductInput {
	return ProductInput{
		ArticleNum:  v.Get("articleNum"),
		Name:        v.Get("name"),
		Description: v.Get("description"),
		Price:       v.Get("price"),
	}
}

func (in ProductInput) Validate() Errors {
	return check(in, productMessages)
}

// Draft builds the create payload. It assumes Validate passed; an unparsable
// price becomes 0.
func (in ProductInput) Draft() domain.ProductDraft {
	price, _ := ParsePrice(in.Price)
	return domain.ProductDraft{
		ArticleNum:  strings.TrimSpace(in.ArticleNum),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       price.InexactFloat64(),
	}
}
