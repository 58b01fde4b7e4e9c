package form

import (
	"net/url"
	"strings"

	"github.com/DPlauder/meisterplan/internal/domain"
)

type InventoryInput struct {
	Name     string `form:"name" validate:"present"`
	Quantity string `form:"quantity" validate:"present,quantity"`
	Location string `form:"location"`
}

var inventoryMessages = map[string]string{
	"name.present":      "Name is required",
	"quantity.present":  "Quantity is required",
	"quantity.quantity": "Quantity must be a whole number of 0 or more",
}

func InventoryInputFromValues(v url.Values) InventoryInput {
	return InventoryInput{
		Name:     v.Get("name"),
		Quantity: v.Get("quantity"),
		Location: v.Get("location"),
	}
}

func (in InventoryInput) Validate() Errors {
	return check(in, inventoryMessages)
}

// Draft builds the create payload. It assumes Validate passed.
func (in InventoryInput) Draft() domain.InventoryDraft {
	qty, _ := parseQuantity(in.Quantity)
	return domain.InventoryDraft{
		Name:     strings.TrimSpace(in.Name),
		Quantity: qty,
		Location: strings.TrimSpace(in.Location),
	}
}
