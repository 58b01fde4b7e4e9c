package listview

import (
	"strconv"

	"github.com/DPlauder/meisterplan/internal/domain"
)

var CustomerSchema = Schema[domain.BusinessCustomer]{
	Fields: []Field[domain.BusinessCustomer]{
		{Name: "name", Label: "Name", Text: func(c domain.BusinessCustomer) string { return c.Name }},
		{Name: "email", Label: "Email", Text: func(c domain.BusinessCustomer) string { return c.Email }},
		{Name: "city", Label: "City", Text: func(c domain.BusinessCustomer) string { return c.City }},
		{Name: "country", Label: "Country", Text: func(c domain.BusinessCustomer) string { return c.Country }},
		{Name: "taxNumber", Label: "Tax number", Text: func(c domain.BusinessCustomer) string { return c.TaxNumber }},
		{Name: "createdAt", Label: "Created", Text: func(c domain.BusinessCustomer) string {
			if !c.CreatedAt.Valid() {
				return ""
			}
			return c.CreatedAt.UTC().Format("2006-01-02T15:04:05")
		}},
	},
	Search: []func(domain.BusinessCustomer) string{
		func(c domain.BusinessCustomer) string { return c.Name },
		func(c domain.BusinessCustomer) string { return c.Email },
		func(c domain.BusinessCustomer) string { return c.City },
		func(c domain.BusinessCustomer) string { return c.Country },
	},
	DefaultSort: "name",
}

var ProductSchema = Schema[domain.Product]{
	Fields: []Field[domain.Product]{
		{Name: "articleNum", Label: "Article no.", Text: func(p domain.Product) string { return p.ArticleNum }},
		{Name: "name", Label: "Name", Text: func(p domain.Product) string { return p.Name }},
		{Name: "description", Label: "Description", Text: func(p domain.Product) string { return p.Description }},
		{Name: "price", Label: "Price", Number: func(p domain.Product) float64 { return p.Price }},
	},
	Search: []func(domain.Product) string{
		func(p domain.Product) string { return p.Name },
		func(p domain.Product) string { return p.ArticleNum },
		func(p domain.Product) string { return p.Description },
		func(p domain.Product) string { return strconv.FormatFloat(p.Price, 'f', -1, 64) },
	},
	DefaultSort: "name",
}

var InventorySchema = Schema[domain.InventoryItem]{
	Fields: []Field[domain.InventoryItem]{
		{Name: "articleNumber", Label: "Article no.", Text: func(i domain.InventoryItem) string { return i.ArticleNumber }},
		{Name: "name", Label: "Name", Text: func(i domain.InventoryItem) string { return i.Name }},
		{Name: "quantity", Label: "Quantity", Number: func(i domain.InventoryItem) float64 { return i.Quantity }},
		{Name: "location", Label: "Location", Text: func(i domain.InventoryItem) string { return i.Location }},
	},
	Search: []func(domain.InventoryItem) string{
		func(i domain.InventoryItem) string { return i.Name },
		func(i domain.InventoryItem) string { return i.ArticleNumber },
		func(i domain.InventoryItem) string { return i.Location },
		func(i domain.InventoryItem) string { return FormatQuantity(i.Quantity) },
	},
	DefaultSort: "name",
}

// AuditSchema keeps the store's newest-first order until a column is picked.
var AuditSchema = Schema[domain.AuditEvent]{
	Fields: []Field[domain.AuditEvent]{
		{Name: "time", Label: "Time", Number: func(e domain.AuditEvent) float64 { return float64(e.CreatedAt.UnixNano()) }},
		{Name: "op", Label: "Operation", Text: func(e domain.AuditEvent) string { return e.Op }},
		{Name: "entity", Label: "Entity", Text: func(e domain.AuditEvent) string { return e.Entity }},
		{Name: "key", Label: "Key", Text: func(e domain.AuditEvent) string { return e.Key }},
		{Name: "duration", Label: "Duration (ms)", Number: func(e domain.AuditEvent) float64 { return float64(e.DurationMS) }},
		{Name: "result", Label: "Result", Text: func(e domain.AuditEvent) string {
			if e.OK {
				return "ok"
			}
			return e.Error
		}},
	},
	Search: []func(domain.AuditEvent) string{
		func(e domain.AuditEvent) string { return e.Op },
		func(e domain.AuditEvent) string { return e.Entity },
		func(e domain.AuditEvent) string { return e.Key },
		func(e domain.AuditEvent) string { return e.Error },
	},
}

// FormatQuantity prints whole quantities without a fraction.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
