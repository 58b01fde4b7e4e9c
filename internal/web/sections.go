package web

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/form"
	"github.com/DPlauder/meisterplan/internal/listview"
	"github.com/DPlauder/meisterplan/internal/service"
)

const dateLayout = "02.01.2006"

func newCustomerSection(s *Server) *section[domain.BusinessCustomer, form.CustomerInput] {
	svc := func(gw service.Gateway) *service.CustomerService {
		return service.NewCustomerService(gw, s.observer)
	}
	return &section[domain.BusinessCustomer, form.CustomerInput]{
		s:        s,
		slug:     "customers",
		entity:   domain.EntityCustomer,
		title:    "Customers",
		newTitle: "New customer",
		created:  "Customer created",
		pipeline: listview.New(listview.CustomerSchema, s.opts.Collation),
		key:      func(c domain.BusinessCustomer) string { return c.ID },
		label:    func(c domain.BusinessCustomer) string { return c.Name },
		cells: func(c domain.BusinessCustomer) []string {
			created := ""
			if c.CreatedAt.Valid() {
				created = c.CreatedAt.Format(dateLayout)
			}
			return []string{c.Name, c.Email, c.City, c.Country, c.TaxNumber, created}
		},
		fields: func(in form.CustomerInput, errs form.Errors) []formField {
			return []formField{
				{Name: "name", Label: "Company name", Type: "text", Value: in.Name, Error: errs["name"], Required: true},
				{Name: "email", Label: "Email", Type: "email", Value: in.Email, Error: errs["email"], Required: true},
				{Name: "phone", Label: "Phone", Type: "tel", Value: in.Phone, Error: errs["phone"]},
				{Name: "address", Label: "Address", Type: "text", Value: in.Address, Error: errs["address"]},
				{Name: "postalCode", Label: "Postal code", Type: "text", Value: in.PostalCode, Error: errs["postalCode"]},
				{Name: "city", Label: "City", Type: "text", Value: in.City, Error: errs["city"], Required: true},
				{Name: "country", Label: "Country", Value: in.Country, Error: errs["country"], Options: form.Countries},
				{Name: "taxNumber", Label: "Tax number", Type: "text", Value: in.TaxNumber, Error: errs["taxNumber"]},
			}
		},
		parse: form.CustomerInputFromValues,
		edit:  form.CustomerInputFrom,
		list: func(ctx context.Context, gw service.Gateway) ([]domain.BusinessCustomer, error) {
			return svc(gw).List(ctx)
		},
		get: func(ctx context.Context, gw service.Gateway, id string) (*domain.BusinessCustomer, error) {
			return svc(gw).Get(ctx, id)
		},
		create: func(ctx context.Context, gw service.Gateway, in form.CustomerInput) error {
			_, err := svc(gw).Create(ctx, in.Draft())
			return err
		},
		update: func(ctx context.Context, gw service.Gateway, id string, cur domain.BusinessCustomer, in form.CustomerInput) error {
			_, err := svc(gw).Update(ctx, id, in.PatchFrom(cur))
			return err
		},
		remove: func(ctx context.Context, gw service.Gateway, id string) error {
			return svc(gw).Delete(ctx, id)
		},
	}
}

func newProductSection(s *Server) *section[domain.Product, form.ProductInput] {
	svc := func(gw service.Gateway) *service.ProductService {
		return service.NewProductService(gw, s.observer)
	}
	return &section[domain.Product, form.ProductInput]{
		s:        s,
		slug:     "products",
		entity:   domain.EntityProduct,
		title:    "Products",
		newTitle: "New product",
		created:  "Product created",
		pipeline: listview.New(listview.ProductSchema, s.opts.Collation),
		key:      func(p domain.Product) string { return p.ID },
		label:    func(p domain.Product) string { return p.Name },
		cells: func(p domain.Product) []string {
			return []string{p.ArticleNum, p.Name, p.Description, formatPrice(p.Price)}
		},
		fields: func(in form.ProductInput, errs form.Errors) []formField {
			return []formField{
				{Name: "articleNum", Label: "Article number", Type: "text", Value: in.ArticleNum, Error: errs["articleNum"], Required: true},
				{Name: "name", Label: "Product name", Type: "text", Value: in.Name, Error: errs["name"], Required: true},
				{Name: "description", Label: "Description", Type: "textarea", Value: in.Description, Error: errs["description"]},
				{Name: "price", Label: "Price (€)", Type: "text", Value: in.Price, Error: errs["price"], Required: true},
			}
		},
		parse: form.ProductInputFromValues,
		details: func(p domain.Product) []detail {
			created := ""
			if p.CreatedAt.Valid() {
				created = p.CreatedAt.Format(dateLayout)
			}
			return []detail{
				{Label: "Article number", Value: p.ArticleNum},
				{Label: "Name", Value: p.Name},
				{Label: "Description", Value: p.Description},
				{Label: "Price", Value: formatPrice(p.Price)},
				{Label: "Created", Value: created},
			}
		},
		list: func(ctx context.Context, gw service.Gateway) ([]domain.Product, error) {
			return svc(gw).List(ctx)
		},
		get: func(ctx context.Context, gw service.Gateway, id string) (*domain.Product, error) {
			return svc(gw).Get(ctx, id)
		},
		create: func(ctx context.Context, gw service.Gateway, in form.ProductInput) error {
			_, err := svc(gw).Create(ctx, in.Draft())
			return err
		},
		remove: func(ctx context.Context, gw service.Gateway, id string) error {
			return svc(gw).Delete(ctx, id)
		},
	}
}

func newInventorySection(s *Server) *section[domain.InventoryItem, form.InventoryInput] {
	svc := func(gw service.Gateway) *service.InventoryService {
		return service.NewInventoryService(gw, s.observer)
	}
	return &section[domain.InventoryItem, form.InventoryInput]{
		s:        s,
		slug:     "inventory",
		entity:   domain.EntityInventory,
		title:    "Stock",
		newTitle: "New stock item",
		created:  "Stock item created",
		pipeline: listview.New(listview.InventorySchema, s.opts.Collation),
		key:      func(i domain.InventoryItem) string { return i.ArticleNumber },
		label:    func(i domain.InventoryItem) string { return i.Name },
		cells: func(i domain.InventoryItem) []string {
			return []string{i.ArticleNumber, i.Name, listview.FormatQuantity(i.Quantity), i.Location}
		},
		fields: func(in form.InventoryInput, errs form.Errors) []formField {
			return []formField{
				{Name: "name", Label: "Name", Type: "text", Value: in.Name, Error: errs["name"], Required: true},
				{Name: "quantity", Label: "Quantity", Type: "number", Value: in.Quantity, Error: errs["quantity"], Required: true},
				{Name: "location", Label: "Location", Type: "text", Value: in.Location, Error: errs["location"]},
			}
		},
		parse: form.InventoryInputFromValues,
		details: func(i domain.InventoryItem) []detail {
			return []detail{
				{Label: "Article number", Value: i.ArticleNumber},
				{Label: "Name", Value: i.Name},
				{Label: "Quantity", Value: listview.FormatQuantity(i.Quantity)},
				{Label: "Location", Value: i.Location},
			}
		},
		list: func(ctx context.Context, gw service.Gateway) ([]domain.InventoryItem, error) {
			return svc(gw).List(ctx)
		},
		get: func(ctx context.Context, gw service.Gateway, articleNumber string) (*domain.InventoryItem, error) {
			return svc(gw).Get(ctx, articleNumber)
		},
		create: func(ctx context.Context, gw service.Gateway, in form.InventoryInput) error {
			_, err := svc(gw).Create(ctx, in.Draft())
			return err
		},
		remove: func(ctx context.Context, gw service.Gateway, articleNumber string) error {
			return svc(gw).Delete(ctx, articleNumber)
		},
	}
}

func formatPrice(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + " €"
}
