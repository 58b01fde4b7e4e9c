package domain

import "time"

// Entity names used in routes, audit events and error messages.
const (
	EntityCustomer  = "customer"
	EntityProduct   = "product"
	EntityInventory = "inventory item"
)

type BusinessCustomer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city"`
	PostalCode string     `json:"postalCode,omitempty"`
	Country    string     `json:"country,omitempty"`
	TaxNumber  string     `json:"taxNumber,omitempty"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
}

// CustomerDraft is the create payload. Optional fields are nil when left blank
// so they are omitted from the request body.
type CustomerDraft struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       string  `json:"city"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
	TaxNumber  *string `json:"taxNumber,omitempty"`
}

// CustomerPatch is a partial update; nil fields are left unchanged.
type CustomerPatch struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
	TaxNumber  *string `json:"taxNumber,omitempty"`
}

type Product struct {
	ID          string     `json:"id"`
	ArticleNum  string     `json:"articleNum"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
}

type ProductDraft struct {
	ArticleNum  string  `json:"articleNum"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type ProductPatch struct {
	ArticleNum  *string  `json:"articleNum,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// InventoryItem is addressed by ArticleNumber; it has no separate id.
// Quantity is read as any JSON number; the form only writes whole numbers.
type InventoryItem struct {
	ArticleNumber string  `json:"articleNumber"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Location      string  `json:"location"`
}

// InventoryDraft omits ArticleNumber: the gateway assigns it.
type InventoryDraft struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

type InventoryPatch struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Location *string `json:"location,omitempty"`
}

// AuditEvent is one recorded gateway operation.
type AuditEvent struct {
	ID         int64
	Op         string
	Entity     string
	Key        string
	OK         bool
	Error      string
	DurationMS int64
	CreatedAt  time.Time
}
