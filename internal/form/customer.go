package form

import (
	"net/url"
	"strings"

	"github.com/DPlauder/meisterplan/internal/domain"
)

// Countries offered by the customer form's country picker.
var Countries = []string{
	"Deutschland",
	"Österreich",
	"Schweiz",
	"Niederlande",
	"Belgien",
	"Frankreich",
	"Italien",
	"Spanien",
	"Polen",
	"Tschechien",
}

type CustomerInput struct {
	Name       string `form:"name" validate:"present"`
	Email      string `form:"email" validate:"present,emailaddr"`
	Phone      string `form:"phone" validate:"omitempty,phone"`
	Address    string `form:"address"`
	City       string `form:"city" validate:"present"`
	PostalCode string `form:"postalCode" validate:"omitempty,postalcode"`
	Country    string `form:"country"`
	TaxNumber  string `form:"taxNumber"`
}

var customerMessages = map[string]string{
	"name.present":          "Name is required",
	"email.present":         "Email is required",
	"email.emailaddr":       "Invalid email address",
	"phone.phone":           "Invalid phone number",
	"city.present":          "City is required",
	"postalCode.postalcode": "Invalid postal code (4-5 digits)",
}

func CustomerInputFromValues(v url.Values) CustomerInput {
	return CustomerInput{
		Name:       v.Get("name"),
		Email:      v.Get("email"),
		Phone:      v.Get("phone"),
		Address:    v.Get("address"),
		City:       v.Get("city"),
		PostalCode: v.Get("postalCode"),
		Country:    v.Get("country"),
		TaxNumber:  v.Get("taxNumber"),
	}
}

// CustomerInputFrom fills the edit form from an existing customer.
func CustomerInputFrom(c domain.BusinessCustomer) CustomerInput {
	return CustomerInput{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		TaxNumber:  c.TaxNumber,
	}
}

func (in CustomerInput) Validate() Errors {
	return check(in, customerMessages)
}

// Draft builds the create payload. Blank optional fields are left out.
func (in CustomerInput) Draft() domain.CustomerDraft {
	return domain.CustomerDraft{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      optional(in.Phone),
		Address:    optional(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: optional(in.PostalCode),
		Country:    optional(in.Country),
		TaxNumber:  optional(in.TaxNumber),
	}
}

// PatchFrom returns a patch holding only the fields that differ from cur.
// Clearing an optional field sends it as an empty string.
func (in CustomerInput) PatchFrom(cur domain.BusinessCustomer) domain.CustomerPatch {
	var p domain.CustomerPatch
	p.Name = changed(in.Name, cur.Name)
	p.Email = changed(in.Email, cur.Email)
	p.Phone = changed(in.Phone, cur.Phone)
	p.Address = changed(in.Address, cur.Address)
	p.City = changed(in.City, cur.City)
	p.PostalCode = changed(in.PostalCode, cur.PostalCode)
	p.Country = changed(in.Country, cur.Country)
	p.TaxNumber = changed(in.TaxNumber, cur.TaxNumber)
	return p
}

func changed(next, cur string) *string {
	next = strings.TrimSpace(next)
	if next == cur {
		return nil
	}
	return &next
}
