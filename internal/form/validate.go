// Package form holds the create/edit inputs of the dashboard, their
// validation rules and the submit controller.
package form

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^[\d\s\-+()]+$`)
	postalPattern = regexp.MustCompile(`^\d{4,5}$`)
)

var errInvalidPrice = errors.New("price must be a number greater than 0")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their form names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	mustRegister(v, "present", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "emailaddr", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
		return postalPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		_, err := ParsePrice(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "quantity", func(fl validator.FieldLevel) bool {
		_, err := parseQuantity(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// check runs the struct's validate tags and turns failures into messages.
// messages is keyed by "field.tag".
func check(in any, messages map[string]string) Errors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}

// ParsePrice accepts a comma or a dot as decimal separator. Exponent
// notation is rejected. The result must be a finite float64 greater than
// zero.
func ParsePrice(s string) (decimal.Decimal, error) {
	normalized := strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if strings.ContainsAny(normalized, "eE") {
		return decimal.Zero, errInvalidPrice
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, errInvalidPrice
	}
	if f, _ := d.Float64(); math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return decimal.Zero, errInvalidPrice
	}
	return d, nil
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("quantity must not be negative")
	}
	return n, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
