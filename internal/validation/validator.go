package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// totalTolerance is the largest accepted gap between the declared total and
// the sum of the cart.
var totalTolerance = decimal.New(1, -2)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every constraint a checkout request violates.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Money stays decimal: a float conversion would flush tiny amounts to 0.
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks field constraints and the cross-field total. It returns nil
// or an *Error.
func (val *Validator) Validate(req *domain.CheckoutRequest) error {
	if req == nil {
		return &Error{Violations: []Violation{{Field: "", Message: "request body is required"}}}
	}

	var violations []Violation
	itemsValid := true

	if err := val.v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate checkout request: %w", err)
		}
		for _, fe := range fieldErrs {
			field := strings.TrimPrefix(fe.Namespace(), "CheckoutRequest.")
			violations = append(violations, Violation{Field: field, Message: message(fe, field)})
			if strings.HasPrefix(field, "items") {
				itemsValid = false
			}
		}
	}

	// The sum is only meaningful for a non-empty cart of valid items.
	if itemsValid && req.TotalPrice.IsPositive() {
		if req.TotalPrice.Sub(req.ItemsTotal()).Abs().GreaterThan(totalTolerance) {
			violations = append(violations, Violation{
				Field:   "totalPrice",
				Message: "total price does not match sum of items",
			})
		}
	}

	if len(violations) > 0 {
		return &Error{Violations: violations}
	}
	return nil
}

func message(fe validator.FieldError, field string) string {
	switch fe.StructField() {
	case "Phone":
		return "phone number must be at least 10 digits"
	case "PinCode":
		return "PIN code must be at least 6 digits"
	case "Email":
		return "invalid email address"
	case "Items":
		return "cart cannot be empty"
	case "Price":
		return itemPrefix(field) + ": price must be greater than 0"
	case "Quantity":
		return itemPrefix(field) + ": quantity must be greater than 0"
	case "TotalPrice":
		return "total price must be greater than 0"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func itemPrefix(field string) string {
	if i := strings.LastIndex(field, "."); i > 0 {
		return field[:i]
	}
	return field
}
