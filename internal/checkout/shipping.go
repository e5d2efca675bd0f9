// Package checkout drives a cart through order creation, payment intent
// creation, and payment confirmation as a strict linear state machine. At
// most one attempt is in flight at a time.
package checkout

import (
	stdErrors "errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// ShippingInfo is the destination collected before an order is created.
type ShippingInfo struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// FormatAddress renders the multi-line postal form the backend stores
// verbatim on the order.
func (s ShippingInfo) FormatAddress() string {
	lines := []string{
		strings.TrimSpace(s.FirstName + " " + s.LastName),
		s.Address,
		fmt.Sprintf("%s, %s %s", s.City, s.State, s.ZipCode),
		s.Country,
		"Phone: " + s.Phone,
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var shippingValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first problem with the shipping info as a coded
// validation error.
func (s ShippingInfo) Validate() error {
	if err := shippingValidator.Struct(s); err != nil {
		fields := make([]string, 0, 4)
		var verrs validator.ValidationErrors
		if stdErrors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping info").
			WithDetails(map[string]any{"fields": fields})
	}
	return nil
}
