// Package money holds the integer-safe price arithmetic used by the cart and
// checkout cores. All amounts are minor currency units (centavos).
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
)

var printer = message.NewPrinter(language.English)

// Format renders a minor-unit amount as a grouped, fixed two-decimal string
// with the given currency symbol ("₱2,999.00"). It never fails: any internal
// formatting problem yields the formatted zero amount instead.
func Format(amountMinorUnits int64, symbol string) (formatted string) {
	defer func() {
		if recover() != nil {
			formatted = symbol + "0.00"
		}
	}()

	units := amountMinorUnits / 100
	cents := amountMinorUnits % 100
	var sign string
	if amountMinorUnits < 0 {
		// Negate the parts, not the amount: units/cents of MinInt64 are
		// safely negatable even though the amount itself is not.
		sign = "-"
		units = -units
		cents = -cents
	}

	grouped := printer.Sprint(number.Decimal(units))
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, grouped, cents)
}

// LineTotal computes unitPrice * quantity. It rejects non-positive
// quantities and products that would not fit in an int64.
func LineTotal(unitPriceMinorUnits int64, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be a positive integer").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if unitPriceMinorUnits > 0 && quantity > math.MaxInt64/unitPriceMinorUnits {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "line total overflows").
			WithDetails(map[string]any{"unit_price": unitPriceMinorUnits, "quantity": quantity})
	}
	return unitPriceMinorUnits * quantity, nil
}

// ApplyBasisPointsHalfUp multiplies an amount by a basis-point rate and rounds
// half-up at the minor unit. Display and submission paths share this exact
// rounding so the two can never diverge.
func ApplyBasisPointsHalfUp(amountMinorUnits, basisPoints int64) int64 {
	rate := decimal.New(basisPoints, -4)
	return decimal.NewFromInt(amountMinorUnits).Mul(rate).Round(0).IntPart()
}

// ParseMinorUnits converts a decimal price string ("29.99") into minor units.
// Sub-minor precision is rounded half-up, matching ApplyBasisPointsHalfUp.
func ParseMinorUnits(price string) (int64, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", price, err)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
