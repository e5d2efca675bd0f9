package controllers

import (
	"net/http"

	"github.com/angelmondragon/aurelis-storefront/api/responses"
	"github.com/angelmondragon/aurelis-storefront/api/validators"
	"github.com/angelmondragon/aurelis-storefront/internal/checkout"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
)

// CheckoutState returns the caller's checkout state.
func CheckoutState(symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}
		responses.WriteSuccess(w, newCheckoutView(sess.Checkout.State(), symbol))
	}
}

// CheckoutSubmitShipping accepts shipping details and drives the checkout
// through order and payment intent creation.
func CheckoutSubmitShipping(symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		var info checkout.ShippingInfo
		if err := validators.DecodeJSONBody(r, &info); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := sess.Checkout.SubmitShipping(r.Context(), info)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(state, symbol))
	}
}

type confirmPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

// CheckoutConfirmPayment confirms the pending payment intent.
func CheckoutConfirmPayment(symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := sess.Checkout.ConfirmPayment(r.Context(), payload.PaymentMethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(state, symbol))
	}
}

// CheckoutRecover returns a recoverably failed checkout to shipping entry.
func CheckoutRecover(symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		state, err := sess.Checkout.Recover()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(state, symbol))
	}
}

// CheckoutReset abandons the current checkout and starts over.
func CheckoutReset(symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		state, err := sess.Checkout.Reset()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(state, symbol))
	}
}
