package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/aurelis-storefront/api/middleware"
	"github.com/angelmondragon/aurelis-storefront/api/responses"
	"github.com/angelmondragon/aurelis-storefront/api/validators"
	"github.com/angelmondragon/aurelis-storefront/internal/session"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/pricing"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

func sessionOrError(w http.ResponseWriter, r *http.Request, logg *logger.Logger) *session.Session {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing from request"))
	}
	return sess
}

// CartGet refreshes and returns the caller's cart. When the refresh fails
// against a cart the store has already seen, the last-known-good items are
// still served with the failure recorded on the view; the read path degrades,
// it does not go dark.
func CartGet(policy pricing.Policy, symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		snap, err := sess.Store.Refresh(r.Context())
		if err != nil && !staleReadable(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snap, policy, symbol))
	}
}

// staleReadable reports whether a refresh failure still leaves the retained
// snapshot worth serving: the backend being unreachable, rejecting the read,
// or reporting the credential expired all keep the cached items valid.
func staleReadable(err error) bool {
	return pkgerrors.Is(err, pkgerrors.CodeNetwork) ||
		pkgerrors.Is(err, pkgerrors.CodeRequestRejected) ||
		pkgerrors.Is(err, pkgerrors.CodeAuthExpired)
}

type addItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	ColorID   int64  `json:"color_id" validate:"required"`
	SizeID    int64  `json:"size_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Name      string `json:"name"`
}

// CartAddItem adds a product variant to the caller's cart.
func CartAddItem(policy pricing.Policy, symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.Cart.AddItem(r.Context(), types.AddItemInput{
			ProductID: payload.ProductID,
			ColorID:   payload.ColorID,
			SizeID:    payload.SizeID,
			Quantity:  payload.Quantity,
			Name:      payload.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(snap, policy, symbol))
	}
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// CartUpdateItem sets the quantity of one cart line.
func CartUpdateItem(policy pricing.Policy, symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		lineItemID, err := lineItemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.Cart.UpdateQuantity(r.Context(), lineItemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snap, policy, symbol))
	}
}

// CartRemoveItem deletes one cart line.
func CartRemoveItem(policy pricing.Policy, symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		lineItemID, err := lineItemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.Cart.RemoveItem(r.Context(), lineItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snap, policy, symbol))
	}
}

// CartClear empties the caller's cart.
func CartClear(policy pricing.Policy, symbol string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		snap, err := sess.Cart.Clear(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(snap, policy, symbol))
	}
}

func lineItemIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item id").
			WithDetails(map[string]any{"item_id": raw})
	}
	return id, nil
}
