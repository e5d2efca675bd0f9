package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/aurelis-storefront/api/responses"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
)

// OrdersList returns the caller's order history, newest first.
func OrdersList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		history, err := sess.Orders.History(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// OrderDetail returns one order by id.
func OrderDetail(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOrError(w, r, logg)
		if sess == nil {
			return
		}

		raw := chi.URLParam(r, "orderID")
		orderID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid order id").
					WithDetails(map[string]any{"order_id": raw}))
			return
		}

		order, err := sess.Orders.Detail(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
