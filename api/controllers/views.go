package controllers

import (
	"github.com/angelmondragon/aurelis-storefront/internal/cart"
	"github.com/angelmondragon/aurelis-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/money"
	"github.com/angelmondragon/aurelis-storefront/pkg/pricing"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type summaryView struct {
	Subtotal             int64  `json:"subtotal"`
	ShippingFee          int64  `json:"shipping_fee"`
	Tax                  int64  `json:"tax"`
	Total                int64  `json:"total"`
	FormattedSubtotal    string `json:"formatted_subtotal"`
	FormattedShippingFee string `json:"formatted_shipping_fee"`
	FormattedTax         string `json:"formatted_tax"`
	FormattedTotal       string `json:"formatted_total"`
}

func newSummaryView(summary pricing.Summary, symbol string) summaryView {
	return summaryView{
		Subtotal:             summary.Subtotal,
		ShippingFee:          summary.ShippingFee,
		Tax:                  summary.Tax,
		Total:                summary.Total,
		FormattedSubtotal:    money.Format(summary.Subtotal, symbol),
		FormattedShippingFee: money.Format(summary.ShippingFee, symbol),
		FormattedTax:         money.Format(summary.Tax, symbol),
		FormattedTotal:       money.Format(summary.Total, symbol),
	}
}

type cartView struct {
	Items     []types.CartLineItem `json:"items"`
	ItemCount int64                `json:"item_count"`
	Subtotal  int64                `json:"subtotal"`
	Summary   summaryView          `json:"summary"`
	LastError *errorView           `json:"last_error,omitempty"`
}

type errorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorView(err error) *errorView {
	if err == nil {
		return nil
	}
	view := &errorView{Code: string(pkgerrors.CodeInternal), Message: err.Error()}
	if typed := pkgerrors.As(err); typed != nil {
		view.Code = string(typed.Code())
		view.Message = pkgerrors.MetadataFor(typed.Code()).PublicMessage
	}
	return view
}

func newCartView(snap cart.Snapshot, policy pricing.Policy, symbol string) cartView {
	lines := make([]pricing.Line, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	// The snapshot only ever holds server-accepted lines, so this cannot
	// fail; an empty summary is still the safe answer if it somehow does.
	summary, _ := pricing.Summarize(lines, policy)

	items := snap.Items
	if items == nil {
		items = []types.CartLineItem{}
	}
	return cartView{
		Items:     items,
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal,
		Summary:   newSummaryView(summary, symbol),
		LastError: newErrorView(snap.LastError),
	}
}

type checkoutView struct {
	Phase        string                 `json:"phase"`
	OrderID      int64                  `json:"order_id,omitempty"`
	ClientSecret string                 `json:"client_secret,omitempty"`
	Shipping     *checkout.ShippingInfo `json:"shipping,omitempty"`
	Summary      summaryView            `json:"summary"`
	Terminal     bool                   `json:"terminal,omitempty"`
	Failure      *errorView             `json:"failure,omitempty"`
}

func newCheckoutView(state checkout.State, symbol string) checkoutView {
	view := checkoutView{
		Phase:        string(state.Phase),
		OrderID:      state.OrderID,
		ClientSecret: state.ClientSecret,
		Summary:      newSummaryView(state.Summary, symbol),
		Terminal:     state.Terminal,
		Failure:      newErrorView(state.FailureReason),
	}
	if state.Shipping != (checkout.ShippingInfo{}) {
		shipping := state.Shipping
		view.Shipping = &shipping
	}
	return view
}
