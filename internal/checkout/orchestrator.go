package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/aurelis-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/pricing"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

// Phase is a checkout state machine phase. Transitions run strictly forward:
// collecting_shipping, creating_order, creating_payment_intent,
// awaiting_payment_confirmation, completed, with failed reachable from any
// in-flight phase.
type Phase string

const (
	PhaseCollectingShipping   Phase = "collecting_shipping"
	PhaseCreatingOrder        Phase = "creating_order"
	PhaseCreatingIntent       Phase = "creating_payment_intent"
	PhaseAwaitingConfirmation Phase = "awaiting_payment_confirmation"
	PhaseCompleted            Phase = "completed"
	PhaseFailed               Phase = "failed"
)

// State is an immutable view of one checkout attempt.
type State struct {
	Phase        Phase
	OrderID      int64
	ClientSecret string
	Shipping     ShippingInfo
	Summary      pricing.Summary
	// FailureReason is set while Phase is failed.
	FailureReason error
	// Terminal marks a failure the attempt cannot recover from: the payment
	// confirmation outcome is unknown or the client secret was consumed.
	// Reset starts a fresh attempt with a new order.
	Terminal bool
}

type cartReader interface {
	Snapshot() cart.Snapshot
}

type orderPlacer interface {
	CreateOrder(ctx context.Context, draft types.OrderDraft) (int64, error)
	CreatePaymentIntent(ctx context.Context, orderID int64) (*types.PaymentIntent, error)
	RecordPaymentConfirmation(ctx context.Context, orderID int64, paymentIntentID string) error
}

// PaymentProcessor confirms a payment intent against the payment provider
// and returns the provider's intent id.
type PaymentProcessor interface {
	ConfirmIntent(ctx context.Context, clientSecret, paymentMethodID string) (string, error)
}

type cartClearer interface {
	Clear(ctx context.Context) (cart.Snapshot, error)
}

// Orchestrator owns one checkout attempt at a time.
type Orchestrator struct {
	cart      cartReader
	backend   orderPlacer
	processor PaymentProcessor
	clearer   cartClearer
	policy    pricing.Policy
	logg      *logger.Logger

	mu    sync.Mutex
	state State
	busy  bool

	subMu   sync.Mutex
	subs    map[int64]func(State)
	nextSub int64
}

// NewOrchestrator builds a checkout orchestrator. clearer may be nil; when
// present the cart is cleared best-effort after a completed checkout.
func NewOrchestrator(cartStore cartReader, backend orderPlacer, processor PaymentProcessor, clearer cartClearer, policy pricing.Policy, logg *logger.Logger) (*Orchestrator, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if backend == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Orchestrator{
		cart:      cartStore,
		backend:   backend,
		processor: processor,
		clearer:   clearer,
		policy:    policy,
		logg:      logg,
		state:     State{Phase: PhaseCollectingShipping},
		subs:      make(map[int64]func(State)),
	}, nil
}

// State returns the current checkout state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) begin(from Phase) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return o.state, pkgerrors.New(pkgerrors.CodeOperationInProgress, "a checkout step is already running")
	}
	if o.state.Phase != from {
		return o.state, pkgerrors.New(pkgerrors.CodeCheckoutState,
			fmt.Sprintf("cannot run this step from phase %s", o.state.Phase)).
			WithDetails(map[string]any{"phase": string(o.state.Phase)})
	}
	o.busy = true
	return o.state, nil
}

func (o *Orchestrator) transition(mutate func(*State)) State {
	o.mu.Lock()
	mutate(&o.state)
	next := o.state
	o.mu.Unlock()

	o.notify(next)
	return next
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

func (o *Orchestrator) fail(reason error, terminal bool) State {
	return o.transition(func(s *State) {
		s.Phase = PhaseFailed
		s.FailureReason = reason
		s.Terminal = terminal
	})
}

// SubmitShipping validates the destination, prices the cart, creates the
// order, and requests a payment intent for it. On success the attempt sits
// in awaiting_payment_confirmation holding a single-use client secret. A
// failure in either backend call is recoverable: Recover returns to
// collecting_shipping and the next submission creates a fresh order.
func (o *Orchestrator) SubmitShipping(ctx context.Context, info ShippingInfo) (State, error) {
	if _, err := o.begin(PhaseCollectingShipping); err != nil {
		return o.State(), err
	}
	defer o.finish()

	if err := info.Validate(); err != nil {
		return o.State(), err
	}

	snap := o.cart.Snapshot()
	if len(snap.Items) == 0 {
		err := pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot check out an empty cart")
		return o.State(), err
	}

	lines := make([]pricing.Line, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	summary, err := pricing.Summarize(lines, o.policy)
	if err != nil {
		return o.State(), err
	}

	o.transition(func(s *State) {
		s.Phase = PhaseCreatingOrder
		s.Shipping = info
		s.Summary = summary
	})

	address := info.FormatAddress()
	draft := types.OrderDraft{
		PaymentMethod:   "credit_card",
		ShippingAddress: address,
		BillingAddress:  address,
		Status:          types.OrderStatusPending,
		PaymentStatus:   false,
		TotalPrice:      summary.Total,
		ShippingPrice:   summary.ShippingFee,
	}
	orderID, err := o.backend.CreateOrder(ctx, draft)
	if err != nil {
		o.logg.Warn(ctx, "order creation failed")
		return o.fail(err, false), err
	}

	ctx = o.logg.WithOrderID(ctx, orderID)
	o.transition(func(s *State) {
		s.Phase = PhaseCreatingIntent
		s.OrderID = orderID
	})

	intent, err := o.backend.CreatePaymentIntent(ctx, orderID)
	if err != nil {
		o.logg.Warn(ctx, "payment intent creation failed")
		return o.fail(err, false), err
	}

	o.logg.Info(ctx, "checkout awaiting payment confirmation")
	state := o.transition(func(s *State) {
		s.Phase = PhaseAwaitingConfirmation
		s.ClientSecret = intent.ClientSecret
	})
	return state, nil
}

// ConfirmPayment runs the payment against the processor and records the
// outcome with the backend. Any failure here is terminal for the attempt:
// the client secret is single-use and the charge outcome may be unknown, so
// the only way forward is Reset and a brand new order.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, paymentMethodID string) (State, error) {
	prev, err := o.begin(PhaseAwaitingConfirmation)
	if err != nil {
		return o.State(), err
	}
	defer o.finish()

	ctx = o.logg.WithOrderID(ctx, prev.OrderID)
	intentID, err := o.processor.ConfirmIntent(ctx, prev.ClientSecret, paymentMethodID)
	if err != nil {
		o.logg.Error(ctx, "payment confirmation failed", err)
		return o.fail(err, true), err
	}

	if err := o.backend.RecordPaymentConfirmation(ctx, prev.OrderID, intentID); err != nil {
		o.logg.Error(ctx, "payment succeeded but backend confirmation failed", err)
		return o.fail(err, true), err
	}

	if o.clearer != nil {
		if _, err := o.clearer.Clear(ctx); err != nil {
			o.logg.Warn(ctx, "post-checkout cart clear failed")
		}
	}

	o.logg.Info(ctx, "checkout completed")
	state := o.transition(func(s *State) {
		s.Phase = PhaseCompleted
		s.ClientSecret = ""
	})
	return state, nil
}

// Recover returns a recoverably failed attempt to collecting_shipping,
// keeping the shipping info so the user can resubmit. The next submission
// creates a new order; the failed one is abandoned.
func (o *Orchestrator) Recover() (State, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return o.State(), pkgerrors.New(pkgerrors.CodeOperationInProgress, "a checkout step is already running")
	}
	if o.state.Phase != PhaseFailed {
		phase := o.state.Phase
		o.mu.Unlock()
		return o.State(), pkgerrors.New(pkgerrors.CodeCheckoutState,
			fmt.Sprintf("nothing to recover from phase %s", phase))
	}
	if o.state.Terminal {
		o.mu.Unlock()
		return o.State(), pkgerrors.New(pkgerrors.CodeCheckoutState,
			"attempt failed terminally, start a new checkout")
	}
	o.state.Phase = PhaseCollectingShipping
	o.state.OrderID = 0
	o.state.ClientSecret = ""
	o.state.FailureReason = nil
	next := o.state
	o.mu.Unlock()

	o.notify(next)
	return next, nil
}

// Reset abandons the current attempt entirely and starts over. It is allowed
// from completed and failed phases only; an in-flight attempt cannot be
// abandoned mid-call.
func (o *Orchestrator) Reset() (State, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return o.State(), pkgerrors.New(pkgerrors.CodeOperationInProgress, "a checkout step is already running")
	}
	if o.state.Phase != PhaseCompleted && o.state.Phase != PhaseFailed && o.state.Phase != PhaseCollectingShipping {
		phase := o.state.Phase
		o.mu.Unlock()
		return o.State(), pkgerrors.New(pkgerrors.CodeCheckoutState,
			fmt.Sprintf("cannot reset from phase %s", phase))
	}
	o.state = State{Phase: PhaseCollectingShipping}
	next := o.state
	o.mu.Unlock()

	o.notify(next)
	return next, nil
}

// Subscribe registers a callback invoked after every state change. Callbacks
// run synchronously on the transitioning goroutine.
func (o *Orchestrator) Subscribe(fn func(State)) (cancel func()) {
	o.subMu.Lock()
	o.nextSub++
	id := o.nextSub
	o.subs[id] = fn
	o.subMu.Unlock()

	return func() {
		o.subMu.Lock()
		delete(o.subs, id)
		o.subMu.Unlock()
	}
}

func (o *Orchestrator) notify(state State) {
	o.subMu.Lock()
	callbacks := make([]func(State), 0, len(o.subs))
	for _, fn := range o.subs {
		callbacks = append(callbacks, fn)
	}
	o.subMu.Unlock()

	for _, fn := range callbacks {
		fn(state)
	}
}
