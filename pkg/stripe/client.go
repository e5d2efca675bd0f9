package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

type intentConfirmer interface {
	Confirm(ctx context.Context, id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
}

type confirmerWrapper struct{}

func (confirmerWrapper) Confirm(ctx context.Context, id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.Confirm(id, params)
}

// Client confirms payment intents against Stripe. The checkout orchestrator
// only sees it through its PaymentProcessor interface.
type Client struct {
	confirmer   intentConfirmer
	environment string
}

// NewClient initializes Stripe once with the configured secret and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		confirmer:   confirmerWrapper{},
		environment: env,
	}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// ConfirmIntent presents a client secret to Stripe exactly once. It returns
// the payment intent id on success; any failure is terminal for that secret.
func (c *Client) ConfirmIntent(ctx context.Context, clientSecret, paymentMethodID string) (string, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentConfirmParams{}
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}

	intent, err := c.confirmer.Confirm(ctx, intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return "", pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, stripeErr.Msg)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "confirm payment intent")
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", pkgerrors.New(pkgerrors.CodePaymentFailed, "payment not completed").
			WithDetails(map[string]any{"intent_status": string(intent.Status)})
	}

	return intent.ID, nil
}

func intentIDFromSecret(clientSecret string) (string, error) {
	secret := strings.TrimSpace(clientSecret)
	id, _, found := strings.Cut(secret, "_secret")
	if !found || !strings.HasPrefix(id, "pi_") {
		return "", pkgerrors.New(pkgerrors.CodePaymentFailed, "malformed payment intent secret")
	}
	return id, nil
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
