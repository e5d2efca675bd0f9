package session

import (
	"fmt"
	"time"

	"github.com/angelmondragon/aurelis-storefront/internal/backend"
	"github.com/angelmondragon/aurelis-storefront/internal/cart"
	"github.com/angelmondragon/aurelis-storefront/internal/checkout"
	"github.com/angelmondragon/aurelis-storefront/internal/orders"
	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/pricing"
)

const (
	mutationRetries   = 2
	mutationBaseDelay = 200 * time.Millisecond
)

// NewFactory wires the standard per-user stack: backend client, cart store,
// retrying mutation gateway, order history, and checkout orchestrator.
func NewFactory(cfg *config.Config, processor checkout.PaymentProcessor, logg *logger.Logger) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	policy := pricing.Policy{
		TaxRateBasisPoints:    cfg.Policy.TaxRateBasisPoints,
		FreeShippingThreshold: cfg.Policy.FreeShippingThreshold,
		FlatShippingFee:       cfg.Policy.FlatShippingFee,
	}

	return func(token string) (*Session, error) {
		creds := credentials.NewMemory(token)

		client, err := backend.NewClient(cfg.Backend, cfg.Images, creds, logg)
		if err != nil {
			return nil, fmt.Errorf("wire backend client: %w", err)
		}

		store, err := cart.NewStore(client, creds, logg)
		if err != nil {
			return nil, fmt.Errorf("wire cart store: %w", err)
		}

		gateway, err := cart.NewGateway(client, store, creds, logg)
		if err != nil {
			return nil, fmt.Errorf("wire cart gateway: %w", err)
		}
		retrying, err := cart.NewRetryGateway(gateway, mutationRetries, mutationBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("wire retry gateway: %w", err)
		}

		history, err := orders.NewService(client, creds, logg)
		if err != nil {
			return nil, fmt.Errorf("wire orders service: %w", err)
		}

		orchestrator, err := checkout.NewOrchestrator(store, client, processor, retrying, policy, logg)
		if err != nil {
			return nil, fmt.Errorf("wire checkout orchestrator: %w", err)
		}

		return &Session{
			Creds:    creds,
			Store:    store,
			Cart:     retrying,
			Orders:   history,
			Checkout: orchestrator,
		}, nil
	}, nil
}
