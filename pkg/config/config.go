package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App         AppConfig
	Backend     BackendConfig
	Policy      PolicyConfig
	Redis       RedisConfig
	Stripe      StripeConfig
	Idempotency IdempotencyConfig
	Images      ImagesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Policy.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AURELIS_APP_ENV" default:"development"`
	Port         string `envconfig:"AURELIS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AURELIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AURELIS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig locates the storefront REST backend the core talks to.
type BackendConfig struct {
	BaseURL   string        `envconfig:"AURELIS_BACKEND_BASE_URL" default:"http://localhost:8000"`
	APIPrefix string        `envconfig:"AURELIS_BACKEND_API_PREFIX" default:"/api"`
	Timeout   time.Duration `envconfig:"AURELIS_BACKEND_TIMEOUT" default:"10s"`
}

// Validate checks the backend location is usable before a client is built.
func (b BackendConfig) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend base url must be http(s), got %q", b.BaseURL)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	return nil
}

// PolicyConfig carries the order summary policy. Defaults mirror the
// storefront's production policy: 8%% tax, free shipping at ₱100.00,
// ₱7.99 flat fee below it. All amounts are minor currency units.
type PolicyConfig struct {
	TaxRateBasisPoints    int64  `envconfig:"AURELIS_POLICY_TAX_BPS" default:"800"`
	FreeShippingThreshold int64  `envconfig:"AURELIS_POLICY_FREE_SHIPPING_THRESHOLD" default:"10000"`
	FlatShippingFee       int64  `envconfig:"AURELIS_POLICY_FLAT_SHIPPING_FEE" default:"799"`
	CurrencySymbol        string `envconfig:"AURELIS_POLICY_CURRENCY_SYMBOL" default:"₱"`
}

func (p PolicyConfig) validate() error {
	if p.TaxRateBasisPoints < 0 {
		return fmt.Errorf("tax rate cannot be negative")
	}
	if p.FreeShippingThreshold < 0 || p.FlatShippingFee < 0 {
		return fmt.Errorf("shipping policy amounts cannot be negative")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AURELIS_REDIS_URL"`
	Address      string        `envconfig:"AURELIS_REDIS_ADDR"`
	Password     string        `envconfig:"AURELIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"AURELIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AURELIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AURELIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AURELIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AURELIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AURELIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"AURELIS_STRIPE_API_KEY"`
	Env    string `envconfig:"AURELIS_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type IdempotencyConfig struct {
	MutationTTL time.Duration `envconfig:"AURELIS_IDEMPOTENCY_MUTATION_TTL" default:"24h"`
	CheckoutTTL time.Duration `envconfig:"AURELIS_IDEMPOTENCY_CHECKOUT_TTL" default:"168h"`
}

type ImagesConfig struct {
	CloudinaryCloudName string `envconfig:"AURELIS_IMAGES_CLOUDINARY_CLOUD" default:"dr5mrez5h"`
	Placeholder         string `envconfig:"AURELIS_IMAGES_PLACEHOLDER" default:"/placeholder.svg"`
}
