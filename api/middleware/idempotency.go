package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/aurelis-storefront/api/responses"
	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/aurelis-storefront/pkg/redis"
)

type idempotencyRule struct {
	method  string
	pattern string
	ttl     time.Duration
}

// Idempotency replays the stored response when a mutation arrives twice with
// the same Idempotency-Key. Checkout steps keep their records longer than
// ordinary cart mutations; a reused key with a different body is rejected.
func Idempotency(store pkgredis.IdempotencyStore, cfg config.IdempotencyConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	rules := []idempotencyRule{
		{method: http.MethodPost, pattern: "/api/v1/cart/items", ttl: cfg.MutationTTL},
		{method: http.MethodPost, pattern: "/api/v1/cart/clear", ttl: cfg.MutationTTL},
		{method: http.MethodPost, pattern: "/api/v1/checkout/shipping", ttl: cfg.CheckoutTTL},
		{method: http.MethodPost, pattern: "/api/v1/checkout/payment", ttl: cfg.CheckoutTTL},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, matched := matchRule(rules, r)
			if !matched || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashPayload(body)
			scope := requestScope(r)
			key := store.IdempotencyKey(scope, idempotencyKey)

			if stored, getErr := store.Get(r.Context(), key); getErr != nil && !errors.Is(getErr, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			} else if stored != "" {
				var record idempotencyRecord
				if decodeErr := json.Unmarshal([]byte(stored), &record); decodeErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replayResponse(w, record)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			record := idempotencyRecord{
				Status:      rec.statusOrOK(),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				logError(r.Context(), logg, "marshal idempotency record", marshalErr)
				return
			}
			if _, setErr := store.SetNX(r.Context(), key, string(payload), ttl); setErr != nil {
				logError(r.Context(), logg, "persist idempotency record", setErr)
			}
		})
	}
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// matchRule compares against the literal request path: the guarded routes
// carry no URL parameters, and chi has not finished routing when group
// middleware runs.
func matchRule(rules []idempotencyRule, r *http.Request) (time.Duration, bool) {
	for _, rule := range rules {
		if rule.method == r.Method && rule.pattern == r.URL.Path {
			return rule.ttl, true
		}
	}
	return 0, false
}

// requestScope isolates idempotency records per credential so two users may
// reuse the same key without colliding.
func requestScope(r *http.Request) string {
	token := bearerToken(r)
	sum := sha256.Sum256([]byte(token))
	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(sum[:8]),
		r.Method,
		r.URL.Path,
	}, "|")
}

func replayResponse(w http.ResponseWriter, record idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
