package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/aurelis-storefront/api/responses"
	"github.com/angelmondragon/aurelis-storefront/internal/session"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
)

type sessionCtxKey struct{}

// Session resolves the caller's bearer credential to a per-user service
// stack and attaches it to the request context. Requests without a
// credential get a guest stack; the services themselves decide which
// operations require authentication.
func Session(manager *session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			sess, err := manager.Acquire(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build session"))
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session attached by the Session middleware.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*session.Session)
	return sess
}

// bearerToken accepts both schemes the storefront has used: "Token <t>" and
// "Bearer <t>".
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
