package controllers

import (
	"net/http"

	"github.com/angelmondragon/aurelis-storefront/api/responses"
	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/aurelis-storefront/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aurelis-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the idempotency store answers. A nil pinger
// means the gateway runs without redis and is ready by definition.
func HealthReady(cfg *config.Config, pinger pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aurelis-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
