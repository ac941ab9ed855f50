package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/rmagtibay/tindera-backend/api/responses"
	"github.com/rmagtibay/tindera-backend/pkg/config"
	"github.com/rmagtibay/tindera-backend/pkg/db"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
	"github.com/rmagtibay/tindera-backend/pkg/redis"
)

const envHeader = "X-Tindera-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the service's dependencies. Any failing
// ping turns the whole response into a 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{"database": "ok", "redis": "ok"}
		ready := true

		if dbP == nil {
			status["database"] = "not configured"
			ready = false
		} else if err := dbP.Ping(ctx); err != nil {
			status["database"] = "unreachable"
			ready = false
			if logg != nil {
				logg.Error(ctx, "database readiness check failed", err)
			}
		}

		if redisP == nil {
			status["redis"] = "not configured"
			ready = false
		} else if err := redisP.Ping(ctx); err != nil {
			status["redis"] = "unreachable"
			ready = false
			if logg != nil {
				logg.Error(ctx, "redis readiness check failed", err)
			}
		}

		if !ready {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
