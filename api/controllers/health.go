package controllers

import (
	"net/http"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
)

const envHeader = "X-OrderBridge-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, pinger db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
