package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/pkg/config"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

// Pinger is any backing store that can answer a health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ReelBites-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, stores map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ReelBites-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, store := range stores {
			if store == nil {
				continue
			}
			if err := store.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
