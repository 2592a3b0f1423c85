package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/interactions"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

func ToggleLike(svc interactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodID, err := validators.ParsePathUUID(chi.URLParam(r, "foodId"), "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ToggleLike(r.Context(), middleware.PrincipalIDFromContext(r.Context()), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ToggleSave(svc interactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodID, err := validators.ParsePathUUID(chi.URLParam(r, "foodId"), "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ToggleSave(r.Context(), middleware.PrincipalIDFromContext(r.Context()), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
