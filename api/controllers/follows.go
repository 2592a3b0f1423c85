package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/follows"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

func ToggleFollow(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partnerID, err := validators.ParsePathUUID(chi.URLParam(r, "partnerId"), "partnerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ToggleFollow(r.Context(), middleware.PrincipalIDFromContext(r.Context()), partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
