package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/ratings"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

type submitRatingRequest struct {
	Score   int     `json:"score" validate:"required,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

func SubmitRating(svc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partnerID, err := validators.ParsePathUUID(chi.URLParam(r, "partnerId"), "partnerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req submitRatingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Submit(r.Context(), middleware.PrincipalIDFromContext(r.Context()), partnerID, req.Score, req.Comment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
