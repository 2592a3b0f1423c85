package controllers

import (
	"net/http"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/pagination"
)

// Feed serves the discovery feed. Anonymous viewers get the same page with
// all interaction flags false.
func Feed(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := r.URL.Query().Get("cursor")

		viewerID := middleware.PrincipalIDFromContext(r.Context())
		page, err := svc.Feed(r.Context(), viewerID, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
