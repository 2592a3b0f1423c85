package controllers

import (
	"net/http"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

type createFoodItemRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	VideoURL    string  `json:"video_url" validate:"required,url,max=500"`
	PriceCents  int64   `json:"price_cents" validate:"required,gte=1"`
}

func CreateFoodItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFoodItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateFoodItem(r.Context(), catalog.CreateFoodItemDTO{
			FoodPartnerID: middleware.PrincipalIDFromContext(r.Context()),
			Name:          req.Name,
			Description:   req.Description,
			VideoURL:      req.VideoURL,
			PriceCents:    req.PriceCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func ListPartnerFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPartnerItems(r.Context(), middleware.PrincipalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
