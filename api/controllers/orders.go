package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelbites/reelbites-backend/api/middleware"
	"github.com/reelbites/reelbites-backend/api/responses"
	"github.com/reelbites/reelbites-backend/api/validators"
	"github.com/reelbites/reelbites-backend/internal/orders"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/pagination"
	"github.com/reelbites/reelbites-backend/pkg/types"
)

type orderItemRequest struct {
	FoodItemID uuid.UUID `json:"food_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gte=1,lte=50"`
}

type deliveryAddressRequest struct {
	Street    string  `json:"street,omitempty" validate:"omitempty,max=200"`
	City      string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State     string  `json:"state,omitempty" validate:"omitempty,max=100"`
	Pincode   string  `json:"pincode,omitempty" validate:"omitempty,max=12"`
	Country   string  `json:"country,omitempty" validate:"omitempty,max=80"`
	Lat       float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng       float64 `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Formatted string  `json:"formatted,omitempty" validate:"omitempty,max=400"`
}

type placeOrderRequest struct {
	FoodPartnerID   uuid.UUID              `json:"food_partner_id" validate:"required"`
	Items           []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	Total           decimal.Decimal        `json:"total" validate:"required"`
	DeliveryAddress deliveryAddressRequest `json:"delivery_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.OrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, orders.OrderItemInput{
				FoodItemID: item.FoodItemID,
				Quantity:   item.Quantity,
			})
		}

		order, err := svc.PlaceOrder(r.Context(), orders.PlaceOrderDTO{
			UserID:        middleware.PrincipalIDFromContext(r.Context()),
			FoodPartnerID: req.FoodPartnerID,
			Items:         items,
			ClientTotal:   req.Total,
			DeliveryAddress: types.DeliveryAddress{
				Street:    req.DeliveryAddress.Street,
				City:      req.DeliveryAddress.City,
				State:     req.DeliveryAddress.State,
				Pincode:   req.DeliveryAddress.Pincode,
				Country:   req.DeliveryAddress.Country,
				Lat:       req.DeliveryAddress.Lat,
				Lng:       req.DeliveryAddress.Lng,
				Formatted: req.DeliveryAddress.Formatted,
			},
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(),
			orderID,
			middleware.PrincipalIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListUserOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListUserOrders(r.Context(),
			middleware.PrincipalIDFromContext(r.Context()),
			r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
