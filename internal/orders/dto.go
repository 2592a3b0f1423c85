package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	"github.com/reelbites/reelbites-backend/pkg/types"
)

// OrderItemInput is one requested line before pricing. Unit prices never come
// from the client; the catalog is the price authority.
type OrderItemInput struct {
	FoodItemID uuid.UUID
	Quantity   int
}

// PlaceOrderDTO carries a full order request. ClientTotal is what the client
// displayed to the user; it is verified against the server total, never
// trusted.
type PlaceOrderDTO struct {
	UserID          uuid.UUID
	FoodPartnerID   uuid.UUID
	Items           []OrderItemInput
	ClientTotal     decimal.Decimal
	DeliveryAddress types.DeliveryAddress
	PaymentMethod   enums.PaymentMethod
}

// OrderItemDTO is one priced line in an order payload.
type OrderItemDTO struct {
	FoodItemID     uuid.UUID `json:"food_item_id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"total_cents"`
}

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	FoodPartnerID   uuid.UUID             `json:"food_partner_id"`
	Status          enums.OrderStatus     `json:"status"`
	TotalCents      int64                 `json:"total_cents"`
	Items           []OrderItemDTO        `json:"items"`
	DeliveryAddress types.DeliveryAddress `json:"delivery_address"`
	Payment         types.PaymentDetails  `json:"payment"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// OrderPageDTO returns a cursor-paginated order listing.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel projects a persisted order into its API shape.
func FromModel(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			FoodItemID:     item.FoodItemID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		FoodPartnerID:   order.FoodPartnerID,
		Status:          order.Status,
		TotalCents:      order.TotalCents,
		Items:           items,
		DeliveryAddress: order.DeliveryAddress,
		Payment:         order.Payment,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
