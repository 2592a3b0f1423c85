package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one line of an order. Name and UnitPriceCents are
// captured at order time so later catalog edits cannot change history.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	FoodItemID     uuid.UUID `gorm:"column:food_item_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	TotalCents     int64     `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
