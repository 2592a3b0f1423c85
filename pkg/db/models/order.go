package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/enums"
	"github.com/reelbites/reelbites-backend/pkg/types"
)

// Order is created atomically with its items and is immutable afterwards
// except for Status and the payment status inside Payment.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	FoodPartnerID   uuid.UUID             `gorm:"column:food_partner_id;type:uuid;not null;index:orders_partner_id_idx"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalCents      int64                 `gorm:"column:total_cents;not null"`
	DeliveryAddress types.DeliveryAddress `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	Payment         types.PaymentDetails  `gorm:"column:payment;type:jsonb;serializer:json"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
