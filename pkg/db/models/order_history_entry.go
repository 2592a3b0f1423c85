package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderHistoryEntry indexes an order under its owner for fast history reads.
// It is a convenience index only; the orders table is the source of truth and
// an order missing from here must still resolve by direct lookup.
type OrderHistoryEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:order_history_user_id_idx;uniqueIndex:order_history_user_order_key"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:order_history_user_order_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
