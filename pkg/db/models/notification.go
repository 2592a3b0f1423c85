package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// Notification is the persisted form of the notification sink. Delivery
// (push, websocket) is out of scope; rows are listed and marked read over HTTP.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:notifications_user_id_idx"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null"`
	OrderID   *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	Message   string                 `gorm:"column:message;not null"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
