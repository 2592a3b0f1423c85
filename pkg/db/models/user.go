package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/types"
)

// User is a buyer-side account browsing reels and placing orders.
type User struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName     string                 `gorm:"column:full_name;not null"`
	Email        string                 `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string                 `gorm:"column:password_hash;not null"`
	SavedAddress *types.DeliveryAddress `gorm:"column:saved_address;type:jsonb;serializer:json"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
