package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodItem is a dish reel published by a partner. LikeCount and SaveCount are
// denormalized caches over LikeRecord/SaveRecord rows.
type FoodItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FoodPartnerID uuid.UUID `gorm:"column:food_partner_id;type:uuid;not null;index:food_items_partner_id_idx"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description"`
	VideoURL      string    `gorm:"column:video_url;not null"`
	PriceCents    int64     `gorm:"column:price_cents;not null"`
	LikeCount     int64     `gorm:"column:like_count;not null;default:0"`
	SaveCount     int64     `gorm:"column:save_count;not null;default:0"`
	CommentCount  int64     `gorm:"column:comment_count;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
