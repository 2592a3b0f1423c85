package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowRecord links a user to a followed partner, unique per pair. Backs the
// partner's follower_count cache.
type FollowRecord struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:follow_records_user_id_idx;uniqueIndex:follow_records_user_partner_key"`
	FoodPartnerID uuid.UUID `gorm:"column:food_partner_id;type:uuid;not null;index:follow_records_partner_id_idx;uniqueIndex:follow_records_user_partner_key"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
