package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's score for a partner, unique per (user, partner) and
// overwritten on resubmission. All rows for a partner are the source of truth
// for the partner's rating_count/rating_average aggregates.
type Rating struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ratings_user_partner_key"`
	FoodPartnerID uuid.UUID `gorm:"column:food_partner_id;type:uuid;not null;index:ratings_partner_id_idx;uniqueIndex:ratings_user_partner_key"`
	Score         int       `gorm:"column:score;not null"`
	Comment       *string   `gorm:"column:comment"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
