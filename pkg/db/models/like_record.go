package models

import (
	"time"

	"github.com/google/uuid"
)

// LikeRecord links a user to a liked food item. The unique pair index is the
// single point of serialization for concurrent like toggles.
type LikeRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:like_records_user_id_idx;uniqueIndex:like_records_user_food_key"`
	FoodItemID uuid.UUID `gorm:"column:food_item_id;type:uuid;not null;index:like_records_food_item_id_idx;uniqueIndex:like_records_user_food_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
