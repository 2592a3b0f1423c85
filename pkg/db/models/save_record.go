package models

import (
	"time"

	"github.com/google/uuid"
)

// SaveRecord links a user to a bookmarked food item, unique per pair.
type SaveRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:save_records_user_id_idx;uniqueIndex:save_records_user_food_key"`
	FoodItemID uuid.UUID `gorm:"column:food_item_id;type:uuid;not null;index:save_records_food_item_id_idx;uniqueIndex:save_records_user_food_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
