package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodPartner is a seller-side account fulfilling orders. FollowerCount,
// RatingCount, and RatingAverage are denormalized caches over FollowRecord and
// Rating rows; the rows remain the source of truth.
type FoodPartner struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	ContactName   string    `gorm:"column:contact_name;not null"`
	Email         string    `gorm:"column:email;not null;uniqueIndex:food_partners_email_key"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	Address       string    `gorm:"column:address;not null"`
	FollowerCount int64     `gorm:"column:follower_count;not null;default:0"`
	RatingCount   int64     `gorm:"column:rating_count;not null;default:0"`
	RatingAverage float64   `gorm:"column:rating_average;type:numeric(4,3);not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
