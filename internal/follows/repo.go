package follows

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates the follow relationship ledger. The unique
// (user_id, food_partner_id) index serializes concurrent follow toggles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a follows repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert adds a follow row and reports whether it was actually created.
func (r *Repository) Insert(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || partnerID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).
		Exec(`INSERT INTO follow_records (user_id, food_partner_id) VALUES (?, ?) ON CONFLICT (user_id, food_partner_id) DO NOTHING`, userID, partnerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the follow row and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Exec(`DELETE FROM follow_records WHERE user_id = ? AND food_partner_id = ?`, userID, partnerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether the user currently follows the partner.
func (r *Repository) Exists(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table("follow_records").
		Where("user_id = ? AND food_partner_id = ?", userID, partnerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
