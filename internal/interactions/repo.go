package interactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// Repository encapsulates the like/save relationship ledger. The unique pair
// indexes make inserts race-safe; ON CONFLICT DO NOTHING turns a lost race
// into a no-op instead of an error.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an interactions repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func ledgerTable(kind enums.InteractionKind) string {
	if kind == enums.InteractionKindSave {
		return "save_records"
	}
	return "like_records"
}

// Insert adds a ledger row and reports whether it was actually created.
// A duplicate pair is absorbed by the unique index and returns false.
func (r *Repository) Insert(ctx context.Context, kind enums.InteractionKind, userID, foodID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || foodID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).
		Exec(`INSERT INTO `+ledgerTable(kind)+` (user_id, food_item_id) VALUES (?, ?) ON CONFLICT (user_id, food_item_id) DO NOTHING`, userID, foodID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the ledger row and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, kind enums.InteractionKind, userID, foodID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Exec(`DELETE FROM `+ledgerTable(kind)+` WHERE user_id = ? AND food_item_id = ?`, userID, foodID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether the user currently has a ledger row for the reel.
func (r *Repository) Exists(ctx context.Context, kind enums.InteractionKind, userID, foodID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || foodID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table(ledgerTable(kind)).
		Where("user_id = ? AND food_item_id = ?", userID, foodID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBatch returns the subset of foodIDs the user has a ledger row for.
// One query regardless of batch size.
func (r *Repository) ExistsBatch(ctx context.Context, kind enums.InteractionKind, userID uuid.UUID, foodIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(foodIDs))
	if userID == uuid.Nil || len(foodIDs) == 0 {
		return result, nil
	}

	var matched []uuid.UUID
	err := r.db.WithContext(ctx).
		Table(ledgerTable(kind)).
		Where("user_id = ? AND food_item_id IN ?", userID, foodIDs).
		Pluck("food_item_id", &matched).Error
	if err != nil {
		return nil, err
	}
	for _, id := range matched {
		result[id] = true
	}
	return result, nil
}

// CountForFood recounts ledger rows for one reel, used to verify cached counters.
func (r *Repository) CountForFood(ctx context.Context, kind enums.InteractionKind, foodID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(ledgerTable(kind)).
		Where("food_item_id = ?", foodID).
		Count(&count).Error
	return count, err
}
