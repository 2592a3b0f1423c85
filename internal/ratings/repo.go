package ratings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
)

// Repository encapsulates rating persistence. One row per (user, partner)
// pair; resubmission overwrites score and comment in place.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ratings repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the user's rating for the partner, replacing any prior score.
func (r *Repository) Upsert(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "food_partner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
		}).
		Create(rating).Error
}

// AggregateForPartner recomputes count and mean score over all rating rows.
// Always a full recompute; incremental math drifts under overwrites.
func (r *Repository) AggregateForPartner(ctx context.Context, partnerID uuid.UUID) (int64, float64, error) {
	var row struct {
		Count   int64
		Average float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COUNT(*) AS count, COALESCE(AVG(score), 0) AS average").
		Where("food_partner_id = ?", partnerID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Average, nil
}

// FindByUserAndPartner loads the user's existing rating if any.
func (r *Repository) FindByUserAndPartner(ctx context.Context, userID, partnerID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND food_partner_id = ?", userID, partnerID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
