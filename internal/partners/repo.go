package partners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
)

// Repository exposes food partner persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a partners repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new partner and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreatePartnerDTO) (*models.FoodPartner, error) {
	partner := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		return nil, err
	}
	return partner, nil
}

// FindByEmail retrieves the partner matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.FoodPartner, error) {
	var partner models.FoodPartner
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// FindByID loads a partner by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodPartner, error) {
	var partner models.FoodPartner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// ApplyFollowerDelta shifts follower_count atomically, never below zero.
// Returns true when the decrement had to be clamped, which means the cached
// counter had already drifted from the ledger.
func (r *Repository) ApplyFollowerDelta(ctx context.Context, id uuid.UUID, delta int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FoodPartner{}).
		Where("id = ?", id).
		Where("follower_count + ? >= 0", delta).
		UpdateColumn("follower_count", gorm.Expr("follower_count + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.FoodPartner{}).
		Where("id = ?", id).
		UpdateColumn("follower_count", 0).Error
	return true, err
}

// FollowerCount reads the current cached follower count.
func (r *Repository) FollowerCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FoodPartner{}).
		Where("id = ?", id).
		Select("follower_count").
		Scan(&count).Error
	return count, err
}

// UpdateRatingAggregate overwrites the cached rating aggregates.
func (r *Repository) UpdateRatingAggregate(ctx context.Context, id uuid.UUID, count int64, average float64) error {
	return r.db.WithContext(ctx).
		Model(&models.FoodPartner{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"rating_count":   count,
			"rating_average": average,
		}).Error
}

// SetFollowerCount pins follower_count to a recounted value.
func (r *Repository) SetFollowerCount(ctx context.Context, id uuid.UUID, count int64) error {
	return r.db.WithContext(ctx).
		Model(&models.FoodPartner{}).
		Where("id = ?", id).
		UpdateColumn("follower_count", count).Error
}

// RepairFollowerCounts recounts follow_records and pins the cached
// follower_count to the true value. Returns the number of corrected rows.
func (r *Repository) RepairFollowerCounts(ctx context.Context) (int64, error) {
	truth := `(SELECT COUNT(*) FROM follow_records WHERE food_partner_id = food_partners.id)`
	res := r.db.WithContext(ctx).Exec(
		`UPDATE food_partners SET follower_count = ` + truth + ` WHERE follower_count <> ` + truth)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RepairRatingAggregates recomputes rating_count and rating_average from the
// ratings table for every partner whose cached aggregate drifted. The average
// can go stale on its own when a resubmitted rating changes the score without
// changing the row count, so both columns feed the predicate.
func (r *Repository) RepairRatingAggregates(ctx context.Context) (int64, error) {
	countTruth := `(SELECT COUNT(*) FROM ratings WHERE food_partner_id = food_partners.id)`
	avgTruth := `COALESCE((SELECT AVG(score) FROM ratings WHERE food_partner_id = food_partners.id), 0)`
	res := r.db.WithContext(ctx).Exec(
		`UPDATE food_partners SET rating_count = ` + countTruth + `, rating_average = ` + avgTruth +
			` WHERE rating_count <> ` + countTruth + ` OR rating_average <> ` + avgTruth)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
