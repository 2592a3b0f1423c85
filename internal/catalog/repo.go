package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/pagination"
)

// Repository encapsulates food item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new food item and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateFoodItemDTO) (*models.FoodItem, error) {
	item := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a food item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs bulk-loads food items preserving no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.FoodItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.FoodItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FeedPage returns a cursor-paginated reverse-chronological slice of the feed.
func (r *Repository) FeedPage(ctx context.Context, cursor string, limit int) ([]models.FoodItem, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.FoodItem{})
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var items []models.FoodItem
	if err := query.Find(&items).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(items) > normalizedLimit {
		items = items[:normalizedLimit]
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return items, nextCursor, nil
}

// ListByPartner returns all reels owned by the partner, newest first.
func (r *Repository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := r.db.WithContext(ctx).
		Where("food_partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ApplyCounterDelta shifts the named counter column atomically, never below
// zero. Returns true when the decrement had to be clamped, which means the
// cached counter had already drifted from the ledger.
func (r *Repository) ApplyCounterDelta(ctx context.Context, id uuid.UUID, column string, delta int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("id = ?", id).
		Where(column+" + ? >= 0", delta).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("id = ?", id).
		UpdateColumn(column, 0).Error
	return true, err
}

// CounterValue reads the current cached value of the named counter column.
func (r *Repository) CounterValue(ctx context.Context, id uuid.UUID, column string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("id = ?", id).
		Select(column).
		Scan(&count).Error
	return count, err
}

// RepairCounter recounts the backing ledger table and pins the cached column
// to the true value. Returns the number of corrected rows.
func (r *Repository) RepairCounter(ctx context.Context, column, ledgerTable string) (int64, error) {
	truth := `(SELECT COUNT(*) FROM ` + ledgerTable + ` WHERE food_item_id = food_items.id)`
	res := r.db.WithContext(ctx).Exec(
		`UPDATE food_items SET ` + column + ` = ` + truth + ` WHERE ` + column + ` <> ` + truth)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
