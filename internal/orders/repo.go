package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithItems persists the order and its line items in one transaction.
// Either everything lands or nothing does.
func (r *Repository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// AppendHistory indexes the order under its owner. The unique pair index
// absorbs retries; the orders table stays authoritative if this write fails.
func (r *Repository) AppendHistory(ctx context.Context, userID, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO order_history_entries (user_id, order_id) VALUES (?, ?) ON CONFLICT (user_id, order_id) DO NOTHING`, userID, orderID).
		Error
}

// FindByID loads an order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser pages through the user's order history, newest first. Reads
// through the history index; orders missing an index row still resolve by
// direct FindByID.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Joins("JOIN order_history_entries h ON h.order_id = orders.id").
		Where("h.user_id = ?", userID).
		Preload("Items")

	if decodedCursor != nil {
		query = query.Where("(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("orders.created_at DESC").Order("orders.id DESC").Limit(limitWithBuffer)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, "", err
	}
	return trimPage(orders, normalizedLimit)
}

// ListByPartner pages through orders addressed to the partner, newest first.
func (r *Repository) ListByPartner(ctx context.Context, partnerID uuid.UUID, cursor string, limit int) ([]models.Order, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("food_partner_id = ?", partnerID).
		Preload("Items")

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, "", err
	}
	return trimPage(orders, normalizedLimit)
}

// UpdateStatus advances the status only if the row is still in the expected
// prior state, so two racing transitions cannot both win. Reports whether the
// write landed.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		UpdateColumn("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func trimPage(orders []models.Order, normalizedLimit int) ([]models.Order, string, error) {
	nextCursor := ""
	if len(orders) > normalizedLimit {
		orders = orders[:normalizedLimit]
		last := orders[len(orders)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return orders, nextCursor, nil
}
