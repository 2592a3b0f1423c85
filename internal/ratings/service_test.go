package ratings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/db/models"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

func setupRatingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:ratings_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS food_partners (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  follower_count INTEGER NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  rating_average REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_partner_id TEXT NOT NULL,
  score INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, food_partner_id)
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"ratings", "food_partners"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (Service, *partners.Repository) {
	t.Helper()
	partnerRepo := partners.NewRepository(db)
	svc, err := NewService(ServiceParams{
		RatingRepo:  NewRepository(db),
		PartnerRepo: partnerRepo,
		Logger:      logger.New(logger.Options{ServiceName: "ratings-test"}),
	})
	require.NoError(t, err)
	return svc, partnerRepo
}

func seedPartner(t *testing.T, db *gorm.DB) *models.FoodPartner {
	t.Helper()
	partner := &models.FoodPartner{
		ID:           uuid.New(),
		Name:         "Biryani House",
		ContactName:  "Arjun",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Phone:        "9900000001",
		Address:      "MG Road",
	}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func TestSubmitAggregatesAcrossUsers(t *testing.T) {
	db := setupRatingsTestDB(t)
	svc, partnerRepo := newTestService(t, db)
	partner := seedPartner(t, db)
	ctx := context.Background()

	scores := []int{5, 3, 4}
	var last SummaryDTO
	for _, score := range scores {
		var err error
		last, err = svc.Submit(ctx, uuid.New(), partner.ID, score, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), last.RatingCount)
	assert.InDelta(t, 4.0, last.RatingAverage, 0.0001)

	reloaded, err := partnerRepo.FindByID(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reloaded.RatingCount)
	assert.InDelta(t, 4.0, reloaded.RatingAverage, 0.0001)
}

func TestSubmitOverwritesPriorScore(t *testing.T) {
	db := setupRatingsTestDB(t)
	svc, _ := newTestService(t, db)
	partner := seedPartner(t, db)
	ctx := context.Background()

	alice := uuid.New()
	_, err := svc.Submit(ctx, alice, partner.ID, 5, nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, uuid.New(), partner.ID, 3, nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, uuid.New(), partner.ID, 4, nil)
	require.NoError(t, err)

	// resubmission replaces, never duplicates
	summary, err := svc.Submit(ctx, alice, partner.ID, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.RatingCount)
	assert.InDelta(t, 2.667, summary.RatingAverage, 0.0001)
}

func TestSubmitKeepsCommentOnOverwrite(t *testing.T) {
	db := setupRatingsTestDB(t)
	svc, _ := newTestService(t, db)
	repo := NewRepository(db)
	partner := seedPartner(t, db)
	userID := uuid.New()
	ctx := context.Background()

	first := "too salty"
	_, err := svc.Submit(ctx, userID, partner.ID, 2, &first)
	require.NoError(t, err)

	second := "much better now"
	_, err = svc.Submit(ctx, userID, partner.ID, 4, &second)
	require.NoError(t, err)

	rating, err := repo.FindByUserAndPartner(ctx, userID, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Score)
	require.NotNil(t, rating.Comment)
	assert.Equal(t, "much better now", *rating.Comment)
}

func TestSubmitRejectsOutOfRangeScore(t *testing.T) {
	db := setupRatingsTestDB(t)
	svc, _ := newTestService(t, db)
	partner := seedPartner(t, db)

	for _, score := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), uuid.New(), partner.ID, score, nil)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	}
}

func TestSubmitMissingPartner(t *testing.T) {
	db := setupRatingsTestDB(t)
	svc, _ := newTestService(t, db)

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), 4, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
