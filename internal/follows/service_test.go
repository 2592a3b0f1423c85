package follows

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

func setupFollowsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:follows_test?mode=memory&cache=shared"), &gorm.Config{})
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
		`CREATE TABLE IF NOT EXISTS follow_records (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_partner_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, food_partner_id)
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"follow_records", "food_partners"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		FollowRepo:  NewRepository(db),
		PartnerRepo: partners.NewRepository(db),
		Logger:      logger.New(logger.Options{ServiceName: "follows-test"}),
	})
	require.NoError(t, err)
	return svc
}

func seedPartner(t *testing.T, db *gorm.DB) *models.FoodPartner {
	t.Helper()
	partner := &models.FoodPartner{
		ID:           uuid.New(),
		Name:         "Dosa Corner",
		ContactName:  "Meera",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Phone:        "9900000000",
		Address:      "4th Block, Jayanagar",
	}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func TestToggleFollowOnThenOff(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newTestService(t, db)
	partner := seedPartner(t, db)
	userID := uuid.New()
	ctx := context.Background()

	result, err := svc.ToggleFollow(ctx, userID, partner.ID)
	require.NoError(t, err)
	assert.True(t, result.Following)
	assert.Equal(t, int64(1), result.FollowerCount)

	following, err := svc.IsFollowing(ctx, userID, partner.ID)
	require.NoError(t, err)
	assert.True(t, following)

	result, err = svc.ToggleFollow(ctx, userID, partner.ID)
	require.NoError(t, err)
	assert.False(t, result.Following)
	assert.Equal(t, int64(0), result.FollowerCount)
}

func TestToggleFollowMissingPartner(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.ToggleFollow(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestFlipLostInsertRaceKeepsRow(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newTestService(t, db).(*service)
	partner := seedPartner(t, db)
	userID := uuid.New()
	ctx := context.Background()

	// The row lands between the pre-check and the insert, as if a concurrent
	// toggle won the race.
	inserted, err := svc.followRepo.Insert(ctx, userID, partner.ID)
	require.NoError(t, err)
	require.True(t, inserted)

	following, delta, err := svc.flip(ctx, userID, partner.ID, false)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Zero(t, delta)

	exists, err := svc.followRepo.Exists(ctx, userID, partner.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFlipLostDeleteRaceStaysOff(t *testing.T) {
	db := setupFollowsTestDB(t)
	svc := newTestService(t, db).(*service)
	partner := seedPartner(t, db)
	ctx := context.Background()

	// The pre-check saw a row that a concurrent toggle has since removed.
	following, delta, err := svc.flip(ctx, uuid.New(), partner.ID, true)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Zero(t, delta)
}

func TestFollowerCountNeverNegative(t *testing.T) {
	db := setupFollowsTestDB(t)
	partnerRepo := partners.NewRepository(db)
	partner := seedPartner(t, db)
	ctx := context.Background()

	clamped, err := partnerRepo.ApplyFollowerDelta(ctx, partner.ID, -3)
	require.NoError(t, err)
	assert.True(t, clamped)

	count, err := partnerRepo.FollowerCount(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepairFollowerCounts(t *testing.T) {
	db := setupFollowsTestDB(t)
	partnerRepo := partners.NewRepository(db)
	followRepo := NewRepository(db)
	partner := seedPartner(t, db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := followRepo.Insert(ctx, uuid.New(), partner.ID)
		require.NoError(t, err)
	}
	// simulate drift: ledger says 2, cache says 7
	require.NoError(t, partnerRepo.SetFollowerCount(ctx, partner.ID, 7))

	repaired, err := partnerRepo.RepairFollowerCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	count, err := partnerRepo.FollowerCount(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
