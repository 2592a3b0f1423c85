package cron

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/metrics"
)

func setupCronTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:cron_test?mode=memory&cache=shared"), &gorm.Config{})
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
		`CREATE TABLE IF NOT EXISTS food_items (
  id TEXT PRIMARY KEY,
  food_partner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  video_url TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  like_count INTEGER NOT NULL DEFAULT 0,
  save_count INTEGER NOT NULL DEFAULT 0,
  comment_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS like_records (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_item_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, food_item_id)
);`,
		`CREATE TABLE IF NOT EXISTS save_records (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_item_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, food_item_id)
);`,
		`CREATE TABLE IF NOT EXISTS follow_records (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_partner_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, food_partner_id)
);`,
		`CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  food_partner_id TEXT NOT NULL,
  score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
  comment TEXT,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, food_partner_id)
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"ratings", "follow_records", "save_records", "like_records", "food_items", "food_partners"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func fetchGauge(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == labelValue {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge %s{%s} not found", name, labelValue)
	return 0
}

func familyCounterValue(family *dto.MetricFamily, labelValue string) float64 {
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetValue() == labelValue {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCounterRepairJobFixesDrift(t *testing.T) {
	db := setupCronTestDB(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	ctx := context.Background()

	partner := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO food_partners (id, name, contact_name, email, password_hash, phone, address, follower_count, rating_count, rating_average)
		VALUES (?, 'Tandoor Tales', 'Nina', 'tt@example.com', 'x', '98000', 'Indiranagar', 9, 4, 4.9)`, partner).Error)

	food := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO food_items (id, food_partner_id, name, video_url, price_cents, like_count, save_count)
		VALUES (?, ?, 'Butter Naan', 'https://cdn.example.com/naan.mp4', 4000, 10, 5)`, food, partner).Error)

	// ledger truth: 2 likes, 1 save, 1 follow, 1 rating of 4
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Exec(`INSERT INTO like_records (user_id, food_item_id) VALUES (?, ?)`, uuid.New(), food).Error)
	}
	require.NoError(t, db.Exec(`INSERT INTO save_records (user_id, food_item_id) VALUES (?, ?)`, uuid.New(), food).Error)
	require.NoError(t, db.Exec(`INSERT INTO follow_records (user_id, food_partner_id) VALUES (?, ?)`, uuid.New(), partner).Error)
	require.NoError(t, db.Exec(`INSERT INTO ratings (user_id, food_partner_id, score) VALUES (?, ?, 4)`, uuid.New(), partner).Error)

	job, err := NewCounterRepairJob(catalog.NewRepository(db), partners.NewRepository(db), m, logg)
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))

	var likeCount, saveCount int64
	require.NoError(t, db.Table("food_items").Where("id = ?", food).Select("like_count").Scan(&likeCount).Error)
	require.NoError(t, db.Table("food_items").Where("id = ?", food).Select("save_count").Scan(&saveCount).Error)
	assert.Equal(t, int64(2), likeCount)
	assert.Equal(t, int64(1), saveCount)

	var followerCount, ratingCount int64
	var ratingAverage float64
	require.NoError(t, db.Table("food_partners").Where("id = ?", partner).Select("follower_count").Scan(&followerCount).Error)
	require.NoError(t, db.Table("food_partners").Where("id = ?", partner).Select("rating_count").Scan(&ratingCount).Error)
	require.NoError(t, db.Table("food_partners").Where("id = ?", partner).Select("rating_average").Scan(&ratingAverage).Error)
	assert.Equal(t, int64(1), followerCount)
	assert.Equal(t, int64(1), ratingCount)
	assert.InDelta(t, 4.0, ratingAverage, 0.001)

	assert.Equal(t, 1.0, fetchGauge(t, reg, "counter_drift_repaired", "like_count"))
	assert.Equal(t, 1.0, fetchGauge(t, reg, "counter_drift_repaired", "save_count"))
	assert.Equal(t, 1.0, fetchGauge(t, reg, "counter_drift_repaired", "follower_count"))
	assert.Equal(t, 1.0, fetchGauge(t, reg, "counter_drift_repaired", "rating_aggregate"))
}

func TestCounterRepairJobHealsStaleAverage(t *testing.T) {
	db := setupCronTestDB(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	ctx := context.Background()

	// rating_count matches the ledger; only the cached average is stale, the
	// drift a resubmitted rating leaves behind when the recompute is lost.
	partner := uuid.New()
	require.NoError(t, db.Exec(`INSERT INTO food_partners (id, name, contact_name, email, password_hash, phone, address, follower_count, rating_count, rating_average)
		VALUES (?, 'Chaat Street', 'Ravi', 'cs@example.com', 'x', '97000', 'Koramangala', 0, 2, 4.0)`, partner).Error)
	require.NoError(t, db.Exec(`INSERT INTO ratings (user_id, food_partner_id, score) VALUES (?, ?, 1)`, uuid.New(), partner).Error)
	require.NoError(t, db.Exec(`INSERT INTO ratings (user_id, food_partner_id, score) VALUES (?, ?, 3)`, uuid.New(), partner).Error)

	job, err := NewCounterRepairJob(catalog.NewRepository(db), partners.NewRepository(db), m, logg)
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))

	var ratingCount int64
	var ratingAverage float64
	require.NoError(t, db.Table("food_partners").Where("id = ?", partner).Select("rating_count").Scan(&ratingCount).Error)
	require.NoError(t, db.Table("food_partners").Where("id = ?", partner).Select("rating_average").Scan(&ratingAverage).Error)
	assert.Equal(t, int64(2), ratingCount)
	assert.InDelta(t, 2.0, ratingAverage, 0.001)

	assert.Equal(t, 1.0, fetchGauge(t, reg, "counter_drift_repaired", "rating_aggregate"))
}

func TestCounterRepairJobNoDriftIsQuiet(t *testing.T) {
	db := setupCronTestDB(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)
	logg := logger.New(logger.Options{ServiceName: "cron-test"})

	job, err := NewCounterRepairJob(catalog.NewRepository(db), partners.NewRepository(db), m, logg)
	require.NoError(t, err)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 0.0, fetchGauge(t, reg, "counter_drift_repaired", "like_count"))
	assert.Equal(t, 0.0, fetchGauge(t, reg, "counter_drift_repaired", "follower_count"))
}
