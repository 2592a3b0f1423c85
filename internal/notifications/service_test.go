package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:notifications_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(6)))),
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  order_id TEXT,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`).Error)
	require.NoError(t, db.Exec("DELETE FROM notifications").Error)
	return db
}

func newNotificationsTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		NotificationRepo: NewRepository(db),
		Logger:           logger.New(logger.Options{ServiceName: "notifications-test"}),
	})
	require.NoError(t, err)
	return svc
}

func TestNotifyOrderStatusCreatesInboxEntry(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsTestService(t, db)
	userID := uuid.New()
	orderID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.NotifyOrderStatus(ctx, userID, orderID, enums.OrderStatusAccepted))

	page, err := svc.List(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)

	entry := page.Notifications[0]
	assert.Equal(t, enums.NotificationOrderStatusChanged, entry.Type)
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, orderID, *entry.OrderID)
	assert.Contains(t, entry.Message, "accepted")
	assert.False(t, entry.Read)
}

func TestNotifyOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsTestService(t, db)

	err := svc.NotifyOrderStatus(context.Background(), uuid.New(), uuid.New(), "vaporized")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestMarkReadOwnNotification(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsTestService(t, db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.NotifyOrderStatus(ctx, userID, uuid.New(), enums.OrderStatusDelivered))
	page, err := svc.List(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	notificationID := page.Notifications[0].ID

	require.NoError(t, svc.MarkRead(ctx, notificationID, userID))

	page, err = svc.List(ctx, userID, "", 10)
	require.NoError(t, err)
	assert.True(t, page.Notifications[0].Read)
	require.NotNil(t, page.Notifications[0].ReadAt)

	// marking again is a no-op
	require.NoError(t, svc.MarkRead(ctx, notificationID, userID))

	unread, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestMarkReadForeignNotificationNotFound(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsTestService(t, db)
	owner := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.NotifyOrderStatus(ctx, owner, uuid.New(), enums.OrderStatusPreparing))
	page, err := svc.List(ctx, owner, "", 10)
	require.NoError(t, err)
	notificationID := page.Notifications[0].ID

	err = svc.MarkRead(ctx, notificationID, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.MarkRead(ctx, uuid.New(), owner)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginatesInbox(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsTestService(t, db)
	userID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.NotifyOrderStatus(ctx, userID, uuid.New(), enums.OrderStatusAccepted))
	}

	page, err := svc.List(ctx, userID, "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, userID, page.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Notifications, 1)
	assert.Empty(t, rest.NextCursor)

	unread, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)
}
