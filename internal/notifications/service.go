package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

// ServiceParams groups dependencies for the notifications service.
type ServiceParams struct {
	NotificationRepo *Repository
	Logger           *logger.Logger
}

// Service exposes the notification inbox and the order-status sink consumed
// by the orders service.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	NotifyOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a notifications service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.NotificationRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.NotificationRepo, logg: params.Logger}, nil
}

// List pages through the user's inbox, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	page := PageDTO{
		Notifications: make([]NotificationDTO, 0, len(rows)),
		NextCursor:    nextCursor,
	}
	for i := range rows {
		page.Notifications = append(page.Notifications, fromModel(&rows[i]))
	}
	return page, nil
}

// MarkRead stamps a notification as read on behalf of its owner. Reading an
// already-read notification is a no-op; someone else's notification is not
// distinguishable from a missing one.
func (s *service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	if notificationID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id and user id are required")
	}
	marked, err := s.repo.MarkRead(ctx, notificationID, userID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if marked {
		return nil
	}

	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	if notification.UserID != userID {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "attempt to read another user's notification")
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// UnreadCount returns the badge count for the user's inbox.
func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

// NotifyOrderStatus records an order status change in the user's inbox.
func (s *service) NotifyOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) error {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status "+status.String())
	}
	id := orderID
	notification := &models.Notification{
		UserID:  userID,
		Type:    enums.NotificationOrderStatusChanged,
		OrderID: &id,
		Message: statusMessage(status),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notification")
	}
	return nil
}

func statusMessage(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusAccepted:
		return "Your order was accepted and will be prepared shortly."
	case enums.OrderStatusRejected:
		return "Your order was rejected by the restaurant."
	case enums.OrderStatusPreparing:
		return "Your order is being prepared."
	case enums.OrderStatusReadyForPickup:
		return "Your order is ready for pickup."
	case enums.OrderStatusOutForDelivery:
		return "Your order is out for delivery."
	case enums.OrderStatusDelivered:
		return "Your order was delivered. Enjoy!"
	case enums.OrderStatusCancelled:
		return "Your order was cancelled."
	default:
		return fmt.Sprintf("Your order status changed to %s.", strings.ReplaceAll(status.String(), "_", " "))
	}
}
