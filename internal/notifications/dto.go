package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// NotificationDTO is the API projection of one inbox entry.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	OrderID   *uuid.UUID             `json:"order_id,omitempty"`
	Message   string                 `json:"message"`
	Read      bool                   `json:"read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// PageDTO returns a cursor-paginated inbox listing.
type PageDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

func fromModel(notification *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		Type:      notification.Type,
		OrderID:   notification.OrderID,
		Message:   notification.Message,
		Read:      notification.ReadAt != nil,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
