package orders

import (
	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// statusTransitions is the only authority on order lifecycle legality.
// Terminal states (rejected, cancelled, delivered) have no outgoing edges.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusAccepted,
		enums.OrderStatusRejected,
	},
	enums.OrderStatusAccepted: {
		enums.OrderStatusPreparing,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusPreparing: {
		enums.OrderStatusReadyForPickup,
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusReadyForPickup: {
		enums.OrderStatusDelivered,
	},
	enums.OrderStatusOutForDelivery: {
		enums.OrderStatusDelivered,
	},
}

// CanTransition reports whether moving from one status to the next is legal.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
