package types

import "github.com/reelbites/reelbites-backend/pkg/enums"

// PaymentDetails records the simulated payment state carried on an order.
// Stored as jsonb; only Status may change after order creation.
type PaymentDetails struct {
	Method        enums.PaymentMethod `json:"method"`
	Status        enums.PaymentStatus `json:"status"`
	TransactionID *string             `json:"transaction_id,omitempty"`
}
