package types

import "strings"

// DeliveryAddress is the location snapshot copied onto an order at creation.
// It is stored as jsonb and never updated afterwards, so later edits to a
// user's saved address cannot rewrite order history.
type DeliveryAddress struct {
	Street    string  `json:"street,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Pincode   string  `json:"pincode,omitempty"`
	Country   string  `json:"country,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Formatted string  `json:"formatted,omitempty"`
}

// HasLocationText reports whether the snapshot carries at least a formatted
// line or a street component. Orders without either are rejected up front.
func (a DeliveryAddress) HasLocationText() bool {
	return strings.TrimSpace(a.Formatted) != "" || strings.TrimSpace(a.Street) != ""
}
