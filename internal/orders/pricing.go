package orders

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
)

// PricedLine is one order line after the catalog price was captured.
type PricedLine struct {
	FoodItemID     uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
	TotalCents     int64
}

// PricingResult carries the server-priced order lines and total.
type PricingResult struct {
	Lines      []PricedLine
	TotalCents int64
}

// ValidateStructure applies the request-shape gates that need no storage
// reads: items present, quantities positive, a usable address, and a known
// payment method.
func ValidateStructure(dto PlaceOrderDTO) error {
	if dto.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if dto.FoodPartnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	if len(dto.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for i, item := range dto.Items {
		if item.FoodItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d is missing a food item id", i))
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d has non-positive quantity", i))
		}
	}
	if !dto.DeliveryAddress.HasLocationText() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address needs a street or formatted component")
	}
	if !dto.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", dto.PaymentMethod))
	}
	return nil
}

// PriceOrder is a pure function over the resolved catalog snapshot. It
// verifies item ownership, prices every line from catalog unit prices, and
// compares the server total against the client total within toleranceCents.
// The client total is advisory only; the returned total is authoritative.
func PriceOrder(dto PlaceOrderDTO, catalog map[uuid.UUID]models.FoodItem, toleranceCents int64) (PricingResult, error) {
	lines := make([]PricedLine, 0, len(dto.Items))
	var serverTotal int64

	for _, item := range dto.Items {
		food, ok := catalog[item.FoodItemID]
		if !ok {
			return PricingResult{}, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("food item %s not found", item.FoodItemID))
		}
		if food.FoodPartnerID != dto.FoodPartnerID {
			return PricingResult{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("food item %s does not belong to the declared partner", item.FoodItemID))
		}
		lineTotal := food.PriceCents * int64(item.Quantity)
		lines = append(lines, PricedLine{
			FoodItemID:     food.ID,
			Name:           food.Name,
			UnitPriceCents: food.PriceCents,
			Quantity:       item.Quantity,
			TotalCents:     lineTotal,
		})
		serverTotal += lineTotal
	}

	clientCents := dto.ClientTotal.Shift(2)
	diff := decimal.NewFromInt(serverTotal).Sub(clientCents).Abs()
	if diff.GreaterThan(decimal.NewFromInt(toleranceCents)) {
		return PricingResult{}, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order total mismatch: server %d cents, client %s cents", serverTotal, clientCents.String())).
			WithDetails(map[string]any{
				"server_total_cents": serverTotal,
				"client_total_cents": clientCents.String(),
			})
	}

	return PricingResult{Lines: lines, TotalCents: serverTotal}, nil
}
