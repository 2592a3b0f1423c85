package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/geocode"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/types"
)

// StatusNotifier receives a best-effort signal after a successful transition.
// Failures are logged and never fail the transition.
type StatusNotifier interface {
	NotifyOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) error
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	OrderRepo      *Repository
	CatalogRepo    *catalog.Repository
	PartnerRepo    *partners.Repository
	Notifier       StatusNotifier
	Geocoder       geocode.Reverser
	Logger         *logger.Logger
	ToleranceCents int64
}

// Service exposes order placement, retrieval, and lifecycle transitions.
type Service interface {
	PlaceOrder(ctx context.Context, dto PlaceOrderDTO) (OrderDTO, error)
	GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, role enums.ActorRole) (OrderDTO, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error)
	ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, cursor string, limit int) (OrderPageDTO, error)
	UpdateStatus(ctx context.Context, orderID, partnerID uuid.UUID, next enums.OrderStatus) (OrderDTO, error)
}

type service struct {
	orderRepo      *Repository
	catalogRepo    *catalog.Repository
	partnerRepo    *partners.Repository
	notifier       StatusNotifier
	geocoder       geocode.Reverser
	logg           *logger.Logger
	toleranceCents int64
}

// NewService builds an orders service with the required dependencies.
// Notifier and Geocoder are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.PartnerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.ToleranceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tolerance must not be negative")
	}
	return &service{
		orderRepo:      params.OrderRepo,
		catalogRepo:    params.CatalogRepo,
		partnerRepo:    params.PartnerRepo,
		notifier:       params.Notifier,
		geocoder:       params.Geocoder,
		logg:           params.Logger,
		toleranceCents: params.ToleranceCents,
	}, nil
}

// PlaceOrder validates, prices, and persists a new order. Prices come from
// the catalog at placement time; the client total is only verified.
func (s *service) PlaceOrder(ctx context.Context, dto PlaceOrderDTO) (OrderDTO, error) {
	if err := ValidateStructure(dto); err != nil {
		return OrderDTO{}, err
	}

	if _, err := s.partnerRepo.FindByID(ctx, dto.FoodPartnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "partner not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}

	catalogSnapshot, err := s.resolveCatalog(ctx, dto.Items)
	if err != nil {
		return OrderDTO{}, err
	}

	priced, err := PriceOrder(dto, catalogSnapshot, s.toleranceCents)
	if err != nil {
		return OrderDTO{}, err
	}

	address := s.enrichAddress(ctx, dto.DeliveryAddress)

	order := &models.Order{
		UserID:          dto.UserID,
		FoodPartnerID:   dto.FoodPartnerID,
		Status:          enums.OrderStatusPending,
		TotalCents:      priced.TotalCents,
		DeliveryAddress: address,
		Payment: types.PaymentDetails{
			Method: dto.PaymentMethod,
			Status: enums.PaymentStatusPending,
		},
	}
	for _, line := range priced.Lines {
		order.Items = append(order.Items, models.OrderItem{
			FoodItemID:     line.FoodItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			TotalCents:     line.TotalCents,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	// The order is committed; the history index append must not be lost to a
	// cancelled request context. On failure the order remains reachable by id.
	detached := context.WithoutCancel(ctx)
	if err := s.orderRepo.AppendHistory(detached, dto.UserID, order.ID); err != nil {
		fields := map[string]any{
			"user_id":  dto.UserID.String(),
			"order_id": order.ID.String(),
		}
		s.logg.Error(s.logg.WithFields(detached, fields), "order history append failed",
			pkgerrors.Wrap(pkgerrors.CodeDataInconsistency, err, "append order history"))
	}

	return FromModel(order), nil
}

// GetOrder returns the order when the requester owns it, as buyer or seller.
func (s *service) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, role enums.ActorRole) (OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}

	switch role {
	case enums.ActorRoleUser:
		if order.UserID != requesterID {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
	case enums.ActorRolePartner:
		if order.FoodPartnerID != requesterID {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another partner")
		}
	default:
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "unknown requester role")
	}
	return FromModel(order), nil
}

// ListUserOrders pages through the requesting user's order history.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error) {
	if userID == uuid.Nil {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, nextCursor, err := s.orderRepo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}
	return toPage(orders, nextCursor), nil
}

// ListPartnerOrders pages through orders addressed to the partner.
func (s *service) ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, cursor string, limit int) (OrderPageDTO, error) {
	if partnerID == uuid.Nil {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	orders, nextCursor, err := s.orderRepo.ListByPartner(ctx, partnerID, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partner orders")
	}
	return toPage(orders, nextCursor), nil
}

// UpdateStatus drives the order through the lifecycle table on behalf of the
// owning partner.
func (s *service) UpdateStatus(ctx context.Context, orderID, partnerID uuid.UUID, next enums.OrderStatus) (OrderDTO, error) {
	if !next.IsValid() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status "+strings.TrimSpace(next.String()))
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.FoodPartnerID != partnerID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another partner")
	}
	if !CanTransition(order.Status, next) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			"illegal status transition").
			WithDetails(map[string]any{
				"from": order.Status.String(),
				"to":   next.String(),
			})
	}

	advanced, err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status.String(), next.String())
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !advanced {
		// a concurrent transition won; reload for the accurate conflict report
		current, loadErr := s.loadOrder(ctx, orderID)
		details := map[string]any{"to": next.String()}
		if loadErr == nil {
			details["from"] = current.Status.String()
		}
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").
			WithDetails(details)
	}
	order.Status = next

	if s.notifier != nil {
		detached := context.WithoutCancel(ctx)
		if err := s.notifier.NotifyOrderStatus(detached, order.UserID, order.ID, next); err != nil {
			fields := map[string]any{
				"order_id": order.ID.String(),
				"status":   next.String(),
			}
			s.logg.Warn(s.logg.WithFields(detached, fields), "order status notification failed")
		}
	}

	return FromModel(order), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) resolveCatalog(ctx context.Context, items []OrderItemInput) (map[uuid.UUID]models.FoodItem, error) {
	distinct := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.FoodItemID]; ok {
			continue
		}
		seen[item.FoodItemID] = struct{}{}
		distinct = append(distinct, item.FoodItemID)
	}

	found, err := s.catalogRepo.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve food items")
	}
	snapshot := make(map[uuid.UUID]models.FoodItem, len(found))
	for _, item := range found {
		snapshot[item.ID] = item
	}
	return snapshot, nil
}

// enrichAddress fills the formatted line from reverse geocoding when only
// coordinates were provided. Best effort; the order proceeds either way.
func (s *service) enrichAddress(ctx context.Context, address types.DeliveryAddress) types.DeliveryAddress {
	if s.geocoder == nil || strings.TrimSpace(address.Formatted) != "" {
		return address
	}
	if address.Lat == 0 && address.Lng == 0 {
		return address
	}
	formatted, err := s.geocoder.ReverseGeocode(ctx, address.Lat, address.Lng)
	if err != nil {
		s.logg.Warn(ctx, "reverse geocode failed during order placement")
		return address
	}
	address.Formatted = formatted
	return address
}

func toPage(orders []models.Order, nextCursor string) OrderPageDTO {
	page := OrderPageDTO{
		Orders:     make([]OrderDTO, 0, len(orders)),
		NextCursor: nextCursor,
	}
	for i := range orders {
		page.Orders = append(page.Orders, FromModel(&orders[i]))
	}
	return page
}
