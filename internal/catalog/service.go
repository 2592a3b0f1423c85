package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/db/models"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
)

// Annotator resolves per-user interaction flags for a batch of reels. For an
// anonymous viewer implementations must return all-false flags without
// touching storage.
type Annotator interface {
	Annotate(ctx context.Context, userID uuid.UUID, foodIDs []uuid.UUID) (map[uuid.UUID]InteractionFlags, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	CatalogRepo *Repository
	PartnerRepo *partners.Repository
	Annotator   Annotator
}

// Service exposes business rules for the reel catalog and feed.
type Service interface {
	CreateFoodItem(ctx context.Context, dto CreateFoodItemDTO) (*models.FoodItem, error)
	Feed(ctx context.Context, viewerID uuid.UUID, cursor string, limit int) (FeedPageDTO, error)
	ListPartnerItems(ctx context.Context, partnerID uuid.UUID) ([]models.FoodItem, error)
}

type service struct {
	catalogRepo *Repository
	partnerRepo *partners.Repository
	annotator   Annotator
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.PartnerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner repo is required")
	}
	if params.Annotator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "annotator is required")
	}
	return &service{
		catalogRepo: params.CatalogRepo,
		partnerRepo: params.PartnerRepo,
		annotator:   params.Annotator,
	}, nil
}

// CreateFoodItem publishes a new reel under the owning partner.
func (s *service) CreateFoodItem(ctx context.Context, dto CreateFoodItemDTO) (*models.FoodItem, error) {
	if dto.FoodPartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(dto.VideoURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video url is required")
	}
	if dto.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if _, err := s.partnerRepo.FindByID(ctx, dto.FoodPartnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	return s.catalogRepo.Create(ctx, dto)
}

// Feed returns the annotated reverse-chronological feed page. viewerID may be
// uuid.Nil for anonymous requests.
func (s *service) Feed(ctx context.Context, viewerID uuid.UUID, cursor string, limit int) (FeedPageDTO, error) {
	items, nextCursor, err := s.catalogRepo.FeedPage(ctx, cursor, limit)
	if err != nil {
		return FeedPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feed page")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	flags, err := s.annotator.Annotate(ctx, viewerID, ids)
	if err != nil {
		return FeedPageDTO{}, err
	}

	page := FeedPageDTO{
		Items:      make([]FeedItemDTO, 0, len(items)),
		NextCursor: nextCursor,
	}
	for _, item := range items {
		page.Items = append(page.Items, feedItemFromModel(item, flags[item.ID]))
	}
	return page, nil
}

// ListPartnerItems returns all reels owned by the partner.
func (s *service) ListPartnerItems(ctx context.Context, partnerID uuid.UUID) ([]models.FoodItem, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	return s.catalogRepo.ListByPartner(ctx, partnerID)
}
