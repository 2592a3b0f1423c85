package interactions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

func counterColumn(kind enums.InteractionKind) string {
	if kind == enums.InteractionKindSave {
		return "save_count"
	}
	return "like_count"
}

// ServiceParams groups dependencies for the interactions service.
type ServiceParams struct {
	LedgerRepo  *Repository
	CatalogRepo *catalog.Repository
	Logger      *logger.Logger
}

// Service exposes idempotent like/save toggles and feed annotation. The
// ledger row is the source of truth; the cached counter follows it and is
// reconciled out of band when the second write fails.
type Service interface {
	ToggleLike(ctx context.Context, userID, foodID uuid.UUID) (ToggleResultDTO, error)
	ToggleSave(ctx context.Context, userID, foodID uuid.UUID) (ToggleResultDTO, error)
	Annotate(ctx context.Context, userID uuid.UUID, foodIDs []uuid.UUID) (map[uuid.UUID]catalog.InteractionFlags, error)
}

type service struct {
	ledgerRepo  *Repository
	catalogRepo *catalog.Repository
	logg        *logger.Logger
}

// NewService builds an interactions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.LedgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		ledgerRepo:  params.LedgerRepo,
		catalogRepo: params.CatalogRepo,
		logg:        params.Logger,
	}, nil
}

// ToggleLike flips the user's like for the reel and returns the new state.
func (s *service) ToggleLike(ctx context.Context, userID, foodID uuid.UUID) (ToggleResultDTO, error) {
	return s.toggle(ctx, enums.InteractionKindLike, userID, foodID)
}

// ToggleSave flips the user's bookmark for the reel and returns the new state.
func (s *service) ToggleSave(ctx context.Context, userID, foodID uuid.UUID) (ToggleResultDTO, error) {
	return s.toggle(ctx, enums.InteractionKindSave, userID, foodID)
}

func (s *service) toggle(ctx context.Context, kind enums.InteractionKind, userID, foodID uuid.UUID) (ToggleResultDTO, error) {
	if userID == uuid.Nil {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if foodID == uuid.Nil {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "food item id is required")
	}
	if _, err := s.catalogRepo.FindByID(ctx, foodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "food item not found")
		}
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}

	wasActive, err := s.ledgerRepo.Exists(ctx, kind, userID, foodID)
	if err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read interaction ledger")
	}

	active, delta, err := s.flip(ctx, kind, userID, foodID, wasActive)
	if err != nil {
		return ToggleResultDTO{}, err
	}

	// The ledger write is committed; the counter update must not be lost to a
	// cancelled request context. Failures are absorbed here and picked up by
	// the repair job.
	if delta != 0 {
		detached := context.WithoutCancel(ctx)
		fields := map[string]any{
			"user_id":      userID.String(),
			"food_item_id": foodID.String(),
			"counter":      counterColumn(kind),
			"delta":        delta,
		}
		clamped, err := s.catalogRepo.ApplyCounterDelta(detached, foodID, counterColumn(kind), delta)
		if err != nil {
			s.logg.Error(s.logg.WithFields(detached, fields), "counter update failed after ledger write",
				pkgerrors.Wrap(pkgerrors.CodeDataInconsistency, err, "apply counter delta"))
		} else if clamped {
			s.logg.Error(s.logg.WithFields(detached, fields), "counter decrement clamped at zero",
				pkgerrors.New(pkgerrors.CodeDataInconsistency, "cached counter drifted below ledger count"))
		}
	}

	count, err := s.catalogRepo.CounterValue(ctx, foodID, counterColumn(kind))
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "food_item_id", foodID.String()), "counter read failed after toggle")
	}

	return ToggleResultDTO{Active: active, Count: count}, nil
}

// flip commits the direction the existence pre-check chose. A write that
// loses a race against a concurrent toggle still lands on that direction:
// the concurrent winner already moved the counter, so the delta stays zero.
func (s *service) flip(ctx context.Context, kind enums.InteractionKind, userID, foodID uuid.UUID, wasActive bool) (bool, int64, error) {
	if wasActive {
		removed, err := s.ledgerRepo.Delete(ctx, kind, userID, foodID)
		if err != nil {
			return false, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear interaction ledger")
		}
		if !removed {
			return false, 0, nil
		}
		return false, -1, nil
	}

	inserted, err := s.ledgerRepo.Insert(ctx, kind, userID, foodID)
	if err != nil {
		return false, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write interaction ledger")
	}
	if !inserted {
		return true, 0, nil
	}
	return true, 1, nil
}

// Annotate resolves liked/saved flags for a batch of reels. An anonymous
// viewer (uuid.Nil) gets all-false flags without any storage reads.
func (s *service) Annotate(ctx context.Context, userID uuid.UUID, foodIDs []uuid.UUID) (map[uuid.UUID]catalog.InteractionFlags, error) {
	flags := make(map[uuid.UUID]catalog.InteractionFlags, len(foodIDs))
	for _, id := range foodIDs {
		flags[id] = catalog.InteractionFlags{}
	}
	if userID == uuid.Nil || len(foodIDs) == 0 {
		return flags, nil
	}

	liked, err := s.ledgerRepo.ExistsBatch(ctx, enums.InteractionKindLike, userID, foodIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "batch load likes")
	}
	saved, err := s.ledgerRepo.ExistsBatch(ctx, enums.InteractionKindSave, userID, foodIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "batch load saves")
	}

	for _, id := range foodIDs {
		flags[id] = catalog.InteractionFlags{
			Liked: liked[id],
			Saved: saved[id],
		}
	}
	return flags, nil
}
