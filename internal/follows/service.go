package follows

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/partners"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

// ServiceParams groups dependencies for the follows service.
type ServiceParams struct {
	FollowRepo  *Repository
	PartnerRepo *partners.Repository
	Logger      *logger.Logger
}

// ToggleResultDTO reports the state after a follow toggle.
type ToggleResultDTO struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}

// Service exposes the idempotent follow toggle over partners.
type Service interface {
	ToggleFollow(ctx context.Context, userID, partnerID uuid.UUID) (ToggleResultDTO, error)
	IsFollowing(ctx context.Context, userID, partnerID uuid.UUID) (bool, error)
}

type service struct {
	followRepo  *Repository
	partnerRepo *partners.Repository
	logg        *logger.Logger
}

// NewService builds a follows service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FollowRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "follow repo is required")
	}
	if params.PartnerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		followRepo:  params.FollowRepo,
		partnerRepo: params.PartnerRepo,
		logg:        params.Logger,
	}, nil
}

// ToggleFollow flips the user's follow for the partner and returns the new state.
func (s *service) ToggleFollow(ctx context.Context, userID, partnerID uuid.UUID) (ToggleResultDTO, error) {
	if userID == uuid.Nil {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if partnerID == uuid.Nil {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "partner not found")
		}
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}

	wasFollowing, err := s.followRepo.Exists(ctx, userID, partnerID)
	if err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read follow ledger")
	}

	following, delta, err := s.flip(ctx, userID, partnerID, wasFollowing)
	if err != nil {
		return ToggleResultDTO{}, err
	}

	// The ledger write is committed; the counter update must not be lost to a
	// cancelled request context. Failures are absorbed here and picked up by
	// the repair job.
	if delta != 0 {
		detached := context.WithoutCancel(ctx)
		fields := map[string]any{
			"user_id":         userID.String(),
			"food_partner_id": partnerID.String(),
			"delta":           delta,
		}
		clamped, err := s.partnerRepo.ApplyFollowerDelta(detached, partnerID, delta)
		if err != nil {
			s.logg.Error(s.logg.WithFields(detached, fields), "follower count update failed after ledger write",
				pkgerrors.Wrap(pkgerrors.CodeDataInconsistency, err, "apply follower delta"))
		} else if clamped {
			s.logg.Error(s.logg.WithFields(detached, fields), "follower decrement clamped at zero",
				pkgerrors.New(pkgerrors.CodeDataInconsistency, "cached follower count drifted below ledger count"))
		}
	}

	count, err := s.partnerRepo.FollowerCount(ctx, partnerID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "food_partner_id", partnerID.String()), "follower count read failed after toggle")
	}

	return ToggleResultDTO{Following: following, FollowerCount: count}, nil
}

// flip commits the direction the existence pre-check chose. A write that
// loses a race against a concurrent toggle still lands on that direction:
// the concurrent winner already moved the counter, so the delta stays zero.
func (s *service) flip(ctx context.Context, userID, partnerID uuid.UUID, wasFollowing bool) (bool, int64, error) {
	if wasFollowing {
		removed, err := s.followRepo.Delete(ctx, userID, partnerID)
		if err != nil {
			return false, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear follow ledger")
		}
		if !removed {
			return false, 0, nil
		}
		return false, -1, nil
	}

	inserted, err := s.followRepo.Insert(ctx, userID, partnerID)
	if err != nil {
		return false, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write follow ledger")
	}
	if !inserted {
		return true, 0, nil
	}
	return true, 1, nil
}

// IsFollowing reports the current follow state without mutating anything.
func (s *service) IsFollowing(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	if partnerID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	return s.followRepo.Exists(ctx, userID, partnerID)
}
