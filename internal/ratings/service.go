package ratings

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/db/models"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

const (
	minScore = 1
	maxScore = 5
)

// ServiceParams groups dependencies for the ratings service.
type ServiceParams struct {
	RatingRepo  *Repository
	PartnerRepo *partners.Repository
	Logger      *logger.Logger
}

// SummaryDTO reports the partner's aggregate after a rating write.
type SummaryDTO struct {
	Score         int     `json:"score"`
	RatingCount   int64   `json:"rating_count"`
	RatingAverage float64 `json:"rating_average"`
}

// Service exposes rating submission with aggregate recomputation. The rating
// rows are the source of truth; the partner's cached aggregate follows them.
type Service interface {
	Submit(ctx context.Context, userID, partnerID uuid.UUID, score int, comment *string) (SummaryDTO, error)
}

type service struct {
	ratingRepo  *Repository
	partnerRepo *partners.Repository
	logg        *logger.Logger
}

// NewService builds a ratings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.RatingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating repo is required")
	}
	if params.PartnerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		ratingRepo:  params.RatingRepo,
		partnerRepo: params.PartnerRepo,
		logg:        params.Logger,
	}, nil
}

// Submit records or overwrites the user's rating and refreshes the partner
// aggregate from a full recompute over all rating rows.
func (s *service) Submit(ctx context.Context, userID, partnerID uuid.UUID, score int, comment *string) (SummaryDTO, error) {
	if userID == uuid.Nil {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if partnerID == uuid.Nil {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	if score < minScore || score > maxScore {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "score must be between 1 and 5")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "partner not found")
		}
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}

	rating := &models.Rating{
		UserID:        userID,
		FoodPartnerID: partnerID,
		Score:         score,
		Comment:       comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write rating")
	}

	// The rating row is committed; the aggregate refresh must not be lost to
	// a cancelled request context.
	detached := context.WithoutCancel(ctx)
	count, average, err := s.ratingRepo.AggregateForPartner(detached, partnerID)
	if err != nil {
		s.logg.Error(s.logg.WithField(detached, "food_partner_id", partnerID.String()),
			"aggregate recompute failed after rating write",
			pkgerrors.Wrap(pkgerrors.CodeDataInconsistency, err, "recompute rating aggregate"))
		return SummaryDTO{Score: score}, nil
	}
	average = roundAverage(average)
	if err := s.partnerRepo.UpdateRatingAggregate(detached, partnerID, count, average); err != nil {
		s.logg.Error(s.logg.WithField(detached, "food_partner_id", partnerID.String()),
			"aggregate update failed after rating write",
			pkgerrors.Wrap(pkgerrors.CodeDataInconsistency, err, "store rating aggregate"))
	}

	return SummaryDTO{
		Score:         score,
		RatingCount:   count,
		RatingAverage: average,
	}, nil
}

func roundAverage(average float64) float64 {
	return math.Round(average*1000) / 1000
}
