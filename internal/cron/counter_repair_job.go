package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/metrics"
)

// CounterRepairJob reconciles every denormalized counter against its ledger:
// like/save counts on food items, follower counts and rating aggregates on
// partners. The ledger is always the source of truth.
type CounterRepairJob struct {
	catalogRepo *catalog.Repository
	partnerRepo *partners.Repository
	metrics     *metrics.CronJobMetrics
	logg        *logger.Logger
}

// NewCounterRepairJob builds the repair job.
func NewCounterRepairJob(catalogRepo *catalog.Repository, partnerRepo *partners.Repository, m *metrics.CronJobMetrics, logg *logger.Logger) (*CounterRepairJob, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repo required")
	}
	if partnerRepo == nil {
		return nil, fmt.Errorf("partner repo required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &CounterRepairJob{
		catalogRepo: catalogRepo,
		partnerRepo: partnerRepo,
		metrics:     m,
		logg:        logg,
	}, nil
}

// Name implements Job.
func (j *CounterRepairJob) Name() string {
	return "counter_repair"
}

// Run repairs each counter family independently so one failure does not stop
// the rest. Errors are aggregated and reported together.
func (j *CounterRepairJob) Run(ctx context.Context) error {
	var errs error

	foodCounters := []struct {
		column string
		ledger string
	}{
		{column: "like_count", ledger: "like_records"},
		{column: "save_count", ledger: "save_records"},
	}
	for _, target := range foodCounters {
		rows, err := j.catalogRepo.RepairCounter(ctx, target.column, target.ledger)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("repair %s: %w", target.column, err))
			continue
		}
		j.record(ctx, target.column, rows)
	}

	rows, err := j.partnerRepo.RepairFollowerCounts(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("repair follower_count: %w", err))
	} else {
		j.record(ctx, "follower_count", rows)
	}

	rows, err = j.partnerRepo.RepairRatingAggregates(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("repair rating aggregates: %w", err))
	} else {
		j.record(ctx, "rating_aggregate", rows)
	}

	return errs
}

func (j *CounterRepairJob) record(ctx context.Context, counter string, rows int64) {
	j.metrics.SetDriftRepaired(counter, rows)
	if rows == 0 {
		return
	}
	fields := map[string]any{"counter": counter, "rows": rows}
	j.logg.Warn(j.logg.WithFields(ctx, fields), "counter drift repaired")
}
