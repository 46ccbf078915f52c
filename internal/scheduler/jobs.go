package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PriceRefresher updates current prices from market quotes.
// *service.MarketService implements it.
type PriceRefresher interface {
	RefreshPrices(ctx context.Context) (int, error)
}

// SnapshotRecorder records the daily valuation of every portfolio.
// *service.DashboardService implements it.
type SnapshotRecorder interface {
	RecordSnapshots(ctx context.Context) (int, error)
}

// defaultJobTimeout bounds a single job run.
const defaultJobTimeout = 2 * time.Minute

// PriceRefreshJob pulls quotes for every held symbol and applies them.
type PriceRefreshJob struct {
	log     zerolog.Logger
	refresh PriceRefresher
	timeout time.Duration
}

// NewPriceRefreshJob creates a new price refresh job
func NewPriceRefreshJob(refresh PriceRefresher, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		log:     log.With().Str("job", "price-refresh").Logger(),
		refresh: refresh,
		timeout: defaultJobTimeout,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price-refresh"
}

// Run executes the job
func (j *PriceRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.refresh.RefreshPrices(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Int("updated", n).Msg("Prices refreshed")
	return nil
}

// SnapshotJob stores today's value and profit/loss of every portfolio.
type SnapshotJob struct {
	log     zerolog.Logger
	record  SnapshotRecorder
	timeout time.Duration
}

// NewSnapshotJob creates a new performance snapshot job
func NewSnapshotJob(record SnapshotRecorder, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		log:     log.With().Str("job", "performance-snapshot").Logger(),
		record:  record,
		timeout: defaultJobTimeout,
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "performance-snapshot"
}

// Run executes the job
func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.record.RecordSnapshots(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Int("snapshots", n).Msg("Performance snapshots recorded")
	return nil
}
