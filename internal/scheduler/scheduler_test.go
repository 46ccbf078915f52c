package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
)

type fakeRefresher struct {
	n     int
	err   error
	calls int
}

func (f *fakeRefresher) RefreshPrices(ctx context.Context) (int, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.n, f.err
}

func (f *fakeRefresher) RecordSnapshots(ctx context.Context) (int, error) {
	return f.RefreshPrices(ctx)
}

func TestScheduler_RunNowRecordsMetrics(t *testing.T) {
	m := metrics.NewRegistry()
	s := New(zerolog.Nop(), m)

	ok := &fakeRefresher{n: 3}
	require.NoError(t, s.RunNow(NewPriceRefreshJob(ok, zerolog.Nop())))
	assert.Equal(t, 1, ok.calls)

	failing := &fakeRefresher{err: errors.New("quotes unavailable")}
	assert.Error(t, s.RunNow(NewSnapshotJob(failing, zerolog.Nop())))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("price-refresh", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("performance-snapshot", "error")))
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop(), nil)
	job := NewPriceRefreshJob(&fakeRefresher{}, zerolog.Nop())

	require.NoError(t, s.AddJob("0 */15 * * * *", job))
	require.NoError(t, s.AddJob("", job), "empty schedule disables the job")
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.AddJob("every now and then", job))

	s.Start()
	s.Stop()
}
