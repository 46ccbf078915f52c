package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// FakeSource is an in-memory datasource.Source with failure injection. It
// also implements PositionWriter and SnapshotWriter and records every write.
//
// Example usage:
//
//	src := testutil.NewFakeSource(dataset)
//	src.FailReads(errors.New("connection refused"))
type FakeSource struct {
	mu sync.Mutex

	portfolios  []model.Portfolio
	positions   []model.Position
	performance map[string][]model.PerformancePoint
	quotes      []model.MarketQuote

	readErr  error
	writeErr error

	writes       int
	allowWrites  int
	lateWriteErr error

	// OnListPositions, when set, runs inside ListPositions before it
	// returns. Tests use it to interleave a mutation with an in-flight load.
	OnListPositions func()

	Updated   []model.Position
	Deleted   []string
	Snapshots map[string][]model.PerformancePoint
	ReadCalls int
}

// NewFakeSource creates a source serving ds. The dataset's performance
// history is attached to its first portfolio.
func NewFakeSource(ds datasource.Dataset) *FakeSource {
	f := &FakeSource{
		portfolios:  append([]model.Portfolio{}, ds.Portfolios...),
		positions:   append([]model.Position{}, ds.Positions...),
		performance: make(map[string][]model.PerformancePoint),
		Snapshots:   make(map[string][]model.PerformancePoint),
	}
	if len(ds.Portfolios) > 0 {
		f.performance[ds.Portfolios[0].ID] = append([]model.PerformancePoint{}, ds.Performance...)
	}
	return f
}

// FailReads makes every read return err wrapped in apperrors.ErrDataSource.
// A nil err heals the source.
func (f *FakeSource) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// FailWrites makes every write return err wrapped in apperrors.ErrDataSource.
func (f *FakeSource) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

// FailWritesAfter lets the next n writes succeed and makes every later
// write return err wrapped in apperrors.ErrDataSource.
func (f *FakeSource) FailWritesAfter(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = 0
	f.allowWrites = n
	f.lateWriteErr = err
}

// SetQuotes sets the quotes returned by GetMarketQuotes.
func (f *FakeSource) SetQuotes(quotes ...model.MarketQuote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes = quotes
}

// SetPositions replaces the served positions.
func (f *FakeSource) SetPositions(positions ...model.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions = positions
}

func (f *FakeSource) read() error {
	f.ReadCalls++
	if f.readErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataSource, f.readErr)
	}
	return nil
}

func (f *FakeSource) write() error {
	if f.writeErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataSource, f.writeErr)
	}
	f.writes++
	if f.lateWriteErr != nil && f.writes > f.allowWrites {
		return fmt.Errorf("%w: %v", apperrors.ErrDataSource, f.lateWriteErr)
	}
	return nil
}

func (f *FakeSource) ListPortfolios(_ context.Context) ([]model.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	return append([]model.Portfolio{}, f.portfolios...), nil
}

func (f *FakeSource) GetPortfolio(_ context.Context, id string) (model.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return model.Portfolio{}, err
	}
	for _, p := range f.portfolios {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Portfolio{}, fmt.Errorf("%w: %s", apperrors.ErrPortfolioNotFound, id)
}

func (f *FakeSource) CreatePortfolio(_ context.Context, draft model.PortfolioDraft) (model.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return model.Portfolio{}, err
	}
	p := model.Portfolio{ID: uuid.New().String(), Name: draft.Name}
	f.portfolios = append(f.portfolios, p)
	return p, nil
}

func (f *FakeSource) ListPositions(_ context.Context, portfolioID string) ([]model.Position, error) {
	f.mu.Lock()
	err := f.read()
	out := []model.Position{}
	for _, p := range f.positions {
		if portfolioID == "" || p.PortfolioID == portfolioID {
			out = append(out, p)
		}
	}
	hook := f.OnListPositions
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FakeSource) GetPosition(_ context.Context, id string) (model.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return model.Position{}, err
	}
	for _, p := range f.positions {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
}

func (f *FakeSource) CreatePosition(_ context.Context, p model.Position) (model.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return model.Position{}, err
	}
	f.positions = append(f.positions, p)
	return p, nil
}

func (f *FakeSource) GetPerformanceHistory(_ context.Context, portfolioID string, _ model.Period) ([]model.PerformancePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	return append([]model.PerformancePoint{}, f.performance[portfolioID]...), nil
}

func (f *FakeSource) GetMarketQuotes(_ context.Context, symbols []string) ([]model.MarketQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.read(); err != nil {
		return nil, err
	}
	out := []model.MarketQuote{}
	for _, s := range symbols {
		for _, q := range f.quotes {
			if strings.EqualFold(q.Symbol, s) {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (f *FakeSource) UpdatePosition(_ context.Context, p model.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	f.Updated = append(f.Updated, p)
	return nil
}

func (f *FakeSource) DeletePosition(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *FakeSource) RecordSnapshot(_ context.Context, portfolioID string, point model.PerformancePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	f.Snapshots[portfolioID] = append(f.Snapshots[portfolioID], point)
	return nil
}
