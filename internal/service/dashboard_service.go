package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/portfolio"
)

// View is everything the dashboard renders, recomputed from the current
// positions.
type View struct {
	Summary          model.Summary            `json:"summary"`
	AssetAllocation  []model.AllocationBucket `json:"assetAllocation"`
	SectorAllocation []model.AllocationBucket `json:"sectorAllocation"`
	Portfolios       []model.Portfolio        `json:"portfolios"`
	Positions        []model.Position         `json:"positions"`
	Performance      []model.PerformancePoint `json:"performance"`
	Degraded         bool                     `json:"degraded"`
	LastLoad         time.Time                `json:"lastLoad"`
	Generation       uint64                   `json:"generation"`
}

// LoadResult describes how a load from the data source ended.
type LoadResult struct {
	Degraded   bool      `json:"degraded"`
	Stale      bool      `json:"stale"`
	Portfolios int       `json:"portfolios"`
	Positions  int       `json:"positions"`
	LoadedAt   time.Time `json:"loadedAt"`
	Error      string    `json:"error,omitempty"`
}

// State is the load status of the dashboard.
type State struct {
	Degraded   bool      `json:"degraded"`
	LastLoad   time.Time `json:"lastLoad"`
	Generation uint64    `json:"generation"`
}

// DashboardService owns the process-wide dashboard state. It loads from a
// data source, falls back to a canned dataset when the source fails, and
// applies every mutation through the reconciler before it reaches the store.
//
// Mutations are serialized by writeMu and each accepted one bumps the
// generation. A load remembers the generation it was issued at and is
// discarded if a mutation was accepted in the meantime.
type DashboardService struct {
	source   datasource.Source
	fallback func() datasource.Dataset
	store    *portfolio.Store
	confirm  *Confirmer
	metrics  *metrics.Registry
	log      zerolog.Logger
	now      func() time.Time

	writeMu sync.Mutex

	mu          sync.RWMutex
	generation  uint64
	portfolios  []model.Portfolio
	performance []model.PerformancePoint
	degraded    bool
	lastLoad    time.Time
	subscribers map[int]func(View)
	nextSub     int
}

// NewDashboardService creates a dashboard over source. fallback supplies the
// dataset shown when a load fails; m may be nil.
func NewDashboardService(
	source datasource.Source,
	fallback func() datasource.Dataset,
	confirm *Confirmer,
	m *metrics.Registry,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		source:      source,
		fallback:    fallback,
		store:       portfolio.NewStore(nil),
		confirm:     confirm,
		metrics:     m,
		log:         log.With().Str("service", "dashboard").Logger(),
		now:         time.Now,
		portfolios:  []model.Portfolio{},
		performance: []model.PerformancePoint{},
		subscribers: make(map[int]func(View)),
	}
}

// Load fetches portfolios, positions and the performance history of the
// first portfolio. Any source failure switches to the fallback dataset and
// marks the dashboard degraded; a later successful load clears the flag.
//
// Returns apperrors.ErrStaleLoad, leaving the state untouched, when a
// mutation was accepted while the load was in flight.
func (s *DashboardService) Load(ctx context.Context) (LoadResult, error) {
	s.mu.RLock()
	issued := s.generation
	s.mu.RUnlock()

	ds, fetchErr := s.fetch(ctx)
	result := LoadResult{}
	if fetchErr != nil {
		s.log.Warn().Err(fetchErr).Msg("data source unavailable, showing fallback dataset")
		ds = s.fallback()
		result.Degraded = true
		result.Error = fetchErr.Error()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if current := s.generation; current != issued {
		s.mu.Unlock()
		s.metrics.RecordLoad(metrics.LoadStale, false)
		s.log.Info().
			Uint64("issued", issued).
			Uint64("current", current).
			Msg("discarding stale load")
		return LoadResult{Stale: true}, apperrors.ErrStaleLoad
	}

	for i := range ds.Positions {
		ds.Positions[i].Recompute()
	}
	s.store.Reset(ds.Positions)
	s.portfolios = orEmpty(ds.Portfolios)
	s.performance = orEmpty(ds.Performance)
	s.degraded = result.Degraded
	s.lastLoad = s.now().UTC()
	view, subs := s.commitLocked()
	s.mu.Unlock()

	outcome := metrics.LoadOK
	if result.Degraded {
		outcome = metrics.LoadFallback
	}
	s.metrics.RecordLoad(outcome, result.Degraded)
	s.notify(subs, view)

	result.Portfolios = len(view.Portfolios)
	result.Positions = len(view.Positions)
	result.LoadedAt = view.LastLoad
	s.log.Info().
		Bool("degraded", result.Degraded).
		Int("portfolios", result.Portfolios).
		Int("positions", result.Positions).
		Msg("dashboard loaded")
	return result, nil
}

func (s *DashboardService) fetch(ctx context.Context) (datasource.Dataset, error) {
	var ds datasource.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.source.ListPortfolios(gctx)
		if err != nil {
			return fmt.Errorf("failed to load portfolios: %w", err)
		}
		ds.Portfolios = out
		return nil
	})
	g.Go(func() error {
		out, err := s.source.ListPositions(gctx, "")
		if err != nil {
			return fmt.Errorf("failed to load positions: %w", err)
		}
		ds.Positions = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return datasource.Dataset{}, err
	}

	if len(ds.Portfolios) > 0 {
		perf, err := s.source.GetPerformanceHistory(ctx, ds.Portfolios[0].ID, model.PeriodAll)
		if err != nil {
			return datasource.Dataset{}, fmt.Errorf("failed to load performance history: %w", err)
		}
		ds.Performance = perf
	}
	return ds, nil
}

// commitLocked recomputes the portfolio aggregates and returns the new view
// and the subscribers to notify. s.mu must be held for writing.
func (s *DashboardService) commitLocked() (View, []func(View)) {
	positions := s.store.List()
	s.portfolios = portfolio.RecomputePortfolios(s.portfolios, positions)
	view := s.viewLocked(positions)
	s.metrics.SetHoldings(view.Summary.TotalValue, len(positions))

	subs := make([]func(View), 0, len(s.subscribers))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	return view, subs
}

// mutatedLocked bumps the generation after an accepted mutation.
func (s *DashboardService) mutatedLocked() (View, []func(View)) {
	s.generation++
	return s.commitLocked()
}

func (s *DashboardService) viewLocked(positions []model.Position) View {
	portfolios := append([]model.Portfolio{}, s.portfolios...)
	summary := portfolio.Summarize(portfolios)
	summary.ActivePositions = len(positions)
	return View{
		Summary:          summary,
		AssetAllocation:  portfolio.Aggregate(positions, model.GroupByAssetClass),
		SectorAllocation: portfolio.Aggregate(portfolio.FilterByClass(positions, model.AssetClassEquity), model.GroupBySector),
		Portfolios:       portfolios,
		Positions:        positions,
		Performance:      append([]model.PerformancePoint{}, s.performance...),
		Degraded:         s.degraded,
		LastLoad:         s.lastLoad,
		Generation:       s.generation,
	}
}

func (s *DashboardService) notify(subs []func(View), view View) {
	for _, fn := range subs {
		fn(view)
	}
}

// Subscribe registers fn to be called synchronously with the new view after
// every accepted mutation or load. The returned function unregisters it.
func (s *DashboardService) Subscribe(fn func(View)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// View returns the current dashboard.
func (s *DashboardService) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked(s.store.List())
}

// State returns the load status.
func (s *DashboardService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Degraded: s.degraded, LastLoad: s.lastLoad, Generation: s.generation}
}

// Summary returns the metric cards.
func (s *DashboardService) Summary() model.Summary {
	return s.View().Summary
}

// Allocation buckets the current positions by groupBy. A non-empty
// assetClass restricts the input to that class first.
func (s *DashboardService) Allocation(groupBy model.GroupBy, assetClass string) ([]model.AllocationBucket, error) {
	positions := s.store.List()
	if assetClass != "" {
		class, err := model.ParseAssetClass(assetClass)
		if err != nil {
			return nil, err
		}
		positions = portfolio.FilterByClass(positions, class)
	}
	return portfolio.Aggregate(positions, groupBy), nil
}

// Portfolios returns the portfolios with aggregates recomputed from the
// current positions.
func (s *DashboardService) Portfolios() []model.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Portfolio{}, s.portfolios...)
}

// Portfolio returns one portfolio.
// Returns ErrPortfolioNotFound if the dashboard does not hold it.
func (s *DashboardService) Portfolio(id string) (model.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolioLocked(id)
}

func (s *DashboardService) portfolioLocked(id string) (model.Portfolio, error) {
	for _, p := range s.portfolios {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Portfolio{}, fmt.Errorf("%w: %s", apperrors.ErrPortfolioNotFound, id)
}

// Positions returns the positions of portfolioID, or all positions when it
// is empty.
func (s *DashboardService) Positions(portfolioID string) ([]model.Position, error) {
	if portfolioID != "" {
		if _, err := s.Portfolio(portfolioID); err != nil {
			return nil, err
		}
	}
	return portfolio.FilterByPortfolio(s.store.List(), portfolioID), nil
}

// Position returns one position.
// Returns ErrPositionNotFound if the dashboard does not hold it.
func (s *DashboardService) Position(id string) (model.Position, error) {
	return s.store.Get(id)
}

// HeldSymbols returns the distinct symbols of the current positions in
// first-seen order.
func (s *DashboardService) HeldSymbols() []string {
	seen := make(map[string]bool)
	symbols := []string{}
	for _, p := range s.store.List() {
		if seen[p.Symbol] {
			continue
		}
		seen[p.Symbol] = true
		symbols = append(symbols, p.Symbol)
	}
	return symbols
}

// Performance returns the history of portfolioID over period. While degraded
// it is served from the fallback history, which only covers the first
// portfolio.
func (s *DashboardService) Performance(ctx context.Context, portfolioID string, period model.Period) ([]model.PerformancePoint, error) {
	s.mu.RLock()
	if _, err := s.portfolioLocked(portfolioID); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	degraded := s.degraded
	first := s.portfolios[0].ID
	cached := append([]model.PerformancePoint{}, s.performance...)
	s.mu.RUnlock()

	if !degraded {
		return s.source.GetPerformanceHistory(ctx, portfolioID, period)
	}
	if portfolioID != first || len(cached) == 0 {
		return []model.PerformancePoint{}, nil
	}
	end, err := time.Parse("2006-01-02", cached[len(cached)-1].Date)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback performance date: %w", err)
	}
	return period.Filter(cached, end), nil
}

// writeThrough reports whether mutations should be sent to the source. While
// degraded they are applied in memory only.
func (s *DashboardService) writeThrough() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.degraded
}

// CreatePortfolio adds an empty portfolio.
func (s *DashboardService) CreatePortfolio(ctx context.Context, draft model.PortfolioDraft) (p model.Portfolio, err error) {
	defer func() { s.metrics.RecordMutation("create_portfolio", err) }()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	draft.Name = strings.TrimSpace(draft.Name)
	if s.writeThrough() {
		p, err = s.source.CreatePortfolio(ctx, draft)
		if err != nil {
			return model.Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
		}
	} else {
		now := s.now().UTC().Truncate(time.Second)
		p = model.Portfolio{ID: uuid.New().String(), Name: draft.Name, CreatedAt: now, UpdatedAt: now}
	}

	s.mu.Lock()
	s.portfolios = append(s.portfolios, p)
	view, subs := s.mutatedLocked()
	s.mu.Unlock()
	s.notify(subs, view)

	created, _ := s.Portfolio(p.ID)
	s.log.Info().Str("portfolio_id", p.ID).Str("name", p.Name).Msg("portfolio created")
	return created, nil
}

// CreatePosition validates draft and adds the new position. An empty
// portfolio id selects the first portfolio.
func (s *DashboardService) CreatePosition(ctx context.Context, draft model.PositionDraft) (p model.Position, err error) {
	defer func() { s.metrics.RecordMutation("create", err) }()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	if draft.PortfolioID == "" && len(s.portfolios) > 0 {
		draft.PortfolioID = s.portfolios[0].ID
	}
	_, lookupErr := s.portfolioLocked(draft.PortfolioID)
	s.mu.RUnlock()

	p, err = portfolio.ApplyCreate(draft)
	if err != nil {
		return model.Position{}, err
	}
	if lookupErr != nil {
		return model.Position{}, lookupErr
	}

	if s.writeThrough() {
		stored, err := s.source.CreatePosition(ctx, p)
		if err != nil {
			return model.Position{}, fmt.Errorf("failed to create position: %w", err)
		}
		if stored.ID != "" {
			stored.Recompute()
			p = stored
		}
	}

	if err = s.store.Insert(p); err != nil {
		return model.Position{}, err
	}

	s.mu.Lock()
	view, subs := s.mutatedLocked()
	s.mu.Unlock()
	s.notify(subs, view)

	s.log.Info().Str("position_id", p.ID).Str("symbol", p.Symbol).Msg("position created")
	return p, nil
}

// EditPosition applies a quantity, average cost or sector change.
func (s *DashboardService) EditPosition(ctx context.Context, id string, edit model.PositionEdit) (p model.Position, err error) {
	defer func() { s.metrics.RecordMutation("edit", err) }()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.Get(id)
	if err != nil {
		return model.Position{}, err
	}
	updated, err := portfolio.ApplyEdit(existing, edit)
	if err != nil {
		return model.Position{}, err
	}

	if err = s.persist(ctx, updated); err != nil {
		return model.Position{}, err
	}
	if p, err = s.store.Replace(id, updated.Patch()); err != nil {
		return model.Position{}, err
	}

	s.mu.Lock()
	view, subs := s.mutatedLocked()
	s.mu.Unlock()
	s.notify(subs, view)

	s.log.Info().Str("position_id", id).Msg("position updated")
	return p, nil
}

// ApplyQuotes sets the current price of every position whose symbol has a
// quote and returns how many positions changed. Quotes with a non-positive
// price are skipped.
func (s *DashboardService) ApplyQuotes(ctx context.Context, quotes []model.MarketQuote) (n int, err error) {
	defer func() { s.metrics.RecordMutation("price", err) }()

	prices := make(map[string]model.MarketQuote, len(quotes))
	for _, q := range quotes {
		prices[strings.ToUpper(q.Symbol)] = q
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var updates []model.Position
	for _, existing := range s.store.List() {
		q, ok := prices[existing.Symbol]
		if !ok || existing.CurrentPrice.Equal(q.Price) {
			continue
		}
		updated, err := portfolio.ApplyPrice(existing, q.Price)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", q.Symbol).Msg("skipping quote")
			continue
		}
		updates = append(updates, updated)
	}

	// the store only changes once every write-through succeeded
	for _, updated := range updates {
		if err := s.persist(ctx, updated); err != nil {
			return 0, err
		}
	}

	defer func() {
		if n > 0 {
			s.mu.Lock()
			view, subs := s.mutatedLocked()
			s.mu.Unlock()
			s.notify(subs, view)
		}
	}()
	for _, updated := range updates {
		if _, err := s.store.Replace(updated.ID, updated.Patch()); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// RequestDelete returns the token that confirms the deletion of id.
func (s *DashboardService) RequestDelete(id string) (string, error) {
	if _, err := s.store.Get(id); err != nil {
		return "", err
	}
	return s.confirm.Issue(id)
}

// DeletePosition removes a position once token confirms it.
func (s *DashboardService) DeletePosition(ctx context.Context, id, token string) (err error) {
	defer func() { s.metrics.RecordMutation("delete", err) }()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err = s.store.Get(id); err != nil {
		return err
	}
	if err = s.confirm.Verify(id, token); err != nil {
		return err
	}

	if w, ok := s.source.(datasource.PositionWriter); ok && s.writeThrough() {
		if err = w.DeletePosition(ctx, id); err != nil && !errors.Is(err, apperrors.ErrPositionNotFound) {
			return fmt.Errorf("failed to delete position: %w", err)
		}
	}
	if err = s.store.Remove(id); err != nil {
		return err
	}

	s.mu.Lock()
	view, subs := s.mutatedLocked()
	s.mu.Unlock()
	s.notify(subs, view)

	s.log.Info().Str("position_id", id).Msg("position deleted")
	return nil
}

func (s *DashboardService) persist(ctx context.Context, p model.Position) error {
	w, ok := s.source.(datasource.PositionWriter)
	if !ok || !s.writeThrough() {
		return nil
	}
	if err := w.UpdatePosition(ctx, p); err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return nil
}

// RecordSnapshots stores today's value and profit/loss of every portfolio
// when the source keeps performance history. It returns the number of
// snapshots written.
func (s *DashboardService) RecordSnapshots(ctx context.Context) (int, error) {
	w, ok := s.source.(datasource.SnapshotWriter)
	if !ok {
		s.log.Debug().Msg("data source does not record snapshots")
		return 0, nil
	}
	if !s.writeThrough() {
		s.log.Debug().Msg("skipping snapshots while degraded")
		return 0, nil
	}

	date := s.now().UTC().Format("2006-01-02")
	n := 0
	for _, p := range s.Portfolios() {
		point := model.PerformancePoint{Date: date, Value: p.TotalValue, ProfitLoss: p.ProfitLoss}
		if err := w.RecordSnapshot(ctx, p.ID, point); err != nil {
			return n, fmt.Errorf("failed to record snapshot for portfolio %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
