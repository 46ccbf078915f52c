// Package portfolio holds the dashboard's domain core: the aggregation
// engine, the mutation reconciler and the in-memory position store.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// groupKey returns the bucket key of p for the given grouping.
func groupKey(p model.Position, groupBy model.GroupBy) string {
	if groupBy == model.GroupBySector {
		if sector := p.Sector(); sector != "" {
			return sector
		}
	}
	return string(p.Class())
}

// Aggregate groups positions into allocation buckets.
//
// Buckets appear in the order their key is first encountered in positions.
// Percentages are relative to the summed market value of all positions and
// are zero when that total is zero. An empty input yields an empty, non-nil
// slice.
func Aggregate(positions []model.Position, groupBy model.GroupBy) []model.AllocationBucket {
	buckets := []model.AllocationBucket{}
	index := make(map[string]int)
	total := decimal.Zero

	for _, p := range positions {
		key := groupKey(p, groupBy)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, model.AllocationBucket{Key: key, Value: decimal.Zero})
		}
		buckets[i].Value = buckets[i].Value.Add(p.MarketValue)
		buckets[i].Count++
		total = total.Add(p.MarketValue)
	}

	for i := range buckets {
		buckets[i].Percentage = model.Percentage(buckets[i].Value, total)
	}
	return buckets
}

// Summarize sums the portfolio aggregates into the dashboard metric cards.
// ActivePositions is left at zero; portfolios do not carry a position count.
func Summarize(portfolios []model.Portfolio) model.Summary {
	s := model.Summary{
		TotalValue:      decimal.Zero,
		TotalInvested:   decimal.Zero,
		TotalProfitLoss: decimal.Zero,
	}
	for _, p := range portfolios {
		s.TotalValue = s.TotalValue.Add(p.TotalValue)
		s.TotalInvested = s.TotalInvested.Add(p.InvestedAmount)
		s.TotalProfitLoss = s.TotalProfitLoss.Add(p.ProfitLoss)
	}
	s.TotalProfitLossPercentage = model.Percentage(s.TotalProfitLoss, s.TotalInvested)
	return s
}

// SummarizePositions builds the metric cards directly from positions,
// including the active position count.
func SummarizePositions(positions []model.Position) model.Summary {
	s := model.Summary{
		TotalValue:      decimal.Zero,
		TotalInvested:   decimal.Zero,
		TotalProfitLoss: decimal.Zero,
		ActivePositions: len(positions),
	}
	for _, p := range positions {
		s.TotalValue = s.TotalValue.Add(p.MarketValue)
		s.TotalInvested = s.TotalInvested.Add(p.CostBasis())
		s.TotalProfitLoss = s.TotalProfitLoss.Add(p.ProfitLoss)
	}
	s.TotalProfitLossPercentage = model.Percentage(s.TotalProfitLoss, s.TotalInvested)
	return s
}

// RecomputePortfolios returns a copy of portfolios with every aggregate
// rebuilt from the positions the portfolio owns. Values the portfolios
// arrived with are discarded. Positions of unknown portfolios are ignored.
func RecomputePortfolios(portfolios []model.Portfolio, positions []model.Position) []model.Portfolio {
	out := make([]model.Portfolio, len(portfolios))
	index := make(map[string]int, len(portfolios))
	for i, p := range portfolios {
		p.TotalValue = decimal.Zero
		p.InvestedAmount = decimal.Zero
		p.ProfitLoss = decimal.Zero
		out[i] = p
		index[p.ID] = i
	}

	for _, pos := range positions {
		i, ok := index[pos.PortfolioID]
		if !ok {
			continue
		}
		out[i].TotalValue = out[i].TotalValue.Add(pos.MarketValue)
		out[i].InvestedAmount = out[i].InvestedAmount.Add(pos.CostBasis())
		out[i].ProfitLoss = out[i].ProfitLoss.Add(pos.ProfitLoss)
	}

	for i := range out {
		out[i].ProfitLossPercentage = model.Percentage(out[i].ProfitLoss, out[i].InvestedAmount)
	}
	return out
}

// FilterByClass returns the positions of the given class, keeping order.
func FilterByClass(positions []model.Position, class model.AssetClass) []model.Position {
	out := []model.Position{}
	for _, p := range positions {
		if p.Class() == class {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPortfolio returns the positions owned by portfolioID, keeping order.
// An empty id returns all positions.
func FilterByPortfolio(positions []model.Position, portfolioID string) []model.Position {
	if portfolioID == "" {
		return append([]model.Position{}, positions...)
	}
	out := []model.Position{}
	for _, p := range positions {
		if p.PortfolioID == portfolioID {
			out = append(out, p)
		}
	}
	return out
}
