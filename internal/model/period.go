package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// Period is a trailing window over the performance history.
type Period string

const (
	PeriodWeek       Period = "1W"
	PeriodMonth      Period = "1M"
	PeriodQuarter    Period = "3M"
	PeriodHalfYear   Period = "6M"
	PeriodYear       Period = "1Y"
	PeriodYearToDate Period = "YTD"
	PeriodAll        Period = "ALL"
)

// ParsePeriod normalizes s. An empty string selects PeriodAll.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodAll, nil
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodHalfYear, PeriodYear, PeriodYearToDate, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownPeriod, s)
}

// Start returns the first date included in the period ending at now.
// PeriodAll returns the zero time.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodWeek:
		return today.AddDate(0, 0, -7)
	case PeriodMonth:
		return today.AddDate(0, -1, 0)
	case PeriodQuarter:
		return today.AddDate(0, -3, 0)
	case PeriodHalfYear:
		return today.AddDate(0, -6, 0)
	case PeriodYear:
		return today.AddDate(-1, 0, 0)
	case PeriodYearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// Filter returns the points dated on or after the period start, where the
// period ends at end. Points are expected in ascending date order; points
// with an unparsable date are dropped.
func (p Period) Filter(points []PerformancePoint, end time.Time) []PerformancePoint {
	start := p.Start(end)
	out := []PerformancePoint{}
	for _, pt := range points {
		d, err := time.Parse("2006-01-02", pt.Date)
		if err != nil {
			continue
		}
		if !start.IsZero() && d.Before(start) {
			continue
		}
		out = append(out, pt)
	}
	return out
}
