// Package period maps symbolic chart periods to concrete date ranges.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/jonboulle/clockwork"
)

var ErrInvalidPeriod = errors.New("invalid period")

type Period string

const (
	OneDay     Period = "1D"
	FiveDays   Period = "5D"
	OneMonth   Period = "1M"
	SixMonths  Period = "6M"
	YearToDate Period = "YTD"
	OneYear    Period = "1Y"
	ThreeYears Period = "3Y"
	FiveYears  Period = "5Y"
	TenYears   Period = "10Y"
	Max        Period = "MAX"
)

// maxYears bounds MAX; it is not a true all-history range.
const maxYears = 20

func Parse(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case OneDay, FiveDays, OneMonth, SixMonths, YearToDate, OneYear, ThreeYears, FiveYears, TenYears, Max:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Range returns the UTC calendar range ending on the day of now.
func Range(p Period, now time.Time) (model.DateRange, error) {
	end := model.ToDate(now)

	var start time.Time
	switch p {
	case OneDay:
		start = end.AddDate(0, 0, -1)
	case FiveDays:
		start = end.AddDate(0, 0, -5)
	case OneMonth:
		start = end.AddDate(0, -1, 0)
	case SixMonths:
		start = end.AddDate(0, -6, 0)
	case YearToDate:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case OneYear:
		start = end.AddDate(-1, 0, 0)
	case ThreeYears:
		start = end.AddDate(-3, 0, 0)
	case FiveYears:
		start = end.AddDate(-5, 0, 0)
	case TenYears:
		start = end.AddDate(-10, 0, 0)
	case Max:
		start = end.AddDate(-maxYears, 0, 0)
	default:
		return model.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}

	return model.DateRange{Start: start, End: end}, nil
}

type Resolver struct {
	clock clockwork.Clock
}

func NewResolver(clock clockwork.Clock) *Resolver {
	return &Resolver{clock: clock}
}

func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// Resolve parses the token and resolves it against the resolver's clock.
func (r *Resolver) Resolve(token string) (Period, model.DateRange, error) {
	p, err := Parse(token)
	if err != nil {
		return "", model.DateRange{}, err
	}
	rng, err := Range(p, r.clock.Now())
	if err != nil {
		return "", model.DateRange{}, err
	}
	return p, rng, nil
}
