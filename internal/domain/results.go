package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Results holds every quantity derived from one set of assumptions.
// GPPct and BreakevenSales are invalid (Valid == false) when they cannot be
// defined: zero turnover, or a non-positive blended margin.
type Results struct {
	// Demand funnel
	Adults             decimal.Decimal `json:"adults"`
	Runners            decimal.Decimal `json:"runners"`
	LocalPairs         decimal.Decimal `json:"local_pairs"`
	LocalPairsCaptured decimal.Decimal `json:"local_pairs_captured"`

	// Revenue streams
	RevLocalShoes   decimal.Decimal `json:"rev_local_shoes"`
	RevLocalApparel decimal.Decimal `json:"rev_local_apparel"`
	RevTouristCore  decimal.Decimal `json:"rev_tourist_core"`
	RevEvents       decimal.Decimal `json:"rev_events"`
	RevServices     decimal.Decimal `json:"rev_services"`
	Turnover        decimal.Decimal `json:"turnover"`

	// Gross profit. GPServices is 100% of service revenue: service labour is
	// carried in the staff cost line.
	GPShoes    decimal.Decimal `json:"gp_shoes"`
	GPApparel  decimal.Decimal `json:"gp_apparel"`
	GPTour     decimal.Decimal `json:"gp_tour"`
	GPServices decimal.Decimal `json:"gp_services"`
	GPTotal    decimal.Decimal `json:"gp_total"`

	Opex            decimal.Decimal `json:"opex"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`

	GPPct          decimal.NullDecimal `json:"gp_pct"`
	BreakevenSales decimal.NullDecimal `json:"breakeven_sales"`

	Monthly MonthlyProfile `json:"monthly"`
}

// RevenueStream is one named revenue line.
type RevenueStream struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Revenue stream names, in display order.
const (
	StreamLocalShoes   = "Local shoes"
	StreamLocalApparel = "Local apparel/acc."
	StreamTouristCore  = "Tourist core"
	StreamEventBursts  = "Event bursts"
	StreamServices     = "Services"
)

// Streams returns the five revenue streams in display order.
func (r Results) Streams() []RevenueStream {
	return []RevenueStream{
		{Name: StreamLocalShoes, Revenue: r.RevLocalShoes},
		{Name: StreamLocalApparel, Revenue: r.RevLocalApparel},
		{Name: StreamTouristCore, Revenue: r.RevTouristCore},
		{Name: StreamEventBursts, Revenue: r.RevEvents},
		{Name: StreamServices, Revenue: r.RevServices},
	}
}

// IsLossMaking reports whether gross profit fails to cover opex.
func (r Results) IsLossMaking() bool {
	return r.OperatingProfit.IsNegative()
}

// MonthlyTurnover is one month of the seasonal allocation.
type MonthlyTurnover struct {
	Month    time.Month      `json:"month"`
	Share    decimal.Decimal `json:"share"`
	Turnover decimal.Decimal `json:"turnover"`
}

// Label returns the three letter month abbreviation.
func (m MonthlyTurnover) Label() string {
	return m.Month.String()[:3]
}

// MonthlyProfile is the twelve-month allocation of annual turnover, January first.
type MonthlyProfile [12]MonthlyTurnover

// Turnovers returns the monthly turnover values in calendar order.
func (p MonthlyProfile) Turnovers() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p))
	for i, m := range p {
		out[i] = m.Turnover
	}
	return out
}

// Labels returns the month abbreviations in calendar order.
func (p MonthlyProfile) Labels() []string {
	out := make([]string, len(p))
	for i, m := range p {
		out[i] = m.Label()
	}
	return out
}

// Run is a complete model evaluation: the preset the assumptions started
// from, the assumptions actually used and the derived results. Presentation
// code reads a Run and never recomputes it.
type Run struct {
	Preset      string      `json:"preset"`
	Assumptions Assumptions `json:"assumptions"`
	Results     Results     `json:"results"`
}
