package calculation

import (
	"time"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// Compute derives the full set of results from a. It never fails: quantities
// that cannot be defined come back as invalid NullDecimals.
func Compute(a domain.Assumptions) domain.Results {
	var r domain.Results

	// Local demand funnel
	r.Adults = decimal.NewFromInt(int64(a.Population)).Mul(a.AdultShare)
	r.Runners = r.Adults.Mul(a.RunShare)
	r.LocalPairs = r.Runners.Mul(a.PairsPerRunner)
	r.LocalPairsCaptured = r.LocalPairs.Mul(a.CaptureLocal)

	// Revenue
	r.RevLocalShoes = r.LocalPairsCaptured.Mul(a.ASPShoes)
	r.RevLocalApparel = r.RevLocalShoes.Mul(a.AttachApparel)
	r.RevTouristCore = decimal.NewFromInt(int64(a.TouristFootfall)).Mul(a.TouristConv).Mul(a.TouristAOV)
	r.RevEvents = decimal.NewFromInt(int64(a.NumEvents)).Mul(a.EventSales)
	r.RevServices = decimal.NewFromInt(int64(a.ServiceUnits)).Mul(a.ServicePrice)
	r.Turnover = r.RevLocalShoes.Add(r.RevLocalApparel).Add(r.RevTouristCore).Add(r.RevEvents).Add(r.RevServices)

	// Gross profit; event weeks sell the tourist basket mix
	r.GPShoes = r.RevLocalShoes.Mul(a.GMShoes)
	r.GPApparel = r.RevLocalApparel.Mul(a.GMApparel)
	r.GPTour = r.RevTouristCore.Add(r.RevEvents).Mul(a.GMTour)
	r.GPServices = r.RevServices
	r.GPTotal = r.GPShoes.Add(r.GPApparel).Add(r.GPTour).Add(r.GPServices)

	r.Opex = a.Opex()
	r.OperatingProfit = r.GPTotal.Sub(r.Opex)

	if r.Turnover.GreaterThan(zero) {
		pct := r.GPTotal.Div(r.Turnover)
		r.GPPct = decimal.NullDecimal{Decimal: pct, Valid: true}
		if pct.GreaterThan(zero) {
			r.BreakevenSales = decimal.NullDecimal{Decimal: r.Opex.Div(pct), Valid: true}
		}
	}

	r.Monthly = MonthlyProfile(r.Turnover, a.SummerUplift, a.ShoulderUplift)
	return r
}

// MonthlyProfile spreads an annual turnover over the calendar year. Every
// month starts at weight 1; May and September are lifted by shoulderUplift,
// June to August by summerUplift, and the weights are normalised to shares.
func MonthlyProfile(turnover, summerUplift, shoulderUplift decimal.Decimal) domain.MonthlyProfile {
	var weights [12]decimal.Decimal
	for i := range weights {
		weights[i] = one
	}
	shoulder := one.Add(shoulderUplift)
	summer := one.Add(summerUplift)
	for _, m := range []time.Month{time.May, time.September} {
		weights[m-1] = weights[m-1].Mul(shoulder)
	}
	for _, m := range []time.Month{time.June, time.July, time.August} {
		weights[m-1] = weights[m-1].Mul(summer)
	}

	sum := zero
	for _, w := range weights {
		sum = sum.Add(w)
	}

	var profile domain.MonthlyProfile
	for i, w := range weights {
		profile[i] = domain.MonthlyTurnover{
			Month:    time.Month(i + 1),
			Share:    w.Div(sum),
			Turnover: turnover.Mul(w).Div(sum),
		}
	}
	return profile
}
