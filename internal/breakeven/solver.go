package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two      = decimal.NewFromInt(2)
	minWidth = decimal.New(1, -12)
)

// Solver finds the value of one assumption that brings operating profit to
// a target. Operating profit is monotonic in every single field.
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new breakeven solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if engine.Logger == nil {
		engine.SetLogger(nil)
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve bisects req.Field over its search interval.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	field, ok := domain.LookupField(req.Field)
	if !ok {
		return nil, &SolverError{Operation: "solve", Field: req.Field, Message: "unknown field"}
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}

	lo, hi := searchInterval(field, req)
	if !lo.LessThan(hi) {
		return nil, &SolverError{Operation: "solve", Field: field.Key,
			Message: fmt.Sprintf("empty search interval [%s, %s]", lo.String(), hi.String())}
	}

	gap := func(v decimal.Decimal) decimal.Decimal {
		return s.Engine.OperatingProfitAt(field.Set(req.Base, v)).Sub(req.Target)
	}

	fLo, fHi := gap(lo), gap(hi)
	if fLo.Sign() == fHi.Sign() && fLo.Abs().GreaterThan(req.Tolerance) && fHi.Abs().GreaterThan(req.Tolerance) {
		return nil, &SolverError{Operation: "solve", Field: field.Key,
			Message: fmt.Sprintf("target %s is not reachable between %s and %s (operating profit %s to %s)",
				req.Target.StringFixed(0), lo.String(), hi.String(),
				fLo.Add(req.Target).StringFixed(0), fHi.Add(req.Target).StringFixed(0))}
	}

	s.Engine.Logger.Debugf("solving %s over [%s, %s] for operating profit %s", field.Key, lo, hi, req.Target)

	value := lo
	iterations := 0
	converged := false
	info := ""
	switch {
	case fLo.Abs().LessThanOrEqual(req.Tolerance):
		value, converged, info = lo, true, "target met at lower bound"
	case fHi.Abs().LessThanOrEqual(req.Tolerance):
		value, converged, info = hi, true, "target met at upper bound"
	}

	for !converged && iterations < req.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, &SolverError{Operation: "solve", Field: field.Key, Message: "cancelled", Cause: ctx.Err()}
		default:
		}
		iterations++

		mid := lo.Add(hi).Div(two)
		fMid := gap(mid)
		value = mid

		if fMid.Abs().LessThanOrEqual(req.Tolerance) {
			converged = true
			info = fmt.Sprintf("converged within £%s", req.Tolerance.String())
			break
		}
		if fMid.Sign() == fLo.Sign() {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
		if hi.Sub(lo).LessThan(minWidth) {
			converged = true
			info = "search interval exhausted"
		}
	}
	if !converged {
		info = fmt.Sprintf("max iterations (%d) reached", req.MaxIterations)
	}

	if field.Kind == domain.KindCount {
		value = wholeUnitReaching(value, gap)
	}

	result := s.evaluate(field, req, value)
	result.Success = converged
	result.Iterations = iterations
	result.ConvergenceInfo = info
	return result, nil
}

// SolveAll runs Solve for each driver and ranks the reachable ones by the
// size of the relative change needed.
func (s *Solver) SolveAll(ctx context.Context, base domain.Assumptions, target decimal.Decimal, drivers []string) (*SweepResult, error) {
	if len(drivers) == 0 {
		drivers = DefaultDrivers
	}

	sweep := &SweepResult{
		Target:      target,
		BaseProfit:  s.Engine.OperatingProfitAt(base),
		Unreachable: map[string]string{},
	}

	for _, key := range drivers {
		if err := ctx.Err(); err != nil {
			return nil, &SolverError{Operation: "solve_all", Message: "cancelled", Cause: err}
		}
		res, err := s.Solve(ctx, Request{Base: base, Field: key, Target: target})
		if err != nil {
			s.Engine.Logger.Debugf("driver %s: %v", key, err)
			sweep.Unreachable[key] = err.Error()
			continue
		}
		sweep.Results = append(sweep.Results, *res)
	}

	if len(sweep.Results) == 0 {
		return sweep, &SolverError{Operation: "solve_all", Message: "no driver can reach the target"}
	}

	for i := range sweep.Results {
		r := &sweep.Results[i]
		if !r.RelativeChange.Valid {
			continue
		}
		if sweep.SmallestChange == nil || r.RelativeChange.Decimal.Abs().LessThan(sweep.SmallestChange.RelativeChange.Decimal.Abs()) {
			sweep.SmallestChange = r
		}
	}
	sweep.Recommendations = recommendations(sweep)
	return sweep, nil
}

func (s *Solver) evaluate(field domain.Field, req Request, value decimal.Decimal) *Result {
	a := field.Set(req.Base, value)
	results := s.Engine.Compute(a)
	base := field.Get(req.Base)
	change := field.Get(a).Sub(base)

	result := &Result{
		Request:         req,
		Field:           field.Key,
		Label:           field.Label,
		Kind:            field.Kind,
		BaseValue:       base,
		Value:           field.Get(a),
		Change:          change,
		Target:          req.Target,
		OperatingProfit: results.OperatingProfit,
		Turnover:        results.Turnover,
	}
	if !base.IsZero() {
		result.RelativeChange = decimal.NullDecimal{Decimal: change.Div(base), Valid: true}
	}
	return result
}

func searchInterval(field domain.Field, req Request) (decimal.Decimal, decimal.Decimal) {
	lo := field.Min
	hi := field.Upper()
	if field.Open {
		lo = lo.Add(field.Step)
		if field.Max.Valid {
			hi = hi.Sub(field.Step)
		}
	}
	// Unbounded fields whose current value is above the UI ceiling search
	// up to twice that value instead.
	if !field.Max.Valid {
		if cur := field.Get(req.Base); cur.GreaterThan(hi) {
			hi = cur.Mul(two)
		}
	}
	if req.Lower != nil {
		lo = *req.Lower
	}
	if req.Upper != nil {
		hi = *req.Upper
	}
	return lo, hi
}

// wholeUnitReaching rounds a count to the neighbouring whole number whose
// operating profit meets the target, preferring the one nearer the solution.
func wholeUnitReaching(v decimal.Decimal, gap func(decimal.Decimal) decimal.Decimal) decimal.Decimal {
	floor, ceil := v.Floor(), v.Ceil()
	nearest, other := floor, ceil
	if v.Sub(floor).GreaterThanOrEqual(ceil.Sub(v)) {
		nearest, other = ceil, floor
	}
	if !gap(nearest).IsNegative() {
		return nearest
	}
	if !gap(other).IsNegative() {
		return other
	}
	return nearest
}

func recommendations(sweep *SweepResult) []string {
	var recs []string
	if sweep.SmallestChange != nil {
		r := sweep.SmallestChange
		recs = append(recs, fmt.Sprintf("Smallest single lever: %s from %s to %s (%s)",
			r.Label, r.BaseValue.String(), r.Value.Round(4).String(), signedPercent(r.RelativeChange.Decimal)))
	}
	if sweep.BaseProfit.GreaterThanOrEqual(sweep.Target) {
		recs = append(recs, "The current assumptions already meet the target; values shown are the limits before it is missed")
	}
	if len(sweep.Unreachable) > 0 {
		recs = append(recs, fmt.Sprintf("%d driver(s) cannot reach the target alone within their valid range", len(sweep.Unreachable)))
	}
	return recs
}

func signedPercent(d decimal.Decimal) string {
	pct := d.Mul(decimal.NewFromInt(100)).StringFixed(1)
	if d.IsPositive() {
		return "+" + pct + "%"
	}
	return pct + "%"
}
