package breakeven

import (
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultDrivers are the fields SolveAll tries when none are named: the
// demand, price, margin and cost levers a shop owner can actually pull.
var DefaultDrivers = []string{
	"capture_local",
	"asp_shoes",
	"attach_apparel",
	"tourist_conv",
	"tourist_aov",
	"num_events",
	"event_sales",
	"service_units",
	"gm_shoes",
	"rent",
	"staff",
	"marketing",
}

// Request asks for the value of one field at which operating profit reaches
// Target, everything else held at Base.
type Request struct {
	Base   domain.Assumptions
	Field  string
	Target decimal.Decimal // operating profit to reach; zero is breakeven

	// Lower and Upper override the search interval. When unset the
	// field's valid range is used, capped at its UI ceiling.
	Lower *decimal.Decimal
	Upper *decimal.Decimal

	MaxIterations int             // zero uses the solver default
	Tolerance     decimal.Decimal // pounds; zero uses the solver default
}

// Result is the outcome of a single-field solve.
type Result struct {
	Request         Request             `json:"-"`
	Field           string              `json:"field"`
	Label           string              `json:"label"`
	Kind            domain.FieldKind    `json:"kind"`
	BaseValue       decimal.Decimal     `json:"base_value"`
	Value           decimal.Decimal     `json:"value"`
	Change          decimal.Decimal     `json:"change"`
	RelativeChange  decimal.NullDecimal `json:"relative_change"`
	Target          decimal.Decimal     `json:"target"`
	OperatingProfit decimal.Decimal     `json:"operating_profit"`
	Turnover        decimal.Decimal     `json:"turnover"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`
}

// SweepResult collects single-field solves across several drivers.
type SweepResult struct {
	Target          decimal.Decimal   `json:"target"`
	BaseProfit      decimal.Decimal   `json:"base_operating_profit"`
	Results         []Result          `json:"results"`
	Unreachable     map[string]string `json:"unreachable,omitempty"`
	SmallestChange  *Result           `json:"smallest_change,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// SolverOptions configures the bisection.
type SolverOptions struct {
	Tolerance     decimal.Decimal // convergence tolerance on operating profit, in pounds
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.5"),
		MaxIterations: 200,
	}
}

// SolverError represents errors from the breakeven solver
type SolverError struct {
	Operation string
	Field     string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	msg := e.Operation
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
