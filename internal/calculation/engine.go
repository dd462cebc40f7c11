package calculation

import (
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// Logger is the logging surface the engine needs. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}

// Engine wraps Compute for callers that want logging and Run records.
type Engine struct {
	Logger Logger
	Debug  bool // log the derived quantities of every run
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger replaces the logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Compute evaluates a and logs degenerate outcomes.
func (e *Engine) Compute(a domain.Assumptions) domain.Results {
	r := Compute(a)
	e.logger().Debugf("computed model: turnover=%s gp=%s opex=%s operating_profit=%s",
		r.Turnover.StringFixed(2), r.GPTotal.StringFixed(2), r.Opex.StringFixed(2), r.OperatingProfit.StringFixed(2))
	if e.Debug {
		e.logger().Debugf("funnel: adults=%s runners=%s local_pairs=%s captured=%s",
			r.Adults.String(), r.Runners.String(), r.LocalPairs.String(), r.LocalPairsCaptured.String())
		for _, s := range r.Streams() {
			e.logger().Debugf("stream %s: %s", s.Name, s.Revenue.StringFixed(2))
		}
	}
	if !r.GPPct.Valid {
		e.logger().Infof("blended margin undefined: turnover is zero")
	} else if !r.BreakevenSales.Valid {
		e.logger().Infof("breakeven undefined: blended margin %s is not positive", r.GPPct.Decimal.StringFixed(4))
	}
	if r.IsLossMaking() {
		e.logger().Infof("operating loss of %s", r.OperatingProfit.Neg().StringFixed(2))
	}
	return r
}

// Run evaluates a and bundles it with the preset it was derived from.
func (e *Engine) Run(preset string, a domain.Assumptions) domain.Run {
	return domain.Run{
		Preset:      preset,
		Assumptions: a,
		Results:     e.Compute(a),
	}
}

// RunPreset evaluates a named preset without overrides.
func (e *Engine) RunPreset(name string) (domain.Run, error) {
	a, err := domain.Preset(name)
	if err != nil {
		e.logger().Warnf("preset lookup failed: %v", err)
		return domain.Run{}, err
	}
	canonical, _ := domain.CanonicalPresetName(name)
	return e.Run(canonical, a), nil
}

// OperatingProfitAt is the operating profit for a, used by solvers that
// only need the bottom line.
func (e *Engine) OperatingProfitAt(a domain.Assumptions) decimal.Decimal {
	return Compute(a).OperatingProfit
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}
