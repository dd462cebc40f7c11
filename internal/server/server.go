package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxBodySize caps request bodies.
const DefaultMaxBodySize int64 = 1 << 20

// Options tune the handler. Zero values pick defaults.
type Options struct {
	Version     string
	MaxBodySize int64
	Metrics     *Metrics
	Solver      *breakeven.Solver
}

type handler struct {
	logger      *zap.Logger
	engine      *calculation.Engine
	parser      *config.InputParser
	solver      *breakeven.Solver
	metrics     *Metrics
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler serving the model API.
func NewHandler(logger *zap.Logger, engine *calculation.Engine, parser *config.InputParser, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if parser == nil {
		parser = config.NewInputParser()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Solver == nil {
		opts.Solver = breakeven.NewDefaultSolver(engine)
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      engine,
		parser:      parser,
		solver:      opts.Solver,
		metrics:     opts.Metrics,
		maxBodySize: opts.MaxBodySize,
		version:     version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/presets", h.handlePresets)
	mux.HandleFunc("GET /api/presets/{name}", h.handlePreset)
	mux.HandleFunc("GET /api/fields", h.handleFields)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("POST /api/model", h.handleModel)
	mux.HandleFunc("POST /api/export", h.handleExport)
	mux.HandleFunc("POST /api/breakeven", h.handleBreakeven)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))

	return h.instrument(mux)
}

type presetResponse struct {
	Name        string             `json:"name"`
	Assumptions domain.Assumptions `json:"assumptions"`
}

type fieldResponse struct {
	Key       string           `json:"key"`
	ExportKey string           `json:"export_key"`
	Label     string           `json:"label"`
	Group     string           `json:"group"`
	Kind      domain.FieldKind `json:"kind"`
	Min       decimal.Decimal  `json:"min"`
	Max       *decimal.Decimal `json:"max,omitempty"`
	Exclusive bool             `json:"exclusive,omitempty"`
	Step      decimal.Decimal  `json:"step"`
	UIMax     decimal.Decimal  `json:"ui_max"`
	Range     string           `json:"range"`
	Default   decimal.Decimal  `json:"default"`
}

type modelResponse struct {
	output.Document
	Validation *config.Report `json:"validation"`
}

type breakevenRequest struct {
	Assumptions json.RawMessage  `json:"assumptions,omitempty"`
	Field       string           `json:"field,omitempty"`
	Target      *decimal.Decimal `json:"target,omitempty"`
	Drivers     []string         `json:"drivers,omitempty"`
}

type errorResponse struct {
	Error      string         `json:"error"`
	Validation *config.Report `json:"validation,omitempty"`
}

func (h *handler) handlePresets(w http.ResponseWriter, _ *http.Request) {
	presets := make([]presetResponse, 0, len(domain.PresetNames()))
	for _, name := range domain.PresetNames() {
		a, _ := domain.Preset(name)
		presets = append(presets, presetResponse{Name: name, Assumptions: a})
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": domain.DefaultPresetName,
		"presets": presets,
	})
}

func (h *handler) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	a, err := domain.Preset(name)
	if err != nil {
		h.respondError(w, r, http.StatusNotFound, err.Error(), nil)
		return
	}
	canonical, _ := domain.CanonicalPresetName(name)
	h.writeJSON(w, http.StatusOK, presetResponse{Name: canonical, Assumptions: a})
}

func (h *handler) handleFields(w http.ResponseWriter, _ *http.Request) {
	defaults := domain.DefaultAssumptions()
	fields := make([]fieldResponse, 0, len(domain.Fields()))
	for _, f := range domain.Fields() {
		resp := fieldResponse{
			Key:       f.Key,
			ExportKey: f.ExportKey,
			Label:     f.Label,
			Group:     f.Group,
			Kind:      f.Kind,
			Min:       f.Min,
			Exclusive: f.Open,
			Step:      f.Step,
			UIMax:     f.Upper(),
			Range:     f.RangeString(),
			Default:   f.Get(defaults),
		}
		if f.Max.Valid {
			max := f.Max.Decimal
			resp.Max = &max
		}
		fields = append(fields, resp)
	}
	h.writeJSON(w, http.StatusOK, fields)
}

func (h *handler) handleSchema(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, config.AssumptionsSchema())
}

func (h *handler) handleModel(w http.ResponseWriter, r *http.Request) {
	input, ok := h.parseAssumptions(w, r)
	if !ok {
		return
	}
	run := h.engine.Run(input.Preset, input.Assumptions)
	h.metrics.ModelRuns.WithLabelValues(input.Preset, outcome(run.Results)).Inc()

	h.writeJSON(w, http.StatusOK, modelResponse{
		Document:   output.NewDocument(run, input.Report.Messages()),
		Validation: input.Report,
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	input, ok := h.parseAssumptions(w, r)
	if !ok {
		return
	}
	run := h.engine.Run(input.Preset, input.Assumptions)
	h.metrics.ModelRuns.WithLabelValues(input.Preset, outcome(run.Results)).Inc()

	data, err := output.CSVExporter{}.Format(run)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to build export: %v", err), nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.ExportFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write export", zap.Error(err))
	}
}

func (h *handler) handleBreakeven(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var req breakevenRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
			return
		}
	}

	input, err := h.parser.Parse(req.Assumptions)
	if err != nil {
		h.rejectInput(w, r, err)
		return
	}
	target := decimal.Zero
	if req.Target != nil {
		target = *req.Target
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if req.Field == "" {
		sweep, err := h.solver.SolveAll(ctx, input.Assumptions, target, req.Drivers)
		if err != nil {
			h.metrics.SolverRuns.WithLabelValues("all", "error").Inc()
			h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		h.metrics.SolverRuns.WithLabelValues("all", "ok").Inc()
		h.writeJSON(w, http.StatusOK, sweep)
		return
	}

	result, err := h.solver.Solve(ctx, breakeven.Request{Base: input.Assumptions, Field: req.Field, Target: target})
	if err != nil {
		h.metrics.SolverRuns.WithLabelValues(req.Field, "error").Inc()
		status := http.StatusUnprocessableEntity
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		h.respondError(w, r, status, err.Error(), nil)
		return
	}
	h.metrics.SolverRuns.WithLabelValues(result.Field, "ok").Inc()
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseAssumptions reads the request body as an assumptions document and
// writes the error response itself when it cannot.
func (h *handler) parseAssumptions(w http.ResponseWriter, r *http.Request) (*config.Input, bool) {
	body, ok := h.readBody(w, r)
	if !ok {
		return nil, false
	}
	input, err := h.parser.Parse(body)
	if err != nil {
		h.rejectInput(w, r, err)
		return nil, false
	}
	return input, true
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), nil)
			return nil, false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), nil)
		return nil, false
	}
	return body, true
}

func (h *handler) rejectInput(w http.ResponseWriter, r *http.Request, err error) {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		for _, issue := range verr.Report.Errors {
			h.metrics.ValidationFailures.WithLabelValues(string(issue.Level)).Inc()
		}
		h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), verr.Report)
		return
	}
	h.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, report *config.Report) {
	h.logger.Warn("request failed",
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, errorResponse{Error: msg, Validation: report})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func outcome(r domain.Results) string {
	if r.IsLossMaking() {
		return "loss"
	}
	return "profit"
}
