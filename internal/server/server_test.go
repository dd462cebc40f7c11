package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (http.Handler, *Metrics) {
	t.Helper()
	metrics := NewMetrics()
	return NewHandler(zap.NewNop(), nil, nil, Options{Version: "1.2.3", Metrics: metrics}), metrics
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHandlePresets(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/presets", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, "Base", body["default"])
	presets := body["presets"].([]interface{})
	require.Len(t, presets, 3)
	first := presets[0].(map[string]interface{})
	assert.Equal(t, "Conservative", first["name"])
}

func TestHandlePreset(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/presets/stretch", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "Stretch", body["name"])

	rr = do(t, h, http.MethodGet, "/api/presets/optimistic", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "unknown preset")
}

func TestHandleFields(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/fields", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var fields []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fields))
	require.Len(t, fields, 25)
	assert.Equal(t, "population", fields[0]["key"])
	assert.NotContains(t, fields[0], "max", "unbounded fields omit max")
	assert.Equal(t, "(0, 1)", fields[14]["range"])
	assert.Equal(t, true, fields[14]["exclusive"])
}

func TestHandleSchema(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/schema", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decode(t, rr), "properties")
}

func TestHandleModel(t *testing.T) {
	h, metrics := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", `{"preset":"Base"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	body := decode(t, rr)
	assert.Equal(t, "Base", body["preset"])
	report := body["report"].(map[string]interface{})
	assert.Equal(t, "Blended GP%: 47.0% | Breakeven sales: £136,307", report["caption"])
	assert.Len(t, report["metrics"], 19)
	validation := body["validation"].(map[string]interface{})
	assert.Equal(t, true, validation["valid"])

	assert.Equal(t, 1, testCounter(t, metrics, "shopmodel_model_runs_total"))
}

func TestHandleModel_YAMLOverrides(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", "preset: conservative\noverrides:\n  capture_local: 0.45\n")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Equal(t, "Conservative", body["preset"])
	assumptions := body["assumptions"].(map[string]interface{})
	assert.Equal(t, "0.45", assumptions["capture_local"])
}

func TestHandleModel_Warnings(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", `{"overrides":{"gm_shoes":0.75}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	warnings := body["warnings"].([]interface{})
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "gm_shoes")
}

func TestHandleModel_ValidationError(t *testing.T) {
	h, metrics := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", `{"overrides":{"gm_shoes":1.5}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	body := decode(t, rr)
	assert.Contains(t, body["error"], "gm_shoes")
	validation := body["validation"].(map[string]interface{})
	assert.Equal(t, false, validation["valid"])
	assert.Equal(t, 1, testCounter(t, metrics, "shopmodel_validation_failures_total"))
}

func TestHandleModel_SchemaError(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", `{"overrides":{"parking":1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandleModel_Malformed(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/model", `{"preset": [`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleModel_BodyTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil, nil, Options{MaxBodySize: 8})

	rr := do(t, h, http.MethodPost, "/api/model", `{"preset":"Base"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleModel_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/model", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleExport(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/export", `{"preset":"Base"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="`+output.ExportFilename+`"`, rr.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 32)
	assert.Equal(t, []string{"Turnover", "144361.344"}, records[26])
}

func TestHandleBreakeven_Single(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/breakeven", `{"field":"rent"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Equal(t, "rent", body["field"])
	assert.Equal(t, true, body["success"])
}

func TestHandleBreakeven_Sweep(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/breakeven",
		`{"assumptions":{"preset":"Conservative"},"drivers":["capture_local","rent"]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Len(t, body["results"], 2)
	assert.Contains(t, body, "smallest_change")
}

func TestHandleBreakeven_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/breakeven", `{"field":"parking"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/breakeven", `{"assumptions":{"overrides":{"rent":-1}}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/breakeven", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1.2.3", decode(t, rr)["version"])

	h = NewHandler(nil, nil, nil, Options{})
	rr = do(t, h, http.MethodGet, "/api/version", "")
	assert.Equal(t, "dev", decode(t, rr)["version"])
}

func TestRequestID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/healthz", "")
	id := rr.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated id %q", id)

	given := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, given)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, given, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	do(t, h, http.MethodGet, "/api/presets", "")
	rr := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)

	text := rr.Body.String()
	assert.Contains(t, text, "shopmodel_http_requests_total")
	assert.Contains(t, text, `route="GET /api/presets"`)
	assert.Contains(t, text, "shopmodel_http_request_duration_seconds")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	h, _ := newTestHandler(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second}, h, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// testCounter sums every series of a counter family on the handler's registry.
func testCounter(t *testing.T, m *Metrics, name string) int {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return int(total)
}
