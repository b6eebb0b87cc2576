package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meshworks/mesh-recovery/internal/cadence"
	"github.com/meshworks/mesh-recovery/internal/engine"
	"github.com/meshworks/mesh-recovery/internal/services"
	"github.com/meshworks/mesh-recovery/internal/tracker"
	"github.com/meshworks/mesh-recovery/internal/utils"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := utils.NewLoggerTo(io.Discard, "error", false)
	trk := tracker.New(logger)
	scheduler := engine.NewActionScheduler(logger, trk)
	selector := cadence.New(logger)
	svc := services.NewRecoveryService(logger, trk, scheduler, selector)
	return NewHTTPHandler(logger, svc).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRecoveryLifecycleOverHTTP(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/recovery/start", `{"issueType":"partition"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}
	var started map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if started["attemptId"] == "" {
		t.Fatal("expected a non-empty attemptId")
	}

	for _, path := range []string{"/api/v1/recovery/diagnosis", "/api/v1/recovery/first-action"} {
		rec = doRequest(t, h, http.MethodPost, path, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d, want 204", path, rec.Code)
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/recovery/current", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("current status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/v1/recovery/complete", `{"success":true}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/recovery/current", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("current after complete status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("statistics status = %d, want 200", rec.Code)
	}
	var summary struct {
		TotalRecoveries int `json:"totalRecoveries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode statistics: %v", err)
	}
	if summary.TotalRecoveries != 1 {
		t.Errorf("totalRecoveries = %d, want 1", summary.TotalRecoveries)
	}
}

func TestStartRejectsMissingIssueType(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/recovery/start", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStartRejectsGet(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/recovery/start", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestExecuteActionsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	body := `[
		{"id":"reroute","priority":"medium","estimatedReductionSeconds":2,"dependencies":["isolate"]},
		{"id":"isolate","priority":"high","estimatedReductionSeconds":3}
	]`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/actions/execute", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Executed []struct {
			ID string `json:"id"`
		} `json:"executed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Executed) != 2 {
		t.Fatalf("executed %d actions, want 2", len(resp.Executed))
	}
	if resp.Executed[0].ID != "isolate" || resp.Executed[1].ID != "reroute" {
		t.Errorf("execution order = %s, %s; want isolate, reroute", resp.Executed[0].ID, resp.Executed[1].ID)
	}
}

func TestCadenceEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/cadence/state", `{"state":"critical"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		State           string  `json:"state"`
		IntervalSeconds float64 `json:"intervalSeconds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.State != "critical" || resp.IntervalSeconds != 3 {
		t.Errorf("cadence = %s/%v, want critical/3", resp.State, resp.IntervalSeconds)
	}

	// Unknown states leave the cadence untouched.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/cadence/state", `{"state":"bogus"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.State != "critical" || resp.IntervalSeconds != 3 {
		t.Errorf("cadence after unknown state = %s/%v, want critical/3", resp.State, resp.IntervalSeconds)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/cadence", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cadence status = %d, want 200", rec.Code)
	}
}

func TestImprovementEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/mttr-improvement?baseline=10&optimized=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		TimeSavedSeconds   float64 `json:"timeSavedSeconds"`
		PercentImprovement float64 `json:"percentImprovement"`
		SpeedupFactor      float64 `json:"speedupFactor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TimeSavedSeconds != 5 || resp.PercentImprovement != 50 || resp.SpeedupFactor != 2 {
		t.Errorf("improvement = %+v, want {5 50 2}", resp)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/mttr-improvement?baseline=abc&optimized=5", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad baseline status = %d, want 400", rec.Code)
	}
}
