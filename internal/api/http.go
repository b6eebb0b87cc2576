package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/meshworks/mesh-recovery/internal/models"
	"github.com/meshworks/mesh-recovery/internal/services"
)

// HTTPHandler exposes the recovery service over a JSON control surface.
type HTTPHandler struct {
	logger  *slog.Logger
	service *services.RecoveryService
}

// NewHTTPHandler constructs the control-surface handler.
func NewHTTPHandler(logger *slog.Logger, service *services.RecoveryService) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{logger: logger, service: service}
}

// Routes returns the handler's route table mounted on a fresh mux.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/recovery/start", h.handleStart)
	mux.HandleFunc("/api/v1/recovery/diagnosis", h.handleDiagnosis)
	mux.HandleFunc("/api/v1/recovery/first-action", h.handleFirstAction)
	mux.HandleFunc("/api/v1/recovery/complete", h.handleComplete)
	mux.HandleFunc("/api/v1/recovery/current", h.handleCurrent)
	mux.HandleFunc("/api/v1/actions/execute", h.handleExecuteActions)
	mux.HandleFunc("/api/v1/cadence/state", h.handleCadenceState)
	mux.HandleFunc("/api/v1/cadence", h.handleCadence)
	mux.HandleFunc("/api/v1/statistics", h.handleStatistics)
	mux.HandleFunc("/api/v1/mttr-improvement", h.handleImprovement)

	return h.logRequests(mux)
}

type startRequest struct {
	IssueType string `json:"issueType"`
}

func (h *HTTPHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IssueType == "" {
		writeError(w, http.StatusBadRequest, "issueType is required")
		return
	}
	id := h.service.StartRecovery(req.IssueType)
	writeJSON(w, http.StatusOK, map[string]string{"attemptId": id})
}

func (h *HTTPHandler) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	h.service.RecordDiagnosis()
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleFirstAction(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	h.service.RecordFirstAction()
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	Success bool `json:"success"`
}

func (h *HTTPHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.service.CompleteRecovery(req.Success)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	attempt, ok := h.service.CurrentAttempt()
	if !ok {
		writeError(w, http.StatusNotFound, "no recovery in progress")
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

type executeResponse struct {
	Executed  []*models.CorrectiveAction `json:"executed"`
	ElapsedMs float64                    `json:"elapsedMs"`
}

func (h *HTTPHandler) handleExecuteActions(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	var actions []*models.CorrectiveAction
	if err := json.NewDecoder(r.Body).Decode(&actions); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	executed, elapsed := h.service.ExecuteActions(actions)
	if executed == nil {
		executed = []*models.CorrectiveAction{}
	}
	writeJSON(w, http.StatusOK, executeResponse{
		Executed:  executed,
		ElapsedMs: float64(elapsed) / float64(time.Millisecond),
	})
}

type cadenceRequest struct {
	State string `json:"state"`
}

type cadenceResponse struct {
	State           string  `json:"state"`
	IntervalSeconds float64 `json:"intervalSeconds"`
}

func (h *HTTPHandler) handleCadenceState(w http.ResponseWriter, r *http.Request) {
	if !enforcePost(w, r) {
		return
	}
	var req cadenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, interval := h.service.UpdateCadenceState(req.State)
	writeJSON(w, http.StatusOK, cadenceResponse{State: state, IntervalSeconds: interval.Seconds()})
}

func (h *HTTPHandler) handleCadence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.service.CadenceStatistics())
}

func (h *HTTPHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Statistics())
}

func (h *HTTPHandler) handleImprovement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	baseline, err := strconv.ParseFloat(r.URL.Query().Get("baseline"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "baseline must be a number")
		return
	}
	optimized, err := strconv.ParseFloat(r.URL.Query().Get("optimized"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "optimized must be a number")
		return
	}
	writeJSON(w, http.StatusOK, h.service.Improvement(baseline, optimized))
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func enforcePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
