package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meshworks/mesh-recovery/internal/models"
)

// historyCapacity bounds the completed-attempt history; the oldest
// entry is evicted once the bound is exceeded.
const historyCapacity = 1000

// Tracker records per-incident recovery timing. A single attempt is
// current at any time; milestone calls that arrive without a current
// attempt are silent no-ops.
type Tracker struct {
	mu      sync.Mutex
	logger  *slog.Logger
	current *models.RecoveryAttempt
	history []models.RecoveryAttempt
}

// New constructs a Tracker.
func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger}
}

// Start opens a new current attempt for the given issue type and
// returns its ID. Any previous unfinished attempt is replaced.
func (t *Tracker) Start(issueType string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := &models.RecoveryAttempt{
		ID:            uuid.New().String(),
		IssueType:     issueType,
		Phase:         models.PhaseDetection,
		DetectionTime: time.Now(),
	}
	if t.current != nil {
		t.logger.Warn("replacing unfinished recovery attempt",
			slog.String("attempt_id", t.current.ID),
			slog.String("issue_type", t.current.IssueType))
	}
	t.current = attempt

	t.logger.Info("recovery tracking started",
		slog.String("attempt_id", attempt.ID),
		slog.String("issue_type", issueType))
	return attempt.ID
}

// RecordDiagnosisComplete stamps the diagnosis milestone.
func (t *Tracker) RecordDiagnosisComplete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.current.DiagnosisTime = time.Now()
	t.current.Phase = models.PhaseDiagnosis

	t.logger.Info("diagnosis complete",
		slog.String("attempt_id", t.current.ID),
		slog.Duration("since_detection", t.current.DiagnosisTime.Sub(t.current.DetectionTime)))
}

// RecordFirstAction stamps the first corrective-action dispatch.
func (t *Tracker) RecordFirstAction() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.current.FirstActionTime = time.Now()
	t.current.Phase = models.PhaseAction

	t.logger.Info("first corrective action dispatched",
		slog.String("attempt_id", t.current.ID),
		slog.Duration("since_detection", t.current.FirstActionTime.Sub(t.current.DetectionTime)))
}

// RecordRecoveryComplete closes the current attempt, appends it to the
// bounded history, and clears the current slot. The closed attempt is
// returned so callers can inspect its final timings.
func (t *Tracker) RecordRecoveryComplete(success bool) (models.RecoveryAttempt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return models.RecoveryAttempt{}, false
	}
	t.current.CompleteTime = time.Now()
	t.current.Phase = models.PhaseComplete
	if success {
		t.current.SuccessRate = 1.0
	} else {
		t.current.SuccessRate = 0.0
	}

	t.logger.Info("recovery complete",
		slog.String("attempt_id", t.current.ID),
		slog.Bool("success", success),
		slog.Duration("mttr", t.current.MTTR()),
		slog.Int("actions_executed", t.current.ActionsExecuted))

	closed := *t.current
	t.history = append(t.history, closed)
	if len(t.history) > historyCapacity {
		// FIFO eviction of the oldest completed attempt.
		copy(t.history[0:], t.history[1:])
		t.history = t.history[:historyCapacity]
	}
	t.current = nil
	return closed, true
}

// NoteActionExecuted bumps the current attempt's action counter, if an
// attempt is being tracked.
func (t *Tracker) NoteActionExecuted() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.current.ActionsExecuted++
}

// Current returns a copy of the in-flight attempt, if any.
func (t *Tracker) Current() (models.RecoveryAttempt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return models.RecoveryAttempt{}, false
	}
	return *t.current, true
}

// History returns a copy of the completed-attempt history, oldest first.
func (t *Tracker) History() []models.RecoveryAttempt {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]models.RecoveryAttempt(nil), t.history...)
}
