package services

import (
	"log/slog"
	"time"

	"github.com/meshworks/mesh-recovery/internal/cadence"
	"github.com/meshworks/mesh-recovery/internal/engine"
	"github.com/meshworks/mesh-recovery/internal/metrics"
	"github.com/meshworks/mesh-recovery/internal/models"
	"github.com/meshworks/mesh-recovery/internal/stats"
	"github.com/meshworks/mesh-recovery/internal/tracker"
	"github.com/meshworks/mesh-recovery/internal/utils"
)

// RecoveryService is the facade the API layer talks to. It ties the
// attempt tracker, action scheduler, and cadence selector together and
// keeps a bounded latency window over completed recoveries.
type RecoveryService struct {
	logger    *slog.Logger
	tracker   *tracker.Tracker
	scheduler *engine.ActionScheduler
	cadence   *cadence.Selector
	latencies *utils.LatencyTracker
}

// NewRecoveryService constructs the service facade.
func NewRecoveryService(logger *slog.Logger, trk *tracker.Tracker, scheduler *engine.ActionScheduler, selector *cadence.Selector) *RecoveryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecoveryService{
		logger:    logger,
		tracker:   trk,
		scheduler: scheduler,
		cadence:   selector,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// StartRecovery opens a new tracked attempt and returns its ID.
func (s *RecoveryService) StartRecovery(issueType string) string {
	return s.tracker.Start(issueType)
}

// RecordDiagnosis stamps the diagnosis milestone on the current attempt.
func (s *RecoveryService) RecordDiagnosis() {
	s.tracker.RecordDiagnosisComplete()
}

// RecordFirstAction stamps the first-action milestone on the current attempt.
func (s *RecoveryService) RecordFirstAction() {
	s.tracker.RecordFirstAction()
}

// CompleteRecovery closes the current attempt and records its outcome.
func (s *RecoveryService) CompleteRecovery(success bool) (models.RecoveryAttempt, bool) {
	attempt, ok := s.tracker.RecordRecoveryComplete(success)
	if !ok {
		return models.RecoveryAttempt{}, false
	}

	mttr := attempt.MTTR()
	metrics.ObserveRecovery(mttr, success)
	s.latencies.Observe(mttr)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("recovery latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}
	return attempt, true
}

// ExecuteActions runs a corrective-action batch through the scheduler
// and returns the actions that actually ran plus the elapsed time.
func (s *RecoveryService) ExecuteActions(actions []*models.CorrectiveAction) ([]*models.CorrectiveAction, time.Duration) {
	executed, elapsed := s.scheduler.Execute(actions)
	metrics.ObserveActionPass(len(executed), len(actions)-len(executed))
	return executed, elapsed
}

// UpdateCadenceState feeds a mesh state into the cadence selector and
// returns the state and interval now in effect. Unknown states leave
// the cadence unchanged.
func (s *RecoveryService) UpdateCadenceState(state string) (string, time.Duration) {
	interval := s.cadence.UpdateState(state)
	return s.cadence.State(), interval
}

// CadenceStatistics reports the selector's current configuration.
func (s *RecoveryService) CadenceStatistics() cadence.Statistics {
	return s.cadence.Statistics()
}

// CurrentAttempt returns a copy of the in-flight attempt, if any.
func (s *RecoveryService) CurrentAttempt() (models.RecoveryAttempt, bool) {
	return s.tracker.Current()
}

// Statistics aggregates the completed-attempt history.
func (s *RecoveryService) Statistics() stats.Summary {
	return stats.Aggregate(s.tracker.History())
}

// Improvement compares a baseline MTTR against an optimized one.
func (s *RecoveryService) Improvement(baseline, optimized float64) stats.Improvement {
	return stats.CalculateImprovement(baseline, optimized)
}

// LatencyP95 returns the current p95 over completed-recovery MTTRs.
func (s *RecoveryService) LatencyP95() time.Duration {
	return s.latencies.Percentile(95)
}
