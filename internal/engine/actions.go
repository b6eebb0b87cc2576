package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/meshworks/mesh-recovery/internal/models"
)

// AttemptCounter receives a tick for every corrective action that runs.
// The recovery tracker satisfies this; a nil counter disables counting.
type AttemptCounter interface {
	NoteActionExecuted()
}

// ActionScheduler orders a corrective-action batch by priority and
// dependency readiness and executes it in a single pass.
type ActionScheduler struct {
	logger  *slog.Logger
	counter AttemptCounter
}

// NewActionScheduler constructs an ActionScheduler. counter may be nil.
func NewActionScheduler(logger *slog.Logger, counter AttemptCounter) *ActionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionScheduler{logger: logger, counter: counter}
}

// Execute sorts the batch by ascending priority rank, breaking ties by
// larger estimated MTTR reduction, then walks it once. An action runs
// only when every dependency id has already executed in this pass;
// otherwise it is skipped for the whole call. Returns the executed
// subset in execution order and the wall-clock elapsed time.
func (s *ActionScheduler) Execute(actions []*models.CorrectiveAction) ([]*models.CorrectiveAction, time.Duration) {
	start := time.Now()

	sorted := append([]*models.CorrectiveAction(nil), actions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Priority.Rank(), sorted[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return sorted[i].EstimatedReduction > sorted[j].EstimatedReduction
	})

	completed := make(map[string]struct{}, len(sorted))
	executed := make([]*models.CorrectiveAction, 0, len(sorted))
	for _, action := range sorted {
		if !dependenciesMet(action, completed) {
			s.logger.Debug("corrective action skipped",
				slog.String("action_id", action.ID),
				slog.Any("dependencies", action.Dependencies))
			continue
		}

		action.Executed = true
		action.CompletedAt = time.Now()
		completed[action.ID] = struct{}{}
		executed = append(executed, action)
		if s.counter != nil {
			s.counter.NoteActionExecuted()
		}
	}

	elapsed := time.Since(start)
	s.logger.Info("corrective action pass finished",
		slog.Int("submitted", len(actions)),
		slog.Int("executed", len(executed)),
		slog.Duration("elapsed", elapsed))
	return executed, elapsed
}

func dependenciesMet(action *models.CorrectiveAction, completed map[string]struct{}) bool {
	for _, dep := range action.Dependencies {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}
