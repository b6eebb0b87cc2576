package engine

import (
	"log/slog"

	"github.com/meshworks/mesh-recovery/internal/models"
)

// EmergencyPlanner synthesizes corrective actions while an incident is
// active so they are ready before the execute phase starts.
type EmergencyPlanner struct {
	logger *slog.Logger
}

// NewEmergencyPlanner constructs an EmergencyPlanner.
func NewEmergencyPlanner(logger *slog.Logger) *EmergencyPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmergencyPlanner{logger: logger}
}

// Synthesize emits the corrective-action set for a critical incident.
// Non-critical verdicts yield nothing, even when the system is
// otherwise in recovery. The set is a fixed policy: fresh instances are
// returned on every call so attempts never share action state.
func (p *EmergencyPlanner) Synthesize(verdict models.AnalyzeResult) []*models.CorrectiveAction {
	if !verdict.IsCritical {
		return nil
	}

	actions := []*models.CorrectiveAction{
		{
			ID:                 "restart_critical_services",
			Priority:           models.PriorityCritical,
			EstimatedReduction: 5.0,
		},
		{
			ID:                 "isolate_failure",
			Priority:           models.PriorityHigh,
			EstimatedReduction: 3.0,
		},
		{
			ID:                 "reroute_traffic",
			Priority:           models.PriorityMedium,
			EstimatedReduction: 2.0,
			Dependencies:       []string{"isolate_failure"},
		},
	}

	p.logger.Debug("emergency actions synthesized", slog.Int("count", len(actions)))
	return actions
}
