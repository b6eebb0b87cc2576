package models

import "time"

// CorrectiveAction is one candidate remediation step for an incident.
type CorrectiveAction struct {
	ID                 string         `json:"id"`
	Priority           ActionPriority `json:"priority"`
	EstimatedReduction float64        `json:"estimatedReductionSeconds"`
	Dependencies       []string       `json:"dependencies,omitempty"`
	Executed           bool           `json:"executed"`
	CompletedAt        time.Time      `json:"completedAt"`
}

// ActionPriority categorises corrective actions for scheduling.
type ActionPriority string

const (
	PriorityCritical ActionPriority = "critical"
	PriorityHigh     ActionPriority = "high"
	PriorityMedium   ActionPriority = "medium"
	PriorityLow      ActionPriority = "low"
	PriorityUnknown  ActionPriority = "unknown"
)

// Rank maps a priority to its scheduling rank; lower runs first.
// Unrecognised priorities sort after every known class.
func (p ActionPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 999
	}
}
