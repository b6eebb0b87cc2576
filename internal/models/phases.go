package models

import "time"

// Opaque payloads exchanged between loop phases. The engine never
// inspects them; they belong to the caller-supplied phase functions.
type (
	MonitorResult   = any
	PlanResult      = any
	ExecuteResult   = any
	KnowledgeResult = any
)

// AnalyzeResult is the analyze phase verdict the engine branches on.
// Absent flags default to false.
type AnalyzeResult struct {
	IsDegraded         bool           `json:"isDegraded"`
	IsCritical         bool           `json:"isCritical"`
	RecoveryInProgress bool           `json:"recoveryInProgress"`
	Details            map[string]any `json:"details,omitempty"`
}

// InRecovery reports whether any recovery condition is raised.
func (a AnalyzeResult) InRecovery() bool {
	return a.IsDegraded || a.IsCritical || a.RecoveryInProgress
}

// CycleTimings captures wall-clock telemetry for one loop cycle.
type CycleTimings struct {
	Monitor time.Duration `json:"monitor"`
	Analyze time.Duration `json:"analyze"`
	Total   time.Duration `json:"total"`
}

// CycleResult collects every phase output of one completed cycle.
type CycleResult struct {
	Monitor          MonitorResult       `json:"monitor"`
	Analyze          AnalyzeResult       `json:"analyze"`
	Plan             PlanResult          `json:"plan"`
	Execute          ExecuteResult       `json:"execute"`
	Knowledge        KnowledgeResult     `json:"knowledge"`
	EmergencyActions []*CorrectiveAction `json:"emergencyActions,omitempty"`
	Timings          CycleTimings        `json:"timings"`
}
