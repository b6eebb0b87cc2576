package models

import "time"

// RecoveryPhase tracks how far an in-flight recovery has progressed.
type RecoveryPhase string

const (
	PhaseDetection RecoveryPhase = "DETECTION"
	PhaseDiagnosis RecoveryPhase = "DIAGNOSIS"
	PhaseAction    RecoveryPhase = "ACTION"
	// PhaseVerification is declared for wire compatibility; no tracker
	// transition currently produces it.
	PhaseVerification RecoveryPhase = "VERIFICATION"
	PhaseComplete     RecoveryPhase = "COMPLETE"
)

// RecoveryAttempt is one incident's timing record. Timestamps are zero
// until their milestone is recorded and increase monotonically once set.
type RecoveryAttempt struct {
	ID              string        `json:"id"`
	IssueType       string        `json:"issueType"`
	Phase           RecoveryPhase `json:"phase"`
	DetectionTime   time.Time     `json:"detectionTime"`
	DiagnosisTime   time.Time     `json:"diagnosisTime"`
	FirstActionTime time.Time     `json:"firstActionTime"`
	CompleteTime    time.Time     `json:"completeTime"`
	ActionsExecuted int           `json:"actionsExecuted"`
	SuccessRate     float64       `json:"successRate"`
}

// MTTR returns the detection-to-complete duration, or zero while the
// attempt is still open.
func (a RecoveryAttempt) MTTR() time.Duration {
	if a.CompleteTime.IsZero() {
		return 0
	}
	return a.CompleteTime.Sub(a.DetectionTime)
}

// TimeToFirstAction returns the detection-to-first-action duration, or
// zero if no action was ever dispatched.
func (a RecoveryAttempt) TimeToFirstAction() time.Duration {
	if a.FirstActionTime.IsZero() {
		return 0
	}
	return a.FirstActionTime.Sub(a.DetectionTime)
}
