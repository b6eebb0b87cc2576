package stats

import (
	"github.com/meshworks/mesh-recovery/internal/models"
)

// recentLimit caps how many trailing attempts the summary details.
const recentLimit = 10

// Summary is a read-only rollup over completed recovery attempts.
// All durations are reported in seconds.
type Summary struct {
	TotalRecoveries          int              `json:"totalRecoveries"`
	AverageMTTR              float64          `json:"averageMttrSeconds,omitempty"`
	MinMTTR                  float64          `json:"minMttrSeconds,omitempty"`
	MaxMTTR                  float64          `json:"maxMttrSeconds,omitempty"`
	AverageTimeToFirstAction float64          `json:"averageTimeToFirstActionSeconds,omitempty"`
	SuccessRate              float64          `json:"successRate"`
	RecentRecoveries         []RecentRecovery `json:"recentRecoveries,omitempty"`
}

// RecentRecovery reduces one attempt to its headline timings.
type RecentRecovery struct {
	DetectionToDiagnosis float64 `json:"detectionToDiagnosisSeconds"`
	DetectionToAction    float64 `json:"detectionToActionSeconds"`
	TotalMTTR            float64 `json:"totalMttrSeconds"`
	ActionsExecuted      int     `json:"actionsExecuted"`
}

// Improvement compares a baseline MTTR against an optimized one.
type Improvement struct {
	TimeSavedSeconds   float64 `json:"timeSavedSeconds"`
	PercentImprovement float64 `json:"percentImprovement"`
	SpeedupFactor      float64 `json:"speedupFactor"`
}

// Aggregate rolls up the completed-attempt history. An empty history
// yields a summary carrying only the zero total; no rollups are
// computed, so there is nothing to divide by.
func Aggregate(history []models.RecoveryAttempt) Summary {
	if len(history) == 0 {
		return Summary{TotalRecoveries: 0}
	}

	summary := Summary{TotalRecoveries: len(history)}

	var totalMTTR, totalFirstAction float64
	successes := 0
	for i, attempt := range history {
		mttr := attempt.MTTR().Seconds()
		totalMTTR += mttr
		if i == 0 || mttr < summary.MinMTTR {
			summary.MinMTTR = mttr
		}
		if mttr > summary.MaxMTTR {
			summary.MaxMTTR = mttr
		}
		totalFirstAction += attempt.TimeToFirstAction().Seconds()
		if attempt.SuccessRate == 1.0 {
			successes++
		}
	}
	summary.AverageMTTR = totalMTTR / float64(len(history))
	summary.AverageTimeToFirstAction = totalFirstAction / float64(len(history))
	summary.SuccessRate = float64(successes) / float64(len(history))

	recent := history
	if len(recent) > recentLimit {
		recent = recent[len(recent)-recentLimit:]
	}
	summary.RecentRecoveries = make([]RecentRecovery, 0, len(recent))
	for _, attempt := range recent {
		detectionToDiagnosis := 0.0
		if !attempt.DiagnosisTime.IsZero() {
			detectionToDiagnosis = attempt.DiagnosisTime.Sub(attempt.DetectionTime).Seconds()
		}
		summary.RecentRecoveries = append(summary.RecentRecoveries, RecentRecovery{
			DetectionToDiagnosis: detectionToDiagnosis,
			DetectionToAction:    attempt.TimeToFirstAction().Seconds(),
			TotalMTTR:            attempt.MTTR().Seconds(),
			ActionsExecuted:      attempt.ActionsExecuted,
		})
	}

	return summary
}

// CalculateImprovement compares two MTTR figures in seconds. Degenerate
// baselines and optimized values short-circuit to zero rather than
// dividing by zero.
func CalculateImprovement(baseline, optimized float64) Improvement {
	improvement := Improvement{TimeSavedSeconds: baseline - optimized}
	if baseline > 0 {
		improvement.PercentImprovement = improvement.TimeSavedSeconds / baseline * 100
	}
	if optimized > 0 {
		improvement.SpeedupFactor = baseline / optimized
	}
	return improvement
}
