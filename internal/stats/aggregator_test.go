package stats

import (
	"testing"
	"time"

	"github.com/meshworks/mesh-recovery/internal/models"
)

func completedAttempt(base time.Time, mttr, firstAction time.Duration, success bool) models.RecoveryAttempt {
	attempt := models.RecoveryAttempt{
		Phase:           models.PhaseComplete,
		DetectionTime:   base,
		DiagnosisTime:   base.Add(firstAction / 2),
		FirstActionTime: base.Add(firstAction),
		CompleteTime:    base.Add(mttr),
	}
	if success {
		attempt.SuccessRate = 1.0
	}
	return attempt
}

func TestAggregateEmptyHistory(t *testing.T) {
	summary := Aggregate(nil)
	if summary.TotalRecoveries != 0 {
		t.Fatalf("expected zero recoveries, got %d", summary.TotalRecoveries)
	}
	if summary.RecentRecoveries != nil {
		t.Fatalf("expected no recent recoveries for empty history")
	}
	if summary.AverageMTTR != 0 || summary.SuccessRate != 0 {
		t.Fatalf("expected zero rollups for empty history")
	}
}

func TestAggregateRollups(t *testing.T) {
	base := time.Now()
	history := []models.RecoveryAttempt{
		completedAttempt(base, 10*time.Second, 2*time.Second, true),
		completedAttempt(base, 20*time.Second, 4*time.Second, true),
		completedAttempt(base, 30*time.Second, 6*time.Second, false),
	}

	summary := Aggregate(history)
	if summary.TotalRecoveries != 3 {
		t.Fatalf("expected 3 recoveries, got %d", summary.TotalRecoveries)
	}
	if summary.AverageMTTR != 20.0 {
		t.Fatalf("expected average MTTR 20s, got %f", summary.AverageMTTR)
	}
	if summary.MinMTTR != 10.0 || summary.MaxMTTR != 30.0 {
		t.Fatalf("expected min/max 10/30, got %f/%f", summary.MinMTTR, summary.MaxMTTR)
	}
	if summary.AverageTimeToFirstAction != 4.0 {
		t.Fatalf("expected average time-to-first-action 4s, got %f", summary.AverageTimeToFirstAction)
	}
	if summary.SuccessRate < 0.66 || summary.SuccessRate > 0.67 {
		t.Fatalf("expected success rate 2/3, got %f", summary.SuccessRate)
	}
	if len(summary.RecentRecoveries) != 3 {
		t.Fatalf("expected 3 recent entries, got %d", len(summary.RecentRecoveries))
	}
	last := summary.RecentRecoveries[2]
	if last.TotalMTTR != 30.0 || last.DetectionToAction != 6.0 || last.DetectionToDiagnosis != 3.0 {
		t.Fatalf("unexpected recent entry: %+v", last)
	}
}

func TestAggregateRecentLimitedToLastTen(t *testing.T) {
	base := time.Now()
	history := make([]models.RecoveryAttempt, 0, 15)
	for i := 0; i < 15; i++ {
		history = append(history, completedAttempt(base, time.Duration(i+1)*time.Second, time.Second, true))
	}

	summary := Aggregate(history)
	if len(summary.RecentRecoveries) != recentLimit {
		t.Fatalf("expected %d recent entries, got %d", recentLimit, len(summary.RecentRecoveries))
	}
	// The window keeps the trailing entries, so the last recent row is
	// the final history entry.
	if summary.RecentRecoveries[recentLimit-1].TotalMTTR != 15.0 {
		t.Fatalf("expected trailing entry MTTR 15s, got %f", summary.RecentRecoveries[recentLimit-1].TotalMTTR)
	}
	if summary.RecentRecoveries[0].TotalMTTR != 6.0 {
		t.Fatalf("expected window to start at 6s, got %f", summary.RecentRecoveries[0].TotalMTTR)
	}
}

func TestCalculateImprovement(t *testing.T) {
	improvement := CalculateImprovement(10, 5)
	if improvement.TimeSavedSeconds != 5 {
		t.Fatalf("expected 5s saved, got %f", improvement.TimeSavedSeconds)
	}
	if improvement.PercentImprovement != 50.0 {
		t.Fatalf("expected 50%% improvement, got %f", improvement.PercentImprovement)
	}
	if improvement.SpeedupFactor != 2.0 {
		t.Fatalf("expected 2x speedup, got %f", improvement.SpeedupFactor)
	}
}

func TestCalculateImprovementDegenerateInputs(t *testing.T) {
	if got := CalculateImprovement(0, 5); got.PercentImprovement != 0 {
		t.Fatalf("expected zero percent for zero baseline, got %f", got.PercentImprovement)
	}
	if got := CalculateImprovement(10, 0); got.SpeedupFactor != 0 {
		t.Fatalf("expected zero speedup for zero optimized, got %f", got.SpeedupFactor)
	}
}
