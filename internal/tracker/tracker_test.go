package tracker

import (
	"testing"

	"github.com/meshworks/mesh-recovery/internal/models"
)

func TestMilestonesProgressPhases(t *testing.T) {
	tr := New(nil)

	id := tr.Start("node_failure")
	if id == "" {
		t.Fatalf("expected attempt id")
	}
	current, ok := tr.Current()
	if !ok || current.Phase != models.PhaseDetection {
		t.Fatalf("expected DETECTION phase, got %v", current.Phase)
	}
	if current.DetectionTime.IsZero() {
		t.Fatalf("expected detection time to be set")
	}

	tr.RecordDiagnosisComplete()
	current, _ = tr.Current()
	if current.Phase != models.PhaseDiagnosis || current.DiagnosisTime.IsZero() {
		t.Fatalf("expected DIAGNOSIS phase with timestamp")
	}

	tr.RecordFirstAction()
	current, _ = tr.Current()
	if current.Phase != models.PhaseAction || current.FirstActionTime.IsZero() {
		t.Fatalf("expected ACTION phase with timestamp")
	}
	if current.FirstActionTime.Before(current.DiagnosisTime) {
		t.Fatalf("timestamps must increase monotonically")
	}
}

func TestRecordRecoveryCompleteClosesAttempt(t *testing.T) {
	tr := New(nil)
	tr.Start("link_flap")
	tr.RecordRecoveryComplete(true)

	if _, ok := tr.Current(); ok {
		t.Fatalf("expected current attempt to be cleared")
	}
	history := tr.History()
	if len(history) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Phase != models.PhaseComplete {
		t.Fatalf("expected COMPLETE phase, got %v", entry.Phase)
	}
	if entry.SuccessRate != 1.0 {
		t.Fatalf("expected success rate 1.0, got %f", entry.SuccessRate)
	}
	if entry.CompleteTime.IsZero() {
		t.Fatalf("expected complete time to be set")
	}
}

func TestRecordRecoveryCompleteFailure(t *testing.T) {
	tr := New(nil)
	tr.Start("partition")
	tr.RecordRecoveryComplete(false)

	history := tr.History()
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}
	if history[0].SuccessRate != 0.0 {
		t.Fatalf("expected success rate 0.0, got %f", history[0].SuccessRate)
	}
}

func TestMilestonesWithoutAttemptAreNoOps(t *testing.T) {
	tr := New(nil)

	tr.RecordDiagnosisComplete()
	tr.RecordFirstAction()
	tr.RecordRecoveryComplete(true)
	tr.NoteActionExecuted()

	if len(tr.History()) != 0 {
		t.Fatalf("expected empty history after no-op milestones")
	}
}

func TestNoteActionExecutedIncrementsCounter(t *testing.T) {
	tr := New(nil)
	tr.Start("node_failure")
	tr.NoteActionExecuted()
	tr.NoteActionExecuted()

	current, _ := tr.Current()
	if current.ActionsExecuted != 2 {
		t.Fatalf("expected 2 executed actions, got %d", current.ActionsExecuted)
	}
}

func TestHistoryEvictsOldestBeyondCapacity(t *testing.T) {
	tr := New(nil)

	firstID := tr.Start("first")
	tr.RecordRecoveryComplete(true)
	for i := 0; i < historyCapacity; i++ {
		tr.Start("subsequent")
		tr.RecordRecoveryComplete(true)
	}

	history := tr.History()
	if len(history) != historyCapacity {
		t.Fatalf("expected history length %d, got %d", historyCapacity, len(history))
	}
	for _, attempt := range history {
		if attempt.ID == firstID {
			t.Fatalf("expected first attempt to be evicted")
		}
	}
}

func TestHistoryReturnsCopies(t *testing.T) {
	tr := New(nil)
	tr.Start("node_failure")
	tr.NoteActionExecuted()
	tr.RecordRecoveryComplete(true)

	history := tr.History()
	history[0].ActionsExecuted = 99

	if tr.History()[0].ActionsExecuted != 1 {
		t.Fatalf("history must not be mutable through returned slice")
	}
}
