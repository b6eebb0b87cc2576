package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meshworks/mesh-recovery/internal/metrics"
	"github.com/meshworks/mesh-recovery/internal/models"
)

// Phase functions supplied by the host loop driver. Each one may block;
// the scheduler passes the caller's context through untouched and never
// imposes its own deadline.
type (
	MonitorFunc   func(ctx context.Context) (models.MonitorResult, error)
	AnalyzeFunc   func(ctx context.Context, monitor models.MonitorResult) (models.AnalyzeResult, error)
	PlanFunc      func(ctx context.Context, analyze models.AnalyzeResult) (models.PlanResult, error)
	ExecuteFunc   func(ctx context.Context, plan models.PlanResult, emergency []*models.CorrectiveAction) (models.ExecuteResult, error)
	KnowledgeFunc func(ctx context.Context, analyze models.AnalyzeResult, plan models.PlanResult, execute models.ExecuteResult) (models.KnowledgeResult, error)
)

// PhaseFuncs bundles the five phase callbacks for one cycle.
type PhaseFuncs struct {
	Monitor   MonitorFunc
	Analyze   AnalyzeFunc
	Plan      PlanFunc
	Execute   ExecuteFunc
	Knowledge KnowledgeFunc
}

// PhaseError reports which loop phase failed. A phase failure is fatal
// for the whole cycle; the caller decides whether to run another one.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Phase + " phase failed: " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// PhaseScheduler drives one monitor/analyze/plan/execute/knowledge
// cycle with the maximal legal concurrency: when the analyze verdict
// signals an active recovery, planning and emergency-action synthesis
// run concurrently and are both joined before execution starts.
type PhaseScheduler struct {
	logger  *slog.Logger
	planner *EmergencyPlanner
}

// NewPhaseScheduler constructs a PhaseScheduler. A nil planner gets a
// default EmergencyPlanner.
func NewPhaseScheduler(logger *slog.Logger, planner *EmergencyPlanner) *PhaseScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if planner == nil {
		planner = NewEmergencyPlanner(logger)
	}
	return &PhaseScheduler{logger: logger, planner: planner}
}

// RunCycle executes the five phases in order and returns every phase
// output plus wall-clock timings. Ordering guarantees: monitor strictly
// precedes analyze; analyze strictly precedes the branch decision; both
// fanned-out branches complete before execute; knowledge strictly
// follows execute. Any phase error aborts the cycle.
func (s *PhaseScheduler) RunCycle(ctx context.Context, fns PhaseFuncs) (models.CycleResult, error) {
	start := time.Now()
	var result models.CycleResult

	monitorStart := time.Now()
	monitor, err := fns.Monitor(ctx)
	if err != nil {
		return result, s.fail("monitor", err, start)
	}
	result.Monitor = monitor
	result.Timings.Monitor = time.Since(monitorStart)
	metrics.ObservePhase("monitor", result.Timings.Monitor)

	analyzeStart := time.Now()
	analyze, err := fns.Analyze(ctx, monitor)
	if err != nil {
		return result, s.fail("analyze", err, start)
	}
	result.Analyze = analyze
	result.Timings.Analyze = time.Since(analyzeStart)
	metrics.ObservePhase("analyze", result.Timings.Analyze)

	var plan models.PlanResult
	var emergency []*models.CorrectiveAction
	if analyze.InRecovery() {
		s.logger.Info("recovery state detected, planning concurrently",
			slog.Bool("degraded", analyze.IsDegraded),
			slog.Bool("critical", analyze.IsCritical),
			slog.Bool("in_progress", analyze.RecoveryInProgress))

		// Plain errgroup: both branches always run to completion
		// before Wait returns, and a failing branch does not cancel
		// its sibling.
		var group errgroup.Group
		group.Go(func() error {
			p, planErr := fns.Plan(ctx, analyze)
			if planErr != nil {
				return planErr
			}
			plan = p
			return nil
		})
		group.Go(func() error {
			emergency = s.planner.Synthesize(analyze)
			return nil
		})
		if err := group.Wait(); err != nil {
			return result, s.fail("plan", err, start)
		}
	} else {
		plan, err = fns.Plan(ctx, analyze)
		if err != nil {
			return result, s.fail("plan", err, start)
		}
	}
	result.Plan = plan
	result.EmergencyActions = emergency

	execute, err := fns.Execute(ctx, plan, emergency)
	if err != nil {
		return result, s.fail("execute", err, start)
	}
	result.Execute = execute

	knowledge, err := fns.Knowledge(ctx, analyze, plan, execute)
	if err != nil {
		return result, s.fail("knowledge", err, start)
	}
	result.Knowledge = knowledge

	result.Timings.Total = time.Since(start)
	metrics.ObserveCycle(result.Timings.Total, metrics.OutcomeSuccess)
	return result, nil
}

func (s *PhaseScheduler) fail(phase string, err error, start time.Time) error {
	metrics.ObserveCycle(time.Since(start), metrics.OutcomeError)
	s.logger.Error("loop phase failed",
		slog.String("phase", phase),
		slog.Any("error", err))
	return &PhaseError{Phase: phase, Err: err}
}
