package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels cycles that ran every phase.
	OutcomeSuccess = "success"
	// OutcomeError labels cycles aborted by a phase failure.
	OutcomeError = "error"
)

var (
	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mesh_recovery",
			Name:      "cycles_total",
			Help:      "Total number of control-loop cycles, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	cycleDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mesh_recovery",
			Name:      "cycle_seconds",
			Help:      "End-to-end loop cycle latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
	)

	phaseDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mesh_recovery",
			Name:      "phase_seconds",
			Help:      "Per-phase latency in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"phase"},
	)

	actionsExecutedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mesh_recovery",
			Name:      "actions_executed_total",
			Help:      "Corrective actions that ran to completion.",
		},
	)

	actionsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mesh_recovery",
			Name:      "actions_skipped_total",
			Help:      "Corrective actions skipped because a dependency never executed.",
		},
	)

	recoveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mesh_recovery",
			Name:      "recoveries_total",
			Help:      "Completed recovery attempts, partitioned by result.",
		},
		[]string{"result"},
	)

	recoveryMTTRSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mesh_recovery",
			Name:      "recovery_mttr_seconds",
			Help:      "Detection-to-complete recovery time in seconds.",
			Buckets:   []float64{1, 3, 5, 9, 15, 30, 60, 120, 300, 600},
		},
	)
)

// Register attaches the engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		cyclesTotal,
		cycleDurationSeconds,
		phaseDurationSeconds,
		actionsExecutedTotal,
		actionsSkippedTotal,
		recoveriesTotal,
		recoveryMTTRSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveCycle records a loop cycle duration and outcome label.
func ObserveCycle(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	cyclesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	cycleDurationSeconds.Observe(duration.Seconds())
}

// ObservePhase records the latency of a single loop phase.
func ObservePhase(phase string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	phaseDurationSeconds.WithLabelValues(phase).Observe(duration.Seconds())
}

// ObserveActionPass records the outcome of one corrective-action pass.
func ObserveActionPass(executed, skipped int) {
	actionsExecutedTotal.Add(float64(executed))
	actionsSkippedTotal.Add(float64(skipped))
}

// ObserveRecovery records a completed recovery attempt.
func ObserveRecovery(mttr time.Duration, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	recoveriesTotal.WithLabelValues(result).Inc()
	if mttr < 0 {
		mttr = 0
	}
	recoveryMTTRSeconds.Observe(mttr.Seconds())
}
