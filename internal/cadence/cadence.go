package cadence

import (
	"log/slog"
	"sync"
	"time"
)

// Health-state labels the selector recognises.
const (
	StateHealthy    = "healthy"
	StateDegraded   = "degraded"
	StateCritical   = "critical"
	StateRecovering = "recovering"
)

// Selector adapts the monitoring polling interval to system health.
// Unrecognised states leave the current selection untouched.
type Selector struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	intervals map[string]time.Duration
	state     string
	interval  time.Duration
}

// Statistics is a read-only snapshot of the selector.
type Statistics struct {
	CurrentState        string             `json:"currentState"`
	CurrentInterval     float64            `json:"currentIntervalSeconds"`
	ConfiguredIntervals map[string]float64 `json:"configuredIntervals"`
}

// New constructs a Selector starting in the healthy state.
func New(logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	intervals := map[string]time.Duration{
		StateHealthy:    60 * time.Second,
		StateDegraded:   15 * time.Second,
		StateCritical:   3 * time.Second,
		StateRecovering: 5 * time.Second,
	}
	return &Selector{
		logger:    logger,
		intervals: intervals,
		state:     StateHealthy,
		interval:  intervals[StateHealthy],
	}
}

// UpdateState adopts a recognised health state and returns the active
// interval. Unknown states are ignored and the prior interval returned.
func (s *Selector) UpdateState(state string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval, ok := s.intervals[state]
	if !ok {
		return s.interval
	}
	if state != s.state {
		s.logger.Info("monitoring cadence changed",
			slog.String("from", s.state),
			slog.String("to", state),
			slog.Duration("interval", interval))
	}
	s.state = state
	s.interval = interval
	return s.interval
}

// Interval returns the currently active polling interval.
func (s *Selector) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

// State returns the currently selected health state.
func (s *Selector) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Statistics returns the current selection and the configured table.
func (s *Selector) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configured := make(map[string]float64, len(s.intervals))
	for state, interval := range s.intervals {
		configured[state] = interval.Seconds()
	}
	return Statistics{
		CurrentState:        s.state,
		CurrentInterval:     s.interval.Seconds(),
		ConfiguredIntervals: configured,
	}
}
