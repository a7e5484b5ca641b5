package runs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"qrclip/internal/domain"
)

// ErrSuperseded is returned for operations on a run a newer run replaced.
var ErrSuperseded = errors.New("run superseded by a newer run")

// ErrNoRunningRun is returned when cancel is requested for idle state.
var ErrNoRunningRun = errors.New("no running run")

// Manager tracks the single current run. Beginning a run cancels the one
// before it, and only the current run may complete, so a stale run can never
// publish its result over a newer one.
type Manager struct {
	mu      sync.Mutex
	current domain.Run
	cancel  context.CancelFunc
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Run{
			Status: domain.RunStatusIdle,
		},
	}
}

// Begin starts runID, superseding any active run, and returns the context
// the run must honour. superseded is the ID of the replaced run, if any.
func (m *Manager) Begin(parent context.Context, runID string) (ctx context.Context, superseded string, err error) {
	if runID == "" {
		return nil, "", fmt.Errorf("run id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if isRunning(m.current.Status) {
		superseded = m.current.ID
		m.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	m.current = domain.Run{
		ID:     runID,
		Status: domain.RunStatusReading,
	}
	m.cancel = cancel
	return ctx, superseded, nil
}

// Transition validates and applies a state change for runID.
func (m *Manager) Transition(runID string, status domain.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionLocked(runID, status)
}

// Complete moves runID to a terminal status and, while still holding the
// lock, calls commit. commit is skipped when the run was superseded.
func (m *Manager) Complete(runID string, status domain.RunStatus, commit func()) error {
	if status != domain.RunStatusDone && status != domain.RunStatusFailed {
		return fmt.Errorf("complete with non-terminal status: %s", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.transitionLocked(runID, status); err != nil {
		return err
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if commit != nil {
		commit()
	}
	return nil
}

// Current returns a snapshot of the current run.
func (m *Manager) Current() domain.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Cancel supersedes the active run without starting a new one and returns
// the cancelled run's ID.
func (m *Manager) Cancel() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !isRunning(m.current.Status) {
		return "", ErrNoRunningRun
	}
	m.cancel()
	m.cancel = nil
	m.current.Status = domain.RunStatusSuperseded
	return m.current.ID, nil
}

// Reset cancels anything active and returns the manager to idle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.current = domain.Run{Status: domain.RunStatusIdle}
}

func (m *Manager) transitionLocked(runID string, status domain.RunStatus) error {
	if m.current.ID != runID {
		return ErrSuperseded
	}
	if status == m.current.Status {
		return nil
	}
	if m.current.Status == domain.RunStatusSuperseded {
		return ErrSuperseded
	}
	if !isValidTransition(m.current.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.Status, status)
	}

	m.current.Status = status
	return nil
}

// isRunning checks if a status represents an active run.
func isRunning(status domain.RunStatus) bool {
	switch status {
	case domain.RunStatusReading, domain.RunStatusDecoding:
		return true
	default:
		return false
	}
}

// isValidTransition enforces the allowed run state machine edges.
func isValidTransition(from, to domain.RunStatus) bool {
	switch from {
	case domain.RunStatusIdle:
		return to == domain.RunStatusReading
	case domain.RunStatusReading:
		return to == domain.RunStatusDecoding || to == domain.RunStatusDone || to == domain.RunStatusFailed || to == domain.RunStatusSuperseded
	case domain.RunStatusDecoding:
		return to == domain.RunStatusDone || to == domain.RunStatusFailed || to == domain.RunStatusSuperseded
	case domain.RunStatusDone, domain.RunStatusFailed, domain.RunStatusSuperseded:
		return to == domain.RunStatusReading || to == domain.RunStatusIdle
	default:
		return false
	}
}
