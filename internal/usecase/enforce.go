package usecase

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
)

// EnforceEngine tracks focus-discipline violations. It reacts to
// directory-change events delivered by an external hook dispatcher:
// leaving the session's project during an active work session counts
// as a violation under strict mode. No other component mutates the
// enforcement record.
type EnforceEngine struct {
	store    *infra.Store[domain.EnforcementState]
	work     *infra.Store[domain.WorkSession]
	notifier domain.Notifier
	opts     *config.Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewEnforceEngine creates the enforcement engine.
func NewEnforceEngine(
	store *infra.Store[domain.EnforcementState],
	work *infra.Store[domain.WorkSession],
	notifier domain.Notifier,
	opts *config.Options,
	logger *zap.Logger,
) *EnforceEngine {
	return &EnforceEngine{
		store:    store,
		work:     work,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Register subscribes the engine to directory-change events. Safe to
// call repeatedly; each call registers the same handler shape, and the
// handler itself is stateless between invocations (all state lives in
// the persisted record), so duplicate delivery degrades to a re-read.
func (e *EnforceEngine) Register(d domain.HookDispatcher) error {
	return d.Register(domain.EventDirectoryChange, e.HandleDirectoryChange)
}

// HandleDirectoryChange processes one directory switch. Callbacks
// arrive from an independent execution context; everything is
// re-derived from persisted state on each call.
func (e *EnforceEngine) HandleDirectoryChange(oldDir, newDir string) {
	if e.opts.EnforcementMode() != domain.ModeStrict {
		return
	}

	sess, err := e.work.Read()
	if err != nil {
		e.logger.Warn("enforcement: cannot read work session", zap.Error(err))
		return
	}
	if sess == nil || sess.Status != domain.StatusActive {
		return
	}

	newProject := filepath.Base(filepath.Clean(newDir))

	state, err := e.store.Read()
	if err != nil {
		e.logger.Warn("enforcement: cannot read state", zap.Error(err))
		return
	}
	if state == nil {
		state = &domain.EnforcementState{}
	}

	// First event of the session adopts the project as baseline.
	if state.ActiveProject == "" {
		state.ActiveProject = newProject
		state.ActiveGoal = sess.Goal
		if err := e.store.Write(state); err != nil {
			e.logger.Warn("enforcement: cannot persist baseline", zap.Error(err))
		}
		return
	}

	if newProject == state.ActiveProject {
		return
	}

	state.Violations++
	if err := e.store.Write(state); err != nil {
		e.logger.Warn("enforcement: cannot persist violation", zap.Error(err))
		return
	}

	e.logger.Info("focus violation",
		zap.String("project", state.ActiveProject),
		zap.String("switched_to", newProject),
		zap.Int("violations", state.Violations))

	if state.Violations >= e.opts.DistractionThreshold() {
		e.warn(state, newProject)
	}
}

// warn sends an escalating notification once the threshold is crossed.
func (e *EnforceEngine) warn(state *domain.EnforcementState, newProject string) {
	title := fmt.Sprintf("Focus violation #%d", state.Violations)
	body := fmt.Sprintf("You left %s for %s during an active session.",
		state.ActiveProject, newProject)
	if state.ActiveGoal != "" {
		body += fmt.Sprintf(" Your goal: %s", state.ActiveGoal)
	}
	over := state.Violations - e.opts.DistractionThreshold()
	if over >= 2 {
		body += " Consider stopping the session if you have genuinely switched tasks."
	}
	e.notifier.Send(title, body, e.opts.Sound())
}

// ResetViolations zeroes the violation count, keeping the baseline.
// Returns domain.ErrStateNotFound when no enforcement record exists,
// which the CLI surfaces with its dedicated exit code.
func (e *EnforceEngine) ResetViolations() error {
	state, err := e.store.Read()
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: no enforcement record to reset", domain.ErrStateNotFound)
	}
	state.Violations = 0
	return e.store.Write(state)
}

// OnWorkStopped clears enforcement state when a session ends. Under
// strict mode with the require-break policy it leaves a fresh record
// demanding a fully completed break before the next start.
func (e *EnforceEngine) OnWorkStopped() error {
	if e.opts.EnforcementMode() == domain.ModeStrict && e.opts.RequireBreak() {
		return e.store.Write(&domain.EnforcementState{BreakRequired: true})
	}
	return e.store.Clear()
}

// OnBreakCompleted clears the break-required gate, but only for a
// fully completed break.
func (e *EnforceEngine) OnBreakCompleted(completedFully bool) error {
	state, err := e.store.Read()
	if err != nil {
		return err
	}
	if state == nil || !state.BreakRequired {
		return nil
	}
	if !completedFully {
		return nil
	}
	state.BreakRequired = false
	state.LastBreakEnd = e.now().UTC()
	return e.store.Write(state)
}

// BreakRequired reports whether a new work session is gated on a
// completed break.
func (e *EnforceEngine) BreakRequired() (bool, error) {
	if e.opts.EnforcementMode() != domain.ModeStrict || !e.opts.RequireBreak() {
		return false, nil
	}
	state, err := e.store.Read()
	if err != nil {
		return false, err
	}
	return state != nil && state.BreakRequired, nil
}

// Status returns the current enforcement record, which may be nil.
func (e *EnforceEngine) Status() (*domain.EnforcementState, error) {
	return e.store.Read()
}
