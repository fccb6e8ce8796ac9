package usecase

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
	"github.com/pomokit/pomo/internal/timefmt"
)

// WorkStatus is the read-only view of the current work session.
type WorkStatus struct {
	Active         bool
	ElapsedSeconds int64
	Goal           string
	StartTime      time.Time
}

// StopSummary describes a completed work session.
type StopSummary struct {
	DurationSeconds  int64
	Pomodoros        int
	NextBreak        domain.BreakType
	NextBreakSeconds int64
	BreakStarted     bool
}

// WorkEngine owns the work-session state machine. Each CLI invocation
// is short-lived; the engine coordinates with its background timer and
// reminder tasks purely through the persisted session record.
type WorkEngine struct {
	store    *infra.Store[domain.WorkSession]
	counter  *Counter
	archive  domain.Archive
	enforce  *EnforceEngine
	breaks   *BreakEngine
	spawner  domain.TaskSpawner
	notifier domain.Notifier
	opts     *config.Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorkEngine creates the work-session engine.
func NewWorkEngine(
	store *infra.Store[domain.WorkSession],
	counter *Counter,
	archive domain.Archive,
	enforce *EnforceEngine,
	breaks *BreakEngine,
	spawner domain.TaskSpawner,
	notifier domain.Notifier,
	opts *config.Options,
	logger *zap.Logger,
) *WorkEngine {
	return &WorkEngine{
		store:    store,
		counter:  counter,
		archive:  archive,
		enforce:  enforce,
		breaks:   breaks,
		spawner:  spawner,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins a new work session. Fails without mutating anything
// when a session is already active, or when the require-break policy
// still demands a completed break.
func (w *WorkEngine) Start(goal string) error {
	existing, err := w.store.Read()
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == domain.StatusActive {
		return fmt.Errorf("%w: started %s ago", domain.ErrAlreadyActive,
			timefmt.FormatSeconds(existing.Elapsed(w.now())))
	}

	required, err := w.enforce.BreakRequired()
	if err != nil {
		return err
	}
	if required {
		return domain.ErrBreakRequired
	}

	now := w.now().UTC()
	sess := &domain.WorkSession{
		Status:      domain.StatusActive,
		StartTime:   now,
		Goal:        goal,
		LastUpdated: now,
	}
	if err := w.store.Write(sess); err != nil {
		return err
	}

	workDur := w.opts.WorkDuration()
	if _, err := w.spawner.Spawn(domain.OwnerWorkTimer,
		"--delay", strconv.FormatInt(workDur, 10)); err != nil {
		// The session still counts without its timer; the operator
		// just won't get a completion ping.
		w.logger.Warn("failed to spawn work timer", zap.Error(err))
	}

	if interval := w.opts.ReminderInterval(); interval > 0 {
		if _, err := w.spawner.Spawn(domain.OwnerWorkReminder,
			"--interval", strconv.FormatInt(interval, 10)); err != nil {
			w.logger.Warn("failed to spawn reminder", zap.Error(err))
		}
	}

	w.logger.Info("work session started",
		zap.String("goal", goal),
		zap.Int64("work_duration", workDur))
	return nil
}

// Stop ends the active session: archives it, bumps the pomodoro
// counter, picks the next break, clears enforcement state, and
// optionally chains straight into a background break.
func (w *WorkEngine) Stop() (*StopSummary, error) {
	sess, err := w.store.Read()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Status != domain.StatusActive {
		return nil, domain.ErrNoActiveSession
	}

	now := w.now().UTC()
	duration := sess.Elapsed(now)

	// Best-effort cancellation: the timer may already have fired or
	// died, which is fine - its own existence check is the real guard.
	if err := w.spawner.Cancel(domain.OwnerWorkTimer); err != nil {
		w.logger.Debug("work timer cancel", zap.Error(err))
	}
	if err := w.spawner.Cancel(domain.OwnerWorkReminder); err != nil {
		w.logger.Debug("reminder cancel", zap.Error(err))
	}

	count, err := w.counter.Increment()
	if err != nil {
		return nil, err
	}

	breakType := SelectBreakType(count, w.opts.PomodorosUntilLong())
	breakSecs := w.opts.ShortBreak()
	if breakType == domain.BreakLong {
		breakSecs = w.opts.LongBreak()
	}

	if err := w.archive.AppendSession(domain.SessionRecord{
		StartTime:       sess.StartTime,
		EndTime:         now,
		DurationSeconds: duration,
		Goal:            sess.Goal,
		PomodoroCount:   count,
	}); err != nil {
		return nil, fmt.Errorf("archiving session: %w", err)
	}

	if err := w.store.Clear(); err != nil {
		return nil, err
	}

	if err := w.enforce.OnWorkStopped(); err != nil {
		w.logger.Warn("failed to reset enforcement state", zap.Error(err))
	}

	w.notifier.Send("Session complete",
		fmt.Sprintf("Focused for %s. Pomodoro #%d - take a %s break (%s).",
			timefmt.Humanize(duration), count, breakType,
			timefmt.Humanize(breakSecs)),
		w.opts.Sound())

	summary := &StopSummary{
		DurationSeconds:  duration,
		Pomodoros:        count,
		NextBreak:        breakType,
		NextBreakSeconds: breakSecs,
	}

	if w.opts.AutoStartBreak() {
		if err := w.breaks.Start(breakSecs, breakType, false); err != nil {
			w.logger.Warn("failed to auto-start break", zap.Error(err))
		} else {
			summary.BreakStarted = true
		}
	}

	w.logger.Info("work session stopped",
		zap.Int64("duration", duration),
		zap.Int("pomodoros", count),
		zap.String("next_break", string(breakType)))
	return summary, nil
}

// Status reports the current session. Elapsed time is recomputed from
// the persisted start time on every call, so it is correct even when
// invoked from a different process than the one that started the
// session.
func (w *WorkEngine) Status() (*WorkStatus, error) {
	sess, err := w.store.Read()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Status != domain.StatusActive {
		return &WorkStatus{Active: false}, nil
	}
	return &WorkStatus{
		Active:         true,
		ElapsedSeconds: sess.Elapsed(w.now()),
		Goal:           sess.Goal,
		StartTime:      sess.StartTime,
	}, nil
}
