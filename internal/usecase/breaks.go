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

// BreakStatus is the read-only view of the current break session.
type BreakStatus struct {
	Active           bool
	Type             domain.BreakType
	ElapsedSeconds   int64
	RemainingSeconds int64
	PlannedSeconds   int64
	AutoCompleted    bool
}

// BreakStopSummary describes a finished break.
type BreakStopSummary struct {
	ElapsedSeconds int64
	PlannedSeconds int64
	CompletedFully bool
}

// BreakEngine owns the break-session state machine. In blocking mode
// it runs a foreground countdown and stops itself; in background mode
// it spawns a detached timer that marks the break auto-completed.
type BreakEngine struct {
	store     *infra.Store[domain.BreakSession]
	counter   *Counter
	archive   domain.Archive
	enforce   *EnforceEngine
	spawner   domain.TaskSpawner
	notifier  domain.Notifier
	countdown domain.CountdownRunner
	opts      *config.Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewBreakEngine creates the break-session engine. countdown may be
// nil, which forces background mode.
func NewBreakEngine(
	store *infra.Store[domain.BreakSession],
	counter *Counter,
	archive domain.Archive,
	enforce *EnforceEngine,
	spawner domain.TaskSpawner,
	notifier domain.Notifier,
	countdown domain.CountdownRunner,
	opts *config.Options,
	logger *zap.Logger,
) *BreakEngine {
	return &BreakEngine{
		store:     store,
		counter:   counter,
		archive:   archive,
		enforce:   enforce,
		spawner:   spawner,
		notifier:  notifier,
		countdown: countdown,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins a break. A zero duration auto-selects type and length
// from the pomodoro count and the long-break cadence. Blocking mode
// needs an interactive terminal; without one it falls back to
// background mode rather than failing.
func (b *BreakEngine) Start(durationSecs int64, breakType domain.BreakType, blocking bool) error {
	existing, err := b.store.Read()
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == domain.StatusActive {
		return fmt.Errorf("%w: %s remaining", domain.ErrAlreadyActive,
			timefmt.FormatSeconds(existing.Remaining(b.now())))
	}

	if durationSecs <= 0 {
		count, err := b.counter.Value()
		if err != nil {
			return err
		}
		breakType = SelectBreakType(count, b.opts.PomodorosUntilLong())
		durationSecs = b.opts.ShortBreak()
		if breakType == domain.BreakLong {
			durationSecs = b.opts.LongBreak()
		}
	} else if breakType == "" {
		breakType = domain.BreakCustom
	}

	if blocking && (b.countdown == nil || !b.countdown.Available()) {
		b.logger.Info("no interactive terminal, break falls back to background mode")
		blocking = false
	}

	sess := &domain.BreakSession{
		Status:         domain.StatusActive,
		StartTime:      b.now().UTC(),
		PlannedSeconds: durationSecs,
		Type:           breakType,
		Blocking:       blocking,
	}
	if err := b.store.Write(sess); err != nil {
		return err
	}

	b.logger.Info("break started",
		zap.String("type", string(breakType)),
		zap.Int64("planned", durationSecs),
		zap.Bool("blocking", blocking))

	if blocking {
		return b.runBlocking(sess)
	}

	if _, err := b.spawner.Spawn(domain.OwnerBreakTimer,
		"--delay", strconv.FormatInt(durationSecs, 10)); err != nil {
		b.logger.Warn("failed to spawn break timer", zap.Error(err))
	}
	return nil
}

// runBlocking drives the foreground countdown, then stops the break
// itself whether it completed naturally or was interrupted.
func (b *BreakEngine) runBlocking(sess *domain.BreakSession) error {
	planned := time.Duration(sess.PlannedSeconds) * time.Second
	remaining := time.Duration(sess.Remaining(b.now())) * time.Second
	title := fmt.Sprintf("%s break", sess.Type)

	interrupted, err := b.countdown.Run(planned, remaining, title)
	if err != nil {
		b.logger.Warn("countdown failed", zap.Error(err))
	}
	if interrupted {
		b.logger.Info("break interrupted by operator")
	}

	_, err = b.Stop()
	return err
}

// Stop ends the break, classifies compliance against the 80% rule,
// archives a compliance record, and clears the require-break gate when
// the break was fully taken.
func (b *BreakEngine) Stop() (*BreakStopSummary, error) {
	sess, err := b.store.Read()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrNoActiveSession
	}

	now := b.now().UTC()
	elapsed := sess.Elapsed(now)
	completedFully := sess.CompletedFully(now)

	if err := b.spawner.Cancel(domain.OwnerBreakTimer); err != nil {
		b.logger.Debug("break timer cancel", zap.Error(err))
	}

	if err := b.archive.AppendBreak(domain.BreakRecord{
		StartTime:      sess.StartTime,
		EndTime:        now,
		PlannedSeconds: sess.PlannedSeconds,
		ElapsedSeconds: elapsed,
		Type:           sess.Type,
		CompletedFully: completedFully,
	}); err != nil {
		b.logger.Warn("failed to archive break", zap.Error(err))
	}

	if err := b.store.Clear(); err != nil {
		return nil, err
	}

	if err := b.enforce.OnBreakCompleted(completedFully); err != nil {
		b.logger.Warn("failed to update enforcement state", zap.Error(err))
	}

	b.logger.Info("break stopped",
		zap.Int64("elapsed", elapsed),
		zap.Bool("completed_fully", completedFully))

	return &BreakStopSummary{
		ElapsedSeconds: elapsed,
		PlannedSeconds: sess.PlannedSeconds,
		CompletedFully: completedFully,
	}, nil
}

// Status reports the current break. Remaining time is floor-clamped so
// it never reads negative after the planned duration has passed.
func (b *BreakEngine) Status() (*BreakStatus, error) {
	sess, err := b.store.Read()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Status != domain.StatusActive {
		return &BreakStatus{Active: false}, nil
	}
	now := b.now()
	return &BreakStatus{
		Active:           true,
		Type:             sess.Type,
		ElapsedSeconds:   sess.Elapsed(now),
		RemainingSeconds: sess.Remaining(now),
		PlannedSeconds:   sess.PlannedSeconds,
		AutoCompleted:    sess.AutoCompleted,
	}, nil
}
