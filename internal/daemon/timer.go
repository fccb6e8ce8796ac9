package daemon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
	"github.com/pomokit/pomo/internal/timefmt"
)

// Runner hosts the daemon role loops. Every loop sleeps for its full
// delay or interval in one blocking call, then re-reads the owning
// state record before acting: a manual stop may have raced the wakeup,
// and the existence check - not the cancellation signal - is what
// keeps that race safe.
type Runner struct {
	work     *infra.Store[domain.WorkSession]
	breaks   *infra.Store[domain.BreakSession]
	handles  domain.HandleRegistry
	notifier domain.Notifier
	opts     *config.Options
	logger   *zap.Logger
	spawner  domain.TaskSpawner
	now      func() time.Time
	pid      int
}

// NewRunner creates a daemon runner for the current process.
func NewRunner(
	work *infra.Store[domain.WorkSession],
	breaks *infra.Store[domain.BreakSession],
	handles domain.HandleRegistry,
	notifier domain.Notifier,
	opts *config.Options,
	logger *zap.Logger,
	pid int,
) *Runner {
	return &Runner{
		work:     work,
		breaks:   breaks,
		handles:  handles,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		pid:      pid,
	}
}

// Run dispatches to the role loop. delay and interval arrive in
// seconds from the spawning invocation.
func (r *Runner) Run(ctx context.Context, role domain.TimerOwner, delay, interval int64) error {
	defer func() {
		// Natural completion removes our own handle, but only if no
		// successor task has replaced it in the meantime.
		if err := r.handles.ClearOwned(role, r.pid); err != nil {
			r.logger.Debug("handle cleanup failed", zap.Error(err))
		}
	}()

	switch role {
	case domain.OwnerWorkTimer:
		return r.runWorkTimer(ctx, time.Duration(delay)*time.Second)
	case domain.OwnerWorkReminder:
		return r.runReminder(ctx, time.Duration(interval)*time.Second)
	case domain.OwnerBreakTimer:
		return r.runBreakTimer(ctx, time.Duration(delay)*time.Second)
	case domain.OwnerScheduledBreak:
		return r.runScheduledBreak(ctx, time.Duration(interval)*time.Second)
	default:
		return fmt.Errorf("unknown daemon role: %s", role)
	}
}

// runWorkTimer sleeps for the pomodoro duration and sends a completion
// notification if the session is still running. It never stops the
// session itself; stopping stays an explicit operator action.
func (r *Runner) runWorkTimer(ctx context.Context, delay time.Duration) error {
	r.logger.Info("work timer armed", zap.Duration("delay", delay))

	if !sleep(ctx, delay) {
		return ctx.Err()
	}

	sess, err := r.work.Read()
	if err != nil {
		r.logger.Warn("work timer: cannot read session", zap.Error(err))
		return err
	}
	if sess == nil || sess.Status != domain.StatusActive {
		r.logger.Info("work timer fired after session ended, nothing to do")
		return nil
	}

	body := fmt.Sprintf("Pomodoro finished after %s. Stop when ready and take a break.",
		timefmt.Humanize(sess.Elapsed(r.now())))
	if sess.Goal != "" {
		body = fmt.Sprintf("Goal: %s. %s", sess.Goal, body)
	}
	r.notifier.Send("Pomodoro complete", body, r.opts.Sound())
	r.logger.Info("work timer fired")
	return nil
}

// runReminder re-fires at a fixed interval for as long as the work
// session record exists. Elapsed time is recomputed from the persisted
// start time each tick so the reminder stays truthful across
// suspend/resume.
func (r *Runner) runReminder(ctx context.Context, interval time.Duration) error {
	r.logger.Info("reminder loop started", zap.Duration("interval", interval))

	for {
		if !sleep(ctx, interval) {
			return ctx.Err()
		}

		sess, err := r.work.Read()
		if err != nil {
			r.logger.Warn("reminder: cannot read session", zap.Error(err))
			return err
		}
		if sess == nil || sess.Status != domain.StatusActive {
			r.logger.Info("reminder loop ending, session gone")
			return nil
		}

		elapsed := sess.Elapsed(r.now())
		body := fmt.Sprintf("Still focusing - %s elapsed.", timefmt.Humanize(elapsed))
		if sess.Goal != "" {
			body += fmt.Sprintf(" Goal: %s", sess.Goal)
		}
		r.notifier.Send("Focus check-in", body, false)
	}
}

// runBreakTimer sleeps for the planned break, then marks the break
// auto-completed. It never deletes the record; only an explicit stop
// does that.
func (r *Runner) runBreakTimer(ctx context.Context, delay time.Duration) error {
	r.logger.Info("break timer armed", zap.Duration("delay", delay))

	if !sleep(ctx, delay) {
		return ctx.Err()
	}

	sess, err := r.breaks.Read()
	if err != nil {
		r.logger.Warn("break timer: cannot read session", zap.Error(err))
		return err
	}
	if sess == nil || sess.Status != domain.StatusActive || sess.AutoCompleted {
		r.logger.Info("break timer fired after break ended, nothing to do")
		return nil
	}

	if err := r.breaks.Update(func(b *domain.BreakSession) error {
		b.AutoCompleted = true
		return nil
	}); err != nil {
		// The operator may have stopped the break between our read and
		// this update; that race is a legal outcome.
		r.logger.Info("break timer: record gone before update", zap.Error(err))
		return nil
	}

	r.notifier.Send("Break finished",
		fmt.Sprintf("Your %s break is over - ready for the next session.",
			timefmt.Humanize(sess.PlannedSeconds)),
		r.opts.Sound())
	r.logger.Info("break timer fired")
	return nil
}

// sleep blocks for d or until ctx is cancelled. Returns false on
// cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
