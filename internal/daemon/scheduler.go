package daemon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/timefmt"
)

// WithSpawner equips the runner to spawn follow-up tasks. Only the
// scheduled-break loop needs this; the plain timer roles never spawn.
func (r *Runner) WithSpawner(s domain.TaskSpawner) *Runner {
	r.spawner = s
	return r
}

// runScheduledBreak is a standing loop independent of any single
// session: each tick, absent any active work or break session, it
// triggers a background break of the configured short duration. The
// loop terminates when its handle file is removed or re-assigned,
// which is how an explicit stop call reaches an already-detached
// process without signals.
func (r *Runner) runScheduledBreak(ctx context.Context, interval time.Duration) error {
	r.logger.Info("scheduled break loop started", zap.Duration("interval", interval))

	for {
		if !sleep(ctx, interval) {
			return ctx.Err()
		}

		h, err := r.handles.Get(domain.OwnerScheduledBreak)
		if err != nil {
			return err
		}
		if h == nil || h.PID != r.pid {
			r.logger.Info("scheduled break loop stopping, handle removed")
			return nil
		}

		if r.sessionActive() {
			r.logger.Debug("scheduled break skipped, session active")
			continue
		}

		if err := r.triggerBreak(); err != nil {
			r.logger.Warn("scheduled break failed", zap.Error(err))
		}
	}
}

// sessionActive reports whether either a work or break session is
// currently active. Corrupt records read as active so the scheduler
// never tramples state it cannot understand.
func (r *Runner) sessionActive() bool {
	work, err := r.work.Read()
	if err != nil || (work != nil && work.Status == domain.StatusActive) {
		return true
	}
	brk, err := r.breaks.Read()
	if err != nil || (brk != nil && brk.Status == domain.StatusActive) {
		return true
	}
	return false
}

// triggerBreak starts a background short break and arms its timer.
func (r *Runner) triggerBreak() error {
	secs := r.opts.ShortBreak()
	sess := &domain.BreakSession{
		Status:         domain.StatusActive,
		StartTime:      r.now().UTC(),
		PlannedSeconds: secs,
		Type:           domain.BreakShort,
	}
	if err := r.breaks.Write(sess); err != nil {
		return err
	}

	if r.spawner != nil {
		if _, err := r.spawner.Spawn(domain.OwnerBreakTimer,
			"--delay", strconv.FormatInt(secs, 10)); err != nil {
			r.logger.Warn("scheduled break: cannot arm break timer", zap.Error(err))
		}
	}

	r.notifier.Send("Time for a break",
		fmt.Sprintf("You have been away from a session for a while - taking a %s break.",
			timefmt.Humanize(secs)),
		r.opts.Sound())
	r.logger.Info("scheduled break triggered", zap.Int64("planned", secs))
	return nil
}
