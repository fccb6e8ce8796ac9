// Package usecase contains application business logic: the work and
// break session engines, pomodoro counting, enforcement, and stats.
package usecase

import (
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
)

// Counter is the durable monotonic count of completed work sessions.
// Single-operator assumption: not hardened against true concurrent
// writers, but every write goes through the atomic store so readers
// never see a truncated record.
type Counter struct {
	store *infra.Store[domain.PomodoroCount]
}

// NewCounter creates a counter backed by the record at path.
func NewCounter(path string) *Counter {
	return &Counter{store: infra.NewStore[domain.PomodoroCount](path)}
}

// Value returns the current count; a missing record reads as zero.
func (c *Counter) Value() (int, error) {
	rec, err := c.store.Read()
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Count, nil
}

// Increment adds one completed pomodoro and returns the new count.
func (c *Counter) Increment() (int, error) {
	cur, err := c.Value()
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if err := c.store.Write(&domain.PomodoroCount{Count: next}); err != nil {
		return 0, err
	}
	return next, nil
}

// Reset sets the count back to zero.
func (c *Counter) Reset() error {
	return c.store.Write(&domain.PomodoroCount{Count: 0})
}

// SelectBreakType picks the break kind for a given completed count.
// Every untilLong-th pomodoro earns a long break; count zero never
// selects long.
func SelectBreakType(count, untilLong int) domain.BreakType {
	if untilLong > 0 && count > 0 && count%untilLong == 0 {
		return domain.BreakLong
	}
	return domain.BreakShort
}
