// Package domain contains core business entities and interfaces.
// This is the innermost layer - no external dependencies.
package domain

import "time"

// SessionStatus is the lifecycle state of a work or break session.
type SessionStatus string

const (
	StatusInactive SessionStatus = "inactive"
	StatusActive   SessionStatus = "active"
)

// WorkSession is the single active focus session.
// At most one record exists at a time; StartTime is immutable once set.
// Background timers observe this record but never mutate it.
type WorkSession struct {
	Status        SessionStatus `json:"status"`
	StartTime     time.Time     `json:"start_time"`
	Goal          string        `json:"goal,omitempty"`
	PausedSeconds int64         `json:"paused_duration"`
	LastUpdated   time.Time     `json:"last_updated"`
}

// Elapsed returns seconds of focus time at now, net of pauses.
// Always recomputed from StartTime so it stays correct across
// suspend/resume and across processes.
func (s *WorkSession) Elapsed(now time.Time) int64 {
	e := int64(now.Sub(s.StartTime).Seconds()) - s.PausedSeconds
	if e < 0 {
		return 0
	}
	return e
}

// BreakType classifies a break session.
type BreakType string

const (
	BreakShort  BreakType = "short"
	BreakLong   BreakType = "long"
	BreakCustom BreakType = "custom"
)

// BreakSession is the single active break session.
type BreakSession struct {
	Status         SessionStatus `json:"status"`
	StartTime      time.Time     `json:"start_time"`
	PlannedSeconds int64         `json:"duration_planned"`
	Type           BreakType     `json:"type"`
	Blocking       bool          `json:"blocking_mode"`
	AutoCompleted  bool          `json:"auto_completed"`
}

// Elapsed returns seconds since the break started.
func (b *BreakSession) Elapsed(now time.Time) int64 {
	e := int64(now.Sub(b.StartTime).Seconds())
	if e < 0 {
		return 0
	}
	return e
}

// Remaining returns seconds left in the planned break, clamped at zero.
func (b *BreakSession) Remaining(now time.Time) int64 {
	r := b.PlannedSeconds - b.Elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

// CompletedFully reports whether the break ran for at least 80% of its
// planned duration. Integer math: elapsed*100 >= planned*80.
func (b *BreakSession) CompletedFully(now time.Time) bool {
	return b.Elapsed(now)*100 >= b.PlannedSeconds*80
}

// PomodoroCount is the durable count of completed focus sessions.
type PomodoroCount struct {
	Count int `json:"count"`
}

// EnforcementMode is the focus-discipline policy level.
// Only ModeStrict activates violation tracking.
type EnforcementMode string

const (
	ModeOff      EnforcementMode = "off"
	ModeCoaching EnforcementMode = "coaching"
	ModeModerate EnforcementMode = "moderate"
	ModeStrict   EnforcementMode = "strict"
)

// ValidMode reports whether s names a known enforcement mode.
func ValidMode(s string) bool {
	switch EnforcementMode(s) {
	case ModeOff, ModeCoaching, ModeModerate, ModeStrict:
		return true
	}
	return false
}

// EnforcementState tracks project-switch violations for the active
// work session. Owned exclusively by the enforcement engine; cleared
// when the work session stops or a required break completes.
type EnforcementState struct {
	Violations    int       `json:"violations"`
	ActiveProject string    `json:"active_project"`
	ActiveGoal    string    `json:"active_goal,omitempty"`
	BreakRequired bool      `json:"break_required"`
	LastBreakEnd  time.Time `json:"last_break_end,omitempty"`
}

// TimerOwner identifies which subsystem a background task belongs to.
type TimerOwner string

const (
	OwnerWorkTimer      TimerOwner = "work-timer"
	OwnerWorkReminder   TimerOwner = "work-reminder"
	OwnerBreakTimer     TimerOwner = "break-timer"
	OwnerScheduledBreak TimerOwner = "scheduled-break"
)

// TimerHandle records a spawned background task so a later process can
// attempt cancellation. A missing or stale handle means the task
// already fired or died; that is never an error.
type TimerHandle struct {
	PID   int        `json:"pid"`
	Owner TimerOwner `json:"owner"`
}

// SessionRecord is one immutable completed-session entry in the
// append-only archive, partitioned by calendar month.
type SessionRecord struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
	Goal            string    `json:"goal,omitempty"`
	PomodoroCount   int       `json:"pomodoro_count"`
}

// BreakRecord is one immutable break-compliance entry.
type BreakRecord struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PlannedSeconds int64     `json:"planned_seconds"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	Type           BreakType `json:"type"`
	CompletedFully bool      `json:"completed_fully"`
}
