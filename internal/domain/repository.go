package domain

import "time"

// ProcessManager handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// Kill terminates a process by PID.
	Kill(pid int) error

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// CurrentPID returns the current process PID.
	CurrentPID() int
}

// Notifier sends a best-effort desktop notification.
// Implementations must never propagate a failure back to the caller;
// if no notification backend is available, Send is a silent no-op.
type Notifier interface {
	Send(title, body string, sound bool)
}

// HandleRegistry persists timer handles so a later CLI invocation can
// find and cancel background tasks spawned by an earlier one.
type HandleRegistry interface {
	// Record saves the handle for its owner, replacing any previous one.
	Record(h TimerHandle) error

	// Get returns the recorded handle, or (nil, nil) when absent.
	Get(owner TimerOwner) (*TimerHandle, error)

	// Clear removes the handle file. Missing file is not an error.
	Clear(owner TimerOwner) error

	// ClearOwned removes the handle only if it still belongs to pid.
	// Guards a finished task against deleting a successor's handle.
	ClearOwned(owner TimerOwner, pid int) error

	// Path returns the handle file path for an owner.
	Path(owner TimerOwner) string
}

// TaskSpawner starts and cancels detached background tasks. The
// spawned task outlives the invoking process and coordinates with it
// only through persisted state.
type TaskSpawner interface {
	// Spawn launches a detached task for owner and records its handle.
	// extraArgs are forwarded to the daemon invocation verbatim.
	Spawn(owner TimerOwner, extraArgs ...string) (TimerHandle, error)

	// Cancel kills the recorded task if it is still alive and removes
	// the handle. A missing or stale handle is a silent no-op.
	Cancel(owner TimerOwner) error
}

// Archive is the append-only log of completed sessions and breaks,
// partitioned by calendar month. Records are never rewritten.
type Archive interface {
	AppendSession(rec SessionRecord) error
	AppendBreak(rec BreakRecord) error

	// Sessions returns archived sessions whose end time falls in
	// [from, to), ordered as written.
	Sessions(from, to time.Time) ([]SessionRecord, error)
}

// HookDispatcher delivers directory-change events from the external
// shell hook mechanism. Callbacks may be invoked zero or more times
// per process lifetime, from an independent execution context;
// re-registration after a state reload must be idempotent.
type HookDispatcher interface {
	Register(event string, fn func(oldDir, newDir string)) error
}

// CountdownRunner presents a foreground break countdown. Available
// reports whether an interactive terminal is attached; Run blocks
// until the countdown finishes or the operator interrupts it and
// reports which of the two happened.
type CountdownRunner interface {
	Available() bool
	Run(planned time.Duration, remaining time.Duration, title string) (interrupted bool, err error)
}

// EventDirectoryChange is the hook event this core subscribes to.
const EventDirectoryChange = "directory_change"
