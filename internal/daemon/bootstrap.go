// Package daemon implements the detached background tasks: the work
// timer, the reminder loop, the break timer, and the scheduled-break
// loop. Each task is a re-exec of the pomo binary that outlives the
// invoking CLI process and coordinates with it purely through
// persisted state.
package daemon

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/pomokit/pomo/internal/domain"
)

// Spawner launches and cancels detached daemon processes, recording a
// durable handle per task so a later CLI invocation can find them.
type Spawner struct {
	handles domain.HandleRegistry
	pm      domain.ProcessManager
}

// NewSpawner creates a task spawner.
func NewSpawner(handles domain.HandleRegistry, pm domain.ProcessManager) *Spawner {
	return &Spawner{handles: handles, pm: pm}
}

// Spawn self-execs the binary with the hidden daemon command, fully
// detached (new session, no stdio), then records the child's handle.
func (s *Spawner) Spawn(owner domain.TimerOwner, extraArgs ...string) (domain.TimerHandle, error) {
	executable, err := os.Executable()
	if err != nil {
		return domain.TimerHandle{}, err
	}

	args := append([]string{"daemon", "--role", string(owner)}, extraArgs...)
	cmd := exec.Command(executable, args...)

	// Detach from parent process and terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return domain.TimerHandle{}, err
	}

	h := domain.TimerHandle{PID: cmd.Process.Pid, Owner: owner}
	if err := s.handles.Record(h); err != nil {
		return h, err
	}

	// The parent never waits; the child is reparented to init.
	_ = cmd.Process.Release()
	return h, nil
}

// Cancel kills the recorded task if it is still alive and removes the
// handle. A missing handle or an already-dead PID is a silent no-op:
// the task either fired already or crashed, and its own existence
// check is the real race guard.
func (s *Spawner) Cancel(owner domain.TimerOwner) error {
	h, err := s.handles.Get(owner)
	if err != nil {
		return err
	}
	if h == nil {
		return nil
	}

	if s.pm.IsRunning(h.PID) {
		_ = s.pm.Kill(h.PID)
	}
	return s.handles.Clear(owner)
}

var _ domain.TaskSpawner = (*Spawner)(nil)
