package infra

import (
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/pomokit/pomo/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// Kill terminates a process by PID.
func (pm *ProcessManagerImpl) Kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	// On Unix, FindProcess always succeeds
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}

// CurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) CurrentPID() int {
	return os.Getpid()
}

var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
