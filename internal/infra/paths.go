package infra

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pomokit/pomo/internal/domain"
)

// Paths resolves every persisted file under a single state directory.
// One file per concern; paths are externally configurable via the
// state_dir option.
type Paths struct {
	stateDir string
}

// NewPaths creates a path resolver. The directory may contain a
// leading ~ which is expanded against the user's home.
func NewPaths(stateDir string) *Paths {
	return &Paths{stateDir: ExpandHome(stateDir)}
}

// StateDir returns the resolved state directory.
func (p *Paths) StateDir() string { return p.stateDir }

// WorkSession returns the work-session record path.
func (p *Paths) WorkSession() string {
	return filepath.Join(p.stateDir, "work_session.json")
}

// BreakSession returns the break-session record path.
func (p *Paths) BreakSession() string {
	return filepath.Join(p.stateDir, "break_session.json")
}

// PomodoroCount returns the pomodoro-counter record path.
func (p *Paths) PomodoroCount() string {
	return filepath.Join(p.stateDir, "pomodoro_count.json")
}

// Enforcement returns the enforcement-state record path.
func (p *Paths) Enforcement() string {
	return filepath.Join(p.stateDir, "enforcement.json")
}

// HandlesDir returns the directory holding timer-handle files.
func (p *Paths) HandlesDir() string {
	return filepath.Join(p.stateDir, "handles")
}

// Handle returns the handle file path for a timer owner.
func (p *Paths) Handle(owner domain.TimerOwner) string {
	return filepath.Join(p.HandlesDir(), string(owner)+".pid")
}

// ArchiveDir returns the directory holding per-month archive logs.
func (p *Paths) ArchiveDir() string {
	return filepath.Join(p.stateDir, "archive")
}

// LogFile returns the daemon log file path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, "pomo.log")
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
