package usecase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
)

// mockSpawner records spawn/cancel calls without real processes.
type mockSpawner struct {
	spawned   []domain.TimerOwner
	cancelled []domain.TimerOwner
	spawnErr  error
}

func (m *mockSpawner) Spawn(owner domain.TimerOwner, extraArgs ...string) (domain.TimerHandle, error) {
	if m.spawnErr != nil {
		return domain.TimerHandle{}, m.spawnErr
	}
	m.spawned = append(m.spawned, owner)
	return domain.TimerHandle{PID: 9999, Owner: owner}, nil
}

func (m *mockSpawner) Cancel(owner domain.TimerOwner) error {
	m.cancelled = append(m.cancelled, owner)
	return nil
}

// mockNotifier captures sent notifications.
type mockNotifier struct {
	titles []string
	bodies []string
}

func (m *mockNotifier) Send(title, body string, sound bool) {
	m.titles = append(m.titles, title)
	m.bodies = append(m.bodies, body)
}

// mockCountdown simulates the blocking countdown UI.
type mockCountdown struct {
	available   bool
	interrupted bool
	runs        int
}

func (m *mockCountdown) Available() bool { return m.available }

func (m *mockCountdown) Run(planned, remaining time.Duration, title string) (bool, error) {
	m.runs++
	return m.interrupted, nil
}

// testEnv wires real stores over a temp dir with mock collaborators
// and a controllable clock.
type testEnv struct {
	work      *WorkEngine
	breaks    *BreakEngine
	enforce   *EnforceEngine
	counter   *Counter
	archive   *infra.FileArchive
	spawner   *mockSpawner
	notifier  *mockNotifier
	countdown *mockCountdown
	workStore *infra.Store[domain.WorkSession]
	brkStore  *infra.Store[domain.BreakSession]
	clock     *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) set(t time.Time)         { c.t = t }

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o600))
	opts, err := config.Load(cfgPath)
	require.NoError(t, err)

	logger := zap.NewNop()
	paths := infra.NewPaths(filepath.Join(dir, "state"))

	workStore := infra.NewStore[domain.WorkSession](paths.WorkSession())
	brkStore := infra.NewStore[domain.BreakSession](paths.BreakSession())
	enfStore := infra.NewStore[domain.EnforcementState](paths.Enforcement())

	clock := &fakeClock{t: time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)}
	spawner := &mockSpawner{}
	notifier := &mockNotifier{}
	countdown := &mockCountdown{}
	archive := infra.NewArchive(paths.ArchiveDir())
	counter := NewCounter(paths.PomodoroCount())

	enforce := NewEnforceEngine(enfStore, workStore, notifier, opts, logger)
	enforce.now = clock.now

	breaks := NewBreakEngine(brkStore, counter, archive, enforce, spawner, notifier, countdown, opts, logger)
	breaks.now = clock.now

	work := NewWorkEngine(workStore, counter, archive, enforce, breaks, spawner, notifier, opts, logger)
	work.now = clock.now

	return &testEnv{
		work:      work,
		breaks:    breaks,
		enforce:   enforce,
		counter:   counter,
		archive:   archive,
		spawner:   spawner,
		notifier:  notifier,
		countdown: countdown,
		workStore: workStore,
		brkStore:  brkStore,
		clock:     clock,
	}
}
