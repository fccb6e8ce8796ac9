//go:build integration

package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
	"github.com/pomokit/pomo/internal/usecase"
)

// stubSpawner satisfies the spawner contract without forking real
// processes. Integration here means real stores, real archive files
// and real config loading, not real daemons.
type stubSpawner struct {
	spawned  []domain.TimerOwner
	canceled []domain.TimerOwner
}

func (s *stubSpawner) Spawn(owner domain.TimerOwner, extraArgs ...string) (domain.TimerHandle, error) {
	s.spawned = append(s.spawned, owner)
	return domain.TimerHandle{PID: 9999, Owner: owner}, nil
}

func (s *stubSpawner) Cancel(owner domain.TimerOwner) error {
	s.canceled = append(s.canceled, owner)
	return nil
}

type stubNotifier struct {
	titles []string
}

func (n *stubNotifier) Send(title, body string, sound bool) {
	n.titles = append(n.titles, title)
}

// stack is a fully wired engine graph over a throwaway state dir.
type stack struct {
	work    *usecase.WorkEngine
	breaks  *usecase.BreakEngine
	enforce *usecase.EnforceEngine
	counter *usecase.Counter
	stats   *usecase.StatsEngine
	archive *infra.FileArchive
	paths   *infra.Paths
	spawner *stubSpawner
}

func newStack(stateDir, configYAML string) *stack {
	cfgPath := filepath.Join(stateDir, "config.yaml")
	body := fmt.Sprintf("state_dir: %s\n%s", stateDir, configYAML)
	Expect(os.WriteFile(cfgPath, []byte(body), 0o644)).To(Succeed())

	opts, err := config.Load(cfgPath)
	Expect(err).NotTo(HaveOccurred())

	paths := infra.NewPaths(opts.StateDir())
	logger := zap.NewNop()
	notifier := &stubNotifier{}
	spawner := &stubSpawner{}

	workStore := infra.NewStore[domain.WorkSession](paths.WorkSession())
	brkStore := infra.NewStore[domain.BreakSession](paths.BreakSession())
	enfStore := infra.NewStore[domain.EnforcementState](paths.Enforcement())
	archive := infra.NewArchive(paths.ArchiveDir())
	counter := usecase.NewCounter(paths.PomodoroCount())

	enforce := usecase.NewEnforceEngine(enfStore, workStore, notifier, opts, logger)
	breaks := usecase.NewBreakEngine(brkStore, counter, archive, enforce,
		spawner, notifier, nil, opts, logger)
	work := usecase.NewWorkEngine(workStore, counter, archive, enforce,
		breaks, spawner, notifier, opts, logger)

	return &stack{
		work:    work,
		breaks:  breaks,
		enforce: enforce,
		counter: counter,
		stats:   usecase.NewStatsEngine(archive),
		archive: archive,
		paths:   paths,
		spawner: spawner,
	}
}

var _ = Describe("Session Lifecycle", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "pomo-integration-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("a full pomodoro cycle", func() {
		It("archives the session and advances the counter", func() {
			s := newStack(tmpDir, "pomodoros_until_long: 4\n")

			Expect(s.work.Start("write integration tests")).To(Succeed())

			status, err := s.work.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Active).To(BeTrue())
			Expect(status.Goal).To(Equal("write integration tests"))
			Expect(s.spawner.spawned).To(ContainElement(domain.OwnerWorkTimer))

			summary, err := s.work.Stop()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Pomodoros).To(Equal(1))
			Expect(summary.NextBreak).To(Equal(domain.BreakShort))

			// Session record lands in the current month's archive file.
			now := time.Now()
			recs, err := s.archive.Sessions(now.Add(-time.Hour), now.Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].Goal).To(Equal("write integration tests"))
			Expect(recs[0].PomodoroCount).To(Equal(1))

			// The state record is gone; a second stop is a user error.
			_, err = s.work.Stop()
			Expect(err).To(MatchError(domain.ErrNoActiveSession))
		})

		It("refuses a second concurrent session", func() {
			s := newStack(tmpDir, "")

			Expect(s.work.Start("first")).To(Succeed())
			Expect(s.work.Start("second")).To(MatchError(domain.ErrAlreadyActive))

			// The refusal must not have touched the original record.
			status, err := s.work.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Goal).To(Equal("first"))
		})

		It("selects a long break on the cadence boundary", func() {
			s := newStack(tmpDir, "pomodoros_until_long: 2\n")

			Expect(s.work.Start("one")).To(Succeed())
			summary, err := s.work.Stop()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.NextBreak).To(Equal(domain.BreakShort))

			Expect(s.work.Start("two")).To(Succeed())
			summary, err = s.work.Stop()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.NextBreak).To(Equal(domain.BreakLong))
		})

		It("survives process boundaries through the persisted count", func() {
			s := newStack(tmpDir, "")
			Expect(s.work.Start("before restart")).To(Succeed())
			_, err := s.work.Stop()
			Expect(err).NotTo(HaveOccurred())

			// A second stack over the same state dir models a fresh
			// CLI invocation.
			s2 := newStack(tmpDir, "")
			n, err := s2.counter.Value()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})
	})

	Describe("break sessions", func() {
		It("runs a background break end to end", func() {
			s := newStack(tmpDir, "")

			Expect(s.breaks.Start(0, "", false)).To(Succeed())
			Expect(s.spawner.spawned).To(ContainElement(domain.OwnerBreakTimer))

			status, err := s.breaks.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Active).To(BeTrue())
			Expect(status.Type).To(Equal(domain.BreakShort))
			Expect(status.PlannedSeconds).To(Equal(int64(300)))

			summary, err := s.breaks.Stop()
			Expect(err).NotTo(HaveOccurred())
			// Stopped immediately, so well under the compliance bar.
			Expect(summary.CompletedFully).To(BeFalse())
			Expect(s.spawner.canceled).To(ContainElement(domain.OwnerBreakTimer))
		})

		It("treats an explicit duration as a custom break", func() {
			s := newStack(tmpDir, "")

			Expect(s.breaks.Start(120, "", false)).To(Succeed())
			status, err := s.breaks.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Type).To(Equal(domain.BreakCustom))
			Expect(status.PlannedSeconds).To(Equal(int64(120)))
		})
	})

	Describe("strict enforcement with a required break", func() {
		const cfg = "enforcement_mode: strict\nrequire_break: true\ndistraction_threshold: 2\n"

		It("gates the next session until a break completes", func() {
			s := newStack(tmpDir, cfg)

			Expect(s.work.Start("focus")).To(Succeed())
			_, err := s.work.Stop()
			Expect(err).NotTo(HaveOccurred())

			required, err := s.enforce.BreakRequired()
			Expect(err).NotTo(HaveOccurred())
			Expect(required).To(BeTrue())

			Expect(s.work.Start("too soon")).To(MatchError(domain.ErrBreakRequired))

			// Backdate the break start so it classifies as fully
			// completed and lifts the gate.
			Expect(s.breaks.Start(0, "", false)).To(Succeed())
			brkStore := infra.NewStore[domain.BreakSession](s.paths.BreakSession())
			Expect(brkStore.Update(func(b *domain.BreakSession) error {
				b.StartTime = time.Now().Add(-10 * time.Minute)
				return nil
			})).To(Succeed())
			_, err = s.breaks.Stop()
			Expect(err).NotTo(HaveOccurred())

			required, err = s.enforce.BreakRequired()
			Expect(err).NotTo(HaveOccurred())
			Expect(required).To(BeFalse())
			Expect(s.work.Start("rested")).To(Succeed())
		})

		It("counts project switches only during an active session", func() {
			s := newStack(tmpDir, cfg)

			// No session: events are ignored.
			s.enforce.HandleDirectoryChange("/home/u/projects/alpha", "/home/u/projects/beta")
			state, err := s.enforce.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())

			Expect(s.work.Start("stay on alpha")).To(Succeed())
			s.enforce.HandleDirectoryChange("/tmp", "/home/u/projects/alpha")
			s.enforce.HandleDirectoryChange("/home/u/projects/alpha", "/home/u/projects/beta")
			s.enforce.HandleDirectoryChange("/home/u/projects/beta", "/home/u/projects/gamma")

			state, err = s.enforce.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(state).NotTo(BeNil())
			Expect(state.ActiveProject).To(Equal("alpha"))
			Expect(state.Violations).To(Equal(2))

			Expect(s.enforce.ResetViolations()).To(Succeed())
			state, err = s.enforce.Status()
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Violations).To(BeZero())
			Expect(state.ActiveProject).To(Equal("alpha"))
		})
	})

	Describe("statistics", func() {
		It("aggregates today's archived sessions", func() {
			s := newStack(tmpDir, "")

			for i := 0; i < 3; i++ {
				Expect(s.work.Start(fmt.Sprintf("session %d", i+1))).To(Succeed())
				_, err := s.work.Stop()
				Expect(err).NotTo(HaveOccurred())
			}

			report, err := s.stats.Report(usecase.PeriodToday)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Sessions).To(Equal(3))
		})
	})
})
