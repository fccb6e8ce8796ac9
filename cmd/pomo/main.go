// Package main is the CLI entry point for pomo.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/daemon"
	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
	"github.com/pomokit/pomo/internal/tui"
	"github.com/pomokit/pomo/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.3.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

// Exit codes. User errors (already active, nothing active) and a
// missing expected state file get dedicated codes so shell
// integrations can branch on them.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUser     = 2
	exitNotFound = 3
)

var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case domain.IsUserError(err):
		return exitUser
	case errors.Is(err, domain.ErrStateNotFound):
		return exitNotFound
	}
	return exitFailure
}

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "Personal focus and break tracker",
	Long: `pomo tracks alternating work and break sessions in the pomodoro
style. Session timers run as detached background processes, so the CLI
returns immediately while completion and reminder notifications still
fire on time. Under strict enforcement it also watches for project
switches during an active session and escalates warnings.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var jsonOutput bool

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.config/pomo/config.yaml)")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(workCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(enforceCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(hookCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("pomo %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
	}
}

// app wires every engine over the shared state directory. Each CLI
// invocation builds a fresh app; all continuity lives in the state
// files.
type app struct {
	opts     *config.Options
	paths    *infra.Paths
	logger   *zap.Logger
	notifier domain.Notifier

	workStore *infra.Store[domain.WorkSession]
	brkStore  *infra.Store[domain.BreakSession]
	enfStore  *infra.Store[domain.EnforcementState]

	pm      domain.ProcessManager
	handles *infra.FileHandleRegistry
	spawner *daemon.Spawner

	counter *usecase.Counter
	enforce *usecase.EnforceEngine
	breaks  *usecase.BreakEngine
	work    *usecase.WorkEngine
	stats   *usecase.StatsEngine
}

// newApp builds the CLI-side dependency graph. forDaemon selects the
// file logger so detached tasks never write to a terminal they no
// longer own.
func newApp(forDaemon bool) (*app, error) {
	opts, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	paths := infra.NewPaths(opts.StateDir())

	var logger *zap.Logger
	if forDaemon {
		if err := os.MkdirAll(paths.StateDir(), 0o700); err != nil {
			return nil, err
		}
		logger = createDaemonLogger(paths.LogFile())
	} else {
		logger = createCLILogger()
	}

	notifier := infra.NewNotifier(logger)
	pm := infra.NewProcessManager()
	handles := infra.NewHandleRegistry(paths.HandlesDir())
	spawner := daemon.NewSpawner(handles, pm)

	workStore := infra.NewStore[domain.WorkSession](paths.WorkSession())
	brkStore := infra.NewStore[domain.BreakSession](paths.BreakSession())
	enfStore := infra.NewStore[domain.EnforcementState](paths.Enforcement())

	archive := infra.NewArchive(paths.ArchiveDir())
	counter := usecase.NewCounter(paths.PomodoroCount())

	enforce := usecase.NewEnforceEngine(enfStore, workStore, notifier, opts, logger)
	breaks := usecase.NewBreakEngine(brkStore, counter, archive, enforce,
		spawner, notifier, tui.NewCountdown(), opts, logger)
	work := usecase.NewWorkEngine(workStore, counter, archive, enforce,
		breaks, spawner, notifier, opts, logger)

	return &app{
		opts:      opts,
		paths:     paths,
		logger:    logger,
		notifier:  notifier,
		workStore: workStore,
		brkStore:  brkStore,
		enfStore:  enfStore,
		pm:        pm,
		handles:   handles,
		spawner:   spawner,
		counter:   counter,
		enforce:   enforce,
		breaks:    breaks,
		work:      work,
		stats:     usecase.NewStatsEngine(archive),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// createCLILogger keeps interactive output clean: human-facing text
// goes through fmt, the logger only surfaces warnings.
func createCLILogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// createDaemonLogger writes structured logs to the state directory,
// since a detached task has no terminal.
func createDaemonLogger(path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
