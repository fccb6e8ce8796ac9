package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/timefmt"
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Manage break sessions",
}

var (
	breakBlocking   bool
	breakBackground bool
)

var breakStartCmd = &cobra.Command{
	Use:   "start [duration] [short|long|custom]",
	Short: "Start a break",
	Long: `Starts a break session. Without arguments the type and length are
chosen from the pomodoro count and the long-break cadence. With
--blocking and an interactive terminal a countdown runs in the
foreground; otherwise the break runs in the background and a timer
notifies you when it is over.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runBreakStart,
}

var breakStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active break",
	RunE:  runBreakStop,
}

var breakStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active break",
	RunE:  runBreakStatus,
}

var breakScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Control the scheduled-break daemon",
	Long: `The scheduled-break daemon periodically starts a background break
whenever no work or break session is active.`,
}

var breakScheduleStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduled-break daemon",
	RunE:  runScheduleStart,
}

var breakScheduleStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the scheduled-break daemon",
	RunE:  runScheduleStop,
}

var breakScheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the scheduled-break daemon is running",
	RunE:  runScheduleStatus,
}

func init() {
	breakStartCmd.Flags().BoolVar(&breakBlocking, "blocking", false, "Run a foreground countdown")
	breakStartCmd.Flags().BoolVar(&breakBackground, "background", false, "Run the break in the background (default)")
	breakStartCmd.MarkFlagsMutuallyExclusive("blocking", "background")

	breakScheduleCmd.AddCommand(breakScheduleStartCmd)
	breakScheduleCmd.AddCommand(breakScheduleStopCmd)
	breakScheduleCmd.AddCommand(breakScheduleStatusCmd)

	breakCmd.AddCommand(breakStartCmd)
	breakCmd.AddCommand(breakStopCmd)
	breakCmd.AddCommand(breakStatusCmd)
	breakCmd.AddCommand(breakScheduleCmd)
}

func runBreakStart(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	var durationSecs int64
	var breakType domain.BreakType

	for _, arg := range args {
		switch arg {
		case "short":
			breakType = domain.BreakShort
			durationSecs = a.opts.ShortBreak()
		case "long":
			breakType = domain.BreakLong
			durationSecs = a.opts.LongBreak()
		case "custom":
			breakType = domain.BreakCustom
		default:
			durationSecs, err = timefmt.ParseDuration(arg)
			if err != nil {
				return err
			}
		}
	}

	// A bare "custom" keyword still needs a length.
	if breakType == domain.BreakCustom && durationSecs == 0 {
		durationSecs = a.opts.ShortBreak()
	}

	if err := a.breaks.Start(durationSecs, breakType, breakBlocking); err != nil {
		return err
	}

	if !breakBlocking {
		st, err := a.breaks.Status()
		if err == nil && st.Active {
			fmt.Printf("Break started (%s %s) in the background.\n",
				st.Type, timefmt.FormatSeconds(st.PlannedSeconds))
		}
	}
	return nil
}

func runBreakStop(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.breaks.Stop()
	if err != nil {
		return err
	}

	outcome := "cut short"
	if summary.CompletedFully {
		outcome = "completed"
	}
	fmt.Printf("Break %s after %s of %s planned.\n", outcome,
		timefmt.FormatSeconds(summary.ElapsedSeconds),
		timefmt.FormatSeconds(summary.PlannedSeconds))
	return nil
}

func runBreakStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.breaks.Status()
	if err != nil {
		return err
	}

	if !st.Active {
		fmt.Println(mutedStyle.Render("No active break."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s break active", st.Type)))
	fmt.Printf("  Elapsed:   %s\n", timefmt.FormatSeconds(st.ElapsedSeconds))
	fmt.Printf("  Remaining: %s\n", valueStyle.Render(timefmt.FormatSeconds(st.RemainingSeconds)))
	if st.AutoCompleted {
		fmt.Println(mutedStyle.Render("  Timer already fired; run 'pomo break stop' to close it out."))
	}
	return nil
}

func runScheduleStart(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if h, err := a.handles.Get(domain.OwnerScheduledBreak); err != nil {
		return err
	} else if h != nil && a.pm.IsRunning(h.PID) {
		fmt.Println("Scheduled-break daemon is already running.")
		return nil
	}

	interval := a.opts.ScheduledBreakInterval()
	if _, err := a.spawner.Spawn(domain.OwnerScheduledBreak,
		"--interval", strconv.FormatInt(interval, 10)); err != nil {
		return err
	}

	fmt.Printf("Scheduled-break daemon started (every %s).\n", timefmt.FormatSeconds(interval))
	return nil
}

func runScheduleStop(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	// Cancel is a silent no-op when the daemon already exited; the
	// removed handle also stops a loop the kill could not reach.
	if err := a.spawner.Cancel(domain.OwnerScheduledBreak); err != nil {
		return err
	}
	fmt.Println("Scheduled-break daemon stopped.")
	return nil
}

func runScheduleStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	h, err := a.handles.Get(domain.OwnerScheduledBreak)
	if err != nil {
		return err
	}
	if h == nil || !a.pm.IsRunning(h.PID) {
		fmt.Println("Scheduled-break daemon is not running.")
		return nil
	}
	fmt.Printf("Scheduled-break daemon is running (pid %d).\n", h.PID)
	return nil
}
