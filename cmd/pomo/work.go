package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pomokit/pomo/internal/timefmt"
	"github.com/pomokit/pomo/internal/usecase"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Manage work sessions",
}

var workStartCmd = &cobra.Command{
	Use:   "start [goal...]",
	Short: "Start a work session",
	Long: `Starts a focus session and arms a background timer for the
configured work duration. The timer notifies you when the pomodoro is
up; stopping the session remains an explicit action.`,
	RunE: runWorkStart,
}

var workStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active work session",
	RunE:  runWorkStop,
}

var workStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active work session",
	RunE:  runWorkStatus,
}

var workStatsCmd = &cobra.Command{
	Use:   "stats [today|week|month]",
	Short: "Show focus statistics from the session archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkStats,
}

var workResetCountCmd = &cobra.Command{
	Use:   "reset-count",
	Short: "Reset the pomodoro counter to zero",
	RunE:  runWorkResetCount,
}

func init() {
	workCmd.AddCommand(workStartCmd)
	workCmd.AddCommand(workStopCmd)
	workCmd.AddCommand(workStatusCmd)
	workCmd.AddCommand(workStatsCmd)
	workCmd.AddCommand(workResetCountCmd)
}

func runWorkStart(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	goal := strings.Join(args, " ")
	if err := a.work.Start(goal); err != nil {
		return err
	}

	fmt.Printf("Work session started (%s).\n", timefmt.FormatSeconds(a.opts.WorkDuration()))
	if goal != "" {
		fmt.Printf("Goal: %s\n", goal)
	}
	return nil
}

func runWorkStop(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.work.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("Session complete: focused for %s (pomodoro #%d).\n",
		timefmt.FormatSeconds(summary.DurationSeconds), summary.Pomodoros)
	if summary.BreakStarted {
		fmt.Printf("Started a %s break (%s) in the background.\n",
			summary.NextBreak, timefmt.FormatSeconds(summary.NextBreakSeconds))
	} else {
		fmt.Printf("Suggested: a %s break (%s). Run 'pomo break start'.\n",
			summary.NextBreak, timefmt.FormatSeconds(summary.NextBreakSeconds))
	}
	return nil
}

func runWorkStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.work.Status()
	if err != nil {
		return err
	}

	if !st.Active {
		fmt.Println(mutedStyle.Render("No active work session."))
		return nil
	}

	fmt.Println(headerStyle.Render("Work session active"))
	fmt.Printf("  Elapsed:  %s\n", valueStyle.Render(timefmt.FormatSeconds(st.ElapsedSeconds)))
	fmt.Printf("  Started:  %s\n", timefmt.FormatUTC(st.StartTime))
	if st.Goal != "" {
		fmt.Printf("  Goal:     %s\n", st.Goal)
	}
	return nil
}

func runWorkStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	period, err := usecase.ParsePeriod(arg)
	if err != nil {
		return err
	}

	report, err := a.stats.Report(period)
	if err != nil {
		return err
	}

	count, err := a.counter.Value()
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Focus stats (%s)", report.Period)))
	fmt.Printf("  Sessions:    %d\n", report.Sessions)
	fmt.Printf("  Total focus: %s\n", timefmt.FormatSeconds(report.TotalSeconds))
	if report.Sessions > 0 {
		fmt.Printf("  Average:     %s\n", timefmt.FormatSeconds(report.AvgSeconds))
	}
	fmt.Printf("  Pomodoros (all time): %d\n", count)
	return nil
}

func runWorkResetCount(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.counter.Reset(); err != nil {
		return err
	}
	fmt.Println("Pomodoro counter reset to 0.")
	return nil
}
