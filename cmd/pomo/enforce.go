package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pomokit/pomo/internal/config"
	"github.com/pomokit/pomo/internal/domain"
)

var enforceCmd = &cobra.Command{
	Use:   "enforce",
	Short: "Manage focus enforcement",
	Long: `Enforcement watches for project switches during an active work
session. Modes: off, coaching, moderate, strict. Only strict mode
tracks violations and escalates warnings.`,
}

var enforceSetModeCmd = &cobra.Command{
	Use:   "set-mode <off|coaching|moderate|strict>",
	Short: "Set the enforcement mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetMode,
}

var enforceResetCmd = &cobra.Command{
	Use:   "reset-violations",
	Short: "Reset the violation counter for the active session",
	RunE:  runResetViolations,
}

var enforceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show enforcement mode and violations",
	RunE:  runEnforceStatus,
}

func init() {
	enforceCmd.AddCommand(enforceSetModeCmd)
	enforceCmd.AddCommand(enforceResetCmd)
	enforceCmd.AddCommand(enforceStatusCmd)
}

func runSetMode(cmd *cobra.Command, args []string) error {
	mode := args[0]
	if !domain.ValidMode(mode) {
		return fmt.Errorf("unknown mode %q (want off, coaching, moderate, or strict)", mode)
	}

	path := configFile
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	// Merge into the existing file so other options survive.
	_ = v.ReadInConfig()
	v.Set(config.KeyEnforcementMode, mode)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	fmt.Printf("Enforcement mode set to %s.\n", mode)
	return nil
}

func runResetViolations(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.enforce.ResetViolations(); err != nil {
		return err
	}
	fmt.Println("Violations reset.")
	return nil
}

func runEnforceStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println(headerStyle.Render("Enforcement"))
	fmt.Printf("  Mode: %s\n", a.opts.EnforcementMode())

	state, err := a.enforce.Status()
	if err != nil {
		return err
	}
	if state == nil {
		fmt.Println(mutedStyle.Render("  No enforcement state recorded."))
		return nil
	}

	if state.ActiveProject != "" {
		fmt.Printf("  Project:    %s\n", state.ActiveProject)
	}
	fmt.Printf("  Violations: %d\n", state.Violations)
	if state.BreakRequired {
		fmt.Println(valueStyle.Render("  A fully completed break is required before the next session."))
	}
	return nil
}
