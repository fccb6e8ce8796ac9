package main

import (
	"github.com/spf13/cobra"

	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/infra"
)

// hookCmd receives events from shell integration. A chpwd hook (or
// equivalent) invokes it on every directory change so enforcement can
// observe project switches without a resident watcher.
var hookCmd = &cobra.Command{
	Use:    "hook",
	Hidden: true,
}

var hookDirChangeCmd = &cobra.Command{
	Use:  "dir-change <old-dir> <new-dir>",
	Args: cobra.ExactArgs(2),
	RunE: runHookDirChange,
}

func init() {
	hookCmd.AddCommand(hookDirChangeCmd)
}

func runHookDirChange(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	bus := infra.NewHookBus()
	if err := a.enforce.Register(bus); err != nil {
		return err
	}
	bus.Dispatch(domain.EventDirectoryChange, args[0], args[1])
	return nil
}
