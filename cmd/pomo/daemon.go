package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/daemon"
	"github.com/pomokit/pomo/internal/domain"
)

var (
	daemonRole     string
	daemonDelay    int64
	daemonInterval int64
)

// daemonCmd is the hidden entry point the spawner re-executes the
// binary with. It never runs from an interactive shell.
var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Hidden: true,
	RunE:   runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&daemonRole, "role", "", "timer role to run")
	daemonCmd.Flags().Int64Var(&daemonDelay, "delay", 0, "seconds to wait before firing")
	daemonCmd.Flags().Int64Var(&daemonInterval, "interval", 0, "seconds between repeated firings")
	_ = daemonCmd.MarkFlagRequired("role")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	role := domain.TimerOwner(daemonRole)
	a.logger.Info("daemon starting",
		zap.String("role", string(role)),
		zap.Int("pid", os.Getpid()),
		zap.Int64("delay", daemonDelay),
		zap.Int64("interval", daemonInterval))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		a.logger.Info("received shutdown signal")
		cancel()
	}()

	runner := daemon.NewRunner(a.workStore, a.brkStore, a.handles,
		a.notifier, a.opts, a.logger, os.Getpid()).WithSpawner(a.spawner)

	if err := runner.Run(ctx, role, daemonDelay, daemonInterval); err != nil {
		a.logger.Error("daemon exited with error", zap.Error(err))
		return err
	}
	a.logger.Info("daemon finished", zap.String("role", string(role)))
	return nil
}
