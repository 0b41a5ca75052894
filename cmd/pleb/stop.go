package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/daemon"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Signal the running daemon to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			pidFile := daemon.NewPIDFile(a.cfg.Paths.DaemonDir)
			pid, err := pidFile.Read()
			if err != nil {
				return fmt.Errorf("no daemon appears to be running: %w", err)
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("finding daemon process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("signaling daemon process %d: %w", pid, err)
			}

			cmd.Printf("sent SIGTERM to pid %d\n", pid)
			return nil
		},
	}
}
