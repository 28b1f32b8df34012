//go:build windows

package engine

import (
	"log/slog"
	"os/exec"
	"syscall"
)

func setupProcessGroup(cmd *exec.Cmd, logger *slog.Logger) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		logger.Debug("terminating process", "pid", cmd.Process.Pid)
		return cmd.Process.Kill()
	}
}
