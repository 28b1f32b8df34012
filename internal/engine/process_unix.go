//go:build !windows

package engine

import (
	"log/slog"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setupProcessGroup runs the command in its own process group so that
// cancelling also stops the ffmpeg children it spawns.
func setupProcessGroup(cmd *exec.Cmd, logger *slog.Logger) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		logger.Debug("terminating process group", "pid", cmd.Process.Pid)
		// Negative PID signals the whole group.
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGTERM); err != nil {
			logger.Warn("SIGTERM failed, using SIGKILL", "pid", cmd.Process.Pid, "error", err)
			return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		}
		return nil
	}
}
