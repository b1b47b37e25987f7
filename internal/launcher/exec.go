package launcher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"spmaal/internal/logging"
)

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the process group was killed.
const waitDelay = 5 * time.Second

type commandExecutor struct {
	logger *slog.Logger
}

func (e commandExecutor) Run(ctx context.Context, cmd Command) (Output, error) {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	// MATLAB forks helpers; run it in its own group so a timeout kills them all.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return killGroup(c.Process.Pid)
	}
	c.WaitDelay = waitDelay

	if err := c.Start(); err != nil {
		return Output{}, &StartError{Err: err}
	}

	if cmd.Nice != 0 {
		if err := unix.Setpriority(unix.PRIO_PGRP, c.Process.Pid, cmd.Nice); err != nil && e.logger != nil {
			e.logger.Warn("unable to adjust process priority",
				logging.Int("pid", c.Process.Pid),
				logging.Int("nice", cmd.Nice),
				logging.Error(err),
			)
		}
	}

	err := c.Wait()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: -1}
	if c.ProcessState != nil {
		out.ExitCode = c.ProcessState.ExitCode()
	}
	return out, err
}

func killGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
