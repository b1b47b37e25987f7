package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"spmaal/internal/logging"
	"spmaal/internal/services"
)

// Command describes one external process invocation. Args are passed to the
// process as an argument vector; no shell is involved.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
	// Nice adjusts scheduling priority of the process group (-20..19). Zero
	// leaves the inherited priority alone.
	Nice int
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	return FormatCommand(c.Binary, c.Args)
}

// Output is what an Executor captured from a finished process.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Result is the captured outcome of a launched command.
type Result struct {
	Command  string
	Resolved string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Executor abstracts process execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// StartError reports a process that could not be started at all.
type StartError struct {
	Err error
}

func (e *StartError) Error() string { return "start command: " + e.Err.Error() }

func (e *StartError) Unwrap() error { return e.Err }

// Option configures the launcher.
type Option func(*Launcher)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(l *Launcher) {
		if exec != nil {
			l.exec = exec
		}
	}
}

// Launcher resolves, runs, and captures external commands.
type Launcher struct {
	logger *slog.Logger
	exec   Executor
}

// New constructs a launcher that runs real processes unless overridden.
func New(logger *slog.Logger, opts ...Option) *Launcher {
	logger = logging.NewComponentLogger(logger, "launcher")
	l := &Launcher{
		logger: logger,
		exec:   commandExecutor{logger: logger},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run resolves cmd.Binary on PATH, launches it, and waits for it to finish or
// for cmd.Timeout to elapse. An unresolved binary is only a warning; the launch
// is still attempted and a failure to start is then reported as
// services.ErrUnresolvedBinary. A non-zero exit returns the captured Result
// together with an services.ErrExternalTool error.
func (l *Launcher) Run(ctx context.Context, cmd Command) (Result, error) {
	cmd.Binary = strings.TrimSpace(cmd.Binary)
	if cmd.Binary == "" {
		return Result{}, services.Wrap(services.ErrValidation, "launcher", "run", "binary required", nil)
	}
	logger := logging.WithContext(ctx, l.logger)

	resolved, lookErr := exec.LookPath(cmd.Binary)
	if lookErr != nil {
		logger.Warn("command not found on PATH",
			logging.String("binary", cmd.Binary),
			logging.Error(lookErr),
		)
		resolved = ""
	}

	result := Result{Command: cmd.String(), Resolved: resolved}
	logger.Info("launching command",
		logging.String("binary", cmd.Binary),
		logging.String("resolved", resolved),
		logging.String("command_line", result.Command),
		logging.Duration("timeout", cmd.Timeout),
	)

	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := l.exec.Run(runCtx, cmd)
	result.Duration = time.Since(start)
	result.Stdout = out.Stdout
	result.Stderr = out.Stderr
	result.ExitCode = out.ExitCode

	if out.Stdout != "" {
		logger.Debug("command output", logging.String("binary", cmd.Binary), logging.Int("bytes", len(out.Stdout)))
	}
	if out.Stderr != "" {
		logger.Debug("command error output", logging.String("binary", cmd.Binary), logging.String("stderr", out.Stderr))
	}

	if err == nil {
		logger.Info("command finished",
			logging.String("binary", cmd.Binary),
			logging.Duration("duration", result.Duration),
		)
		return result, nil
	}

	var startErr *StartError
	switch {
	case ctx.Err() != nil:
		return result, fmt.Errorf("%s: %w", cmd.Binary, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return result, services.Wrap(services.ErrTimeout, "launcher", cmd.Binary,
			fmt.Sprintf("killed after %s", cmd.Timeout), err)
	case errors.As(err, &startErr) && lookErr != nil:
		return result, services.Wrap(services.ErrUnresolvedBinary, "launcher", cmd.Binary,
			"command not found", err)
	case errors.As(err, &startErr):
		return result, services.Wrap(services.ErrExternalTool, "launcher", cmd.Binary, "start failed", err)
	default:
		return result, services.Wrap(services.ErrExternalTool, "launcher", cmd.Binary,
			fmt.Sprintf("exit status %d", result.ExitCode), err)
	}
}

// FormatCommand renders binary and args as a shell-quoted line. It is only used
// for logging; commands are never executed through a shell.
func FormatCommand(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(binary))
	for _, arg := range args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>()*?[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
