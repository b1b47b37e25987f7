// Package launcher runs external tools (MATLAB) and captures their output.
//
// Commands are argument vectors executed directly, never through a shell, so
// paths containing spaces or quotes cannot change the command. The binary is
// resolved on PATH first; when it is missing the launcher logs a warning and
// tries anyway, reporting services.ErrUnresolvedBinary if the start fails.
//
// Timeout policy: when Command.Timeout elapses the whole process group is
// killed with SIGKILL and the run fails with services.ErrTimeout. The priority
// hint is applied to the process group with setpriority(2) and is best effort.
package launcher
