package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/beatty/myagent/logging"
)

// Status classifies the outcome of a command invocation.
type Status string

const (
	// StatusSuccess means the process exited with code 0 before the timeout.
	StatusSuccess Status = "success"
	// StatusError means the process exited nonzero, failed to launch, or the
	// invocation was cancelled.
	StatusError Status = "error"
	// StatusTimeout means the timeout elapsed before the process exited.
	StatusTimeout Status = "timeout"
)

// Result captures a single command invocation. It is immutable once
// returned; nothing is persisted.
type Result struct {
	Command  string `json:"command"`
	Status   Status `json:"status"`
	ExitCode *int   `json:"exit_code,omitempty"` // nil when the process never exited normally
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// DefaultTimeout bounds command execution when no override is configured.
const DefaultTimeout = 30 * time.Second

// reapGrace bounds how long Run waits for the exit status after killing the
// process group. With the whole group dead the wait returns almost
// immediately; the grace only elapses if signal delivery stalls.
const reapGrace = time.Second

// Options configure an Executor.
type Options struct {
	// Timeout is the hard wall-clock bound per invocation.
	Timeout time.Duration
	// Shell is the interpreter the command string is handed to.
	Shell string
	// Logger receives structured execution events.
	Logger logging.Logger
}

// Executor runs arbitrary shell command strings with a hard timeout. Each
// invocation is independent; concurrent invocations are unordered relative to
// each other. The executor holds no state across calls and is safe for
// concurrent use.
type Executor struct {
	timeout time.Duration
	shell   string
	logger  logging.Logger
}

// NewExecutor constructs an Executor with defaults (30s timeout, /bin/sh).
func NewExecutor(optFns ...func(o *Options)) *Executor {
	opts := Options{
		Timeout: DefaultTimeout,
		Shell:   "/bin/sh",
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Executor{timeout: opts.Timeout, shell: opts.Shell, logger: opts.Logger}
}

// Timeout returns the configured hard timeout.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// Run executes the command string via the shell and returns within
// Timeout() plus bounded slack, regardless of child behavior. The shell runs
// in its own process group; when the timeout fires the whole group is
// killed, so backgrounded grandchildren holding the output pipes cannot
// stretch the wait.
//
// Outcomes:
//   - exit code 0 before timeout: StatusSuccess, streams captured verbatim
//   - nonzero exit before timeout: StatusError with the exit code
//   - timeout elapses first: StatusTimeout, process group killed, streams
//     may be partially empty
//   - launch failure: StatusError with the fault text in Stderr
//
// Cancelling ctx terminates the child early and yields StatusError.
func (e *Executor) Run(ctx context.Context, command string) Result {
	res := Result{Command: command}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = sysProcAttr()

	start := time.Now()
	if err := cmd.Start(); err != nil {
		e.logger.Error("command.launch.failed", "command", command, "error", err.Error())
		res.Status = StatusError
		res.Stderr = err.Error()
		return res
	}

	// Watchdog handoff: the wait runs on its own goroutine and reports once
	// through the buffered channel, so the caller's select is bounded by the
	// timer regardless of child behavior.
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		res.Stdout = stdout.String()
		res.Stderr = stderr.String()
		res.Status, res.ExitCode = classifyExit(err, cmd)
		e.logger.Info("command.executed",
			"command", command,
			"status", string(res.Status),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return res

	case <-timer.C:
		killTree(cmd.Process)
		grace := time.NewTimer(reapGrace)
		defer grace.Stop()
		select {
		case err := <-done:
			res.Stdout = stdout.String()
			res.Stderr = stderr.String()
			if cmd.ProcessState.Exited() {
				// The shell itself finished inside the bound; only a
				// grandchild holding the pipes kept the wait open. Report
				// the real exit, not a timeout.
				res.Status, res.ExitCode = classifyExit(err, cmd)
				e.logger.Info("command.executed",
					"command", command,
					"status", string(res.Status),
					"duration_ms", time.Since(start).Milliseconds(),
				)
				return res
			}
		case <-grace.C:
			// Exit status unavailable; leave the streams empty rather than
			// race the pipe copiers.
			e.logger.Warn("command.reap.stalled", "command", command)
		}
		res.Status = StatusTimeout
		e.logger.Warn("command.timeout", "command", command, "timeout_ms", e.timeout.Milliseconds())
		return res

	case <-ctx.Done():
		killTree(cmd.Process)
		grace := time.NewTimer(reapGrace)
		defer grace.Stop()
		select {
		case <-done:
			res.Stdout = stdout.String()
			res.Stderr = stderr.String()
		case <-grace.C:
		}
		res.Status = StatusError
		e.logger.Warn("command.cancelled", "command", command, "error", ctx.Err().Error())
		return res
	}
}

// classifyExit maps a wait outcome to status and exit code. Wait errors that
// carry no exit status (pipe copy failures and the like) yield StatusError
// with a nil exit code instead of misreporting the process exit.
func classifyExit(err error, cmd *exec.Cmd) (Status, *int) {
	if err == nil {
		code := cmd.ProcessState.ExitCode()
		return StatusSuccess, &code
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return StatusError, &code
	}
	return StatusError, nil
}
