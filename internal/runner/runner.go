// Package runner launches external commands and streams their output to a log sink.
//
// A run is classified by what the child writes to standard error: any error
// output marks the run failed, whatever the exit code. Strict mode additionally
// fails runs that exit non-zero.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/webship/webship/internal/constants"
	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/logger"
)

// defaultWaitDelay bounds how long Wait keeps copying output after the child
// exits or is killed, in case a grandchild still holds the pipes open.
const defaultWaitDelay = 2 * time.Second

// Sink receives the lines a command writes.
type Sink interface {
	Log(message string)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(message string)

// Log calls f(message).
func (f SinkFunc) Log(message string) {
	f(message)
}

// Options tune how commands are launched and classified.
type Options struct {
	// Timeout bounds each run. Zero means the run is only bounded by ctx.
	Timeout time.Duration
	// StrictExitCode also treats a non-zero exit code as failure.
	StrictExitCode bool
	// Dir is the working directory of the child. Empty means the current directory.
	Dir string
	// WaitDelay overrides defaultWaitDelay.
	WaitDelay time.Duration
}

// Result describes one finished run.
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	// ErrorText is everything the child wrote to standard error, verbatim.
	ErrorText string
	// ErrorObserved is true as soon as a single byte reached standard error.
	ErrorObserved bool
	Status        constants.RunStatus
	Duration      time.Duration
}

// Failed reports whether the run must be treated as a failure.
func (r *Result) Failed() bool {
	return r.Status == constants.RunFailed
}

// Runner executes commands one at a time and forwards their output to a sink.
type Runner struct {
	sink   Sink
	logger *slog.Logger
	opts   Options

	mu sync.Mutex
}

// New creates a Runner. A nil sink forwards lines to the logger at info level.
func New(sink Sink, log *slog.Logger, opts Options) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = SinkFunc(func(message string) { log.Info(message) })
	}
	if opts.WaitDelay <= 0 {
		opts.WaitDelay = defaultWaitDelay
	}
	return &Runner{sink: sink, logger: log, opts: opts}
}

// Run launches command with args (no shell involved), streams its output and
// blocks until it exits. The returned error is non-nil only when the command
// could not be started or was stopped by cancellation or timeout; the outcome
// of a normal run is reported through Result.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (*Result, error) {
	runCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	reqLogger := logger.DeriveRunLogger(ctx, r.logger)
	logArgs := []any{
		"context", map[string]string{
			"command": command,
			"args":    strings.Join(args, " "),
		},
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(runCtx)...)
	reqLogger.Debug("running external command", logArgs...)

	result := &Result{
		Command: command,
		Args:    args,
	}

	var errText strings.Builder
	stdout := &lineWriter{emit: r.emit}
	stderr := &lineWriter{
		emit: func(line string) { r.emit(constants.ErrorLinePrefix + line) },
		raw: func(p []byte) {
			result.ErrorObserved = true
			errText.Write(p)
		},
	}

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = r.opts.Dir
	cmd.WaitDelay = r.opts.WaitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return nil, interrupted(command, ctxErr, 0)
		}
		return nil, apperrors.ErrProcessStartFailed(command, err)
	}

	waitErr := cmd.Wait()
	stdout.flush()
	stderr.flush()

	result.Duration = time.Since(start)
	result.ErrorText = errText.String()
	result.ExitCode = exitCode(cmd, waitErr)
	result.Status = r.classify(result)

	reqLogger.Debug("external command finished", "context", map[string]any{
		"command":        command,
		"exit_code":      result.ExitCode,
		"error_observed": result.ErrorObserved,
		"status":         string(result.Status),
		"duration":       result.Duration.String(),
	})

	if ctxErr := runCtx.Err(); ctxErr != nil {
		return result, interrupted(command, ctxErr, result.Duration)
	}

	if waitErr != nil && errors.Is(waitErr, exec.ErrWaitDelay) {
		reqLogger.Warn("command exited but its output pipes stayed open", "context", map[string]string{
			"command": command,
		})
	}

	return result, nil
}

// interrupted maps a done context to a TIMEOUT error.
func interrupted(command string, ctxErr error, elapsed time.Duration) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return apperrors.ErrTimeout(fmt.Sprintf("%s timed out after %s", command,
			elapsed.Round(time.Millisecond)), ctxErr)
	}
	return apperrors.ErrTimeout(fmt.Sprintf("%s was cancelled", command), ctxErr)
}

func (r *Runner) classify(result *Result) constants.RunStatus {
	if result.ErrorObserved {
		return constants.RunFailed
	}
	if r.opts.StrictExitCode && result.ExitCode != 0 {
		return constants.RunFailed
	}
	return constants.RunSucceeded
}

// emit serialises sink writes coming from the stdout and stderr copiers.
func (r *Runner) emit(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink.Log(line)
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
