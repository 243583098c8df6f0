// pkg/execute/execute.go

// Package execute runs external commands with structured logging, optional
// retries and telemetry spans. Shell interpretation is never used; callers
// pass argv directly.
package execute

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/telemetry"
)

// Options controls a single command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Env     []string // appended to the parent environment

	// Capture suppresses pass-through to stdout; the combined output is
	// returned to the caller either way.
	Capture bool

	Retries int
	Delay   time.Duration
	Timeout time.Duration
	DryRun  bool

	Logger *zap.Logger
}

// DefaultDryRun short-circuits every Run when set (used by --dry-run).
var DefaultDryRun bool

const defaultTimeout = 3 * time.Minute

// Run executes a command and returns its combined output.
func Run(ctx context.Context, opts Options) (string, error) {
	cmdStr := opts.Command + " " + strings.Join(opts.Args, " ")

	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runCtx, span := telemetry.Start(runCtx, "execute.Run",
		attribute.String("command", opts.Command),
		attribute.String("args", telemetry.TruncateOrHashArgs(opts.Args)),
	)
	defer span.End()

	if opts.DryRun || DefaultDryRun {
		logger.Info("Dry run, command not executed", zap.String("command", cmdStr))
		return "", nil
	}

	logger.Debug("Executing command", zap.String("command", cmdStr))

	attempts := opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	var output string
	var err error
	for i := 1; i <= attempts; i++ {
		cmd := exec.CommandContext(runCtx, opts.Command, opts.Args...)
		if opts.Dir != "" {
			cmd.Dir = opts.Dir
		}
		if len(opts.Env) > 0 {
			cmd.Env = append(os.Environ(), opts.Env...)
		}

		var buf bytes.Buffer
		if opts.Capture {
			cmd.Stdout = &buf
			cmd.Stderr = &buf
		} else {
			cmd.Stdout = io.MultiWriter(os.Stdout, &buf)
			cmd.Stderr = io.MultiWriter(os.Stderr, &buf)
		}

		err = cmd.Run()
		output = buf.String()

		if err == nil {
			logger.Debug("Command succeeded", zap.String("command", cmdStr), zap.Int("attempt", i))
			break
		}

		span.RecordError(err)
		logger.Warn("Command failed",
			zap.String("command", cmdStr),
			zap.Int("attempt", i),
			zap.String("summary", base_err.ExtractSummary(output, 2)),
			zap.Error(err),
		)

		if i < attempts {
			time.Sleep(opts.Delay)
		}
	}

	if err != nil {
		return output, cerr.Wrapf(err, "command %q failed after %d attempt(s)", opts.Command, attempts)
	}
	return output, nil
}

// RunSimple executes a command with default options and discards the output.
func RunSimple(ctx context.Context, command string, args ...string) error {
	_, err := Run(ctx, Options{Command: command, Args: args, Capture: true})
	return err
}

// Capture executes a command and returns its trimmed combined output.
func Capture(ctx context.Context, command string, args ...string) (string, error) {
	out, err := Run(ctx, Options{Command: command, Args: args, Capture: true})
	return strings.TrimSpace(out), err
}

// Exists reports whether an executable can be resolved on PATH.
func Exists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
