// pkg/base_io/context.go

package base_io

import (
	"context"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/shared"
	"github.com/copperhearth/baseline/pkg/telemetry"
)

// RuntimeContext carries the per-command context, scoped logger and telemetry
// span that every command handler receives.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Component  string
	Attributes map[string]string

	cancel context.CancelFunc
}

// NewContext sets up tracing and a component-scoped logger for one command.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	return newContext(parent, cmdName, 0)
}

// NewExtendedContext is NewContext with a hard deadline, for long-running
// operations (apt installs, mount retries).
func NewExtendedContext(parent context.Context, cmdName string, timeout time.Duration) *RuntimeContext {
	return newContext(parent, cmdName, timeout)
}

func newContext(parent context.Context, cmdName string, timeout time.Duration) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}

	var cancel context.CancelFunc
	if timeout > 0 {
		parent, cancel = context.WithTimeout(parent, timeout)
	}

	ctx, span := telemetry.Start(parent, cmdName)
	traceID := span.SpanContext().TraceID().String()

	comp, action := resolveCallContext(4)
	logger := zap.L().With(
		zap.String("component", comp),
		zap.String("action", action),
		zap.String("trace_id", traceID),
	).Named(comp)

	logEnv(logger)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        logger,
		Timestamp:  time.Now(),
		Command:    cmdName,
		Component:  comp,
		Attributes: make(map[string]string),
		cancel:     cancel,
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, records a final span, and flushes logs. Intended as
// `defer rc.End(&err)` immediately after context creation.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()
	if rc.cancel != nil {
		defer rc.cancel()
	}

	duration := time.Since(rc.Timestamp)
	success := (*errPtr == nil)

	if success {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	} else if base_err.IsExpectedUserError(*errPtr) {
		rc.Log.Warn("Command aborted", zap.Duration("duration", duration), zap.Error(*errPtr))
	} else {
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(*errPtr))
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("args", telemetry.TruncateOrHashArgs(os.Args[1:])),
		attribute.String("version", shared.Version),
		attribute.String("error_type", classifyError(*errPtr)),
	}
	_, span := telemetry.Start(rc.Ctx, rc.Command, attrs...)
	span.End()

	shared.SafeSync()
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if base_err.IsExpectedUserError(err) {
		return "user"
	}
	return "system"
}

func logEnv(log *zap.Logger) {
	if u, err := user.Current(); err == nil {
		log.Debug("user context",
			zap.String("username", u.Username),
			zap.String("uid", u.Uid),
			zap.String("gid", u.Gid),
			zap.String("home", u.HomeDir),
		)
	}
	if exe, err := os.Executable(); err == nil {
		log.Debug("executable path", zap.String("path", exe))
	}
}

func resolveCallContext(skip int) (component, action string) {
	pc, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", "unknown"
	}
	parts := strings.Split(file, "/")
	component = parts[len(parts)-2]
	if fn := runtime.FuncForPC(pc); fn != nil {
		fields := strings.Split(fn.Name(), ".")
		action = fields[len(fields)-1]
	} else {
		action = "unknown"
	}
	return
}
