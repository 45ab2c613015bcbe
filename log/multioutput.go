package log

import (
	"context"
	"os"
	"sync"
	"time"

	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"
)

var _ Factory = (*multiOutputFactory)(nil)

// multiOutputFactory implements a factory that writes to multiple outputs
type multiOutputFactory struct {
	ctx     context.Context
	access  sync.Mutex
	outputs []Output
	level   Level
}

// NewMultiOutputFactory creates a new multi-output factory
func NewMultiOutputFactory(ctx context.Context, outputs []Output) Factory {
	return &multiOutputFactory{
		ctx:     ctx,
		outputs: outputs,
		level:   LevelTrace,
	}
}

// Start initializes all outputs
func (f *multiOutputFactory) Start() error {
	for _, output := range f.outputs {
		if starter, ok := output.(interface{ Start() error }); ok {
			if err := starter.Start(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes all outputs
func (f *multiOutputFactory) Close() error {
	f.access.Lock()
	defer f.access.Unlock()
	var errors []error
	for _, output := range f.outputs {
		if err := output.Close(); err != nil {
			errors = append(errors, err)
		}
	}
	return E.Errors(errors...)
}

func (f *multiOutputFactory) Level() Level {
	return f.level
}

func (f *multiOutputFactory) SetLevel(level Level) {
	f.level = level
}

func (f *multiOutputFactory) Logger() ContextLogger {
	return f.NewLogger("")
}

func (f *multiOutputFactory) NewLogger(tag string) ContextLogger {
	return &multiOutputLogger{
		factory: f,
		tag:     tag,
	}
}

func (f *multiOutputFactory) write(entry LogEntry) {
	f.access.Lock()
	defer f.access.Unlock()
	for _, output := range f.outputs {
		// A broken output must not silence the others.
		_ = output.Write(entry)
	}
}

// multiOutputLogger implements ContextLogger for the multi-output factory
type multiOutputLogger struct {
	factory *multiOutputFactory
	tag     string
}

// Log logs a message with the given level
func (l *multiOutputLogger) Log(ctx context.Context, level Level, args []any) {
	l.LogWithEvent(ctx, level, nil, args)
}

// LogWithEvent logs a message with the given level and structured event
func (l *multiOutputLogger) LogWithEvent(ctx context.Context, level Level, event *StructuredEvent, args []any) {
	if level > l.factory.level {
		return
	}
	message := F.ToString(args...)
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Tag:       l.tag,
		Event:     event,
	}
	if id, hasId := IDFromContext(ctx); hasId {
		entry.RequestID = id.ID
		entry.RequestDuration = time.Since(id.CreatedAt)
	}
	l.factory.write(entry)
	switch level {
	case LevelPanic:
		panic(message)
	case LevelFatal:
		l.factory.Close()
		os.Exit(1)
	}
}

func (l *multiOutputLogger) Trace(args ...any) {
	l.TraceContext(context.Background(), args...)
}

func (l *multiOutputLogger) Debug(args ...any) {
	l.DebugContext(context.Background(), args...)
}

func (l *multiOutputLogger) Info(args ...any) {
	l.InfoContext(context.Background(), args...)
}

func (l *multiOutputLogger) Warn(args ...any) {
	l.WarnContext(context.Background(), args...)
}

func (l *multiOutputLogger) Error(args ...any) {
	l.ErrorContext(context.Background(), args...)
}

func (l *multiOutputLogger) Fatal(args ...any) {
	l.FatalContext(context.Background(), args...)
}

func (l *multiOutputLogger) Panic(args ...any) {
	l.PanicContext(context.Background(), args...)
}

func (l *multiOutputLogger) TraceContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelTrace, args)
}

func (l *multiOutputLogger) DebugContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelDebug, args)
}

func (l *multiOutputLogger) InfoContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelInfo, args)
}

func (l *multiOutputLogger) WarnContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelWarn, args)
}

func (l *multiOutputLogger) ErrorContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelError, args)
}

func (l *multiOutputLogger) FatalContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelFatal, args)
}

func (l *multiOutputLogger) PanicContext(ctx context.Context, args ...any) {
	l.Log(ctx, LevelPanic, args)
}
