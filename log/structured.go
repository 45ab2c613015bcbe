package log

import (
	"context"
)

// WithRecordEvent creates a log entry with record event
func WithRecordEvent(logger ContextLogger, ctx context.Context, level Level, event *RecordEvent, args ...any) {
	logWithEvent(logger, ctx, level, &StructuredEvent{Type: EventTypeRecord, Data: event.ToMap()}, args)
}

// WithLookupEvent creates a log entry with lookup event
func WithLookupEvent(logger ContextLogger, ctx context.Context, level Level, event *LookupEvent, args ...any) {
	logWithEvent(logger, ctx, level, &StructuredEvent{Type: EventTypeLookup, Data: event.ToMap()}, args)
}

// WithDatabaseEvent creates a log entry with database event
func WithDatabaseEvent(logger ContextLogger, ctx context.Context, level Level, event *DatabaseEvent, args ...any) {
	logWithEvent(logger, ctx, level, &StructuredEvent{Type: EventTypeDatabase, Data: event.ToMap()}, args)
}

// WithDNSEvent creates a log entry with DNS event
func WithDNSEvent(logger ContextLogger, ctx context.Context, level Level, event *DNSEvent, args ...any) {
	logWithEvent(logger, ctx, level, &StructuredEvent{Type: EventTypeDNS, Data: event.ToMap()}, args)
}

func logWithEvent(logger ContextLogger, ctx context.Context, level Level, event *StructuredEvent, args []any) {
	if ml, ok := logger.(*multiOutputLogger); ok {
		ml.LogWithEvent(ctx, level, event, args)
	} else {
		// Fallback to regular logging (without event data)
		logWithLevel(logger, ctx, level, args)
	}
}

// logWithLevel calls the appropriate logging method based on level
func logWithLevel(logger ContextLogger, ctx context.Context, level Level, args []any) {
	switch level {
	case LevelTrace:
		logger.TraceContext(ctx, args...)
	case LevelDebug:
		logger.DebugContext(ctx, args...)
	case LevelInfo:
		logger.InfoContext(ctx, args...)
	case LevelWarn:
		logger.WarnContext(ctx, args...)
	case LevelError:
		logger.ErrorContext(ctx, args...)
	case LevelFatal:
		logger.FatalContext(ctx, args...)
	case LevelPanic:
		logger.PanicContext(ctx, args...)
	default:
		logger.InfoContext(ctx, args...)
	}
}
