package log

import (
	"context"
	"os"
	"time"
)

var std ContextLogger

func init() {
	std = NewMultiOutputFactory(context.Background(), []Output{
		NewFormattedOutput(Formatter{BaseTime: time.Now()}, os.Stderr, ""),
	}).Logger()
}

func StdLogger() ContextLogger {
	return std
}

func SetStdLogger(logger ContextLogger) {
	std = logger
}

func Trace(args ...any) {
	std.Trace(args...)
}

func Debug(args ...any) {
	std.Debug(args...)
}

func Info(args ...any) {
	std.Info(args...)
}

func Warn(args ...any) {
	std.Warn(args...)
}

func Error(args ...any) {
	std.Error(args...)
}

func Fatal(args ...any) {
	std.Fatal(args...)
}

func Panic(args ...any) {
	std.Panic(args...)
}
