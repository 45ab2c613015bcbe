package log

import (
	"github.com/sagernet/sing/common/logger"
)

type (
	Logger        = logger.Logger
	ContextLogger = logger.ContextLogger
)

type Factory interface {
	Start() error
	Close() error
	Level() Level
	SetLevel(level Level)
	Logger() ContextLogger
	NewLogger(tag string) ContextLogger
}
