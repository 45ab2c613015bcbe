package log

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rdp-studio/dn42-geoasn/option"
	E "github.com/sagernet/sing/common/exceptions"
)

const timestampFormat = "-0700 2006-01-02 15:04:05"

type Options struct {
	Context       context.Context
	Options       option.LogOptions
	DefaultWriter io.Writer
	BaseTime      time.Time
}

func New(options Options) (Factory, error) {
	logOptions := options.Options

	if logOptions.Disabled {
		return NewNOPFactory(), nil
	}

	var outputs []Output
	if len(logOptions.Outputs) > 0 {
		for i, outputConfig := range logOptions.Outputs {
			output, err := createOutput(outputConfig, options)
			if err != nil {
				return nil, E.Cause(err, "create output ", i)
			}
			outputs = append(outputs, output)
		}
	} else {
		outputs = []Output{createLegacyOutput(logOptions, options)}
	}

	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	factory := NewMultiOutputFactory(ctx, outputs)

	if logOptions.Level != "" {
		logLevel, err := ParseLevel(logOptions.Level)
		if err != nil {
			return nil, E.Cause(err, "parse log level")
		}
		factory.SetLevel(logLevel)
	} else {
		factory.SetLevel(LevelInfo)
	}

	return factory, nil
}

// createLegacyOutput creates an output from the single "output" field
func createLegacyOutput(logOptions option.LogOptions, options Options) Output {
	var logWriter io.Writer
	var logFilePath string

	switch logOptions.Output {
	case "":
		logWriter = options.DefaultWriter
		if logWriter == nil {
			logWriter = os.Stderr
		}
	case "stderr":
		logWriter = os.Stderr
	case "stdout":
		logWriter = os.Stdout
	default:
		logFilePath = logOptions.Output
	}

	logFormatter := Formatter{
		BaseTime:         options.BaseTime,
		DisableColors:    logOptions.DisableColor || logFilePath != "",
		DisableTimestamp: !logOptions.Timestamp && logFilePath != "",
		FullTimestamp:    logOptions.Timestamp,
		TimestampFormat:  timestampFormat,
	}

	return NewFormattedOutput(logFormatter, logWriter, logFilePath)
}

func createOutput(config option.LogOutput, options Options) (Output, error) {
	var writer io.Writer
	switch config.Type {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		if config.Path == "" {
			return nil, E.New("file output requires path")
		}
	default:
		return nil, E.New("unknown output type: ", config.Type)
	}

	if config.Format == "json" {
		return NewJSONOutput(writer, config.Path, config.Hostname), nil
	}

	formatter := Formatter{
		BaseTime:         options.BaseTime,
		DisableColors:    config.DisableColor || config.Type == "file",
		DisableTimestamp: !config.Timestamp,
		FullTimestamp:    config.Timestamp,
		TimestampFormat:  timestampFormat,
	}
	return NewFormattedOutput(formatter, writer, config.Path), nil
}
