package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/spf13/cobra"
)

var (
	globalCtx    context.Context
	configPath   string
	workingDir   string
	disableColor bool
	logLevel     string
)

var mainCommand = &cobra.Command{
	Use:              "geoasn",
	Short:            "Build and serve ASN databases from the DN42 registry",
	PersistentPreRun: preRun,
	SilenceUsage:     true,
}

func init() {
	mainCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "set configuration file path")
	mainCommand.PersistentFlags().StringVarP(&workingDir, "directory", "D", "", "set working directory")
	mainCommand.PersistentFlags().BoolVarP(&disableColor, "disable-color", "", false, "disable color output")
	mainCommand.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "override log level")
}

func preRun(cmd *cobra.Command, args []string) {
	globalCtx = context.Background()
	if disableColor {
		log.SetStdLogger(log.NewMultiOutputFactory(globalCtx, []log.Output{
			log.NewFormattedOutput(log.Formatter{BaseTime: time.Now(), DisableColors: true}, os.Stderr, ""),
		}).Logger())
	}
	if workingDir != "" {
		_, err := os.Stat(workingDir)
		if err != nil {
			err = os.MkdirAll(workingDir, 0o755)
			if err != nil {
				log.Fatal(E.Cause(err, "create working directory"))
			}
		}
		err = os.Chdir(workingDir)
		if err != nil {
			log.Fatal(err)
		}
	}
}

func readConfig() (option.Options, error) {
	if configPath == "" {
		return option.Options{}, nil
	}
	var (
		content []byte
		err     error
	)
	if configPath == "stdin" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(configPath)
	}
	if err != nil {
		return option.Options{}, E.Cause(err, "read config at ", configPath)
	}
	options, err := option.ParseOptions(content)
	if err != nil {
		return option.Options{}, E.Cause(err, "decode config at ", configPath)
	}
	return options, nil
}

// newLogFactory builds the logger from the config and the global flags.
func newLogFactory(options option.Options) (log.Factory, error) {
	var logOptions option.LogOptions
	if options.Log != nil {
		logOptions = *options.Log
	}
	if disableColor {
		logOptions.DisableColor = true
	}
	if logLevel != "" {
		logOptions.Level = logLevel
	}
	factory, err := log.New(log.Options{
		Context:  globalCtx,
		Options:  logOptions,
		BaseTime: time.Now(),
	})
	if err != nil {
		return nil, E.Cause(err, "create logger")
	}
	err = factory.Start()
	if err != nil {
		return nil, E.Cause(err, "start logger")
	}
	return factory, nil
}
