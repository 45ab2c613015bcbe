package main

import (
	"github.com/rdp-studio/dn42-geoasn/common/asn"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"

	"github.com/spf13/cobra"
)

var (
	generateInput string
	databasePath  string
	skipHeader    bool
)

var commandGenerate = &cobra.Command{
	Use:   "generate",
	Short: "Generate an MMDB database from a prefix,asn,name table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options, err := readConfig()
		if err != nil {
			log.Fatal(err)
		}
		applyDatabaseFlags(&options)
		if generateInput == "" {
			generateInput = options.Registry.Output
		}
		if generateInput == "" {
			generateInput = C.DefaultTablePath
		}
		logFactory, err := newLogFactory(options)
		if err != nil {
			log.Fatal(err)
		}
		defer logFactory.Close()
		err = generate(logFactory, generateInput, options.Database)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	commandGenerate.Flags().StringVarP(&generateInput, "input", "i", "", "set table input path (default "+C.DefaultTablePath+")")
	for _, command := range []*cobra.Command{commandGenerate, commandBuild} {
		command.Flags().StringVarP(&databasePath, "database", "d", "", "set database output path (default "+C.DefaultDatabasePath+")")
		command.Flags().BoolVarP(&skipHeader, "skip-header", "", false, "skip the first table row")
	}
	mainCommand.AddCommand(commandGenerate)
}

func applyDatabaseFlags(options *option.Options) {
	if databasePath != "" {
		options.Database.Path = databasePath
	}
	if options.Database.Path == "" {
		options.Database.Path = C.DefaultDatabasePath
	}
	if skipHeader {
		options.Database.SkipHeader = true
	}
}

func generate(logFactory log.Factory, input string, options option.DatabaseOptions) error {
	logger := logFactory.NewLogger("generator")
	writer, err := asn.NewWriter(asn.WriterOptions{
		Description: options.Description,
		SkipHeader:  options.SkipHeader,
	})
	if err != nil {
		return err
	}
	inserted, err := writer.InsertTableFile(input)
	if err != nil {
		return err
	}
	err = writer.WriteFile(options.Path)
	if err != nil {
		return err
	}
	logger.Info("generated ", options.Path, " with ", inserted, " networks")
	return nil
}
