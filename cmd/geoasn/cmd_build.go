package main

import (
	"github.com/rdp-studio/dn42-geoasn/log"

	"github.com/spf13/cobra"
)

var commandBuild = &cobra.Command{
	Use:   "build",
	Short: "Run find then generate",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options, err := readConfig()
		if err != nil {
			log.Fatal(err)
		}
		applyRegistryFlags(&options)
		applyDatabaseFlags(&options)
		logFactory, err := newLogFactory(options)
		if err != nil {
			log.Fatal(err)
		}
		defer logFactory.Close()
		table, err := find(globalCtx, logFactory, options.Registry)
		if err != nil {
			log.Fatal(err)
		}
		err = generate(logFactory, table, options.Database)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	mainCommand.AddCommand(commandBuild)
}
