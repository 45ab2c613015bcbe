package main

import (
	"context"
	"os"

	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	"github.com/rdp-studio/dn42-geoasn/registry"

	"github.com/spf13/cobra"
)

var (
	registryPath string
	tablePath    string
)

var commandFind = &cobra.Command{
	Use:   "find",
	Short: "Extract the prefix,asn,name table from a registry checkout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options, err := readConfig()
		if err != nil {
			log.Fatal(err)
		}
		applyRegistryFlags(&options)
		logFactory, err := newLogFactory(options)
		if err != nil {
			log.Fatal(err)
		}
		defer logFactory.Close()
		_, err = find(globalCtx, logFactory, options.Registry)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	for _, command := range []*cobra.Command{commandFind, commandBuild} {
		command.Flags().StringVarP(&registryPath, "registry", "r", "", "set registry path (default "+C.DefaultRegistryPath+")")
		command.Flags().StringVarP(&tablePath, "output", "o", "", "set table output path (default "+C.DefaultTablePath+")")
	}
	mainCommand.AddCommand(commandFind)
}

func applyRegistryFlags(options *option.Options) {
	if registryPath != "" {
		options.Registry.Path = registryPath
	}
	if options.Registry.Path == "" {
		options.Registry.Path = C.DefaultRegistryPath
	}
	if tablePath != "" {
		options.Registry.Output = tablePath
	}
	if options.Registry.Output == "" {
		options.Registry.Output = C.DefaultTablePath
	}
}

// find walks the registry and writes the table, returning its path.
func find(ctx context.Context, logFactory log.Factory, options option.RegistryOptions) (string, error) {
	logger := logFactory.NewLogger("registry")
	reader := registry.NewReader(options.Path)
	builder := registry.NewBuilder(registry.BuilderOptions{
		Logger:   logger,
		Reader:   reader,
		Resolver: registry.NewResolver(reader, !options.DisableCache),
	})
	records, err := builder.Build(ctx)
	if err != nil {
		return "", err
	}
	exporter := registry.NewExporter(registry.ExportOptions{
		Logger:     logger,
		Diagnostic: os.Stdout,
		LF:         options.LF,
	})
	_, err = exporter.ExportFile(ctx, options.Output, records)
	if err != nil {
		return "", err
	}
	return options.Output, nil
}
