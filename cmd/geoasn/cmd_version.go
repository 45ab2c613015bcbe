package main

import (
	"os"
	"runtime"

	C "github.com/rdp-studio/dn42-geoasn/constant"

	"github.com/spf13/cobra"
)

var nameOnly bool

var commandVersion = &cobra.Command{
	Use:   "version",
	Short: "Print current version of geoasn",
	Run:   printVersion,
	Args:  cobra.NoArgs,
}

func init() {
	commandVersion.Flags().BoolVarP(&nameOnly, "name", "n", false, "print version name only")
	mainCommand.AddCommand(commandVersion)
}

func printVersion(cmd *cobra.Command, args []string) {
	if nameOnly {
		os.Stdout.WriteString(C.Version + "\n")
		return
	}
	version := "geoasn version " + C.Version + "\n\n"
	version += "Environment: " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH + "\n"
	os.Stdout.WriteString(version)
}
