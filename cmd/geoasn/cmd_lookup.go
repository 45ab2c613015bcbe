package main

import (
	"net/netip"
	"os"

	"github.com/rdp-studio/dn42-geoasn/common/asn"
	"github.com/rdp-studio/dn42-geoasn/log"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"

	"github.com/spf13/cobra"
)

var commandLookup = &cobra.Command{
	Use:   "lookup <address>...",
	Short: "Look up addresses in an ASN database",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		options, err := readConfig()
		if err != nil {
			log.Fatal(err)
		}
		applyDatabaseFlags(&options)
		err = lookupAddresses(options.Database.Path, args)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	commandLookup.Flags().StringVarP(&databasePath, "database", "d", "", "set database path")
	mainCommand.AddCommand(commandLookup)
}

func lookupAddresses(path string, addresses []string) error {
	reader, err := asn.Open(path)
	if err != nil {
		return E.Cause(err, "open ASN database")
	}
	defer reader.Close()
	for _, address := range addresses {
		addr, err := netip.ParseAddr(address)
		if err != nil {
			return E.Cause(err, "parse address")
		}
		record, found, err := reader.LookupNetwork(addr)
		if err != nil {
			return err
		}
		if !found {
			os.Stdout.WriteString(F.ToString(addr, " | not found\n"))
			continue
		}
		os.Stdout.WriteString(F.ToString(addr, " | ", record.AutonomousSystemNumber, " | ", record.Network, " | ", record.AutonomousSystemOrganization, "\n"))
	}
	return nil
}
