package adapter

import (
	"net/netip"

	"github.com/rdp-studio/dn42-geoasn/common/asn"
	E "github.com/sagernet/sing/common/exceptions"
)

// ErrDatabaseNotReady is returned by lookups made before any database was loaded.
var ErrDatabaseNotReady = E.New("ASN database not ready")

// ASNReader provides ASN (Autonomous System Number) lookup functionality.
// Implementations should use MaxMind GeoLite2-ASN database or compatible format.
type ASNReader interface {
	// Lookup returns the Autonomous System Number for the given IP address.
	// Returns 0 if the IP is not found in the database.
	Lookup(addr netip.Addr) uint
	// LookupWithOrg returns the number together with the organization name.
	LookupWithOrg(addr netip.Addr) (uint, string)
}

// ASNDatabase is the query side shared by the HTTP and DNS services.
type ASNDatabase interface {
	// Ready reports whether a database has been loaded.
	Ready() bool
	// LookupNetwork returns the record and network containing addr, false when
	// no network contains it, and ErrDatabaseNotReady before the first load.
	LookupNetwork(addr netip.Addr) (asn.Record, bool, error)
}

// Service is a long running component started and closed by the serve command.
type Service interface {
	Start() error
	Close() error
}
