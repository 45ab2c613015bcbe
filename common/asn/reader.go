package asn

import (
	"net/netip"
	"os"

	C "github.com/rdp-studio/dn42-geoasn/constant"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/oschwald/maxminddb-golang"
	"go4.org/netipx"
)

// ASNRecord represents the structure returned by MaxMind GeoLite2-ASN database
type ASNRecord struct {
	AutonomousSystemNumber       uint   `maxminddb:"autonomous_system_number"`
	AutonomousSystemOrganization string `maxminddb:"autonomous_system_organization"`
}

// Record is a lookup result together with the network that contained the address.
type Record struct {
	ASNRecord
	Network netip.Prefix
}

// Reader provides ASN lookup functionality using MaxMind MMDB format
type Reader struct {
	reader *maxminddb.Reader
}

// Open reads an ASN database file into memory and returns a Reader.
// The database must be in MaxMind MMDB format (GeoLite2-ASN or compatible).
func Open(path string) (*Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(content)
}

// OpenBytes is Open for a database already in memory. The Reader does not map
// any file, so it stays valid after the file on disk is replaced.
func OpenBytes(content []byte) (*Reader, error) {
	database, err := maxminddb.FromBytes(content)
	if err != nil {
		return nil, err
	}
	// Accept both official MaxMind and custom formats
	dbType := database.Metadata.DatabaseType
	if dbType != C.DatabaseTypeGeoLite2ASN && dbType != C.DatabaseTypeSingASN {
		database.Close()
		return nil, E.New("incorrect database type, expected GeoLite2-ASN or sing-asn, got ", dbType)
	}
	return &Reader{database}, nil
}

// Lookup returns the Autonomous System Number for the given IP address.
// Returns 0 if the IP is not found in the database or if lookup fails.
func (r *Reader) Lookup(addr netip.Addr) uint {
	var record ASNRecord
	err := r.reader.Lookup(addr.Unmap().AsSlice(), &record)
	if err != nil {
		return 0
	}
	return record.AutonomousSystemNumber
}

// LookupWithOrg returns both the ASN and organization name for the given IP address.
// Returns (0, "") if the IP is not found in the database or if lookup fails.
func (r *Reader) LookupWithOrg(addr netip.Addr) (uint, string) {
	var record ASNRecord
	err := r.reader.Lookup(addr.Unmap().AsSlice(), &record)
	if err != nil {
		return 0, ""
	}
	return record.AutonomousSystemNumber, record.AutonomousSystemOrganization
}

// LookupNetwork returns the record and network containing addr, and false when
// no network in the database contains it.
func (r *Reader) LookupNetwork(addr netip.Addr) (Record, bool, error) {
	var record Record
	network, found, err := r.reader.LookupNetwork(addr.Unmap().AsSlice(), &record.ASNRecord)
	if err != nil {
		return Record{}, false, E.Cause(err, "lookup ", addr)
	}
	if network != nil {
		record.Network, _ = netipx.FromStdIPNet(network)
	}
	return record, found, nil
}

// DatabaseType returns the database type recorded in the metadata.
func (r *Reader) DatabaseType() string {
	return r.reader.Metadata.DatabaseType
}

// Description returns the English description from the metadata.
func (r *Reader) Description() string {
	return r.reader.Metadata.Description["en"]
}

// Close closes the ASN database reader and releases resources.
func (r *Reader) Close() error {
	return r.reader.Close()
}
