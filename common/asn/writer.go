package asn

import (
	"encoding/csv"
	"errors"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"

	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"go4.org/netipx"
)

type WriterOptions struct {
	DatabaseType string
	Description  string
	RecordSize   int
	// SkipHeader drops the first row of every table passed to InsertTable.
	SkipHeader bool
}

// Writer builds a GeoLite2-ASN compatible database from prefix,asn,name tables.
type Writer struct {
	tree       *mmdbwriter.Tree
	skipHeader bool
	networks   int
}

func NewWriter(options WriterOptions) (*Writer, error) {
	if options.DatabaseType == "" {
		options.DatabaseType = C.DatabaseTypeGeoLite2ASN
	}
	if options.Description == "" {
		options.Description = C.DatabaseDescription
	}
	if options.RecordSize == 0 {
		options.RecordSize = C.DatabaseRecordSize
	}
	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType: options.DatabaseType,
		RecordSize:   options.RecordSize,
		// DN42 address space is private or reserved.
		IncludeReservedNetworks: true,
		Description: map[string]string{
			"en": options.Description,
		},
	})
	if err != nil {
		return nil, E.Cause(err, "create database writer")
	}
	return &Writer{
		tree:       tree,
		skipHeader: options.SkipHeader,
	}, nil
}

// Insert adds one network. A zero ASN or an empty organization is left out of the record.
func (w *Writer) Insert(prefix netip.Prefix, asn uint32, organization string) error {
	if !prefix.IsValid() {
		return E.New("invalid prefix")
	}
	record := mmdbtype.Map{}
	if asn != 0 {
		record["autonomous_system_number"] = mmdbtype.Uint32(asn)
	}
	if organization != "" {
		record["autonomous_system_organization"] = mmdbtype.String(organization)
	}
	err := w.tree.Insert(netipx.PrefixIPNet(prefix.Masked()), record)
	if err != nil {
		return E.Cause(err, "insert ", prefix)
	}
	w.networks++
	return nil
}

// InsertTable reads prefix,asn,name rows and inserts each of them.
// It returns the number of rows inserted.
func (w *Writer) InsertTable(reader io.Reader) (int, error) {
	tableReader := csv.NewReader(reader)
	tableReader.FieldsPerRecord = -1
	var inserted int
	for row := 1; ; row++ {
		fields, err := tableReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inserted, E.Cause(err, "read table")
		}
		if row == 1 && w.skipHeader {
			continue
		}
		if len(fields) != 3 {
			return inserted, E.New("row ", row, ": unexpected column count ", len(fields))
		}
		prefix, err := netip.ParsePrefix(fields[0])
		if err != nil {
			return inserted, E.Cause(err, "row ", row, ": parse prefix")
		}
		asn, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return inserted, E.Cause(err, "row ", row, ": parse asn")
		}
		err = w.Insert(prefix, uint32(asn), fields[2])
		if err != nil {
			return inserted, E.Cause(err, "row ", row)
		}
		inserted++
	}
	return inserted, nil
}

// InsertTableFile is InsertTable for a table on disk.
func (w *Writer) InsertTableFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, E.Cause(err, "open table")
	}
	defer common.Close(file)
	return w.InsertTable(file)
}

// Networks returns how many networks were inserted.
func (w *Writer) Networks() int {
	return w.networks
}

func (w *Writer) WriteTo(writer io.Writer) (int64, error) {
	return w.tree.WriteTo(writer)
}

// WriteFile writes the database next to path and renames it into place.
func (w *Writer) WriteFile(path string) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return E.Cause(err, "create database")
	}
	tempPath := file.Name()
	_, err = w.tree.WriteTo(file)
	if err == nil {
		err = file.Close()
	} else {
		file.Close()
	}
	if err != nil {
		os.Remove(tempPath)
		return E.Cause(err, "write database")
	}
	if err = os.Chmod(tempPath, 0o644); err != nil {
		os.Remove(tempPath)
		return E.Cause(err, "write database")
	}
	if err = os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return E.Cause(err, "write database")
	}
	return nil
}
