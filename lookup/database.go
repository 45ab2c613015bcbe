package lookup

import (
	"context"
	"net/netip"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/common/asn"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/cespare/xxhash/v2"
	"github.com/sagernet/fswatch"
)

var (
	_ adapter.ASNReader   = (*Database)(nil)
	_ adapter.ASNDatabase = (*Database)(nil)
	_ adapter.Service     = (*Database)(nil)
)

type Options struct {
	Logger log.ContextLogger
	Path   string
	// Watch reloads the database when the file changes on disk.
	Watch bool
}

// Database serves lookups from the latest loaded copy of an ASN database file.
type Database struct {
	ctx     context.Context
	logger  log.ContextLogger
	path    string
	watch   bool
	access  sync.Mutex
	reader  atomic.Pointer[asn.Reader]
	sum     uint64
	watcher *fswatch.Watcher
}

func NewDatabase(ctx context.Context, options Options) *Database {
	if options.Logger == nil {
		options.Logger = log.NewNOPFactory().Logger()
	}
	if options.Path == "" {
		options.Path = C.DefaultDatabasePath
	}
	return &Database{
		ctx:    ctx,
		logger: options.Logger,
		path:   options.Path,
		watch:  options.Watch,
	}
}

func (d *Database) Path() string {
	return d.path
}

// Start loads the database. A missing or broken file is logged and leaves the
// database not ready so that an updater can provide it later.
func (d *Database) Start() error {
	err := d.Reload()
	if err != nil {
		if os.IsNotExist(err) {
			d.logger.Debug("ASN database not found: ", d.path)
		} else {
			d.logger.Warn(E.Cause(err, "open ASN database"))
		}
	}
	if d.watch {
		watcher, err := fswatch.NewWatcher(fswatch.Options{
			Path: []string{d.path},
			Callback: func(path string) {
				err := d.Reload()
				if err != nil && !os.IsNotExist(err) {
					d.logger.Error(E.Cause(err, "reload ASN database"))
				}
			},
		})
		if err != nil {
			return E.Cause(err, "create ASN database watcher")
		}
		err = watcher.Start()
		if err != nil {
			return E.Cause(err, "start ASN database watcher")
		}
		d.watcher = watcher
	}
	return nil
}

// Reload reads the file again and swaps the reader in when the content changed.
func (d *Database) Reload() error {
	d.access.Lock()
	defer d.access.Unlock()
	content, err := os.ReadFile(d.path)
	if err != nil {
		return err
	}
	sum := xxhash.Sum64(content)
	checksum := strconv.FormatUint(sum, 16)
	if d.reader.Load() != nil && sum == d.sum {
		log.WithDatabaseEvent(d.logger, d.ctx, log.LevelDebug,
			log.NewDatabaseEvent("unchanged", d.path).WithChecksum(checksum),
			"ASN database unchanged: ", d.path)
		return nil
	}
	reader, err := asn.OpenBytes(content)
	if err != nil {
		log.WithDatabaseEvent(d.logger, d.ctx, log.LevelDebug,
			log.NewDatabaseEvent("rejected", d.path).WithChecksum(checksum).WithError(err),
			"ASN database rejected: ", d.path)
		return err
	}
	// Readers hold no file, the replaced one is left to in-flight lookups and the collector.
	d.reader.Store(reader)
	d.sum = sum
	log.WithDatabaseEvent(d.logger, d.ctx, log.LevelInfo,
		log.NewDatabaseEvent("loaded", d.path).WithChecksum(checksum).WithDatabaseType(reader.DatabaseType()),
		"ASN database loaded from ", d.path)
	return nil
}

// Ready reports whether a database has been loaded.
func (d *Database) Ready() bool {
	return d.reader.Load() != nil
}

// Checksum returns the xxhash of the loaded file, zero when none is loaded.
func (d *Database) Checksum() uint64 {
	d.access.Lock()
	defer d.access.Unlock()
	return d.sum
}

func (d *Database) Lookup(addr netip.Addr) uint {
	reader := d.reader.Load()
	if reader == nil {
		return 0
	}
	return reader.Lookup(addr)
}

func (d *Database) LookupWithOrg(addr netip.Addr) (uint, string) {
	reader := d.reader.Load()
	if reader == nil {
		return 0, ""
	}
	return reader.LookupWithOrg(addr)
}

func (d *Database) LookupNetwork(addr netip.Addr) (asn.Record, bool, error) {
	reader := d.reader.Load()
	if reader == nil {
		return asn.Record{}, false, adapter.ErrDatabaseNotReady
	}
	return reader.LookupNetwork(addr)
}

func (d *Database) Close() error {
	var err error
	if d.watcher != nil {
		err = E.Append(err, d.watcher.Close(), func(err error) error {
			return E.Cause(err, "close ASN database watcher")
		})
	}
	reader := d.reader.Swap(nil)
	if reader != nil {
		err = E.Append(err, reader.Close(), func(err error) error {
			return E.Cause(err, "close ASN database")
		})
	}
	return err
}
