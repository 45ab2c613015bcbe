package updater

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/common/asn"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
)

var _ adapter.Service = (*Updater)(nil)

// Database is the file backed database the updater keeps current.
type Database interface {
	Path() string
	Reload() error
}

type Options struct {
	Logger   log.ContextLogger
	Database Database
	// URL is tried in order, the first successful download wins.
	URL      []string
	Interval time.Duration
	Timeout  time.Duration
	Client   *http.Client
}

// Updater periodically downloads a released database and reloads it.
type Updater struct {
	ctx       context.Context
	cancel    context.CancelFunc
	logger    log.ContextLogger
	database  Database
	urls      []string
	interval  time.Duration
	client    *http.Client
	closeChan chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	access    sync.Mutex
}

func New(ctx context.Context, options Options) (*Updater, error) {
	if options.Database == nil {
		return nil, E.New("missing database")
	}
	if len(options.URL) == 0 {
		options.URL = []string{C.DatabaseURL}
	}
	if options.Interval <= 0 {
		options.Interval = C.DefaultUpdateInterval
	}
	if options.Timeout <= 0 {
		options.Timeout = C.DefaultDownloadTimeout
	}
	if options.Logger == nil {
		options.Logger = log.NewNOPFactory().Logger()
	}
	client := options.Client
	if client == nil {
		client = &http.Client{Timeout: options.Timeout}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Updater{
		ctx:       ctx,
		cancel:    cancel,
		logger:    options.Logger,
		database:  options.Database,
		urls:      options.URL,
		interval:  options.Interval,
		client:    client,
		closeChan: make(chan struct{}),
	}, nil
}

// Start downloads the database right away when no local copy exists, then
// keeps updating it in the background.
func (u *Updater) Start() error {
	_, err := os.Stat(u.database.Path())
	if os.IsNotExist(err) {
		u.logger.Info("downloading ASN database to ", u.database.Path())
		err = u.Update(u.ctx)
		if err != nil {
			u.logger.Error(E.Cause(err, "download ASN database"))
		}
	}
	u.wg.Add(1)
	go u.loop()
	return nil
}

func (u *Updater) loop() {
	defer u.wg.Done()
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			u.logger.Debug("updating ASN database")
			err := u.Update(u.ctx)
			if err != nil {
				u.logger.Error(E.Cause(err, "update ASN database"))
			}
		case <-u.closeChan:
			return
		}
	}
}

// Update downloads the database next to its path, validates it, renames it
// into place and reloads it.
func (u *Updater) Update(ctx context.Context) error {
	u.access.Lock()
	defer u.access.Unlock()
	path := u.database.Path()
	tempPath := path + ".new"
	var errors []error
	for _, url := range u.urls {
		err := u.download(ctx, url, tempPath)
		if err == nil {
			err = validate(tempPath)
		}
		if err != nil {
			os.Remove(tempPath)
			errors = append(errors, E.Cause(err, url))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		err = os.Rename(tempPath, path)
		if err != nil {
			os.Remove(tempPath)
			return E.Cause(err, "replace ASN database")
		}
		u.logger.Info("ASN database downloaded from ", url)
		return u.database.Reload()
	}
	return E.Errors(errors...)
}

func (u *Updater) download(ctx context.Context, url string, path string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	request.Header.Set("User-Agent", "dn42-geoasn/"+C.Version)
	response, err := u.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return E.New("unexpected status: ", response.Status)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, response.Body)
	if err != nil {
		common.Close(file)
		return err
	}
	return file.Close()
}

func validate(path string) error {
	reader, err := asn.Open(path)
	if err != nil {
		return E.Cause(err, "validate ASN database")
	}
	return reader.Close()
}

func (u *Updater) Close() error {
	u.closeOnce.Do(func() {
		u.cancel()
		close(u.closeChan)
	})
	u.wg.Wait()
	return nil
}
