package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/api"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/dns"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/lookup"
	"github.com/rdp-studio/dn42-geoasn/option"
	"github.com/rdp-studio/dn42-geoasn/updater"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/spf13/cobra"
)

var (
	listenPort    uint16
	disableUpdate bool
)

var commandServe = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups over HTTP and DNS",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := serve()
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	commandServe.Flags().StringVarP(&databasePath, "database", "d", "", "set database path")
	commandServe.Flags().Uint16VarP(&listenPort, "port", "p", 0, "set HTTP listen port")
	commandServe.Flags().BoolVar(&disableUpdate, "disable-update", false, "do not download database updates")
	mainCommand.AddCommand(commandServe)
}

type instance struct {
	logFactory log.Factory
	database   *lookup.Database
	services   []adapter.Service
}

func newInstance(ctx context.Context, options option.Options) (*instance, error) {
	logFactory, err := newLogFactory(options)
	if err != nil {
		return nil, err
	}
	database := lookup.NewDatabase(ctx, lookup.Options{
		Logger: logFactory.NewLogger("database"),
		Path:   options.Database.Path,
		Watch:  options.Database.Watch,
	})
	services := []adapter.Service{database}
	if !options.Database.DisableUpdate && !disableUpdate {
		updateOptions := options.Database.Update
		if updateOptions == nil {
			updateOptions = &option.UpdateOptions{}
		}
		urls := []string(updateOptions.URL)
		if len(urls) == 0 {
			if updateOptions.Mirror {
				urls = []string{C.DatabaseMirrorURL, C.DatabaseURL}
			} else {
				urls = []string{C.DatabaseURL}
			}
		}
		databaseUpdater, err := updater.New(ctx, updater.Options{
			Logger:   logFactory.NewLogger("updater"),
			Database: database,
			URL:      urls,
			Interval: time.Duration(updateOptions.Interval),
			Timeout:  time.Duration(updateOptions.Timeout),
		})
		if err != nil {
			return nil, E.Cause(err, "create updater")
		}
		services = append(services, databaseUpdater)
	}
	apiOptions := options.API
	if apiOptions == nil && options.DNS == nil {
		apiOptions = &option.APIOptions{}
	}
	if apiOptions != nil {
		if listenPort != 0 {
			apiOptions.ListenPort = listenPort
		}
		server, err := api.NewServer(ctx, logFactory.NewLogger("api"), database, *apiOptions)
		if err != nil {
			return nil, E.Cause(err, "create HTTP API")
		}
		services = append(services, server)
	}
	if options.DNS != nil {
		server, err := dns.NewServer(ctx, logFactory.NewLogger("dns"), database, *options.DNS)
		if err != nil {
			return nil, E.Cause(err, "create DNS server")
		}
		services = append(services, server)
	}
	return &instance{
		logFactory: logFactory,
		database:   database,
		services:   services,
	}, nil
}

func (i *instance) Start() error {
	for _, service := range i.services {
		err := service.Start()
		if err != nil {
			return err
		}
	}
	return nil
}

func (i *instance) Close() error {
	var err error
	for index := len(i.services) - 1; index >= 0; index-- {
		err = E.Append(err, i.services[index].Close(), func(err error) error {
			return E.Cause(err, "close service[", index, "]")
		})
	}
	return E.Append(err, i.logFactory.Close(), func(err error) error {
		return E.Cause(err, "close logger")
	})
}

func serve() error {
	options, err := readConfig()
	if err != nil {
		return err
	}
	applyDatabaseFlags(&options)
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(osSignals)
	ctx, cancel := context.WithCancel(globalCtx)
	defer cancel()
	instance, err := newInstance(ctx, options)
	if err != nil {
		return err
	}
	err = instance.Start()
	if err != nil {
		instance.Close()
		return E.Cause(err, "start service")
	}
	logger := instance.logFactory.Logger()
	logger.Info("geoasn started")
	for {
		osSignal := <-osSignals
		if osSignal != syscall.SIGHUP {
			break
		}
		err = instance.database.Reload()
		if err != nil {
			logger.Error(E.Cause(err, "reload ASN database"))
		}
	}
	cancel()
	closeCtx, closed := context.WithCancel(context.Background())
	go closeMonitor(closeCtx)
	err = instance.Close()
	closed()
	return err
}

func closeMonitor(ctx context.Context) {
	time.Sleep(C.FatalStopTimeout)
	select {
	case <-ctx.Done():
		return
	default:
	}
	log.Fatal("geoasn did not close!")
}
