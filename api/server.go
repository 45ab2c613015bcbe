package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/common/listener"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/gin-gonic/gin"
)

var _ adapter.Service = (*Server)(nil)

// Server answers ASN lookups over HTTP.
type Server struct {
	ctx        context.Context
	logger     log.ContextLogger
	database   adapter.ASNDatabase
	poweredBy  string
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	listenAddr string
}

func NewServer(ctx context.Context, logger log.ContextLogger, database adapter.ASNDatabase, options option.APIOptions) (*Server, error) {
	if database == nil {
		return nil, E.New("missing ASN database")
	}
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		ctx:       ctx,
		logger:    logger,
		database:  database,
		poweredBy: options.PoweredBy,
		engine:    gin.New(),
	}
	if server.poweredBy == "" {
		server.poweredBy = C.PoweredBy
	}
	server.setupEngine()

	readTimeout := C.HTTPReadTimeout
	writeTimeout := C.HTTPWriteTimeout
	idleTimeout := C.HTTPIdleTimeout
	if options.Timeout != nil {
		if options.Timeout.Read > 0 {
			readTimeout = time.Duration(options.Timeout.Read)
		}
		if options.Timeout.Write > 0 {
			writeTimeout = time.Duration(options.Timeout.Write)
		}
		if options.Timeout.Idle > 0 {
			idleTimeout = time.Duration(options.Timeout.Idle)
		}
	}
	server.httpServer = &http.Server{
		Handler:      server.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	listenAddr := netip.IPv4Unspecified()
	if options.Listen != nil {
		listenAddr = options.Listen.Build(netip.IPv4Unspecified())
	}
	listenPort := options.ListenPort
	if listenPort == 0 {
		listenPort = C.DefaultAPIListenPort
	}
	server.listenAddr = net.JoinHostPort(listenAddr.String(), strconv.Itoa(int(listenPort)))
	return server, nil
}

func (s *Server) setupEngine() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(log.ContextWithNewID(c.Request.Context()))
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("X-Powered-By", s.poweredBy)
		c.Next()
	})
	s.engine.GET("/", s.handleClient)
	s.engine.GET("/q", s.handleQuery)
	s.engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})
}

// Handler returns the HTTP handler serving the lookup routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	tcpListener, err := listener.ListenTCP(s.ctx, s.listenAddr)
	if err != nil {
		return E.Cause(err, "listen on ", s.listenAddr)
	}
	s.listener = tcpListener
	go func() {
		err := s.httpServer.Serve(tcpListener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: ", err)
		}
	}()
	s.logger.Info("HTTP API started on ", tcpListener.Addr())
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), C.StopTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return E.Cause(err, "shutdown HTTP server")
	}
	return nil
}
