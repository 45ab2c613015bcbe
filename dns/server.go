package dns

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/common/listener"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	E "github.com/sagernet/sing/common/exceptions"

	mDNS "github.com/miekg/dns"
)

var _ adapter.Service = (*Server)(nil)

// Server answers origin queries for reversed addresses under a zone with a
// single TXT record "<asn> | <network> | <name>".
type Server struct {
	ctx        context.Context
	logger     log.ContextLogger
	database   adapter.ASNDatabase
	zone       string
	ttl        uint32
	networks   []string
	listenAddr string
	servers    []*mDNS.Server
}

func NewServer(ctx context.Context, logger log.ContextLogger, database adapter.ASNDatabase, options option.DNSOptions) (*Server, error) {
	if database == nil {
		return nil, E.New("missing ASN database")
	}
	zone := options.Zone
	if zone == "" {
		zone = C.DefaultDNSZone
	}
	if _, valid := mDNS.IsDomainName(zone); !valid {
		return nil, E.New("invalid zone: ", zone)
	}
	ttl := options.TTL
	if ttl == 0 {
		ttl = C.DefaultDNSTTL
	}
	networks := []string(options.Network)
	if len(networks) == 0 {
		networks = []string{"udp"}
	}
	listenAddr := netip.IPv4Unspecified()
	if options.Listen != nil {
		listenAddr = options.Listen.Build(netip.IPv4Unspecified())
	}
	listenPort := options.ListenPort
	if listenPort == 0 {
		listenPort = C.DefaultDNSListenPort
	}
	return &Server{
		ctx:        ctx,
		logger:     logger,
		database:   database,
		zone:       mDNS.CanonicalName(zone),
		ttl:        ttl,
		networks:   networks,
		listenAddr: net.JoinHostPort(listenAddr.String(), strconv.Itoa(int(listenPort))),
	}, nil
}

func (s *Server) Start() error {
	for _, network := range s.networks {
		server := &mDNS.Server{
			Net:     network,
			Handler: s.handler(network),
		}
		switch network {
		case "udp":
			conn, err := listener.ListenUDP(s.ctx, s.listenAddr)
			if err != nil {
				return E.Cause(err, "listen on udp ", s.listenAddr)
			}
			server.PacketConn = conn
		case "tcp":
			tcpListener, err := listener.ListenTCP(s.ctx, s.listenAddr)
			if err != nil {
				return E.Cause(err, "listen on tcp ", s.listenAddr)
			}
			server.Listener = tcpListener
		default:
			return E.New("unknown network: ", network)
		}
		started := make(chan struct{})
		failed := make(chan error, 1)
		server.NotifyStartedFunc = func() {
			close(started)
		}
		go func() {
			err := server.ActivateAndServe()
			if err != nil {
				failed <- err
				s.logger.Error("DNS server error: ", err)
			}
		}()
		select {
		case <-started:
		case err := <-failed:
			return E.Cause(err, "serve DNS on ", network)
		}
		s.servers = append(s.servers, server)
		s.logger.Info("DNS server started on ", network, " ", s.listenAddr, " for zone ", s.zone)
	}
	return nil
}

func (s *Server) handler(network string) mDNS.Handler {
	return mDNS.HandlerFunc(func(w mDNS.ResponseWriter, request *mDNS.Msg) {
		ctx := log.ContextWithNewID(s.ctx)
		response := s.Exchange(ctx, network, request)
		err := w.WriteMsg(response)
		if err != nil {
			s.logger.DebugContext(ctx, "write DNS response: ", err)
		}
	})
}

// Exchange builds the response to request.
func (s *Server) Exchange(ctx context.Context, network string, request *mDNS.Msg) *mDNS.Msg {
	response := new(mDNS.Msg)
	response.SetReply(request)
	response.Authoritative = true
	if request.Opcode != mDNS.OpcodeQuery {
		response.Rcode = mDNS.RcodeNotImplemented
		return response
	}
	if len(request.Question) != 1 {
		response.Rcode = mDNS.RcodeFormatError
		return response
	}
	question := request.Question[0]
	name := mDNS.CanonicalName(question.Name)
	event := log.NewDNSEvent(name).WithQueryType(question.Qtype).WithTransport(network)

	var queryErr error
	response.Rcode, queryErr = s.answer(response, question, name)
	answers := make([]string, 0, len(response.Answer))
	for _, record := range response.Answer {
		answers = append(answers, strings.Join(record.(*mDNS.TXT).Txt, ""))
	}
	event.WithResponse(response.Rcode, answers).WithError(queryErr)
	level := log.LevelDebug
	if response.Rcode == mDNS.RcodeServerFailure {
		level = log.LevelWarn
	}
	log.WithDNSEvent(s.logger, ctx, level, event, "query ", name, " ", mDNS.Type(question.Qtype), ": ", mDNS.RcodeToString[response.Rcode])
	return response
}

func (s *Server) answer(response *mDNS.Msg, question mDNS.Question, name string) (int, error) {
	if question.Qclass != mDNS.ClassINET && question.Qclass != mDNS.ClassANY {
		return mDNS.RcodeRefused, nil
	}
	if !mDNS.IsSubDomain(s.zone, name) {
		return mDNS.RcodeRefused, nil
	}
	if name == s.zone {
		return mDNS.RcodeSuccess, nil
	}
	addr, err := ParseReverseName(strings.TrimSuffix(name, "."+s.zone))
	if err != nil {
		return mDNS.RcodeNameError, err
	}
	record, found, err := s.database.LookupNetwork(addr)
	if err != nil {
		return mDNS.RcodeServerFailure, err
	}
	if !found {
		return mDNS.RcodeNameError, nil
	}
	if question.Qtype != mDNS.TypeTXT && question.Qtype != mDNS.TypeANY {
		return mDNS.RcodeSuccess, nil
	}
	response.Answer = append(response.Answer, &mDNS.TXT{
		Hdr: mDNS.RR_Header{
			Name:   question.Name,
			Rrtype: mDNS.TypeTXT,
			Class:  mDNS.ClassINET,
			Ttl:    s.ttl,
		},
		Txt: []string{
			strconv.FormatUint(uint64(record.AutonomousSystemNumber), 10) + " | " +
				record.Network.String() + " | " + record.AutonomousSystemOrganization,
		},
	})
	return mDNS.RcodeSuccess, nil
}

func (s *Server) Close() error {
	var err error
	for _, server := range s.servers {
		ctx, cancel := context.WithTimeout(context.Background(), C.StopTimeout)
		err = E.Append(err, server.ShutdownContext(ctx), func(err error) error {
			return E.Cause(err, "shutdown DNS server ", server.Net)
		})
		cancel()
	}
	s.servers = nil
	return err
}
