package api

import (
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/log"

	"github.com/gin-gonic/gin"
)

const (
	errorMissingIP     = "missing_ip"
	errorInvalidIP     = "invalid_ip"
	errorNotReady      = "db_not_ready"
	errorInternalError = "internal_error"
)

// Result is the JSON body of a successful lookup. An address outside every
// known network yields number 0 and an empty organization.
type Result struct {
	IP                           string `json:"ip"`
	AutonomousSystemNumber       uint   `json:"autonomous_system_number"`
	AutonomousSystemOrganization string `json:"autonomous_system_organization"`
	Network                      string `json:"network,omitempty"`
}

type errorResult struct {
	Error string `json:"error"`
}

func (s *Server) handleClient(c *gin.Context) {
	result, errorCode := s.query(c, c.ClientIP())
	s.respond(c, result, errorCode)
}

func (s *Server) handleQuery(c *gin.Context) {
	ip := strings.TrimSpace(c.Query("ip"))
	if ip == "" {
		s.respond(c, nil, errorMissingIP)
		return
	}
	result, errorCode := s.query(c, ip)
	s.respond(c, result, errorCode)
}

func (s *Server) query(c *gin.Context, ip string) (*Result, string) {
	ctx := c.Request.Context()
	event := log.NewLookupEvent("http", ip)
	if !s.database.Ready() {
		log.WithLookupEvent(s.logger, ctx, log.LevelDebug, event.WithError(adapter.ErrDatabaseNotReady), "lookup ", ip, ": ", adapter.ErrDatabaseNotReady)
		return nil, errorNotReady
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		log.WithLookupEvent(s.logger, ctx, log.LevelDebug, event.WithError(err), "invalid address: ", ip)
		return nil, errorInvalidIP
	}
	record, found, err := s.database.LookupNetwork(addr)
	if err != nil {
		if errors.Is(err, adapter.ErrDatabaseNotReady) {
			log.WithLookupEvent(s.logger, ctx, log.LevelDebug, event.WithError(err), "lookup ", ip, ": ", err)
			return nil, errorNotReady
		}
		log.WithLookupEvent(s.logger, ctx, log.LevelError, event.WithError(err), "lookup ", ip, ": ", err)
		return nil, errorInternalError
	}
	result := &Result{
		IP:                           ip,
		AutonomousSystemNumber:       record.AutonomousSystemNumber,
		AutonomousSystemOrganization: record.AutonomousSystemOrganization,
	}
	if found {
		result.Network = record.Network.String()
	}
	log.WithLookupEvent(s.logger, ctx, log.LevelDebug,
		event.WithResult(result.AutonomousSystemNumber, result.AutonomousSystemOrganization, result.Network),
		"lookup ", ip, ": AS", result.AutonomousSystemNumber)
	return result, ""
}

// textOutput reports whether the client asked for plain text, either with
// f=text or, when f is absent, by using curl.
func textOutput(c *gin.Context) bool {
	format, loaded := c.GetQuery("f")
	if loaded {
		return format == "text"
	}
	return strings.Contains(strings.ToLower(c.GetHeader("User-Agent")), "curl")
}

func (s *Server) respond(c *gin.Context, result *Result, errorCode string) {
	if textOutput(c) {
		if errorCode != "" {
			c.String(http.StatusBadRequest, "Error: %s\n", errorCode)
			return
		}
		var builder strings.Builder
		builder.WriteString("IP                 : " + result.IP + "\n")
		builder.WriteString("ASN                : " + strconv.FormatUint(uint64(result.AutonomousSystemNumber), 10) + "\n")
		builder.WriteString("ASN Organization   : " + result.AutonomousSystemOrganization + "\n")
		if result.Network != "" {
			builder.WriteString("Network            : " + result.Network + "\n")
		}
		c.String(http.StatusOK, "%s", builder.String())
		return
	}
	if errorCode != "" {
		c.JSON(http.StatusBadRequest, errorResult{Error: errorCode})
		return
	}
	c.JSON(http.StatusOK, result)
}
