package dns

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"testing"

	"github.com/rdp-studio/dn42-geoasn/adapter"
	"github.com/rdp-studio/dn42-geoasn/common/asn"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json/badoption"

	mDNS "github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDatabase struct {
	err error
}

func (d *testDatabase) Ready() bool {
	return d.err != adapter.ErrDatabaseNotReady
}

func (d *testDatabase) LookupNetwork(addr netip.Addr) (asn.Record, bool, error) {
	if d.err != nil {
		return asn.Record{}, false, d.err
	}
	for _, entry := range []struct {
		prefix string
		asn    uint
		name   string
	}{
		{"172.20.0.0/24", 4242420000, "DN42-AS"},
		{"fd42:d42:d42::/48", 4242420001, "IPV6-AS"},
	} {
		prefix := netip.MustParsePrefix(entry.prefix)
		if prefix.Contains(addr) {
			return asn.Record{
				ASNRecord: asn.ASNRecord{AutonomousSystemNumber: entry.asn, AutonomousSystemOrganization: entry.name},
				Network:   prefix,
			}, true, nil
		}
	}
	return asn.Record{}, false, nil
}

func newTestServer(t *testing.T, database adapter.ASNDatabase) *Server {
	server, err := NewServer(context.Background(), log.NewNOPFactory().Logger(), database, option.DNSOptions{Zone: "origin.asn.dn42"})
	require.NoError(t, err)
	return server
}

func query(server *Server, name string, qtype uint16) *mDNS.Msg {
	request := new(mDNS.Msg)
	request.SetQuestion(name, qtype)
	return server.Exchange(context.Background(), "udp", request)
}

func TestParseReverseName(t *testing.T) {
	testCases := []struct {
		labels string
		addr   string
	}{
		{"53.0.20.172", "172.20.0.53"},
		{"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.2.4.d.0.2.4.d.0.2.4.d.f", "fd42:d42:d42::1"},
		{"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.2.4.D.0.2.4.D.0.2.4.D.F", "fd42:d42:d42::1"},
	}
	for _, tc := range testCases {
		addr, err := ParseReverseName(tc.labels)
		require.NoError(t, err, tc.labels)
		assert.Equal(t, netip.MustParseAddr(tc.addr), addr)
	}

	for _, labels := range []string{
		"",
		"0.20.172",
		"256.0.20.172",
		"053.0.20.172",
		"x.0.20.172",
		"10.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.2.4.d.0.2.4.d.0.2.4.d.f",
		"g.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.2.4.d.0.2.4.d.0.2.4.d.f",
	} {
		_, err := ParseReverseName(labels)
		assert.Error(t, err, labels)
	}
}

func TestExchangeTXT(t *testing.T) {
	server := newTestServer(t, &testDatabase{})

	response := query(server, "53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT)
	require.Equal(t, mDNS.RcodeSuccess, response.Rcode)
	assert.True(t, response.Authoritative)
	require.Len(t, response.Answer, 1)
	txt := response.Answer[0].(*mDNS.TXT)
	assert.Equal(t, []string{"4242420000 | 172.20.0.0/24 | DN42-AS"}, txt.Txt)
	assert.Equal(t, uint32(300), txt.Hdr.Ttl)
	assert.Equal(t, "53.0.20.172.origin.asn.dn42.", txt.Hdr.Name)

	response = query(server, "1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.2.4.d.0.2.4.d.0.2.4.d.f.Origin.ASN.dn42.", mDNS.TypeTXT)
	require.Equal(t, mDNS.RcodeSuccess, response.Rcode)
	require.Len(t, response.Answer, 1)
	assert.Equal(t, []string{"4242420001 | fd42:d42:d42::/48 | IPV6-AS"}, response.Answer[0].(*mDNS.TXT).Txt)
}

func TestExchangeRcodes(t *testing.T) {
	testCases := []struct {
		name     string
		database *testDatabase
		qname    string
		qtype    uint16
		rcode    int
	}{
		{"outside zone", &testDatabase{}, "53.0.20.172.in-addr.arpa.", mDNS.TypeTXT, mDNS.RcodeRefused},
		{"unknown network", &testDatabase{}, "1.0.0.10.origin.asn.dn42.", mDNS.TypeTXT, mDNS.RcodeNameError},
		{"malformed", &testDatabase{}, "www.origin.asn.dn42.", mDNS.TypeTXT, mDNS.RcodeNameError},
		{"apex", &testDatabase{}, "origin.asn.dn42.", mDNS.TypeTXT, mDNS.RcodeSuccess},
		{"other type", &testDatabase{}, "53.0.20.172.origin.asn.dn42.", mDNS.TypeA, mDNS.RcodeSuccess},
		{"not ready", &testDatabase{err: adapter.ErrDatabaseNotReady}, "53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT, mDNS.RcodeServerFailure},
		{"broken", &testDatabase{err: E.New("corrupt")}, "53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT, mDNS.RcodeServerFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			response := query(newTestServer(t, tc.database), tc.qname, tc.qtype)
			assert.Equal(t, tc.rcode, response.Rcode)
			assert.Empty(t, response.Answer)
		})
	}
}

func TestExchangeRejectsMalformedMessages(t *testing.T) {
	server := newTestServer(t, &testDatabase{})

	request := new(mDNS.Msg)
	request.SetQuestion("53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT)
	request.Question = append(request.Question, request.Question[0])
	assert.Equal(t, mDNS.RcodeFormatError, server.Exchange(context.Background(), "udp", request).Rcode)

	request = new(mDNS.Msg)
	request.SetQuestion("53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT)
	request.Opcode = mDNS.OpcodeUpdate
	assert.Equal(t, mDNS.RcodeNotImplemented, server.Exchange(context.Background(), "udp", request).Rcode)
}

func TestNewServerRejectsInvalidZone(t *testing.T) {
	_, err := NewServer(context.Background(), log.NewNOPFactory().Logger(), &testDatabase{}, option.DNSOptions{Zone: "bad..zone"})
	assert.Error(t, err)
	_, err = NewServer(context.Background(), log.NewNOPFactory().Logger(), nil, option.DNSOptions{})
	assert.Error(t, err)
}

func TestServerUDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())

	listen := badoption.Addr(netip.MustParseAddr("127.0.0.1"))
	var options option.DNSOptions
	options.Listen = &listen
	options.ListenPort = uint16(port)
	options.Network = badoption.Listable[string]{"udp"}
	server, err := NewServer(context.Background(), log.NewNOPFactory().Logger(), &testDatabase{}, options)
	require.NoError(t, err)
	require.NoError(t, server.Start())
	defer server.Close()

	request := new(mDNS.Msg)
	request.SetQuestion("53.0.20.172.origin.asn.dn42.", mDNS.TypeTXT)
	client := new(mDNS.Client)
	response, _, err := client.Exchange(request, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	require.Len(t, response.Answer, 1)
	assert.Equal(t, []string{"4242420000 | 172.20.0.0/24 | DN42-AS"}, response.Answer[0].(*mDNS.TXT).Txt)
	require.NoError(t, server.Close())
}
