package option

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	options, err := ParseOptions([]byte(`{
		"log": {"level": "debug", "outputs": [{"type": "stdout", "format": "json"}]},
		"registry": {"path": "registry", "output": "table.csv", "disable_cache": true},
		"database": {
			"path": "asn.mmdb",
			"watch": true,
			"update": {"url": ["https://example.org/asn.mmdb"], "interval": "30m"}
		},
		"api": {"listen": "127.0.0.1", "listen_port": 8080, "timeout": {"read": "10s"}},
		"dns": {"listen_port": 5353, "network": "tcp", "zone": "origin.asn.dn42"}
	}`))
	require.NoError(t, err)

	require.NotNil(t, options.Log)
	assert.Equal(t, "debug", options.Log.Level)
	require.Len(t, options.Log.Outputs, 1)
	assert.Equal(t, "json", options.Log.Outputs[0].Format)

	assert.True(t, options.Registry.DisableCache)
	assert.Equal(t, "asn.mmdb", options.Database.Path)
	require.NotNil(t, options.Database.Update)
	assert.Equal(t, []string{"https://example.org/asn.mmdb"}, []string(options.Database.Update.URL))
	assert.Equal(t, 30*time.Minute, time.Duration(options.Database.Update.Interval))

	require.NotNil(t, options.API)
	require.NotNil(t, options.API.Listen)
	assert.Equal(t, netip.MustParseAddr("127.0.0.1"), options.API.Listen.Build(netip.IPv4Unspecified()))
	assert.Equal(t, uint16(8080), options.API.ListenPort)
	assert.Equal(t, 10*time.Second, time.Duration(options.API.Timeout.Read))

	require.NotNil(t, options.DNS)
	assert.Equal(t, []string{"tcp"}, []string(options.DNS.Network))
	assert.Equal(t, "origin.asn.dn42", options.DNS.Zone)
}

func TestParseOptionsRejectsInvalid(t *testing.T) {
	for _, content := range []string{
		`{"unknown": true}`,
		`{"registry": {"unknown": true}}`,
		`{"log": {"outputs": [{"type": "syslog"}]}}`,
		`{"log": {"outputs": [{"type": "file"}]}}`,
		`{"log": {"outputs": [{"type": "stdout", "format": "xml"}]}}`,
		`{"dns": {"network": "quic"}}`,
	} {
		_, err := ParseOptions([]byte(content))
		assert.Error(t, err, content)
	}
}
