package updater

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rdp-studio/dn42-geoasn/common/asn"
	"github.com/rdp-studio/dn42-geoasn/lookup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func databaseContent(t *testing.T, asNumber uint32) []byte {
	writer, err := asn.NewWriter(asn.WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, writer.Insert(netip.MustParsePrefix("172.20.0.0/24"), asNumber, "TEST-AS"))
	var buffer bytes.Buffer
	_, err = writer.WriteTo(&buffer)
	require.NoError(t, err)
	return buffer.Bytes()
}

func newServer(t *testing.T, status int, content []byte) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write(content)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdateFallsBackToNextURL(t *testing.T) {
	broken := newServer(t, http.StatusNotFound, nil)
	working := newServer(t, http.StatusOK, databaseContent(t, 4242420000))

	path := filepath.Join(t.TempDir(), "asn.mmdb")
	database := lookup.NewDatabase(context.Background(), lookup.Options{Path: path})
	require.NoError(t, database.Start())
	defer database.Close()

	updater, err := New(context.Background(), Options{
		Database: database,
		URL:      []string{broken.URL, working.URL},
	})
	require.NoError(t, err)
	require.NoError(t, updater.Update(context.Background()))

	assert.True(t, database.Ready())
	assert.Equal(t, uint(4242420000), database.Lookup(netip.MustParseAddr("172.20.0.1")))
	assert.NoFileExists(t, path+".new")
}

func TestUpdateRejectsInvalidDatabase(t *testing.T) {
	server := newServer(t, http.StatusOK, []byte("not a database"))

	path := filepath.Join(t.TempDir(), "asn.mmdb")
	original := databaseContent(t, 4242420000)
	require.NoError(t, os.WriteFile(path, original, 0o644))
	database := lookup.NewDatabase(context.Background(), lookup.Options{Path: path})
	require.NoError(t, database.Start())
	defer database.Close()

	updater, err := New(context.Background(), Options{
		Database: database,
		URL:      []string{server.URL},
	})
	require.NoError(t, err)
	assert.Error(t, updater.Update(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, content)
	assert.NoFileExists(t, path+".new")
	assert.Equal(t, uint(4242420000), database.Lookup(netip.MustParseAddr("172.20.0.1")))
}

func TestStartDownloadsMissingDatabase(t *testing.T) {
	server := newServer(t, http.StatusOK, databaseContent(t, 4242420001))

	path := filepath.Join(t.TempDir(), "asn.mmdb")
	database := lookup.NewDatabase(context.Background(), lookup.Options{Path: path})
	require.NoError(t, database.Start())
	defer database.Close()
	require.False(t, database.Ready())

	updater, err := New(context.Background(), Options{
		Database: database,
		URL:      []string{server.URL},
		Interval: time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, updater.Start())
	defer updater.Close()

	assert.FileExists(t, path)
	assert.Equal(t, uint(4242420001), database.Lookup(netip.MustParseAddr("172.20.0.1")))
}

func TestUpdaterPeriodicUpdate(t *testing.T) {
	server := newServer(t, http.StatusOK, databaseContent(t, 4242420002))

	path := filepath.Join(t.TempDir(), "asn.mmdb")
	require.NoError(t, os.WriteFile(path, databaseContent(t, 4242420000), 0o644))
	database := lookup.NewDatabase(context.Background(), lookup.Options{Path: path})
	require.NoError(t, database.Start())
	defer database.Close()

	updater, err := New(context.Background(), Options{
		Database: database,
		URL:      []string{server.URL},
		Interval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, updater.Start())

	assert.Eventually(t, func() bool {
		return database.Lookup(netip.MustParseAddr("172.20.0.1")) == 4242420002
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, updater.Close())
	require.NoError(t, updater.Close())
}

func TestNewRequiresDatabase(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}
