package main

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rdp-studio/dn42-geoasn/common/asn"
	"github.com/rdp-studio/dn42-geoasn/log"
	"github.com/rdp-studio/dn42-geoasn/option"
	"github.com/rdp-studio/dn42-geoasn/updater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeObject(t *testing.T, root, class, name, content string) {
	directory := filepath.Join(root, "data", class)
	require.NoError(t, os.MkdirAll(directory, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(directory, name), []byte(content), 0o644))
}

func TestFindThenGenerate(t *testing.T) {
	root := t.TempDir()
	writeObject(t, root, "route", "172.20.0.0_24", "route: 172.20.0.0/24\norigin: AS4242420000\n")
	writeObject(t, root, "route6", "fd42:d42:d42::_48", "route6: fd42:d42:d42::/48\norigin: AS4242420001\n")
	writeObject(t, root, "aut-num", "AS4242420000", "aut-num: AS4242420000\nas-name: DN42-AS\n")
	writeObject(t, root, "aut-num", "AS4242420001", "aut-num: AS4242420001\nas-name: IPV6-AS\n")

	output := t.TempDir()
	registryOptions := option.RegistryOptions{
		Path:   root,
		Output: filepath.Join(output, "table.csv"),
	}
	table, err := find(context.Background(), log.NewNOPFactory(), registryOptions)
	require.NoError(t, err)
	content, err := os.ReadFile(table)
	require.NoError(t, err)
	assert.Equal(t, "172.20.0.0/24,4242420000,DN42-AS\r\nfd42:d42:d42::/48,4242420001,IPV6-AS\r\n", string(content))

	databaseOptions := option.DatabaseOptions{Path: filepath.Join(output, "asn.mmdb")}
	require.NoError(t, generate(log.NewNOPFactory(), table, databaseOptions))

	reader, err := asn.Open(databaseOptions.Path)
	require.NoError(t, err)
	defer reader.Close()
	asNumber, name := reader.LookupWithOrg(netip.MustParseAddr("fd42:d42:d42::53"))
	assert.Equal(t, uint(4242420001), asNumber)
	assert.Equal(t, "IPV6-AS", name)
}

func TestApplyFlags(t *testing.T) {
	var options option.Options
	applyRegistryFlags(&options)
	applyDatabaseFlags(&options)
	assert.Equal(t, "registry", options.Registry.Path)
	assert.Equal(t, "GeoLite2-ASN-DN42-Source.csv", options.Registry.Output)
	assert.Equal(t, "GeoLite2-ASN-DN42.mmdb", options.Database.Path)
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"registry":{"path":"dn42-registry","lf":true},"database":{"update":{"interval":"1h"}}}`), 0o644))
	configPath = path
	defer func() {
		configPath = ""
	}()
	options, err := readConfig()
	require.NoError(t, err)
	assert.Equal(t, "dn42-registry", options.Registry.Path)
	assert.True(t, options.Registry.LF)
	require.NotNil(t, options.Database.Update)

	require.NoError(t, os.WriteFile(path, []byte(`{"unknown":true}`), 0o644))
	_, err = readConfig()
	assert.Error(t, err)
}

func TestServeUpdatesByDefault(t *testing.T) {
	options := option.Options{
		Log:      &option.LogOptions{Disabled: true},
		Database: option.DatabaseOptions{Path: filepath.Join(t.TempDir(), "asn.mmdb")},
	}
	instance, err := newInstance(context.Background(), options)
	require.NoError(t, err)
	defer instance.Close()
	require.Len(t, instance.services, 3)
	assert.IsType(t, &updater.Updater{}, instance.services[1])

	options.Database.DisableUpdate = true
	disabled, err := newInstance(context.Background(), options)
	require.NoError(t, err)
	defer disabled.Close()
	require.Len(t, disabled.services, 2)
	for _, service := range disabled.services {
		_, isUpdater := service.(*updater.Updater)
		assert.False(t, isUpdater)
	}
}
