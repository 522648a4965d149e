// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"code.denebprotocol.io/deneb/config"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/paths"
	"code.denebprotocol.io/deneb/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("Round-trips through TOML", testConfigRoundTripsThroughTOML)
	t.Run("Reads a partial file on top of the defaults", testConfigReadsPartialFileOnTopOfDefaults)
	t.Run("Fails without a configuration file", testConfigFailsWithoutConfigurationFile)
	t.Run("Fails on a malformed file", testConfigFailsOnMalformedFile)
	t.Run("Watcher picks up a rewrite", testConfigWatcherPicksUpRewrite)
}

func testConfigRoundTripsThroughTOML(t *testing.T) {
	home := t.TempDir()

	cfg := config.NewDefaultConfig(filepath.Join(home, "data"))
	cfg.Snapshots.KeepSnapshots = 3
	cfg.Cow.Backend = "plain"
	cfg.HashAgent.MaxWorkers = 2
	cfg.NodeClient.FragmentSize = 1 << 10
	cfg.Metrics.Enabled = true
	cfg.Network = types.Network{
		Nodes: []types.NodeInfo{
			{ID: 101, IP: "10.0.0.1", RPCPort: 1237},
			{ID: 102, IP: "10.0.0.2", RPCPort: 1237},
		},
		SelfID:          101,
		CommonPublicKey: [4]string{"1", "2", "3", "4"},
	}
	cfg.Volumes = []types.Volume{
		{Name: "blocks", Kind: types.VolumeKindDatabase, DatabasePath: "db"},
		{Name: "filestorage", Kind: types.VolumeKindFiles},
	}

	require.NoError(t, config.Write(home, cfg))

	exists, err := config.Exists(home)
	require.NoError(t, err)
	require.True(t, exists)

	loaded, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func testConfigReadsPartialFileOnTopOfDefaults(t *testing.T) {
	home := t.TempDir()

	partial := `
[Snapshots]
KeepSnapshots = 7

[[Volumes]]
Name = "blocks"
Kind = "database"
`
	require.NoError(t, vgfs.WriteFile(paths.ConfigFile(home), []byte(partial)))

	loaded, err := config.Read(home)
	require.NoError(t, err)

	defaults := config.NewDefaultConfig(paths.DataDir(home))
	assert.Equal(t, uint(7), loaded.Snapshots.KeepSnapshots)
	assert.Equal(t, defaults.Snapshots.KeepDiffs, loaded.Snapshots.KeepDiffs)
	assert.Equal(t, defaults.NodeClient.FragmentSize, loaded.NodeClient.FragmentSize)
	assert.Equal(t, paths.DataDir(home), loaded.DataDir)
	require.Len(t, loaded.Volumes, 1)
	assert.Equal(t, types.VolumeKindDatabase, loaded.Volumes[0].Kind)
}

func testConfigFailsWithoutConfigurationFile(t *testing.T) {
	home := t.TempDir()

	exists, err := config.Exists(home)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = config.Read(home)
	require.Error(t, err)
}

func testConfigFailsOnMalformedFile(t *testing.T) {
	home := t.TempDir()

	require.NoError(t, vgfs.WriteFile(paths.ConfigFile(home), []byte("[Snapshots")))

	_, err := config.Read(home)
	require.ErrorContains(t, err, "couldn't parse")
}

func testConfigWatcherPicksUpRewrite(t *testing.T) {
	home := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewDefaultConfig(paths.DataDir(home))
	require.NoError(t, config.Write(home, cfg))

	watcher, err := config.NewWatcher(ctx, logging.NewTestLogger(), home)
	require.NoError(t, err)

	updates := make(chan config.Config, 10)
	watcher.OnConfigUpdate(func(c config.Config) { updates <- c })

	cfg.Snapshots.KeepSnapshots = 42
	require.NoError(t, config.Write(home, cfg))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case updated := <-updates:
			if updated.Snapshots.KeepSnapshots != 42 {
				// rewrite made of several fs events, keep draining
				continue
			}
			assert.Equal(t, uint(42), watcher.Get().Snapshots.KeepSnapshots)
			return
		case <-deadline:
			t.Fatal("the watcher never reported the rewritten configuration")
		}
	}
}
