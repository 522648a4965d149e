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

package config

import (
	"bytes"
	"os"

	"code.denebprotocol.io/deneb/cow"
	"code.denebprotocol.io/deneb/hashagent"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/metrics"
	"code.denebprotocol.io/deneb/nodeclient"
	"code.denebprotocol.io/deneb/paths"
	"code.denebprotocol.io/deneb/snapshot"
	"code.denebprotocol.io/deneb/statesync"
	"code.denebprotocol.io/deneb/types"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config ties together all other application configuration types.
type Config struct {
	DataDir string `description:"Directory holding the live volumes, snapshots and diffs" long:"data-dir"`

	Snapshots  snapshot.Config   `group:"Snapshots" namespace:"snapshots"`
	Cow        cow.Config        `group:"Cow" namespace:"cow"`
	HashAgent  hashagent.Config  `group:"HashAgent" namespace:"hashagent"`
	NodeClient nodeclient.Config `group:"NodeClient" namespace:"nodeclient"`
	StateSync  statesync.Config  `group:"StateSync" namespace:"statesync"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`

	// Network and Volumes describe what the node is part of and what it
	// snapshots. Both come from the node operator, the process only reads
	// them.
	Network types.Network
	Volumes []types.Volume
}

// NewDefaultConfig returns the default configuration of every package, with
// the data directory rooted at the given path.
func NewDefaultConfig(dataDir string) Config {
	return Config{
		DataDir:    dataDir,
		Snapshots:  snapshot.NewDefaultConfig(),
		Cow:        cow.NewDefaultConfig(),
		HashAgent:  hashagent.NewDefaultConfig(),
		NodeClient: nodeclient.NewDefaultConfig(),
		StateSync:  statesync.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Exists reports whether a configuration file is present under the given
// home.
func Exists(home string) (bool, error) {
	return vgfs.FileExists(paths.ConfigFile(home))
}

// Read loads the configuration file under the given home on top of the
// defaults.
func Read(home string) (*Config, error) {
	path := paths.ConfigFile(home)

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read the configuration file")
	}

	cfg := NewDefaultConfig(paths.DataDir(home))
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, errors.Wrapf(err, "couldn't parse %s", path)
	}
	return &cfg, nil
}

// Write renders the configuration as TOML under the given home.
func Write(home string, cfg Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "couldn't encode the configuration")
	}

	if err := vgfs.WriteFile(paths.ConfigFile(home), buf.Bytes()); err != nil {
		return errors.Wrap(err, "couldn't write the configuration file")
	}
	return nil
}
