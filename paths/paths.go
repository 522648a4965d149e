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

// Package paths lays out the node home directory. Everything the node owns
// lives under a single home: the configuration file and the data directory
// holding the live volumes, snapshots and diffs.
package paths

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	defaultHomeName = ".deneb"
	dataDirName     = "data"
	configFileName  = "config.toml"
)

// Home resolves the node home directory. An empty override means the
// default home under the user home directory.
func Home(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't resolve the user home directory")
	}
	return filepath.Join(home, defaultHomeName), nil
}

// ConfigFile returns the path of the configuration file under the given
// home.
func ConfigFile(home string) string {
	return filepath.Join(home, configFileName)
}

// DataDir returns the directory holding the live volumes, snapshots and
// diffs under the given home.
func DataDir(home string) string {
	return filepath.Join(home, dataDirName)
}
