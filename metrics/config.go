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

package metrics

import (
	"code.denebprotocol.io/deneb/config/encoding"
	"code.denebprotocol.io/deneb/logging"
)

// Config represents the configuration of the metric package.
type Config struct {
	Level   encoding.LogLevel `description:"Logging level (default: info)" long:"log-level"`
	Enabled encoding.Bool     `description:"Whether to serve prometheus metrics" long:"enabled"`
	Port    int               `description:"Port to serve prometheus metrics on" long:"port"`
	Path    string            `description:"Path to serve prometheus metrics on" long:"path"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: false,
		Port:    2112,
		Path:    "/metrics",
	}
}
