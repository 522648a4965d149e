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

package snapshot

import (
	"code.denebprotocol.io/deneb/config/encoding"
	"code.denebprotocol.io/deneb/logging"
)

const namedLogger = "snapshot"

type Config struct {
	Level         encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" description:"Logging level (default: info)" long:"log-level"`
	KeepSnapshots uint              `description:"Number of non-genesis snapshots retained when pruning" long:"keep-snapshots"`
	KeepDiffs     uint              `description:"Number of assembled diffs retained when pruning" long:"keep-diffs"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		KeepSnapshots: 10,
		KeepDiffs:     10,
	}
}
