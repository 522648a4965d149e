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

package hashagent

import (
	"time"

	"code.denebprotocol.io/deneb/config/encoding"
	"code.denebprotocol.io/deneb/logging"
)

const namedLogger = "hashagent"

type Config struct {
	Level encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Log level" long:"log-level"`

	// CollectTimeout bounds the whole exchange with one peer. A peer that
	// doesn't answer in time counts as a failed one.
	CollectTimeout encoding.Duration `description:"Timeout for collecting one peer's signature and key material" long:"collect-timeout"`
	// MaxWorkers caps how many peers are queried concurrently.
	MaxWorkers int `description:"Maximum number of peers queried at once" long:"max-workers"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:          encoding.LogLevel{Level: logging.InfoLevel},
		CollectTimeout: encoding.Duration{Duration: 10 * time.Second},
		MaxWorkers:     8,
	}
}
