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

package nodeclient

import (
	"time"

	"code.denebprotocol.io/deneb/config/encoding"
	"code.denebprotocol.io/deneb/logging"
)

const namedLogger = "nodeclient"

type Config struct {
	Level encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Log level" long:"log-level"`

	// RequestTimeout bounds one HTTP round trip to a peer.
	RequestTimeout encoding.Duration `description:"Timeout for a single RPC call to a peer" long:"request-timeout"`
	// FragmentSize is how many bytes of a diff one download call asks for.
	FragmentSize uint64 `description:"Size in bytes of one downloaded snapshot fragment" long:"fragment-size"`
	// MaxRetries caps how often a failed size or fragment call is retried
	// before the endpoint is given up on.
	MaxRetries           uint64            `description:"Number of times a failed download call is retried" long:"max-retries"`
	RetryInitialInterval encoding.Duration `description:"Initial pause between download retries" long:"retry-initial-interval"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:                encoding.LogLevel{Level: logging.InfoLevel},
		RequestTimeout:       encoding.Duration{Duration: 15 * time.Second},
		FragmentSize:         1 << 20,
		MaxRetries:           5,
		RetryInitialInterval: encoding.Duration{Duration: 500 * time.Millisecond},
	}
}
