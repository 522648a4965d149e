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

package logging

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Generic zap field wrappers, so packages only ever import logging.

func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

func Error(val error) zap.Field {
	return zap.Error(val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

func String(key, val string) zap.Field {
	return zap.String(key, val)
}

func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Domain helpers, named after the things this node logs most.

func BlockNumber(b uint64) zap.Field {
	return zap.Uint64("block-number", b)
}

func Endpoint(e string) zap.Field {
	return zap.String("endpoint", e)
}

func Hash(h common.Hash) zap.Field {
	return zap.String("hash", h.Hex())
}

func NodeID(id uint64) zap.Field {
	return zap.Uint64("node-id", id)
}

func Path(p string) zap.Field {
	return zap.String("path", p)
}

func Volume(name string) zap.Field {
	return zap.String("volume", name)
}
