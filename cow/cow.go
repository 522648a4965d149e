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

// Package cow exposes the storage-level copy-on-write primitives the
// snapshot manager is built on, without any higher-level policy. Two
// backends exist: btrfs subvolumes driven through the btrfs CLI, and a
// portable plain-filesystem fallback that emulates clones with copies and
// serializes them as compressed archives.
package cow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"code.denebprotocol.io/deneb/config/encoding"
	"code.denebprotocol.io/deneb/logging"
)

const namedLogger = "cow"

var (
	// ErrNotCapable is returned by Capable when the path cannot host this
	// backend's volumes.
	ErrNotCapable = errors.New("path is not capable of copy-on-write volume operations")
	// ErrNotSupported is returned for primitives a backend cannot provide,
	// such as incremental send on the plain backend.
	ErrNotSupported = errors.New("operation not supported by this backend")
	// ErrUnknownBackend is returned when the configured backend name is not
	// one of the known implementations.
	ErrUnknownBackend = errors.New("unknown volume backend")
)

// Manager is the narrow platform abstraction over copy-on-write storage.
// Operations either fully succeed or fail; after a failure the state of the
// touched paths is unspecified and callers must not blindly retry.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/manager_mock.go -package mocks code.denebprotocol.io/deneb/cow Manager
type Manager interface {
	// Create makes an empty live volume at path.
	Create(ctx context.Context, path string) error
	// Snapshot creates a read-only point-in-time clone of the volume at src
	// at the full destination path dst.
	Snapshot(ctx context.Context, src, dst string) error
	// Delete removes a volume or clone.
	Delete(ctx context.Context, path string) error
	// Send writes a byte-stream representation of the clone at src to w.
	// With a non-empty parent, the stream is incremental against it.
	Send(ctx context.Context, w io.Writer, src, parent string) error
	// Receive reconstructs the clones carried by a stream produced by Send
	// under dstDir.
	Receive(ctx context.Context, r io.Reader, dstDir string) error
	// SetReadOnly toggles writability of a clone, needed around hashing.
	SetReadOnly(ctx context.Context, path string, ro bool) error
	// Capable returns nil when path can host this backend's volumes.
	Capable(path string) error
}

// OperationError is the storage-backend fault: it carries the primitive that
// failed, the backend command it ran, and whatever the backend printed.
type OperationError struct {
	Op     string
	Cmd    string
	Output string
	Err    error
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("volume operation %s failed", e.Op)
	if e.Cmd != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Cmd)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

type Config struct {
	Level   encoding.LogLevel `description:"Log level for this package" long:"log-level"`
	Backend string            `choice:"auto" choice:"btrfs" choice:"plain" description:"Volume backend to use" long:"backend"`
}

// NewDefaultConfig creates an instance of the package config, set to sane
// defaults.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Backend: "auto",
	}
}

// New picks and builds the volume backend. With backend "auto" the btrfs
// backend is chosen iff probePath already lives on btrfs and the CLI is
// installed, otherwise the plain backend takes over.
func New(log *logging.Logger, cfg Config, probePath string) (Manager, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	switch cfg.Backend {
	case "btrfs":
		return newBtrfs(log), nil
	case "plain":
		return newPlain(log), nil
	case "", "auto":
		btr := newBtrfs(log)
		if err := btr.Capable(probePath); err == nil {
			log.Info("using btrfs volume backend", logging.Path(probePath))
			return btr, nil
		}
		log.Info("btrfs not available, using plain volume backend", logging.Path(probePath))
		return newPlain(log), nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, ErrUnknownBackend)
	}
}
