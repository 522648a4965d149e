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

package types

import (
	"errors"
	"fmt"
)

// Filesystem and storage faults. Always wrapped with the offending path, so
// callers match with errors.Is and operators see where it went wrong.
var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrCannotRead   = errors.New("cannot read")
	ErrCannotWrite  = errors.New("cannot write")
	ErrCannotCreate = errors.New("cannot create")
	ErrCannotDelete = errors.New("cannot delete")
)

// Expected-state conflicts. These are normal branches for callers that check
// with errors.Is, not faults.
var (
	ErrSnapshotPresent = errors.New("snapshot is already present")
	ErrSnapshotAbsent  = errors.New("snapshot is absent")
)

var (
	ErrInvalidVolume  = errors.New("invalid volume definition")
	ErrEmptyNetwork   = errors.New("network has no nodes")
	ErrInvalidNetwork = errors.New("invalid network definition")
)

func InvalidPathErr(path string, err error) error {
	return pathErr(ErrInvalidPath, path, err)
}

func CannotReadErr(path string, err error) error {
	return pathErr(ErrCannotRead, path, err)
}

func CannotWriteErr(path string, err error) error {
	return pathErr(ErrCannotWrite, path, err)
}

func CannotCreateErr(path string, err error) error {
	return pathErr(ErrCannotCreate, path, err)
}

func CannotDeleteErr(path string, err error) error {
	return pathErr(ErrCannotDelete, path, err)
}

func pathErr(sentinel error, path string, err error) error {
	if err != nil {
		return fmt.Errorf("%w %s: %v", sentinel, path, err)
	}
	return fmt.Errorf("%w %s", sentinel, path)
}

func SnapshotPresentErr(block uint64) error {
	return fmt.Errorf("block %d: %w", block, ErrSnapshotPresent)
}

func SnapshotAbsentErr(block uint64) error {
	return fmt.Errorf("block %d: %w", block, ErrSnapshotAbsent)
}
