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

package fs

import (
	"fmt"
	"os"
)

const (
	dirPerms  = 0o700
	filePerms = 0o600
)

// EnsureDir creates the directory (and any missing parent) if it does not
// already exist.
func EnsureDir(path string) error {
	exists, err := PathExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return os.MkdirAll(path, dirPerms)
	}
	return nil
}

// PathExists reports whether anything exists at path.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FileExists reports whether a regular file exists at path. A directory at
// that path is an error, not a negative answer.
func FileExists(path string) (bool, error) {
	stats, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if stats.IsDir() {
		return false, fmt.Errorf("path %q is a directory, expected a file", path)
	}
	return true, nil
}

// WriteFile writes data at path, creating or truncating the file.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, filePerms)
}

// ReadFile reads the whole file at path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
