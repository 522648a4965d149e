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

package test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertDirAccess verifies the path is a directory this process can traverse.
func AssertDirAccess(t *testing.T, dirPath string) {
	t.Helper()
	stats, err := os.Stat(dirPath)
	require.NoError(t, err)
	assert.True(t, stats.IsDir())
	assert.NotZero(t, stats.Mode().Perm()&0o500)
}

// AssertFileAccess verifies the path is a regular file this process can read.
func AssertFileAccess(t *testing.T, filePath string) {
	t.Helper()
	stats, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.True(t, stats.Mode().IsRegular())
	assert.NotZero(t, stats.Mode().Perm()&0o400)
}

// AssertNoWriteAccess verifies every write bit is stripped from the path, the
// state a sealed snapshot clone must be left in.
func AssertNoWriteAccess(t *testing.T, path string) {
	t.Helper()
	stats, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, stats.Mode().Perm()&0o222)
}
