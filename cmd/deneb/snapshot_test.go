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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"code.denebprotocol.io/deneb/paths"

	"github.com/stretchr/testify/require"
)

func (suite *CommandSuite) TestSnapshot(t *testing.T) {
	ctx := context.Background()
	home := suite.PrepareHome(t, ctx)
	live := filepath.Join(paths.DataDir(home), "blocks")
	snapshots := filepath.Join(paths.DataDir(home), "snapshots")

	_, err := suite.RunMain(ctx, "snapshot --home %s create --block 0", home)
	require.NoError(t, err)

	out, err := suite.RunMain(ctx, "snapshot --home %s hash --block 0 --check", home)
	require.NoError(t, err)
	genesisHash := suite.ExtractHash(t, out)

	// The chain moves on, snapshot it again.
	require.NoError(t, os.WriteFile(filepath.Join(live, "0002.dat"), []byte("five more blocks"), 0o644))
	_, err = suite.RunMain(ctx, "snapshot --home %s create --block 5", home)
	require.NoError(t, err)

	out, err = suite.RunMain(ctx, "snapshot --home %s hash --block 5 --check", home)
	require.NoError(t, err)
	laterHash := suite.ExtractHash(t, out)
	require.NotEqual(t, genesisHash, laterHash)

	diffFile := filepath.Join(t.TempDir(), "5.diff")
	_, err = suite.RunMain(ctx, "snapshot --home %s diff --block 5 --out %s", home, diffFile)
	require.NoError(t, err)
	info, err := os.Stat(diffFile)
	require.NoError(t, err)
	require.NotZero(t, info.Size())

	// Drop the snapshot and rebuild it from the exported diff.
	_, err = suite.RunMain(ctx, "snapshot --home %s remove --block 5", home)
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(snapshots, "5"))

	_, err = suite.RunMain(ctx, "snapshot --home %s import --block 5 --from %s", home, diffFile)
	require.NoError(t, err)

	out, err = suite.RunMain(ctx, "snapshot --home %s hash --block 5 --check", home)
	require.NoError(t, err)
	require.Equal(t, laterHash, suite.ExtractHash(t, out))

	// Roll the live volumes back to genesis.
	_, err = suite.RunMain(ctx, "snapshot --home %s restore --block 0", home)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(live, "0001.dat"))
	require.NoFileExists(t, filepath.Join(live, "0002.dat"))

	_, err = suite.RunMain(ctx, "snapshot --home %s create --block 7", home)
	require.NoError(t, err)

	_, err = suite.RunMain(ctx, "snapshot --home %s prune --keep-snapshots 1 --keep-diffs 0", home)
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(snapshots, "0"))
	require.NoDirExists(t, filepath.Join(snapshots, "5"))
	require.DirExists(t, filepath.Join(snapshots, "7"))
}
