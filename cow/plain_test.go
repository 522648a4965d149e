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

package cow_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"code.denebprotocol.io/deneb/cow"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	vgtest "code.denebprotocol.io/deneb/libs/test"
	"code.denebprotocol.io/deneb/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainManager(t *testing.T) cow.Manager {
	t.Helper()
	cfg := cow.NewDefaultConfig()
	cfg.Backend = "plain"
	mgr, err := cow.New(logging.NewTestLogger(), cfg, t.TempDir())
	require.NoError(t, err)
	return mgr
}

func writeVolume(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, vgfs.EnsureDir(filepath.Dir(path)))
		require.NoError(t, vgfs.WriteFile(path, []byte(content)))
	}
}

func readVolume(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.Mode().IsRegular() {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			rel, err := filepath.Rel(root, path)
			require.NoError(t, err)
			out[filepath.ToSlash(rel)] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestPlainBackend(t *testing.T) {
	t.Run("Snapshot clones content and seals it read-only", testPlainSnapshotClonesAndSeals)
	t.Run("Snapshot refuses an existing destination", testPlainSnapshotRefusesExistingDestination)
	t.Run("Delete removes a sealed clone", testPlainDeleteRemovesSealedClone)
	t.Run("Send and receive round-trip several volumes", testPlainSendReceiveRoundTrip)
	t.Run("Incremental send is not supported", testPlainIncrementalSendNotSupported)
	t.Run("SetReadOnly toggles writability", testPlainSetReadOnlyToggles)
}

func testPlainSnapshotClonesAndSeals(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	live := filepath.Join(dir, "state")
	require.NoError(t, mgr.Create(ctx, live))
	content := map[string]string{
		"a.txt":        "alpha",
		"nested/b.txt": "beta",
	}
	writeVolume(t, live, content)

	clone := filepath.Join(dir, "clone")
	require.NoError(t, mgr.Snapshot(ctx, live, clone))

	assert.Equal(t, content, readVolume(t, clone))
	vgtest.AssertNoWriteAccess(t, filepath.Join(clone, "a.txt"))
	vgtest.AssertNoWriteAccess(t, filepath.Join(clone, "nested"))

	// The live volume is untouched and still writable.
	require.NoError(t, vgfs.WriteFile(filepath.Join(live, "c.txt"), []byte("gamma")))
}

func testPlainSnapshotRefusesExistingDestination(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	live := filepath.Join(dir, "state")
	require.NoError(t, mgr.Create(ctx, live))
	clone := filepath.Join(dir, "clone")
	require.NoError(t, mgr.Snapshot(ctx, live, clone))

	err := mgr.Snapshot(ctx, live, clone)
	require.Error(t, err)
	opErr := &cow.OperationError{}
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "snapshot", opErr.Op)
}

func testPlainDeleteRemovesSealedClone(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	live := filepath.Join(dir, "state")
	require.NoError(t, mgr.Create(ctx, live))
	writeVolume(t, live, map[string]string{"deep/file": "x"})

	clone := filepath.Join(dir, "clone")
	require.NoError(t, mgr.Snapshot(ctx, live, clone))
	require.NoError(t, mgr.Delete(ctx, clone))

	exists, err := vgfs.PathExists(clone)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is a backend fault, not a silent no-op.
	require.Error(t, mgr.Delete(ctx, clone))
}

func testPlainSendReceiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	volumes := map[string]map[string]string{
		"state":  {"kv/000001.log": "log content", "CURRENT": "MANIFEST-000001"},
		"files":  {"uploads/img.bin": string([]byte{0, 1, 2, 254}), "uploads/img.bin._hash": "cafe"},
		"blocks": {"b1": "block one"},
	}
	clones := make([]string, 0, len(volumes))
	for _, name := range []string{"state", "files", "blocks"} {
		live := filepath.Join(dir, name)
		require.NoError(t, mgr.Create(ctx, live))
		writeVolume(t, live, volumes[name])
		clone := filepath.Join(dir, "snap_"+name)
		require.NoError(t, mgr.Snapshot(ctx, live, clone))
		clones = append(clones, clone)
	}

	// One concatenated stream, the way the snapshot manager assembles diffs.
	buf := &bytes.Buffer{}
	for _, clone := range clones {
		require.NoError(t, mgr.Send(ctx, buf, clone, ""))
	}

	dstDir := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, mgr.Receive(ctx, bytes.NewReader(buf.Bytes()), dstDir))

	for _, name := range []string{"state", "files", "blocks"} {
		got := readVolume(t, filepath.Join(dstDir, "snap_"+name))
		assert.Equal(t, volumes[name], got, "volume %s", name)
	}
}

func testPlainIncrementalSendNotSupported(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	live := filepath.Join(dir, "state")
	require.NoError(t, mgr.Create(ctx, live))
	c1 := filepath.Join(dir, "c1")
	c2 := filepath.Join(dir, "c2")
	require.NoError(t, mgr.Snapshot(ctx, live, c1))
	require.NoError(t, mgr.Snapshot(ctx, live, c2))

	err := mgr.Send(ctx, &bytes.Buffer{}, c2, c1)
	require.ErrorIs(t, err, cow.ErrNotSupported)
}

func testPlainSetReadOnlyToggles(t *testing.T) {
	ctx := context.Background()
	mgr := newPlainManager(t)
	dir := t.TempDir()

	live := filepath.Join(dir, "state")
	require.NoError(t, mgr.Create(ctx, live))
	writeVolume(t, live, map[string]string{"f": "v"})
	clone := filepath.Join(dir, "clone")
	require.NoError(t, mgr.Snapshot(ctx, live, clone))

	target := filepath.Join(clone, "f")
	require.Error(t, os.WriteFile(target, []byte("w"), 0o600))

	require.NoError(t, mgr.SetReadOnly(ctx, clone, false))
	require.NoError(t, os.WriteFile(target, []byte("w"), 0o600))

	require.NoError(t, mgr.SetReadOnly(ctx, clone, true))
	vgtest.AssertNoWriteAccess(t, target)
}
