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

// Package snapshot owns the per-block snapshot lifecycle on top of the
// copy-on-write volume manager: creating, restoring, pruning, diffing and
// hashing point-in-time clones of every configured volume.
package snapshot

import (
	"context"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"code.denebprotocol.io/deneb/cow"
	vgcrypto "code.denebprotocol.io/deneb/libs/crypto"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/metrics"
	"code.denebprotocol.io/deneb/types"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	snapshotsDirName = "snapshots"
	diffsDirName     = "diffs"
	hashFileName     = "snapshot_hash.txt"
)

// Store is the slice of the database engine the manager needs to hash a
// database volume.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/store_mock.go -package mocks code.denebprotocol.io/deneb/snapshot Store
type Store interface {
	HashBase() (common.Hash, error)
	Close() error
}

// StoreOpener opens the store rooted inside a database volume clone.
type StoreOpener func(path string) (Store, error)

// Manager materializes snapshots of the configured volumes under the data
// directory. Calls on one Manager must be serialized by the caller, only the
// hash files are guarded here.
type Manager struct {
	Config

	log       *logging.Logger
	cow       cow.Manager
	dataDir   string
	volumes   []types.Volume
	openStore StoreOpener

	// guards snapshot hash file access across snapshots
	hashMu sync.Mutex
}

// NewManager validates the data directory, prepares the snapshots and diffs
// directories, and creates any configured volume that does not exist yet.
// The diffs directory is emptied: diffs are transfer artifacts and stale
// ones are worthless after a restart.
func NewManager(
	ctx context.Context,
	log *logging.Logger,
	cfg Config,
	cowMgr cow.Manager,
	dataDir string,
	volumes []types.Volume,
	openStore StoreOpener,
) (*Manager, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, types.InvalidPathErr(dataDir, err)
	}
	if !info.IsDir() {
		return nil, types.InvalidPathErr(dataDir, errors.New("not a directory"))
	}
	if err := cowMgr.Capable(dataDir); err != nil {
		return nil, errors.Wrapf(err, "data directory %s cannot host snapshots", dataDir)
	}

	if len(volumes) == 0 {
		return nil, errors.Wrap(types.ErrInvalidVolume, "no volumes configured")
	}
	seen := map[string]struct{}{}
	for _, vol := range volumes {
		if err := vol.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[vol.Name]; ok {
			return nil, errors.Wrapf(types.ErrInvalidVolume, "duplicate volume %s", vol.Name)
		}
		seen[vol.Name] = struct{}{}
	}

	m := &Manager{
		Config:    cfg,
		log:       log,
		cow:       cowMgr,
		dataDir:   dataDir,
		volumes:   volumes,
		openStore: openStore,
	}

	if err := vgfs.EnsureDir(m.snapshotsDir()); err != nil {
		return nil, types.CannotCreateErr(m.snapshotsDir(), err)
	}
	if err := os.RemoveAll(m.diffsDir()); err != nil {
		return nil, types.CannotDeleteErr(m.diffsDir(), err)
	}
	if err := vgfs.EnsureDir(m.diffsDir()); err != nil {
		return nil, types.CannotCreateErr(m.diffsDir(), err)
	}

	for _, vol := range volumes {
		live := m.volumePath(vol.Name)
		exists, err := vgfs.PathExists(live)
		if err != nil {
			return nil, types.CannotReadErr(live, err)
		}
		if !exists {
			log.Info("creating missing volume", logging.Volume(vol.Name))
			if err := cowMgr.Create(ctx, live); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Manager) snapshotsDir() string {
	return filepath.Join(m.dataDir, snapshotsDirName)
}

func (m *Manager) diffsDir() string {
	return filepath.Join(m.dataDir, diffsDirName)
}

func (m *Manager) volumePath(name string) string {
	return filepath.Join(m.dataDir, name)
}

// SnapshotPath returns the directory holding the volume clones of block b.
func (m *Manager) SnapshotPath(b uint64) string {
	return filepath.Join(m.snapshotsDir(), strconv.FormatUint(b, 10))
}

// DiffPath returns the path of the assembled diff stream for block b.
func (m *Manager) DiffPath(b uint64) string {
	return filepath.Join(m.diffsDir(), strconv.FormatUint(b, 10))
}

func (m *Manager) partialDiffPath(b uint64, volume string) string {
	return filepath.Join(m.diffsDir(), strconv.FormatUint(b, 10)+"_"+volume)
}

func (m *Manager) hashFilePath(b uint64) string {
	return filepath.Join(m.SnapshotPath(b), hashFileName)
}

func (m *Manager) SnapshotExists(b uint64) (bool, error) {
	return vgfs.PathExists(m.SnapshotPath(b))
}

func (m *Manager) DiffExists(b uint64) (bool, error) {
	return vgfs.FileExists(m.DiffPath(b))
}

// DoSnapshot clones every configured volume into the snapshot directory of
// block b. Not idempotent, an existing snapshot is a conflict the caller
// deals with.
func (m *Manager) DoSnapshot(ctx context.Context, b uint64) error {
	defer metrics.StartSnapshotOp("do_snapshot")()

	exists, err := m.SnapshotExists(b)
	if err != nil {
		return err
	}
	if exists {
		return types.SnapshotPresentErr(b)
	}

	snapDir := m.SnapshotPath(b)
	if err := vgfs.EnsureDir(snapDir); err != nil {
		return types.CannotCreateErr(snapDir, err)
	}
	for _, vol := range m.volumes {
		dst := filepath.Join(snapDir, vol.Name)
		if err := m.cow.Snapshot(ctx, m.volumePath(vol.Name), dst); err != nil {
			m.discardSnapshotDir(ctx, b)
			return err
		}
	}

	m.log.Info("created snapshot", logging.BlockNumber(b))
	metrics.SnapshotCreatedInc()
	return nil
}

// RestoreSnapshot replaces every live volume with a writable clone of the
// stored snapshot b. Volumes are swapped one by one: a failure part-way
// leaves some volumes restored and others untouched, the caller decides
// whether to retry or fall back to a full re-sync.
func (m *Manager) RestoreSnapshot(ctx context.Context, b uint64) error {
	defer metrics.StartSnapshotOp("restore_snapshot")()

	exists, err := m.SnapshotExists(b)
	if err != nil {
		return err
	}
	if !exists {
		return types.SnapshotAbsentErr(b)
	}

	for _, vol := range m.volumes {
		live := m.volumePath(vol.Name)
		liveExists, err := vgfs.PathExists(live)
		if err != nil {
			return types.CannotReadErr(live, err)
		}
		if liveExists {
			if err := m.cow.Delete(ctx, live); err != nil {
				return err
			}
		}
		if err := m.cow.Snapshot(ctx, filepath.Join(m.SnapshotPath(b), vol.Name), live); err != nil {
			return err
		}
		if err := m.cow.SetReadOnly(ctx, live, false); err != nil {
			return err
		}
	}

	m.log.Info("restored snapshot", logging.BlockNumber(b))
	return nil
}

// RemoveSnapshot deletes the volume clones of block b and the snapshot
// directory itself.
func (m *Manager) RemoveSnapshot(ctx context.Context, b uint64) error {
	defer metrics.StartSnapshotOp("remove_snapshot")()

	exists, err := m.SnapshotExists(b)
	if err != nil {
		return err
	}
	if !exists {
		return types.SnapshotAbsentErr(b)
	}

	if err := m.deleteSnapshotDir(ctx, b); err != nil {
		return err
	}

	m.log.Info("removed snapshot", logging.BlockNumber(b))
	metrics.SnapshotRemovedInc()
	return nil
}

// LeaveNLastSnapshots keeps genesis plus the n numerically highest snapshots
// and deletes the rest.
func (m *Manager) LeaveNLastSnapshots(ctx context.Context, n uint) error {
	defer metrics.StartSnapshotOp("prune_snapshots")()

	blocks, err := m.listBlocks(m.snapshotsDir())
	if err != nil {
		return err
	}

	kept := uint(0)
	for _, b := range blocks {
		if b == 0 {
			// genesis anchor, never pruned
			continue
		}
		if kept < n {
			kept++
			continue
		}
		if err := m.deleteSnapshotDir(ctx, b); err != nil {
			return err
		}
		m.log.Info("pruned snapshot", logging.BlockNumber(b))
		metrics.SnapshotRemovedInc()
	}
	return nil
}

// LeaveNLastDiffs keeps the n highest-numbered assembled diffs. Anything
// else under the diffs directory, lower-numbered diffs and stale per-volume
// partials alike, is deleted.
func (m *Manager) LeaveNLastDiffs(ctx context.Context, n uint) error {
	defer metrics.StartSnapshotOp("prune_diffs")()

	entries, err := os.ReadDir(m.diffsDir())
	if err != nil {
		return types.CannotReadErr(m.diffsDir(), err)
	}

	blocks := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		b, err := strconv.ParseUint(entry.Name(), 10, 64)
		if err != nil {
			stale := filepath.Join(m.diffsDir(), entry.Name())
			if err := os.RemoveAll(stale); err != nil {
				return types.CannotDeleteErr(stale, err)
			}
			continue
		}
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] > blocks[j] })

	for i, b := range blocks {
		if uint(i) < n {
			continue
		}
		diff := m.DiffPath(b)
		if err := os.Remove(diff); err != nil {
			return types.CannotDeleteErr(diff, err)
		}
		m.log.Info("pruned diff", logging.BlockNumber(b))
	}
	return nil
}

// LatestSnapshots returns the two highest non-genesis block numbers with a
// stored snapshot, zeroes standing in for the ones that do not exist.
func (m *Manager) LatestSnapshots() (current, previous uint64, _ error) {
	blocks, err := m.listBlocks(m.snapshotsDir())
	if err != nil {
		return 0, 0, err
	}
	for _, b := range blocks {
		if b == 0 {
			continue
		}
		if current == 0 {
			current = b
			continue
		}
		previous = b
		break
	}
	return current, previous, nil
}

// MakeOrGetDiff returns the diff stream file for block b, assembling it from
// one full send per volume on first request. An already assembled diff is
// returned as is and never recomputed.
func (m *Manager) MakeOrGetDiff(ctx context.Context, b uint64) (string, error) {
	defer metrics.StartSnapshotOp("make_diff")()

	diffPath := m.DiffPath(b)
	exists, err := m.DiffExists(b)
	if err != nil {
		return "", err
	}
	if exists {
		return diffPath, nil
	}

	snapExists, err := m.SnapshotExists(b)
	if err != nil {
		return "", err
	}
	if !snapExists {
		return "", types.SnapshotAbsentErr(b)
	}

	partials := make([]string, 0, len(m.volumes))
	discard := func() {
		for _, partial := range partials {
			_ = os.Remove(partial)
		}
		_ = os.Remove(diffPath)
	}

	for _, vol := range m.volumes {
		partial := m.partialDiffPath(b, vol.Name)
		partials = append(partials, partial)
		if err := m.sendVolume(ctx, filepath.Join(m.SnapshotPath(b), vol.Name), partial); err != nil {
			discard()
			return "", err
		}
	}

	if err := concatFiles(diffPath, partials); err != nil {
		discard()
		return "", types.CannotWriteErr(diffPath, err)
	}
	for _, partial := range partials {
		if err := os.Remove(partial); err != nil {
			return "", types.CannotDeleteErr(partial, err)
		}
	}

	if fi, err := os.Stat(diffPath); err == nil {
		m.log.Info("assembled diff",
			logging.BlockNumber(b),
			logging.String("size", humanize.IBytes(uint64(fi.Size()))),
		)
	}
	return diffPath, nil
}

// ImportDiff materializes snapshot b from a previously fetched diff stream.
func (m *Manager) ImportDiff(ctx context.Context, b uint64) error {
	defer metrics.StartSnapshotOp("import_diff")()

	diffPath := m.DiffPath(b)
	diffExists, err := m.DiffExists(b)
	if err != nil {
		return err
	}
	if !diffExists {
		return types.InvalidPathErr(diffPath, os.ErrNotExist)
	}

	snapExists, err := m.SnapshotExists(b)
	if err != nil {
		return err
	}
	if snapExists {
		return types.SnapshotPresentErr(b)
	}

	f, err := os.Open(diffPath)
	if err != nil {
		return types.CannotReadErr(diffPath, err)
	}
	defer f.Close()

	snapDir := m.SnapshotPath(b)
	if err := vgfs.EnsureDir(snapDir); err != nil {
		return types.CannotCreateErr(snapDir, err)
	}
	if err := m.cow.Receive(ctx, f, snapDir); err != nil {
		m.discardSnapshotDir(ctx, b)
		return err
	}

	m.log.Info("imported snapshot diff", logging.BlockNumber(b))
	metrics.SnapshotCreatedInc()
	return nil
}

// ComputeSnapshotHash computes and persists the digest of snapshot b,
// folding the store digest of every database volume and the content hash of
// every file volume into one sum. A hash already on disk is immutable and
// skips the work. With checking set, every cached sidecar digest is
// recomputed from current content, the mode used to verify a snapshot
// downloaded from an untrusted peer.
func (m *Manager) ComputeSnapshotHash(ctx context.Context, b uint64, checking bool) error {
	defer metrics.StartSnapshotOp("compute_hash")()

	exists, err := m.SnapshotExists(b)
	if err != nil {
		return err
	}
	if !exists {
		return types.SnapshotAbsentErr(b)
	}

	present, err := m.IsSnapshotHashPresent(b)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	snapDir := m.SnapshotPath(b)

	// Hashing needs the clones briefly writable: database engines take a
	// write lock on open and the tree hasher persists sidecar digests.
	unsealed := make([]string, 0, len(m.volumes))
	defer func() {
		for _, clone := range unsealed {
			if err := m.cow.SetReadOnly(ctx, clone, true); err != nil {
				m.log.Warn("couldn't re-seal snapshot volume",
					logging.Path(clone), logging.Error(err))
			}
		}
	}()

	h := vgcrypto.NewHasher()
	for _, vol := range m.volumes {
		clone := filepath.Join(snapDir, vol.Name)
		if err := m.cow.SetReadOnly(ctx, clone, false); err != nil {
			return err
		}
		unsealed = append(unsealed, clone)

		switch vol.Kind {
		case types.VolumeKindDatabase:
			if err := m.foldStore(h, clone, vol); err != nil {
				return err
			}
		case types.VolumeKindFiles:
			if err := foldFileTree(m.log, h, clone, checking); err != nil {
				return err
			}
		}
	}
	snapshotHash := common.BytesToHash(h.Sum(nil))

	m.hashMu.Lock()
	defer m.hashMu.Unlock()
	if err := vgfs.WriteFile(m.hashFilePath(b), []byte(snapshotHash.Hex()+"\n")); err != nil {
		return types.CannotWriteErr(m.hashFilePath(b), err)
	}

	m.log.Info("computed snapshot hash",
		logging.BlockNumber(b),
		logging.Hash(snapshotHash),
		logging.Bool("checking", checking),
	)
	return nil
}

// SnapshotHash reads the persisted hash of snapshot b.
func (m *Manager) SnapshotHash(b uint64) (common.Hash, error) {
	exists, err := m.SnapshotExists(b)
	if err != nil {
		return common.Hash{}, err
	}
	if !exists {
		return common.Hash{}, types.SnapshotAbsentErr(b)
	}

	m.hashMu.Lock()
	defer m.hashMu.Unlock()

	hashFile := m.hashFilePath(b)
	data, err := vgfs.ReadFile(hashFile)
	if err != nil {
		return common.Hash{}, types.CannotReadErr(hashFile, err)
	}
	raw := common.FromHex(strings.TrimSpace(string(data)))
	if len(raw) != common.HashLength {
		return common.Hash{}, types.CannotReadErr(hashFile, errors.New("malformed hash file"))
	}
	return common.BytesToHash(raw), nil
}

// IsSnapshotHashPresent reports whether snapshot b already has a persisted
// hash.
func (m *Manager) IsSnapshotHashPresent(b uint64) (bool, error) {
	exists, err := m.SnapshotExists(b)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, types.SnapshotAbsentErr(b)
	}

	m.hashMu.Lock()
	defer m.hashMu.Unlock()

	present, err := vgfs.FileExists(m.hashFilePath(b))
	if err != nil {
		return false, types.CannotReadErr(m.hashFilePath(b), err)
	}
	return present, nil
}

func (m *Manager) foldStore(h hash.Hash, clone string, vol types.Volume) error {
	storePath := clone
	if vol.DatabasePath != "" {
		storePath = filepath.Join(clone, vol.DatabasePath)
	}

	store, err := m.openStore(storePath)
	if err != nil {
		return errors.Wrapf(err, "couldn't open the store of volume %s", vol.Name)
	}
	digest, err := store.HashBase()
	if err != nil {
		_ = store.Close()
		return errors.Wrapf(err, "couldn't hash the store of volume %s", vol.Name)
	}
	if err := store.Close(); err != nil {
		return errors.Wrapf(err, "couldn't close the store of volume %s", vol.Name)
	}

	h.Write(digest.Bytes())
	return nil
}

func (m *Manager) discardSnapshotDir(ctx context.Context, b uint64) {
	if err := m.deleteSnapshotDir(ctx, b); err != nil {
		m.log.Warn("couldn't discard partial snapshot",
			logging.BlockNumber(b), logging.Error(err))
	}
}

func (m *Manager) deleteSnapshotDir(ctx context.Context, b uint64) error {
	snapDir := m.SnapshotPath(b)
	for _, vol := range m.volumes {
		clone := filepath.Join(snapDir, vol.Name)
		exists, err := vgfs.PathExists(clone)
		if err != nil {
			return types.CannotReadErr(clone, err)
		}
		if !exists {
			continue
		}
		if err := m.cow.Delete(ctx, clone); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(snapDir); err != nil {
		return types.CannotDeleteErr(snapDir, err)
	}
	return nil
}

func (m *Manager) listBlocks(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, types.CannotReadErr(dir, err)
	}
	blocks := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		b, err := strconv.ParseUint(entry.Name(), 10, 64)
		if err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] > blocks[j] })
	return blocks, nil
}

func (m *Manager) sendVolume(ctx context.Context, clone, partial string) error {
	f, err := os.Create(partial)
	if err != nil {
		return types.CannotCreateErr(partial, err)
	}
	if err := m.cow.Send(ctx, f, clone, ""); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return types.CannotWriteErr(partial, err)
	}
	return nil
}

func concatFiles(dst string, srcs []string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	for _, src := range srcs {
		in, err := os.Open(src)
		if err != nil {
			_ = out.Close()
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = in.Close()
			_ = out.Close()
			return err
		}
		_ = in.Close()
	}
	return out.Close()
}
