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

// Package statesync brings a node that fell behind back in step with the
// network. The engine runs a hash agreement round against the other nodes,
// then downloads the snapshot diff for the agreed block from the agreeing
// peers, one at a time, until one of them delivers a snapshot whose hash
// matches the agreed one.
package statesync

import (
	"context"
	"io/fs"
	"os"

	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/pkg/errors"
)

var (
	// ErrNoAgreedHash is returned when the hash agreement round completed
	// but no snapshot hash cleared the supermajority.
	ErrNoAgreedHash = errors.New("the network did not agree on a snapshot hash")

	// ErrSnapshotUnverified is returned when every agreeing peer was tried
	// and none of them delivered a snapshot matching the agreed hash.
	ErrSnapshotUnverified = errors.New("no peer delivered a snapshot matching the agreed hash")
)

// SnapshotManager is the slice of the snapshot manager the engine drives
// while importing and checking a downloaded diff.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/snapshot_manager_mock.go -package mocks code.denebprotocol.io/deneb/statesync SnapshotManager
type SnapshotManager interface {
	DiffPath(block uint64) string
	ImportDiff(ctx context.Context, block uint64) error
	ComputeSnapshotHash(ctx context.Context, block uint64, checking bool) error
	SnapshotHash(block uint64) (common.Hash, error)
	RemoveSnapshot(ctx context.Context, block uint64) error
}

// HashAgent runs one hash agreement round and holds its outcome.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/hash_agent_mock.go -package mocks code.denebprotocol.io/deneb/statesync HashAgent
type HashAgent interface {
	NodesToDownloadFrom(ctx context.Context, block uint64) ([]string, error)
	VotedHash() (common.Hash, *bn256.G1)
}

// Downloader pulls a snapshot diff from a peer into a local file.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/downloader_mock.go -package mocks code.denebprotocol.io/deneb/statesync Downloader
type Downloader interface {
	DownloadDiff(ctx context.Context, endpoint string, block uint64, dest string) error
}

// Engine orchestrates a catch-up: agreement round, then download, import
// and verification against each agreeing peer in turn.
type Engine struct {
	Config

	log        *logging.Logger
	snapshots  SnapshotManager
	agent      HashAgent
	downloader Downloader
}

func New(log *logging.Logger, cfg Config, snapshots SnapshotManager, agent HashAgent, downloader Downloader) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		Config:     cfg,
		log:        log,
		snapshots:  snapshots,
		agent:      agent,
		downloader: downloader,
	}
}

// CatchUp downloads and installs the snapshot for the given block from the
// network. It first runs a hash agreement round, then tries the agreeing
// peers one by one until one delivers a snapshot whose hash matches the
// agreed one. The verified snapshot is left in place, ready to be restored.
func (e *Engine) CatchUp(ctx context.Context, block uint64) error {
	defer metrics.StartSnapshotOp("catch_up")()

	endpoints, err := e.agent.NodesToDownloadFrom(ctx, block)
	if err != nil {
		return errors.Wrap(err, "hash agreement round failed")
	}
	if len(endpoints) == 0 {
		return ErrNoAgreedHash
	}

	votedHash, _ := e.agent.VotedHash()

	e.log.Info("catching up from peers",
		logging.BlockNumber(block),
		logging.Hash(votedHash),
		logging.Strings("endpoints", endpoints),
	)

	diffPath := e.snapshots.DiffPath(block)

	for _, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.tryEndpoint(ctx, endpoint, block, diffPath, votedHash); err != nil {
			e.log.Warn("peer did not deliver a usable snapshot",
				logging.String("endpoint", endpoint),
				logging.BlockNumber(block),
				logging.Error(err),
			)
			continue
		}

		e.log.Info("snapshot verified against the agreed hash",
			logging.BlockNumber(block),
			logging.Hash(votedHash),
			logging.String("endpoint", endpoint),
		)
		return nil
	}

	return errors.Wrapf(ErrSnapshotUnverified, "block %d", block)
}

func (e *Engine) tryEndpoint(ctx context.Context, endpoint string, block uint64, diffPath string, votedHash common.Hash) error {
	if err := e.downloader.DownloadDiff(ctx, endpoint, block, diffPath); err != nil {
		return errors.Wrap(err, "download failed")
	}

	if err := e.snapshots.ImportDiff(ctx, block); err != nil {
		// The manager discards its own partial snapshot on a failed import.
		e.discard(ctx, block, diffPath, false)
		return errors.Wrap(err, "import failed")
	}

	if err := e.snapshots.ComputeSnapshotHash(ctx, block, true); err != nil {
		e.discard(ctx, block, diffPath, true)
		return errors.Wrap(err, "hashing failed")
	}

	computed, err := e.snapshots.SnapshotHash(block)
	if err != nil {
		e.discard(ctx, block, diffPath, true)
		return errors.Wrap(err, "couldn't read back the snapshot hash")
	}

	if computed != votedHash {
		e.discard(ctx, block, diffPath, true)
		return errors.Errorf("peer delivered hash %s instead of %s", computed, votedHash)
	}

	return nil
}

// discard removes the artefacts of a failed attempt so the next peer starts
// from a clean slate.
func (e *Engine) discard(ctx context.Context, block uint64, diffPath string, snapshotToo bool) {
	if err := os.Remove(diffPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.log.Warn("couldn't remove the downloaded diff",
			logging.Path(diffPath),
			logging.Error(err),
		)
	}

	if !snapshotToo {
		return
	}

	if err := e.snapshots.RemoveSnapshot(ctx, block); err != nil {
		e.log.Warn("couldn't remove the rejected snapshot",
			logging.BlockNumber(block),
			logging.Error(err),
		)
	}
}
