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
	"fmt"

	"code.denebprotocol.io/deneb/config"
	"code.denebprotocol.io/deneb/logging"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type SnapshotCmd struct {
	// Global options
	config.HomeFlag

	// Subcommands
	Create  snapshotCreateCmd  `command:"create" description:"Take a snapshot of the live volumes at a block"`
	Remove  snapshotRemoveCmd  `command:"remove" description:"Delete a snapshot"`
	Restore snapshotRestoreCmd `command:"restore" description:"Replace the live volumes with a snapshot"`
	Prune   snapshotPruneCmd   `command:"prune" description:"Delete all but the most recent snapshots and diffs"`
	Hash    snapshotHashCmd    `command:"hash" description:"Print the hash of a snapshot, computing it if needed"`
	Diff    snapshotDiffCmd    `command:"diff" description:"Assemble the diff of a snapshot against its predecessor"`
	Import  snapshotImportCmd  `command:"import" description:"Rebuild a snapshot from a diff file"`
}

var snapshotCmd SnapshotCmd

func Snapshot(ctx context.Context, parser *flags.Parser) error {
	snapshotCmd = SnapshotCmd{
		Create:  snapshotCreateCmd{ctx: ctx},
		Remove:  snapshotRemoveCmd{ctx: ctx},
		Restore: snapshotRestoreCmd{ctx: ctx},
		Prune:   snapshotPruneCmd{ctx: ctx},
		Hash:    snapshotHashCmd{ctx: ctx},
		Diff:    snapshotDiffCmd{ctx: ctx},
		Import:  snapshotImportCmd{ctx: ctx},
	}

	desc := "Manage the snapshots of the node"
	_, err := parser.AddCommand("snapshot", desc, desc, &snapshotCmd)
	return err
}

type snapshotCreateCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number the snapshot captures"`
}

func (opts *snapshotCreateCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	if err := n.snapshots.DoSnapshot(opts.ctx, opts.Block); err != nil {
		return err
	}

	log.Info("snapshot created",
		logging.BlockNumber(opts.Block),
		logging.Path(n.snapshots.SnapshotPath(opts.Block)))
	return nil
}

type snapshotRemoveCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number of the snapshot to delete"`
}

func (opts *snapshotRemoveCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	if err := n.snapshots.RemoveSnapshot(opts.ctx, opts.Block); err != nil {
		return err
	}

	log.Info("snapshot removed", logging.BlockNumber(opts.Block))
	return nil
}

type snapshotRestoreCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number of the snapshot to restore"`
}

func (opts *snapshotRestoreCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	if err := n.snapshots.RestoreSnapshot(opts.ctx, opts.Block); err != nil {
		return err
	}

	log.Info("live volumes restored from snapshot", logging.BlockNumber(opts.Block))
	return nil
}

type snapshotPruneCmd struct {
	ctx context.Context

	KeepSnapshots *uint `long:"keep-snapshots" description:"How many snapshots to retain, overriding the configuration"`
	KeepDiffs     *uint `long:"keep-diffs" description:"How many diffs to retain, overriding the configuration"`
}

func (opts *snapshotPruneCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	keepSnapshots := n.cfg.Snapshots.KeepSnapshots
	if opts.KeepSnapshots != nil {
		keepSnapshots = *opts.KeepSnapshots
	}
	keepDiffs := n.cfg.Snapshots.KeepDiffs
	if opts.KeepDiffs != nil {
		keepDiffs = *opts.KeepDiffs
	}

	if err := n.snapshots.LeaveNLastSnapshots(opts.ctx, keepSnapshots); err != nil {
		return err
	}
	if err := n.snapshots.LeaveNLastDiffs(opts.ctx, keepDiffs); err != nil {
		return err
	}

	log.Info("old snapshots and diffs pruned",
		logging.Uint64("kept-snapshots", uint64(keepSnapshots)),
		logging.Uint64("kept-diffs", uint64(keepDiffs)))
	return nil
}

type snapshotHashCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number of the snapshot to hash"`
	Check bool   `long:"check" description:"Re-hash every file instead of trusting cached digests"`
}

func (opts *snapshotHashCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	if err := n.snapshots.ComputeSnapshotHash(opts.ctx, opts.Block, opts.Check); err != nil {
		return err
	}

	hash, err := n.snapshots.SnapshotHash(opts.Block)
	if err != nil {
		return err
	}

	fmt.Println(hash.Hex())
	return nil
}

type snapshotDiffCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number of the snapshot to diff"`
	Out   string `long:"out" description:"Copy the assembled diff to this path"`
}

func (opts *snapshotDiffCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	diffPath, err := n.snapshots.MakeOrGetDiff(opts.ctx, opts.Block)
	if err != nil {
		return err
	}

	// The diffs directory is cleared whenever the node starts over, so offer
	// to place the artefact somewhere it survives.
	if opts.Out != "" {
		if err := copyFile(diffPath, opts.Out); err != nil {
			return errors.Wrapf(err, "couldn't copy the diff to %s", opts.Out)
		}
		diffPath = opts.Out
	}

	fmt.Println(diffPath)
	return nil
}

type snapshotImportCmd struct {
	ctx context.Context

	Block uint64 `long:"block" required:"true" description:"Block number the diff was taken at"`
	From  string `long:"from" required:"true" description:"Path of the diff file to import"`
}

func (opts *snapshotImportCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	n, err := newNode(opts.ctx, log, snapshotCmd.Home)
	if err != nil {
		return err
	}

	dest := n.snapshots.DiffPath(opts.Block)
	if opts.From != dest {
		if err := copyFile(opts.From, dest); err != nil {
			return errors.Wrapf(err, "couldn't stage the diff %s", opts.From)
		}
	}

	if err := n.snapshots.ImportDiff(opts.ctx, opts.Block); err != nil {
		return err
	}

	log.Info("snapshot imported",
		logging.BlockNumber(opts.Block),
		logging.Path(n.snapshots.SnapshotPath(opts.Block)))
	log.Info("run `snapshot hash --check` to verify it against the network")
	return nil
}
