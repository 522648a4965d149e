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
	"os/signal"
	"syscall"

	"code.denebprotocol.io/deneb/config"
	"code.denebprotocol.io/deneb/crypto/bls"
	"code.denebprotocol.io/deneb/hashagent"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/metrics"
	"code.denebprotocol.io/deneb/nodeclient"
	"code.denebprotocol.io/deneb/statesync"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type CatchupCmd struct {
	config.HomeFlag

	ctx context.Context

	Block   uint64 `long:"block" required:"true" description:"Block number of the snapshot to catch up to"`
	Restore bool   `long:"restore" description:"Replace the live volumes with the snapshot once verified"`
}

var catchupCmd CatchupCmd

func (opts *CatchupCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	ctx, cancel := signal.NotifyContext(opts.ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	n, err := newNode(ctx, log, opts.Home)
	if err != nil {
		return err
	}

	if err := n.cfg.Network.Validate(); err != nil {
		return errors.Wrap(err, "the network configuration is invalid")
	}

	if err := metrics.Start(n.cfg.Metrics); err != nil {
		return err
	}

	peers := len(n.cfg.Network.Nodes)
	scheme, err := bls.NewSuite(bls.Threshold(peers), peers)
	if err != nil {
		return err
	}

	client := nodeclient.NewClient(log, n.cfg.NodeClient)
	agent, err := hashagent.New(log, n.cfg.HashAgent, client, scheme, n.cfg.Network)
	if err != nil {
		return err
	}
	downloader := nodeclient.NewDownloader(log, n.cfg.NodeClient, client)

	engine := statesync.New(log, n.cfg.StateSync, n.snapshots, agent, downloader)
	if err := engine.CatchUp(ctx, opts.Block); err != nil {
		return err
	}

	if opts.Restore {
		if err := n.snapshots.RestoreSnapshot(ctx, opts.Block); err != nil {
			return err
		}
		log.Info("live volumes restored from the downloaded snapshot",
			logging.BlockNumber(opts.Block))
	}

	return nil
}

func Catchup(ctx context.Context, parser *flags.Parser) error {
	catchupCmd = CatchupCmd{ctx: ctx}

	short := "Download and verify a snapshot from the network"
	long := "Ask every node of the network for the hash of the snapshot at the given block, check the answers against the network's threshold key, then download the matching diff from an agreeing node and verify the rebuilt snapshot against the agreed hash"

	_, err := parser.AddCommand("catchup", short, long, &catchupCmd)
	return err
}
