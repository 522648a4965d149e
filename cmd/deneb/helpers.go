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
	"io"
	"os"

	"code.denebprotocol.io/deneb/config"
	"code.denebprotocol.io/deneb/cow"
	"code.denebprotocol.io/deneb/kvstore"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/paths"
	"code.denebprotocol.io/deneb/snapshot"

	"github.com/pkg/errors"
)

// node bundles what every command needs to drive the snapshot machinery of
// an initialised home.
type node struct {
	home      string
	cfg       *config.Config
	snapshots *snapshot.Manager
}

func newNode(ctx context.Context, log *logging.Logger, homeOverride string) (*node, error) {
	home, err := paths.Home(homeOverride)
	if err != nil {
		return nil, err
	}

	exists, err := config.Exists(home)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't verify configuration presence")
	}
	if !exists {
		return nil, errors.Errorf("node has not been initialised, please run `%s init`", os.Args[0])
	}

	cfg, err := config.Read(home)
	if err != nil {
		return nil, err
	}

	if err := vgfs.EnsureDir(cfg.DataDir); err != nil {
		return nil, errors.Wrapf(err, "couldn't create the data directory %s", cfg.DataDir)
	}

	cowMgr, err := cow.New(log, cfg.Cow, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	openStore := func(path string) (snapshot.Store, error) {
		// hashing must not mutate the point-in-time clones
		return kvstore.OpenReadOnly(log, path)
	}

	snapshots, err := snapshot.NewManager(ctx, log, cfg.Snapshots, cowMgr, cfg.DataDir, cfg.Volumes, openStore)
	if err != nil {
		return nil, err
	}

	return &node{
		home:      home,
		cfg:       cfg,
		snapshots: snapshots,
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
