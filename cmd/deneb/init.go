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

	"code.denebprotocol.io/deneb/config"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/paths"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type InitCmd struct {
	config.HomeFlag

	Force bool `short:"f" long:"force" description:"Overwrite an existing configuration at the specified home"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	home, err := paths.Home(opts.Home)
	if err != nil {
		return err
	}

	exists, err := config.Exists(home)
	if err != nil {
		return errors.Wrap(err, "couldn't verify configuration presence")
	}
	if exists && !opts.Force {
		return errors.Errorf("configuration already exists at `%s`, please remove it first or re-run using -f", paths.ConfigFile(home))
	}

	if err := vgfs.EnsureDir(home); err != nil {
		return errors.Wrapf(err, "couldn't create the home directory %s", home)
	}
	if err := vgfs.EnsureDir(paths.DataDir(home)); err != nil {
		return errors.Wrapf(err, "couldn't create the data directory %s", paths.DataDir(home))
	}

	cfg := config.NewDefaultConfig(paths.DataDir(home))
	if err := config.Write(home, cfg); err != nil {
		return err
	}

	log.Info("configuration generated successfully",
		logging.Path(paths.ConfigFile(home)))
	log.Info("add the volumes and the network description to the configuration before taking snapshots")

	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	short := "Initialises a node home"
	long := "Generate the minimal configuration required for a node to take and exchange snapshots"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
