// Copyright (C) 2023 Gobalsky Labs Limited
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

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"code.bizonmatrix.io/bizon/config"
	"code.bizonmatrix.io/bizon/core/node"
	"code.bizonmatrix.io/bizon/core/settlement"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/jessevdk/go-flags"
)

type NodeCmd struct {
	config.HomeFlag

	config.Config
}

var nodeCmd NodeCmd

func (cmd *NodeCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// we define this option to parse the cli args each time the config is
	// loaded. So that we can respect the cli flag precedence.
	parseFlagOpt := func(cfg *config.Config) error {
		_, err := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown).Parse()
		return err
	}

	bizonPaths := paths.New(cmd.Home)

	bootLog := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer bootLog.AtExit()

	confWatcher, err := config.NewWatcher(ctx, bootLog, bizonPaths, config.Use(parseFlagOpt))
	if err != nil {
		return err
	}

	cfg := confWatcher.Get()
	if cfg.Logging.ToFile && len(cfg.Logging.File) == 0 {
		cfg.Logging.File, err = bizonPaths.CreateStatePathFor(paths.NodeLogFile)
		if err != nil {
			return err
		}
	}
	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	n, err := node.New(ctx, log, cfg, bizonPaths, settlement.NewTransferer(cfg.Settlement))
	if err != nil {
		log.Error("could not start the node", logging.Error(err))
		return err
	}
	confWatcher.OnConfigUpdate(n.ReloadConf)

	return n.Run(ctx)
}

func Node(_ context.Context, parser *flags.Parser) error {
	nodeCmd = NodeCmd{
		Config: config.NewDefaultConfig(),
	}
	cmd, err := parser.AddCommand("node", "Runs a bizon node", "Runs a bizon node as defined by the config files", &nodeCmd)
	if err != nil {
		return err
	}

	// Print nested groups under parent's name using `::` as the separator.
	for _, parent := range cmd.Groups() {
		for _, grp := range parent.Groups() {
			grp.ShortDescription = parent.ShortDescription + "::" + grp.ShortDescription
		}
	}
	return nil
}
