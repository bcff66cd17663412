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
	"fmt"

	"code.bizonmatrix.io/bizon/config"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	config.HomeFlag

	Owner string `long:"owner" required:"true" description:"Account owning the ledger"`
	Force bool   `short:"f" long:"force" description:"Erase existing configuration at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	bizonPaths := paths.New(opts.Home)

	loader, err := config.InitialiseLoader(bizonPaths)
	if err != nil {
		return err
	}

	exists, err := loader.ConfigExists()
	if err != nil {
		return fmt.Errorf("couldn't verify configuration presence: %w", err)
	}
	if exists && !opts.Force {
		return fmt.Errorf("configuration already exists at `%s` please remove it first or re-run using -f", loader.ConfigFilePath())
	}
	if exists {
		log.Info("removing existing configuration", logging.String("path", loader.ConfigFilePath()))
		loader.Remove()
	}

	cfg := config.NewDefaultConfig()
	cfg.Owner = opts.Owner
	if err := loader.Save(&cfg); err != nil {
		return err
	}

	log.Info("configuration generated successfully",
		logging.String("path", loader.ConfigFilePath()),
		logging.Account(opts.Owner))
	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	_, err := parser.AddCommand("init", "Initialise a bizon node", "Generate the configuration required for a bizon node to start", &initCmd)
	return err
}
