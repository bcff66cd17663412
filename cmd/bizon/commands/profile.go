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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"code.bizonmatrix.io/bizon/config"
	"code.bizonmatrix.io/bizon/core/broker"
	"code.bizonmatrix.io/bizon/core/matrix"
	"code.bizonmatrix.io/bizon/core/snapshot"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/jessevdk/go-flags"
)

type ProfileCmd struct {
	config.HomeFlag

	Version int64 `long:"snapshot-version" default:"-1" description:"Snapshot to read from, -1 is the latest"`
	Pools   bool  `long:"pools" description:"Print the pools and ledger stats instead of a profile"`

	Args struct {
		Participant string `positional-arg-name:"ACCOUNT|ID" description:"Account or public ID of the participant"`
	} `positional-args:"yes"`
}

var profileCmd ProfileCmd

type offlineClock struct{}

func (offlineClock) GetTimeNow() time.Time { return time.Now() }

// Execute reads the ledger from a snapshot, without a running node. The
// node holds a lock on the snapshot store, so it must be stopped first.
func (opts *ProfileCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.Config{Environment: "dev", Level: logging.WarnLevel})
	defer log.AtExit()

	bizonPaths := paths.New(opts.Home)
	loader, err := config.InitialiseLoader(bizonPaths)
	if err != nil {
		return err
	}
	cfg, err := loader.Get()
	if err != nil {
		return fmt.Errorf("couldn't load the configuration: %w", err)
	}

	eng, err := matrix.New(log, cfg.Matrix, offlineClock{}, broker.New(log, cfg.Broker), nil, nil)
	if err != nil {
		return err
	}

	snapCfg := cfg.Snapshot
	snapCfg.StartVersion = opts.Version
	snap, err := snapshot.New(log, snapCfg, bizonPaths, eng)
	if err != nil {
		return fmt.Errorf("couldn't open the snapshot store, is the node still running? %w", err)
	}
	defer snap.Close()

	restored, err := snap.Restore(context.Background())
	if err != nil {
		return err
	}
	if !restored {
		return types.ErrNotInitialised
	}

	if opts.Pools {
		return printJSON(struct {
			Pools *types.Pools `json:"pools"`
			Stats types.Stats  `json:"stats"`
		}{eng.GetPools(), eng.Stats()})
	}

	if len(opts.Args.Participant) == 0 {
		return fmt.Errorf("an account or a public ID is required")
	}

	account := types.AccountID(opts.Args.Participant)
	if strings.HasPrefix(opts.Args.Participant, types.PublicIDPrefix) {
		acc, ok := eng.AccountForID(types.PublicID(opts.Args.Participant))
		if !ok {
			return fmt.Errorf("no participant with the public ID %s", opts.Args.Participant)
		}
		account = acc
	}

	profile, ok := eng.GetProfile(account)
	if !ok {
		return fmt.Errorf("%s is not a participant", account)
	}
	return printJSON(profile)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Profile(_ context.Context, parser *flags.Parser) error {
	profileCmd = ProfileCmd{}

	_, err := parser.AddCommand("profile", "Show a participant profile", "Read a participant profile, or the pools, from the latest snapshot of a stopped node", &profileCmd)
	return err
}
