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
	"os"
	"text/tabwriter"
	"time"

	"code.bizonmatrix.io/bizon/config"
	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/core/settlement"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/jessevdk/go-flags"
)

type PayoutsCmd struct {
	config.HomeFlag

	Status  string            `long:"status" choice:"staged" choice:"pending" choice:"settled" choice:"failed" choice:"voided" default:"failed" description:"Status of the payouts to list"`
	Account string            `long:"account" description:"List the payouts of this account only, regardless of their status"`
	Replay  bool              `long:"replay" description:"Replay the failed payouts"`
	Wait    encoding.Duration `long:"wait" description:"How long to wait for replayed payouts to settle"`
}

var payoutsCmd PayoutsCmd

func (opts *PayoutsCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.Config{Environment: "dev", Level: logging.InfoLevel})
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

	queue, err := settlement.New(log, cfg.Settlement, bizonPaths, settlement.NewTransferer(cfg.Settlement))
	if err != nil {
		return err
	}
	defer queue.Stop()

	ctx := context.Background()

	if opts.Replay {
		if err := opts.replay(ctx, log, queue); err != nil {
			return err
		}
	}

	var payouts []*settlement.Payout
	if len(opts.Account) > 0 {
		payouts, err = queue.PayoutsForAccount(ctx, types.AccountID(opts.Account))
	} else {
		payouts, err = queue.PayoutsByStatus(ctx, settlement.Status(opts.Status))
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tAMOUNT\tSTATUS\tATTEMPTS\tUPDATED\tLAST ERROR")
	for _, p := range payouts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.ID, p.Account, p.Amount, p.Status, p.Attempts, p.UpdatedAt.Format(time.RFC3339), p.LastError)
	}
	return w.Flush()
}

// replay runs the worker until the replayed payouts leave the pending state
// or the wait expires. Payouts still pending are resumed by the next node
// start.
func (opts *PayoutsCmd) replay(ctx context.Context, log *logging.Logger, queue *settlement.Queue) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Wait.Get())
	defer cancel()

	if err := queue.Start(ctx); err != nil {
		return err
	}
	n, err := queue.ReplayFailed(ctx)
	if err != nil {
		return err
	}
	log.Info("replaying failed payouts", logging.Int("count", n))

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		pending, err := queue.PayoutsByStatus(ctx, settlement.StatusPending)
		if err == nil && len(pending) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			log.Warn("some payouts are still pending", logging.Int("count", len(pending)))
			return nil
		case <-ticker.C:
		}
	}
}

func Payouts(_ context.Context, parser *flags.Parser) error {
	payoutsCmd = PayoutsCmd{
		Wait: encoding.Duration{Duration: 30 * time.Second},
	}

	_, err := parser.AddCommand("payouts", "Inspect the payout journal", "List the payouts recorded in the settlement journal and replay the failed ones", &payoutsCmd)
	return err
}
