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

package node

import (
	"context"
	"fmt"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/metrics"
)

func (n *Node) Enter(ctx context.Context, caller types.AccountID, deposit *num.Uint, referral *string) error {
	defer metrics.NewTimeCounter("enter").EngineTimeCounterAdd()
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.matrix.Enter(ctx, caller, deposit, referral); err != nil {
		return err
	}
	n.commit(ctx)
	return nil
}

func (n *Node) SetReinvestRate(ctx context.Context, caller types.AccountID, rate uint32) error {
	defer metrics.NewTimeCounter("reinvest_rate").EngineTimeCounterAdd()
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.matrix.SetReinvestRate(ctx, caller, rate); err != nil {
		return err
	}
	n.commit(ctx)
	return nil
}

func (n *Node) ClaimAll(ctx context.Context, caller types.AccountID) (*num.Uint, error) {
	defer metrics.NewTimeCounter("claim").EngineTimeCounterAdd()
	n.mu.Lock()
	defer n.mu.Unlock()

	amount, err := n.matrix.ClaimAll(ctx, caller)
	if err != nil {
		return nil, err
	}

	// the payout leaves the journal only once the zeroed balance is
	// snapshotted, whatever the interval.
	n.dirty = true
	if err := n.takeSnapshot(ctx); err != nil {
		n.log.Error("could not snapshot the claim",
			logging.Account(caller.String()),
			logging.BigUint("amount", amount),
			logging.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrClaimNotCommitted, err)
	}
	return amount, nil
}

func (n *Node) Distribute(ctx context.Context, cadence types.Cadence) (types.DistributionResult, error) {
	defer metrics.NewTimeCounter("distribute").EngineTimeCounterAdd()
	n.mu.Lock()
	defer n.mu.Unlock()

	res, err := n.matrix.Distribute(ctx, cadence)
	if err != nil {
		return res, err
	}
	if !res.Distributed {
		metrics.DistributionCounterInc(cadence.String(), false)
		return res, nil
	}
	n.commit(ctx)
	return res, nil
}

func (n *Node) DisableOwner(ctx context.Context, caller types.AccountID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.matrix.DisableOwner(ctx, caller); err != nil {
		return err
	}
	n.commit(ctx)
	return nil
}

func (n *Node) GetProfile(caller types.AccountID) (*types.Profile, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.matrix.GetProfile(caller)
}

func (n *Node) GetMyID(caller types.AccountID) (types.PublicID, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.matrix.GetMyID(caller)
}

func (n *Node) AccountForID(id types.PublicID) (types.AccountID, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.matrix.AccountForID(id)
}

func (n *Node) GetPools() *types.Pools {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.matrix.GetPools()
}

func (n *Node) Stats() types.Stats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.matrix.Stats()
}

// ReplayFailed queues the failed payouts again.
func (n *Node) ReplayFailed(ctx context.Context) (int, error) {
	return n.settlement.ReplayFailed(ctx)
}
