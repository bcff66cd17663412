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

package events

import (
	"context"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
)

type PoolsCredited struct {
	*Base
	Allocation types.Allocation
	Pools      *types.Pools
}

func NewPoolsCreditedEvent(ctx context.Context, alloc types.Allocation, pools *types.Pools) *PoolsCredited {
	return &PoolsCredited{
		Base: newBase(ctx, PoolsCreditedEvent),
		Allocation: types.Allocation{
			Daily:     alloc.Daily.Clone(),
			Monthly:   alloc.Monthly.Clone(),
			Yearly:    alloc.Yearly.Clone(),
			Remainder: alloc.Remainder.Clone(),
		},
		Pools: pools.Clone(),
	}
}

type PoolDistributed struct {
	*Base
	Result types.DistributionResult
}

func NewPoolDistributedEvent(ctx context.Context, res types.DistributionResult) *PoolDistributed {
	cpy := res
	if res.Share != nil {
		cpy.Share = res.Share.Clone()
	}
	if res.ToGlobal != nil {
		cpy.ToGlobal = res.ToGlobal.Clone()
	}
	return &PoolDistributed{
		Base:   newBase(ctx, PoolDistributedEvent),
		Result: cpy,
	}
}

// Amount returns the total credited to participants.
func (p PoolDistributed) Amount() *num.Uint {
	if p.Result.Share == nil {
		return num.UintZero()
	}
	return num.UintZero().Mul(p.Result.Share, num.NewUint(p.Result.Participants))
}
