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
	"time"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
)

// ParticipantEntered is emitted on every accepted entry, first or repeated.
type ParticipantEntered struct {
	*Base
	Account  types.AccountID
	PublicID types.PublicID
	Referrer types.AccountID
	// FirstEntry is true when the entry created the participant record.
	FirstEntry bool
	At         time.Time
}

func NewParticipantEnteredEvent(ctx context.Context, p *types.Participant, firstEntry bool, at time.Time) *ParticipantEntered {
	return &ParticipantEntered{
		Base:       newBase(ctx, ParticipantEnteredEvent),
		Account:    p.Account,
		PublicID:   p.PublicID,
		Referrer:   p.Referrer,
		FirstEntry: firstEntry,
		At:         at,
	}
}

type ReinvestRateUpdated struct {
	*Base
	Account types.AccountID
	Rate    uint8
}

func NewReinvestRateUpdatedEvent(ctx context.Context, account types.AccountID, rate uint8) *ReinvestRateUpdated {
	return &ReinvestRateUpdated{
		Base:    newBase(ctx, ReinvestRateUpdatedEvent),
		Account: account,
		Rate:    rate,
	}
}

type BalanceClaimed struct {
	*Base
	Account types.AccountID
	Amount  *num.Uint
}

func NewBalanceClaimedEvent(ctx context.Context, account types.AccountID, amount *num.Uint) *BalanceClaimed {
	return &BalanceClaimed{
		Base:    newBase(ctx, BalanceClaimedEvent),
		Account: account,
		Amount:  amount.Clone(),
	}
}

type OwnerDisabled struct {
	*Base
	PreviousOwner types.AccountID
}

func NewOwnerDisabledEvent(ctx context.Context, previous types.AccountID) *OwnerDisabled {
	return &OwnerDisabled{
		Base:          newBase(ctx, OwnerDisabledEvent),
		PreviousOwner: previous,
	}
}
