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

package metrics

import (
	"code.bizonmatrix.io/bizon/core/events"
)

// Subscriber turns the ledger events into metrics.
type Subscriber struct{}

func NewSubscriber() *Subscriber {
	return &Subscriber{}
}

func (s *Subscriber) Push(evts ...events.Event) {
	for _, e := range evts {
		switch et := e.(type) {
		case *events.ParticipantEntered:
			EntryCounterInc(et.FirstEntry)
			if et.FirstEntry {
				ParticipantsGaugeInc()
			}
		case *events.MatrixPlaced:
			PlacementCounterInc(et.Sink)
		case *events.MatrixCompleted:
			CompletionCounterInc(et.CycleCompleted)
		case *events.PoolDistributed:
			DistributionCounterInc(et.Result.Cadence.String(), et.Result.Distributed)
		case *events.BalanceClaimed:
			ClaimCounterInc()
		}
	}
}

func (s *Subscriber) Types() []events.Type {
	return []events.Type{
		events.ParticipantEnteredEvent,
		events.MatrixPlacedEvent,
		events.MatrixCompletedEvent,
		events.PoolDistributedEvent,
		events.BalanceClaimedEvent,
	}
}
