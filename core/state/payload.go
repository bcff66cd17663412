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

package state

import (
	"errors"
	"fmt"
	"time"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrInconsistentPayload = errors.New("inconsistent state payload")

// Payload is the serialisable form of a Store. Participants are kept in
// insertion order so that a restored store iterates exactly like the
// original.
type Payload struct {
	Initialised    bool                 `json:"initialised"`
	Owner          types.AccountID      `json:"owner"`
	NextID         uint64               `json:"next_id"`
	Participants   []ParticipantPayload `json:"participants"`
	Identities     []IdentityPayload    `json:"identities"`
	Pools          *types.Pools         `json:"pools"`
	SinkPlacements uint64               `json:"sink_placements"`
}

type ParticipantPayload struct {
	Account        types.AccountID `json:"account"`
	PublicID       types.PublicID  `json:"public_id"`
	Referrer       types.AccountID `json:"referrer,omitempty"`
	JoinedAt       time.Time       `json:"joined_at"`
	Level          uint8           `json:"level"`
	Cycles         uint32          `json:"cycles"`
	PendingBalance *num.Uint       `json:"pending_balance"`
	ReinvestRate   uint8           `json:"reinvest_rate"`
	MatrixFill     uint8           `json:"matrix_fill"`
}

type IdentityPayload struct {
	PublicID types.PublicID  `json:"public_id"`
	Account  types.AccountID `json:"account"`
}

// Export copies the whole store into a payload.
func (s *Store) Export() *Payload {
	p := &Payload{
		Initialised:    s.initialised,
		Owner:          s.owner,
		NextID:         s.nextID,
		Participants:   make([]ParticipantPayload, 0, s.participants.Len()),
		Identities:     make([]IdentityPayload, 0, len(s.idToAccount)),
		Pools:          s.pools.Clone(),
		SinkPlacements: s.sinkPlacements,
	}

	for _, pt := range s.Participants() {
		p.Participants = append(p.Participants, ParticipantPayload{
			Account:        pt.Account,
			PublicID:       pt.PublicID,
			Referrer:       pt.Referrer,
			JoinedAt:       pt.JoinedAt,
			Level:          pt.Level,
			Cycles:         pt.Cycles,
			PendingBalance: pt.PendingBalance.Clone(),
			ReinvestRate:   pt.ReinvestRate,
			MatrixFill:     s.fills[pt.Account],
		})
	}

	ids := maps.Keys(s.idToAccount)
	slices.Sort(ids)
	for _, id := range ids {
		p.Identities = append(p.Identities, IdentityPayload{
			PublicID: id,
			Account:  s.idToAccount[id],
		})
	}

	return p
}

// NewStoreFromPayload rebuilds a store, checking the invariants the engines
// rely on.
func NewStoreFromPayload(p *Payload) (*Store, error) {
	s := NewStore()
	s.initialised = p.Initialised
	s.owner = p.Owner
	s.nextID = p.NextID
	s.sinkPlacements = p.SinkPlacements
	if p.Pools != nil {
		s.pools = p.Pools.Clone()
	}

	for _, ip := range p.Identities {
		if _, ok := s.accountToID[ip.Account]; ok {
			return nil, fmt.Errorf("%w: account %q has more than one public id", ErrInconsistentPayload, ip.Account)
		}
		s.idToAccount[ip.PublicID] = ip.Account
		s.accountToID[ip.Account] = ip.PublicID
	}

	for _, pp := range p.Participants {
		if pp.MatrixFill >= types.MatrixSize {
			return nil, fmt.Errorf("%w: matrix fill of %q is %d", ErrInconsistentPayload, pp.Account, pp.MatrixFill)
		}
		if pp.Level >= types.LevelsPerCycle {
			return nil, fmt.Errorf("%w: level of %q is %d", ErrInconsistentPayload, pp.Account, pp.Level)
		}
		if id, ok := s.accountToID[pp.Account]; !ok || id != pp.PublicID {
			return nil, fmt.Errorf("%w: participant %q has no matching identity", ErrInconsistentPayload, pp.Account)
		}
		if _, ok := s.participants.Get(pp.Account); ok {
			return nil, fmt.Errorf("%w: participant %q is duplicated", ErrInconsistentPayload, pp.Account)
		}
		balance := num.UintZero()
		if pp.PendingBalance != nil {
			balance = pp.PendingBalance.Clone()
		}
		s.AddParticipant(&types.Participant{
			Account:        pp.Account,
			PublicID:       pp.PublicID,
			Referrer:       pp.Referrer,
			JoinedAt:       pp.JoinedAt,
			Level:          pp.Level,
			Cycles:         pp.Cycles,
			PendingBalance: balance,
			ReinvestRate:   pp.ReinvestRate,
		})
		s.SetFill(pp.Account, pp.MatrixFill)
	}

	if len(s.idToAccount) != s.participants.Len() {
		return nil, fmt.Errorf("%w: %d identities for %d participants", ErrInconsistentPayload, len(s.idToAccount), s.participants.Len())
	}

	return s, nil
}
