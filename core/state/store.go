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
	"code.bizonmatrix.io/bizon/core/types"

	"github.com/google/btree"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// fillKey orders matrices by fill then by participant insertion order, the
// minimum of the index is the least-filled matrix with the same tie-break an
// insertion-order scan would give.
type fillKey struct {
	fill    uint8
	seq     uint64
	account types.AccountID
}

func lessFillKey(a, b fillKey) bool {
	if a.fill != b.fill {
		return a.fill < b.fill
	}
	return a.seq < b.seq
}

// Store owns every piece of ledger data. It is handed by reference to the
// engines and is not safe for concurrent use: the host serialises access.
type Store struct {
	initialised bool
	owner       types.AccountID

	// participants iterate in insertion order, it drives the least-filled
	// tie-break.
	participants *orderedmap.OrderedMap[types.AccountID, *types.Participant]
	fills        map[types.AccountID]uint8
	fillIndex    *btree.BTreeG[fillKey]

	idToAccount map[types.PublicID]types.AccountID
	accountToID map[types.AccountID]types.PublicID
	nextID      uint64

	pools          *types.Pools
	sinkPlacements uint64
}

func NewStore() *Store {
	return &Store{
		participants: orderedmap.New[types.AccountID, *types.Participant](),
		fills:        map[types.AccountID]uint8{},
		fillIndex:    btree.NewG[fillKey](8, lessFillKey),
		idToAccount:  map[types.PublicID]types.AccountID{},
		accountToID:  map[types.AccountID]types.PublicID{},
		nextID:       1,
		pools:        types.NewPools(),
	}
}

// Initialise sets the owner account. It can only happen once per store.
func (s *Store) Initialise(owner types.AccountID) error {
	if s.initialised {
		return types.ErrAlreadyInitialised
	}
	s.owner = owner
	s.initialised = true
	return nil
}

func (s *Store) IsInitialised() bool {
	return s.initialised
}

func (s *Store) Owner() types.AccountID {
	return s.owner
}

func (s *Store) OwnerDisabled() bool {
	return s.owner == types.OwnerSentinel
}

func (s *Store) DisableOwner() {
	s.owner = types.OwnerSentinel
}

func (s *Store) Participant(account types.AccountID) (*types.Participant, bool) {
	return s.participants.Get(account)
}

// AddParticipant records a new participant with an empty matrix. The
// participant must not exist yet.
func (s *Store) AddParticipant(p *types.Participant) {
	p.Seq = uint64(s.participants.Len())
	s.participants.Set(p.Account, p)
	s.fills[p.Account] = 0
	s.fillIndex.ReplaceOrInsert(fillKey{fill: 0, seq: p.Seq, account: p.Account})
}

// Participants returns the live participants in insertion order.
func (s *Store) Participants() []*types.Participant {
	out := make([]*types.Participant, 0, s.participants.Len())
	for pair := s.participants.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (s *Store) TotalParticipants() uint64 {
	return uint64(s.participants.Len())
}

func (s *Store) Fill(account types.AccountID) (uint8, bool) {
	f, ok := s.fills[account]
	return f, ok
}

// SetFill updates the fill of an existing matrix.
func (s *Store) SetFill(account types.AccountID, fill uint8) {
	p, ok := s.participants.Get(account)
	if !ok {
		return
	}
	s.fillIndex.Delete(fillKey{fill: s.fills[account], seq: p.Seq})
	s.fills[account] = fill
	s.fillIndex.ReplaceOrInsert(fillKey{fill: fill, seq: p.Seq, account: account})
}

// LeastFilled returns the owner of the least-filled matrix, ties going to
// the earliest participant. The boolean is false when no matrix exists.
func (s *Store) LeastFilled() (types.AccountID, uint8, bool) {
	k, ok := s.fillIndex.Min()
	if !ok {
		return "", 0, false
	}
	return k.account, k.fill, true
}

func (s *Store) PublicIDFor(account types.AccountID) (types.PublicID, bool) {
	id, ok := s.accountToID[account]
	return id, ok
}

func (s *Store) AccountFor(id types.PublicID) (types.AccountID, bool) {
	acc, ok := s.idToAccount[id]
	return acc, ok
}

func (s *Store) NextID() uint64 {
	return s.nextID
}

// BindNextID allocates the next sequence value to the account.
func (s *Store) BindNextID(account types.AccountID) types.PublicID {
	id := types.NewPublicID(s.nextID)
	s.nextID++
	s.idToAccount[id] = account
	s.accountToID[account] = id
	return id
}

func (s *Store) Pools() *types.Pools {
	return s.pools
}

func (s *Store) SinkPlacements() uint64 {
	return s.sinkPlacements
}

func (s *Store) IncSinkPlacements() {
	s.sinkPlacements++
}

func (s *Store) Stats() types.Stats {
	return types.Stats{
		TotalParticipants: s.TotalParticipants(),
		NextID:            s.nextID,
		Owner:             s.owner,
		OwnerDisabled:     s.OwnerDisabled(),
		SinkPlacements:    s.sinkPlacements,
	}
}
