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

package types

import (
	"time"

	"code.bizonmatrix.io/bizon/libs/num"
)

const (
	// MatrixSize is the number of slots in a matrix, reaching it completes the
	// matrix.
	MatrixSize uint8 = 10
	// LevelsPerCycle is the number of completed matrices after which the level
	// wraps and a cycle is counted.
	LevelsPerCycle uint8 = 10
	// MaxReinvestRate is the highest accepted reinvest percentage.
	MaxReinvestRate uint8 = 100
)

// Participant is created on the first valid entry of an account and never
// deleted.
type Participant struct {
	Account  AccountID
	PublicID PublicID
	// Referrer is empty when the participant joined without a resolvable
	// referral.
	Referrer       AccountID
	JoinedAt       time.Time
	Level          uint8
	Cycles         uint32
	PendingBalance *num.Uint
	ReinvestRate   uint8
	// Seq is the insertion order of the participant in the store.
	Seq uint64
}

func (p *Participant) HasReferrer() bool {
	return p.Referrer != ""
}

func (p Participant) Clone() *Participant {
	cpy := p
	cpy.PendingBalance = p.PendingBalance.Clone()
	return &cpy
}

// Profile is the read-only view of a participant handed out to callers.
type Profile struct {
	PublicID       PublicID  `json:"public_id"`
	Level          uint8     `json:"level"`
	Cycles         uint32    `json:"cycles"`
	MatrixFill     uint8     `json:"matrix_fill"`
	PendingBalance *num.Uint `json:"pending_balance"`
	Referrer       AccountID `json:"referrer,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
	ReinvestRate   uint8     `json:"reinvest_rate"`
}

// Stats summarises the global counters of the scheme.
type Stats struct {
	TotalParticipants uint64    `json:"total_participants"`
	NextID            uint64    `json:"next_id"`
	Owner             AccountID `json:"owner"`
	OwnerDisabled     bool      `json:"owner_disabled"`
	SinkPlacements    uint64    `json:"sink_placements"`
}
