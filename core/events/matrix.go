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
)

// MatrixPlaced is emitted for every slot filled, including the slots filled
// by a cascade.
type MatrixPlaced struct {
	*Base
	Owner types.AccountID
	// Fill is the fill of the matrix right after the placement, 10 means
	// the placement completed it.
	Fill uint8
	// Sink is true when the placement went to the scheme owner because no
	// matrix existed.
	Sink bool
	// Depth is 0 for the placement triggered by the entry and increases
	// along a cascade.
	Depth int
}

func NewMatrixPlacedEvent(ctx context.Context, owner types.AccountID, fill uint8, sink bool, depth int) *MatrixPlaced {
	return &MatrixPlaced{
		Base:  newBase(ctx, MatrixPlacedEvent),
		Owner: owner,
		Fill:  fill,
		Sink:  sink,
		Depth: depth,
	}
}

type MatrixCompleted struct {
	*Base
	Owner  types.AccountID
	Level  uint8
	Cycles uint32
	// CycleCompleted is true when the completion wrapped the level.
	CycleCompleted bool
}

func NewMatrixCompletedEvent(ctx context.Context, p *types.Participant, cycleCompleted bool) *MatrixCompleted {
	return &MatrixCompleted{
		Base:           newBase(ctx, MatrixCompletedEvent),
		Owner:          p.Account,
		Level:          p.Level,
		Cycles:         p.Cycles,
		CycleCompleted: cycleCompleted,
	}
}
