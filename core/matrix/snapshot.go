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

package matrix

import (
	"fmt"

	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/logging"
)

// Namespace is the snapshot namespace of the ledger state.
const Namespace = "matrix"

func (e *Engine) Namespace() string {
	return Namespace
}

// GetState exports the whole store.
func (e *Engine) GetState() *state.Payload {
	return e.store.Export()
}

// LoadState replaces the store with the one described by the payload. The
// current store is kept if the payload is inconsistent.
func (e *Engine) LoadState(p *state.Payload) error {
	s, err := state.NewStoreFromPayload(p)
	if err != nil {
		return fmt.Errorf("could not restore the ledger state: %w", err)
	}
	e.store = s
	e.log.Info("ledger state restored",
		logging.Uint64("participants", s.TotalParticipants()),
		logging.Uint64("next-id", s.NextID()))
	return nil
}
