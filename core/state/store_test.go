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

package state_test

import (
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("Initialising twice fails", testInitialisingTwiceFails)
	t.Run("Participants iterate in insertion order", testParticipantsIterateInInsertionOrder)
	t.Run("Least filled matrix breaks ties by insertion order", testLeastFilledTieBreak)
	t.Run("Export and restore keep order and fills", testExportAndRestore)
	t.Run("Restoring an inconsistent payload fails", testRestoringInconsistentPayloadFails)
}

func testInitialisingTwiceFails(t *testing.T) {
	s := state.NewStore()
	require.False(t, s.IsInitialised())
	require.NoError(t, s.Initialise("owner.near"))
	require.ErrorIs(t, s.Initialise("other.near"), types.ErrAlreadyInitialised)
	assert.Equal(t, types.AccountID("owner.near"), s.Owner())

	s.DisableOwner()
	assert.True(t, s.OwnerDisabled())
	assert.Equal(t, types.OwnerSentinel, s.Owner())
}

func addParticipant(s *state.Store, account types.AccountID) *types.Participant {
	id := s.BindNextID(account)
	p := &types.Participant{
		Account:        account,
		PublicID:       id,
		JoinedAt:       time.Unix(1700000000, 0).UTC(),
		PendingBalance: num.UintZero(),
	}
	s.AddParticipant(p)
	return p
}

func testParticipantsIterateInInsertionOrder(t *testing.T) {
	s := state.NewStore()
	for _, acc := range []types.AccountID{"zed.near", "amy.near", "bob.near"} {
		addParticipant(s, acc)
	}

	participants := s.Participants()
	require.Len(t, participants, 3)
	assert.Equal(t, types.AccountID("zed.near"), participants[0].Account)
	assert.Equal(t, types.AccountID("amy.near"), participants[1].Account)
	assert.Equal(t, types.AccountID("bob.near"), participants[2].Account)
	assert.Equal(t, uint64(2), participants[2].Seq)
	assert.Equal(t, types.PublicID("ID3"), participants[2].PublicID)
	assert.Equal(t, uint64(4), s.NextID())
}

func testExportAndRestore(t *testing.T) {
	s := state.NewStore()
	require.NoError(t, s.Initialise("owner.near"))
	for _, acc := range []types.AccountID{"zed.near", "amy.near", "bob.near"} {
		addParticipant(s, acc)
	}
	s.SetFill("amy.near", 7)
	amy, _ := s.Participant("amy.near")
	amy.Level = 3
	amy.Referrer = "zed.near"
	amy.PendingBalance = num.NewUint(42)
	s.Pools().Global = num.NewUint(5)

	restored, err := state.NewStoreFromPayload(s.Export())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(s.Export(), restored.Export(), uintComparer))
	fill, ok := restored.Fill("amy.near")
	require.True(t, ok)
	assert.Equal(t, uint8(7), fill)
	acc, ok := restored.AccountFor("ID2")
	require.True(t, ok)
	assert.Equal(t, types.AccountID("amy.near"), acc)
	require.ErrorIs(t, restored.Initialise("x.near"), types.ErrAlreadyInitialised)
}

var uintComparer = cmp.Comparer(func(a, b *num.Uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.EQ(b)
})

func testRestoringInconsistentPayloadFails(t *testing.T) {
	s := state.NewStore()
	addParticipant(s, "amy.near")

	p := s.Export()
	p.Participants[0].MatrixFill = 10
	_, err := state.NewStoreFromPayload(p)
	require.ErrorIs(t, err, state.ErrInconsistentPayload)

	p = s.Export()
	p.Identities = nil
	_, err = state.NewStoreFromPayload(p)
	require.ErrorIs(t, err, state.ErrInconsistentPayload)
}

func testLeastFilledTieBreak(t *testing.T) {
	s := state.NewStore()
	_, _, ok := s.LeastFilled()
	require.False(t, ok)

	for _, acc := range []types.AccountID{"zed.near", "amy.near", "bob.near"} {
		addParticipant(s, acc)
	}

	acc, fill, ok := s.LeastFilled()
	require.True(t, ok)
	assert.Equal(t, types.AccountID("zed.near"), acc)
	assert.Equal(t, uint8(0), fill)

	s.SetFill("zed.near", 1)
	acc, _, _ = s.LeastFilled()
	assert.Equal(t, types.AccountID("amy.near"), acc)

	s.SetFill("amy.near", 1)
	s.SetFill("bob.near", 2)
	acc, fill, _ = s.LeastFilled()
	assert.Equal(t, types.AccountID("zed.near"), acc)
	assert.Equal(t, uint8(1), fill)

	// unknown accounts are ignored
	s.SetFill("ghost.near", 0)
	acc, _, _ = s.LeastFilled()
	assert.Equal(t, types.AccountID("zed.near"), acc)
}
