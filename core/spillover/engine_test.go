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

package spillover_test

import (
	"context"
	"testing"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/spillover"
	"code.bizonmatrix.io/bizon/core/spillover/mocks"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	*spillover.Engine
	store  *state.Store
	broker *mocks.MockBroker
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	store := state.NewStore()
	require.NoError(t, store.Initialise("owner.near"))

	return &testEngine{
		Engine: spillover.New(logging.NewTestLogger(), spillover.NewDefaultConfig(), broker),
		store:  store,
		broker: broker,
	}
}

func (e *testEngine) add(account types.AccountID) {
	e.store.AddParticipant(&types.Participant{
		Account:        account,
		PendingBalance: num.UintZero(),
	})
}

func (e *testEngine) fill(t *testing.T, account types.AccountID) uint8 {
	t.Helper()
	f, ok := e.store.Fill(account)
	require.True(t, ok)
	return f
}

func TestPlacement(t *testing.T) {
	t.Run("no matrix routes to the owner sink", testPlacementIntoSink)
	t.Run("first participant completes their own matrix", testFirstParticipantScenario)
	t.Run("ten completions close a cycle", testCycleArithmetic)
	t.Run("least filled matrix is picked first", testLeastFilledOrder)
	t.Run("fill stays within bounds", testFillBound)
}

func testPlacementIntoSink(t *testing.T) {
	e := getTestEngine(t)

	e.broker.EXPECT().Send(gomock.Any()).Times(1).Do(func(evt events.Event) {
		placed, ok := evt.(*events.MatrixPlaced)
		require.True(t, ok)
		assert.True(t, placed.Sink)
		assert.Equal(t, types.AccountID("owner.near"), placed.Owner)
	})

	owner, ok := e.FindLeastFilledOwner(e.store)
	assert.False(t, ok)
	assert.Equal(t, types.AccountID("owner.near"), owner)

	out := e.Place(context.Background(), e.store)
	assert.True(t, out.Sink)
	assert.Equal(t, 1, out.Placements)
	assert.Equal(t, uint64(1), e.store.SinkPlacements())

	// the sink never gets a matrix.
	_, ok = e.store.Fill("owner.near")
	assert.False(t, ok)
}

func testFirstParticipantScenario(t *testing.T) {
	e := getTestEngine(t)
	e.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()
	ctx := context.Background()

	e.add("alice.near")
	e.Place(ctx, e.store)
	assert.Equal(t, uint8(1), e.fill(t, "alice.near"))

	for i := 0; i < 8; i++ {
		out := e.Place(ctx, e.store)
		assert.Empty(t, out.Completions)
	}
	assert.Equal(t, uint8(9), e.fill(t, "alice.near"))

	var completed []events.Event
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	broker.EXPECT().SendBatch(gomock.Any()).Times(1).Do(func(evts []events.Event) {
		completed = evts
	})
	eng := spillover.New(logging.NewTestLogger(), spillover.NewDefaultConfig(), broker)

	out := eng.Place(ctx, e.store)
	assert.Equal(t, []types.AccountID{"alice.near"}, out.Completions)
	// alice is still the least filled, the cascade stops there.
	assert.Equal(t, 1, out.Placements)
	assert.Equal(t, uint8(0), e.fill(t, "alice.near"))

	p, _ := e.store.Participant("alice.near")
	assert.Equal(t, uint8(1), p.Level)
	assert.Equal(t, uint32(0), p.Cycles)

	require.Len(t, completed, 2)
	placed := completed[0].(*events.MatrixPlaced)
	assert.Equal(t, types.MatrixSize, placed.Fill)
	done := completed[1].(*events.MatrixCompleted)
	assert.Equal(t, uint8(1), done.Level)
	assert.False(t, done.CycleCompleted)
}

func testCycleArithmetic(t *testing.T) {
	e := getTestEngine(t)
	e.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()
	ctx := context.Background()

	e.add("alice.near")
	p, _ := e.store.Participant("alice.near")

	// nine completions.
	for i := 0; i < 9*int(types.MatrixSize); i++ {
		e.Place(ctx, e.store)
	}
	assert.Equal(t, uint8(9), p.Level)
	assert.Equal(t, uint32(0), p.Cycles)

	// the tenth wraps the level.
	for i := 0; i < int(types.MatrixSize); i++ {
		e.Place(ctx, e.store)
	}
	assert.Equal(t, uint8(0), p.Level)
	assert.Equal(t, uint32(1), p.Cycles)
	assert.Equal(t, uint8(0), e.fill(t, "alice.near"))
}

func testLeastFilledOrder(t *testing.T) {
	e := getTestEngine(t)
	e.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()
	ctx := context.Background()

	e.add("alice.near")
	e.add("bob.near")
	e.add("carol.near")

	expected := []types.AccountID{"alice.near", "bob.near", "carol.near", "alice.near", "bob.near"}
	for i, acc := range expected {
		owner, ok := e.FindLeastFilledOwner(e.store)
		require.True(t, ok)
		assert.Equal(t, acc, owner, "placement %d", i)
		e.Place(ctx, e.store)
	}

	assert.Equal(t, uint8(2), e.fill(t, "alice.near"))
	assert.Equal(t, uint8(2), e.fill(t, "bob.near"))
	assert.Equal(t, uint8(1), e.fill(t, "carol.near"))

	// a late joiner has the emptiest matrix.
	e.add("dave.near")
	owner, _ := e.FindLeastFilledOwner(e.store)
	assert.Equal(t, types.AccountID("dave.near"), owner)
}

func testFillBound(t *testing.T) {
	e := getTestEngine(t)
	e.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()
	ctx := context.Background()

	accounts := []types.AccountID{"a.near", "b.near", "c.near", "d.near"}
	completions := 0
	for i := 0; i < 500; i++ {
		if i < len(accounts) {
			e.add(accounts[i])
		}
		out := e.Place(ctx, e.store)
		completions += len(out.Completions)
		for _, acc := range accounts[:min(i+1, len(accounts))] {
			assert.Less(t, e.fill(t, acc), types.MatrixSize)
		}
	}

	// every placement lands somewhere: 500 slots fill 50 matrices.
	var (
		levels uint32
		fills  int
	)
	for _, acc := range accounts {
		p, _ := e.store.Participant(acc)
		levels += uint32(p.Level) + uint32(p.Cycles)*uint32(types.LevelsPerCycle)
		fills += int(e.fill(t, acc))
	}
	assert.Equal(t, uint32(completions), levels)
	assert.Equal(t, 500, completions*int(types.MatrixSize)+fills)
}
