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

package distribution_test

import (
	"context"
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/core/distribution"
	"code.bizonmatrix.io/bizon/core/distribution/mocks"
	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEngine struct {
	*distribution.Engine
	store  *state.Store
	broker *mocks.MockBroker
	ledger *mocks.MockLedger
}

func getTestEngine(t *testing.T, participants ...types.AccountID) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	ledger := mocks.NewMockLedger(ctrl)

	store := state.NewStore()
	require.NoError(t, store.Initialise("owner.near"))
	for _, acc := range participants {
		store.AddParticipant(&types.Participant{Account: acc, PendingBalance: num.UintZero()})
	}

	return &testEngine{
		Engine: distribution.New(logging.NewTestLogger(), distribution.NewDefaultConfig(), broker, ledger),
		store:  store,
		broker: broker,
		ledger: ledger,
	}
}

func TestDistribution(t *testing.T) {
	t.Run("no participants is an error", testNoParticipants)
	t.Run("share is credited and dust swept", testShareAndDust)
	t.Run("share rounding to zero goes to global", testShareRoundsToZero)
	t.Run("empty pool only advances the checkpoint", testEmptyPool)
	t.Run("second request within the window is a no-op", testIdempotentWithinWindow)
	t.Run("cadences are independent", testCadencesAreIndependent)
}

func testNoParticipants(t *testing.T) {
	e := getTestEngine(t)
	e.store.Pools().Daily.SetUint64(100)

	for _, c := range types.Cadences {
		res, err := e.Distribute(context.Background(), e.store, c, t0)
		assert.ErrorIs(t, err, types.ErrNoParticipants)
		assert.False(t, res.Distributed)
	}
	assert.Equal(t, uint64(100), e.store.Pools().Daily.Uint64())
}

func testShareAndDust(t *testing.T) {
	e := getTestEngine(t, "a.near", "b.near", "c.near")
	e.store.Pools().Daily.SetUint64(100)

	credited := map[types.AccountID]uint64{}
	e.ledger.EXPECT().Credit(e.store, gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ *state.Store, acc types.AccountID, amount *num.Uint) bool {
			credited[acc] += amount.Uint64()
			return true
		})
	e.broker.EXPECT().Send(gomock.Any()).Times(1).Do(func(evt events.Event) {
		d, ok := evt.(*events.PoolDistributed)
		require.True(t, ok)
		assert.Equal(t, uint64(99), d.Amount().Uint64())
	})

	res, err := e.Distribute(context.Background(), e.store, types.CadenceDaily, t0)
	require.NoError(t, err)
	assert.True(t, res.Distributed)
	assert.Equal(t, uint64(33), res.Share.Uint64())
	assert.Equal(t, uint64(1), res.ToGlobal.Uint64())
	assert.Equal(t, map[types.AccountID]uint64{"a.near": 33, "b.near": 33, "c.near": 33}, credited)

	pools := e.store.Pools()
	assert.True(t, pools.Daily.IsZero())
	assert.Equal(t, uint64(1), pools.Global.Uint64())
	assert.Equal(t, t0, pools.LastDailyDistribution)
}

func testShareRoundsToZero(t *testing.T) {
	e := getTestEngine(t, "a.near", "b.near", "c.near")
	e.store.Pools().Daily.SetUint64(2)
	e.store.Pools().Global.SetUint64(5)

	e.ledger.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	e.broker.EXPECT().Send(gomock.Any()).Times(1)

	res, err := e.Distribute(context.Background(), e.store, types.CadenceDaily, t0)
	require.NoError(t, err)
	assert.True(t, res.Distributed)
	assert.True(t, res.Share.IsZero())
	assert.Equal(t, uint64(2), res.ToGlobal.Uint64())

	pools := e.store.Pools()
	assert.True(t, pools.Daily.IsZero())
	assert.Equal(t, uint64(7), pools.Global.Uint64())
	assert.Equal(t, t0, pools.LastDailyDistribution)
}

func testEmptyPool(t *testing.T) {
	e := getTestEngine(t, "a.near")
	e.ledger.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	e.broker.EXPECT().Send(gomock.Any()).Times(1)

	res, err := e.Distribute(context.Background(), e.store, types.CadenceMonthly, t0)
	require.NoError(t, err)
	assert.True(t, res.Distributed)
	assert.True(t, res.ToGlobal.IsZero())
	assert.Equal(t, t0, e.store.Pools().LastMonthlyDistribution)
}

func testIdempotentWithinWindow(t *testing.T) {
	e := getTestEngine(t, "a.near", "b.near")
	e.store.Pools().Daily.SetUint64(10)

	e.ledger.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(true)
	e.broker.EXPECT().Send(gomock.Any()).Times(2)

	_, err := e.Distribute(context.Background(), e.store, types.CadenceDaily, t0)
	require.NoError(t, err)

	e.store.Pools().Daily.SetUint64(10)
	res, err := e.Distribute(context.Background(), e.store, types.CadenceDaily, t0.Add(23*time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Distributed)
	assert.Equal(t, uint64(10), e.store.Pools().Daily.Uint64())
	assert.Equal(t, t0, e.store.Pools().LastDailyDistribution)

	// the window boundary itself is outside the window.
	e.store.Pools().Daily.SetUint64(0)
	res, err = e.Distribute(context.Background(), e.store, types.CadenceDaily, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, res.Distributed)
}

func testCadencesAreIndependent(t *testing.T) {
	e := getTestEngine(t, "a.near")
	pools := e.store.Pools()
	pools.Daily.SetUint64(90)
	pools.Monthly.SetUint64(9)
	pools.Yearly.SetUint64(1)

	e.ledger.EXPECT().Credit(gomock.Any(), types.AccountID("a.near"), gomock.Any()).Times(3).Return(true)
	e.broker.EXPECT().Send(gomock.Any()).Times(3)

	for _, c := range types.Cadences {
		res, err := e.Distribute(context.Background(), e.store, c, t0)
		require.NoError(t, err)
		assert.True(t, res.Distributed, c.String())
	}

	assert.True(t, pools.Total().IsZero())
	assert.Equal(t, t0, pools.LastYearlyDistribution)

	res, err := e.Distribute(context.Background(), e.store, types.CadenceYearly, t0.Add(364*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Distributed)
}
