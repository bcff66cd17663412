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

package matrix_test

import (
	"context"
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"
	ledgermocks "code.bizonmatrix.io/bizon/core/ledger/mocks"
	"code.bizonmatrix.io/bizon/core/matrix"
	"code.bizonmatrix.io/bizon/core/matrix/mocks"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner types.AccountID = "owner.near"

type testEngine struct {
	*matrix.Engine
	ctx        context.Context
	now        time.Time
	fee        *num.Uint
	broker     *mocks.MockBroker
	settlement *ledgermocks.MockSettlement
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	ts := mocks.NewMockTimeService(ctrl)
	settlement := ledgermocks.NewMockSettlement(ctrl)

	broker.EXPECT().Send(gomock.Any()).AnyTimes()
	broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()

	cfg := matrix.NewDefaultConfig()
	eng, err := matrix.New(logging.NewTestLogger(), cfg, ts, broker, nil, settlement)
	require.NoError(t, err)

	te := &testEngine{
		Engine:     eng,
		ctx:        context.Background(),
		now:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		fee:        cfg.EntryFee,
		broker:     broker,
		settlement: settlement,
	}
	ts.EXPECT().GetTimeNow().AnyTimes().DoAndReturn(func() time.Time { return te.now })

	require.NoError(t, eng.Initialise(te.ctx, owner))
	return te
}

func (e *testEngine) enter(t *testing.T, caller types.AccountID, referral ...string) {
	t.Helper()
	var ref *string
	if len(referral) > 0 {
		ref = &referral[0]
	}
	require.NoError(t, e.Enter(e.ctx, caller, e.fee.Clone(), ref))
}

func (e *testEngine) profile(t *testing.T, caller types.AccountID) *types.Profile {
	t.Helper()
	p, ok := e.GetProfile(caller)
	require.True(t, ok)
	return p
}

func fees(fee *num.Uint, n uint64) *num.Uint {
	return num.UintZero().Mul(fee, num.NewUint(n))
}

func TestInitialise(t *testing.T) {
	t.Run("operations require initialisation", testOperationsRequireInitialisation)
	t.Run("initialise only once", testInitialiseOnce)
	t.Run("invalid entry fee is rejected", testInvalidEntryFee)
	t.Run("reloading the configuration updates every engine", testReloadConfUpdatesEveryEngine)
	t.Run("unresolved referral is logged", testUnresolvedReferralIsLogged)
}

func testOperationsRequireInitialisation(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng, err := matrix.New(
		logging.NewTestLogger(), matrix.NewDefaultConfig(),
		mocks.NewMockTimeService(ctrl), mocks.NewMockBroker(ctrl), nil, ledgermocks.NewMockSettlement(ctrl),
	)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, eng.Enter(ctx, "alice.near", eng.EntryFee(), nil), types.ErrNotInitialised)
	assert.ErrorIs(t, eng.SetReinvestRate(ctx, "alice.near", 10), types.ErrNotInitialised)
	_, err = eng.DistributeDaily(ctx)
	assert.ErrorIs(t, err, types.ErrNotInitialised)
	_, err = eng.ClaimAll(ctx, "alice.near")
	assert.ErrorIs(t, err, types.ErrNotInitialised)
	assert.ErrorIs(t, eng.DisableOwner(ctx, ""), types.ErrNotInitialised)
}

func testInitialiseOnce(t *testing.T) {
	e := getTestEngine(t)
	assert.ErrorIs(t, e.Initialise(e.ctx, "other.near"), types.ErrAlreadyInitialised)
	assert.Equal(t, owner, e.Stats().Owner)
}

func testInvalidEntryFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := matrix.NewDefaultConfig()
	cfg.EntryFee = num.UintZero()
	_, err := matrix.New(
		logging.NewTestLogger(), cfg,
		mocks.NewMockTimeService(ctrl), mocks.NewMockBroker(ctrl), nil, ledgermocks.NewMockSettlement(ctrl),
	)
	assert.ErrorIs(t, err, matrix.ErrNoEntryFee)
}

func TestEnter(t *testing.T) {
	t.Run("payment must be exact", testEnterPaymentMustBeExact)
	t.Run("first entry creates the participant", testEnterCreatesParticipant)
	t.Run("repeated entry keeps the record", testRepeatedEntry)
	t.Run("referrals are resolved", testEnterReferrals)
	t.Run("self referral is discarded", testSelfReferral)
	t.Run("first participant completes their matrix", testFirstParticipantScenario)
	t.Run("fees are conserved", testFeeConservation)
}

func testEnterPaymentMustBeExact(t *testing.T) {
	e := getTestEngine(t)

	for _, d := range []*num.Uint{nil, num.UintZero(), num.NewUint(1), fees(e.fee, 2)} {
		err := e.Enter(e.ctx, "alice.near", d, nil)
		assert.ErrorIs(t, err, types.ErrInvalidPayment)
	}

	// nothing was committed.
	stats := e.Stats()
	assert.Equal(t, uint64(0), stats.TotalParticipants)
	assert.Equal(t, uint64(1), stats.NextID)
	assert.True(t, e.GetPools().Total().IsZero())
	_, ok := e.GetMyID("alice.near")
	assert.False(t, ok)
}

func testEnterCreatesParticipant(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")

	id, ok := e.GetMyID("alice.near")
	require.True(t, ok)
	assert.Equal(t, types.PublicID("ID1"), id)

	acc, ok := e.AccountForID("ID1")
	require.True(t, ok)
	assert.Equal(t, types.AccountID("alice.near"), acc)

	p := e.profile(t, "alice.near")
	assert.Equal(t, types.PublicID("ID1"), p.PublicID)
	assert.Equal(t, uint8(0), p.Level)
	assert.Equal(t, uint32(0), p.Cycles)
	assert.Equal(t, uint8(1), p.MatrixFill)
	assert.True(t, p.PendingBalance.IsZero())
	assert.Equal(t, e.now, p.JoinedAt)
	assert.Empty(t, p.Referrer)

	pools := e.GetPools()
	assert.Equal(t, "900000000000000000000000", pools.Daily.String())
	assert.Equal(t, "90000000000000000000000", pools.Monthly.String())
	assert.Equal(t, "10000000000000000000000", pools.Yearly.String())
	assert.True(t, pools.Global.IsZero())

	stats := e.Stats()
	assert.Equal(t, uint64(1), stats.TotalParticipants)
	assert.Equal(t, uint64(2), stats.NextID)
	assert.Zero(t, stats.SinkPlacements)
}

func testRepeatedEntry(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")
	joined := e.now

	e.now = e.now.Add(time.Hour)
	e.enter(t, "alice.near", "bob.near")

	p := e.profile(t, "alice.near")
	assert.Equal(t, types.PublicID("ID1"), p.PublicID)
	assert.Equal(t, joined, p.JoinedAt)
	// the referrer is immutable.
	assert.Empty(t, p.Referrer)
	assert.Equal(t, uint8(2), p.MatrixFill)

	assert.Equal(t, uint64(1), e.Stats().TotalParticipants)
	assert.Equal(t, uint64(2), e.Stats().NextID)
	assert.True(t, e.GetPools().Total().EQ(fees(e.fee, 2)))
}

func testEnterReferrals(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")
	e.enter(t, "bob.near", "ID1")
	e.enter(t, "carol.near", "dave.testnet")
	e.enter(t, "erin.near", "ID99")
	e.enter(t, "frank.near", "frank.tg")

	assert.Equal(t, types.AccountID("alice.near"), e.profile(t, "bob.near").Referrer)
	assert.Equal(t, types.AccountID("dave.testnet"), e.profile(t, "carol.near").Referrer)
	assert.Empty(t, e.profile(t, "erin.near").Referrer)
	assert.Empty(t, e.profile(t, "frank.near").Referrer)
}

func testSelfReferral(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near", "alice.near")
	assert.Empty(t, e.profile(t, "alice.near").Referrer)

	// the id is assigned before the referral is resolved.
	e.enter(t, "bob.near", "ID2")
	assert.Empty(t, e.profile(t, "bob.near").Referrer)
}

func testFirstParticipantScenario(t *testing.T) {
	e := getTestEngine(t)

	e.enter(t, "alice.near")
	assert.Equal(t, uint8(1), e.profile(t, "alice.near").MatrixFill)

	for i := 0; i < 9; i++ {
		e.enter(t, "alice.near")
	}

	p := e.profile(t, "alice.near")
	assert.Equal(t, uint8(1), p.Level)
	assert.Equal(t, uint8(0), p.MatrixFill)
	assert.Equal(t, uint32(0), p.Cycles)
}

func testFeeConservation(t *testing.T) {
	e := getTestEngine(t)
	accounts := []types.AccountID{"a.near", "b.near", "c.near", "d.near", "e.near", "f.near", "g.near"}

	var entries uint64
	for round := 0; round < 3; round++ {
		for _, acc := range accounts {
			e.enter(t, acc)
			entries++
		}
		e.now = e.now.Add(366 * 24 * time.Hour)
		for _, c := range types.Cadences {
			_, err := e.Distribute(e.ctx, c)
			require.NoError(t, err)
		}
	}

	total := e.GetPools().Total()
	for _, acc := range accounts {
		total.AddSum(e.profile(t, acc).PendingBalance)
	}
	assert.True(t, total.EQ(fees(e.fee, entries)), "%s != %s", total, fees(e.fee, entries))
}

func TestOperations(t *testing.T) {
	t.Run("reinvest rate", testReinvestRate)
	t.Run("distribute then claim", testDistributeAndClaim)
	t.Run("claim by an unknown caller", testClaimUnknownCaller)
	t.Run("distribution without participants", testDistributeWithoutParticipants)
	t.Run("owner can be disabled once", testDisableOwner)
	t.Run("state can be restored", testRestoreState)
}

func testReinvestRate(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")

	assert.ErrorIs(t, e.SetReinvestRate(e.ctx, "alice.near", 101), types.ErrInvalidRate)
	assert.ErrorIs(t, e.SetReinvestRate(e.ctx, "alice.near", 356), types.ErrInvalidRate)
	assert.Equal(t, uint8(0), e.profile(t, "alice.near").ReinvestRate)

	require.NoError(t, e.SetReinvestRate(e.ctx, "alice.near", 100))
	assert.Equal(t, uint8(100), e.profile(t, "alice.near").ReinvestRate)

	require.NoError(t, e.SetReinvestRate(e.ctx, "nobody.near", 50))
	_, ok := e.GetProfile("nobody.near")
	assert.False(t, ok)
}

func testDistributeAndClaim(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")
	e.enter(t, "bob.near")

	res, err := e.DistributeDaily(e.ctx)
	require.NoError(t, err)
	require.True(t, res.Distributed)
	assert.Equal(t, "900000000000000000000000", res.Share.String())

	// same window.
	e.now = e.now.Add(time.Hour)
	res, err = e.DistributeDaily(e.ctx)
	require.NoError(t, err)
	assert.False(t, res.Distributed)

	e.settlement.EXPECT().Transfer(gomock.Any(), types.AccountID("alice.near"), gomock.Any()).Times(1).
		Do(func(_ context.Context, _ types.AccountID, amount *num.Uint) {
			assert.Equal(t, "900000000000000000000000", amount.String())
		})

	amount, err := e.ClaimAll(e.ctx, "alice.near")
	require.NoError(t, err)
	assert.Equal(t, "900000000000000000000000", amount.String())
	assert.True(t, e.profile(t, "alice.near").PendingBalance.IsZero())
	assert.Equal(t, "900000000000000000000000", e.profile(t, "bob.near").PendingBalance.String())

	_, err = e.ClaimAll(e.ctx, "alice.near")
	assert.ErrorIs(t, err, types.ErrNothingToClaim)

	_, err = e.DistributeMonthly(e.ctx)
	require.NoError(t, err)
	_, err = e.DistributeYearly(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000000", e.profile(t, "alice.near").PendingBalance.String())
}

func testClaimUnknownCaller(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.ClaimAll(e.ctx, "nobody.near")
	assert.ErrorIs(t, err, types.ErrNothingToClaim)
}

func testDistributeWithoutParticipants(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.DistributeDaily(e.ctx)
	assert.ErrorIs(t, err, types.ErrNoParticipants)
}

func testDisableOwner(t *testing.T) {
	e := getTestEngine(t)

	assert.ErrorIs(t, e.DisableOwner(e.ctx, "alice.near"), types.ErrNotAuthorised)
	require.NoError(t, e.DisableOwner(e.ctx, owner))

	stats := e.Stats()
	assert.True(t, stats.OwnerDisabled)
	assert.Equal(t, types.OwnerSentinel, stats.Owner)

	assert.ErrorIs(t, e.DisableOwner(e.ctx, owner), types.ErrNotAuthorised)
	assert.ErrorIs(t, e.DisableOwner(e.ctx, types.OwnerSentinel), types.ErrNotAuthorised)
}

func testRestoreState(t *testing.T) {
	e := getTestEngine(t)
	e.enter(t, "alice.near")
	e.enter(t, "bob.near", "ID1")
	_, err := e.DistributeDaily(e.ctx)
	require.NoError(t, err)

	payload := e.GetState()
	assert.Equal(t, matrix.Namespace, e.Namespace())

	restored := getTestEngine(t)
	require.NoError(t, restored.LoadState(payload))

	assert.Equal(t, e.Stats(), restored.Stats())
	assert.Equal(t, e.profile(t, "bob.near"), restored.profile(t, "bob.near"))
	assert.True(t, e.GetPools().Total().EQ(restored.GetPools().Total()))
	assert.ErrorIs(t, restored.Initialise(restored.ctx, "other.near"), types.ErrAlreadyInitialised)

	// the restored engine keeps allocating ids from where it stopped.
	restored.enter(t, "carol.near")
	id, _ := restored.GetMyID("carol.near")
	assert.Equal(t, types.PublicID("ID3"), id)
}

func testReloadConfUpdatesEveryEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	log, logs := logging.NewObservedLogger(logging.InfoLevel)
	eng, err := matrix.New(
		log, matrix.NewDefaultConfig(),
		mocks.NewMockTimeService(ctrl), mocks.NewMockBroker(ctrl), nil, ledgermocks.NewMockSettlement(ctrl),
	)
	require.NoError(t, err)

	cfg := matrix.NewDefaultConfig()
	debug := encoding.LogLevel{Level: logging.DebugLevel}
	cfg.Identity.Level = debug
	cfg.Deposit.Level = debug
	cfg.Spillover.Level = debug
	cfg.Distribution.Level = debug
	cfg.Ledger.Level = debug
	eng.ReloadConf(cfg)

	updated := map[string]bool{}
	for _, entry := range logs.FilterMessage("updating log level").All() {
		updated[entry.LoggerName] = true
	}
	assert.Equal(t, map[string]bool{
		"matrix.identity":     true,
		"matrix.deposit":      true,
		"matrix.spillover":    true,
		"matrix.distribution": true,
		"matrix.ledger":       true,
	}, updated)
}

func testUnresolvedReferralIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log, logs := logging.NewObservedLogger(logging.DebugLevel)
	broker := mocks.NewMockBroker(ctrl)
	broker.EXPECT().Send(gomock.Any()).AnyTimes()
	broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()
	ts := mocks.NewMockTimeService(ctrl)
	ts.EXPECT().GetTimeNow().AnyTimes().Return(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	eng, err := matrix.New(log, matrix.NewDefaultConfig(), ts, broker, nil, ledgermocks.NewMockSettlement(ctrl))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, eng.Initialise(ctx, owner))

	ref := "ID42"
	require.NoError(t, eng.Enter(ctx, "alice.near", eng.EntryFee(), &ref))

	discarded := logs.FilterMessage("referral discarded").All()
	require.Len(t, discarded, 1)
	assert.Equal(t, "ID42", discarded[0].ContextMap()["referral"])

	entered := logs.FilterMessage("participant entered").All()
	require.Len(t, entered, 1)
	assert.Equal(t, false, entered[0].ContextMap()["referred"])
}
