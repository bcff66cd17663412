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
	"context"
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("instruments are registered on a dedicated registry", testInstrumentsAreRegistered)
	t.Run("adding an instrument twice fails", testAddInstrumentTwice)
	t.Run("instrument type mismatch", testInstrumentTypeMismatch)
	t.Run("subscriber updates the instruments", testSubscriberUpdatesInstruments)
	t.Run("payout counter per status", testPayoutCounterPerStatus)
}

func testInstrumentsAreRegistered(t *testing.T) {
	_, err := Setup()
	require.NoError(t, err)

	// a second setup builds a new registry without conflicts.
	reg, err := Setup()
	require.NoError(t, err)

	ParticipantsGaugeSet(3)
	EntryCounterInc(true)

	count, err := testutil.GatherAndCount(reg, "bizon_participants", "bizon_entries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, float64(3), testutil.ToFloat64(participantsGauge))
}

func testAddInstrumentTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := AddInstrument(reg, Counter, "twice_total")
	require.NoError(t, err)
	_, err = AddInstrument(reg, Counter, "twice_total")
	assert.Error(t, err)

	_, err = AddInstrument(reg, instrument(42), "unknown")
	assert.ErrorIs(t, err, ErrInstrumentNotSupported)
}

func testInstrumentTypeMismatch(t *testing.T) {
	h, err := AddInstrument(prometheus.NewRegistry(), Gauge, "gauge", Vectors("label"))
	require.NoError(t, err)

	_, err = h.Gauge()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	_, err = h.Counter()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	_, err = h.GaugeVec()
	assert.NoError(t, err)
}

func testSubscriberUpdatesInstruments(t *testing.T) {
	_, err := Setup()
	require.NoError(t, err)

	ctx := context.Background()
	p := &types.Participant{Account: "alice.near", PublicID: "ID1", Level: 0, Cycles: 1}
	sub := NewSubscriber()

	sub.Push(
		events.NewParticipantEnteredEvent(ctx, p, true, time.Unix(0, 0)),
		events.NewParticipantEnteredEvent(ctx, p, false, time.Unix(0, 0)),
		events.NewMatrixPlacedEvent(ctx, "owner.near", 0, true, 0),
		events.NewMatrixPlacedEvent(ctx, p.Account, 1, false, 0),
		events.NewMatrixCompletedEvent(ctx, p, true),
		events.NewPoolDistributedEvent(ctx, types.DistributionResult{Cadence: types.CadenceMonthly, Distributed: true}),
		events.NewBalanceClaimedEvent(ctx, p.Account, num.NewUint(10)),
	)

	assert.Equal(t, float64(1), testutil.ToFloat64(entryCounter.WithLabelValues("true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(entryCounter.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(participantsGauge))
	assert.Equal(t, float64(1), testutil.ToFloat64(placementCounter.WithLabelValues("true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(placementCounter.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(completionCounter.WithLabelValues("true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(distributionCounter.WithLabelValues("monthly", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(claimCounter))
}

func testPayoutCounterPerStatus(t *testing.T) {
	_, err := Setup()
	require.NoError(t, err)

	PayoutCounterInc("pending")
	PayoutCounterInc("pending")
	PayoutCounterInc("settled")

	assert.Equal(t, float64(2), testutil.ToFloat64(payoutCounter.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(payoutCounter.WithLabelValues("settled")))
	assert.Equal(t, float64(0), testutil.ToFloat64(payoutCounter.WithLabelValues("failed")))
}
