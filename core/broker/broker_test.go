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

package broker_test

import (
	"context"
	"testing"

	"code.bizonmatrix.io/bizon/core/broker"
	"code.bizonmatrix.io/bizon/core/broker/mocks"
	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestBroker(t *testing.T) {
	t.Run("Typed subscribers only receive their types", testTypedSubscribers)
	t.Run("Catch-all subscribers receive everything", testCatchAllSubscribers)
}

func testTypedSubscribers(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := broker.New(logging.NewTestLogger(), broker.NewDefaultConfig())

	sub := mocks.NewMockSubscriber(ctrl)
	sub.EXPECT().Types().Return([]events.Type{events.OwnerDisabledEvent}).Times(1)
	b.Subscribe(sub)

	ctx := events.WithTraceID(context.Background(), "trace-1")
	sub.EXPECT().Push(gomock.Any()).Do(func(evts ...events.Event) {
		assert.Len(t, evts, 1)
		evt, ok := evts[0].(*events.OwnerDisabled)
		assert.True(t, ok, "Event should be a OwnerDisabled, but is %T", evts[0])
		assert.Equal(t, "trace-1", evt.TraceID())
	}).Times(1)

	b.Send(events.NewOwnerDisabledEvent(ctx, "owner.near"))
	b.Send(events.NewReinvestRateUpdatedEvent(ctx, "amy.near", 10))
}

func testCatchAllSubscribers(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := broker.New(logging.NewTestLogger(), broker.NewDefaultConfig())

	sub := mocks.NewMockSubscriber(ctrl)
	sub.EXPECT().Types().Return(nil).Times(1)
	b.Subscribe(sub)

	sub.EXPECT().Push(gomock.Any()).Times(2)
	b.SendBatch([]events.Event{
		events.NewOwnerDisabledEvent(context.Background(), "owner.near"),
		events.NewReinvestRateUpdatedEvent(context.Background(), "amy.near", 10),
	})
}
