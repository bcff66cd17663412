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
)

type Type int

// Event is the common denominator of every event emitted by the engines.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
}

const (
	// All is used by subscribers to receive every event, it has no payload.
	All Type = iota
	ParticipantEnteredEvent
	PoolsCreditedEvent
	MatrixPlacedEvent
	MatrixCompletedEvent
	PoolDistributedEvent
	BalanceClaimedEvent
	ReinvestRateUpdatedEvent
	OwnerDisabledEvent
)

var eventStrings = map[Type]string{
	All:                      "ALL",
	ParticipantEnteredEvent:  "ParticipantEntered",
	PoolsCreditedEvent:       "PoolsCredited",
	MatrixPlacedEvent:        "MatrixPlaced",
	MatrixCompletedEvent:     "MatrixCompleted",
	PoolDistributedEvent:     "PoolDistributed",
	BalanceClaimedEvent:      "BalanceClaimed",
	ReinvestRateUpdatedEvent: "ReinvestRateUpdated",
	OwnerDisabledEvent:       "OwnerDisabled",
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN"
	}
	return s
}

type traceIDKey struct{}

// WithTraceID attaches the identifier of the request being processed to the
// context, every event built from that context carries it.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Base common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	et      Type
}

// A base event holds no data, so the constructor will not be called directly.
func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx:     ctx,
		traceID: TraceIDFromContext(ctx),
		et:      t,
	}
}

// TraceID returns the identifier of the request which produced the event.
func (b Base) TraceID() string {
	return b.traceID
}

// Context returns context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}
