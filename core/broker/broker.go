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

package broker

import (
	"sync"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "broker"

// Subscriber receives the events of the types it declares. Push is called
// synchronously from the engine emitting the event, it must not block.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.bizonmatrix.io/bizon/core/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
}

// Broker fans out the events produced by the engines to the subscribers.
type Broker struct {
	log *logging.Logger

	mu   sync.RWMutex
	subs map[events.Type][]Subscriber
	all  []Subscriber
}

func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		log:  log,
		subs: map[events.Type][]Subscriber{},
	}
}

// Subscribe registers the subscribers. A subscriber declaring events.All or
// no types at all receives every event.
func (b *Broker) Subscribe(subs ...Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range subs {
		types := s.Types()
		if len(types) == 0 {
			b.all = append(b.all, s)
			continue
		}
		for _, t := range types {
			if t == events.All {
				b.all = append(b.all, s)
				break
			}
			b.subs[t] = append(b.subs[t], s)
		}
	}
}

func (b *Broker) Send(evt events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.log.GetLevel() == logging.DebugLevel {
		b.log.Debug("sending event",
			logging.String("type", evt.Type().String()),
			logging.String("trace-id", evt.TraceID()))
	}

	for _, s := range b.all {
		s.Push(evt)
	}
	for _, s := range b.subs[evt.Type()] {
		s.Push(evt)
	}
}

func (b *Broker) SendBatch(evts []events.Event) {
	for _, evt := range evts {
		b.Send(evt)
	}
}
