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

package spillover

import (
	"context"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/logging"
)

// Broker send events.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.bizonmatrix.io/bizon/core/spillover Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Outcome summarises a single placement and the cascade it triggered.
type Outcome struct {
	// Sink is true when no matrix existed and the owner absorbed the slot.
	Sink bool
	// Placements counts the slots filled, cascade included.
	Placements int
	// Completions lists the owners whose matrix completed, in order.
	Completions []types.AccountID
}

type Engine struct {
	log    *logging.Logger
	cfg    Config
	broker Broker
}

func New(log *logging.Logger, cfg Config, broker Broker) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:    log,
		cfg:    cfg,
		broker: broker,
	}
}

// ReloadConf updates the internal configuration.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.cfg.Level = cfg.Level
}

// FindLeastFilledOwner returns the owner of the matrix with the smallest
// fill, the earliest participant winning ties. The boolean is false when no
// matrix exists, in which case the scheme owner is returned.
func (e *Engine) FindLeastFilledOwner(s *state.Store) (types.AccountID, bool) {
	owner, _, ok := s.LeastFilled()
	if !ok {
		return s.Owner(), false
	}
	return owner, true
}

// Place fills one slot in the least-filled matrix. Completing a matrix levels
// its owner up and re-spills a slot into the new least-filled matrix if that
// is someone else, which may itself complete.
func (e *Engine) Place(ctx context.Context, s *state.Store) Outcome {
	owner, ok := e.FindLeastFilledOwner(s)
	if !ok {
		s.IncSinkPlacements()
		e.broker.Send(events.NewMatrixPlacedEvent(ctx, owner, 0, true, 0))
		e.log.Debug("placement absorbed by the owner sink", logging.Account(owner.String()))
		return Outcome{Sink: true, Placements: 1}
	}

	var (
		out   Outcome
		evts  []events.Event
		bound = int(s.TotalParticipants()) + 1
	)

	for depth := 0; ; depth++ {
		if depth >= bound {
			// unreachable: a completion resets the fill to 0 so the next
			// placement cannot complete again.
			e.log.Error("cascade bound reached",
				logging.Int("depth", depth),
				logging.Account(owner.String()))
			break
		}

		fill, _ := s.Fill(owner)
		fill++
		out.Placements++
		evts = append(evts, events.NewMatrixPlacedEvent(ctx, owner, fill, false, depth))

		if fill < types.MatrixSize {
			s.SetFill(owner, fill)
			break
		}

		evts = append(evts, e.complete(ctx, s, owner))
		out.Completions = append(out.Completions, owner)

		next, _ := e.FindLeastFilledOwner(s)
		if next == owner {
			break
		}
		owner = next
	}

	e.broker.SendBatch(evts)
	return out
}

// complete levels up the owner of a full matrix and empties it.
func (e *Engine) complete(ctx context.Context, s *state.Store, owner types.AccountID) events.Event {
	p, _ := s.Participant(owner)

	p.Level++
	cycle := p.Level >= types.LevelsPerCycle
	if cycle {
		p.Level = 0
		p.Cycles++
	}
	s.SetFill(owner, 0)

	e.log.Debug("matrix completed",
		logging.Account(owner.String()),
		logging.Uint8("level", p.Level),
		logging.Uint32("cycles", p.Cycles),
	)

	return events.NewMatrixCompletedEvent(ctx, p, cycle)
}
