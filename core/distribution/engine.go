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

package distribution

import (
	"context"
	"time"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
)

// Broker send events.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.bizonmatrix.io/bizon/core/distribution Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Ledger accrues the distributed shares.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/ledger_mock.go -package mocks code.bizonmatrix.io/bizon/core/distribution Ledger
type Ledger interface {
	Credit(s *state.Store, account types.AccountID, amount *num.Uint) bool
}

type Engine struct {
	log    *logging.Logger
	cfg    Config
	broker Broker
	ledger Ledger
}

func New(log *logging.Logger, cfg Config, broker Broker, ledger Ledger) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:    log,
		cfg:    cfg,
		broker: broker,
		ledger: ledger,
	}
}

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

// Distribute shares the pool of the cadence equally between every
// participant. A request within the window of the previous distribution is
// a no-op and reported as such. Whatever cannot be shared, the whole pool
// when the share rounds to zero or the rounding dust otherwise, goes to the
// global pool.
func (e *Engine) Distribute(ctx context.Context, s *state.Store, cadence types.Cadence, now time.Time) (types.DistributionResult, error) {
	res := types.DistributionResult{
		Cadence:  cadence,
		Share:    num.UintZero(),
		ToGlobal: num.UintZero(),
		At:       now,
	}

	n := s.TotalParticipants()
	if n == 0 {
		return res, types.ErrNoParticipants
	}

	pools := s.Pools()
	if last := pools.LastDistribution(cadence); now.Before(last.Add(cadence.Window())) {
		e.log.Debug("distribution within window",
			logging.String("cadence", cadence.String()),
			logging.Time("last", last),
			logging.Time("now", now))
		return res, nil
	}

	res.Distributed = true
	res.Participants = n
	pool := pools.Pool(cadence)

	switch share := num.UintZero().Div(pool, num.NewUint(n)); {
	case pool.IsZero():
	case share.IsZero():
		res.ToGlobal.Set(pool)
	default:
		res.Share = share
		for _, p := range s.Participants() {
			e.ledger.Credit(s, p.Account, share)
		}
		distributed := num.UintZero().Mul(share, num.NewUint(n))
		res.ToGlobal.Sub(pool, distributed)
	}

	pools.Global.AddSum(res.ToGlobal)
	pool.Set(num.UintZero())
	pools.SetLastDistribution(cadence, now)

	e.broker.Send(events.NewPoolDistributedEvent(ctx, res))
	e.log.Info("pool distributed",
		logging.String("cadence", cadence.String()),
		logging.Uint64("participants", n),
		logging.BigUint("share", res.Share),
		logging.BigUint("to-global", res.ToGlobal))

	return res, nil
}
