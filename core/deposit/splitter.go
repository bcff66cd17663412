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

package deposit

import (
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
)

var bp = num.NewUint(BasisPoints)

// Splitter divides an entry fee across the time-bucketed pools.
type Splitter struct {
	log *logging.Logger
	cfg Config

	daily, monthly, yearly *num.Uint
}

func New(log *logging.Logger, cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Splitter{
		log:     log,
		cfg:     cfg,
		daily:   num.NewUint(cfg.DailyShare),
		monthly: num.NewUint(cfg.MonthlyShare),
		yearly:  num.NewUint(cfg.YearlyShare),
	}, nil
}

// ReloadConf updates the log level only, shares are fixed for the life of
// the ledger.
func (s *Splitter) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	s.cfg.Level = cfg.Level
}

// Split computes the share of each pool with floor division. The remainder
// is whatever the rounding and the unallocated basis points leave, so the
// parts always add up to the fee.
func (s *Splitter) Split(fee *num.Uint) types.Allocation {
	alloc := types.Allocation{
		Daily:   share(fee, s.daily),
		Monthly: share(fee, s.monthly),
		Yearly:  share(fee, s.yearly),
	}
	alloc.Remainder = num.UintZero().Sub(fee, num.Sum(alloc.Daily, alloc.Monthly, alloc.Yearly))
	return alloc
}

// Credit adds the allocation to the pools, the remainder going to the
// global pool.
func (s *Splitter) Credit(pools *types.Pools, alloc types.Allocation) {
	pools.Daily.AddSum(alloc.Daily)
	pools.Monthly.AddSum(alloc.Monthly)
	pools.Yearly.AddSum(alloc.Yearly)
	pools.Global.AddSum(alloc.Remainder)

	if s.log.GetLevel() == logging.DebugLevel {
		s.log.Debug("pools credited",
			logging.BigUint("daily", alloc.Daily),
			logging.BigUint("monthly", alloc.Monthly),
			logging.BigUint("yearly", alloc.Yearly),
			logging.BigUint("remainder", alloc.Remainder),
		)
	}
}

func share(fee, bps *num.Uint) *num.Uint {
	v := num.UintZero().Mul(fee, bps)
	return v.Div(v, bp)
}
