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

package scheduler

import (
	"context"
	"errors"
	"fmt"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/robfig/cron/v3"
)

// Distributor runs the distribution of one pool.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/distributor_mock.go -package mocks code.bizonmatrix.io/bizon/core/scheduler Distributor
type Distributor interface {
	Distribute(ctx context.Context, cadence types.Cadence) (types.DistributionResult, error)
}

// Scheduler triggers the pool distributions on cron specs.
type Scheduler struct {
	log         *logging.Logger
	cfg         Config
	cron        *cron.Cron
	distributor Distributor
	ctx         context.Context
}

func New(ctx context.Context, log *logging.Logger, cfg Config, distributor Distributor) (*Scheduler, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	s := &Scheduler{
		log:         log,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
		distributor: distributor,
		ctx:         ctx,
	}

	specs := map[types.Cadence]string{
		types.CadenceDaily:   cfg.Daily,
		types.CadenceMonthly: cfg.Monthly,
		types.CadenceYearly:  cfg.Yearly,
	}
	for _, c := range types.Cadences {
		cadence := c
		if _, err := s.cron.AddFunc(specs[cadence], func() { s.Run(cadence) }); err != nil {
			return nil, fmt.Errorf("register %s distribution: %w", cadence, err)
		}
	}

	return s, nil
}

// Run distributes the pool of the cadence now.
func (s *Scheduler) Run(cadence types.Cadence) {
	res, err := s.distributor.Distribute(s.ctx, cadence)
	switch {
	case errors.Is(err, types.ErrNoParticipants):
		s.log.Debug("nothing to distribute, no participants",
			logging.String("cadence", cadence.String()))
	case err != nil:
		s.log.Error("distribution failed",
			logging.String("cadence", cadence.String()),
			logging.Error(err))
	case !res.Distributed:
		s.log.Debug("distribution window not elapsed",
			logging.String("cadence", cadence.String()))
	default:
		s.log.Info("scheduled distribution done",
			logging.String("cadence", cadence.String()),
			logging.BigUint("share", res.Share))
	}
}

func (s *Scheduler) Start() {
	if !s.cfg.Enabled.Get() {
		s.log.Info("scheduler is disabled")
		return
	}
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron and waits for the running distributions.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// Entries returns the number of registered triggers.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
