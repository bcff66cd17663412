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

package matrix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.bizonmatrix.io/bizon/core/deposit"
	"code.bizonmatrix.io/bizon/core/distribution"
	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/identity"
	"code.bizonmatrix.io/bizon/core/ledger"
	"code.bizonmatrix.io/bizon/core/spillover"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
)

var ErrNoEntryFee = errors.New("entry fee must be positive")

// Broker send events.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.bizonmatrix.io/bizon/core/matrix Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// TimeService provide the time of the current request.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.bizonmatrix.io/bizon/core/matrix TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine is the operation surface of the ledger. It validates every request
// before mutating anything so a rejected request leaves the store untouched.
// The engine is not safe for concurrent use.
type Engine struct {
	log *logging.Logger
	cfg Config

	store       *state.Store
	broker      Broker
	timeService TimeService

	identity     *identity.Engine
	splitter     *deposit.Splitter
	placement    *spillover.Engine
	distribution *distribution.Engine
	ledger       *ledger.Engine
}

func New(
	log *logging.Logger,
	cfg Config,
	timeService TimeService,
	broker Broker,
	aliases identity.AliasResolver,
	settlement ledger.Settlement,
) (*Engine, error) {
	if cfg.EntryFee == nil || cfg.EntryFee.IsZero() {
		return nil, ErrNoEntryFee
	}

	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	splitter, err := deposit.New(log, cfg.Deposit)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit configuration: %w", err)
	}

	bal := ledger.New(log, cfg.Ledger, broker, settlement)

	return &Engine{
		log:          log,
		cfg:          cfg,
		store:        state.NewStore(),
		broker:       broker,
		timeService:  timeService,
		identity:     identity.New(log, cfg.Identity, aliases),
		splitter:     splitter,
		placement:    spillover.New(log, cfg.Spillover, broker),
		distribution: distribution.New(log, cfg.Distribution, broker, bal),
		ledger:       bal,
	}, nil
}

// ReloadConf updates the log levels of the engine and of the engines it
// drives.
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
	e.identity.ReloadConf(cfg.Identity)
	e.splitter.ReloadConf(cfg.Deposit)
	e.placement.ReloadConf(cfg.Spillover)
	e.distribution.ReloadConf(cfg.Distribution)
	e.ledger.ReloadConf(cfg.Ledger)
}

func (e *Engine) EntryFee() *num.Uint {
	return e.cfg.EntryFee.Clone()
}

func (e *Engine) IsInitialised() bool {
	return e.store.IsInitialised()
}

// Initialise sets the owner of the scheme, it can be called once.
func (e *Engine) Initialise(_ context.Context, owner types.AccountID) error {
	if err := e.store.Initialise(owner); err != nil {
		return err
	}
	e.log.Info("ledger initialised", logging.Account(owner.String()))
	return nil
}

// Enter accepts the exact entry fee from the caller. The first entry of an
// account creates its participant record, every entry credits the pools and
// fills a slot.
func (e *Engine) Enter(ctx context.Context, caller types.AccountID, deposit *num.Uint, referral *string) error {
	if !e.store.IsInitialised() {
		return types.ErrNotInitialised
	}
	if deposit == nil || !deposit.EQ(e.cfg.EntryFee) {
		attached := num.UintZero()
		if deposit != nil {
			attached = deposit
		}
		return types.ErrPaymentMismatch(attached, e.cfg.EntryFee)
	}

	now := e.timeService.GetTimeNow()
	id, _ := e.identity.AssignOrGetID(e.store, caller)

	alloc := e.splitter.Split(e.cfg.EntryFee)
	e.splitter.Credit(e.store.Pools(), alloc)

	p, exists := e.store.Participant(caller)
	if !exists {
		p = &types.Participant{
			Account:        caller,
			PublicID:       id,
			Referrer:       e.resolveReferrer(caller, referral),
			JoinedAt:       now,
			PendingBalance: num.UintZero(),
		}
		e.store.AddParticipant(p)
		if referral != nil && !p.HasReferrer() {
			e.log.Debug("referral discarded",
				logging.Account(caller.String()),
				logging.String("referral", *referral))
		}
	}

	e.broker.SendBatch([]events.Event{
		events.NewPoolsCreditedEvent(ctx, alloc, e.store.Pools()),
		events.NewParticipantEnteredEvent(ctx, p, !exists, now),
	})

	out := e.placement.Place(ctx, e.store)

	e.log.Debug("participant entered",
		logging.Account(caller.String()),
		logging.PublicID(id.String()),
		logging.Bool("first-entry", !exists),
		logging.Bool("referred", p.HasReferrer()),
		logging.Int("placements", out.Placements),
		logging.Int("completions", len(out.Completions)),
	)
	return nil
}

// resolveReferrer never returns the caller.
func (e *Engine) resolveReferrer(caller types.AccountID, referral *string) types.AccountID {
	if referral == nil {
		return ""
	}
	ref, ok := e.identity.ResolveReferral(e.store, *referral)
	if !ok || ref == caller {
		return ""
	}
	return ref
}

// SetReinvestRate records the reinvest percentage of the caller. Accounts
// that are not participants are silently ignored.
func (e *Engine) SetReinvestRate(ctx context.Context, caller types.AccountID, rate uint32) error {
	if rate > uint32(types.MaxReinvestRate) {
		return types.ErrRateOutOfRange(rate)
	}
	if !e.store.IsInitialised() {
		return types.ErrNotInitialised
	}

	p, ok := e.store.Participant(caller)
	if !ok {
		return nil
	}
	p.ReinvestRate = uint8(rate)
	e.broker.Send(events.NewReinvestRateUpdatedEvent(ctx, caller, p.ReinvestRate))
	return nil
}

func (e *Engine) DistributeDaily(ctx context.Context) (types.DistributionResult, error) {
	return e.Distribute(ctx, types.CadenceDaily)
}

func (e *Engine) DistributeMonthly(ctx context.Context) (types.DistributionResult, error) {
	return e.Distribute(ctx, types.CadenceMonthly)
}

func (e *Engine) DistributeYearly(ctx context.Context) (types.DistributionResult, error) {
	return e.Distribute(ctx, types.CadenceYearly)
}

// Distribute shares the pool of the cadence at the current time.
func (e *Engine) Distribute(ctx context.Context, cadence types.Cadence) (types.DistributionResult, error) {
	if !e.store.IsInitialised() {
		return types.DistributionResult{Cadence: cadence}, types.ErrNotInitialised
	}
	return e.distribution.Distribute(ctx, e.store, cadence, e.timeService.GetTimeNow())
}

// ClaimAll pays out the whole pending balance of the caller.
func (e *Engine) ClaimAll(ctx context.Context, caller types.AccountID) (*num.Uint, error) {
	if !e.store.IsInitialised() {
		return nil, types.ErrNotInitialised
	}
	return e.ledger.Claim(ctx, e.store, caller)
}

// DisableOwner replaces the owner with the system sentinel. Only the current
// owner may do it, and once done nobody can.
func (e *Engine) DisableOwner(ctx context.Context, caller types.AccountID) error {
	if !e.store.IsInitialised() {
		return types.ErrNotInitialised
	}
	if e.store.OwnerDisabled() || caller != e.store.Owner() {
		return types.ErrNotOwner(caller)
	}

	e.store.DisableOwner()
	e.broker.Send(events.NewOwnerDisabledEvent(ctx, caller))
	e.log.Warn("owner disabled", logging.Account(caller.String()))
	return nil
}

func (e *Engine) GetProfile(caller types.AccountID) (*types.Profile, bool) {
	p, ok := e.store.Participant(caller)
	if !ok {
		return nil, false
	}
	fill, _ := e.store.Fill(caller)
	return &types.Profile{
		PublicID:       p.PublicID,
		Level:          p.Level,
		Cycles:         p.Cycles,
		MatrixFill:     fill,
		PendingBalance: p.PendingBalance.Clone(),
		Referrer:       p.Referrer,
		JoinedAt:       p.JoinedAt,
		ReinvestRate:   p.ReinvestRate,
	}, true
}

func (e *Engine) GetMyID(caller types.AccountID) (types.PublicID, bool) {
	return e.identity.IDForAccount(e.store, caller)
}

func (e *Engine) AccountForID(id types.PublicID) (types.AccountID, bool) {
	return e.identity.AccountForID(e.store, id)
}

// GetPools returns a copy of the pools.
func (e *Engine) GetPools() *types.Pools {
	return e.store.Pools().Clone()
}

func (e *Engine) Stats() types.Stats {
	return e.store.Stats()
}
