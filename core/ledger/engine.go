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

package ledger

import (
	"context"
	"fmt"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
)

// Broker send events.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.bizonmatrix.io/bizon/core/ledger Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Settlement moves claimed value out of the ledger. The transfer is handed
// over once and never reported back: a claim is final as soon as the balance
// is zeroed.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/settlement_mock.go -package mocks code.bizonmatrix.io/bizon/core/ledger Settlement
type Settlement interface {
	Transfer(ctx context.Context, account types.AccountID, amount *num.Uint)
}

type Engine struct {
	log        *logging.Logger
	cfg        Config
	broker     Broker
	settlement Settlement
}

func New(log *logging.Logger, cfg Config, broker Broker, settlement Settlement) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:        log,
		cfg:        cfg,
		broker:     broker,
		settlement: settlement,
	}
}

// ReloadConf updates the log level of the engine.
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

// Credit adds the amount to the pending balance of a participant. Unknown
// accounts are ignored and reported with false.
func (e *Engine) Credit(s *state.Store, account types.AccountID, amount *num.Uint) bool {
	p, ok := s.Participant(account)
	if !ok {
		e.log.Error("credit to unknown participant",
			logging.Account(account.String()),
			logging.BigUint("amount", amount))
		return false
	}
	p.PendingBalance.AddSum(amount)
	return true
}

// Balance returns a copy of the pending balance, zero for unknown accounts.
func (e *Engine) Balance(s *state.Store, account types.AccountID) *num.Uint {
	p, ok := s.Participant(account)
	if !ok {
		return num.UintZero()
	}
	return p.PendingBalance.Clone()
}

// Claim drains the whole pending balance of the account and hands it to the
// settlement.
func (e *Engine) Claim(ctx context.Context, s *state.Store, account types.AccountID) (*num.Uint, error) {
	p, ok := s.Participant(account)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a participant", types.ErrNothingToClaim, account)
	}
	if p.PendingBalance.IsZero() {
		return nil, fmt.Errorf("%w: %q has no pending balance", types.ErrNothingToClaim, account)
	}

	amount := p.PendingBalance.Clone()
	p.PendingBalance = num.UintZero()

	e.settlement.Transfer(ctx, account, amount.Clone())
	e.broker.Send(events.NewBalanceClaimedEvent(ctx, account, amount))

	e.log.Info("balance claimed",
		logging.Account(account.String()),
		logging.BigUint("amount", amount))

	return amount, nil
}
