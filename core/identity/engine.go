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

package identity

import (
	"strings"

	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/logging"
)

// AliasResolver maps an external alias (a messaging handle for instance) to
// a network account.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/alias_resolver_mock.go -package mocks code.bizonmatrix.io/bizon/core/identity AliasResolver
type AliasResolver interface {
	ResolveAlias(alias string) (types.AccountID, bool)
}

// noAliases is used until an external resolver is plugged in, every alias is
// unknown.
type noAliases struct{}

func (noAliases) ResolveAlias(string) (types.AccountID, bool) {
	return "", false
}

type referralParser struct {
	kind  types.ReferralKind
	match func(raw string) bool
	parse func(raw string) types.Referral
}

// Engine assigns the public identifiers and resolves referral inputs.
type Engine struct {
	log     *logging.Logger
	cfg     Config
	aliases AliasResolver
	parsers []referralParser
}

func New(log *logging.Logger, cfg Config, aliases AliasResolver) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if aliases == nil {
		aliases = noAliases{}
	}

	e := &Engine{
		log:     log,
		cfg:     cfg,
		aliases: aliases,
	}

	// order matters, the first matching parser wins.
	e.parsers = []referralParser{
		{
			kind:  types.ReferralPublicID,
			match: types.HasPublicIDPrefix,
			parse: func(raw string) types.Referral {
				return types.PublicIDReferral(types.PublicID(raw))
			},
		},
		{
			kind:  types.ReferralExternalAlias,
			match: e.isAlias,
			parse: types.ExternalAliasReferral,
		},
		{
			kind:  types.ReferralNetworkAccount,
			match: e.hasNetworkSuffix,
			parse: func(raw string) types.Referral {
				if !IsValidNetworkAccount(raw) {
					return types.UnrecognisedReferral()
				}
				return types.NetworkAccountReferral(types.AccountID(raw))
			},
		},
	}

	return e
}

// ReloadConf updates the log level. The referral formats are fixed for the
// life of the ledger.
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

func (e *Engine) isAlias(raw string) bool {
	return e.cfg.AliasSuffix != "" && strings.HasSuffix(raw, e.cfg.AliasSuffix)
}

func (e *Engine) hasNetworkSuffix(raw string) bool {
	for _, suffix := range e.cfg.NetworkSuffixes {
		if strings.HasSuffix(raw, suffix) {
			return true
		}
	}
	return false
}

// AssignOrGetID returns the public identifier of the account, allocating the
// next one in sequence if the account has none. The boolean is true when a
// new identifier was allocated.
func (e *Engine) AssignOrGetID(s *state.Store, account types.AccountID) (types.PublicID, bool) {
	if id, ok := s.PublicIDFor(account); ok {
		return id, false
	}

	id := s.BindNextID(account)
	e.log.Debug("public id assigned",
		logging.Account(account.String()),
		logging.PublicID(id.String()))
	return id, true
}

// ParseReferral classifies a raw referral input.
func (e *Engine) ParseReferral(raw string) types.Referral {
	for _, p := range e.parsers {
		if p.match(raw) {
			return p.parse(raw)
		}
	}
	return types.UnrecognisedReferral()
}

// ResolveReferral turns a raw referral input into an account. An unresolved
// input is never an error, it only means there is no referrer. Discarding a
// referral pointing to the caller is left to the caller.
func (e *Engine) ResolveReferral(s *state.Store, raw string) (types.AccountID, bool) {
	ref := e.ParseReferral(raw)

	switch ref.Kind {
	case types.ReferralPublicID:
		return s.AccountFor(ref.PublicID)
	case types.ReferralExternalAlias:
		return e.aliases.ResolveAlias(ref.Alias)
	case types.ReferralNetworkAccount:
		return ref.Account, true
	default:
		e.log.Debug("unrecognised referral", logging.String("referral", raw))
		return "", false
	}
}

func (e *Engine) AccountForID(s *state.Store, id types.PublicID) (types.AccountID, bool) {
	return s.AccountFor(id)
}

func (e *Engine) IDForAccount(s *state.Store, account types.AccountID) (types.PublicID, bool) {
	return s.PublicIDFor(account)
}
