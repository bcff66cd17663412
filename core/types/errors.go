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

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayment is returned when the attached deposit is not the
	// exact entry fee.
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrNotAuthorised is returned when a restricted operation is invoked by
	// someone else than the owner.
	ErrNotAuthorised = errors.New("not authorised")
	// ErrNothingToClaim is returned on a claim by an unknown account or an
	// account with no pending balance.
	ErrNothingToClaim = errors.New("nothing to claim")
	// ErrNoParticipants is returned on a distribution request while nobody
	// has entered yet.
	ErrNoParticipants = errors.New("no participants")
	// ErrInvalidRate is returned for a reinvest rate above 100.
	ErrInvalidRate = errors.New("invalid reinvest rate")
	// ErrAlreadyInitialised is returned when the state is initialised twice.
	ErrAlreadyInitialised = errors.New("already initialised")
	// ErrNotInitialised is returned by every operation until the state has
	// been initialised or restored.
	ErrNotInitialised = errors.New("not initialised")
)

func ErrPaymentMismatch(attached, required fmt.Stringer) error {
	return fmt.Errorf("%w: attached %s, required exactly %s", ErrInvalidPayment, attached, required)
}

func ErrRateOutOfRange(rate uint32) error {
	return fmt.Errorf("%w: %d is not within [0,%d]", ErrInvalidRate, rate, MaxReinvestRate)
}

func ErrNotOwner(caller AccountID) error {
	return fmt.Errorf("%w: %q is not the owner", ErrNotAuthorised, caller)
}
