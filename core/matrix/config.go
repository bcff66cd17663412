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
	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/core/deposit"
	"code.bizonmatrix.io/bizon/core/distribution"
	"code.bizonmatrix.io/bizon/core/identity"
	"code.bizonmatrix.io/bizon/core/ledger"
	"code.bizonmatrix.io/bizon/core/spillover"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "matrix"

// DefaultEntryFee is 1 NEAR expressed in yocto.
const DefaultEntryFee = "1000000000000000000000000"

// Config represents the configuration of the matrix engine and of the
// engines it drives.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// EntryFee is the exact deposit required to enter, in the smallest unit.
	EntryFee *num.Uint `no-flag:"true"`

	Identity     identity.Config     `group:"Identity" namespace:"identity"`
	Deposit      deposit.Config      `group:"Deposit" namespace:"deposit"`
	Spillover    spillover.Config    `group:"Spillover" namespace:"spillover"`
	Distribution distribution.Config `group:"Distribution" namespace:"distribution"`
	Ledger       ledger.Config       `group:"Ledger" namespace:"ledger"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		EntryFee:     num.MustUintFromString(DefaultEntryFee),
		Identity:     identity.NewDefaultConfig(),
		Deposit:      deposit.NewDefaultConfig(),
		Spillover:    spillover.NewDefaultConfig(),
		Distribution: distribution.NewDefaultConfig(),
		Ledger:       ledger.NewDefaultConfig(),
	}
}
