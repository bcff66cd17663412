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
	"errors"
	"fmt"

	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/logging"
)

const (
	namedLogger = "deposit"

	// BasisPoints is the denominator of every share.
	BasisPoints uint64 = 10000
)

var ErrSharesExceedFee = errors.New("pool shares exceed the fee")

// Config represents the configuration of the deposit splitter.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	DailyShare   uint64 `long:"daily-share" description:"share of the entry fee credited to the daily pool, in basis points"`
	MonthlyShare uint64 `long:"monthly-share" description:"share of the entry fee credited to the monthly pool, in basis points"`
	YearlyShare  uint64 `long:"yearly-share" description:"share of the entry fee credited to the yearly pool, in basis points"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		DailyShare:   9000,
		MonthlyShare: 900,
		YearlyShare:  100,
	}
}

func (c Config) Validate() error {
	if total := c.DailyShare + c.MonthlyShare + c.YearlyShare; total > BasisPoints {
		return fmt.Errorf("%w: %d basis points allocated, at most %d", ErrSharesExceedFee, total, BasisPoints)
	}
	return nil
}
