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

package settlement

import (
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "settlement"

// Config represents the configuration of the payout queue.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// JournalPath overrides the default location of the payout journal.
	JournalPath     string            `long:"journal-path" description:"Path of the payout journal database"`
	QueueSize       int               `long:"queue-size" description:"Number of payouts buffered in memory, overflow is resumed from the journal at start"`
	MaxRetries      uint64            `long:"max-retries" description:"Number of transfer retries before a payout is marked as failed"`
	InitialInterval encoding.Duration `long:"initial-interval" description:"Delay before the first transfer retry"`
	MaxInterval     encoding.Duration `long:"max-interval" description:"Maximum delay between two transfer retries"`

	// TransferURL is the endpoint of the wallet service moving the funds.
	TransferURL     string            `long:"transfer-url" description:"Endpoint of the wallet service executing the transfers"`
	TransferTimeout encoding.Duration `long:"transfer-timeout" description:"Timeout of a single transfer request"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		QueueSize:       1024,
		MaxRetries:      5,
		InitialInterval: encoding.Duration{Duration: 500 * time.Millisecond},
		MaxInterval:     encoding.Duration{Duration: 30 * time.Second},
		TransferTimeout: encoding.Duration{Duration: 10 * time.Second},
	}
}
