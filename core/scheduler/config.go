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
	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "scheduler"

// Config represents the configuration of the distribution scheduler. The
// specs are cron expressions with a leading seconds field.
type Config struct {
	Level   encoding.LogLevel `long:"log-level"`
	Enabled encoding.Bool     `long:"enabled" choice:"true" choice:"false" description:"Trigger the distributions periodically"`
	Daily   string            `long:"daily" description:"Cron spec of the daily distribution"`
	Monthly string            `long:"monthly" description:"Cron spec of the monthly distribution"`
	Yearly  string            `long:"yearly" description:"Cron spec of the yearly distribution"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
// A trigger landing within the window of the previous distribution is a
// no-op, so the specs fire more often than the windows elapse.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: true,
		Daily:   "0 5 * * * *",
		Monthly: "0 10 0 * * *",
		Yearly:  "0 15 0 * * *",
	}
}
