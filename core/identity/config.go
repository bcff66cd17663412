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
	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "identity"

// Config represents the identity registry configuration.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// AliasSuffix marks referrals handled by the external alias resolver.
	AliasSuffix string `long:"alias-suffix"`
	// NetworkSuffixes are the account suffixes of the hosting network.
	NetworkSuffixes []string `long:"network-suffix"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		AliasSuffix:     ".tg",
		NetworkSuffixes: []string{".near", ".testnet"},
	}
}
