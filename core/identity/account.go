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
	"regexp"
)

const (
	minAccountLength = 2
	maxAccountLength = 64
)

// accountRe accepts lowercase alphanumeric parts joined by single '-' or
// '_', and dot separated sub-accounts.
var accountRe = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// IsValidNetworkAccount reports whether the string is a well formed account
// identifier on the hosting network.
func IsValidNetworkAccount(s string) bool {
	if len(s) < minAccountLength || len(s) > maxAccountLength {
		return false
	}
	return accountRe.MatchString(s)
}
