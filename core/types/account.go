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
	"strconv"
	"strings"
)

const (
	// PublicIDPrefix prefixes every public identifier handed out by the
	// identity registry.
	PublicIDPrefix = "ID"
	// OwnerSentinel replaces the owner account once it has been disabled.
	OwnerSentinel AccountID = "system"
)

// AccountID identifies a participant account on the hosting network.
type AccountID string

func (a AccountID) String() string {
	return string(a)
}

// PublicID is the short sequential identifier given to every participant.
type PublicID string

// NewPublicID builds the public identifier for the given sequence number.
func NewPublicID(seq uint64) PublicID {
	return PublicID(PublicIDPrefix + strconv.FormatUint(seq, 10))
}

func (p PublicID) String() string {
	return string(p)
}

// HasPublicIDPrefix reports whether the raw input is shaped like a public
// identifier.
func HasPublicIDPrefix(raw string) bool {
	return strings.HasPrefix(raw, PublicIDPrefix)
}
