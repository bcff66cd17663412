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

// ReferralKind tags the shape of a raw referral input.
type ReferralKind int

const (
	ReferralUnrecognised ReferralKind = iota
	ReferralPublicID
	ReferralExternalAlias
	ReferralNetworkAccount
)

func (k ReferralKind) String() string {
	switch k {
	case ReferralPublicID:
		return "public-id"
	case ReferralExternalAlias:
		return "external-alias"
	case ReferralNetworkAccount:
		return "network-account"
	default:
		return "unrecognised"
	}
}

// Referral is the parsed form of a raw referral input. Exactly one of the
// payload fields is meaningful, depending on Kind.
type Referral struct {
	Kind ReferralKind
	// PublicID is set for ReferralPublicID.
	PublicID PublicID
	// Alias is set for ReferralExternalAlias.
	Alias string
	// Account is set for ReferralNetworkAccount.
	Account AccountID
}

func PublicIDReferral(id PublicID) Referral {
	return Referral{Kind: ReferralPublicID, PublicID: id}
}

func ExternalAliasReferral(alias string) Referral {
	return Referral{Kind: ReferralExternalAlias, Alias: alias}
}

func NetworkAccountReferral(account AccountID) Referral {
	return Referral{Kind: ReferralNetworkAccount, Account: account}
}

func UnrecognisedReferral() Referral {
	return Referral{Kind: ReferralUnrecognised}
}
