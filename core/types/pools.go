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
	"fmt"
	"strings"
	"time"

	"code.bizonmatrix.io/bizon/libs/num"
)

// Cadence identifies one of the time-bucketed pools.
type Cadence int

const (
	CadenceDaily Cadence = iota
	CadenceMonthly
	CadenceYearly
)

const day = 24 * time.Hour

var cadenceWindows = map[Cadence]time.Duration{
	CadenceDaily:   day,
	CadenceMonthly: 30 * day,
	CadenceYearly:  365 * day,
}

// Cadences lists every distributable cadence, shortest first.
var Cadences = []Cadence{CadenceDaily, CadenceMonthly, CadenceYearly}

// Window is the minimum time between two distributions of the pool.
func (c Cadence) Window() time.Duration {
	return cadenceWindows[c]
}

func (c Cadence) String() string {
	switch c {
	case CadenceDaily:
		return "daily"
	case CadenceMonthly:
		return "monthly"
	case CadenceYearly:
		return "yearly"
	default:
		return fmt.Sprintf("cadence(%d)", int(c))
	}
}

func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(s) {
	case "daily":
		return CadenceDaily, nil
	case "monthly":
		return CadenceMonthly, nil
	case "yearly":
		return CadenceYearly, nil
	default:
		return 0, fmt.Errorf("unknown cadence %q", s)
	}
}

// Pools holds the fee accumulators. Global receives the rounding remainders
// and the pools too small to be shared.
type Pools struct {
	Daily   *num.Uint `json:"daily"`
	Monthly *num.Uint `json:"monthly"`
	Yearly  *num.Uint `json:"yearly"`
	Global  *num.Uint `json:"global"`

	LastDailyDistribution   time.Time `json:"last_daily_distribution"`
	LastMonthlyDistribution time.Time `json:"last_monthly_distribution"`
	LastYearlyDistribution  time.Time `json:"last_yearly_distribution"`
}

func NewPools() *Pools {
	return &Pools{
		Daily:   num.UintZero(),
		Monthly: num.UintZero(),
		Yearly:  num.UintZero(),
		Global:  num.UintZero(),
	}
}

// Pool returns the accumulator for the cadence, the returned value is the
// live pointer.
func (p *Pools) Pool(c Cadence) *num.Uint {
	switch c {
	case CadenceDaily:
		return p.Daily
	case CadenceMonthly:
		return p.Monthly
	default:
		return p.Yearly
	}
}

func (p *Pools) LastDistribution(c Cadence) time.Time {
	switch c {
	case CadenceDaily:
		return p.LastDailyDistribution
	case CadenceMonthly:
		return p.LastMonthlyDistribution
	default:
		return p.LastYearlyDistribution
	}
}

func (p *Pools) SetLastDistribution(c Cadence, t time.Time) {
	switch c {
	case CadenceDaily:
		p.LastDailyDistribution = t
	case CadenceMonthly:
		p.LastMonthlyDistribution = t
	default:
		p.LastYearlyDistribution = t
	}
}

// Total is the sum of every accumulator.
func (p *Pools) Total() *num.Uint {
	return num.Sum(p.Daily, p.Monthly, p.Yearly, p.Global)
}

func (p Pools) Clone() *Pools {
	cpy := p
	cpy.Daily = p.Daily.Clone()
	cpy.Monthly = p.Monthly.Clone()
	cpy.Yearly = p.Yearly.Clone()
	cpy.Global = p.Global.Clone()
	return &cpy
}

// Allocation is the split of a single entry fee across the pools.
type Allocation struct {
	Daily     *num.Uint
	Monthly   *num.Uint
	Yearly    *num.Uint
	Remainder *num.Uint
}

func (a Allocation) Total() *num.Uint {
	return num.Sum(a.Daily, a.Monthly, a.Yearly, a.Remainder)
}

// DistributionResult reports the outcome of a distribution request.
type DistributionResult struct {
	Cadence Cadence
	// Distributed is false when the request fell within the current window
	// and nothing was mutated.
	Distributed  bool
	Participants uint64
	Share        *num.Uint
	// ToGlobal is what was moved to the global pool, either the whole pool
	// when the share rounds to zero or the rounding dust.
	ToGlobal *num.Uint
	At       time.Time
}
