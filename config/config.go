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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/core/api"
	"code.bizonmatrix.io/bizon/core/broker"
	"code.bizonmatrix.io/bizon/core/matrix"
	"code.bizonmatrix.io/bizon/core/scheduler"
	"code.bizonmatrix.io/bizon/core/settlement"
	"code.bizonmatrix.io/bizon/core/snapshot"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/metrics"
)

// Empty is used when a command or sub-command receives no argument.
type Empty struct{}

type HomeFlag struct {
	Home string `long:"home" description:"Path to the custom home for bizon"`
}

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging" namespace:"logging"`
	Matrix     matrix.Config     `group:"Matrix" namespace:"matrix"`
	Broker     broker.Config     `group:"Broker" namespace:"broker"`
	Snapshot   snapshot.Config   `group:"Snapshot" namespace:"snapshot"`
	Settlement settlement.Config `group:"Settlement" namespace:"settlement"`
	Scheduler  scheduler.Config  `group:"Scheduler" namespace:"scheduler"`
	API        api.Config        `group:"API" namespace:"api"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`

	// Owner is the account the ledger is initialised with on first start.
	Owner           string            `long:"owner" description:"Account owning the ledger, used on first start only"`
	ShutdownTimeout encoding.Duration `long:"shutdown-timeout" description:"Time given to the servers to stop"`
}

// NewDefaultConfig returns a set of default configs for all bizon packages,
// as specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		Matrix:     matrix.NewDefaultConfig(),
		Broker:     broker.NewDefaultConfig(),
		Snapshot:   snapshot.NewDefaultConfig(),
		Settlement: settlement.NewDefaultConfig(),
		Scheduler:  scheduler.NewDefaultConfig(),
		API:        api.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),

		ShutdownTimeout: encoding.Duration{Duration: 10 * time.Second},
	}
}
