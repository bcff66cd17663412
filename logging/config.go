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

package logging

// Config contains the configurable items for this package.
type Config struct {
	// Environment is either "dev" for console output or anything else for
	// JSON output.
	Environment string `long:"env" description:"Logging environment: dev or prod"`
	Level       Level  `long:"level" description:"Root logging level"`

	// File mirrors the logs to a rotated file when set.
	File        string            `long:"file" description:"Path of a file the logs are also written to"`
	ToFile      bool              `long:"to-file" description:"Write the logs to a file under the state home when no file is set"`
	LogRotation LogRotationConfig `group:"LogRotation" namespace:"rotation"`
}

type LogRotationConfig struct {
	MaxSize    int  `long:"max-size" description:"Size in megabytes of the log file before it is rotated"`
	MaxAge     int  `long:"max-age" description:"Number of days the rotated files are kept"`
	MaxBackups int  `long:"max-backups" description:"Number of rotated files kept"`
	Compress   bool `long:"compress" description:"Compress the rotated files"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Level:       InfoLevel,
		ToFile:      true,
		LogRotation: LogRotationConfig{
			MaxSize:    100,
			MaxAge:     28,
			MaxBackups: 5,
			Compress:   true,
		},
	}
}
