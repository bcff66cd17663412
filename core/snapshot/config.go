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

package snapshot

import (
	"errors"
	"os"

	"code.bizonmatrix.io/bizon/config/encoding"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"
)

const (
	namedLogger = "snapshot"
	goLevelDB   = "GOLevelDB"
	memDB       = "memory"
)

var ErrInvalidSnapshotStorageMethod = errors.New("invalid snapshot storage method")

type Config struct {
	Level      encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	KeepRecent int               `description:"Number of historic snapshots to keep on disk"                                                                                          long:"snapshot-keep-recent"`
	Interval   uint64            `description:"Number of committed operations between two snapshots"                                                                                  long:"snapshot-interval"`
	Storage    string            `choice:"GOLevelDB" choice:"memory" description:"Storage type to use"                                                                                long:"storage"`
	DBPath     string            `description:"Path to database"                                                                                                                      long:"db-path"`
	// StartVersion is the snapshot to restore at start: -1 is the latest,
	// 0 starts from an empty state.
	StartVersion int64 `description:"Load from the snapshot at the given version. Setting to -1 will load from the latest snapshot available, 0 will start from scratch" long:"load-from-version"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		KeepRecent:   10,
		Interval:     1,
		Storage:      goLevelDB,
		StartVersion: -1,
	}
}

func NewTestConfig() Config {
	cfg := NewDefaultConfig()
	cfg.Storage = memDB
	return cfg
}

// validate checks the values in the config file are sensible, and returns the path
// which is create/load the snapshots from.
func (c *Config) validate(bizonPaths paths.Paths) (string, error) {
	if len(c.DBPath) != 0 && c.Storage == memDB {
		return "", errors.New("dbpath cannot be set when storage method is in-memory")
	}
	if c.KeepRecent < 1 {
		return "", errors.New("at least one snapshot must be kept")
	}

	switch c.Storage {
	case memDB:
		return "", nil
	case goLevelDB:
		if len(c.DBPath) == 0 {
			return bizonPaths.CreateStateDirFor(paths.SnapshotStateHome)
		}

		stat, err := os.Stat(c.DBPath)
		if err != nil {
			return "", err
		}

		if !stat.IsDir() {
			return "", errors.New("snapshot DB path is not a directory")
		}

		return c.DBPath, nil
	default:
		return "", ErrInvalidSnapshotStorageMethod
	}
}
