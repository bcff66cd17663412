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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// BizonHome is the name of the folder holding everything under the
	// platform home directories.
	BizonHome = "bizon"

	// NodeConfigHome is the folder of the node configuration.
	NodeConfigHome ConfigPath = "node"

	// NodeDataHome is the folder of the node data.
	NodeDataHome DataPath = "node"

	// NodeStateHome is the folder of the node state.
	NodeStateHome StatePath = "node"
)

var (
	// NodeDefaultConfigFile is the node configuration file.
	NodeDefaultConfigFile = JoinConfigPath(NodeConfigHome, "config.toml")

	// SnapshotStateHome is the folder of the ledger snapshots.
	SnapshotStateHome = JoinStatePath(NodeStateHome, "snapshots")

	// SettlementStateHome is the folder of the payout journal.
	SettlementStateHome = JoinStatePath(NodeStateHome, "settlement")

	// SettlementJournalFile is the payout journal database.
	SettlementJournalFile = JoinStatePath(SettlementStateHome, "journal.db")

	// NodeLogsHome is the folder of the node logs.
	NodeLogsHome = JoinStatePath(NodeStateHome, "logs")

	// NodeLogFile is the rotated log file of the node.
	NodeLogFile = JoinStatePath(NodeLogsHome, "node.log")
)

// ConfigPath is a path relative to the configuration home.
type ConfigPath string

func (p ConfigPath) String() string {
	return string(p)
}

// JoinConfigPath joins any number of path elements with a root ConfigPath
// into a single path, separating them with an OS specific Separator.
func JoinConfigPath(p ConfigPath, elem ...string) ConfigPath {
	return ConfigPath(filepath.Join(append([]string{p.String()}, elem...)...))
}

// DataPath is a path relative to the data home.
type DataPath string

func (p DataPath) String() string {
	return string(p)
}

// JoinDataPath joins any number of path elements with a root DataPath into
// a single path, separating them with an OS specific Separator.
func JoinDataPath(p DataPath, elem ...string) DataPath {
	return DataPath(filepath.Join(append([]string{p.String()}, elem...)...))
}

// StatePath is a path relative to the state home.
type StatePath string

func (p StatePath) String() string {
	return string(p)
}

// JoinStatePath joins any number of path elements with a root StatePath
// into a single path, separating them with an OS specific Separator.
func JoinStatePath(p StatePath, elem ...string) StatePath {
	return StatePath(filepath.Join(append([]string{p.String()}, elem...)...))
}

func createDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModeDir|0o700); err != nil {
		return fmt.Errorf("couldn't create directory %s: %w", dir, err)
	}
	return nil
}

// createFileDir creates the parent directory of a file.
func createFileDir(path string) error {
	return createDir(filepath.Dir(path))
}
