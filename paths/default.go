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
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultPaths places the files in the XDG base directories of the
// platform.
type DefaultPaths struct{}

// CreateConfigPathFor builds the default path for a configuration file and
// creates intermediate directories, if needed.
func (p *DefaultPaths) CreateConfigPathFor(relFilePath ConfigPath) (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(BizonHome, relFilePath.String()))
	if err != nil {
		return "", fmt.Errorf("couldn't create the configuration path for %s: %w", relFilePath, err)
	}
	return path, nil
}

// CreateConfigDirFor builds the default path for a config directory and
// creates it along with intermediate directories.
func (p *DefaultPaths) CreateConfigDirFor(relDirPath ConfigPath) (string, error) {
	path := p.ConfigPathFor(relDirPath)
	if err := createDir(path); err != nil {
		return "", err
	}
	return path, nil
}

// CreateDataPathFor builds the default path for a data file and creates
// intermediate directories, if needed.
func (p *DefaultPaths) CreateDataPathFor(relFilePath DataPath) (string, error) {
	path, err := xdg.DataFile(filepath.Join(BizonHome, relFilePath.String()))
	if err != nil {
		return "", fmt.Errorf("couldn't create the data path for %s: %w", relFilePath, err)
	}
	return path, nil
}

// CreateDataDirFor builds the default path for a data directory and creates
// it along with intermediate directories.
func (p *DefaultPaths) CreateDataDirFor(relDirPath DataPath) (string, error) {
	path := p.DataPathFor(relDirPath)
	if err := createDir(path); err != nil {
		return "", err
	}
	return path, nil
}

// CreateStatePathFor builds the default path for a state file and creates
// intermediate directories, if needed.
func (p *DefaultPaths) CreateStatePathFor(relFilePath StatePath) (string, error) {
	path, err := xdg.StateFile(filepath.Join(BizonHome, relFilePath.String()))
	if err != nil {
		return "", fmt.Errorf("couldn't create the state path for %s: %w", relFilePath, err)
	}
	return path, nil
}

// CreateStateDirFor builds the default path for a state directory and
// creates it along with intermediate directories.
func (p *DefaultPaths) CreateStateDirFor(relDirPath StatePath) (string, error) {
	path := p.StatePathFor(relDirPath)
	if err := createDir(path); err != nil {
		return "", err
	}
	return path, nil
}

func (p *DefaultPaths) ConfigPathFor(relFilePath ConfigPath) string {
	return filepath.Join(xdg.ConfigHome, BizonHome, relFilePath.String())
}

func (p *DefaultPaths) DataPathFor(relFilePath DataPath) string {
	return filepath.Join(xdg.DataHome, BizonHome, relFilePath.String())
}

func (p *DefaultPaths) StatePathFor(relFilePath StatePath) string {
	return filepath.Join(xdg.StateHome, BizonHome, relFilePath.String())
}
