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

// Package encoding holds the configuration values that are written as text
// in the TOML file and on the command line.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"code.bizonmatrix.io/bizon/logging"
)

var ErrNegativeDuration = errors.New("duration cannot be negative")

// Duration is written as "1m30s". Timeouts and retry delays are never
// negative.
type Duration struct {
	time.Duration
}

func (d Duration) Get() time.Duration {
	return d.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDuration, text)
	}
	d.Duration = v
	return nil
}

func (d *Duration) UnmarshalFlag(s string) error {
	return d.UnmarshalText([]byte(s))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel is the level of a named logger, written as "debug", "info"...
type LogLevel struct {
	logging.Level
}

func (l LogLevel) Get() logging.Level {
	return l.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	lvl, err := logging.ParseLevel(string(text))
	if err != nil {
		return err
	}
	l.Level = lvl
	return nil
}

func (l *LogLevel) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}

// Bool is a switch that can be turned off from the command line, which a
// plain bool flag cannot.
type Bool bool

func (b Bool) Get() bool {
	return bool(b)
}

func (b *Bool) UnmarshalFlag(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%q is not a boolean, use true or false", s)
	}
	*b = Bool(v)
	return nil
}
