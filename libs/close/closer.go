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

package close

import (
	"errors"
	"fmt"
)

type closeFn struct {
	name string
	fn   func() error
}

// Closer releases the components of a process in the reverse order they
// were started.
type Closer struct {
	closeFns []closeFn
}

// Add adds a function to call during call to CloseAll.
func (c *Closer) Add(name string, fn func() error) {
	c.closeFns = append(c.closeFns, closeFn{name: name, fn: fn})
}

// CloseAll calls all close functions in reverse order, every function is
// called even if a previous one failed.
func (c *Closer) CloseAll() error {
	var errs []error
	for i := len(c.closeFns) - 1; i >= 0; i-- {
		if err := c.closeFns[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("could not close %s: %w", c.closeFns[i].name, err))
		}
	}

	c.closeFns = []closeFn{}
	return errors.Join(errs...)
}

func NewCloser() *Closer {
	return &Closer{
		closeFns: []closeFn{},
	}
}
