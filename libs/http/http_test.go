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

package http

import (
	"context"
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedOrigin(t *testing.T) {
	t.Run("wildcard allows everything", func(t *testing.T) {
		allowed := AllowedOrigin([]string{"*"})
		assert.True(t, allowed("https://anything.example"))
	})

	t.Run("scheme is ignored", func(t *testing.T) {
		allowed := AllowedOrigin([]string{"https://app.bizon.example"})
		assert.True(t, allowed("http://app.bizon.example"))
		assert.False(t, allowed("https://evil.example"))
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("second request within the cool down is rejected", testSecondRequestIsRejected)
	t.Run("allow listed ips are never limited", testAllowListedIPs)
	t.Run("invalid allow list is rejected", testInvalidAllowList)
}

func newTestRateLimit(t *testing.T, allowList ...string) (*RateLimit, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r, err := NewRateLimit(ctx, RateLimitConfig{
		CoolDown:  encoding.Duration{Duration: 10 * time.Second},
		AllowList: allowList,
	})
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	r.now = func() time.Time { return now }
	return r, &now
}

func testSecondRequestIsRejected(t *testing.T) {
	r, now := newTestRateLimit(t)

	require.NoError(t, r.NewRequest("enter", "alice.near", "10.0.0.1"))
	assert.ErrorIs(t, r.NewRequest("enter", "alice.near", "10.0.0.1"), ErrRateLimited)
	// other keys and prefixes are independent.
	assert.NoError(t, r.NewRequest("enter", "bob.near", "10.0.0.1"))
	assert.NoError(t, r.NewRequest("claim", "alice.near", "10.0.0.1"))

	// the rejected request extended the cool down to 20s.
	*now = now.Add(15 * time.Second)
	assert.ErrorIs(t, r.NewRequest("enter", "alice.near", "10.0.0.1"), ErrRateLimited)

	*now = now.Add(time.Minute)
	assert.NoError(t, r.NewRequest("enter", "alice.near", "10.0.0.1"))

	*now = now.Add(time.Hour)
	r.cleanup()
	assert.Empty(t, r.requests)
}

func testAllowListedIPs(t *testing.T) {
	r, _ := newTestRateLimit(t, "127.0.0.0/8")

	for i := 0; i < 3; i++ {
		assert.NoError(t, r.NewRequest("enter", "alice.near", "127.0.0.1"))
	}
}

func testInvalidAllowList(t *testing.T) {
	_, err := NewRateLimit(context.Background(), RateLimitConfig{AllowList: []string{"not-a-cidr"}})
	assert.Error(t, err)
}
