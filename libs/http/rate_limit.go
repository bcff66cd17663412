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
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"
)

var ErrRateLimited = errors.New("rate limited")

type RateLimitConfig struct {
	CoolDown encoding.Duration `long:"cool-down" description:"rate-limit duration, e.g. 10s, 1m30s, 24h0m0s"`

	AllowList []string `long:"allow-list" description:"a list of ip/subnets, e.g. 10.0.0.0/8, 192.168.0.0/16"`
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		CoolDown:  encoding.Duration{Duration: time.Second},
		AllowList: []string{"127.0.0.0/8"},
	}
}

// RateLimit greylists a key for the cool down after each request. A request
// arriving while greylisted is rejected and extends the greylisting.
type RateLimit struct {
	coolDown  time.Duration
	allowList []*net.IPNet
	now       func() time.Time

	mu sync.Mutex
	// key -> time until a request is allowed
	requests map[string]time.Time
}

func NewRateLimit(ctx context.Context, cfg RateLimitConfig) (*RateLimit, error) {
	allowList := make([]*net.IPNet, 0, len(cfg.AllowList))
	for _, allowItem := range cfg.AllowList {
		_, ipnet, err := net.ParseCIDR(allowItem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse allow list entry %q: %w", allowItem, err)
		}
		allowList = append(allowList, ipnet)
	}
	r := &RateLimit{
		coolDown:  cfg.CoolDown.Duration,
		allowList: allowList,
		now:       time.Now,
		requests:  map[string]time.Time{},
	}
	go r.startCleanup(ctx)
	return r, nil
}

// NewRequest returns nil if the rate has not been exceeded for the key under
// the prefix. Requests from an allow listed ip are never limited.
func (r *RateLimit) NewRequest(prefix, key, ip string) error {
	if r.coolDown <= 0 || r.isAllowListed(ip) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	identifier := prefix + " " + key
	if until, ok := r.requests[identifier]; ok && now.Before(until) {
		r.requests[identifier] = until.Add(r.coolDown)
		return fmt.Errorf("%w: %s for %s until %v", ErrRateLimited, prefix, key, r.requests[identifier])
	}

	r.requests[identifier] = now.Add(r.coolDown)
	return nil
}

func (r *RateLimit) isAllowListed(ip string) bool {
	netIP := net.ParseIP(ip)
	if netIP == nil {
		return false
	}
	for _, allowItem := range r.allowList {
		if allowItem.Contains(netIP) {
			return true
		}
	}
	return false
}

func (r *RateLimit) cleanup() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for identifier, until := range r.requests {
		if until.Before(now) {
			delete(r.requests, identifier)
		}
	}
}

func (r *RateLimit) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}
