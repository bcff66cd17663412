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

package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"code.bizonmatrix.io/bizon/core/api"
	"code.bizonmatrix.io/bizon/core/api/mocks"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*api.Server
	ledger *mocks.MockLedger
}

func getTestServer(t *testing.T, cfg api.Config) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := api.New(ctx, logging.NewTestLogger(), cfg, ledger)
	require.NoError(t, err)
	return &testServer{Server: srv, ledger: ledger}
}

func noRateLimitConfig() api.Config {
	cfg := api.NewDefaultConfig()
	cfg.RateLimit.CoolDown.Duration = 0
	return cfg
}

func (s *testServer) do(method, path, caller, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if len(caller) > 0 {
		req.Header.Set(api.CallerHeader, caller)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	e := api.HTTPError{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.ErrorStr
}

func TestAPI(t *testing.T) {
	t.Run("enter", testEnter)
	t.Run("enter requires a caller", testEnterRequiresCaller)
	t.Run("enter rejects malformed deposits", testEnterRejectsMalformedDeposit)
	t.Run("ledger errors map to statuses", testLedgerErrorsMapToStatuses)
	t.Run("claim", testClaim)
	t.Run("distribute", testDistribute)
	t.Run("reads", testReads)
	t.Run("rate limit", testRateLimit)
	t.Run("cors preflight", testCORSPreflight)
}

func testEnter(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())
	referral := "ID1"

	s.ledger.EXPECT().Enter(gomock.Any(), types.AccountID("bob.near"), num.MustUintFromString("1000000000000000000000000"), &referral).Times(1).Return(nil)
	s.ledger.EXPECT().GetMyID(types.AccountID("bob.near")).Times(1).Return(types.PublicID("ID2"), true)

	rec := s.do(http.MethodPost, "/api/v1/enter", "bob.near", `{"deposit":"1000000000000000000000000","referral":"ID1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := api.EnterResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.PublicID("ID2"), resp.PublicID)
}

func testEnterRequiresCaller(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	rec := s.do(http.MethodPost, "/api/v1/enter", "", `{"deposit":"1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.ErrMissingCaller.Error(), decodeError(t, rec))
}

func testEnterRejectsMalformedDeposit(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	for _, body := range []string{`{"deposit":"-1"}`, `{"deposit":""}`, `{"deposit":"1e24"}`} {
		rec := s.do(http.MethodPost, "/api/v1/enter", "bob.near", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := s.do(http.MethodPost, "/api/v1/enter", "bob.near", `{"deposit":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.ErrInvalidRequest.Error(), decodeError(t, rec))
}

func testLedgerErrorsMapToStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{types.ErrPaymentMismatch(num.NewUint(1), num.NewUint(2)), http.StatusPaymentRequired},
		{types.ErrNotOwner("mallory.near"), http.StatusForbidden},
		{types.ErrRateOutOfRange(101), http.StatusBadRequest},
		{types.ErrNotInitialised, http.StatusServiceUnavailable},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		s := getTestServer(t, noRateLimitConfig())
		s.ledger.EXPECT().SetReinvestRate(gomock.Any(), types.AccountID("bob.near"), uint32(50)).Times(1).Return(c.err)

		rec := s.do(http.MethodPost, "/api/v1/reinvest-rate", "bob.near", `{"rate":50}`)
		assert.Equal(t, c.status, rec.Code, c.err.Error())
		assert.Equal(t, c.err.Error(), decodeError(t, rec))
	}
}

func testClaim(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	gomock.InOrder(
		s.ledger.EXPECT().ClaimAll(gomock.Any(), types.AccountID("bob.near")).Times(1).Return(num.MustUintFromString("300000000000000000000000"), nil),
		s.ledger.EXPECT().ClaimAll(gomock.Any(), types.AccountID("bob.near")).Times(1).Return(nil, types.ErrNothingToClaim),
	)

	rec := s.do(http.MethodPost, "/api/v1/claim", "bob.near", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"amount":"300000000000000000000000"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/claim", "bob.near", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func testDistribute(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	s.ledger.EXPECT().Distribute(gomock.Any(), types.CadenceMonthly).Times(1).Return(types.DistributionResult{
		Cadence:      types.CadenceMonthly,
		Distributed:  true,
		Participants: 2,
		Share:        num.NewUint(45),
		ToGlobal:     num.NewUint(0),
	}, nil)
	s.ledger.EXPECT().Distribute(gomock.Any(), types.CadenceDaily).Times(1).Return(types.DistributionResult{}, types.ErrNoParticipants)

	rec := s.do(http.MethodPost, "/api/v1/distribute/monthly", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cadence":"monthly","distributed":true,"participants":2,"share":"45","to_global":"0"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/distribute/daily", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/distribute/weekly", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.ErrUnknownCadence.Error(), decodeError(t, rec))
}

func testReads(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	profile := &types.Profile{
		PublicID:       "ID1",
		Level:          1,
		MatrixFill:     3,
		PendingBalance: num.NewUint(7),
		JoinedAt:       time.Unix(1700000000, 0).UTC(),
	}
	s.ledger.EXPECT().GetProfile(types.AccountID("alice.near")).Times(1).Return(profile, true)
	s.ledger.EXPECT().GetProfile(types.AccountID("ghost.near")).Times(1).Return(nil, false)
	s.ledger.EXPECT().GetMyID(types.AccountID("alice.near")).Times(1).Return(types.PublicID("ID1"), true)
	s.ledger.EXPECT().AccountForID(types.PublicID("ID9")).Times(1).Return(types.AccountID(""), false)
	s.ledger.EXPECT().Stats().Times(1).Return(types.Stats{TotalParticipants: 1, NextID: 2, Owner: "owner.near"})

	rec := s.do(http.MethodGet, "/api/v1/profile/alice.near", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := types.Profile{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, profile.PublicID, got.PublicID)
	assert.Equal(t, uint8(3), got.MatrixFill)
	assert.Equal(t, "7", got.PendingBalance.String())

	rec = s.do(http.MethodGet, "/api/v1/profile/ghost.near", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/id/alice.near", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account":"alice.near","public_id":"ID1"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/accounts/ID9", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/stats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := types.Stats{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, uint64(2), stats.NextID)
}

func testRateLimit(t *testing.T) {
	cfg := api.NewDefaultConfig()
	cfg.RateLimit.CoolDown.Duration = time.Hour
	cfg.RateLimit.AllowList = nil
	s := getTestServer(t, cfg)

	s.ledger.EXPECT().ClaimAll(gomock.Any(), types.AccountID("bob.near")).Times(1).Return(num.NewUint(1), nil)

	rec := s.do(http.MethodPost, "/api/v1/claim", "bob.near", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/claim", "bob.near", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func testCORSPreflight(t *testing.T) {
	s := getTestServer(t, noRateLimitConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/enter", nil)
	req.Header.Set("Origin", "https://app.bizon.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", api.CallerHeader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://app.bizon.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), strings.ToLower(api.CallerHeader))
}
