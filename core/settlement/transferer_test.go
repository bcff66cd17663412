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

package settlement_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"code.bizonmatrix.io/bizon/core/settlement"
	"code.bizonmatrix.io/bizon/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferer(t *testing.T) {
	t.Run("transfer is posted to the wallet service", testTransferIsPosted)
	t.Run("rejected transfer is an error", testRejectedTransfer)
	t.Run("missing endpoint fails every transfer", testMissingEndpoint)
}

func testTransferIsPosted(t *testing.T) {
	var got settlement.TransferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := settlement.NewDefaultConfig()
	cfg.TransferURL = srv.URL

	amount := num.MustUintFromString("300000000000000000000000")
	require.NoError(t, settlement.NewTransferer(cfg).Transfer(context.Background(), "alice.near", amount))
	assert.Equal(t, "alice.near", got.Account.String())
	assert.Equal(t, amount.String(), got.Amount.String())
}

func testRejectedTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "insufficient funds", http.StatusConflict)
	}))
	defer srv.Close()

	cfg := settlement.NewDefaultConfig()
	cfg.TransferURL = srv.URL

	err := settlement.NewTransferer(cfg).Transfer(context.Background(), "alice.near", num.NewUint(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "insufficient funds")
}

func testMissingEndpoint(t *testing.T) {
	err := settlement.NewTransferer(settlement.NewDefaultConfig()).Transfer(context.Background(), "alice.near", num.NewUint(1))
	assert.ErrorIs(t, err, settlement.ErrNoTransferEndpoint)
}
