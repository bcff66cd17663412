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

package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
)

var ErrNoTransferEndpoint = errors.New("no transfer endpoint configured")

type TransferRequest struct {
	Account types.AccountID `json:"account"`
	Amount  *num.Uint       `json:"amount"`
}

// HTTPTransferer asks a wallet service to execute the transfers.
type HTTPTransferer struct {
	url    string
	client *http.Client
}

// NewTransferer returns the transferer of the configuration. Without an
// endpoint every transfer fails so the payouts wait in the journal until
// one is configured and they are replayed.
func NewTransferer(cfg Config) Transferer {
	if len(cfg.TransferURL) == 0 {
		return noTransferer{}
	}
	return &HTTPTransferer{
		url:    cfg.TransferURL,
		client: &http.Client{Timeout: cfg.TransferTimeout.Get()},
	}
}

func (t *HTTPTransferer) Transfer(ctx context.Context, account types.AccountID, amount *num.Uint) error {
	body, err := json.Marshal(TransferRequest{Account: account, Amount: amount})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("transfer rejected with status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

type noTransferer struct{}

func (noTransferer) Transfer(context.Context, types.AccountID, *num.Uint) error {
	return ErrNoTransferEndpoint
}
