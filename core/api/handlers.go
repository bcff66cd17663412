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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/core/types"
	libhttp "code.bizonmatrix.io/bizon/libs/http"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

var (
	ErrInvalidRequest  = newError("invalid request")
	ErrMissingCaller   = newError("missing " + CallerHeader + " header")
	ErrInvalidDeposit  = newError("deposit must be a base 10 unsigned integer")
	ErrUnknownCadence  = newError("cadence must be one of daily, monthly or yearly")
	ErrNotParticipant  = newError("participant not found")
	ErrUnknownPublicID = newError("public id not found")
)

type EnterRequest struct {
	// Deposit is the amount attached to the call, in the smallest unit.
	Deposit  string  `json:"deposit"`
	Referral *string `json:"referral,omitempty"`
}

type EnterResponse struct {
	PublicID types.PublicID `json:"public_id"`
}

type ReinvestRateRequest struct {
	Rate uint32 `json:"rate"`
}

type ClaimResponse struct {
	Amount *num.Uint `json:"amount"`
}

type DistributeResponse struct {
	Cadence      string    `json:"cadence"`
	Distributed  bool      `json:"distributed"`
	Participants uint64    `json:"participants"`
	Share        *num.Uint `json:"share"`
	ToGlobal     *num.Uint `json:"to_global"`
}

type IDResponse struct {
	Account  types.AccountID `json:"account"`
	PublicID types.PublicID  `json:"public_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func (s *Server) Enter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r, "enter")
	if !ok {
		return
	}

	req := EnterRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	deposit, overflow := num.UintFromString(req.Deposit, 10)
	if overflow || len(req.Deposit) == 0 {
		writeError(w, ErrInvalidDeposit, http.StatusBadRequest)
		return
	}

	if err := s.ledger.Enter(requestContext(r), caller, deposit, req.Referral); err != nil {
		s.writeLedgerError(w, "enter", err)
		return
	}

	id, _ := s.ledger.GetMyID(caller)
	writeSuccess(w, EnterResponse{PublicID: id}, http.StatusOK)
}

func (s *Server) SetReinvestRate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r, "")
	if !ok {
		return
	}

	req := ReinvestRateRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	if err := s.ledger.SetReinvestRate(requestContext(r), caller, req.Rate); err != nil {
		s.writeLedgerError(w, "reinvest rate", err)
		return
	}
	writeSuccess(w, SuccessResponse{Success: true}, http.StatusOK)
}

func (s *Server) Claim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r, "claim")
	if !ok {
		return
	}

	amount, err := s.ledger.ClaimAll(requestContext(r), caller)
	if err != nil {
		s.writeLedgerError(w, "claim", err)
		return
	}
	writeSuccess(w, ClaimResponse{Amount: amount}, http.StatusOK)
}

func (s *Server) Distribute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cadence, err := types.ParseCadence(ps.ByName("cadence"))
	if err != nil {
		writeError(w, ErrUnknownCadence, http.StatusBadRequest)
		return
	}

	res, err := s.ledger.Distribute(requestContext(r), cadence)
	if err != nil {
		s.writeLedgerError(w, "distribute", err)
		return
	}
	writeSuccess(w, DistributeResponse{
		Cadence:      cadence.String(),
		Distributed:  res.Distributed,
		Participants: res.Participants,
		Share:        res.Share,
		ToGlobal:     res.ToGlobal,
	}, http.StatusOK)
}

func (s *Server) DisableOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r, "")
	if !ok {
		return
	}
	if err := s.ledger.DisableOwner(requestContext(r), caller); err != nil {
		s.writeLedgerError(w, "disable owner", err)
		return
	}
	writeSuccess(w, SuccessResponse{Success: true}, http.StatusOK)
}

func (s *Server) Profile(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	profile, ok := s.ledger.GetProfile(types.AccountID(ps.ByName("account")))
	if !ok {
		writeError(w, ErrNotParticipant, http.StatusNotFound)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (s *Server) ID(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	account := types.AccountID(ps.ByName("account"))
	id, ok := s.ledger.GetMyID(account)
	if !ok {
		writeError(w, ErrNotParticipant, http.StatusNotFound)
		return
	}
	writeSuccess(w, IDResponse{Account: account, PublicID: id}, http.StatusOK)
}

func (s *Server) Account(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id := types.PublicID(ps.ByName("id"))
	account, ok := s.ledger.AccountForID(id)
	if !ok {
		writeError(w, ErrUnknownPublicID, http.StatusNotFound)
		return
	}
	writeSuccess(w, IDResponse{Account: account, PublicID: id}, http.StatusOK)
}

func (s *Server) Pools(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.ledger.GetPools(), http.StatusOK)
}

func (s *Server) Stats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.ledger.Stats(), http.StatusOK)
}

// caller extracts the authenticated account of the request. When a rate
// limit prefix is given, the caller is also checked against the rate limit.
func (s *Server) caller(w http.ResponseWriter, r *http.Request, rateLimitPrefix string) (types.AccountID, bool) {
	caller := r.Header.Get(CallerHeader)
	if len(caller) == 0 {
		writeError(w, ErrMissingCaller, http.StatusUnauthorized)
		return "", false
	}

	if len(rateLimitPrefix) > 0 {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if err := s.rateLimit.NewRequest(rateLimitPrefix, caller, ip); err != nil {
			s.log.Debug("request rate limited", logging.Account(caller), logging.Error(err))
			writeError(w, newError(err.Error()), http.StatusTooManyRequests)
			return "", false
		}
	}
	return types.AccountID(caller), true
}

func (s *Server) writeLedgerError(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("ledger operation failed", logging.String("operation", op), logging.Error(err))
	}
	writeError(w, newError(err.Error()), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, types.ErrNotAuthorised):
		return http.StatusForbidden
	case errors.Is(err, types.ErrNothingToClaim):
		return http.StatusNotFound
	case errors.Is(err, types.ErrNoParticipants), errors.Is(err, types.ErrAlreadyInitialised):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidRate):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotInitialised):
		return http.StatusServiceUnavailable
	case errors.Is(err, libhttp.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// requestContext tags the context with a trace id so the events of the
// request can be correlated.
func requestContext(r *http.Request) context.Context {
	traceID := r.Header.Get("X-Request-Id")
	if len(traceID) == 0 {
		traceID = uuid.NewString()
	}
	return events.WithTraceID(r.Context(), traceID)
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}

func writeError(w http.ResponseWriter, e error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(e)
	w.Write(buf)
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	w.Write(buf)
}

type HTTPError struct {
	ErrorStr string `json:"error"`
}

func (e HTTPError) Error() string {
	return e.ErrorStr
}

func newError(e string) HTTPError {
	return HTTPError{
		ErrorStr: e,
	}
}
