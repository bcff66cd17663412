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
	"errors"
	"fmt"
	"net/http"
	"time"

	"code.bizonmatrix.io/bizon/core/types"
	libhttp "code.bizonmatrix.io/bizon/libs/http"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Ledger is the serialised operation surface of the node.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/ledger_mock.go -package mocks code.bizonmatrix.io/bizon/core/api Ledger
type Ledger interface {
	Enter(ctx context.Context, caller types.AccountID, deposit *num.Uint, referral *string) error
	SetReinvestRate(ctx context.Context, caller types.AccountID, rate uint32) error
	ClaimAll(ctx context.Context, caller types.AccountID) (*num.Uint, error)
	Distribute(ctx context.Context, cadence types.Cadence) (types.DistributionResult, error)
	DisableOwner(ctx context.Context, caller types.AccountID) error
	GetProfile(caller types.AccountID) (*types.Profile, bool)
	GetMyID(caller types.AccountID) (types.PublicID, bool)
	AccountForID(id types.PublicID) (types.AccountID, bool)
	GetPools() *types.Pools
	Stats() types.Stats
}

type Server struct {
	*httprouter.Router

	log       *logging.Logger
	cfg       Config
	ledger    Ledger
	rateLimit *libhttp.RateLimit
	srv       *http.Server
}

func New(ctx context.Context, log *logging.Logger, cfg Config, ledger Ledger) (*Server, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	rl, err := libhttp.NewRateLimit(ctx, cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("could not set up the rate limit: %w", err)
	}

	s := &Server{
		Router:    httprouter.New(),
		log:       log,
		cfg:       cfg,
		ledger:    ledger,
		rateLimit: rl,
	}

	s.POST("/api/v1/enter", s.instrument("enter", s.Enter))
	s.POST("/api/v1/reinvest-rate", s.instrument("reinvest_rate", s.SetReinvestRate))
	s.POST("/api/v1/claim", s.instrument("claim", s.Claim))
	s.POST("/api/v1/distribute/:cadence", s.instrument("distribute", s.Distribute))
	s.POST("/api/v1/owner/disable", s.instrument("disable_owner", s.DisableOwner))
	s.GET("/api/v1/profile/:account", s.instrument("profile", s.Profile))
	s.GET("/api/v1/id/:account", s.instrument("id", s.ID))
	s.GET("/api/v1/accounts/:id", s.instrument("account", s.Account))
	s.GET("/api/v1/pools", s.instrument("pools", s.Pools))
	s.GET("/api/v1/stats", s.instrument("stats", s.Stats))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.IP, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Get(),
		WriteTimeout: cfg.WriteTimeout.Get(),
	}

	return s, nil
}

func (s *Server) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
}

// Handler returns the router wrapped with the CORS middleware.
func (s *Server) Handler() http.Handler {
	return cors.New(libhttp.CORSOptions(s.cfg.CORS, CallerHeader)).Handler(s)
}

func (s *Server) Start() error {
	s.log.Info("starting api server", logging.String("address", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) instrument(name string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		defer metrics.APIRequestAndTimeREST(name, time.Now())
		h(w, r, ps)
	}
}
