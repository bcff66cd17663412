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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"code.bizonmatrix.io/bizon/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	requestTimeout     = 5 * time.Second
	requestIdleTimeout = 10 * time.Second
)

// Server exposes a registry over HTTP.
type Server struct {
	log *logging.Logger
	cfg Config
	srv *http.Server
}

func NewServer(log *logging.Logger, cfg Config, reg *prometheus.Registry) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &Server{
		log: log,
		cfg: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  requestTimeout,
			WriteTimeout: requestTimeout,
			IdleTimeout:  requestIdleTimeout,
		},
	}
}

// Start serves the metrics until Stop is called. It returns immediately
// when the metrics are disabled.
func (s *Server) Start() error {
	if !s.cfg.Enabled {
		s.log.Info("metrics are disabled")
		return nil
	}

	s.log.Info("starting metrics server",
		logging.String("address", s.srv.Addr),
		logging.String("path", s.cfg.Path))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
