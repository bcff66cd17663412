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
	"time"

	"code.bizonmatrix.io/bizon/config/encoding"
	libhttp "code.bizonmatrix.io/bizon/libs/http"
	"code.bizonmatrix.io/bizon/logging"
)

const namedLogger = "api"

// CallerHeader carries the account authenticated by the gateway in front of
// the node.
const CallerHeader = "X-Caller-Account"

// Config represents the configuration of the HTTP API.
type Config struct {
	Level        encoding.LogLevel       `long:"log-level"`
	IP           string                  `long:"ip" description:"IP the API listens on"`
	Port         int                     `long:"port" description:"Port the API listens on"`
	ReadTimeout  encoding.Duration       `long:"read-timeout"`
	WriteTimeout encoding.Duration       `long:"write-timeout"`
	CORS         libhttp.CORSConfig      `group:"CORS" namespace:"cors"`
	RateLimit    libhttp.RateLimitConfig `group:"RateLimit" namespace:"ratelimit"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		IP:           "0.0.0.0",
		Port:         3008,
		ReadTimeout:  encoding.Duration{Duration: 5 * time.Second},
		WriteTimeout: encoding.Duration{Duration: 5 * time.Second},
		CORS:         libhttp.DefaultCORSConfig(),
		RateLimit:    libhttp.DefaultRateLimitConfig(),
	}
}
