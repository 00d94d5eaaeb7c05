// Copyright (c) 2025, Wattline.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/wattline/emporia/pkg/defaults"
	"golang.org/x/time/rate"
)

// Config holds everything the server needs to come up: identity,
// listener settings, rate limits, and the route table.
type Config struct {
	Name    string
	Version string

	// Handlers maps route patterns to the handlers the server mounts.
	// Patterns may be method-qualified ("GET /api/v1/emporia") or plain
	// paths, following net/http ServeMux pattern syntax.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	RateLimit      rate.Limit // requests per second
	RateLimitBurst int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewConfig returns a Config populated with defaults and any
// environment overrides. Callers adjust fields before passing it to
// New.
func NewConfig() *Config {
	return parseConfig()
}

func parseConfig() *Config {
	cfg := &Config{
		Name:            "server",
		Version:         "undefined",
		Address:         "",
		Port:            8080,
		RateLimit:       100,
		RateLimitBurst:  200,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
	}

	if port, ok := envInt("PORT"); ok {
		cfg.Port = port
	}

	// Deployments stretch the drain window to fit their eviction grace
	// period.
	if secs, ok := envInt("SHUTDOWN_TIMEOUT_SECONDS"); ok && secs > 0 {
		cfg.ShutdownTimeout = time.Duration(secs) * time.Second
	}

	return cfg
}

// envInt reads an integer environment variable. Unset or unparseable
// values report ok=false so the caller keeps its default.
func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
