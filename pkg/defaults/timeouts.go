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

package defaults

import "time"

// HTTP server timeouts.
const (
	// ServerReadTimeout bounds reading an entire request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout caps header reads to shed slowloris clients.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout bounds writing a full response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is how long a keep-alive connection may sit idle.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the drain window for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Database timeouts for PostgreSQL pool and query operations.
const (
	// DBConnectTimeout is the timeout for establishing the initial pool connection.
	DBConnectTimeout = 10 * time.Second

	// DBPingTimeout bounds connectivity probes used by health checks.
	DBPingTimeout = 2 * time.Second

	// DBMaxConnLifetime is the maximum age of a pooled connection.
	DBMaxConnLifetime = 30 * time.Minute

	// DBMaxConnIdleTime is the maximum idle duration before a pooled
	// connection is closed.
	DBMaxConnIdleTime = 5 * time.Minute
)

// Outbound HTTP client timeouts, used by the API client.
const (
	// HTTPClientTimeout caps an entire outbound request.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout caps dialing a connection.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout caps the TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout caps the wait for response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is how long pooled connections may sit idle.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive interval for dialed connections.
	HTTPKeepAlive = 30 * time.Second
)
