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

// Package server provides the HTTP serving foundation for the emporia
// energy-usage API.
//
// The package is domain-agnostic: callers mount their route handlers through
// options and the server contributes the operational surface every service
// needs:
//
//   - Rate limiting using token bucket algorithm (golang.org/x/time/rate)
//   - Request ID tracking for distributed tracing
//   - API version negotiation via vendor media types
//   - Prometheus metrics for requests, latency, and in-flight work
//   - Panic recovery for resilience
//   - Graceful shutdown on SIGINT/SIGTERM with systemd notification
//   - Health and readiness probes for Kubernetes
//
// # Usage
//
// Basic server startup:
//
//	routes := map[string]http.HandlerFunc{
//	    "GET /api/v1/emporia": h.HandleList,
//	}
//
//	s := server.New(
//	    server.WithName("emporia-api-server"),
//	    server.WithVersion("1.0.0"),
//	    server.WithHandler(routes),
//	)
//
//	if err := s.Run(context.Background()); err != nil {
//	    slog.Error("server exited with error", "error", err)
//	}
//
// Custom configuration:
//
//	cfg := server.NewConfig()
//	cfg.Port = 9090
//	cfg.RateLimit = 200  // 200 requests/sec
//	cfg.RateLimitBurst = 400
//
//	s := server.New(server.WithConfig(cfg), server.WithHandler(routes))
//
// Route patterns follow net/http ServeMux syntax and may be method-qualified
// ("GET /api/v1/emporia/{id}") or plain paths. Handlers registered through
// WithHandler run behind the full middleware chain; the system endpoints
// below do not, so probes are never rate limited.
//
// # System Endpoints
//
// GET /health - Health check (for liveness probe)
//
//	Always returns 200 OK with {"status": "healthy", "timestamp": "..."}
//
// GET /ready - Readiness check (for readiness probe)
//
//	Returns 200 OK when ready, 503 when not ready
//
// GET /metrics - Prometheus metrics in text exposition format
//
// GET / - Service index listing mounted routes (unless a custom root
// handler is configured)
//
// # Observability
//
// Request ID Tracking:
//
//	All requests accept an optional X-Request-Id header (UUID format).
//	If not provided, the server generates one automatically.
//	The request ID is returned in the X-Request-Id response header
//	and included in all error responses for tracing.
//
// Rate Limiting:
//
//	Response headers indicate rate limit status:
//	  X-RateLimit-Limit: Total requests allowed per window
//	  X-RateLimit-Remaining: Requests remaining in current window
//	  X-RateLimit-Reset: Unix timestamp when window resets
//
//	When rate limited, returns 429 with Retry-After header.
//
// Metrics:
//
//	emporia_http_requests_total{method,path,status}
//	emporia_http_request_duration_seconds{method,path}
//	emporia_http_requests_in_flight
//	emporia_rate_limit_rejects_total
//	emporia_panic_recoveries_total
//
// # Error Handling
//
// All errors return a consistent JSON structure:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "record validation failed",
//	  "details": {"scale": "field is required"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-08-25T12:00:00Z",
//	  "retryable": false
//	}
//
// Error codes map to HTTP statuses via HTTPStatusFromCode:
//   - INVALID_REQUEST: Malformed request (400)
//   - NOT_FOUND: Resource not found (404)
//   - METHOD_NOT_ALLOWED: Unsupported HTTP method (405)
//   - VALIDATION_ERROR: Well-formed request with invalid content (422)
//   - RATE_LIMIT_EXCEEDED: Too many requests (429)
//   - INTERNAL: Server error (500)
//   - SERVICE_UNAVAILABLE: Dependency unavailable (503)
//   - TIMEOUT: Operation timed out (504)
//
// Handlers produce these responses with WriteError, or WriteErrorFromErr
// when translating structured errors from lower layers.
//
// # Deployment
//
// Kubernetes deployment example:
//
//	apiVersion: apps/v1
//	kind: Deployment
//	metadata:
//	  name: emporia-api
//	spec:
//	  replicas: 3
//	  selector:
//	    matchLabels:
//	      app: emporia-api
//	  template:
//	    metadata:
//	      labels:
//	        app: emporia-api
//	    spec:
//	      containers:
//	      - name: api
//	        image: emporia-api:latest
//	        ports:
//	        - containerPort: 8080
//	        env:
//	        - name: PORT
//	          value: "8080"
//	        livenessProbe:
//	          httpGet:
//	            path: /health
//	            port: 8080
//	          initialDelaySeconds: 5
//	          periodSeconds: 10
//	        readinessProbe:
//	          httpGet:
//	            path: /ready
//	            port: 8080
//	          initialDelaySeconds: 5
//	          periodSeconds: 5
//	        resources:
//	          requests:
//	            cpu: 100m
//	            memory: 128Mi
//	          limits:
//	            cpu: 1000m
//	            memory: 512Mi
//
// Under systemd, use Type=notify units. The server sends READY=1 once the
// listener is up and STOPPING=1 during shutdown.
//
// # References
//
//   - Rate limiting: https://pkg.go.dev/golang.org/x/time/rate
//   - UUID generation: https://pkg.go.dev/github.com/google/uuid
//   - Error groups: https://pkg.go.dev/golang.org/x/sync/errgroup
//   - systemd notify: https://pkg.go.dev/github.com/coreos/go-systemd/v22/daemon
//   - HTTP best practices: https://datatracker.ietf.org/doc/html/rfc7807
//   - Kubernetes probes: https://kubernetes.io/docs/tasks/configure-pod-container/configure-liveness-readiness-startup-probes/
package server
