// Package api assembles and runs the emporia usage service.
//
// This package acts as a thin wrapper around the reusable pkg/server package,
// configuring it with the emporia resource routes, the embedded API
// documentation, and the record store backend. It also carries a typed
// client for the service's operational endpoints, used by the status
// subcommand.
//
// # Usage
//
// To start the API server:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/wattline/emporia/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(context.Background(), api.Config{}); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Opening the record store (PostgreSQL, or in-memory for development)
//   - Mounting the resource, documentation, and info routes
//   - Delegating server lifecycle management to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET    /api/v1/emporia          - List usage records (page, limit)
//   - POST   /api/v1/emporia          - Create a usage record
//   - GET    /api/v1/emporia/{id}     - Fetch a record by id
//   - PUT    /api/v1/emporia/{id}     - Replace a record
//   - PATCH  /api/v1/emporia/{id}     - Partially update a record
//   - DELETE /api/v1/emporia/{id}     - Delete a record
//   - POST   /api/v1/emporia/search   - Filtered search over records
//   - GET    /api/v1/emporia/health   - Database-backed resource health
//   - GET    /api/v1/emporia/info     - Build, runtime, and image metadata
//
// Documentation Endpoints:
//   - GET /api/v1/emporia/docs         - Interactive API documentation
//   - GET /api/v1/emporia/openapi.yaml - OpenAPI document (YAML)
//   - GET /api/v1/emporia/openapi.json - OpenAPI document (JSON)
//   - GET /emporia/test/emporia.html   - Embedded manual test page
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// # Configuration
//
// The server is configured via Config plus environment variables:
//   - DATABASE_URL: PostgreSQL connection string
//   - SERVICE_IMAGE: container image reference reported by /info
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/wattline/emporia/pkg/api.version=1.0.0'"
package api
