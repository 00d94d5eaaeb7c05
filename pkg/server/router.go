package server

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	emperrors "github.com/wattline/emporia/pkg/errors"
	"github.com/wattline/emporia/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Configured endpoints with middleware
	for pattern, handler := range s.config.Handlers {
		mux.HandleFunc(pattern, s.withMiddleware(handler))
	}

	return mux
}

// handleRoot is the default handler mounted at "/" when the configuration
// does not provide one. It answers the service index on GET / and, because
// "/" is the mux fallback pattern, a 404 for any unmatched path.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, emperrors.ErrCodeNotFound,
			"resource not found", false, map[string]any{"path": r.URL.Path})
		return
	}

	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, emperrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routeList(),
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// routeList returns the sorted list of mounted routes, including the
// built-in system endpoints.
func (s *Server) routeList() []string {
	routes := make([]string, 0, len(s.config.Handlers)+3)
	for pattern := range s.config.Handlers {
		if pattern == "/" {
			continue
		}
		routes = append(routes, pattern)
	}
	routes = append(routes,
		"GET /health",
		"GET /ready",
		"GET /metrics",
	)
	sort.Strings(routes)
	return routes
}
