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
	"time"

	"github.com/wattline/emporia/pkg/serializer"
)

// HealthResponse is the payload returned by the /health and /ready
// probes. Reason is only set when a probe fails.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func writeProbe(w http.ResponseWriter, code int, status, reason string) {
	serializer.RespondJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Reason:    reason,
	})
}

// handleHealth answers GET /health, the process liveness probe. It
// reports healthy whenever the server loop can still answer requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeProbe(w, http.StatusOK, "healthy", "")
}

// handleReady answers GET /ready. Readiness flips on once startup has
// finished, and off again while the server is draining.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		writeProbe(w, http.StatusServiceUnavailable, "not_ready", "service is initializing")
		return
	}
	writeProbe(w, http.StatusOK, "ready", "")
}
