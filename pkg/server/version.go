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
	"strings"
)

const (
	// DefaultAPIVersion is served when the client does not ask for a
	// specific version, or asks for one we do not support.
	DefaultAPIVersion = "v1"

	// vendorMIMEPrefix is the vendor media type used for version
	// negotiation, e.g. Accept: application/vnd.wattline.emporia.v1+json.
	vendorMIMEPrefix = "application/vnd.wattline.emporia.v"
)

// supportedAPIVersions enumerates the versions this server can answer.
var supportedAPIVersions = map[string]bool{
	"v1": true,
}

// negotiateAPIVersion reads the requested API version out of the
// Accept header. The version sits between the vendor prefix and the
// representation suffix ("...emporia.v1+json" asks for v1). Anything
// missing, malformed, or unsupported falls back to DefaultAPIVersion.
func negotiateAPIVersion(r *http.Request) string {
	accept := r.Header.Get("Accept")
	i := strings.Index(accept, vendorMIMEPrefix)
	if i < 0 {
		return DefaultAPIVersion
	}

	rest := accept[i+len(vendorMIMEPrefix):]
	if j := strings.IndexAny(rest, "+,; "); j >= 0 {
		rest = rest[:j]
	}

	if version := "v" + rest; isValidAPIVersion(version) {
		return version
	}
	return DefaultAPIVersion
}

// isValidAPIVersion reports whether the server supports the given
// version string.
func isValidAPIVersion(version string) bool {
	return supportedAPIVersions[version]
}

// SetAPIVersionHeader advertises the negotiated API version to the
// client via the X-API-Version response header.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set("X-API-Version", version)
}
