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

// Package defaults is the single home for the service's timeout
// constants, grouped by component: the HTTP server, the PostgreSQL
// pool, and the outbound HTTP client. Keeping them in one place makes
// the relationships between them visible (a DB ping must resolve
// before the server's write deadline, for instance) and testable.
//
// Use the constants directly:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.DBPingTimeout)
//	defer cancel()
package defaults
