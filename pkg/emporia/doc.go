// Package emporia defines the energy usage record domain: the Record type,
// request validation, the Store persistence contract, and the HTTP handlers
// that expose CRUD and search operations.
//
// # Overview
//
// An emporia record is a single per-device energy usage reading as reported
// by an Emporia Vue monitor: a timestamp (instant), the aggregation scale
// ("1H", "1D"), the reporting device (deviceGid), the channel set sampled
// ("1,2,3"), and the measured usage with its unit and percentage of total.
// Records are identified by a server-assigned integer id and carry
// server-managed create/update timestamps.
//
// # Core Concepts
//
// Record: The full stored reading, including id and timestamps. Its JSON
// field names are the service's wire contract.
//
// RecordInput: The client-writable subset used by create, replace, and patch
// requests. Every field is a pointer so a partial update can distinguish an
// omitted field from a zero value. ValidateFull requires all fields (create,
// replace); ValidatePartial checks only present ones (patch).
//
// SearchQuery: Optional equality filters plus an inclusive [start_date,
// end_date] window over instant. Present filters are AND-combined; an empty
// query matches everything.
//
// Store: The persistence contract. Implementations must assign ids, manage
// create_date/update_date, report missing records with ErrNotFound, and
// order results (id for List, instant then id for Search). The package does
// not persist anything itself; see pkg/store/memory and pkg/store/postgres.
//
// # Usage
//
// Mount the handlers on a mux using method-qualified patterns:
//
//	store := memory.New()
//	h := emporia.NewHandler(store)
//
//	mux.HandleFunc("GET /api/v1/emporia", h.HandleList)
//	mux.HandleFunc("POST /api/v1/emporia", h.HandleCreate)
//	mux.HandleFunc("POST /api/v1/emporia/search", h.HandleSearch)
//	mux.HandleFunc("GET /api/v1/emporia/health", h.HandleHealth)
//	mux.HandleFunc("GET /api/v1/emporia/{id}", h.HandleGet)
//	mux.HandleFunc("PUT /api/v1/emporia/{id}", h.HandleReplace)
//	mux.HandleFunc("PATCH /api/v1/emporia/{id}", h.HandlePatch)
//	mux.HandleFunc("DELETE /api/v1/emporia/{id}", h.HandleDelete)
//
// The literal health and search segments take precedence over the {id}
// wildcard, so all eight routes coexist on one mux.
//
// # Validation
//
// Create and replace require every writable field. String fields must be
// non-empty and within the persisted column widths (scale 10, channelNum 20,
// name 120, unit 20 characters). Numeric fields must be finite. Validation
// failures list every offending field in the error details keyed by field
// name, so clients can fix a request in one round trip.
//
// # Pagination
//
// List accepts optional page and limit query parameters. Pages are
// 1-indexed; limit defaults to 10 and is capped at 100. Without parameters
// the full collection is returned ordered by id.
//
// # Error Handling
//
// Handlers translate failures to the shared error envelope:
//   - Malformed JSON bodies: 400 INVALID_REQUEST
//   - Validation failures: 422 VALIDATION_ERROR with per-field details
//   - Unknown ids: 404 NOT_FOUND ("emporia with id N not found")
//   - Store failures: mapped by the store's structured error, typically
//     503 SERVICE_UNAVAILABLE when the database is unreachable
//
// # Integration
//
// The handlers are mounted by:
//   - pkg/api - route table for the emporia API server
//
// Persistence is provided by:
//   - pkg/store/memory - in-memory store for tests and development
//   - pkg/store/postgres - pgx-backed store for production
package emporia
