package emporia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wattline/emporia/pkg/defaults"
	emperrors "github.com/wattline/emporia/pkg/errors"
	"github.com/wattline/emporia/pkg/serializer"
	"github.com/wattline/emporia/pkg/server"
)

// Pagination bounds for the list endpoint.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// HealthStatus is the payload of the resource health endpoint.
type HealthStatus struct {
	Status    string    `json:"status" yaml:"status"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at" yaml:"checked_at"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Handler serves the emporia resource endpoints backed by a Store.
type Handler struct {
	store Store

	// PingTimeout bounds the store ping performed by HandleHealth.
	PingTimeout time.Duration
}

// NewHandler creates a Handler over the given store.
func NewHandler(store Store) *Handler {
	return &Handler{
		store:       store,
		PingTimeout: defaults.DBPingTimeout,
	}
}

// HandleList serves GET on the collection. Without query parameters it
// returns every record; with page/limit it returns the requested window.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if !q.Has("page") && !q.Has("limit") {
		records, err := h.store.List(r.Context())
		if err != nil {
			slog.Error("failed to list records", "error", err)
			server.WriteErrorFromErr(w, r, err, "failed to list records", nil)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, records)
		return
	}

	page, limit, err := parsePageParams(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid pagination parameters", nil)
		return
	}

	records, err := h.store.ListPage(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list records", "error", err, "page", page, "limit", limit)
		server.WriteErrorFromErr(w, r, err, "failed to list records", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, records)
}

// HandleGet serves GET on a single record.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid record id", nil)
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, err, id, "failed to get record")
		return
	}
	serializer.RespondJSON(w, http.StatusOK, rec)
}

// HandleCreate serves POST on the collection. Any client-supplied id is
// ignored; the store assigns identifiers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in RecordInput
	if err := serializer.DecodeJSONRequest(r, &in); err != nil {
		writeMalformedBody(w, r, err)
		return
	}
	if err := in.ValidateFull(); err != nil {
		server.WriteErrorFromErr(w, r, err, "record validation failed", nil)
		return
	}

	created, err := h.store.Create(r.Context(), in.Record())
	if err != nil {
		slog.Error("failed to create record", "error", err)
		server.WriteErrorFromErr(w, r, err, "failed to create record", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, created)
}

// HandleReplace serves PUT on a single record. The target must exist;
// a full payload is required and every writable field is overwritten.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid record id", nil)
		return
	}

	var in RecordInput
	if err := serializer.DecodeJSONRequest(r, &in); err != nil {
		writeMalformedBody(w, r, err)
		return
	}
	if err := in.ValidateFull(); err != nil {
		server.WriteErrorFromErr(w, r, err, "record validation failed", nil)
		return
	}

	updated, err := h.store.Replace(r.Context(), id, in.Record())
	if err != nil {
		h.writeStoreError(w, r, err, id, "failed to replace record")
		return
	}
	serializer.RespondJSON(w, http.StatusOK, updated)
}

// HandlePatch serves PATCH on a single record. Only fields present in the
// payload are validated and overwritten.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid record id", nil)
		return
	}

	var in RecordInput
	if err := serializer.DecodeJSONRequest(r, &in); err != nil {
		writeMalformedBody(w, r, err)
		return
	}
	if err := in.ValidatePartial(); err != nil {
		server.WriteErrorFromErr(w, r, err, "record validation failed", nil)
		return
	}

	updated, err := h.store.Patch(r.Context(), id, in)
	if err != nil {
		h.writeStoreError(w, r, err, id, "failed to patch record")
		return
	}
	serializer.RespondJSON(w, http.StatusOK, updated)
}

// HandleDelete serves DELETE on a single record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid record id", nil)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, r, err, id, "failed to delete record")
		return
	}
	serializer.RespondJSON(w, http.StatusOK, map[string]string{
		"detail": fmt.Sprintf("emporia with id %d deleted successfully", id),
	})
}

// HandleSearch serves POST on the search endpoint. The body carries
// optional filters; an empty filter object matches everything, while a
// zero-length body is malformed.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var q SearchQuery
	if err := serializer.DecodeJSONRequest(r, &q); err != nil {
		writeMalformedBody(w, r, err)
		return
	}
	if err := q.Validate(); err != nil {
		server.WriteErrorFromErr(w, r, err, "search validation failed", nil)
		return
	}

	records, err := h.store.Search(r.Context(), q)
	if err != nil {
		slog.Error("failed to search records", "error", err)
		server.WriteErrorFromErr(w, r, err, "failed to search records", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, records)
}

// HandleHealth reports whether the backing store is reachable.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.PingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Error("store health check failed", "error", err)
		serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthStatus{
			Status:    statusUnhealthy,
			Reason:    err.Error(),
			CheckedAt: time.Now().UTC(),
		})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, HealthStatus{
		Status:    statusHealthy,
		CheckedAt: time.Now().UTC(),
	})
}

// writeStoreError maps store failures for single-record operations:
// the not-found sentinel becomes a 404 with the canonical message, anything
// else flows through the structured error writer.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, id int64, fallback string) {
	if errors.Is(err, ErrNotFound) {
		msg := fmt.Sprintf("emporia with id %d not found", id)
		server.WriteError(w, r, http.StatusNotFound, emperrors.ErrCodeNotFound, msg, false, nil)
		return
	}
	slog.Error(fallback, "error", err, "id", id)
	server.WriteErrorFromErr(w, r, err, fallback, nil)
}

func writeMalformedBody(w http.ResponseWriter, r *http.Request, err error) {
	server.WriteError(w, r, http.StatusBadRequest, emperrors.ErrCodeInvalidRequest,
		"malformed request body", false, map[string]any{"error": err.Error()})
}

func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, emperrors.NewWithContext(emperrors.ErrCodeValidation, "invalid record id",
			map[string]any{"id": "must be an integer"})
	}
	return id, nil
}

func parsePageParams(q url.Values) (page, limit int, err error) {
	page, limit = 1, DefaultPageLimit
	problems := map[string]any{}

	if raw := q.Get("page"); raw != "" {
		v, perr := strconv.Atoi(raw)
		if perr != nil || v < 1 {
			problems["page"] = "must be an integer >= 1"
		} else {
			page = v
		}
	}
	if raw := q.Get("limit"); raw != "" {
		v, perr := strconv.Atoi(raw)
		if perr != nil || v < 1 || v > MaxPageLimit {
			problems["limit"] = fmt.Sprintf("must be an integer between 1 and %d", MaxPageLimit)
		} else {
			limit = v
		}
	}

	if len(problems) > 0 {
		return 0, 0, emperrors.NewWithContext(emperrors.ErrCodeValidation, "invalid pagination parameters", problems)
	}
	return page, limit, nil
}
