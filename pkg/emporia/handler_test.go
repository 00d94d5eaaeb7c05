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

package emporia_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wattline/emporia/pkg/emporia"
	"github.com/wattline/emporia/pkg/server"
	"github.com/wattline/emporia/pkg/store/memory"
)

// newTestRouter mounts a Handler over a fresh in-memory store using the same
// route patterns the API server registers.
func newTestRouter(opts ...memory.Option) (*http.ServeMux, *memory.Store) {
	store := memory.New(opts...)
	h := emporia.NewHandler(store)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/emporia", h.HandleList)
	mux.HandleFunc("POST /api/v1/emporia", h.HandleCreate)
	mux.HandleFunc("POST /api/v1/emporia/search", h.HandleSearch)
	mux.HandleFunc("GET /api/v1/emporia/health", h.HandleHealth)
	mux.HandleFunc("GET /api/v1/emporia/{id}", h.HandleGet)
	mux.HandleFunc("PUT /api/v1/emporia/{id}", h.HandleReplace)
	mux.HandleFunc("PATCH /api/v1/emporia/{id}", h.HandlePatch)
	mux.HandleFunc("DELETE /api/v1/emporia/{id}", h.HandleDelete)

	return mux, store
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func recordPayload(name, instant string) string {
	return fmt.Sprintf(`{
		"instant": %q,
		"scale": "1D",
		"deviceGid": 138435,
		"channelNum": "1,2,3",
		"name": %q,
		"usage": 38.39137316071193,
		"unit": "KilowattHours",
		"percentage": 100.0
	}`, instant, name)
}

func createRecord(t *testing.T, h http.Handler, payload string) emporia.Record {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/emporia", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed: status=%d body=%s", rec.Code, rec.Body.String())
	}

	var created emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return created
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.ErrorResponse {
	t.Helper()

	var resp server.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v body=%s", err, rec.Body.String())
	}
	return resp
}

func TestHandleCreate(t *testing.T) {
	mux, _ := newTestRouter()

	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	if created.ID != 1 {
		t.Errorf("expected assigned id 1, got %d", created.ID)
	}
	if created.Name != "Electricity Monitor" {
		t.Errorf("expected name to round-trip, got %q", created.Name)
	}
	if created.Scale != "1D" || created.ChannelNum != "1,2,3" {
		t.Errorf("expected scale/channelNum to round-trip, got %q/%q", created.Scale, created.ChannelNum)
	}
	if created.DeviceGid != 138435 {
		t.Errorf("expected deviceGid 138435, got %d", created.DeviceGid)
	}
	if created.CreateDate.IsZero() || created.UpdateDate.IsZero() {
		t.Error("expected create_date and update_date to be set")
	}
}

func TestHandleCreate_MissingFieldRejected(t *testing.T) {
	mux, _ := newTestRouter()

	// No scale field
	payload := `{
		"instant": "2025-09-09T00:00:00Z",
		"deviceGid": 138435,
		"channelNum": "1,2,3",
		"name": "Electricity Monitor",
		"usage": 38.39,
		"unit": "KilowattHours",
		"percentage": 100.0
	}`

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia", payload)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec)
	if resp.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", resp.Code)
	}
	if _, ok := resp.Details["scale"]; !ok {
		t.Errorf("expected scale problem in details, got %#v", resp.Details)
	}
}

func TestHandleCreate_MalformedBodyRejected(t *testing.T) {
	mux, _ := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"scale": }`},
		{"empty body", ""},
		{"unknown field", `{
			"instant": "2025-09-09T00:00:00Z",
			"scale": "1D",
			"deviceGid": 138435,
			"channelNum": "1,2,3",
			"nmae": "Electricity Monitor",
			"usage": 38.39,
			"unit": "KilowattHours",
			"percentage": 100.0
		}`},
		{"wrong field type", `{"instant": "2025-09-09T00:00:00Z", "scale": "1D", "deviceGid": "not-a-number", "channelNum": "1", "name": "x", "usage": 1, "unit": "u", "percentage": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
			}

			resp := decodeError(t, rec)
			if resp.Code != "INVALID_REQUEST" {
				t.Errorf("expected INVALID_REQUEST, got %s", resp.Code)
			}
		})
	}
}

func TestHandleCreate_ClientSuppliedIDIgnored(t *testing.T) {
	mux, _ := newTestRouter()

	// Deployed clients echo records back with their id; the server
	// assigns its own regardless of the supplied value or type.
	for _, tt := range []struct {
		name string
		id   string
	}{
		{"numeric id", `999`},
		{"string id", `"999"`},
		{"null id", `null`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			payload := fmt.Sprintf(`{
				"id": %s,
				"instant": "2025-09-09T00:00:00Z",
				"scale": "1D",
				"deviceGid": 138435,
				"channelNum": "1,2,3",
				"name": "Electricity Monitor",
				"usage": 38.39,
				"unit": "KilowattHours",
				"percentage": 100.0
			}`, tt.id)

			created := createRecord(t, mux, payload)
			if created.ID == 999 {
				t.Errorf("client-supplied id should be ignored, got %d", created.ID)
			}
			if created.ID < 1 {
				t.Errorf("expected a server-assigned id, got %d", created.ID)
			}
		})
	}
}

func TestHandleGet(t *testing.T) {
	mux, _ := newTestRouter()
	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/emporia/%d", created.ID), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var got emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != created.ID || got.Name != created.Name {
		t.Errorf("expected created record back, got %+v", got)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	mux, _ := newTestRouter()

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia/999", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	resp := decodeError(t, rec)
	if resp.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", resp.Code)
	}
	if resp.Message != "emporia with id 999 not found" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Retryable {
		t.Error("expected retryable=false")
	}
}

func TestHandleGet_InvalidID(t *testing.T) {
	mux, _ := newTestRouter()

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia/not-a-number", "")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec)
	if resp.Details["id"] != "must be an integer" {
		t.Errorf("expected id problem in details, got %#v", resp.Details)
	}
}

func TestHandleList(t *testing.T) {
	mux, _ := newTestRouter()

	t.Run("empty store returns empty array", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("expected empty JSON array, got %s", body)
		}
	})

	for i := 1; i <= 3; i++ {
		createRecord(t, mux, recordPayload(fmt.Sprintf("Device %d", i), "2025-09-09T00:00:00Z"))
	}

	t.Run("returns all records ordered by id", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var records []emporia.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i, r := range records {
			if r.ID != int64(i+1) {
				t.Errorf("expected id %d at position %d, got %d", i+1, i, r.ID)
			}
		}
	})
}

func TestHandleList_Pagination(t *testing.T) {
	mux, _ := newTestRouter()
	for i := 1; i <= 5; i++ {
		createRecord(t, mux, recordPayload(fmt.Sprintf("Device %d", i), "2025-09-09T00:00:00Z"))
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{"first page", "?page=1&limit=2", []int64{1, 2}},
		{"middle page", "?page=2&limit=2", []int64{3, 4}},
		{"short last page", "?page=3&limit=2", []int64{5}},
		{"page past end", "?page=9&limit=2", []int64{}},
		{"limit only uses first page", "?limit=4", []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia"+tt.query, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
			}

			var records []emporia.Record
			if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("expected %d records, got %d", len(tt.wantIDs), len(records))
			}
			for i, want := range tt.wantIDs {
				if records[i].ID != want {
					t.Errorf("expected id %d at position %d, got %d", want, i, records[i].ID)
				}
			}
		})
	}
}

func TestHandleList_InvalidPagination(t *testing.T) {
	mux, _ := newTestRouter()

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"zero page", "?page=0", "page"},
		{"negative page", "?page=-1", "page"},
		{"non-numeric page", "?page=abc", "page"},
		{"zero limit", "?page=1&limit=0", "limit"},
		{"limit above cap", "?page=1&limit=101", "limit"},
		{"non-numeric limit", "?limit=ten", "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia"+tt.query, "")

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
			}

			resp := decodeError(t, rec)
			if _, ok := resp.Details[tt.field]; !ok {
				t.Errorf("expected %s problem in details, got %#v", tt.field, resp.Details)
			}
		})
	}
}

func TestHandleReplace(t *testing.T) {
	now := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	mux, _ := newTestRouter(memory.WithTimeSource(func() time.Time { return now }))

	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	now = now.Add(time.Hour)
	rec := doRequest(t, mux, http.MethodPut,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID),
		recordPayload("Water Heater", "2025-09-10T00:00:00Z"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var updated emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if updated.ID != created.ID {
		t.Errorf("expected id to be preserved, got %d", updated.ID)
	}
	if updated.Name != "Water Heater" {
		t.Errorf("expected name replaced, got %q", updated.Name)
	}
	if !updated.CreateDate.Equal(created.CreateDate) {
		t.Errorf("expected create_date preserved: %v vs %v", updated.CreateDate, created.CreateDate)
	}
	if !updated.UpdateDate.After(created.UpdateDate) {
		t.Errorf("expected update_date bumped: %v vs %v", updated.UpdateDate, created.UpdateDate)
	}
}

func TestHandleReplace_MissingRecord(t *testing.T) {
	mux, _ := newTestRouter()

	rec := doRequest(t, mux, http.MethodPut, "/api/v1/emporia/42",
		recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d body=%s", rec.Code, rec.Body.String())
	}

	// Replace must not create the record
	list := doRequest(t, mux, http.MethodGet, "/api/v1/emporia", "")
	if body := strings.TrimSpace(list.Body.String()); body != "[]" {
		t.Errorf("expected store to remain empty, got %s", body)
	}
}

func TestHandleReplace_BodyIDIgnored(t *testing.T) {
	mux, _ := newTestRouter()
	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	// The URL path names the target; an id in the body is discarded.
	payload := `{
		"id": 777,
		"instant": "2025-09-10T00:00:00Z",
		"scale": "1D",
		"deviceGid": 138435,
		"channelNum": "1,2,3",
		"name": "Water Heater",
		"usage": 38.39,
		"unit": "KilowattHours",
		"percentage": 100.0
	}`
	rec := doRequest(t, mux, http.MethodPut,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID), payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var updated emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected path id %d to win over body id, got %d", created.ID, updated.ID)
	}

	// No record 777 came into being
	missing := doRequest(t, mux, http.MethodGet, "/api/v1/emporia/777", "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected 404 for body-supplied id, got %d", missing.Code)
	}
}

func TestHandleReplace_PartialPayloadRejected(t *testing.T) {
	mux, _ := newTestRouter()
	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	rec := doRequest(t, mux, http.MethodPut,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID), `{"name": "Water Heater"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec)
	if _, ok := resp.Details["scale"]; !ok {
		t.Errorf("expected missing fields reported, got %#v", resp.Details)
	}
}

func TestHandlePatch(t *testing.T) {
	now := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	mux, _ := newTestRouter(memory.WithTimeSource(func() time.Time { return now }))

	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	now = now.Add(time.Minute)
	rec := doRequest(t, mux, http.MethodPatch,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID), `{"name": "Water Heater", "usage": 12.5}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var updated emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if updated.Name != "Water Heater" {
		t.Errorf("expected name patched, got %q", updated.Name)
	}
	if updated.Usage != 12.5 {
		t.Errorf("expected usage patched, got %v", updated.Usage)
	}
	if updated.Scale != created.Scale || updated.Unit != created.Unit {
		t.Error("expected unspecified fields preserved")
	}
	if !updated.UpdateDate.After(created.UpdateDate) {
		t.Error("expected update_date bumped")
	}
}

func TestHandlePatch_EmptyBodyStillBumps(t *testing.T) {
	now := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	mux, _ := newTestRouter(memory.WithTimeSource(func() time.Time { return now }))

	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	now = now.Add(time.Minute)
	rec := doRequest(t, mux, http.MethodPatch,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID), `{}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var updated emporia.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Name != created.Name {
		t.Error("expected record otherwise unchanged")
	}
	if !updated.UpdateDate.After(created.UpdateDate) {
		t.Error("expected update_date bumped for empty patch")
	}
}

func TestHandlePatch_InvalidValueRejected(t *testing.T) {
	mux, _ := newTestRouter()
	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	rec := doRequest(t, mux, http.MethodPatch,
		fmt.Sprintf("/api/v1/emporia/%d", created.ID), `{"name": ""}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec)
	if _, ok := resp.Details["name"]; !ok {
		t.Errorf("expected name problem in details, got %#v", resp.Details)
	}
}

func TestHandlePatch_MissingRecord(t *testing.T) {
	mux, _ := newTestRouter()

	rec := doRequest(t, mux, http.MethodPatch, "/api/v1/emporia/42", `{"name": "x"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleDelete(t *testing.T) {
	mux, _ := newTestRouter()
	created := createRecord(t, mux, recordPayload("Electricity Monitor", "2025-09-09T00:00:00Z"))

	rec := doRequest(t, mux, http.MethodDelete, fmt.Sprintf("/api/v1/emporia/%d", created.ID), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := fmt.Sprintf("emporia with id %d deleted successfully", created.ID)
	if resp["detail"] != want {
		t.Errorf("expected detail %q, got %q", want, resp["detail"])
	}

	// Record is gone
	get := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/emporia/%d", created.ID), "")
	if get.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", get.Code)
	}

	// Double delete reports not found
	again := doRequest(t, mux, http.MethodDelete, fmt.Sprintf("/api/v1/emporia/%d", created.ID), "")
	if again.Code != http.StatusNotFound {
		t.Errorf("expected 404 on double delete, got %d", again.Code)
	}
}

func TestHandleSearch(t *testing.T) {
	mux, _ := newTestRouter()
	createRecord(t, mux, recordPayload("Electricity Monitor", "2025-03-01T00:00:00Z"))
	createRecord(t, mux, recordPayload("Water Heater", "2025-02-01T00:00:00Z"))
	createRecord(t, mux, recordPayload("Electricity Monitor", "2025-01-01T00:00:00Z"))

	t.Run("empty filter matches all ordered by instant", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", `{}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
		}

		var records []emporia.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i].Instant.Before(records[i-1].Instant) {
				t.Errorf("expected records ordered by instant, got %v before %v",
					records[i-1].Instant, records[i].Instant)
			}
		}
	})

	t.Run("name filter", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", `{"name": "Water Heater"}`)

		var records []emporia.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(records) != 1 || records[0].Name != "Water Heater" {
			t.Fatalf("expected single Water Heater record, got %+v", records)
		}
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search",
			`{"start_date": "2025-02-01T00:00:00Z", "end_date": "2025-02-15T00:00:00Z"}`)

		var records []emporia.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(records) != 1 || records[0].Name != "Water Heater" {
			t.Fatalf("expected the February record, got %+v", records)
		}
	})

	t.Run("zero-length body is malformed", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
		}
		if resp := decodeError(t, rec); resp.Code != "INVALID_REQUEST" {
			t.Errorf("expected INVALID_REQUEST, got %s", resp.Code)
		}
	})

	t.Run("no matches returns empty array", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", `{"scale": "1MON"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("expected empty JSON array, got %s", body)
		}
	})

	t.Run("inverted date range rejected", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search",
			`{"start_date": "2025-03-01T00:00:00Z", "end_date": "2025-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d body=%s", rec.Code, rec.Body.String())
		}

		resp := decodeError(t, rec)
		if _, ok := resp.Details["end_date"]; !ok {
			t.Errorf("expected end_date problem in details, got %#v", resp.Details)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", `{"name": }`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown filter field rejected", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/emporia/search", `{"usage": 38.39}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
		}
	})
}

type failingPingStore struct {
	emporia.Store
}

func (failingPingStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		mux, _ := newTestRouter()

		rec := doRequest(t, mux, http.MethodGet, "/api/v1/emporia/health", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var status emporia.HealthStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.Status != "healthy" {
			t.Errorf("expected healthy, got %q", status.Status)
		}
		if status.CheckedAt.IsZero() {
			t.Error("expected checked_at to be set")
		}
	})

	t.Run("unreachable store", func(t *testing.T) {
		h := emporia.NewHandler(failingPingStore{memory.New()})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/emporia/health", nil)
		rec := httptest.NewRecorder()
		h.HandleHealth(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}

		var status emporia.HealthStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.Status != "unhealthy" {
			t.Errorf("expected unhealthy, got %q", status.Status)
		}
		if status.Reason == "" {
			t.Error("expected failure reason to be reported")
		}
	})
}
