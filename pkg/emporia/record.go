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

package emporia

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	emperrors "github.com/wattline/emporia/pkg/errors"
)

// Field length limits from the persisted schema (VARCHAR widths).
const (
	MaxScaleLen      = 10
	MaxChannelNumLen = 20
	MaxNameLen       = 120
	MaxUnitLen       = 20
)

// Record is a single per-device energy usage reading.
//
// The JSON field names are the service's wire contract. The mixed
// camelCase/snake_case mirrors what deployed clients already send and store.
type Record struct {
	ID         int64     `json:"id"`
	Instant    time.Time `json:"instant"`
	Scale      string    `json:"scale"`
	DeviceGid  int64     `json:"deviceGid"`
	ChannelNum string    `json:"channelNum"`
	Name       string    `json:"name"`
	Usage      float64   `json:"usage"`
	Unit       string    `json:"unit"`
	Percentage float64   `json:"percentage"`
	CreateDate time.Time `json:"create_date"`
	UpdateDate time.Time `json:"update_date"`
}

// RecordInput is the client-writable field set for create and update
// requests. Pointer fields track presence so a partial update can tell an
// omitted field from a zero value.
//
// A payload may carry an "id" key; deployed clients echo records back
// verbatim. It is accepted and discarded, identifiers come from the
// store on create and from the URL path on update.
type RecordInput struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Instant    *time.Time      `json:"instant"`
	Scale      *string         `json:"scale"`
	DeviceGid  *int64          `json:"deviceGid"`
	ChannelNum *string         `json:"channelNum"`
	Name       *string         `json:"name"`
	Usage      *float64        `json:"usage"`
	Unit       *string         `json:"unit"`
	Percentage *float64        `json:"percentage"`
}

// ValidateFull checks that every writable field is present and within range.
// Create and full-replace requests use it.
func (in *RecordInput) ValidateFull() error {
	return in.validate(true)
}

// ValidatePartial checks only the fields present in the input.
// Patch requests use it; absent fields are preserved by the store.
func (in *RecordInput) ValidatePartial() error {
	return in.validate(false)
}

func (in *RecordInput) validate(requireAll bool) error {
	problems := map[string]any{}

	if in.Instant == nil && requireAll {
		problems["instant"] = "required"
	}
	checkString(problems, "scale", in.Scale, MaxScaleLen, requireAll)
	if in.DeviceGid == nil && requireAll {
		problems["deviceGid"] = "required"
	}
	checkString(problems, "channelNum", in.ChannelNum, MaxChannelNumLen, requireAll)
	checkString(problems, "name", in.Name, MaxNameLen, requireAll)
	checkFloat(problems, "usage", in.Usage, requireAll)
	checkString(problems, "unit", in.Unit, MaxUnitLen, requireAll)
	checkFloat(problems, "percentage", in.Percentage, requireAll)

	if len(problems) == 0 {
		return nil
	}
	return emperrors.NewWithContext(emperrors.ErrCodeValidation, "record validation failed", problems)
}

func checkString(problems map[string]any, field string, v *string, maxLen int, required bool) {
	if v == nil {
		if required {
			problems[field] = "required"
		}
		return
	}
	switch {
	case *v == "":
		problems[field] = "must not be empty"
	case utf8.RuneCountInString(*v) > maxLen:
		problems[field] = fmt.Sprintf("must be at most %d characters", maxLen)
	}
}

func checkFloat(problems map[string]any, field string, v *float64, required bool) {
	if v == nil {
		if required {
			problems[field] = "required"
		}
		return
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		problems[field] = "must be a finite number"
	}
}

// Record materializes the input into a Record. Every field must be present;
// callers validate with ValidateFull first. The identifier and timestamps
// are assigned by the store.
func (in *RecordInput) Record() Record {
	return Record{
		Instant:    *in.Instant,
		Scale:      *in.Scale,
		DeviceGid:  *in.DeviceGid,
		ChannelNum: *in.ChannelNum,
		Name:       *in.Name,
		Usage:      *in.Usage,
		Unit:       *in.Unit,
		Percentage: *in.Percentage,
	}
}

// ApplyTo overwrites the record's fields with those present in the input.
// Absent fields are left untouched. The identifier and timestamps are not
// client-writable and are never modified here.
func (in *RecordInput) ApplyTo(rec *Record) {
	if in.Instant != nil {
		rec.Instant = *in.Instant
	}
	if in.Scale != nil {
		rec.Scale = *in.Scale
	}
	if in.DeviceGid != nil {
		rec.DeviceGid = *in.DeviceGid
	}
	if in.ChannelNum != nil {
		rec.ChannelNum = *in.ChannelNum
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Usage != nil {
		rec.Usage = *in.Usage
	}
	if in.Unit != nil {
		rec.Unit = *in.Unit
	}
	if in.Percentage != nil {
		rec.Percentage = *in.Percentage
	}
}

// SearchQuery is the filter set accepted by the search endpoint. All fields
// are optional; present filters are AND-combined. StartDate and EndDate
// bound Instant inclusively.
type SearchQuery struct {
	Scale      *string    `json:"scale,omitempty"`
	DeviceGid  *int64     `json:"deviceGid,omitempty"`
	ChannelNum *string    `json:"channelNum,omitempty"`
	Name       *string    `json:"name,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// Validate rejects impossible filter combinations.
func (q *SearchQuery) Validate() error {
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return emperrors.NewWithContext(emperrors.ErrCodeValidation, "search validation failed",
			map[string]any{"end_date": "must not be before start_date"})
	}
	return nil
}

// Matches reports whether the record satisfies every present filter.
// The in-memory store evaluates searches with it; the PostgreSQL store
// compiles the same semantics to SQL.
func (q *SearchQuery) Matches(rec Record) bool {
	if q.Scale != nil && rec.Scale != *q.Scale {
		return false
	}
	if q.DeviceGid != nil && rec.DeviceGid != *q.DeviceGid {
		return false
	}
	if q.ChannelNum != nil && rec.ChannelNum != *q.ChannelNum {
		return false
	}
	if q.Name != nil && rec.Name != *q.Name {
		return false
	}
	if q.Unit != nil && rec.Unit != *q.Unit {
		return false
	}
	if q.StartDate != nil && rec.Instant.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && rec.Instant.After(*q.EndDate) {
		return false
	}
	return true
}
