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

// Package serializer provides encoding of service data in multiple formats.
//
// # Overview
//
// The serializer package handles conversion between data structures (usage
// records, service info, health reports) and various output formats including
// JSON, YAML, and human-readable tables. The same Writer backs both the CLI
// output flags and file export, while the HTTP helpers back the API handlers.
//
// # Supported Formats
//
//   - JSON: machine-readable structured data with indentation (default)
//   - YAML: human-readable configuration-style output
//   - Table: flattened FIELD/VALUE rows for terminal consumption
//
// # Writer Usage
//
// Create a Writer with an explicit destination:
//
//	w := serializer.NewWriter(serializer.FormatYAML, os.Stdout)
//	if err := w.Serialize(ctx, records); err != nil {
//		log.Fatal(err)
//	}
//
// Or let the path decide both destination and format:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatFromPath(path), path)
//	defer w.Close() // Important: close to release file handles
//	if err := w.Serialize(ctx, report); err != nil {
//		log.Fatal(err)
//	}
//
// An empty or unwritable path falls back to stdout, and an unknown format
// falls back to JSON, so CLI commands always produce output.
//
// # Table Output
//
// Table format flattens nested structures into dotted keys, one row per
// leaf value:
//
//	FIELD        VALUE
//	-----        -----
//	[0].Name     kitchen fridge
//	[0].Usage    1.84
//	[1].Name     garage heater
//
// Values that render themselves (time.Time and other fmt.Stringer
// implementations) are treated as leaves. Snake_case map keys, as found in
// decoded API payloads, are title-cased for display.
//
// # HTTP Helpers
//
// API handlers respond through RespondJSON, which buffers the encoded body
// before writing headers so that encoding failures surface as a clean 500
// instead of a truncated response:
//
//	serializer.RespondJSON(w, http.StatusOK, record)
//
// Request bodies are read through DecodeJSONRequest, which enforces a size
// cap, rejects unknown object keys, and rejects trailing documents:
//
//	var in emporia.RecordInput
//	if err := serializer.DecodeJSONRequest(r, &in); err != nil {
//		// respond with a validation error
//	}
//
// # Integration
//
// This package is used by:
//   - pkg/cli: rendering command output per the --format and --output flags
//   - pkg/emporia: encoding API responses and decoding request bodies
//   - pkg/api: serving the service info endpoint
package serializer
