// Package docs serves the API documentation surface: the embedded OpenAPI
// document in both encodings, an interactive viewer, and the static
// manual-test page.
package docs

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

//go:embed docs.html
var viewerHTML []byte

//go:embed emporia.html
var testPageHTML []byte

// Handler serves the documentation routes. Construct it with New.
type Handler struct {
	yamlDoc []byte
	jsonDoc []byte
}

// New parses and validates the embedded OpenAPI document and pre-renders
// its JSON encoding, so a malformed document fails startup instead of the
// first request.
func New(ctx context.Context) (*Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIYAML)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	jsonDoc, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("render openapi json: %w", err)
	}

	return &Handler{yamlDoc: openAPIYAML, jsonDoc: jsonDoc}, nil
}

// YAML returns the OpenAPI document as authored.
func (h *Handler) YAML() []byte {
	return h.yamlDoc
}

// JSON returns the pre-rendered JSON encoding of the OpenAPI document.
func (h *Handler) JSON() []byte {
	return h.jsonDoc
}

// HandleViewer serves the interactive documentation page.
func (h *Handler) HandleViewer(w http.ResponseWriter, r *http.Request) {
	serve(w, "text/html; charset=utf-8", viewerHTML)
}

// HandleOpenAPIYAML serves the OpenAPI document as authored.
func (h *Handler) HandleOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	serve(w, "application/yaml", h.yamlDoc)
}

// HandleOpenAPIJSON serves the JSON rendering of the OpenAPI document.
func (h *Handler) HandleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	serve(w, "application/json", h.jsonDoc)
}

// HandleTestPage serves the static manual-test page.
func (h *Handler) HandleTestPage(w http.ResponseWriter, r *http.Request) {
	serve(w, "text/html; charset=utf-8", testPageHTML)
}

func serve(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}
