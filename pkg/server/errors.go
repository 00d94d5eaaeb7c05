package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	emperrors "github.com/wattline/emporia/pkg/errors"
	"github.com/wattline/emporia/pkg/serializer"
)

// ErrorResponse is the JSON error envelope returned by every API endpoint.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// HTTPStatusFromCode maps a structured error code to its HTTP status.
// Unknown codes map to 500 so new codes fail safe.
func HTTPStatusFromCode(code emperrors.ErrorCode) int {
	switch code {
	case emperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case emperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case emperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case emperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case emperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case emperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case emperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case emperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case emperrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may reasonably retry the request
// that produced the given error code.
func retryableFromCode(code emperrors.ErrorCode) bool {
	switch code {
	case emperrors.ErrCodeTimeout,
		emperrors.ErrCodeUnavailable,
		emperrors.ErrCodeRateLimitExceeded,
		emperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails combines two detail maps, with values from b taking precedence.
// Returns nil when both inputs are empty so the details field is omitted from
// the serialized response.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes a structured JSON error response. The request ID is taken
// from the request context when the middleware chain populated it, otherwise
// a fresh one is generated so every error remains traceable.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code emperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := requestIDFrom(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr translates err into an HTTP error response. Structured
// errors carry their own code, message, and context; anything else is treated
// as an internal error using fallbackMsg. Extra details are merged into the
// response, and the underlying cause (when present) is surfaced under the
// "error" detail key.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMsg string, details map[string]any) {

	var serr *emperrors.StructuredError
	if errors.As(err, &serr) {
		merged := mergeDetails(serr.Context, details)
		if serr.Cause != nil {
			if merged == nil {
				merged = make(map[string]any, 1)
			}
			merged["error"] = serr.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(serr.Code), serr.Code, serr.Message,
			retryableFromCode(serr.Code), merged)
		return
	}

	merged := details
	if err != nil {
		merged = mergeDetails(details, map[string]any{"error": err.Error()})
	}
	WriteError(w, r, http.StatusInternalServerError, emperrors.ErrCodeInternal,
		fallbackMsg, true, merged)
}
