// Package errors defines the structured error vocabulary shared by the
// HTTP layer and the storage backends. Every error carries an
// ErrorCode that maps one-to-one onto the codes clients see in API
// error envelopes, so a failure classified here surfaces unchanged on
// the wire.
//
// Typical use at a storage boundary:
//
//	return errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to query records",
//	    pingErr,
//	    map[string]any{"operation": "list", "table": "emporia"},
//	)
package errors
