// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin and error envelopes stay consistent.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "shutterops/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the standard error envelope. Internal errors omit the
// description so store and infrastructure detail never leaks to callers.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError translates a domain error into the standard JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), errorBody{
		Error:            string(code),
		ErrorDescription: dErrors.Description(err),
	})
}

// DecodeJSON decodes the request body into T, returning a bad_request domain
// error on malformed input. Unknown fields are tolerated; the hosted backend
// routinely adds fields.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return v, nil
}

// DecodeJSONOptional is DecodeJSON for endpoints where an empty body is a
// valid request. Missing bodies yield the zero value of T.
func DecodeJSONOptional[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, nil
	}
	err := json.NewDecoder(r.Body).Decode(&v)
	if err == nil || errors.Is(err, io.EOF) {
		return v, nil
	}
	return v, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
}

// WriteJSONMerged writes base with extra's exported JSON fields folded into
// the same top-level object. Used for the success envelope, which carries the
// job report's counts alongside the success flag.
func WriteJSONMerged(w http.ResponseWriter, status int, base map[string]any, extra any) {
	merged := make(map[string]any, len(base)+8)
	for k, v := range base {
		merged[k] = v
	}
	if extra != nil {
		raw, err := json.Marshal(extra)
		if err == nil {
			var fields map[string]any
			if json.Unmarshal(raw, &fields) == nil {
				for k, v := range fields {
					merged[k] = v
				}
			}
		}
	}
	WriteJSON(w, status, merged)
}
