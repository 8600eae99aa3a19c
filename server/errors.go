// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/tscatalog/audit"
	"codeberg.org/pixivfe/tscatalog/i18n"
)

var errRateLimited = errors.New("too many requests")

// statusError carries the HTTP status a handler error should be answered with.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }

func (e *statusError) Unwrap() error { return e.err }

func withStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

type errorResponse struct {
	Error string `json:"error"`
}

// catchError wraps handlers that return an error.
//
// The handler's output is buffered. When it returns an error, the buffered
// response is discarded and a JSON error is written instead, with the status
// of a wrapped statusError or 500. Every request is recorded as an
// audit.RequestSpan.
func catchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span := audit.RequestSpan{
			RequestID: requestID(r),
			Method:    r.Method,
			URL:       r.URL.String(),
			Locale:    i18n.LocaleFrom(r.Context()).ID(),
		}

		w.Header().Set(RequestIDHeader, span.RequestID)

		_ = span.Begin(r.Context())
		defer func() {
			span.End()
			span.Log()
		}()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		// End before writing so the Server-Timing header carries the duration.
		span.End()

		if err != nil {
			status := http.StatusInternalServerError

			var se *statusError
			if errors.As(err, &se) {
				status = se.status
			}

			span.StatusCode = status
			span.Error = err

			writeError(w, status, err)

			return
		}

		if recorder.Code == 0 {
			recorder.Code = http.StatusOK
		}

		span.StatusCode = recorder.Code
		span.Size = int64(recorder.Body.Len())

		maps.Copy(w.Header(), recorder.Header())
		w.WriteHeader(recorder.Code)

		if _, err := recorder.Body.WriteTo(w); err != nil {
			log.Err(err).Msg("Failed to write response body")
		}
	}
}

// writeError answers with status and a JSON body holding err's message.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode JSON response")
	}
}
