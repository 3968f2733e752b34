// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Response is the fully buffered result of dispatching a Request. The
// transport drains and closes the wire-level body before constructing
// the Response, so a Response holds no open resources and may be
// retained indefinitely.
//
// A Response is written once by the transport and thereafter read-only
// by convention.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int

	// Status is the full status line text, e.g. "200 OK".
	Status string

	// Header contains the response header fields.
	Header http.Header

	// Body is the fully buffered response body. It is empty, not nil,
	// when the server sent no body.
	Body []byte

	// Duration is the elapsed wall clock time from handing the
	// request to the transport until the response body was fully
	// read.
	Duration time.Duration
}

// IsSuccess reports whether the status code is in the 2XX range.
func (r *Response) IsSuccess() bool {
	return 200 <= r.StatusCode && r.StatusCode < 300
}

// IsClientError reports whether the status code is in the 4XX range.
func (r *Response) IsClientError() bool {
	return 400 <= r.StatusCode && r.StatusCode < 500
}

// IsServerError reports whether the status code is in the 5XX range.
func (r *Response) IsServerError() bool {
	return 500 <= r.StatusCode && r.StatusCode < 600
}

// Reason returns the reason phrase from the status line, e.g. "OK"
// for "200 OK". If the status line carries no reason phrase, Reason
// falls back to the standard text for the status code.
func (r *Response) Reason() string {
	reason := strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode))
	reason = strings.TrimPrefix(reason, " ")
	if reason != "" {
		return reason
	}
	return http.StatusText(r.StatusCode)
}

// ContentType returns the value of the Content-Type header, or the
// empty string if the response has none.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// IsJSON reports whether the Content-Type header declares a JSON
// payload. Structured syntax suffixes such as application/problem+json
// count as JSON.
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType()), "json")
}

// BodyString returns the response body as a string.
func (r *Response) BodyString() string {
	return string(r.Body)
}

// JSON parses the response body as JSON for ad hoc field access, e.g.
// resp.JSON().Get("items.0.name"). The result is valid even if the
// body is not well-formed JSON; check Result.Exists on lookups when
// the payload is untrusted. To decode the whole body into a Go value,
// use the decoding helpers in the parent package instead.
func (r *Response) JSON() gjson.Result {
	return gjson.ParseBytes(r.Body)
}
