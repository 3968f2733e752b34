// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Builder (accumulates the
ingredients of an HTTP request and prepares it), Request (a prepared,
transport-ready request), and Response (the buffered result of
dispatching one).

The first core type is Builder, which turns declarative request state
into a prepared request.

A Builder collects method, URL, headers, content, negotiation hints,
and query parameters as plain assignable fields and chainable add
methods, and derives the final request from them immediately before
dispatch. Preparation runs in two stages so each can be bypassed
independently: PrepareContent encodes the polymorphic Content field
into the request body exactly once, and PrepareQueryAndHeaders frames
the request (URL, query string, headers) on every dispatch. Prepare
runs both:

	b := &request.Builder{URL: "https://example.com/things", Content: thing}
	b.AddQuery("verbose", "1")
	req, err := b.Prepare()
	...

The second core type is Request, which represents a prepared request.
For those familiar with the Go standard HTTP library, net/http, a
Request looks like a stripped-down http.Request structure with all
server-side and stream-oriented fields removed, because Request
requires a pre-buffered request body. Request fields are named and
typed consistently with http.Request wherever possible, and ToHTTP
converts a Request into a genuine http.Request for transports built on
the standard library.

The third core type is Response, which holds the complete buffered
result of a dispatch: status, headers, body, and timing. A Response
holds no open resources, so it may be inspected at leisure long after
the connection is gone.

Most programs do not use this package directly: the parent parley
package embeds a Builder in every Exchange and runs preparation as part
of sending. Reach for this package to prepare requests for a custom
transport, or to take manual control of a body or URL the preparation
pipeline would otherwise derive.
*/
package request
