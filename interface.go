// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"context"

	"github.com/gogama/parley/request"
)

// Transport is the interface that wraps the basic Dispatch method.
//
// Dispatch sends a prepared request and returns the buffered response,
// or an error if no response could be obtained. Session implements the
// Transport interface, and any other Transport implementation must
// behave substantially the same as Session.Dispatch: it owns all
// socket-level concerns (connection reuse, TLS, proxies, redirects),
// it honors the given context for cancellation and deadlines, it fully
// buffers the response body before returning, and it must be safe for
// concurrent use by multiple goroutines.
//
// A non-2XX status code is a response like any other, not an error.
type Transport interface {
	Dispatch(ctx context.Context, req *request.Request) (*request.Response, error)
}

// The TransportFunc type is an adapter to allow the use of ordinary
// functions as transports. If f is a function with appropriate
// signature, then TransportFunc(f) is a Transport that calls f.
type TransportFunc func(ctx context.Context, req *request.Request) (*request.Response, error)

// Dispatch calls f(ctx, req).
func (f TransportFunc) Dispatch(ctx context.Context, req *request.Request) (*request.Response, error) {
	return f(ctx, req)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were opened by previous requests but
// are now sitting idle in a "keep-alive" state. It does not interrupt
// any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}
