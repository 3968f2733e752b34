// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"context"

	"github.com/gogama/parley/params"
)

// An Option configures an Exchange at construction. New and the
// one-shot helpers apply options in the order given, after their own
// defaults, so a later option wins over an earlier one and over the
// defaults.
type Option func(*Exchange)

// WithMethod sets the HTTP method.
func WithMethod(method string) Option {
	return func(x *Exchange) {
		x.Method = method
	}
}

// WithMediaType sets the media type hint, which becomes the
// Content-Type of the prepared request.
func WithMediaType(mediaType string) Option {
	return func(x *Exchange) {
		x.MediaType = mediaType
	}
}

// WithCharset names the character encoding for text and JSON bodies.
// The default is UTF-8.
func WithCharset(charset string) Option {
	return func(x *Exchange) {
		x.Charset = charset
	}
}

// WithAccept sets the accept hint, which is added to the prepared
// request's Accept header values.
func WithAccept(accept string) Option {
	return func(x *Exchange) {
		x.Accept = accept
	}
}

// AsForm encodes pair content as an application/x-www-form-urlencoded
// body instead of a JSON object body. It also clears the media type
// hint, so that a JSON preset from New cannot override the form
// content type. To force a different content type on a form body,
// order a WithMediaType option after AsForm.
func AsForm() Option {
	return func(x *Exchange) {
		x.Form = true
		x.MediaType = ""
	}
}

// WithQuery appends one query parameter. Repeat the option to repeat
// the key.
func WithQuery(key, value string) Option {
	return func(x *Exchange) {
		x.AddQuery(key, value)
	}
}

// WithQueryPairs appends p's pairs, in their given order, as query
// parameters.
func WithQueryPairs(p params.Pairer) Option {
	return func(x *Exchange) {
		x.AddQueryPairs(p)
	}
}

// WithHeader sets a declarative header field, replacing any prior
// values for the key.
func WithHeader(key, value string) Option {
	return func(x *Exchange) {
		x.SetHeader(key, value)
	}
}

// WithBasicAuth sets the Authorization header to use HTTP Basic
// Authentication with the provided username and password.
func WithBasicAuth(username, password string) Option {
	return func(x *Exchange) {
		x.SetBasicAuth(username, password)
	}
}

// WithHandlers installs the handler group the exchange runs its
// events through.
func WithHandlers(g *HandlerGroup) Option {
	return func(x *Exchange) {
		x.Handlers = g
	}
}

// WithTransport sets the transport the exchange dispatches through,
// in place of the shared DefaultSession.
func WithTransport(tr Transport) Option {
	return func(x *Exchange) {
		x.Transport = tr
	}
}

// WithContext sets the context the exchange dispatches under. It
// panics if ctx is nil.
func WithContext(ctx context.Context) Option {
	return func(x *Exchange) {
		x.WithContext(ctx)
	}
}
