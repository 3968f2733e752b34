// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrMissingURL is returned by the one-shot helpers when no URL is
	// given. It is detected before any network activity happens.
	ErrMissingURL = errors.New("parley: no URL given")

	// ErrMissingContent is returned by Talk and TalkAsync when no
	// content is given. It is detected before any network activity
	// happens.
	ErrMissingContent = errors.New("parley: no content given")

	// ErrNoResponse is returned by CheckSuccess and the decoding
	// helpers when the exchange holds no response, either because it
	// was never sent or because the last send failed before a response
	// was received.
	ErrNoResponse = errors.New("parley: no response (send the exchange first)")
)

// A DispatchError is returned when the transport failed to produce a
// response: a connection problem, a timeout, a cancelled context, and
// so on. The transport's fault, unwrapped one level where the
// transport added wrapping of its own, is available via Err and
// errors.Unwrap.
type DispatchError struct {
	// URL is the URL the request was dispatched to.
	URL string
	// Err is the underlying transport fault. It is never nil.
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("parley: dispatch %s: %v", e.URL, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// newDispatchError wraps a transport fault, discarding one level of
// url.Error wrapping so the cause the transport saw is what callers
// unwrap.
func newDispatchError(target string, err error) *DispatchError {
	if u, ok := err.(*url.Error); ok && u.Err != nil {
		err = u.Err
	}
	return &DispatchError{URL: target, Err: err}
}

// A StatusError is returned by CheckSuccess, and by the decoding
// helpers which call it, when a response was received but its status
// code is outside the 2XX range.
type StatusError struct {
	// URL is the URL the request was dispatched to.
	URL string
	// StatusCode is the HTTP status code of the response, e.g. 404.
	StatusCode int
	// Reason is the reason phrase accompanying the status code, e.g.
	// "Not Found". It may be empty.
	Reason string
}

func (e *StatusError) Error() string {
	s := fmt.Sprintf("parley: %s returned %d", e.URL, e.StatusCode)
	if e.Reason != "" {
		s += " " + e.Reason
	}
	return s
}

// A DecodeError is returned by the decoding helpers when a successful
// response's body could not be decoded into the requested type. The
// parse error is available via Err and errors.Unwrap.
type DecodeError struct {
	// URL is the URL the request was dispatched to.
	URL string
	// Target describes the type the body was being decoded into.
	Target string
	// Err is the underlying parse error. It is never nil.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parley: cannot decode response from %s into %s: %v",
		e.URL, e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
