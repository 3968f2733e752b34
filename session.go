// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gogama/parley/request"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Session is the shared transport behind every Exchange. Its zero
// value is a valid configuration.
//
// The zero value session uses http.DefaultClient (from net/http) as
// the HTTPDoer, no ambient headers, no rate limit, and no
// session-imposed timeout.
//
// Session's HTTPDoer typically has internal state (cached TCP
// connections) so Session instances should be reused instead of
// created as needed. Session is safe for concurrent use by multiple
// goroutines; its fields must not be changed while dispatches are in
// flight.
//
// A Session is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and
// receiving the response, while Session builds on top of the
// HTTPDoer's feature set. For example, the HTTPDoer is responsible for
// redirects, so consult the HTTPDoer's documentation to understand how
// redirects are handled. Typically the Go standard HTTP client
// (http.Client) will be used as the HTTPDoer, but this is not
// required.
//
// On top of the HTTP request features provided by the HTTPDoer,
// Session adds the following features:
//
// • Session reads and buffers the entire HTTP response body into the
// Body field of the request.Response it returns;
//
// • Session applies ambient headers, a User-Agent, and an optional
// generated request ID to every outgoing request that does not already
// carry them;
//
// • Session can rate limit dispatches and impose a per-dispatch
// timeout; and
//
// • Session implements the parley.Transport interface consumed by
// Exchange.
type Session struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard
	// net/http package is used.
	HTTPDoer HTTPDoer
	// Header contains ambient header fields applied to every
	// dispatched request that does not already define the key, for
	// example a shared Authorization or tracing header.
	Header http.Header
	// UserAgent is sent as the User-Agent header on every dispatched
	// request that does not set its own.
	UserAgent string
	// RequestIDHeader names the header the session stamps with a
	// generated request ID on every dispatched request that does not
	// already carry it. If empty, request ID stamping is disabled.
	RequestIDHeader string
	// NewRequestID generates request IDs. If nil, random UUIDs are
	// generated.
	NewRequestID func() string
	// Limiter throttles dispatches. When set, every dispatch waits for
	// permission from the limiter before the request is sent; the wait
	// is abandoned, and the dispatch fails, if the context is
	// cancelled first.
	//
	// If Limiter is nil, dispatches are not throttled.
	Limiter *rate.Limiter
	// Timeout limits the time for one whole dispatch, from sending the
	// request until the response body is fully read.
	//
	// A Timeout of zero means no session-imposed timeout. A deadline
	// already present on the dispatch context applies either way, and
	// the earlier deadline wins.
	Timeout time.Duration
}

var defaultSession = &Session{}

// DefaultSession returns the process-wide Session used by every
// Exchange that does not specify its own Transport. It is created once
// at process start and shared, so its connection cache is shared too.
func DefaultSession() *Session {
	return defaultSession
}

// Dispatch sends a prepared request and returns the buffered response.
// It implements the Transport interface.
//
// An error is returned if the limiter wait was cut short by the
// context, if the HTTPDoer failed to produce a response (a network
// connectivity problem, a timeout, policy on the HTTPDoer such as a
// redirect loop), or if reading the response body failed. Any returned
// error is of type *url.Error. A non-2XX status code does not result
// in an error.
//
// The ambient headers, User-Agent, and request ID are written into
// req's own header map before sending, so after dispatch the caller
// can inspect exactly what was sent, including any generated request
// ID. Keys the request already defines are never overwritten.
//
// A nil ctx is treated as context.Background().
func (s *Session) Dispatch(ctx context.Context, req *request.Request) (*request.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, urlErrorWrap(req, err)
		}
	}
	hr := req.ToHTTP(ctx)
	s.stampHeaders(hr.Header)
	start := time.Now()
	hresp, err := s.doer().Do(hr)
	if err != nil {
		return nil, urlErrorWrap(req, err)
	}
	body, err := readBody(hresp)
	if err != nil {
		return nil, urlErrorWrap(req, err)
	}
	return &request.Response{
		StatusCode: hresp.StatusCode,
		Status:     hresp.Status,
		Header:     hresp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}, nil
}

// stampHeaders merges the session's ambient headers into h, filling
// only keys h does not already define.
func (s *Session) stampHeaders(h http.Header) {
	for k, vs := range s.Header {
		ck := http.CanonicalHeaderKey(k)
		if _, present := h[ck]; !present {
			h[ck] = append([]string(nil), vs...)
		}
	}
	if s.UserAgent != "" && h.Get("User-Agent") == "" {
		h.Set("User-Agent", s.UserAgent)
	}
	if s.RequestIDHeader != "" && h.Get(s.RequestIDHeader) == "" {
		h.Set(s.RequestIDHeader, s.newRequestID())
	}
}

func (s *Session) newRequestID() string {
	if s.NewRequestID == nil {
		return uuid.NewString()
	}
	return s.NewRequestID()
}

func readBody(hresp *http.Response) ([]byte, error) {
	defer func() {
		_ = hresp.Body.Close()
	}()
	return io.ReadAll(hresp.Body)
}

// CloseIdleConnections invokes the same method on the session's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
//
// If the HTTPDoer does have a CloseIdleConnections method, then the
// effect of this method depends entirely on its implementation in the
// HTTPDoer. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a
// CloseIdleConnections method (otherwise it does nothing).
func (s *Session) CloseIdleConnections() {
	doer := s.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (s *Session) doer() HTTPDoer {
	if s.HTTPDoer == nil {
		return http.DefaultClient
	}

	return s.HTTPDoer
}

func urlErrorWrap(req *request.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(req.Method),
		URL: req.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
