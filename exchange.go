// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gogama/parley/request"
)

const nilCtxMsg = "parley: nil context"

var emptyHandlers = HandlerGroup{}

// An Exchange is one HTTP request/response unit of work. It embeds a
// request.Builder, so the declarative request fields (Method, URL,
// Header, Content, MediaType, Accept, Charset, Form) and the query and
// header methods are all available directly on the Exchange. Sending
// prepares the request from those fields, dispatches it through a
// Transport, and retains the response for the typed inspection helpers
// (CheckSuccess, DecodeJSON, BodyText, BodyBytes).
//
// The zero value is a valid Exchange that issues a GET with an empty
// body. New returns an Exchange preset for JSON POSTs, the way the
// one-shot helpers configure theirs.
//
// After a successful send the Response field is set and Err is nil;
// after a failed send Err is set and Response is nil. There is no
// partial state in between. An Exchange is reusable: sending again
// re-frames the request and replaces the stored response and error.
//
// An Exchange is a single-owner object and is NOT safe for concurrent
// use. To issue requests concurrently, give each goroutine its own
// Exchange and let the Exchanges share one Session.
type Exchange struct {
	request.Builder

	// Transport dispatches the prepared request.
	//
	// If Transport is nil, the shared DefaultSession is used.
	Transport Transport
	// Handlers allows custom handler chains to be invoked when
	// designated events occur while the exchange sends a request.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Response is the response received by the most recent send, or
	// nil before the first send and after a failed send.
	Response *request.Response
	// Err is the error produced by the most recent send, or nil
	// before the first send and after a successful send. The same
	// error is returned by the Send or Wait call that produced it; the
	// field exists so event handlers can see it.
	Err error

	ctx  context.Context
	data context.Context
}

// New returns an Exchange on the given URL and content, configured the
// way the one-shot helpers configure theirs: method POST and media
// type application/json, so that sending structured content behaves as
// a JSON API call. A nil content sends an empty body. Options may
// override any of this. For an Exchange with no presets, construct the
// struct directly: the zero value issues a GET with no negotiation
// hints.
func New(url string, content interface{}, opts ...Option) *Exchange {
	x := &Exchange{}
	x.Method = "POST"
	x.URL = url
	x.Content = content
	x.MediaType = "application/json"
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Context returns the context the exchange dispatches under. For an
// exchange where no context has been set, it returns
// context.Background().
func (x *Exchange) Context() context.Context {
	if x.ctx != nil {
		return x.ctx
	}
	return context.Background()
}

// WithContext sets the context the exchange dispatches under, and
// returns the exchange. Unlike http.Request.WithContext, it mutates
// and returns the same exchange rather than a copy, because an
// Exchange is a single-owner object. It panics if ctx is nil.
func (x *Exchange) WithContext(ctx context.Context) *Exchange {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	x.ctx = ctx
	return x
}

// Send prepares the request, dispatches it through the transport, and
// stores the result on the exchange, blocking until the dispatch is
// done. It returns the exchange itself, for chaining into the
// inspection helpers, along with the error that was stored in Err.
//
// A preparation failure is returned as produced by request.Builder. A
// transport failure is returned as a *DispatchError. A response with a
// non-2XX status code is NOT an error; use CheckSuccess to turn it
// into one.
func (x *Exchange) Send() (*Exchange, error) {
	x.send()
	return x, x.Err
}

// SendAsync begins sending on a new goroutine and returns immediately
// with a Pending handle on the in-flight send. The exchange must be
// left alone until the send finishes, as observed via Pending.
func (x *Exchange) SendAsync() *Pending {
	p := &Pending{x: x, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		x.send()
	}()
	return p
}

func (x *Exchange) send() {
	x.Response = nil
	x.Err = nil
	handlers := x.handlers()
	handlers.run(BeforeSend, x)
	req, err := x.Prepare()
	if err != nil {
		x.Err = err
		handlers.run(AfterSend, x)
		return
	}
	handlers.run(BeforeDispatch, x)
	resp, err := x.transport().Dispatch(x.Context(), req)
	if err != nil {
		x.Err = newDispatchError(req.URL.String(), err)
		handlers.run(AfterSend, x)
		return
	}
	x.Response = resp
	handlers.run(AfterReceive, x)
	handlers.run(AfterSend, x)
}

// A Pending is a handle on an in-flight asynchronous send started by
// SendAsync, TalkAsync, or the package-level SendAsync helper.
type Pending struct {
	x    *Exchange
	done chan struct{}
}

// Done returns a channel that is closed when the send finishes, for
// use in select statements. After Done is closed, the exchange may be
// inspected freely.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the send finishes, then returns the exchange and
// error exactly as the equivalent blocking Send would have. Wait may
// be called any number of times, from any goroutine.
func (p *Pending) Wait() (*Exchange, error) {
	<-p.done
	return p.x, p.x.Err
}

// CheckSuccess returns nil if the exchange holds a response whose
// status code is in the 2XX range. It returns ErrNoResponse if the
// exchange holds no response, and a *StatusError carrying the URL,
// status code, and reason phrase otherwise.
func (x *Exchange) CheckSuccess() error {
	if x.Response == nil {
		return ErrNoResponse
	}
	if !x.Response.IsSuccess() {
		return &StatusError{
			URL:        x.target(),
			StatusCode: x.Response.StatusCode,
			Reason:     x.Response.Reason(),
		}
	}
	return nil
}

// DecodeJSON checks the exchange for success with CheckSuccess,
// propagating its error if any, and then decodes the response body as
// JSON into dst, which must be a non-nil pointer. A parse failure is
// returned as a *DecodeError naming the target type and wrapping the
// parse cause.
func (x *Exchange) DecodeJSON(dst interface{}) error {
	if err := x.CheckSuccess(); err != nil {
		return err
	}
	if err := json.Unmarshal(x.Response.Body, dst); err != nil {
		return &DecodeError{
			URL:    x.target(),
			Target: fmt.Sprintf("%T", dst),
			Err:    err,
		}
	}
	return nil
}

// DecodeJSON decodes the response held by x into a fresh value of type
// T. It is the generic counterpart of the Exchange.DecodeJSON method
// and fails under exactly the same conditions.
func DecodeJSON[T any](x *Exchange) (T, error) {
	var v T
	err := x.DecodeJSON(&v)
	return v, err
}

// BodyBytes returns the buffered response body, or nil if the exchange
// holds no response.
func (x *Exchange) BodyBytes() []byte {
	if x.Response == nil {
		return nil
	}
	return x.Response.Body
}

// BodyText returns the buffered response body as a string, or the
// empty string if the exchange holds no response.
func (x *Exchange) BodyText() string {
	return string(x.BodyBytes())
}

// SetValue allows event handlers to store arbitrary data on the
// exchange.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely:
//
// • it may not be nil;
//
// • it must be comparable; and
//
// • it should not be of type string or any other built-in type, to
// avoid collisions between different event handlers putting data into
// the same exchange.
func (x *Exchange) SetValue(key, value interface{}) {
	ctx := x.data
	if ctx == nil {
		ctx = context.Background()
	}

	x.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this exchange for key,
// or nil if there is no value associated with key.
func (x *Exchange) Value(key interface{}) interface{} {
	ctx := x.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}

func (x *Exchange) target() string {
	if r := x.Request(); r != nil && r.URL != nil {
		return r.URL.String()
	}
	return x.URL
}

func (x *Exchange) handlers() *HandlerGroup {
	if x.Handlers == nil {
		return &emptyHandlers
	}
	return x.Handlers
}

func (x *Exchange) transport() Transport {
	if x.Transport == nil {
		return DefaultSession()
	}
	return x.Transport
}
