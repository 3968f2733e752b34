// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"encoding/json"
	"net/url"

	"github.com/gogama/parley/params"
)

// Send builds a transient Exchange with New around the URL and content
// and sends it synchronously, returning the Exchange for inspection.
func Send(url string, content interface{}, opts ...Option) (*Exchange, error) {
	return New(url, content, opts...).Send()
}

// SendAsync is the counterpart of Send that begins the send on a new
// goroutine and returns a Pending handle on it immediately.
func SendAsync(url string, content interface{}, opts ...Option) *Pending {
	return New(url, content, opts...).SendAsync()
}

// A Reply pairs a decoded response value with the Exchange that
// produced it.
type Reply[T any] struct {
	// Exchange is the exchange the conversation was conducted on.
	Exchange *Exchange
	// Value is the decoded response body.
	Value T
}

// Talk conducts a whole conversation: it serializes content to
// indented JSON, POSTs it to the URL, checks the response for success,
// and decodes the response body as JSON into a value of type T.
//
// Talk returns ErrMissingURL or ErrMissingContent, before any network
// activity, when url or content is absent: a conversation needs both a
// destination and something to say. Content of type string or []byte
// is posted verbatim, on the assumption that it is already serialized;
// any other content must be convertible by params.FromStruct.
//
// All dispatch and decode failures propagate: a *DispatchError for
// transport faults, a *StatusError for a non-2XX response, and a
// *DecodeError when the body will not parse into T.
func Talk[T any](url string, content interface{}, opts ...Option) (*Reply[T], error) {
	x, err := newTalk(url, content, opts)
	if err != nil {
		return nil, err
	}
	if _, err = x.Send(); err != nil {
		return nil, err
	}
	reply := &Reply[T]{Exchange: x}
	if err = x.DecodeJSON(&reply.Value); err != nil {
		return nil, err
	}
	return reply, nil
}

func newTalk(url string, content interface{}, opts []Option) (*Exchange, error) {
	if url == "" {
		return nil, ErrMissingURL
	}
	if content == nil {
		return nil, ErrMissingContent
	}
	switch content.(type) {
	case string, []byte:
	default:
		l, err := params.FromStruct(content)
		if err != nil {
			return nil, err
		}
		text, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return nil, err
		}
		content = string(text)
	}
	return New(url, content, opts...), nil
}

// A PendingReply is a handle on an in-flight conversation started by
// TalkAsync.
type PendingReply[T any] struct {
	reply *Reply[T]
	err   error
	done  chan struct{}
}

// Done returns a channel that is closed when the conversation
// finishes, for use in select statements.
func (p *PendingReply[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the conversation finishes, then returns the reply
// and error exactly as the equivalent blocking Talk would have. Wait
// may be called any number of times, from any goroutine.
func (p *PendingReply[T]) Wait() (*Reply[T], error) {
	<-p.done
	return p.reply, p.err
}

// TalkAsync is the counterpart of Talk that conducts the conversation
// on a new goroutine, returning a PendingReply handle immediately.
// Argument validation failures surface on Wait like everything else.
func TalkAsync[T any](url string, content interface{}, opts ...Option) *PendingReply[T] {
	p := &PendingReply[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.reply, p.err = Talk[T](url, content, opts...)
	}()
	return p
}

// Get issues a GET to the specified URL and returns the sent Exchange
// for inspection. Unlike Send, Get applies no presets: the request
// carries an empty body and no negotiation hints unless options add
// them.
func Get(url string, opts ...Option) (*Exchange, error) {
	x := &Exchange{}
	x.URL = url
	for _, opt := range opts {
		opt(x)
	}
	return x.Send()
}

// Head issues a HEAD to the specified URL and returns the sent
// Exchange for inspection. Like Get, Head applies no presets.
func Head(url string, opts ...Option) (*Exchange, error) {
	x := &Exchange{}
	x.Method = "HEAD"
	x.URL = url
	for _, opt := range opts {
		opt(x)
	}
	return x.Send()
}

// PostForm issues a POST to the specified URL with data's keys and
// values URL-encoded as the request body, and returns the sent
// Exchange for inspection.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// Keys are sorted, because Go map iteration order is not stable; to
// control pair order instead, send an Exchange with *params.List
// content and the Form flag set.
func PostForm(url string, data url.Values, opts ...Option) (*Exchange, error) {
	x := &Exchange{}
	x.Method = "POST"
	x.URL = url
	x.Content = params.FromValues(data)
	x.Form = true
	for _, opt := range opts {
		opt(x)
	}
	return x.Send()
}
