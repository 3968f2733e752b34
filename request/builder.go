// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/gogama/parley/params"
)

const (
	mediaTypeText = "text/plain"
	mediaTypeJSON = "application/json"
	mediaTypeForm = "application/x-www-form-urlencoded"
)

const (
	missingURLMsg      = "parley/request: no URL to prepare"
	mediaTypeNoBodyMsg = "parley/request: media type hint set but request has " +
		"no body (prepare or assign a body first, or leave MediaType unset)"
)

// A Builder accumulates the declarative ingredients of an HTTP request
// (method, URL, headers, content, media type and accept hints, query
// parameters) and prepares a transport-ready Request from them
// immediately before dispatch.
//
// Preparation is split into two stages. PrepareContent decides what
// the body is: it encodes the polymorphic Content field into the
// request body exactly once. PrepareQueryAndHeaders decides how the
// request is framed: it derives the final URL from the base URL and
// the query accumulator and applies the header hints, and it runs on
// every dispatch. The split lets a caller override just the framing of
// a manually constructed body without re-deriving the body itself.
//
// Preparation never overwrites state the caller supplied directly: a
// request body assigned via SetRequest (or by a prior preparation) is
// kept, and declarative headers are merged only where the prepared
// request does not already define the key. The single exception is the
// MediaType hint, which replaces the Content-Type header.
//
// The zero value is an empty Builder ready for use. A Builder is a
// single-owner object and is not safe for concurrent use.
type Builder struct {
	// Method specifies the HTTP method. An empty string means GET.
	Method string

	// URL is the base target URL. Preparation never mutates it: the
	// query accumulator is rendered onto a parsed copy, so repeated
	// dispatch of the same Builder cannot grow the URL.
	URL string

	// Header contains declarative header fields, merged into the
	// prepared request wherever the request does not already define
	// the key.
	Header http.Header

	// Content is the polymorphic body source. It may be nil (empty
	// body), a []byte (used verbatim), a string (framed as text in
	// Charset), a *params.List or any other params.Pairer (pairs used
	// directly), or a struct or string-keyed map (converted to an
	// ordered pair list by params.FromStruct).
	Content interface{}

	// MediaType is a content negotiation hint. When set, it replaces
	// the prepared request's Content-Type header verbatim.
	MediaType string

	// Accept is a content negotiation hint. When set, it is added to
	// the prepared request's Accept header values; existing Accept
	// entries are never replaced.
	Accept string

	// Charset names the character encoding for text and JSON bodies.
	// Blank means UTF-8; other names transcode via the x/text tables.
	Charset string

	// Form, when true, encodes pair-style content as an
	// application/x-www-form-urlencoded body instead of a JSON object
	// body.
	Form bool

	query *params.List
	req   *Request
}

// AddQuery appends one query parameter and returns the Builder.
// Repeated keys are permitted and preserved in order, so
// AddQuery("tag", "a") followed by AddQuery("tag", "b") renders as
// "tag=a&tag=b".
func (b *Builder) AddQuery(key, value string) *Builder {
	b.queryList().Add(key, value)
	return b
}

// AddQueryMap appends one query parameter per entry of m, with keys
// sorted because Go map order is not stable, and returns the Builder.
func (b *Builder) AddQueryMap(m map[string]string) *Builder {
	b.queryList().Merge(params.FromMap(m))
	return b
}

// AddQueryValues appends one query parameter per value in v, with keys
// sorted and the value order under each key preserved, and returns the
// Builder.
func (b *Builder) AddQueryValues(v urlpkg.Values) *Builder {
	b.queryList().Merge(params.FromValues(v))
	return b
}

// AddQueryPairs appends p's pairs in their given order and returns the
// Builder.
func (b *Builder) AddQueryPairs(p params.Pairer) *Builder {
	if p != nil {
		for _, pair := range p.Pairs() {
			b.queryList().Add(pair.Key, pair.Value)
		}
	}
	return b
}

// AddQueryStruct appends one query parameter per exported field of the
// struct v, converted according to the `url` field tags understood by
// the go-querystring library. Keys are sorted for determinism.
func (b *Builder) AddQueryStruct(v interface{}) error {
	vals, err := query.Values(v)
	if err != nil {
		return err
	}
	b.queryList().Merge(params.FromValues(vals))
	return nil
}

// QueryString renders the accumulated query parameters in insertion
// order with query-component percent escaping. It is a pure function
// of the accumulator: rendering twice yields the same string, and an
// absent or empty accumulator renders as the empty string.
func (b *Builder) QueryString() string {
	return b.query.Encode()
}

// Query returns a deep copy of the query accumulator. Mutating the
// copy does not affect the Builder.
func (b *Builder) Query() *params.List {
	if b.query == nil {
		return params.New()
	}
	return b.query.Clone()
}

// ClearQuery empties the query accumulator, if one has been allocated,
// and returns the Builder.
func (b *Builder) ClearQuery() *Builder {
	if b.query != nil {
		b.query.Clear()
	}
	return b
}

func (b *Builder) queryList() *params.List {
	if b.query == nil {
		b.query = params.New()
	}
	return b.query
}

// SetHeader sets a declarative header field, replacing any prior
// values, and returns the Builder.
func (b *Builder) SetHeader(key, value string) *Builder {
	b.header().Set(key, value)
	return b
}

// AddHeader adds a declarative header value, keeping any prior values,
// and returns the Builder.
func (b *Builder) AddHeader(key, value string) *Builder {
	b.header().Add(key, value)
	return b
}

// SetBasicAuth sets the Authorization header to use HTTP Basic
// Authentication with the provided username and password, and returns
// the Builder. The username and password are not encrypted.
func (b *Builder) SetBasicAuth(username, password string) *Builder {
	return b.SetHeader("Authorization", "Basic "+basicAuth(username, password))
}

// SetBearerAuth sets the Authorization header to use the OAuth 2.0
// Bearer scheme with the provided token, and returns the Builder.
func (b *Builder) SetBearerAuth(token string) *Builder {
	return b.SetHeader("Authorization", "Bearer "+token)
}

// AddCookie adds a cookie to the declarative headers and returns the
// Builder. Per RFC 6265 section 5.4 all cookies are written into a
// single Cookie line, separated by semicolons.
func (b *Builder) AddCookie(c *http.Cookie) *Builder {
	addCookie(b.header(), c)
	return b
}

func (b *Builder) header() http.Header {
	if b.Header == nil {
		b.Header = make(http.Header)
	}
	return b.Header
}

// SetRequest assigns the prepared request directly, bypassing the
// preparation pipeline for whatever fields r already defines. Passing
// nil clears any previously prepared request, so the next dispatch
// prepares a fresh one from the declarative fields.
func (b *Builder) SetRequest(r *Request) {
	b.req = r
}

// Request returns the prepared request, or nil if none has been
// prepared or assigned yet.
func (b *Builder) Request() *Request {
	return b.req
}

// PrepareContent encodes the Content field into the prepared request's
// body. If the request already carries a body, whether assigned via
// SetRequest or by a previous call, PrepareContent returns immediately
// without changing anything: the existing body always wins, which also
// makes the method idempotent. A zero-length body counts as a body.
//
// The encoding is chosen by the dynamic type of Content:
//
// • nil becomes an empty body, with no media type and no charset
// framing;
//
// • []byte is used verbatim, likewise unframed;
//
// • string becomes a text body in Charset, with a Content-Type of
// MediaType (default text/plain) plus a charset parameter; and
//
// • anything else is converted to an ordered pair list by
// params.FromStruct (a *params.List or other params.Pairer passes its
// pairs through), then encoded as an application/x-www-form-urlencoded
// body when Form is set, and otherwise as a JSON object body in
// Charset with a Content-Type of MediaType (default application/json).
//
// PrepareContent sets Content-Type only if the prepared request does
// not already define one.
func (b *Builder) PrepareContent() error {
	r := b.request()
	if r.Body != nil {
		return nil
	}
	body, contentType, err := b.encodeContent()
	if err != nil {
		return err
	}
	if body == nil {
		body = []byte{}
	}
	r.Body = body
	if contentType != "" && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", contentType)
	}
	return nil
}

// encodeContent derives the body bytes and Content-Type value for the
// Content field. Absent and raw []byte content carry no content type.
func (b *Builder) encodeContent() ([]byte, string, error) {
	switch x := b.Content.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return x, "", nil
	case string:
		return b.textContent(x, mediaTypeText)
	default:
		l, err := params.FromStruct(b.Content)
		if err != nil {
			return nil, "", err
		}
		if b.Form {
			return []byte(l.Encode()), mediaTypeForm, nil
		}
		text, err := l.MarshalJSON()
		if err != nil {
			return nil, "", err
		}
		return b.textContent(string(text), mediaTypeJSON)
	}
}

// textContent frames s in the configured charset and pairs it with the
// media type hint, or defaultMediaType when no hint is set.
func (b *Builder) textContent(s, defaultMediaType string) ([]byte, string, error) {
	charset := b.charset()
	body, err := textBody(s, charset)
	if err != nil {
		return nil, "", err
	}
	mediaType := b.MediaType
	if blank(mediaType) {
		mediaType = defaultMediaType
	}
	return body, mediaType + "; charset=" + charset, nil
}

func (b *Builder) charset() string {
	if blank(b.Charset) {
		return "utf-8"
	}
	return strings.ToLower(strings.TrimSpace(b.Charset))
}

// PrepareQueryAndHeaders frames the prepared request: it gives the
// request its method and URL, renders the query accumulator, merges
// the declarative headers, and applies the Accept and MediaType hints.
// It runs on every dispatch and is idempotent.
//
// The request URL is derived from the base URL field plus the current
// query accumulator on every call. The base is never mutated, so
// repeated dispatch cannot append the query string twice. A query
// already embedded in the base URL is kept, with the accumulator's
// parameters appended after it. A URL assigned via SetRequest is used
// only when the base URL field is empty; having neither is an error.
//
// The Accept hint is added to, and never replaces, the Accept header
// values; adding is skipped when an equal value is already present.
// The MediaType hint replaces the Content-Type header verbatim. A hint
// that is empty or all whitespace counts as unset. It is an error to
// set a MediaType hint while the prepared request has no body, because
// then there is no content to give a type to: prepare or assign a body
// first (PrepareContent always leaves one), or leave MediaType unset.
func (b *Builder) PrepareQueryAndHeaders() error {
	r := b.request()
	if !blank(b.MediaType) && r.Body == nil {
		return errors.New(mediaTypeNoBodyMsg)
	}
	if r.Method == "" {
		m := b.Method
		if m == "" {
			m = "GET"
		}
		if !validMethod(m) {
			return fmt.Errorf("parley/request: invalid method %q", m)
		}
		r.Method = m
	}
	if b.URL != "" {
		u, err := urlpkg.Parse(b.URL)
		if err != nil {
			return err
		}
		u.Host = removeEmptyPort(u.Host)
		if qs := b.query.Encode(); qs != "" {
			if u.RawQuery != "" {
				u.RawQuery += "&" + qs
			} else {
				u.RawQuery = qs
			}
		}
		r.URL = u
		if r.Host == "" {
			r.Host = u.Host
		}
	} else if r.URL == nil {
		return errors.New(missingURLMsg)
	}
	for k, vs := range b.Header {
		ck := http.CanonicalHeaderKey(k)
		if _, present := r.Header[ck]; !present {
			r.Header[ck] = append([]string(nil), vs...)
		}
	}
	if !blank(b.Accept) && !headerHasValue(r.Header, "Accept", b.Accept) {
		r.Header.Add("Accept", b.Accept)
	}
	if !blank(b.MediaType) {
		r.Header.Set("Content-Type", b.MediaType)
	}
	return nil
}

// Prepare runs both preparation stages, PrepareContent followed by
// PrepareQueryAndHeaders, and returns the prepared request.
func (b *Builder) Prepare() (*Request, error) {
	if err := b.PrepareContent(); err != nil {
		return nil, err
	}
	if err := b.PrepareQueryAndHeaders(); err != nil {
		return nil, err
	}
	return b.req, nil
}

func (b *Builder) request() *Request {
	if b.req == nil {
		b.req = &Request{Header: make(http.Header)}
	}
	if b.req.Header == nil {
		b.req.Header = make(http.Header)
	}
	return b.req
}

// blank reports whether a hint field is empty or all whitespace. A
// blank hint counts as unset.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// headerHasValue reports whether any existing value of the named
// header equals v, comparing case-insensitively as media types are.
func headerHasValue(h http.Header, name, v string) bool {
	for _, existing := range h.Values(name) {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}
