// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Request is a prepared, transport-ready HTTP request: the output of
// a Builder and the input to a transport. Once dispatch begins it
// should be treated as immutable.
//
// The field structure mirrors the lower-level http.Request with
// server-only and stream-oriented fields removed, and with the body
// replaced by a simple []byte, because this transaction-oriented
// library requires a pre-buffered request body. Fields are named and
// typed consistently with http.Request wherever possible.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.). An
	// empty string means GET.
	Method string

	// URL specifies the URL to access.
	//
	// The URL's Host specifies the server to connect to, while the
	// Request's Host field optionally specifies the Host header value
	// to send in the HTTP request.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body means
	// no request body is sent, for example on a GET request.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host is sent. Host may contain an international
	// domain name.
	Host string

	// Close stipulates whether to close the connection after sending
	// the request and reading the response. Setting this field
	// prevents reuse of the TCP connection, as if
	// Transport.DisableKeepAlives were set.
	Close bool
}

// New returns a new Request given a method, URL, and optional body,
// bypassing the Builder preparation pipeline.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func New(method, url string, body interface{}) (*Request, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("parley/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line, separated
// by semicolons.
//
// AddCookie only sanitizes c's name and value, and does not sanitize
// a Cookie header already present in the request.
func (r *Request) AddCookie(c *http.Cookie) {
	addCookie(r.Header, c)
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
//
// Some protocols may impose additional requirements on pre-escaping
// the username and password. For instance, when used with OAuth2, both
// arguments must be URL encoded first with url.QueryEscape.
func (r *Request) SetBasicAuth(username, password string) {
	r.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToHTTP creates the lower-level HTTP request corresponding to r. The
// context of the new request is set to ctx, which must not be nil.
func (r *Request) ToHTTP(ctx context.Context) *http.Request {
	hr := template.WithContext(ctx)
	hr.Method = r.Method
	hr.URL = r.URL
	hr.Header = r.Header
	if len(r.Body) > 0 {
		hr.Body = io.NopCloser(bytes.NewReader(r.Body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(r.Body)), nil
		}
		hr.ContentLength = int64(len(r.Body))
	}
	hr.Close = r.Close
	hr.Host = r.Host
	return hr
}

// addCookie writes the RFC 6265 single-line Cookie header form shared
// by Request.AddCookie and Builder.AddCookie.
func addCookie(h http.Header, c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if prior := h.Get("Cookie"); prior != "" {
		h.Set("Cookie", prior+"; "+s)
	} else {
		h.Set("Cookie", s)
	}
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// validMethod reports whether method is a legal token per RFC 7230
// section 3.2.6, which is all HTTP requires of an extension method.
func validMethod(method string) bool {
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
