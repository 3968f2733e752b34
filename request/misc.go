// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

const badBodyTypeMsg = "parley/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// BodyBytes converts a generic body value into the byte slice a
// Request carries.
//
// The body may be:
//
// • nil, producing a nil slice;
//
// • a []byte, returned as-is;
//
// • a string, converted with the built-in conversion; or
//
// • an io.Reader or io.ReadCloser, which is read to the end and, if it
// implements Closer, closed afterward. A read or close error is
// returned along with a nil slice.
//
// Any other type is an error.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// textBody frames a string as a request body in the named character
// set. An empty charset, and any spelling of UTF-8, pass the string's
// bytes through untouched. Any other name is looked up in the x/text
// encoding tables and the string is transcoded from UTF-8; an unknown
// name, or a rune the target encoding cannot represent, is an error.
func textBody(s, charset string) ([]byte, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return []byte(s), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("parley/request: unsupported charset %q", charset)
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("parley/request: cannot encode body as %s: %w", charset, err)
	}
	return b, nil
}
