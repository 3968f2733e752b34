// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const notObjectMsg = "parley/params: JSON value is not an object"

// A Pair is one key/value element of a List.
type Pair struct {
	Key   string
	Value string
}

// Pairer is the interface that wraps the basic Pairs method.
//
// Pairs returns the ordered list of key/value pairs a value contributes
// to a request body or query string. Implement Pairer to take full
// control of pair names, values, and ordering instead of relying on the
// field conversion performed by FromStruct.
//
// *List implements Pairer.
type Pairer interface {
	Pairs() []Pair
}

// A List is an ordered list of key/value string pairs. Pairs stay in
// insertion order and keys may repeat, both of which are significant
// when a list is rendered as a query string or a JSON object body.
//
// The zero value is an empty list ready for use. A List is not safe
// for concurrent use by multiple goroutines.
type List struct {
	pairs []Pair
}

// New returns a new List containing the given pairs in order.
func New(pairs ...Pair) *List {
	l := &List{}
	if len(pairs) > 0 {
		l.pairs = make([]Pair, len(pairs))
		copy(l.pairs, pairs)
	}
	return l
}

// FromMap returns a new List containing m's keys and values. Map
// iteration order is not stable in Go, so keys are sorted to keep the
// conversion deterministic.
func FromMap(m map[string]string) *List {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l := &List{pairs: make([]Pair, 0, len(m))}
	for _, k := range keys {
		l.pairs = append(l.pairs, Pair{Key: k, Value: m[k]})
	}
	return l
}

// FromValues returns a new List containing v's keys and values. Keys
// are sorted for determinism. The order of the values under each key
// is preserved, and each value becomes its own pair.
func FromValues(v url.Values) *List {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l := &List{}
	for _, k := range keys {
		for _, val := range v[k] {
			l.pairs = append(l.pairs, Pair{Key: k, Value: val})
		}
	}
	return l
}

// Add appends a pair to the end of the list and returns the list.
func (l *List) Add(key, value string) *List {
	l.pairs = append(l.pairs, Pair{Key: key, Value: value})
	return l
}

// Merge appends a copy of other's pairs to the end of the list and
// returns the list. The two lists remain independent afterward.
func (l *List) Merge(other *List) *List {
	if other != nil {
		l.pairs = append(l.pairs, other.pairs...)
	}
	return l
}

// Clear removes all pairs from the list and returns the list. The
// backing storage is retained for reuse.
func (l *List) Clear() *List {
	l.pairs = l.pairs[:0]
	return l
}

// Len returns the number of pairs in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.pairs)
}

// Get returns the value of the first pair having the given key. The
// second return value indicates whether any such pair exists.
func (l *List) Get(key string) (string, bool) {
	for _, p := range l.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Values returns the values of every pair having the given key, in
// list order, or nil if no pair has the key.
func (l *List) Values(key string) []string {
	var vs []string
	for _, p := range l.pairs {
		if p.Key == key {
			vs = append(vs, p.Value)
		}
	}
	return vs
}

// Pairs returns a copy of the list's pairs. Mutating the returned
// slice does not affect the list. Pairs makes *List implement Pairer,
// and like Encode it tolerates a nil receiver.
func (l *List) Pairs() []Pair {
	if l == nil {
		return nil
	}
	pairs := make([]Pair, len(l.pairs))
	copy(pairs, l.pairs)
	return pairs
}

// Clone returns a deep, independent copy of the list.
func (l *List) Clone() *List {
	return &List{pairs: l.Pairs()}
}

// Encode renders the list as a URL query string: pairs in insertion
// order, duplicate keys preserved, keys and values percent-encoded per
// the query component escaping rules. The empty list encodes to the
// empty string.
//
// Encode has no side effects, so encoding the same list twice yields
// the same string.
func (l *List) Encode() string {
	if l == nil || len(l.pairs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range l.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(escape(p.Value))
	}
	return sb.String()
}

// String renders the list the same way as Encode.
func (l *List) String() string {
	return l.Encode()
}

// escape percent-encodes a query component. url.QueryEscape writes
// space as "+"; rewrite it to %20 so keys and values use pure percent
// escaping in both query strings and form bodies.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MarshalJSON renders the list as a JSON object whose members appear
// in insertion order. Duplicate keys produce duplicate members: most
// JSON decoders keep the last one, but the document written here
// reflects the list faithfully.
func (l *List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range l.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the list's contents with the members of a
// JSON object, preserving member order and duplicate keys. Member
// values must be scalar: strings are taken verbatim, numbers and
// booleans keep their literal form, and null becomes the empty string.
// A nested object or array value is an error.
func (l *List) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(notObjectMsg)
	}
	var pairs []Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var value string
		switch v := valTok.(type) {
		case string:
			value = v
		case json.Number:
			value = v.String()
		case bool:
			value = strconv.FormatBool(v)
		case nil:
			value = ""
		default:
			return fmt.Errorf("parley/params: nested JSON value for key %q", key)
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	if _, err = dec.Token(); err != nil {
		return err
	}
	l.pairs = pairs
	return nil
}
