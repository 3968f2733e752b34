// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package params provides an ordered list of key/value string pairs
// used to assemble request bodies and query strings. Unlike url.Values
// and other map-backed containers, a params.List preserves insertion
// order and permits duplicate keys, and it converts to and from the two
// wire shapes this library produces: URL query encoding and JSON
// objects.
package params
