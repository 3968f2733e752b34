// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package params

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// FromStruct derives a List from an arbitrary value's public
// properties.
//
// The conversion rules are:
//
// • If v implements Pairer, its Pairs are used directly.
//
// • If v is a struct, or a pointer to one, each exported field becomes
// a pair in declared order. A `json` field tag renames the pair, a "-"
// tag skips the field, and an ",omitempty" option skips zero values.
//
// • If v is a map with string keys, each entry becomes a pair, with
// keys sorted because Go map order is not stable.
//
// • Any other value is an error.
//
// Field and map values are stringified with their fmt.Stringer
// implementation when they have one, and otherwise with the obvious
// strconv formatting for strings, booleans, integers, and floats. Nil
// pointers stringify to the empty string.
func FromStruct(v interface{}) (*List, error) {
	if p, ok := v.(Pairer); ok {
		return New(p.Pairs()...), nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("parley/params: cannot derive pairs from nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return fromStruct(rv), nil
	case reflect.Map:
		return fromMap(rv)
	default:
		return nil, fmt.Errorf("parley/params: cannot derive pairs from %T "+
			"(use a struct, a string-keyed map, or a Pairer)", v)
	}
}

func fromStruct(rv reflect.Value) *List {
	l := &List{}
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if f.PkgPath != "" {
			continue
		}
		if f.Anonymous {
			t := f.Type
			if t.Kind() == reflect.Ptr {
				t = t.Elem()
			}
			if t.Kind() == reflect.Struct {
				continue // container only; its fields are promoted
			}
		}
		name := f.Name
		omitempty := false
		if tag, ok := f.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" && len(parts) == 1 {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			continue // promoted through a nil embedded pointer
		}
		if omitempty && fv.IsZero() {
			continue
		}
		l.Add(name, stringify(fv))
	}
	return l
}

func fromMap(rv reflect.Value) (*List, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("parley/params: cannot derive pairs from map with %s keys", rv.Type().Key())
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	l := &List{}
	for _, k := range keys {
		l.Add(k.String(), stringify(rv.MapIndex(k)))
	}
	return l, nil
}

func stringify(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		return stringify(v.Elem())
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	if v.CanAddr() {
		if s, ok := v.Addr().Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}
