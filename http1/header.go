// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import "strings"

// Recognized header names. Only these are kept on a Request.
const (
	HeaderHost           = "Host"
	HeaderContentLength  = "Content-Length"
	HeaderContentType    = "Content-Type"
	HeaderAcceptEncoding = "Accept-Encoding"
)

var recognizedHeaders = [...]string{
	HeaderHost,
	HeaderContentLength,
	HeaderContentType,
	HeaderAcceptEncoding,
}

// recognizedHeader returns the canonical spelling of name if it is one of
// the recognized headers, compared case-insensitively.
func recognizedHeader(name []byte) (string, bool) {
	for _, h := range recognizedHeaders {
		if len(h) == len(name) && strings.EqualFold(h, string(name)) {
			return h, true
		}
	}
	return "", false
}

// Header is an insertion-ordered map of header names to raw values.
// Setting an existing name replaces its value and keeps its position.
type Header struct {
	names  []string
	values map[string]string
}

// Set .
func (h *Header) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string, len(recognizedHeaders))
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

// Get returns the value of name, or "" if it is absent.
func (h *Header) Get(name string) string {
	return h.values[name]
}

// Lookup .
func (h *Header) Lookup(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Len .
func (h *Header) Len() int {
	return len(h.names)
}

// Names returns the header names in insertion order.
func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Range calls f for each header in insertion order until f returns false.
func (h *Header) Range(f func(name, value string) bool) {
	for _, name := range h.names {
		if !f(name, h.values[name]) {
			return
		}
	}
}

// Reset .
func (h *Header) Reset() {
	h.names = h.names[:0]
	for k := range h.values {
		delete(h.values, k)
	}
}
