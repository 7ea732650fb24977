// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

// Request is built in place by a Parser. The Validator and the handler
// side only read it.
type Request struct {
	Method  Method
	Target  string
	Version Version
	Header  Header
	Body    []byte

	contentLength    int64
	hasContentLength bool
}

// NewRequest .
func NewRequest() *Request {
	return &Request{}
}

// Host .
func (r *Request) Host() string {
	return r.Header.Get(HeaderHost)
}

// ContentType .
func (r *Request) ContentType() string {
	return r.Header.Get(HeaderContentType)
}

// AcceptEncoding .
func (r *Request) AcceptEncoding() string {
	return r.Header.Get(HeaderAcceptEncoding)
}

// ContentLength returns the declared body length and whether the header
// was present.
func (r *Request) ContentLength() (int64, bool) {
	return r.contentLength, r.hasContentLength
}

func (r *Request) setContentLength(n int64) {
	r.contentLength = n
	r.hasContentLength = true
}

// Reset clears r for reuse, keeping allocated storage.
func (r *Request) Reset() {
	r.Method = MethodUnknown
	r.Target = ""
	r.Version = Version{}
	r.Header.Reset()
	r.Body = r.Body[:0]
	r.contentLength = 0
	r.hasContentLength = false
}
