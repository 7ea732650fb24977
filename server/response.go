// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lesismal/nbserve/status"
)

const (
	contentLengthHeader   = "Content-Length"
	contentTypeHeader     = "Content-Type"
	contentEncodingHeader = "Content-Encoding"
)

// headers written by encode itself
var reservedHeaders = map[string]bool{
	"Server":            true,
	"Date":              true,
	"Connection":        true,
	contentLengthHeader: true,
}

// Response buffers what a handler writes. It is encoded once, after the
// handler returns, and the connection is closed after it is sent.
type Response struct {
	statusCode int
	header     http.Header
	body       []byte

	// HEAD responses keep the handler's Content-Length but send no body.
	head bool
}

// NewResponse .
func NewResponse() *Response {
	return &Response{header: http.Header{}}
}

// Header .
func (res *Response) Header() http.Header {
	return res.header
}

// WriteHeader records the status code; only the first call counts.
func (res *Response) WriteHeader(statusCode int) {
	if res.statusCode == 0 {
		res.statusCode = statusCode
	}
}

// Write .
func (res *Response) Write(data []byte) (int, error) {
	res.WriteHeader(http.StatusOK)
	res.body = append(res.body, data...)
	return len(data), nil
}

// WriteString .
func (res *Response) WriteString(s string) (int, error) {
	res.WriteHeader(http.StatusOK)
	res.body = append(res.body, s...)
	return len(s), nil
}

// StatusCode returns the recorded code, 200 if the handler set none.
func (res *Response) StatusCode() int {
	if res.statusCode == 0 {
		return http.StatusOK
	}
	return res.statusCode
}

// Body .
func (res *Response) Body() []byte {
	return res.body
}

// encode appends the wire form of res to dst.
func (res *Response) encode(dst []byte, serverName string, now time.Time) []byte {
	code := res.StatusCode()
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(code), 10)
	dst = append(dst, ' ')
	dst = append(dst, status.Text(code)...)
	dst = append(dst, "\r\n"...)

	if serverName != "" {
		dst = appendHeader(dst, "Server", serverName)
	}
	dst = append(dst, "Date: "...)
	dst = fasthttp.AppendHTTPDate(dst, now)
	dst = append(dst, "\r\n"...)

	contentLength := strconv.Itoa(len(res.body))
	if cl := res.header.Get(contentLengthHeader); res.head && cl != "" {
		contentLength = cl
	}
	dst = appendHeader(dst, contentLengthHeader, contentLength)
	dst = appendHeader(dst, "Connection", "close")

	keys := make([]string, 0, len(res.header))
	for k := range res.header {
		if !reservedHeaders[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range res.header[k] {
			dst = appendHeader(dst, k, v)
		}
	}
	dst = append(dst, "\r\n"...)

	if !res.head {
		dst = append(dst, res.body...)
	}
	return dst
}

func appendHeader(dst []byte, key, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, ": "...)
	dst = append(dst, value...)
	return append(dst, "\r\n"...)
}

// errorResponse builds the page sent for a failed or rejected request.
func errorResponse(code int) *Response {
	res := NewResponse()
	writeError(res, code)
	return res
}

func writeError(w http.ResponseWriter, code int) {
	body := "<h1>" + strconv.Itoa(code) + " " + status.Text(code) + "</h1>"
	w.Header().Set(contentTypeHeader, "text/html")
	w.WriteHeader(code)
	w.Write([]byte(body))
}
