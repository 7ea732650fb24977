// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package status maps request reader failures to HTTP status codes.
package status

import (
	"errors"
	"net/http"

	"github.com/lesismal/nbserve/http1"
)

var codes = []struct {
	err  error
	code int
}{
	{http1.ErrTooLongURI, http.StatusRequestURITooLong},
	{http1.ErrBufferOverflow, http.StatusRequestEntityTooLarge},
	{http1.ErrVersionNotSupported, http.StatusHTTPVersionNotSupported},
	{http1.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
	{http1.ErrMissingContentLength, http.StatusLengthRequired},
	{http1.ErrMalformedHeaderField, http.StatusBadRequest},
	{http1.ErrBodyNotAllowed, http.StatusBadRequest},
	{http1.ErrMandatoryBody, http.StatusBadRequest},
	{http1.ErrMalformed, http.StatusBadRequest},
}

// FromError returns the status code for a Parser or Validator failure, and
// 500 for anything else.
func FromError(err error) int {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return http.StatusInternalServerError
}

// Text returns the reason phrase of code.
func Text(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown Status"
}
