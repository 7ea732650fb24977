// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"errors"
)

// Syntax failures, returned by Parser.Feed.
var (
	// ErrMalformed is the generic syntax failure.
	ErrMalformed = errors.New("malformed request")

	// ErrTooLongURI .
	ErrTooLongURI = errors.New("request target too long")

	// ErrBufferOverflow is returned when fed bytes do not fit the parser buffer.
	ErrBufferOverflow = errors.New("parser buffer overflow")
)

// Semantic failures, returned by Validator.Validate.
var (
	// ErrVersionNotSupported .
	ErrVersionNotSupported = errors.New("http version not supported")

	// ErrPayloadTooLarge .
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrMalformedHeaderField .
	ErrMalformedHeaderField = errors.New("malformed header field")

	// ErrMissingContentLength .
	ErrMissingContentLength = errors.New("missing content-length")

	// ErrBodyNotAllowed .
	ErrBodyNotAllowed = errors.New("body not allowed")

	// ErrMandatoryBody .
	ErrMandatoryBody = errors.New("body required")
)
