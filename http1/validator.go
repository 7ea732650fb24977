// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"fmt"
	"strconv"
)

// Validator checks request semantics the stages cannot see. It runs once,
// at HeadersDone, before any body byte is read.
type Validator struct {
	conf *Config
}

// NewValidator .
func NewValidator(conf *Config) *Validator {
	return &Validator{conf: conf}
}

// Validate runs the checks in order and returns the first failure.
func (v *Validator) Validate(req *Request) error {
	if err := v.validateVersion(req.Version); err != nil {
		return err
	}

	contentLength, hasContentLength, err := declaredLength(req)
	if err != nil {
		return err
	}

	if err := validateMethod(req.Method, contentLength, hasContentLength); err != nil {
		return err
	}

	if hasContentLength && contentLength > v.conf.MaxBodySize {
		return fmt.Errorf("%w: declared %d, limit %d", ErrPayloadTooLarge, contentLength, v.conf.MaxBodySize)
	}
	return nil
}

func (v *Validator) validateVersion(version Version) error {
	if !version.Known() {
		return fmt.Errorf("%w: unknown version %v", ErrMalformed, version)
	}
	if v.conf.MaxVersion.Less(version) {
		return fmt.Errorf("%w: %v", ErrVersionNotSupported, version)
	}
	return nil
}

// declaredLength re-reads the raw Content-Length value.
func declaredLength(req *Request) (int64, bool, error) {
	raw, ok := req.Header.Lookup(HeaderContentLength)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, true, fmt.Errorf("%w: content-length %q", ErrMalformedHeaderField, raw)
	}
	return int64(n), true, nil
}

// validateMethod: GET and HEAD carry no body, POST and PUT must carry one.
func validateMethod(method Method, contentLength int64, hasContentLength bool) error {
	switch method {
	case MethodGet, MethodHead:
		if contentLength > 0 {
			return fmt.Errorf("%w: %v with content-length %d", ErrBodyNotAllowed, method, contentLength)
		}
	case MethodPost, MethodPut:
		if !hasContentLength {
			return fmt.Errorf("%w: %v", ErrMissingContentLength, method)
		}
		if contentLength == 0 {
			return fmt.Errorf("%w: %v with empty body", ErrMandatoryBody, method)
		}
	}
	return nil
}
