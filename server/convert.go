// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lesismal/nbserve/http1"
)

// toStdRequest converts a parsed request for net/http handlers.
func toStdRequest(ctx context.Context, req *http1.Request, remoteAddr string) (*http.Request, error) {
	rawurl := req.Target
	justAuthority := req.Method == http1.MethodConnect && !strings.HasPrefix(rawurl, "/")
	if justAuthority {
		rawurl = "http://" + rawurl
	}
	u, err := url.ParseRequestURI(rawurl)
	if err != nil {
		return nil, fmt.Errorf("%w: target %q: %v", http1.ErrMalformed, req.Target, err)
	}
	if justAuthority {
		u.Scheme = ""
	}

	r := &http.Request{
		Method:     req.Method.String(),
		URL:        u,
		Proto:      req.Version.String(),
		ProtoMajor: int(req.Version.Major),
		ProtoMinor: int(req.Version.Minor),
		Header:     make(http.Header, req.Header.Len()),
		Host:       req.Host(),
		RequestURI: req.Target,
		RemoteAddr: remoteAddr,
		Close:      true,
		Body:       http.NoBody,
	}
	if r.Host == "" {
		r.Host = u.Host
	}
	req.Header.Range(func(name, value string) bool {
		r.Header.Set(name, value)
		return true
	})
	if n, ok := req.ContentLength(); ok {
		r.ContentLength = n
	}
	if len(req.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(req.Body))
	}
	return r.WithContext(ctx), nil
}
