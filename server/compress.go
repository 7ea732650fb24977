// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	encodingGzip    = "gzip"
	encodingDeflate = "deflate"
)

// negotiateEncoding picks gzip, then deflate, from an Accept-Encoding
// value. Codings with q=0 are refused.
func negotiateEncoding(acceptEncoding string) string {
	var gzip, deflate bool
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if refused(params) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(coding)) {
		case encodingGzip, "x-gzip", "*":
			gzip = true
		case encodingDeflate:
			deflate = true
		}
	}
	switch {
	case gzip:
		return encodingGzip
	case deflate:
		return encodingDeflate
	}
	return ""
}

func refused(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err != nil || q <= 0
	}
	return false
}

// compress encodes the body of a successful response when the client
// accepts gzip or deflate.
func compress(acceptEncoding string, res *Response) {
	if res.head || res.StatusCode() != http.StatusOK || len(res.body) == 0 || res.header.Get(contentEncodingHeader) != "" {
		return
	}
	res.header.Add("Vary", "Accept-Encoding")

	coding := negotiateEncoding(acceptEncoding)
	switch coding {
	case encodingGzip:
		res.body = fasthttp.AppendGzipBytesLevel(nil, res.body, fasthttp.CompressDefaultCompression)
	case encodingDeflate:
		res.body = fasthttp.AppendDeflateBytesLevel(nil, res.body, fasthttp.CompressDefaultCompression)
	default:
		return
	}
	res.header.Set(contentEncodingHeader, coding)
	res.header.Del(contentLengthHeader)
}
