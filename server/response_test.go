package server

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2021, time.May, 1, 10, 20, 30, 0, time.UTC)

func TestResponseEncode(t *testing.T) {
	res := NewResponse()
	res.Header().Set("X-B", "2")
	res.Header().Set("X-A", "1")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusCreated)
	res.WriteHeader(http.StatusTeapot)
	res.WriteString("hello")

	out := string(res.encode(nil, "nbserve/test", testDate))
	require.Equal(t, "HTTP/1.1 201 Created\r\n"+
		"Server: nbserve/test\r\n"+
		"Date: Sat, 01 May 2021 10:20:30 GMT\r\n"+
		"Content-Length: 5\r\n"+
		"Connection: close\r\n"+
		"X-A: 1\r\n"+
		"X-B: 2\r\n"+
		"\r\n"+
		"hello", out)
}

func TestResponseDefaultStatus(t *testing.T) {
	res := NewResponse()
	require.Equal(t, http.StatusOK, res.StatusCode())

	out := string(res.encode(nil, "", testDate))
	require.True(t, strings.HasPrefix(out, "HTTP/1.1 200 OK\r\nDate: "))
	require.True(t, strings.HasSuffix(out, "Content-Length: 0\r\nConnection: close\r\n\r\n"))
}

func TestResponseHead(t *testing.T) {
	res := NewResponse()
	res.head = true
	res.Header().Set(contentLengthHeader, "42")
	res.Write([]byte("ignored"))

	r, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(res.encode(nil, "x", testDate))), &http.Request{Method: http.MethodHead})
	require.NoError(t, err)
	require.Equal(t, int64(42), r.ContentLength)
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.Empty(t, body)
}

func TestErrorResponse(t *testing.T) {
	res := errorResponse(http.StatusRequestURITooLong)
	require.Equal(t, http.StatusRequestURITooLong, res.StatusCode())
	require.Equal(t, "<h1>414 Request URI Too Long</h1>", string(res.Body()))
	require.Equal(t, "text/html", res.Header().Get(contentTypeHeader))
}

func TestNegotiateEncoding(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"identity":                 "",
		"gzip":                     encodingGzip,
		"deflate":                  encodingDeflate,
		"deflate, gzip":            encodingGzip,
		"GZIP;q=0.5, deflate":      encodingGzip,
		"gzip;q=0, deflate":        encodingDeflate,
		"gzip;q=0, deflate;q=0.0":  "",
		"x-gzip":                   encodingGzip,
		"*":                        encodingGzip,
		"br, deflate;q=0.8":        encodingDeflate,
		"gzip;level=1;q=0.1, br":   encodingGzip,
		"gzip;q=bogus, deflate":    encodingDeflate,
		" gzip ; q=1 , deflate   ": encodingGzip,
	}
	for ae, want := range cases {
		assert.Equal(t, want, negotiateEncoding(ae), "Accept-Encoding %q", ae)
	}
}

func TestCompressGzip(t *testing.T) {
	body := strings.Repeat("nbserve ", 64)
	res := NewResponse()
	res.WriteString(body)

	compress("gzip, deflate", res)
	require.Equal(t, encodingGzip, res.Header().Get(contentEncodingHeader))
	require.Equal(t, "Accept-Encoding", res.Header().Get("Vary"))
	require.Less(t, len(res.Body()), len(body))

	zr, err := gzip.NewReader(bytes.NewReader(res.Body()))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, body, string(plain))
}

func TestCompressDeflate(t *testing.T) {
	body := strings.Repeat("deflate me ", 32)
	res := NewResponse()
	res.Header().Set(contentLengthHeader, "352")
	res.WriteString(body)

	compress("deflate", res)
	require.Equal(t, encodingDeflate, res.Header().Get(contentEncodingHeader))
	require.Empty(t, res.Header().Get(contentLengthHeader))

	zr, err := zlib.NewReader(bytes.NewReader(res.Body()))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, body, string(plain))
}

func TestCompressSkips(t *testing.T) {
	notFound := NewResponse()
	writeError(notFound, http.StatusNotFound)
	compress("gzip", notFound)
	assert.Empty(t, notFound.Header().Get(contentEncodingHeader))

	empty := NewResponse()
	compress("gzip", empty)
	assert.Empty(t, empty.Header().Get(contentEncodingHeader))

	head := NewResponse()
	head.head = true
	head.WriteString("body")
	compress("gzip", head)
	assert.Empty(t, head.Header().Get(contentEncodingHeader))

	encoded := NewResponse()
	encoded.Header().Set(contentEncodingHeader, "br")
	encoded.WriteString("already")
	compress("gzip", encoded)
	assert.Equal(t, "br", encoded.Header().Get(contentEncodingHeader))
	assert.Equal(t, "already", string(encoded.Body()))

	plain := NewResponse()
	plain.WriteString("plain")
	compress("identity", plain)
	assert.Empty(t, plain.Header().Get(contentEncodingHeader))
	assert.Equal(t, "Accept-Encoding", plain.Header().Get("Vary"))
	assert.Equal(t, "plain", string(plain.Body()))
}
