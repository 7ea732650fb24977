// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"errors"
	"fmt"
)

var (
	// DefaultBufferSize matches the network read size.
	DefaultBufferSize = 4096

	// DefaultMaxURISize .
	DefaultMaxURISize = 1024

	// DefaultMaxRequestLineSize fits the longest method, two spaces,
	// DefaultMaxURISize and "HTTP/x.y".
	DefaultMaxRequestLineSize = 8 + 2 + DefaultMaxURISize + 1 + 8

	// DefaultMaxHeaderSize .
	DefaultMaxHeaderSize = 8192

	// DefaultMaxBodySize .
	DefaultMaxBodySize int64 = 1024 * 1024
)

// Config holds the parsing limits. Parsers and Validators share one Config
// by pointer and never modify it.
type Config struct {
	// BufferSize is the fixed capacity of each Parser's buffer.
	BufferSize int `toml:"buffer_size"`

	// MaxRequestLineSize bounds the request line, CRLF excluded.
	MaxRequestLineSize int `toml:"max_request_line_size"`

	// MaxURISize bounds the request target.
	MaxURISize int `toml:"max_uri_size"`

	// MaxHeaderSize bounds the whole header section, blank line included.
	MaxHeaderSize int `toml:"max_header_size"`

	// MaxBodySize bounds the declared and received body length.
	MaxBodySize int64 `toml:"max_body_size"`

	// MaxVersion is the newest HTTP version the server accepts.
	MaxVersion Version `toml:"http_version"`
}

// DefaultConfig .
func DefaultConfig() Config {
	return Config{
		BufferSize:         DefaultBufferSize,
		MaxRequestLineSize: DefaultMaxRequestLineSize,
		MaxURISize:         DefaultMaxURISize,
		MaxHeaderSize:      DefaultMaxHeaderSize,
		MaxBodySize:        DefaultMaxBodySize,
		MaxVersion:         HTTP11,
	}
}

// Validate .
func (c *Config) Validate() error {
	switch {
	case c.BufferSize <= 0:
		return fmt.Errorf("invalid buffer_size: %d", c.BufferSize)
	case c.MaxRequestLineSize <= 0:
		return fmt.Errorf("invalid max_request_line_size: %d", c.MaxRequestLineSize)
	case c.MaxURISize <= 0:
		return fmt.Errorf("invalid max_uri_size: %d", c.MaxURISize)
	case c.MaxHeaderSize <= 0:
		return fmt.Errorf("invalid max_header_size: %d", c.MaxHeaderSize)
	case c.MaxBodySize < 0:
		return fmt.Errorf("invalid max_body_size: %d", c.MaxBodySize)
	case !c.MaxVersion.Known():
		return errors.New("invalid http_version: " + c.MaxVersion.String())
	}
	return nil
}
