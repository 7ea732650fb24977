// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var crlf = []byte("\r\n")

// Parser reads one request from bytes fed in receipt order. It never does
// I/O. A Parser belongs to one connection and must not be fed concurrently.
type Parser struct {
	conf *Config
	buf  buffer

	state State
	err   error

	// header section bytes consumed so far, across feeds
	headerBytes int
}

// NewParser .
func NewParser(conf *Config) *Parser {
	return &Parser{
		conf: conf,
		buf:  newBuffer(conf.BufferSize),
	}
}

// State .
func (p *Parser) State() State {
	return p.state
}

// Buffered returns the number of fed bytes not yet consumed.
func (p *Parser) Buffered() int {
	return p.buf.len()
}

// Available returns how many bytes the next Feed can accept.
func (p *Parser) Available() int {
	return p.buf.available()
}

// Reset readies p for a new request, keeping its buffer.
func (p *Parser) Reset() {
	p.buf.reset()
	p.state = StateRequestLine
	p.err = nil
	p.headerBytes = 0
}

// Feed appends data to the buffer and runs as many stages as the buffered
// bytes allow. It stops at Incomplete, at HeadersDone, or at Done. Feeding
// an empty slice drains bytes buffered by earlier calls.
//
// A failure is final: later calls return the same error.
func (p *Parser) Feed(data []byte, req *Request) (Outcome, error) {
	if p.err != nil {
		return Incomplete, p.err
	}
	if p.state == StateDone {
		return Done, nil
	}
	if err := p.buf.append(data); err != nil {
		p.err = err
		return Incomplete, err
	}

	for {
		var (
			outcome Outcome
			err     error
		)
		switch p.state {
		case StateRequestLine:
			outcome, err = p.parseRequestLine(req)
		case StateHeaders:
			outcome, err = p.parseHeaders(req)
		case StateBody:
			outcome, err = p.parseBody(req)
		default:
			return Done, nil
		}
		if err != nil {
			p.err = err
			return Incomplete, err
		}
		if outcome != OK {
			return outcome, nil
		}
	}
}

func (p *Parser) nextState(state State) {
	if state > p.state {
		p.state = state
	}
}

func (p *Parser) parseRequestLine(req *Request) (Outcome, error) {
	end := p.buf.index(crlf)
	if end < 0 {
		if p.buf.len() > p.conf.MaxRequestLineSize {
			return Incomplete, fmt.Errorf("%w: request line exceeds %d bytes", ErrMalformed, p.conf.MaxRequestLineSize)
		}
		return Incomplete, nil
	}
	if end > p.conf.MaxRequestLineSize {
		return Incomplete, fmt.Errorf("%w: request line of %d bytes exceeds %d", ErrMalformed, end, p.conf.MaxRequestLineSize)
	}

	line := p.buf.bytes()[:end]
	if !utf8.Valid(line) {
		return Incomplete, fmt.Errorf("%w: request line is not valid utf-8", ErrMalformed)
	}
	parts := bytes.Split(line, []byte{' '})
	if len(parts) != 3 {
		return Incomplete, fmt.Errorf("%w: request line has %d fields", ErrMalformed, len(parts))
	}

	method := ParseMethod(string(parts[0]))
	if method == MethodUnknown {
		return Incomplete, fmt.Errorf("%w: unknown method %q", ErrMalformed, parts[0])
	}

	target := parts[1]
	if len(target) == 0 {
		return Incomplete, fmt.Errorf("%w: empty request target", ErrMalformed)
	}
	if len(target) > p.conf.MaxURISize {
		return Incomplete, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLongURI, len(target), p.conf.MaxURISize)
	}

	version, ok := parseVersion(parts[2])
	if !ok {
		return Incomplete, fmt.Errorf("%w: invalid version %q", ErrMalformed, parts[2])
	}

	req.Method = method
	req.Target = string(target)
	req.Version = version

	p.buf.consume(end + len(crlf))
	p.nextState(StateHeaders)
	return OK, nil
}

// parseHeaders handles every complete header line in the buffer. Lines are
// consumed once, when the stage returns.
func (p *Parser) parseHeaders(req *Request) (Outcome, error) {
	offset := 0
	defer func() {
		p.buf.consume(offset)
	}()

	for {
		data := p.buf.bytes()[offset:]
		end := bytes.Index(data, crlf)
		if end < 0 {
			if offset == 0 && p.buf.full() {
				return Incomplete, fmt.Errorf("%w: header line exceeds buffer size %d", ErrMalformed, p.buf.cap())
			}
			return Incomplete, nil
		}

		p.headerBytes += end + len(crlf)
		if p.headerBytes > p.conf.MaxHeaderSize {
			return Incomplete, fmt.Errorf("%w: header section exceeds %d bytes", ErrMalformed, p.conf.MaxHeaderSize)
		}
		offset += end + len(crlf)

		if end == 0 {
			p.nextState(StateBody)
			return HeadersDone, nil
		}
		if err := parseHeaderLine(req, data[:end]); err != nil {
			return Incomplete, err
		}
	}
}

func parseHeaderLine(req *Request, line []byte) error {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return fmt.Errorf("%w: header line without colon", ErrMalformed)
	}

	name := line[:colon]
	if len(name) == 0 {
		return fmt.Errorf("%w: empty header name", ErrMalformed)
	}
	for _, c := range name {
		if !isToken(c) {
			return fmt.Errorf("%w: invalid character %q in header name", ErrMalformed, c)
		}
	}

	value := line[colon+1:]
	for _, c := range value {
		if isValueCtl(c) {
			return fmt.Errorf("%w: control character 0x%02x in header %q", ErrMalformed, c, name)
		}
	}
	if !utf8.Valid(value) {
		return fmt.Errorf("%w: header %q is not valid utf-8", ErrMalformed, name)
	}
	value = bytes.Trim(value, " \t")

	canonical, ok := recognizedHeader(name)
	if !ok {
		return nil
	}
	if canonical == HeaderContentLength {
		n, err := parseContentLength(value)
		if err != nil {
			return err
		}
		req.setContentLength(n)
	}
	req.Header.Set(canonical, string(value))
	return nil
}

func parseContentLength(value []byte) (int64, error) {
	if len(value) == 0 {
		return 0, fmt.Errorf("%w: empty content-length", ErrMalformed)
	}
	for _, c := range value {
		if !isDigit(c) {
			return 0, fmt.Errorf("%w: invalid content-length %q", ErrMalformed, value)
		}
	}
	n, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: content-length %q: %v", ErrMalformed, value, err)
	}
	return n, nil
}

func (p *Parser) parseBody(req *Request) (Outcome, error) {
	declared, ok := req.ContentLength()
	if !ok {
		p.nextState(StateDone)
		return Done, nil
	}

	received := int64(len(req.Body))
	n := declared - received
	if buffered := int64(p.buf.len()); buffered < n {
		n = buffered
	}
	if received+n > p.conf.MaxBodySize {
		return Incomplete, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformed, p.conf.MaxBodySize)
	}

	if n > 0 {
		if req.Body == nil && declared <= p.conf.MaxBodySize {
			req.Body = make([]byte, 0, declared)
		}
		req.Body = append(req.Body, p.buf.bytes()[:n]...)
		p.buf.consume(int(n))
	}

	if int64(len(req.Body)) == declared {
		p.nextState(StateDone)
		return Done, nil
	}
	return Incomplete, nil
}
