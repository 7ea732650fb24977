// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"sync"

	"github.com/lesismal/nbserve/http1"
)

// session is the per-connection read state: one parser, one request.
// It is fed by a single goroutine at a time.
type session struct {
	parser    *http1.Parser
	validator *http1.Validator
	request   *http1.Request

	remoteAddr string
	done       bool
	err        error

	// response bytes the nbio engine has queued but not yet written
	pending   int64
	written   int32
	out       []byte
	closeOnce sync.Once
}

func newSession(conf *http1.Config, validator *http1.Validator, remoteAddr string) *session {
	return &session{
		parser:     http1.NewParser(conf),
		validator:  validator,
		request:    http1.NewRequest(),
		remoteAddr: remoteAddr,
	}
}

// feed delivers received bytes, splitting them to fit the parser buffer.
// It runs the validator at the headers checkpoint and reports whether the
// request is complete. Bytes after a complete request are ignored, and
// a failure is returned again on every later call.
func (s *session) feed(data []byte) (done bool, err error) {
	if s.done || s.err != nil {
		return s.done, s.err
	}
	defer func() {
		s.done, s.err = done, err
	}()
	for {
		n := len(data)
		if avail := s.parser.Available(); n > avail {
			n = avail
		}
		outcome, err := s.parser.Feed(data[:n], s.request)
		if err != nil {
			return false, err
		}
		data = data[n:]

		switch outcome {
		case http1.HeadersDone:
			if err := s.validator.Validate(s.request); err != nil {
				return false, err
			}
			// drain the body bytes already buffered
			continue
		case http1.Done:
			return true, nil
		}

		if len(data) == 0 {
			return false, nil
		}
		if s.parser.Available() == 0 {
			return false, fmt.Errorf("%w: no progress with %d bytes buffered", http1.ErrBufferOverflow, s.parser.Buffered())
		}
	}
}

// finished reports whether the request completed or failed.
func (s *session) finished() bool {
	return s.done || s.err != nil
}
