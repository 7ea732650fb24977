// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lesismal/nbserve/http1"
	"github.com/lesismal/nbserve/logging"
	"github.com/lesismal/nbserve/mempool"
	"github.com/lesismal/nbserve/status"
)

// ErrServerClosed .
var ErrServerClosed = errors.New("server closed")

type engine interface {
	start() error
	shutdown(ctx context.Context) error
	addr() string
}

// Server reads one request per connection, hands it to a net/http
// handler, writes the response and closes the connection.
type Server struct {
	conf      *Config
	handler   http.Handler
	validator *http1.Validator
	engine    engine
	buffers   *mempool.MemPool

	online int64
}

// New .
func New(conf *Config, handler http.Handler) (*Server, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		handler = NewRouter(conf)
	}
	s := &Server{
		conf:      conf,
		handler:   handler,
		validator: http1.NewValidator(&conf.Config),
		buffers:   mempool.New(conf.BufferSize, maxPooledBuffer(conf.BufferSize)),
	}
	switch conf.Engine {
	case EngineStd:
		s.engine = newStdEngine(s)
	default:
		s.engine = newNBIOEngine(s)
	}
	return s, nil
}

func maxPooledBuffer(bufferSize int) int {
	if bufferSize > 64*1024 {
		return bufferSize
	}
	return 64 * 1024
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	if err := s.engine.start(); err != nil {
		return err
	}
	logging.Info("nbserve[%v] serving HTTP on %v@%v", s.conf.Engine, s.conf.Network, s.engine.addr())
	return nil
}

// Shutdown stops accepting and waits for open connections until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.engine.shutdown(ctx)
}

// Addr returns the bound listening address.
func (s *Server) Addr() string {
	return s.engine.addr()
}

// Online returns the number of open connections.
func (s *Server) Online() int64 {
	return atomic.LoadInt64(&s.online)
}

func (s *Server) newSession(remoteAddr string) *session {
	return newSession(&s.conf.Config, s.validator, remoteAddr)
}

// acquire counts a new connection and reports whether it is within MaxLoad.
func (s *Server) acquire() bool {
	if atomic.AddInt64(&s.online, 1) > int64(s.conf.MaxLoad) {
		atomic.AddInt64(&s.online, -1)
		return false
	}
	return true
}

func (s *Server) release() {
	atomic.AddInt64(&s.online, -1)
}

// serve runs the handler for a complete request and returns the encoded
// response. The result comes from s.buffers; callers that own it after
// the write hand it back with Free.
func (s *Server) serve(ctx context.Context, sess *session) []byte {
	req := sess.request
	res := NewResponse()
	res.head = req.Method == http1.MethodHead

	r, err := toStdRequest(ctx, req, sess.remoteAddr)
	if err != nil {
		logging.Debug("nbserve: %v rejected: %v", sess.remoteAddr, err)
		return s.encodeError(status.FromError(err))
	}

	if !s.callHandler(res, r) {
		return s.encodeError(http.StatusInternalServerError)
	}
	compress(req.AcceptEncoding(), res)
	logging.Debug("nbserve: %v %v %v -> %d", sess.remoteAddr, req.Method, req.Target, res.StatusCode())
	return res.encode(s.buffers.Malloc(0), s.conf.ServerName, time.Now())
}

func (s *Server) callHandler(res *Response, r *http.Request) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			logging.Error("nbserve: handler panic on %v %v: %v", r.Method, r.RequestURI, err)
			ok = false
		}
	}()
	s.handler.ServeHTTP(res, r)
	return true
}

// encodeError returns the encoded error page for code.
func (s *Server) encodeError(code int) []byte {
	return errorResponse(code).encode(s.buffers.Malloc(0), s.conf.ServerName, time.Now())
}

// reject returns the encoded response for a Parser or Validator failure.
func (s *Server) reject(sess *session, err error) []byte {
	code := status.FromError(err)
	logging.Debug("nbserve: %v rejected with %d: %v", sess.remoteAddr, code, err)
	return s.encodeError(code)
}
