// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/lesismal/nbserve/logging"
)

// stdEngine serves each accepted connection on its own goroutine with
// blocking reads.
type stdEngine struct {
	srv *Server

	mux      sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func newStdEngine(srv *Server) *stdEngine {
	e := &stdEngine{srv: srv, conns: map[net.Conn]struct{}{}}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

func (e *stdEngine) start() error {
	ln, err := net.Listen(e.srv.conf.Network, e.srv.conf.Addr())
	if err != nil {
		return err
	}
	e.mux.Lock()
	e.listener = ln
	e.mux.Unlock()

	e.wg.Add(1)
	go e.acceptLoop(ln)
	return nil
}

func (e *stdEngine) addr() string {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.listener == nil {
		return e.srv.conf.Addr()
	}
	return e.listener.Addr().String()
}

func (e *stdEngine) acceptLoop(ln net.Listener) {
	defer e.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if e.isClosed() {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logging.Error("nbserve: accept failed: timeout error, retrying...")
				time.Sleep(time.Second / 20)
				continue
			}
			logging.Error("nbserve: accept failed: %v, exit...", err)
			return
		}
		if !e.track(conn) {
			conn.Close()
			continue
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			defer e.untrack(conn)
			e.srv.ServeConn(e.ctx, conn)
		}()
	}
}

func (e *stdEngine) track(conn net.Conn) bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.closed {
		return false
	}
	if !e.srv.acquire() {
		logging.Warn("nbserve: overload, already has %v online, closing %v", e.srv.conf.MaxLoad, conn.RemoteAddr())
		return false
	}
	e.conns[conn] = struct{}{}
	return true
}

func (e *stdEngine) untrack(conn net.Conn) {
	e.mux.Lock()
	delete(e.conns, conn)
	e.mux.Unlock()
	e.srv.release()
}

func (e *stdEngine) isClosed() bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.closed
}

func (e *stdEngine) shutdown(ctx context.Context) error {
	e.mux.Lock()
	if e.closed {
		e.mux.Unlock()
		return ErrServerClosed
	}
	e.closed = true
	if e.listener != nil {
		e.listener.Close()
	}
	e.mux.Unlock()

	finished := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		e.mux.Lock()
		for conn := range e.conns {
			conn.Close()
		}
		e.mux.Unlock()
		<-finished
		return ctx.Err()
	}
}

// ServeConn reads one request from conn, writes the response and closes
// conn. It reads again only after the parser has drained what it holds.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sess := s.newSession(conn.RemoteAddr().String())
	if s.conf.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.conf.ReadTimeout))
	}

	buf := s.buffers.Malloc(s.conf.BufferSize)
	defer s.buffers.Free(buf)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			done, ferr := sess.feed(buf[:n])
			if ferr != nil {
				s.writeConn(conn, s.reject(sess, ferr))
				return
			}
			if done {
				conn.SetReadDeadline(time.Time{})
				s.writeConn(conn, s.serve(ctx, sess))
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logging.Debug("nbserve: %v closed before a full request", sess.remoteAddr)
			} else {
				logging.Warn("nbserve: read from %v failed: %v", sess.remoteAddr, err)
			}
			return
		}
	}
}

// writeConn sends b and gives it back to the buffer pool.
func (s *Server) writeConn(conn net.Conn, b []byte) {
	defer s.buffers.Free(b)
	if s.conf.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.conf.WriteTimeout))
	}
	if _, err := conn.Write(b); err != nil {
		logging.Warn("nbserve: write to %v failed: %v", conn.RemoteAddr(), err)
	}
}
