// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lesismal/nbio"
	"github.com/lesismal/nbio/taskpool"

	"github.com/lesismal/nbserve/logging"
)

// nbioEngine feeds connections from nbio pollers. Parsing runs on the
// poller goroutine; handlers run on a task pool.
type nbioEngine struct {
	srv    *Server
	engine *nbio.Engine
	pool   *taskpool.TaskPool

	ctx    context.Context
	cancel context.CancelFunc
}

func newNBIOEngine(srv *Server) *nbioEngine {
	conf := srv.conf
	g := nbio.NewEngine(nbio.Config{
		Name:           "nbserve",
		Network:        conf.Network,
		Addrs:          []string{conf.Addr()},
		NPoller:        conf.NPoller,
		ReadBufferSize: conf.BufferSize,
	})

	e := &nbioEngine{srv: srv, engine: g}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	g.OnOpen(e.onOpen)
	g.OnData(e.onData)
	g.OnClose(e.onClose)
	g.OnWrittenSize(e.onWrittenSize)
	return e
}

func (e *nbioEngine) start() error {
	e.pool = taskpool.New(e.srv.conf.HandlerPoolSize, 1024*64)
	if err := e.engine.Start(); err != nil {
		e.pool.Stop()
		return err
	}
	return nil
}

func (e *nbioEngine) shutdown(ctx context.Context) error {
	e.cancel()
	err := e.engine.Shutdown(ctx)
	e.pool.Stop()
	return err
}

// addr is the configured address; Config.Validate rules out port 0.
func (e *nbioEngine) addr() string {
	return e.srv.conf.Addr()
}

func (e *nbioEngine) onOpen(c *nbio.Conn) {
	if !e.srv.acquire() {
		logging.Warn("nbserve: overload, already has %v online, closing %v", e.srv.conf.MaxLoad, c.RemoteAddr())
		c.Close()
		return
	}
	c.SetSession(e.srv.newSession(c.RemoteAddr().String()))
	if e.srv.conf.ReadTimeout > 0 {
		c.SetReadDeadline(time.Now().Add(e.srv.conf.ReadTimeout))
	}
}

func (e *nbioEngine) onClose(c *nbio.Conn, err error) {
	if _, ok := c.Session().(*session); !ok {
		return
	}
	e.srv.release()
	if err != nil {
		logging.Debug("nbserve: %v closed: %v", c.RemoteAddr(), err)
	}
}

// onData is called serially per connection. data is only valid during the
// call; the parser copies what it keeps.
func (e *nbioEngine) onData(c *nbio.Conn, data []byte) {
	sess, ok := c.Session().(*session)
	if !ok {
		c.Close()
		return
	}
	if sess.finished() {
		return
	}

	done, err := sess.feed(data)
	if err != nil {
		e.write(c, sess, e.srv.reject(sess, err))
		return
	}
	if done {
		c.SetReadDeadline(time.Time{})
		e.pool.Go(func() {
			e.write(c, sess, e.srv.serve(e.ctx, sess))
		})
	}
}

// write queues b and closes c once every byte of it has reached the
// socket. nbio drops queued bytes on Close, so a response larger than the
// send buffer is finished from onWrittenSize instead.
func (e *nbioEngine) write(c *nbio.Conn, sess *session, b []byte) {
	sess.out = b
	atomic.StoreInt64(&sess.pending, int64(len(b)))
	if e.srv.conf.WriteTimeout > 0 {
		c.SetWriteDeadline(time.Now().Add(e.srv.conf.WriteTimeout))
	}
	if _, err := c.Write(b); err != nil {
		logging.Warn("nbserve: write to %v failed: %v", c.RemoteAddr(), err)
		e.finish(c, sess)
		return
	}
	atomic.StoreInt32(&sess.written, 1)
	if atomic.LoadInt64(&sess.pending) <= 0 {
		e.finish(c, sess)
	}
}

// onWrittenSize runs with the connection locked, so the close it triggers
// happens on another goroutine.
func (e *nbioEngine) onWrittenSize(c *nbio.Conn, b []byte, n int) {
	sess, ok := c.Session().(*session)
	if !ok || n <= 0 {
		return
	}
	if atomic.AddInt64(&sess.pending, -int64(n)) <= 0 && atomic.LoadInt32(&sess.written) == 1 {
		go e.finish(c, sess)
	}
}

// finish closes c and returns the response buffer to the pool.
func (e *nbioEngine) finish(c *nbio.Conn, sess *session) {
	sess.closeOnce.Do(func() {
		c.Close()
		e.srv.buffers.Free(sess.out)
		sess.out = nil
	})
}
