// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mempool recycles connection read buffers and response buffers.
package mempool

import (
	"sync"
)

// MemPool hands out byte slices backed by a sync.Pool. Slices larger than
// maxSize are allocated directly and never kept.
type MemPool struct {
	bufSize int
	maxSize int
	pool    sync.Pool
}

// New .
func New(bufSize, maxSize int) *MemPool {
	if bufSize <= 0 {
		bufSize = 64
	}
	if maxSize < bufSize {
		maxSize = bufSize
	}
	mp := &MemPool{bufSize: bufSize, maxSize: maxSize}
	mp.pool.New = func() interface{} {
		buf := make([]byte, bufSize)
		return &buf
	}
	return mp
}

// Malloc returns a slice of length size.
func (mp *MemPool) Malloc(size int) []byte {
	if size > mp.maxSize {
		return make([]byte, size)
	}
	pbuf := mp.pool.Get().(*[]byte)
	if cap(*pbuf) < size {
		*pbuf = make([]byte, size)
	}
	return (*pbuf)[:size]
}

// Free returns buf to the pool. buf must not be used afterwards.
func (mp *MemPool) Free(buf []byte) {
	if cap(buf) > mp.maxSize || cap(buf) == 0 {
		return
	}
	buf = buf[:0]
	mp.pool.Put(&buf)
}
