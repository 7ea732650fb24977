// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"bytes"
	"fmt"
)

// buffer holds the bytes fed to a Parser but not yet consumed by a stage.
// Unconsumed bytes always start at offset 0; the backing array is allocated
// once and never grows.
type buffer struct {
	data []byte
}

func newBuffer(size int) buffer {
	return buffer{data: make([]byte, 0, size)}
}

func (b *buffer) len() int {
	return len(b.data)
}

func (b *buffer) cap() int {
	return cap(b.data)
}

func (b *buffer) available() int {
	return cap(b.data) - len(b.data)
}

func (b *buffer) full() bool {
	return len(b.data) == cap(b.data)
}

func (b *buffer) bytes() []byte {
	return b.data
}

func (b *buffer) append(p []byte) error {
	if len(b.data)+len(p) > cap(b.data) {
		return fmt.Errorf("%w: %d buffered + %d fed > %d", ErrBufferOverflow, len(b.data), len(p), cap(b.data))
	}
	b.data = append(b.data, p...)
	return nil
}

func (b *buffer) index(delim []byte) int {
	return bytes.Index(b.data, delim)
}

// consume drops the first n bytes and moves the rest to the front.
func (b *buffer) consume(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	m := copy(b.data, b.data[n:])
	b.data = b.data[:m]
}

func (b *buffer) reset() {
	b.data = b.data[:0]
}
