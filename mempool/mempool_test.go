package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemPool(t *testing.T) {
	const minMemSize = 64
	pool := New(minMemSize, 64*1024)
	for i := 0; i < 128*1024; i += 7 {
		buf := pool.Malloc(i)
		require.Len(t, buf, i)
		pool.Free(buf)
	}
}

func TestMemPoolDefaults(t *testing.T) {
	pool := New(0, 0)
	require.Equal(t, 64, pool.bufSize)
	require.Equal(t, 64, pool.maxSize)

	buf := pool.Malloc(10)
	require.Len(t, buf, 10)
	require.GreaterOrEqual(t, cap(buf), 10)
	pool.Free(buf)

	big := pool.Malloc(1024)
	require.Len(t, big, 1024)
	pool.Free(big)
}
