package api

import (
	"bytes"
	"sync"
)

// bufferPool reuses byte buffers for request bodies. Review instructions
// carry the whole manuscript, so bodies are often tens of kilobytes.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// getBuffer retrieves an empty buffer from the pool.
// Caller must call putBuffer() when done.
func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool. Buffers that grew past
// maxPooledBuffer are dropped so one huge manuscript is not kept alive.
func putBuffer(buf *bytes.Buffer) {
	const maxPooledBuffer = 256 * 1024
	if buf.Cap() <= maxPooledBuffer {
		bufferPool.Put(buf)
	}
}
