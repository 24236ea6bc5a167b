package transfer

import (
	"io"
	"sync/atomic"
)

var _ io.Reader = (*countingReader)(nil)

// countingReader wraps a reader and reports the cumulative byte count after
// every read. Counts are monotonically non-decreasing.
type countingReader struct {
	r      io.Reader
	read   atomic.Int64
	onRead func(sent int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		sent := c.read.Add(int64(n))
		if c.onRead != nil {
			c.onRead(sent)
		}
	}
	return n, err
}

// BytesRead returns the number of bytes consumed so far.
func (c *countingReader) BytesRead() int64 {
	return c.read.Load()
}
