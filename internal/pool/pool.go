// Package pool keeps size-classed byte buffers for PDU frames.
package pool

import "sync"

const (
	smallSize  = 64
	mediumSize = 512
	largeSize  = 4096
)

var (
	small = sync.Pool{New: func() any {
		b := make([]byte, 0, smallSize)
		return &b
	}}
	medium = sync.Pool{New: func() any {
		b := make([]byte, 0, mediumSize)
		return &b
	}}
	large = sync.Pool{New: func() any {
		b := make([]byte, 0, largeSize)
		return &b
	}}
)

// Get returns an empty buffer with capacity of at least n.
func Get(n int) []byte {
	switch {
	case n <= smallSize:
		return (*small.Get().(*[]byte))[:0]
	case n <= mediumSize:
		return (*medium.Get().(*[]byte))[:0]
	case n <= largeSize:
		return (*large.Get().(*[]byte))[:0]
	}
	return make([]byte, 0, n)
}

// Put hands b back. Buffers of foreign capacity are dropped.
func Put(b []byte) {
	b = b[:0]
	switch cap(b) {
	case smallSize:
		small.Put(&b)
	case mediumSize:
		medium.Put(&b)
	case largeSize:
		large.Put(&b)
	}
}
