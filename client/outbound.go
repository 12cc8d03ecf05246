package client

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// outbound serializes writes of whole frames onto the stream.
type outbound struct {
	w      io.Writer
	wdl    time.Duration // write deadline
	mu     sync.Mutex
	closed atomic.Bool

	l *slog.Logger
}

func newOutbound(w io.Writer, wdl time.Duration, l *slog.Logger) *outbound {
	return &outbound{
		w:   w,
		wdl: wdl,
		l:   l,
	}
}

// send writes frame in full or fails with ErrConnClosed or an *IOError.
func (o *outbound) send(frame []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed.Load() {
		return ErrConnClosed
	}

	if d, ok := o.w.(writeDeadliner); ok && o.wdl > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(o.wdl)); err != nil {
			o.l.Debug("set write deadline", "err", err)
		}
	}

	if _, err := o.w.Write(frame); err != nil {
		return &IOError{Op: "write", Err: err}
	}

	return nil
}

// close stops accepting writes. Writes already holding the lock finish.
func (o *outbound) close() {
	o.closed.Store(true)
}
