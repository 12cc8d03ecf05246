package client

import (
	"context"
	"errors"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

// keepalive sends enquire_link every interval while the session is bound.
// Unless concurrent keepalives are enabled, a tick is skipped while the
// previous enquire_link is outstanding.
func (c *Client) keepalive() {
	defer c.wg.Done()

	t := time.NewTicker(c.conf.EnquireLinkInterval)
	defer t.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			if c.State() != StateBound {
				continue
			}

			if !c.keepaliveBusy.CompareAndSwap(false, true) && !c.conf.ConcurrentKeepalives {
				c.l.Debug("keepalive: enquire link outstanding, skipping tick")
				continue
			}

			go c.enquireLink()
		}
	}
}

func (c *Client) enquireLink() {
	defer c.keepaliveBusy.Store(false)

	timeout := c.conf.EnquireLinkResponseTimeout
	_, err := c.request(context.Background(), pdu.EnquireLinkID, &pdu.Empty{}, timeout, func(res result) result {
		if errors.Is(res.err, ErrTimeout) {
			c.shutdown(&EnquireLinkTimeoutError{Timeout: timeout})
		}
		return res
	})
	if err != nil && !goingDown(err) && !errors.Is(err, ErrTimeout) {
		c.l.Warn("keepalive", "err", err)
	}
}
