package client

import (
	"bufio"
	"errors"
	"io"

	"github.com/ValerySidorin/smppc/pdu"
)

// readLoop is the only reader of the stream.
func (c *Client) readLoop() {
	defer c.wg.Done()

	br := bufio.NewReaderSize(c.rw, ReadBufferSize)
	for {
		cmd, err := c.codec.Decode(br)
		if err != nil {
			if c.closing() {
				return
			}

			var derr *pdu.DecodeError
			switch {
			case errors.As(err, &derr) && !derr.Fatal:
				c.reject(derr)
				continue
			case errors.As(err, &derr):
				c.shutdown(err)
			case errors.Is(err, io.EOF):
				c.shutdown(ErrConnClosed)
			default:
				c.shutdown(&IOError{Op: "read", Err: err})
			}
			return
		}

		if c.closing() {
			return
		}

		c.obs.CommandReceived(cmd.ID)
		c.l.Debug("command received", "command_id", cmd.ID, "sequence", cmd.Sequence, "status", cmd.Status)

		c.handle(cmd)
	}
}

func (c *Client) handle(cmd pdu.Command) {
	if cmd.ID.IsResponse() {
		if c.cm.resolve(cmd) {
			return
		}
		c.l.Warn("unexpected response", "command_id", cmd.ID, "sequence", cmd.Sequence)
		c.ev.push(&IncomingEvent{Command: cmd})
		return
	}

	switch cmd.ID {
	case pdu.EnquireLinkID:
		if err := c.respond(pdu.EnquireLinkRespID, pdu.StatusOK, cmd.Sequence, nil); err != nil {
			c.l.Error("reply enquire link", "err", err)
		}
		return
	case pdu.UnbindID:
		c.sess.transition(StateBound, StateUnbinding)
	}

	c.ev.push(&IncomingEvent{Command: cmd})
}

// reject answers a command the codec refused with generic_nack.
func (c *Client) reject(derr *pdu.DecodeError) {
	c.l.Warn("reject command", "err", derr)

	if err := c.respond(pdu.GenericNackID, pdu.StatusInvCmdID, derr.Header.Sequence, nil); err != nil {
		c.l.Error("reply generic nack", "err", err)
	}

	c.ev.push(&ErrorEvent{Err: derr})
}
