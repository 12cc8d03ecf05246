package client

import (
	"context"

	"github.com/ValerySidorin/smppc/pdu"
)

func (c *Client) BindTransmitter(ctx context.Context, b pdu.Bind) (pdu.BindResp, error) {
	return c.bind(ctx, pdu.BindTransmitterID, b)
}

func (c *Client) BindReceiver(ctx context.Context, b pdu.Bind) (pdu.BindResp, error) {
	return c.bind(ctx, pdu.BindReceiverID, b)
}

func (c *Client) BindTransceiver(ctx context.Context, b pdu.Bind) (pdu.BindResp, error) {
	return c.bind(ctx, pdu.BindTransceiverID, b)
}

// bind runs the bind handshake. A zero interface version is sent as 5.0.
func (c *Client) bind(ctx context.Context, id pdu.CommandID, b pdu.Bind) (pdu.BindResp, error) {
	if b.InterfaceVersion == 0 {
		b.InterfaceVersion = pdu.InterfaceVersion50
	}
	if !c.conf.DisableInterfaceVersionCheck && b.InterfaceVersion > pdu.InterfaceVersion50 {
		return pdu.BindResp{}, &UnsupportedInterfaceVersionError{
			Version:   b.InterfaceVersion,
			Supported: pdu.InterfaceVersion50,
		}
	}

	if !c.sess.transition(StateUnbound, StateBinding) {
		return pdu.BindResp{}, c.stateErr(id.String())
	}

	role := roleOf(id)
	settled := false
	cmd, err := c.request(ctx, id, &b, c.conf.ResponseTimeout, func(res result) result {
		settled = true
		switch {
		case goingDown(res.err):
		case res.err == nil:
			c.sess.bound(role)
			c.l.Info("bound", "role", role, "system_id", b.SystemID)
		case c.conf.BindFailure == BindFailureClose:
			c.shutdown(res.err)
		default:
			c.sess.transition(StateBinding, StateUnbound)
		}
		return res
	})
	if err != nil {
		if !settled {
			// rejected before it reached the wire
			c.sess.transition(StateBinding, StateUnbound)
		}
		return pdu.BindResp{}, err
	}

	resp, _ := cmd.Body.(*pdu.BindResp)
	if resp == nil {
		return pdu.BindResp{}, nil
	}
	return *resp, nil
}

// SubmitSm submits a short message. The session must be bound as
// transmitter or transceiver.
func (c *Client) SubmitSm(ctx context.Context, sm pdu.SubmitSm) (pdu.SubmitSmResp, error) {
	if err := c.requireBound(pdu.SubmitSmID.String(), Role.canTransmit); err != nil {
		return pdu.SubmitSmResp{}, err
	}

	cmd, err := c.request(ctx, pdu.SubmitSmID, &sm, c.conf.ResponseTimeout, nil)
	if err != nil {
		return pdu.SubmitSmResp{}, err
	}

	resp, _ := cmd.Body.(*pdu.SubmitSmResp)
	if resp == nil {
		return pdu.SubmitSmResp{}, nil
	}
	return *resp, nil
}

// DeliverSmResp acknowledges an inbound deliver_sm.
func (c *Client) DeliverSmResp(seq uint32, messageID string) error {
	return c.deliverSmResp(seq, pdu.StatusOK, messageID)
}

// RejectDeliverSm answers an inbound deliver_sm with an error status.
func (c *Client) RejectDeliverSm(seq uint32, status pdu.CommandStatus) error {
	return c.deliverSmResp(seq, status, "")
}

func (c *Client) deliverSmResp(seq uint32, status pdu.CommandStatus, messageID string) error {
	if err := c.requireBound(pdu.DeliverSmRespID.String(), Role.canReceive); err != nil {
		return err
	}

	return c.respond(pdu.DeliverSmRespID, status, seq, &pdu.DeliverSmResp{
		MessageResp: pdu.MessageResp{MessageID: messageID},
	})
}

// EnquireLink checks the link on demand.
func (c *Client) EnquireLink(ctx context.Context) error {
	if err := c.requireBound(pdu.EnquireLinkID.String(), nil); err != nil {
		return err
	}

	_, err := c.request(ctx, pdu.EnquireLinkID, &pdu.Empty{}, c.conf.ResponseTimeout, nil)
	return err
}

// Unbind ends the session. The session closes once the response arrives or
// the request fails, whichever comes first.
func (c *Client) Unbind(ctx context.Context) error {
	if !c.sess.transition(StateBound, StateUnbinding) {
		return c.stateErr(pdu.UnbindID.String())
	}

	_, err := c.request(ctx, pdu.UnbindID, &pdu.Empty{}, c.conf.ResponseTimeout, func(res result) result {
		if !goingDown(res.err) {
			c.shutdown(nil)
		}
		return res
	})
	return err
}

// UnbindResp answers an unbind from the message center and closes the
// session.
func (c *Client) UnbindResp(seq uint32) error {
	if s := c.State(); s != StateUnbinding && s != StateBound {
		return c.stateErr(pdu.UnbindRespID.String())
	}

	err := c.respond(pdu.UnbindRespID, pdu.StatusOK, seq, nil)
	c.shutdown(nil)
	return err
}

// GenericNack rejects an inbound command.
func (c *Client) GenericNack(seq uint32, status pdu.CommandStatus) error {
	if c.State() == StateClosed {
		return ErrConnClosed
	}

	return c.respond(pdu.GenericNackID, status, seq, nil)
}
