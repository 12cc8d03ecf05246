// Package test provides a scripted message center for tests and benchmarks.
package test

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

var ErrClosed = errors.New("message center session closed")

// Handler is called on the session read loop for every decoded command.
type Handler func(s *Session, cmd pdu.Command)

// Session is the message center side of one connection. Writes are queued
// and flushed by a dedicated goroutine, so handlers never block on the peer.
type Session struct {
	conn  io.ReadWriteCloser
	codec pdu.Codec
	h     Handler

	recv chan pdu.Command
	out  chan []byte

	seq       atomic.Uint32
	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// NewPipe serves h on one end of an in-memory pipe and returns the other.
func NewPipe(h Handler) (net.Conn, *Session) {
	client, server := net.Pipe()
	return client, Serve(server, h)
}

// Serve runs a message center session on conn.
func Serve(conn io.ReadWriteCloser, h Handler) *Session {
	s := &Session{
		conn: conn,
		h:    h,
		recv: make(chan pdu.Command, 1024),
		out:  make(chan []byte, 1024),
		done: make(chan struct{}),
	}

	go s.readLoop()
	go s.writeLoop()

	return s
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		cmd, err := s.codec.Decode(s.conn)
		if err != nil {
			return
		}

		select {
		case s.recv <- cmd:
		default:
		}

		if s.h != nil {
			s.h(s, cmd)
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case b := <-s.out:
			if _, err := s.conn.Write(b); err != nil {
				s.Close()
				return
			}
		}
	}
}

// Send queues cmd. A zero sequence number is replaced with a fresh one.
func (s *Session) Send(cmd pdu.Command) error {
	if cmd.Sequence == 0 {
		cmd.Sequence = s.seq.Add(1)
	}

	b, err := s.codec.Encode(cmd)
	if err != nil {
		return err
	}

	return s.SendRaw(b)
}

// SendRaw queues bytes as they are.
func (s *Session) SendRaw(b []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	case s.out <- b:
		return nil
	}
}

// Respond answers req with the matching response id.
func (s *Session) Respond(req pdu.Command, status pdu.CommandStatus, body pdu.Body) error {
	return s.Send(pdu.Command{
		ID:       req.ID.Response(),
		Status:   status,
		Sequence: req.Sequence,
		Body:     body,
	})
}

// Received yields every command read from the client.
func (s *Session) Received() <-chan pdu.Command {
	return s.recv
}

// Expect waits for the next command from the client and checks its id.
func (s *Session) Expect(id pdu.CommandID, timeout time.Duration) (pdu.Command, error) {
	select {
	case cmd := <-s.recv:
		if cmd.ID != id {
			return cmd, fmt.Errorf("expected %s, got %s", id, cmd)
		}
		return cmd, nil
	case <-time.After(timeout):
		return pdu.Command{}, fmt.Errorf("expected %s: timed out after %s", id, timeout)
	}
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Fail records err and drops the connection, so a broken script shows up
// on the client as a lost peer instead of a silent missing response.
// ErrClosed and nil are ignored.
func (s *Session) Fail(err error) {
	if err == nil || errors.Is(err, ErrClosed) {
		return
	}

	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()

	s.Close()
}

// Err returns the first error passed to Fail.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// AutoResponder answers every request a well behaved message center would:
// binds succeed with sc_interface_version 5.0, submits get sequential message
// ids, enquire_link and unbind are acknowledged.
func AutoResponder() Handler {
	var ids atomic.Uint64

	return func(s *Session, cmd pdu.Command) {
		switch cmd.ID {
		case pdu.BindTransmitterID, pdu.BindReceiverID, pdu.BindTransceiverID:
			s.Fail(s.Respond(cmd, pdu.StatusOK, &pdu.BindResp{
				SystemID: "smsc",
				TLVs:     []pdu.TLV{{Tag: pdu.TagScInterfaceVersion, Value: []byte{pdu.InterfaceVersion50}}},
			}))
		case pdu.SubmitSmID:
			s.Fail(s.Respond(cmd, pdu.StatusOK, &pdu.SubmitSmResp{
				MessageResp: pdu.MessageResp{MessageID: fmt.Sprintf("msg-%d", ids.Add(1))},
			}))
		case pdu.EnquireLinkID, pdu.UnbindID:
			s.Fail(s.Respond(cmd, pdu.StatusOK, nil))
		}
	}
}
