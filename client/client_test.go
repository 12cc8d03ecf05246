package client_test

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/ValerySidorin/smppc/test"
	"github.com/ValerySidorin/smppc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/sync/errgroup"
)

var credentials = pdu.Bind{SystemID: "test", Password: "test"}

func newSession(t *testing.T, h test.Handler, opts ...client.Option) (*client.Client, <-chan client.Event, *test.Session) {
	t.Helper()

	conn, mc := test.NewPipe(h)
	opts = append([]client.Option{client.WithEnquireLinkInterval(-1)}, opts...)

	c, events, err := client.NewClient(conn, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mc.Err(), "message center script")
		_ = c.Close()
		_ = mc.Close()
		_ = conn.Close()
	})

	return c, events, mc
}

func bound(t *testing.T, h test.Handler, opts ...client.Option) (*client.Client, <-chan client.Event, *test.Session) {
	t.Helper()

	c, events, mc := newSession(t, h, opts...)
	_, err := c.BindTransceiver(t.Context(), credentials)
	require.NoError(t, err)
	_, err = mc.Expect(pdu.BindTransceiverID, time.Second)
	require.NoError(t, err)

	return c, events, mc
}

// ignoring answers like test.AutoResponder except for ids.
func ignoring(ids ...pdu.CommandID) test.Handler {
	auto := test.AutoResponder()
	return func(s *test.Session, cmd pdu.Command) {
		if slices.Contains(ids, cmd.ID) {
			return
		}
		auto(s, cmd)
	}
}

func nextEvent(t *testing.T, events <-chan client.Event) client.Event {
	t.Helper()

	select {
	case ev, ok := <-events:
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}
	return nil
}

func drain(t *testing.T, events <-chan client.Event) []client.Event {
	t.Helper()

	var out []client.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("event stream not closed")
			return nil
		}
	}
}

func waitClosed(t *testing.T, c *client.Client) {
	t.Helper()

	select {
	case <-c.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("session not closed")
	}
}

func submit(text string) pdu.SubmitSm {
	return pdu.SubmitSm{Message: pdu.Message{
		SourceAddr:      "smppc",
		DestinationAddr: "491701234567",
		ShortMessage:    []byte(text),
	}}
}

type recorder struct {
	mu          sync.Mutex
	transitions []string
	sent        []pdu.CommandID
}

func (r *recorder) CommandSent(id pdu.CommandID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, id)
}

func (r *recorder) CommandReceived(pdu.CommandID)                   {}
func (r *recorder) RequestDone(pdu.CommandID, time.Duration, error) {}

func (r *recorder) StateChanged(from, to client.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, fmt.Sprintf("%s->%s", from, to))
}

func (r *recorder) Transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.transitions)
}

func TestBind(t *testing.T) {
	c, _, mc := newSession(t, test.AutoResponder())
	assert.Equal(t, client.StateUnbound, c.State())

	resp, err := c.BindTransceiver(t.Context(), credentials)
	require.NoError(t, err)

	assert.Equal(t, "smsc", resp.SystemID)
	v, ok := resp.InterfaceVersion()
	assert.True(t, ok)
	assert.Equal(t, pdu.InterfaceVersion50, v)

	assert.Equal(t, client.StateBound, c.State())
	assert.Equal(t, client.RoleTransceiver, c.Role())
	assert.True(t, c.IsActive())
	assert.Zero(t, c.Pending())

	req, err := mc.Expect(pdu.BindTransceiverID, time.Second)
	require.NoError(t, err)
	body := req.Body.(*pdu.Bind)
	assert.Equal(t, "test", body.SystemID)
	assert.Equal(t, "test", body.Password)
	assert.Equal(t, pdu.InterfaceVersion50, body.InterfaceVersion)
}

func TestMisroutedResponse(t *testing.T) {
	auto := test.AutoResponder()
	h := func(s *test.Session, cmd pdu.Command) {
		if cmd.ID == pdu.SubmitSmID {
			assert.NoError(t, s.Send(pdu.Command{
				ID:       pdu.SubmitSmRespID,
				Sequence: cmd.Sequence + 100,
				Body:     &pdu.SubmitSmResp{MessageResp: pdu.MessageResp{MessageID: "stray"}},
			}))
			return
		}
		auto(s, cmd)
	}
	c, events, _ := bound(t, h, client.WithResponseTimeout(200*time.Millisecond))

	_, err := c.SubmitSm(t.Context(), submit("hello"))
	assert.ErrorIs(t, err, client.ErrTimeout)
	assert.Equal(t, client.KindResponseTimeout, client.KindOf(err))

	ev := nextEvent(t, events)
	in, ok := ev.(*client.IncomingEvent)
	require.True(t, ok)
	assert.Equal(t, pdu.SubmitSmRespID, in.Command.ID)
	assert.Equal(t, "stray", in.Command.Body.(*pdu.SubmitSmResp).MessageID)

	assert.Equal(t, client.StateBound, c.State())
}

func TestResponseTimeout(t *testing.T) {
	const timeout = 200 * time.Millisecond
	c, _, _ := bound(t, ignoring(pdu.SubmitSmID), client.WithResponseTimeout(timeout))

	start := time.Now()
	_, err := c.SubmitSm(t.Context(), submit("hello"))
	elapsed := time.Since(start)

	var terr *client.ResponseTimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, timeout, terr.Timeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Zero(t, c.Pending())
	assert.Equal(t, client.StateBound, c.State())
}

func TestDeliverSm(t *testing.T) {
	c, events, mc := bound(t, test.AutoResponder())

	require.NoError(t, mc.Send(pdu.Command{
		ID:       pdu.DeliverSmID,
		Sequence: 31,
		Body: &pdu.DeliverSm{Message: pdu.Message{
			SourceAddr:      "491701234567",
			DestinationAddr: "smppc",
			ShortMessage:    []byte("hi there"),
		}},
	}))

	ev := nextEvent(t, events)
	in, ok := ev.(*client.IncomingEvent)
	require.True(t, ok)
	assert.Equal(t, pdu.DeliverSmID, in.Command.ID)
	assert.Equal(t, []byte("hi there"), in.Command.Body.(*pdu.DeliverSm).ShortMessage)
	assert.Zero(t, c.Pending())

	require.NoError(t, c.DeliverSmResp(in.Command.Sequence, "id"))
	assert.Zero(t, c.Pending())

	resp, err := mc.Expect(pdu.DeliverSmRespID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(31), resp.Sequence)
	assert.Equal(t, pdu.StatusOK, resp.Status)
	assert.Equal(t, "id", resp.Body.(*pdu.DeliverSmResp).MessageID)
}

func TestRejectDeliverSm(t *testing.T) {
	c, _, mc := bound(t, test.AutoResponder())

	require.NoError(t, c.RejectDeliverSm(12, pdu.StatusRxTAppn))

	resp, err := mc.Expect(pdu.DeliverSmRespID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), resp.Sequence)
	assert.Equal(t, pdu.StatusRxTAppn, resp.Status)
}

func TestUnbindThenClose(t *testing.T) {
	rec := &recorder{}
	c, events, mc := bound(t, test.AutoResponder(), client.WithObserver(rec))

	require.NoError(t, c.Unbind(t.Context()))
	require.NoError(t, c.Close())
	waitClosed(t, c)

	_, err := mc.Expect(pdu.UnbindID, time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"unbound->binding",
		"binding->bound",
		"bound->unbinding",
		"unbinding->closed",
	}, rec.Transitions())
	assert.True(t, c.IsClosed())
	assert.NoError(t, c.Err())
	assert.Empty(t, drain(t, events))

	require.NoError(t, c.Close())
}

func TestInvalidState(t *testing.T) {
	c, _, mc := newSession(t, test.AutoResponder())

	_, err := c.SubmitSm(t.Context(), submit("early"))
	var serr *client.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, client.StateUnbound, serr.State)

	assert.ErrorIs(t, c.Unbind(t.Context()), client.ErrInvalidState)
	assert.ErrorIs(t, c.DeliverSmResp(1, ""), client.ErrInvalidState)
	assert.ErrorIs(t, c.EnquireLink(t.Context()), client.ErrInvalidState)

	select {
	case cmd := <-mc.Received():
		t.Fatalf("unexpected command on the wire: %s", cmd)
	case <-time.After(50 * time.Millisecond):
	}

	_, err = c.BindTransmitter(t.Context(), credentials)
	require.NoError(t, err)

	_, err = c.BindTransmitter(t.Context(), credentials)
	assert.ErrorIs(t, err, client.ErrInvalidState)
	assert.ErrorIs(t, c.DeliverSmResp(1, ""), client.ErrInvalidState)
}

func TestReceiverCannotSubmit(t *testing.T) {
	c, _, _ := newSession(t, test.AutoResponder())

	_, err := c.BindReceiver(t.Context(), credentials)
	require.NoError(t, err)
	assert.Equal(t, client.RoleReceiver, c.Role())

	_, err = c.SubmitSm(t.Context(), submit("nope"))
	assert.ErrorIs(t, err, client.ErrInvalidState)
}

func TestClosedRejectsRequests(t *testing.T) {
	c, events, _ := bound(t, test.AutoResponder())

	require.NoError(t, c.Close())
	waitClosed(t, c)
	assert.Empty(t, drain(t, events))

	_, err := c.SubmitSm(t.Context(), submit("late"))
	assert.ErrorIs(t, err, client.ErrConnClosed)
	_, err = c.BindTransceiver(t.Context(), credentials)
	assert.ErrorIs(t, err, client.ErrConnClosed)
	assert.ErrorIs(t, c.GenericNack(1, pdu.StatusSysErr), client.ErrConnClosed)
	assert.Equal(t, client.KindConnectionClosed, client.KindOf(err))
}

func TestCloseCancelsPending(t *testing.T) {
	c, events, _ := bound(t, ignoring(pdu.SubmitSmID), client.WithResponseTimeout(-1))

	const n = 10
	g, ctx := errgroup.WithContext(t.Context())
	for range n {
		g.Go(func() error {
			_, err := c.SubmitSm(ctx, submit("pending"))
			if !errors.Is(err, client.ErrConnClosed) {
				return fmt.Errorf("expected connection closed, got %v", err)
			}
			return nil
		})
	}

	require.Eventually(t, func() bool { return c.Pending() == n }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, g.Wait())
	waitClosed(t, c)

	assert.Zero(t, c.Pending())
	assert.Empty(t, drain(t, events))
}

func TestConcurrentSubmits(t *testing.T) {
	c, _, _ := bound(t, test.AutoResponder())

	const n = 50
	var mu sync.Mutex
	ids := make(map[string]struct{}, n)

	g, ctx := errgroup.WithContext(t.Context())
	for range n {
		g.Go(func() error {
			resp, err := c.SubmitSm(ctx, submit("concurrent"))
			if err != nil {
				return err
			}
			mu.Lock()
			ids[resp.MessageID] = struct{}{}
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Len(t, ids, n)
	assert.Zero(t, c.Pending())
}

func TestBindFailureRetry(t *testing.T) {
	auto := test.AutoResponder()
	var attempts int
	h := func(s *test.Session, cmd pdu.Command) {
		if cmd.ID == pdu.BindTransceiverID {
			attempts++
			if attempts == 1 {
				assert.NoError(t, s.Respond(cmd, pdu.StatusInvPaswd, nil))
				return
			}
		}
		auto(s, cmd)
	}
	c, _, _ := newSession(t, h)

	_, err := c.BindTransceiver(t.Context(), credentials)
	var uerr *client.UnexpectedResponseError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, pdu.StatusInvPaswd, uerr.Status())
	assert.Equal(t, client.StateUnbound, c.State())

	_, err = c.BindTransceiver(t.Context(), credentials)
	require.NoError(t, err)
	assert.Equal(t, client.StateBound, c.State())
}

func TestBindFailureClose(t *testing.T) {
	h := func(s *test.Session, cmd pdu.Command) {
		assert.NoError(t, s.Respond(cmd, pdu.StatusBindFail, nil))
	}
	c, events, _ := newSession(t, h, client.WithBindFailurePolicy(client.BindFailureClose))

	_, err := c.BindTransceiver(t.Context(), credentials)
	assert.ErrorIs(t, err, client.ErrUnexpectedResponse)

	waitClosed(t, c)
	assert.ErrorIs(t, c.Err(), client.ErrUnexpectedResponse)

	evs := drain(t, events)
	require.Len(t, evs, 1)
	eev := evs[0].(*client.ErrorEvent)
	assert.True(t, eev.Terminal)
	assert.Equal(t, client.KindUnexpectedResponse, eev.Kind())
}

func TestBindTimeout(t *testing.T) {
	c, _, _ := newSession(t, ignoring(pdu.BindTransceiverID), client.WithResponseTimeout(100*time.Millisecond))

	_, err := c.BindTransceiver(t.Context(), credentials)
	assert.ErrorIs(t, err, client.ErrTimeout)
	assert.Equal(t, client.StateUnbound, c.State())
}

func TestUnsupportedInterfaceVersion(t *testing.T) {
	c, _, mc := newSession(t, test.AutoResponder())

	b := credentials
	b.InterfaceVersion = 0x51
	_, err := c.BindTransceiver(t.Context(), b)

	var verr *client.UnsupportedInterfaceVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, byte(0x51), verr.Version)
	assert.Equal(t, pdu.InterfaceVersion50, verr.Supported)
	assert.Equal(t, client.StateUnbound, c.State())

	select {
	case cmd := <-mc.Received():
		t.Fatalf("unexpected command on the wire: %s", cmd)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBindEncodeError(t *testing.T) {
	c, _, _ := newSession(t, test.AutoResponder())

	_, err := c.BindTransceiver(t.Context(), pdu.Bind{SystemID: "much-too-long-system-id"})
	assert.ErrorIs(t, err, pdu.ErrTooLong)
	assert.Equal(t, client.KindPdu, client.KindOf(err))
	assert.Equal(t, client.StateUnbound, c.State())
}

func TestKeepalive(t *testing.T) {
	c, _, mc := bound(t, test.AutoResponder(), client.WithEnquireLinkInterval(50*time.Millisecond))

	for range 3 {
		_, err := mc.Expect(pdu.EnquireLinkID, time.Second)
		require.NoError(t, err)
	}
	assert.Equal(t, client.StateBound, c.State())
}

func TestKeepaliveTimeoutClosesSession(t *testing.T) {
	c, events, _ := bound(t, ignoring(pdu.EnquireLinkID),
		client.WithEnquireLinkInterval(50*time.Millisecond),
		client.WithEnquireLinkResponseTimeout(50*time.Millisecond),
	)

	waitClosed(t, c)

	var terr *client.EnquireLinkTimeoutError
	require.ErrorAs(t, c.Err(), &terr)
	assert.Equal(t, 50*time.Millisecond, terr.Timeout)

	evs := drain(t, events)
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1].(*client.ErrorEvent)
	assert.True(t, last.Terminal)
	assert.Equal(t, client.KindEnquireLinkTimeout, last.Kind())
}

func TestKeepaliveSkipsOutstanding(t *testing.T) {
	_, _, mc := bound(t, ignoring(pdu.EnquireLinkID),
		client.WithEnquireLinkInterval(20*time.Millisecond),
		client.WithEnquireLinkResponseTimeout(time.Second),
	)

	var count int
	deadline := time.After(250 * time.Millisecond)
loop:
	for {
		select {
		case cmd := <-mc.Received():
			if cmd.ID == pdu.EnquireLinkID {
				count++
			}
		case <-deadline:
			break loop
		}
	}
	assert.Equal(t, 1, count)
}

func TestInboundEnquireLink(t *testing.T) {
	_, events, mc := bound(t, test.AutoResponder())

	require.NoError(t, mc.Send(pdu.Command{ID: pdu.EnquireLinkID, Sequence: 77}))

	resp, err := mc.Expect(pdu.EnquireLinkRespID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(77), resp.Sequence)

	select {
	case ev := <-events:
		t.Fatalf("enquire_link surfaced as event: %#v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInboundUnbind(t *testing.T) {
	c, events, mc := bound(t, test.AutoResponder())

	require.NoError(t, mc.Send(pdu.Command{ID: pdu.UnbindID, Sequence: 5}))

	in := nextEvent(t, events).(*client.IncomingEvent)
	assert.Equal(t, pdu.UnbindID, in.Command.ID)
	assert.Equal(t, client.StateUnbinding, c.State())

	require.NoError(t, c.UnbindResp(in.Command.Sequence))
	waitClosed(t, c)
	assert.NoError(t, c.Err())

	resp, err := mc.Expect(pdu.UnbindRespID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), resp.Sequence)
}

func TestPeerClosed(t *testing.T) {
	c, events, mc := bound(t, test.AutoResponder())

	require.NoError(t, mc.Close())
	waitClosed(t, c)

	assert.ErrorIs(t, c.Err(), client.ErrConnClosed)
	evs := drain(t, events)
	require.Len(t, evs, 1)
	assert.Equal(t, client.KindConnectionClosed, evs[0].(*client.ErrorEvent).Kind())
}

func TestOversizedCommand(t *testing.T) {
	c, events, mc := bound(t, test.AutoResponder(), client.WithMaxCommandLength(64))

	require.NoError(t, mc.SendRaw([]byte{
		0x00, 0x00, 0x03, 0xE8,
		0x00, 0x00, 0x00, 0x05,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
	}))

	waitClosed(t, c)
	assert.ErrorIs(t, c.Err(), pdu.ErrCommandTooLong)

	evs := drain(t, events)
	require.Len(t, evs, 1)
	assert.Equal(t, client.KindDecode, evs[0].(*client.ErrorEvent).Kind())
}

var unknownCommand = []byte{
	0x00, 0x00, 0x00, 0x11,
	0x00, 0x00, 0x09, 0x99,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x09,
	0x01,
}

func TestStrictUnknownCommand(t *testing.T) {
	c, events, mc := bound(t, test.AutoResponder(), client.WithConfig(client.Config{StrictDecoding: true}))

	require.NoError(t, mc.SendRaw(unknownCommand))

	nack, err := mc.Expect(pdu.GenericNackID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), nack.Sequence)
	assert.Equal(t, pdu.StatusInvCmdID, nack.Status)

	eev := nextEvent(t, events).(*client.ErrorEvent)
	assert.False(t, eev.Terminal)
	assert.ErrorIs(t, eev.Err, pdu.ErrUnknownCommandID)
	assert.Equal(t, client.StateBound, c.State())
}

func TestLenientUnknownCommand(t *testing.T) {
	_, events, mc := bound(t, test.AutoResponder())

	require.NoError(t, mc.SendRaw(unknownCommand))

	in := nextEvent(t, events).(*client.IncomingEvent)
	assert.Equal(t, pdu.CommandID(0x999), in.Command.ID)
	assert.Equal(t, &pdu.Raw{Data: []byte{0x01}}, in.Command.Body)
}

func TestContextCancel(t *testing.T) {
	c, _, _ := bound(t, ignoring(pdu.SubmitSmID), client.WithResponseTimeout(-1))

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.SubmitSm(ctx, submit("cancel me"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Pending())
	assert.Equal(t, client.StateBound, c.State())
}

type brokenStream struct {
	io.Reader
}

func (brokenStream) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestWriteFailureClosesSession(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c, events, err := client.NewClient(brokenStream{pr}, client.WithEnquireLinkInterval(-1))
	require.NoError(t, err)

	_, err = c.BindTransceiver(t.Context(), credentials)
	assert.ErrorIs(t, err, client.ErrIO)
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	waitClosed(t, c)
	assert.ErrorIs(t, c.Err(), client.ErrIO)
	evs := drain(t, events)
	require.Len(t, evs, 1)
	assert.Equal(t, client.KindIO, evs[0].(*client.ErrorEvent).Kind())
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name    string
		listen  func(test.Handler) (*test.Server, error)
		network transport.Network
	}{
		{name: "tcp", listen: test.Listen, network: transport.TCP},
		{name: "tls", listen: test.ListenTLS, network: transport.TLS},
		{name: "quic", listen: test.ListenQUIC, network: transport.QUIC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := tt.listen(test.AutoResponder())
			require.NoError(t, err)
			defer srv.Close()

			c, events, err := client.Connect(t.Context(), srv.Addr(),
				client.WithEnquireLinkInterval(-1),
				client.WithTransport(transport.Config{
					Network: tt.network,
					TLS:     &tls.Config{InsecureSkipVerify: true},
				}),
			)
			require.NoError(t, err)

			_, err = c.BindTransmitter(t.Context(), credentials)
			require.NoError(t, err)

			resp, err := c.SubmitSm(t.Context(), submit("over "+tt.name))
			require.NoError(t, err)
			assert.Equal(t, "msg-1", resp.MessageID)

			require.NoError(t, c.Unbind(t.Context()))
			waitClosed(t, c)
			assert.Empty(t, drain(t, events))
		})
	}
}

func TestConnectError(t *testing.T) {
	srv, err := test.Listen(nil)
	require.NoError(t, err)
	addr := srv.Addr()
	require.NoError(t, srv.Close())

	_, _, err = client.Connect(t.Context(), addr)
	assert.ErrorIs(t, err, client.ErrConnect)
	assert.Equal(t, client.KindConnect, client.KindOf(err))
}

func TestInvalidConfig(t *testing.T) {
	conn, mc := test.NewPipe(nil)
	defer mc.Close()

	_, _, err := client.NewClient(conn, client.WithMaxCommandLength(8))
	assert.ErrorIs(t, err, client.ErrInvalidConfig)

	_, _, err = client.NewClient(conn, client.WithBindFailurePolicy("sometimes"))
	assert.ErrorIs(t, err, client.ErrInvalidConfig)
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	c, _, _ := bound(t, test.AutoResponder(), client.WithTracer(tp.Tracer("test")))
	_, err := c.SubmitSm(t.Context(), submit("traced"))
	require.NoError(t, err)

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"smpp.bind_transceiver", "smpp.submit_sm"}, names)
}
