package client_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/ValerySidorin/smppc/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindTransceiver(ctx context.Context, c *client.Client) error {
	_, err := c.BindTransceiver(ctx, credentials)
	return err
}

// serveUntilDone hands every served session to out and returns when the
// session ends or ctx is done.
func serveUntilDone(out chan<- *client.Client) client.ServeFunc {
	return func(ctx context.Context, c *client.Client, events <-chan client.Event) error {
		out <- c
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-events:
				if !ok {
					return nil
				}
			}
		}
	}
}

func nextSession(t *testing.T, srv *test.Server) *test.Session {
	t.Helper()

	select {
	case mc := <-srv.Sessions():
		return mc
	case <-time.After(2 * time.Second):
		t.Fatal("no session")
	}
	return nil
}

func nextServed(t *testing.T, served <-chan *client.Client) *client.Client {
	t.Helper()

	select {
	case c := <-served:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no session served")
	}
	return nil
}

func TestReconnectorRedialsAfterPeerDrop(t *testing.T) {
	srv, err := test.Listen(test.AutoResponder())
	require.NoError(t, err)
	defer srv.Close()

	r, err := client.NewReconnector(srv.Addr(), client.ReconnectConfig{
		Enabled: true,
		Backoff: client.BackoffFixed,
		Delay:   10 * time.Millisecond,
	}, bindTransceiver, client.WithEnquireLinkInterval(-1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	served := make(chan *client.Client, 4)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, serveUntilDone(served)) }()

	first := nextServed(t, served)
	assert.True(t, first.IsActive())
	mc := nextSession(t, srv)
	_, err = mc.Expect(pdu.BindTransceiverID, time.Second)
	require.NoError(t, err)

	require.NoError(t, mc.Close())

	second := nextServed(t, served)
	assert.NotSame(t, first, second)
	assert.True(t, second.IsActive())
	assert.True(t, first.IsClosed())
	assert.Error(t, first.Err())
	assert.Same(t, second, r.Current())

	mc = nextSession(t, srv)
	_, err = mc.Expect(pdu.BindTransceiverID, time.Second)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reconnector did not stop")
	}
	assert.Nil(t, r.Current())
	waitClosed(t, second)
}

func TestReconnectorRetriesFailedBind(t *testing.T) {
	auto := test.AutoResponder()
	var binds atomic.Int32
	h := func(s *test.Session, cmd pdu.Command) {
		if cmd.ID == pdu.BindTransceiverID && binds.Add(1) == 1 {
			assert.NoError(t, s.Respond(cmd, pdu.StatusBindFail, nil))
			return
		}
		auto(s, cmd)
	}
	srv, err := test.Listen(h)
	require.NoError(t, err)
	defer srv.Close()

	r, err := client.NewReconnector(srv.Addr(), client.ReconnectConfig{
		Enabled: true,
		Backoff: client.BackoffNone,
	}, bindTransceiver, client.WithEnquireLinkInterval(-1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	served := make(chan *client.Client, 4)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, serveUntilDone(served)) }()

	c := nextServed(t, served)
	assert.True(t, c.IsActive())
	assert.Equal(t, int32(2), binds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestReconnectorExhausted(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	r, err := client.NewReconnector(addr, client.ReconnectConfig{
		Enabled:    true,
		Backoff:    client.BackoffNone,
		MaxRetries: 2,
	}, bindTransceiver)
	require.NoError(t, err)

	err = r.Run(t.Context(), func(context.Context, *client.Client, <-chan client.Event) error {
		t.Fatal("nothing to serve")
		return nil
	})
	assert.ErrorIs(t, err, client.ErrReconnectExhausted)
	assert.ErrorIs(t, err, client.ErrConnect)
	assert.ErrorContains(t, err, "after 3 attempts")
}

func TestReconnectorDisabledStopsOnLoss(t *testing.T) {
	srv, err := test.Listen(test.AutoResponder())
	require.NoError(t, err)
	defer srv.Close()

	r, err := client.NewReconnector(srv.Addr(), client.ReconnectConfig{}, bindTransceiver, client.WithEnquireLinkInterval(-1))
	require.NoError(t, err)

	served := make(chan *client.Client, 4)
	done := make(chan error, 1)
	go func() { done <- r.Run(t.Context(), serveUntilDone(served)) }()

	nextServed(t, served)
	require.NoError(t, nextSession(t, srv).Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reconnector did not stop")
	}
	assert.Empty(t, served)
}

func TestReconnectorServeStops(t *testing.T) {
	srv, err := test.Listen(test.AutoResponder())
	require.NoError(t, err)
	defer srv.Close()

	r, err := client.NewReconnector(srv.Addr(), client.ReconnectConfig{Enabled: true}, bindTransceiver, client.WithEnquireLinkInterval(-1))
	require.NoError(t, err)

	var kept *client.Client
	err = r.Run(t.Context(), func(_ context.Context, c *client.Client, _ <-chan client.Event) error {
		kept = c
		return client.ErrInvalidState
	})
	assert.ErrorIs(t, err, client.ErrInvalidState)
	require.NotNil(t, kept)
	waitClosed(t, kept)
}

func TestReconnectConfigValidate(t *testing.T) {
	conf := client.ReconnectConfig{Backoff: "random"}
	assert.ErrorIs(t, conf.ValidateAndSetDefaults(), client.ErrInvalidConfig)

	conf = client.ReconnectConfig{Delay: -time.Second}
	assert.ErrorIs(t, conf.ValidateAndSetDefaults(), client.ErrInvalidConfig)

	conf = client.ReconnectConfig{}
	require.NoError(t, conf.ValidateAndSetDefaults())
	assert.Equal(t, client.BackoffExponential, conf.Backoff)
	assert.Equal(t, client.DefaultReconnectDelay, conf.Delay)
	assert.Equal(t, client.DefaultReconnectMaxRetries, conf.MaxRetries)
}
