package test_test

import (
	"context"
	"testing"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/ValerySidorin/smppc/test"
)

func boundClient(b *testing.B, listen func(test.Handler) (*test.Server, error)) *client.Client {
	b.Helper()

	srv, err := listen(test.AutoResponder())
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = srv.Close() })

	c, events, err := client.Connect(context.Background(), srv.Addr(), client.WithEnquireLinkInterval(-1))
	if err != nil {
		b.Fatal(err)
	}
	go func() {
		for range events {
		}
	}()
	b.Cleanup(func() { _ = c.Close() })

	if _, err := c.BindTransmitter(context.Background(), pdu.Bind{SystemID: "bench", Password: "bench"}); err != nil {
		b.Fatal(err)
	}
	return c
}

func submitSm() pdu.SubmitSm {
	return pdu.SubmitSm{Message: pdu.Message{
		SourceAddr:      "1000",
		DestinationAddr: "2000",
		ShortMessage:    []byte("benchmark message payload"),
	}}
}

func BenchmarkSubmitSm(b *testing.B) {
	c := boundClient(b, test.Listen)
	sm := submitSm()

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := c.SubmitSm(context.Background(), sm); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitSmParallel(b *testing.B) {
	c := boundClient(b, test.Listen)
	sm := submitSm()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.SubmitSm(context.Background(), sm); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkCodecEncode(b *testing.B) {
	var codec pdu.Codec
	cmd := pdu.Command{ID: pdu.SubmitSmID, Sequence: 1, Body: ptr(submitSm())}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := codec.Encode(cmd); err != nil {
			b.Fatal(err)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
