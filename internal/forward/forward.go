package forward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/connector/writer"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
)

// Session is the part of the client the forwarder answers through.
type Session interface {
	DeliverSmResp(seq uint32, messageID string) error
	RejectDeliverSm(seq uint32, status pdu.CommandStatus) error
	UnbindResp(seq uint32) error
	GenericNack(seq uint32, status pdu.CommandStatus) error
}

// Forwarder publishes inbound deliveries and acknowledges each one once the
// broker has settled it. One forwarder serves consecutive sessions.
type Forwarder struct {
	conf Config
	w    writer.Writer
	pool *ants.Pool
	wg   sync.WaitGroup
	now  func() time.Time
	l    *slog.Logger
}

// New builds a forwarder. A nil w acknowledges deliveries without publishing.
func New(conf Config, w writer.Writer, l *slog.Logger) (*Forwarder, error) {
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(conf.Pool.Size)
	if err != nil {
		return nil, fmt.Errorf("forward: new pool: %w", err)
	}

	return &Forwarder{
		conf: conf,
		w:    w,
		pool: pool,
		now:  time.Now,
		l:    l,
	}, nil
}

// Run consumes the events of s until the stream ends or ctx is done, then
// waits for in-flight publishes. The terminal session error, if any, is
// returned.
func (f *Forwarder) Run(ctx context.Context, s Session, events <-chan client.Event) error {
	defer f.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := f.handle(ctx, s, ev); err != nil {
				return err
			}
		}
	}
}

func (f *Forwarder) handle(ctx context.Context, s Session, ev client.Event) error {
	switch e := ev.(type) {
	case *client.IncomingEvent:
		f.incoming(ctx, s, e.Command)
	case *client.ErrorEvent:
		if e.Terminal {
			f.l.Error("session terminated", "kind", e.Kind().String(), "err", e.Err)
			return e.Err
		}
		f.l.Warn("session error", "kind", e.Kind().String(), "err", e.Err)
	}
	return nil
}

func (f *Forwarder) incoming(ctx context.Context, s Session, cmd pdu.Command) {
	switch cmd.ID {
	case pdu.DeliverSmID:
		sm, ok := cmd.Body.(*pdu.DeliverSm)
		if !ok {
			f.reply(cmd, s.RejectDeliverSm(cmd.Sequence, pdu.StatusSysErr))
			return
		}
		f.deliver(ctx, s, cmd.Sequence, sm)
	case pdu.UnbindID:
		f.l.Info("unbind requested by peer", "sequence", cmd.Sequence)
		f.reply(cmd, s.UnbindResp(cmd.Sequence))
	default:
		if cmd.ID.IsResponse() {
			f.l.Warn("unmatched response", "command", cmd.String())
			return
		}
		f.l.Warn("unsupported command", "command", cmd.String())
		f.reply(cmd, s.GenericNack(cmd.Sequence, pdu.StatusInvCmdID))
	}
}

func (f *Forwarder) deliver(ctx context.Context, s Session, seq uint32, sm *pdu.DeliverSm) {
	d := newDelivery(seq, sm, f.now())
	l := f.l.With("sequence", seq, "source_addr", d.SourceAddr, "receipt", d.Receipt)

	if f.w == nil {
		l.Info("delivery", "short_message", string(d.ShortMessage))
		f.ack(s, l, seq, nil)
		return
	}

	msg, err := sonic.Marshal(&d)
	if err != nil {
		f.ack(s, l, seq, fmt.Errorf("marshal delivery: %w", err))
		return
	}

	f.wg.Add(1)
	err = f.pool.Submit(func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.conf.PublishTimeout)
		f.w.Write(pctx, msg, func(err error) {
			cancel()
			f.ack(s, l, seq, err)
			f.wg.Done()
		})
	})
	if err != nil {
		f.wg.Done()
		f.ack(s, l, seq, fmt.Errorf("submit: %w", err))
	}
}

func (f *Forwarder) ack(s Session, l *slog.Logger, seq uint32, err error) {
	if err != nil {
		l.Error("forward delivery", "err", err)
		if rerr := s.RejectDeliverSm(seq, f.conf.RejectStatus); rerr != nil && !errors.Is(rerr, client.ErrConnClosed) {
			l.Error("reject delivery", "err", rerr)
		}
		return
	}

	if aerr := s.DeliverSmResp(seq, ""); aerr != nil && !errors.Is(aerr, client.ErrConnClosed) {
		l.Error("acknowledge delivery", "err", aerr)
	}
}

func (f *Forwarder) reply(cmd pdu.Command, err error) {
	if err != nil && !errors.Is(err, client.ErrConnClosed) {
		f.l.Error("reply", "command", cmd.String(), "err", err)
	}
}

// Close waits for in-flight publishes, flushes the writer and releases the
// worker pool.
func (f *Forwarder) Close() error {
	f.wg.Wait()

	var errs []error
	if f.w != nil {
		ctx, cancel := context.WithTimeout(context.Background(), f.conf.PublishTimeout)
		defer cancel()
		if err := f.w.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("forward: flush: %w", err))
		}
	}
	if err := f.pool.ReleaseTimeout(f.conf.Pool.ReleaseTimeout); err != nil {
		errs = append(errs, fmt.Errorf("forward: release pool: %w", err))
	}
	return errors.Join(errs...)
}
