package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

// Batcher pipelines commands built by the pub/sub and streams writers.
// A batch is flushed when it reaches BatchSize or after Linger.
type Batcher struct {
	client doer

	mu       sync.Mutex
	buffer   []rueidis.Completed
	callback []func(err error)

	batchSize int
	linger    time.Duration
	flushCh   chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}

	wg sync.WaitGroup
}

type doer interface {
	DoMulti(ctx context.Context, multi ...rueidis.Completed) []rueidis.RedisResult
	Close()
}

func NewClient(conf WriterConfig) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  conf.InitAddress,
		Username:     conf.Username,
		Password:     conf.Password,
		DisableCache: conf.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: new client: %w", err)
	}
	return client, nil
}

func NewBatcher(client doer, conf WriterConfig) *Batcher {
	conf.SetDefaults()
	b := &Batcher{
		client:    client,
		batchSize: conf.BatchSize,
		linger:    conf.Linger,
		flushCh:   make(chan struct{}, 1),
		closeCh:   make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	go b.flusher()
	return b
}

func (b *Batcher) Add(cmd rueidis.Completed, callback func(err error)) {
	b.wg.Add(1)

	b.mu.Lock()
	b.buffer = append(b.buffer, cmd)
	b.callback = append(b.callback, func(err error) {
		defer b.wg.Done()
		callback(err)
	})
	shouldFlush := len(b.buffer) >= b.batchSize
	b.mu.Unlock()

	if shouldFlush {
		select {
		case b.flushCh <- struct{}{}:
		default:
		}
	}
}

func (b *Batcher) flusher() {
	defer close(b.stopped)

	ticker := time.NewTicker(b.linger)
	defer ticker.Stop()

	for {
		select {
		case <-b.flushCh:
			b.flush()
		case <-ticker.C:
			b.flush()
		case <-b.closeCh:
			b.flush()
			return
		}
	}
}

func (b *Batcher) flush() {
	b.mu.Lock()
	if len(b.buffer) == 0 {
		b.mu.Unlock()
		return
	}

	cmds := b.buffer
	cbs := b.callback
	b.buffer = make([]rueidis.Completed, 0, b.batchSize)
	b.callback = nil
	b.mu.Unlock()

	results := b.client.DoMulti(context.Background(), cmds...)
	for i, r := range results {
		cbs[i](r.Error())
	}
}

// Wait blocks until every added command has been settled.
func (b *Batcher) Wait(ctx context.Context) error {
	select {
	case b.flushCh <- struct{}{}:
	default:
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Batcher) Close() {
	b.closeOnce.Do(func() {
		close(b.closeCh)
		<-b.stopped
		b.wg.Wait()
		b.client.Close()
	})
}
