package client

import (
	"sync"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

// maxSequence is the largest sequence number allowed on the wire.
const maxSequence = 0x7FFFFFFF

type result struct {
	cmd pdu.Command
	err error
}

// pending is an in-flight request. It is completed exactly once, by
// whoever removes it from the correlator.
type pending struct {
	seq    uint32
	expect pdu.CommandID
	sent   time.Time
	timer  *time.Timer

	// settle runs on the completing goroutine before the caller is
	// released and may rewrite the result.
	settle func(res result) result

	ch chan result
}

func (p *pending) complete(res result) {
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.settle != nil {
		res = p.settle(res)
	}
	p.ch <- res
}

// correlator is the pending-request table and the sequence allocator.
type correlator struct {
	n   uint32
	m   map[uint32]*pending
	err error

	mu sync.Mutex
}

func newCorrelator() *correlator {
	return &correlator{
		m: make(map[uint32]*pending),
	}
}

// nextLocked returns the next sequence number not currently pending.
func (c *correlator) nextLocked() uint32 {
	for {
		c.n++
		if c.n == 0 || c.n > maxSequence {
			c.n = 1
		}
		if _, ok := c.m[c.n]; !ok {
			return c.n
		}
	}
}

// register allocates a sequence number and inserts a pending entry for it
// in one step. A positive timeout arms the expiry timer.
func (c *correlator) register(expect pdu.CommandID, timeout time.Duration, settle func(result) result) (*pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	p := &pending{
		seq:    c.nextLocked(),
		expect: expect,
		sent:   time.Now(),
		settle: settle,
		ch:     make(chan result, 1),
	}
	c.m[p.seq] = p

	if timeout > 0 {
		p.timer = time.AfterFunc(timeout, func() {
			c.finish(p, result{err: &ResponseTimeoutError{Sequence: p.seq, Timeout: timeout}})
		})
	}

	return p, nil
}

// finish completes p with res if it is still pending.
func (c *correlator) finish(p *pending, res result) bool {
	c.mu.Lock()
	if c.m[p.seq] != p {
		c.mu.Unlock()
		return false
	}
	delete(c.m, p.seq)
	c.mu.Unlock()

	p.complete(res)
	return true
}

// resolve routes a response to its pending entry. It reports true only when
// the entry expected this command id. A mismatching response still removes
// the entry and fails its caller.
func (c *correlator) resolve(cmd pdu.Command) bool {
	c.mu.Lock()
	p, ok := c.m[cmd.Sequence]
	if !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.m, cmd.Sequence)
	c.mu.Unlock()

	res := result{cmd: cmd}
	matched := cmd.ID == p.expect
	if !matched || !cmd.Ok() {
		res.err = &UnexpectedResponseError{Expected: p.expect, Response: cmd}
	}
	p.complete(res)

	return matched
}

// cancelAll fails every pending entry with err and refuses new ones.
func (c *correlator) cancelAll(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	m := c.m
	c.m = make(map[uint32]*pending)
	c.mu.Unlock()

	for _, p := range m {
		p.complete(result{err: err})
	}
}

func (c *correlator) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
