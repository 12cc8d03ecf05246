package client

import (
	"sync"

	"github.com/ValerySidorin/smppc/pdu"
)

// Event is an item of the event stream: *IncomingEvent or *ErrorEvent.
type Event interface {
	isEvent()
}

// IncomingEvent carries an unsolicited command from the message center.
type IncomingEvent struct {
	Command pdu.Command
}

// ErrorEvent reports a condition on the session. A terminal error is the
// last item before the stream ends.
type ErrorEvent struct {
	Err      error
	Terminal bool
}

func (*IncomingEvent) isEvent() {}
func (*ErrorEvent) isEvent()    {}

func (e *ErrorEvent) Kind() ErrorKind {
	return KindOf(e.Err)
}

// dispatcher feeds events to a single consumer in push order. The queue is
// unbounded so the reader loop never waits on the consumer.
type dispatcher struct {
	out chan Event

	mu     sync.Mutex
	q      []Event
	closed bool
	signal chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		out:    make(chan Event),
		signal: make(chan struct{}, 1),
	}
	go d.run()
	return d
}

func (d *dispatcher) events() <-chan Event {
	return d.out
}

// push queues ev. It reports false once the dispatcher is closed.
func (d *dispatcher) push(ev Event) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.q = append(d.q, ev)
	d.mu.Unlock()

	d.notify()
	return true
}

// close ends the stream after the queued events are delivered.
func (d *dispatcher) close() {
	d.closeWith(nil)
}

// closeWith queues a non-nil last and ends the stream in one step, so no
// push can land after last.
func (d *dispatcher) closeWith(last Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if last != nil {
		d.q = append(d.q, last)
	}
	d.closed = true
	d.mu.Unlock()

	d.notify()
}

func (d *dispatcher) notify() {
	select {
	case d.signal <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.out)

	for {
		d.mu.Lock()
		q, closed := d.q, d.closed
		d.q = nil
		d.mu.Unlock()

		for _, ev := range q {
			d.out <- ev
		}

		if len(q) == 0 {
			if closed {
				return
			}
			<-d.signal
		}
	}
}
