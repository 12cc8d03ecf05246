package client

import (
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

// Observer receives session telemetry. Implementations must not block.
type Observer interface {
	CommandSent(id pdu.CommandID)
	CommandReceived(id pdu.CommandID)
	RequestDone(id pdu.CommandID, d time.Duration, err error)
	StateChanged(from, to State)
}

type nopObserver struct{}

func (nopObserver) CommandSent(pdu.CommandID)                       {}
func (nopObserver) CommandReceived(pdu.CommandID)                   {}
func (nopObserver) RequestDone(pdu.CommandID, time.Duration, error) {}
func (nopObserver) StateChanged(State, State)                       {}
