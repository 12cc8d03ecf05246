package observability

import (
	"time"

	"github.com/ValerySidorin/smppc/client"
	"github.com/ValerySidorin/smppc/pdu"
)

// Observer returns a client.Observer feeding the smppc_* metrics. It is
// inert until Init enables metrics.
func Observer() client.Observer {
	return sessionObserver{}
}

type sessionObserver struct{}

func (sessionObserver) CommandSent(id pdu.CommandID) {
	if MetricsEnabled() {
		IncCommand("sent", id.String())
	}
}

func (sessionObserver) CommandReceived(id pdu.CommandID) {
	if MetricsEnabled() {
		IncCommand("received", id.String())
	}
}

func (sessionObserver) RequestDone(id pdu.CommandID, d time.Duration, err error) {
	if !MetricsEnabled() {
		return
	}
	ObserveRequest(id.String(), d)
	if err != nil {
		IncError("request", client.KindOf(err).String())
	}
}

func (sessionObserver) StateChanged(_, to client.State) {
	if MetricsEnabled() {
		SetSessionState(float64(to))
	}
}
