package client

import (
	"slices"
	"sync"

	"github.com/ValerySidorin/smppc/pdu"
)

type State int32

const (
	StateUnbound State = iota
	StateBinding
	StateBound
	StateUnbinding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBinding:
		return "binding"
	case StateBound:
		return "bound"
	case StateUnbinding:
		return "unbinding"
	case StateClosed:
		return "closed"
	}
	return "invalid"
}

// Role is the bind type negotiated for the session.
type Role uint8

const (
	RoleNone Role = iota
	RoleTransmitter
	RoleReceiver
	RoleTransceiver
)

func roleOf(id pdu.CommandID) Role {
	switch id {
	case pdu.BindTransmitterID:
		return RoleTransmitter
	case pdu.BindReceiverID:
		return RoleReceiver
	case pdu.BindTransceiverID:
		return RoleTransceiver
	}
	return RoleNone
}

func (r Role) String() string {
	switch r {
	case RoleTransmitter:
		return "transmitter"
	case RoleReceiver:
		return "receiver"
	case RoleTransceiver:
		return "transceiver"
	}
	return "none"
}

func (r Role) canTransmit() bool {
	return r == RoleTransmitter || r == RoleTransceiver
}

func (r Role) canReceive() bool {
	return r == RoleReceiver || r == RoleTransceiver
}

var transitions = map[State][]State{
	StateUnbound:   {StateBinding, StateClosed},
	StateBinding:   {StateBound, StateUnbound, StateClosed},
	StateBound:     {StateUnbinding, StateClosed},
	StateUnbinding: {StateClosed},
}

// session is the only writer of the session state.
type session struct {
	mu    sync.Mutex
	state State
	role  Role

	onChange func(from, to State)
}

func (s *session) load() (State, Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.role
}

// transition moves from -> to, failing if the session is elsewhere or the
// move is not part of the lifecycle.
func (s *session) transition(from, to State) bool {
	s.mu.Lock()
	if s.state != from || !slices.Contains(transitions[from], to) {
		s.mu.Unlock()
		return false
	}
	s.state = to
	if to != StateBound {
		s.role = RoleNone
	}
	s.mu.Unlock()

	s.changed(from, to)
	return true
}

// bound completes a bind.
func (s *session) bound(role Role) bool {
	s.mu.Lock()
	if s.state != StateBinding {
		s.mu.Unlock()
		return false
	}
	s.state = StateBound
	s.role = role
	s.mu.Unlock()

	s.changed(StateBinding, StateBound)
	return true
}

// close moves any state to Closed. It reports false if already closed.
func (s *session) close() bool {
	s.mu.Lock()
	from := s.state
	if from == StateClosed {
		s.mu.Unlock()
		return false
	}
	s.state = StateClosed
	s.role = RoleNone
	s.mu.Unlock()

	s.changed(from, StateClosed)
	return true
}

func (s *session) changed(from, to State) {
	if s.onChange != nil {
		s.onChange(from, to)
	}
}
