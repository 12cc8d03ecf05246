package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Lifecycle(t *testing.T) {
	var seen [][2]State
	s := &session{onChange: func(from, to State) { seen = append(seen, [2]State{from, to}) }}

	assert.True(t, s.transition(StateUnbound, StateBinding))
	assert.True(t, s.bound(RoleTransmitter))

	st, role := s.load()
	assert.Equal(t, StateBound, st)
	assert.Equal(t, RoleTransmitter, role)

	assert.True(t, s.transition(StateBound, StateUnbinding))
	_, role = s.load()
	assert.Equal(t, RoleNone, role)

	assert.True(t, s.close())
	assert.False(t, s.close())

	assert.Equal(t, [][2]State{
		{StateUnbound, StateBinding},
		{StateBinding, StateBound},
		{StateBound, StateUnbinding},
		{StateUnbinding, StateClosed},
	}, seen)
}

func TestSession_IllegalTransitions(t *testing.T) {
	for _, tc := range []struct {
		from, to State
	}{
		{StateUnbound, StateBound},
		{StateUnbound, StateUnbinding},
		{StateBinding, StateUnbinding},
		{StateBound, StateBinding},
		{StateBound, StateUnbound},
		{StateUnbinding, StateBound},
		{StateClosed, StateUnbound},
	} {
		s := &session{state: tc.from}
		assert.False(t, s.transition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
		st, _ := s.load()
		assert.Equal(t, tc.from, st)
	}
}

func TestSession_StaleTransition(t *testing.T) {
	s := &session{state: StateBound}

	assert.False(t, s.transition(StateBinding, StateUnbound))
	assert.False(t, s.bound(RoleReceiver))

	st, _ := s.load()
	assert.Equal(t, StateBound, st)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleTransceiver.canTransmit())
	assert.True(t, RoleTransceiver.canReceive())
	assert.True(t, RoleTransmitter.canTransmit())
	assert.False(t, RoleTransmitter.canReceive())
	assert.False(t, RoleReceiver.canTransmit())
	assert.False(t, RoleNone.canReceive())
}
