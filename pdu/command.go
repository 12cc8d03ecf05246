package pdu

import "fmt"

// HeaderLen is the size of command_length, command_id, command_status
// and sequence_number.
const HeaderLen = 16

type CommandID uint32

const (
	GenericNackID         CommandID = 0x80000000
	BindReceiverID        CommandID = 0x00000001
	BindReceiverRespID    CommandID = 0x80000001
	BindTransmitterID     CommandID = 0x00000002
	BindTransmitterRespID CommandID = 0x80000002
	QuerySmID             CommandID = 0x00000003
	QuerySmRespID         CommandID = 0x80000003
	SubmitSmID            CommandID = 0x00000004
	SubmitSmRespID        CommandID = 0x80000004
	DeliverSmID           CommandID = 0x00000005
	DeliverSmRespID       CommandID = 0x80000005
	UnbindID              CommandID = 0x00000006
	UnbindRespID          CommandID = 0x80000006
	ReplaceSmID           CommandID = 0x00000007
	ReplaceSmRespID       CommandID = 0x80000007
	CancelSmID            CommandID = 0x00000008
	CancelSmRespID        CommandID = 0x80000008
	BindTransceiverID     CommandID = 0x00000009
	BindTransceiverRespID CommandID = 0x80000009
	OutbindID             CommandID = 0x0000000B
	EnquireLinkID         CommandID = 0x00000015
	EnquireLinkRespID     CommandID = 0x80000015
	SubmitMultiID         CommandID = 0x00000021
	SubmitMultiRespID     CommandID = 0x80000021
	AlertNotificationID   CommandID = 0x00000102
	DataSmID              CommandID = 0x00000103
	DataSmRespID          CommandID = 0x80000103
	BroadcastSmID         CommandID = 0x00000111
	BroadcastSmRespID     CommandID = 0x80000111
	QueryBroadcastSmID    CommandID = 0x00000112
	QueryBroadcastRespID  CommandID = 0x80000112
	CancelBroadcastSmID   CommandID = 0x00000113
	CancelBroadcastRespID CommandID = 0x80000113
)

const responseBit = 0x80000000

var commandNames = map[CommandID]string{
	GenericNackID:         "generic_nack",
	BindReceiverID:        "bind_receiver",
	BindReceiverRespID:    "bind_receiver_resp",
	BindTransmitterID:     "bind_transmitter",
	BindTransmitterRespID: "bind_transmitter_resp",
	QuerySmID:             "query_sm",
	QuerySmRespID:         "query_sm_resp",
	SubmitSmID:            "submit_sm",
	SubmitSmRespID:        "submit_sm_resp",
	DeliverSmID:           "deliver_sm",
	DeliverSmRespID:       "deliver_sm_resp",
	UnbindID:              "unbind",
	UnbindRespID:          "unbind_resp",
	ReplaceSmID:           "replace_sm",
	ReplaceSmRespID:       "replace_sm_resp",
	CancelSmID:            "cancel_sm",
	CancelSmRespID:        "cancel_sm_resp",
	BindTransceiverID:     "bind_transceiver",
	BindTransceiverRespID: "bind_transceiver_resp",
	OutbindID:             "outbind",
	EnquireLinkID:         "enquire_link",
	EnquireLinkRespID:     "enquire_link_resp",
	SubmitMultiID:         "submit_multi",
	SubmitMultiRespID:     "submit_multi_resp",
	AlertNotificationID:   "alert_notification",
	DataSmID:              "data_sm",
	DataSmRespID:          "data_sm_resp",
	BroadcastSmID:         "broadcast_sm",
	BroadcastSmRespID:     "broadcast_sm_resp",
	QueryBroadcastSmID:    "query_broadcast_sm",
	QueryBroadcastRespID:  "query_broadcast_sm_resp",
	CancelBroadcastSmID:   "cancel_broadcast_sm",
	CancelBroadcastRespID: "cancel_broadcast_sm_resp",
}

func (id CommandID) String() string {
	if name, ok := commandNames[id]; ok {
		return name
	}
	return fmt.Sprintf("command(0x%08x)", uint32(id))
}

// Known reports whether id is part of the protocol.
func (id CommandID) Known() bool {
	_, ok := commandNames[id]
	return ok
}

func (id CommandID) IsResponse() bool {
	return id&responseBit != 0
}

// Response returns the response counterpart of a request id.
func (id CommandID) Response() CommandID {
	return id | responseBit
}

func (id CommandID) IsBind() bool {
	switch id {
	case BindReceiverID, BindTransmitterID, BindTransceiverID:
		return true
	}
	return false
}

// Command is a single PDU. It is treated as immutable once built.
type Command struct {
	ID       CommandID
	Status   CommandStatus
	Sequence uint32
	Body     Body
}

// Header is the fixed part of every PDU.
type Header struct {
	Length   uint32
	ID       CommandID
	Status   CommandStatus
	Sequence uint32
}

func (c Command) String() string {
	return fmt.Sprintf("%s(seq=%d, status=%s)", c.ID, c.Sequence, c.Status)
}

// Ok reports whether the command carries ESME_ROK.
func (c Command) Ok() bool {
	return c.Status == StatusOK
}
