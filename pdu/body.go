package pdu

// Body is the command specific part of a PDU. The set of implementations is
// closed: Bind, BindResp, SubmitSm, SubmitSmResp, DeliverSm, DeliverSmResp,
// Empty and Raw.
type Body interface {
	kind() bodyKind
	validate() error
	appendTo(b []byte) []byte
	decode(r *reader)
}

type bodyKind uint8

const (
	kindEmpty bodyKind = iota
	kindRaw
	kindBind
	kindBindResp
	kindSubmitSm
	kindSubmitSmResp
	kindDeliverSm
	kindDeliverSmResp
)

// newBody returns a zero body for id.
func newBody(id CommandID) Body {
	switch id {
	case BindReceiverID, BindTransmitterID, BindTransceiverID:
		return &Bind{}
	case BindReceiverRespID, BindTransmitterRespID, BindTransceiverRespID:
		return &BindResp{}
	case SubmitSmID:
		return &SubmitSm{}
	case SubmitSmRespID:
		return &SubmitSmResp{}
	case DeliverSmID:
		return &DeliverSm{}
	case DeliverSmRespID:
		return &DeliverSmResp{}
	case UnbindID, UnbindRespID, EnquireLinkID, EnquireLinkRespID, GenericNackID:
		return &Empty{}
	}
	return &Raw{}
}

// Bind is shared by bind_transmitter, bind_receiver and bind_transceiver.
type Bind struct {
	SystemID         string
	Password         string
	SystemType       string
	InterfaceVersion byte
	AddrTON          byte
	AddrNPI          byte
	AddressRange     string
}

func (*Bind) kind() bodyKind { return kindBind }

func (b *Bind) validate() error {
	if err := checkCString("system_id", b.SystemID, 16); err != nil {
		return err
	}
	if err := checkCString("password", b.Password, 9); err != nil {
		return err
	}
	if err := checkCString("system_type", b.SystemType, 13); err != nil {
		return err
	}
	return checkCString("address_range", b.AddressRange, 41)
}

func (b *Bind) appendTo(dst []byte) []byte {
	dst = appendCString(dst, b.SystemID)
	dst = appendCString(dst, b.Password)
	dst = appendCString(dst, b.SystemType)
	dst = append(dst, b.InterfaceVersion, b.AddrTON, b.AddrNPI)
	return appendCString(dst, b.AddressRange)
}

func (b *Bind) decode(r *reader) {
	b.SystemID = r.cstring("system_id", 16)
	b.Password = r.cstring("password", 9)
	b.SystemType = r.cstring("system_type", 13)
	b.InterfaceVersion = r.u8("interface_version")
	b.AddrTON = r.u8("addr_ton")
	b.AddrNPI = r.u8("addr_npi")
	b.AddressRange = r.cstring("address_range", 41)
}

type BindResp struct {
	SystemID string
	TLVs     []TLV
}

func (*BindResp) kind() bodyKind { return kindBindResp }

func (b *BindResp) validate() error {
	if err := checkCString("system_id", b.SystemID, 16); err != nil {
		return err
	}
	return checkTLVs(b.TLVs)
}

func (b *BindResp) appendTo(dst []byte) []byte {
	dst = appendCString(dst, b.SystemID)
	return appendTLVs(dst, b.TLVs)
}

func (b *BindResp) decode(r *reader) {
	// A failed bind may come back with no body at all.
	if r.remaining() == 0 {
		return
	}
	b.SystemID = r.cstring("system_id", 16)
	b.TLVs = r.tlvs()
}

// InterfaceVersion returns the sc_interface_version parameter, if the
// message center sent one.
func (b *BindResp) InterfaceVersion() (byte, bool) {
	t, ok := findTLV(b.TLVs, TagScInterfaceVersion)
	if !ok || len(t.Value) != 1 {
		return 0, false
	}
	return t.Value[0], true
}

// Message holds the mandatory parameters that submit_sm and deliver_sm share.
type Message struct {
	ServiceType          string
	SourceAddrTON        byte
	SourceAddrNPI        byte
	SourceAddr           string
	DestAddrTON          byte
	DestAddrNPI          byte
	DestinationAddr      string
	EsmClass             byte
	ProtocolID           byte
	PriorityFlag         byte
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   byte
	ReplaceIfPresentFlag byte
	DataCoding           byte
	SmDefaultMsgID       byte
	ShortMessage         []byte
	TLVs                 []TLV
}

// IsDeliveryReceipt reports whether esm_class marks a message center
// delivery receipt.
func (m *Message) IsDeliveryReceipt() bool {
	return m.EsmClass&0x3C == 0x04
}

// Payload returns message_payload when present, short_message otherwise.
func (m *Message) Payload() []byte {
	if t, ok := findTLV(m.TLVs, TagMessagePayload); ok {
		return t.Value
	}
	return m.ShortMessage
}

func (m *Message) validate() error {
	if err := checkCString("service_type", m.ServiceType, 6); err != nil {
		return err
	}
	if err := checkCString("source_addr", m.SourceAddr, 21); err != nil {
		return err
	}
	if err := checkCString("destination_addr", m.DestinationAddr, 21); err != nil {
		return err
	}
	if err := checkTime("schedule_delivery_time", m.ScheduleDeliveryTime); err != nil {
		return err
	}
	if err := checkTime("validity_period", m.ValidityPeriod); err != nil {
		return err
	}
	if len(m.ShortMessage) > 255 {
		return &FieldError{Field: "short_message", Err: ErrTooLong}
	}
	if _, ok := findTLV(m.TLVs, TagMessagePayload); ok && len(m.ShortMessage) > 0 {
		return &FieldError{Field: "short_message", Err: ErrInvalidValue}
	}
	return checkTLVs(m.TLVs)
}

func (m *Message) appendTo(dst []byte) []byte {
	dst = appendCString(dst, m.ServiceType)
	dst = append(dst, m.SourceAddrTON, m.SourceAddrNPI)
	dst = appendCString(dst, m.SourceAddr)
	dst = append(dst, m.DestAddrTON, m.DestAddrNPI)
	dst = appendCString(dst, m.DestinationAddr)
	dst = append(dst, m.EsmClass, m.ProtocolID, m.PriorityFlag)
	dst = appendCString(dst, m.ScheduleDeliveryTime)
	dst = appendCString(dst, m.ValidityPeriod)
	dst = append(dst,
		m.RegisteredDelivery,
		m.ReplaceIfPresentFlag,
		m.DataCoding,
		m.SmDefaultMsgID,
		byte(len(m.ShortMessage)),
	)
	dst = append(dst, m.ShortMessage...)
	return appendTLVs(dst, m.TLVs)
}

func (m *Message) decode(r *reader) {
	m.ServiceType = r.cstring("service_type", 6)
	m.SourceAddrTON = r.u8("source_addr_ton")
	m.SourceAddrNPI = r.u8("source_addr_npi")
	m.SourceAddr = r.cstring("source_addr", 21)
	m.DestAddrTON = r.u8("dest_addr_ton")
	m.DestAddrNPI = r.u8("dest_addr_npi")
	m.DestinationAddr = r.cstring("destination_addr", 21)
	m.EsmClass = r.u8("esm_class")
	m.ProtocolID = r.u8("protocol_id")
	m.PriorityFlag = r.u8("priority_flag")
	m.ScheduleDeliveryTime = r.cstring("schedule_delivery_time", 17)
	m.ValidityPeriod = r.cstring("validity_period", 17)
	m.RegisteredDelivery = r.u8("registered_delivery")
	m.ReplaceIfPresentFlag = r.u8("replace_if_present_flag")
	m.DataCoding = r.u8("data_coding")
	m.SmDefaultMsgID = r.u8("sm_default_msg_id")
	n := r.u8("sm_length")
	m.ShortMessage = r.octets("short_message", int(n))
	m.TLVs = r.tlvs()
}

type SubmitSm struct {
	Message
}

func (*SubmitSm) kind() bodyKind { return kindSubmitSm }

type DeliverSm struct {
	Message
}

func (*DeliverSm) kind() bodyKind { return kindDeliverSm }

// MessageResp is the body of submit_sm_resp and deliver_sm_resp.
type MessageResp struct {
	MessageID string
	TLVs      []TLV
}

func (m *MessageResp) validate() error {
	if err := checkCString("message_id", m.MessageID, 65); err != nil {
		return err
	}
	return checkTLVs(m.TLVs)
}

func (m *MessageResp) appendTo(dst []byte) []byte {
	dst = appendCString(dst, m.MessageID)
	return appendTLVs(dst, m.TLVs)
}

func (m *MessageResp) decode(r *reader) {
	// The body is omitted when command_status is not ESME_ROK.
	if r.remaining() == 0 {
		return
	}
	m.MessageID = r.cstring("message_id", 65)
	m.TLVs = r.tlvs()
}

type SubmitSmResp struct {
	MessageResp
}

func (*SubmitSmResp) kind() bodyKind { return kindSubmitSmResp }

type DeliverSmResp struct {
	MessageResp
}

func (*DeliverSmResp) kind() bodyKind { return kindDeliverSmResp }

// Empty is the body of unbind, unbind_resp, enquire_link,
// enquire_link_resp and generic_nack.
type Empty struct{}

func (*Empty) kind() bodyKind             { return kindEmpty }
func (*Empty) validate() error            { return nil }
func (*Empty) appendTo(dst []byte) []byte { return dst }
func (*Empty) decode(*reader)             {}

// Raw carries the undecoded body of commands without a typed body.
type Raw struct {
	Data []byte
}

func (*Raw) kind() bodyKind { return kindRaw }

func (*Raw) validate() error { return nil }

func (b *Raw) appendTo(dst []byte) []byte {
	return append(dst, b.Data...)
}

func (b *Raw) decode(r *reader) {
	b.Data = r.octets("body", r.remaining())
}
