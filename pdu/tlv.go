package pdu

import "encoding/binary"

const (
	TagReceiptedMessageID   uint16 = 0x001E
	TagScInterfaceVersion   uint16 = 0x0210
	TagMessagePayload       uint16 = 0x0424
	TagMessageState         uint16 = 0x0427
	TagUserMessageReference uint16 = 0x0204
)

const (
	InterfaceVersion33 byte = 0x33
	InterfaceVersion34 byte = 0x34
	InterfaceVersion50 byte = 0x50
)

// TLV is an optional parameter.
type TLV struct {
	Tag   uint16
	Value []byte
}

func appendTLVs(b []byte, tlvs []TLV) []byte {
	for _, t := range tlvs {
		b = binary.BigEndian.AppendUint16(b, t.Tag)
		b = binary.BigEndian.AppendUint16(b, uint16(len(t.Value)))
		b = append(b, t.Value...)
	}
	return b
}

func checkTLVs(tlvs []TLV) error {
	for _, t := range tlvs {
		if len(t.Value) > 0xFFFF {
			return &FieldError{Field: "tlv", Err: ErrTooLong}
		}
	}
	return nil
}

func (r *reader) tlvs() []TLV {
	var out []TLV
	for r.err == nil && r.remaining() > 0 {
		tag := r.u16("tlv.tag")
		n := r.u16("tlv.length")
		v := r.octets("tlv.value", int(n))
		if r.err != nil {
			return nil
		}
		out = append(out, TLV{Tag: tag, Value: v})
	}
	return out
}

func findTLV(tlvs []TLV, tag uint16) (TLV, bool) {
	for _, t := range tlvs {
		if t.Tag == tag {
			return t, true
		}
	}
	return TLV{}, false
}
