package forward

import (
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

// Delivery is the document published for every inbound deliver_sm.
type Delivery struct {
	Sequence           uint32    `json:"sequence"`
	ServiceType        string    `json:"service_type,omitempty"`
	SourceAddrTON      byte      `json:"source_addr_ton"`
	SourceAddrNPI      byte      `json:"source_addr_npi"`
	SourceAddr         string    `json:"source_addr"`
	DestAddrTON        byte      `json:"dest_addr_ton"`
	DestAddrNPI        byte      `json:"dest_addr_npi"`
	DestinationAddr    string    `json:"destination_addr"`
	EsmClass           byte      `json:"esm_class"`
	DataCoding         byte      `json:"data_coding"`
	RegisteredDelivery byte      `json:"registered_delivery"`
	ShortMessage       []byte    `json:"short_message"`
	Receipt            bool      `json:"receipt"`
	ReceivedAt         time.Time `json:"received_at"`
}

func newDelivery(seq uint32, sm *pdu.DeliverSm, at time.Time) Delivery {
	return Delivery{
		Sequence:           seq,
		ServiceType:        sm.ServiceType,
		SourceAddrTON:      sm.SourceAddrTON,
		SourceAddrNPI:      sm.SourceAddrNPI,
		SourceAddr:         sm.SourceAddr,
		DestAddrTON:        sm.DestAddrTON,
		DestAddrNPI:        sm.DestAddrNPI,
		DestinationAddr:    sm.DestinationAddr,
		EsmClass:           sm.EsmClass,
		DataCoding:         sm.DataCoding,
		RegisteredDelivery: sm.RegisteredDelivery,
		ShortMessage:       sm.Payload(),
		Receipt:            sm.IsDeliveryReceipt(),
		ReceivedAt:         at.UTC(),
	}
}
