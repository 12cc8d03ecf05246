package main

import (
	"fmt"

	"github.com/ValerySidorin/smppc/config"
	"github.com/ValerySidorin/smppc/pdu"
	"github.com/spf13/cobra"
)

type submitFlags struct {
	from               string
	to                 string
	text               string
	serviceType        string
	dataCoding         uint8
	registeredDelivery uint8
	payload            bool
}

func newSubmitCmd(a *app) *cobra.Command {
	var f submitFlags

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Bind as transmitter, submit one message and print its message id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			stop, err := initObservability(ctx, a.conf, a.l)
			if err != nil {
				return err
			}
			defer stop()

			c, events, err := a.connect(ctx, config.BindTransmitter)
			if err != nil {
				return err
			}
			go logEvents(events, a.l)
			defer unbind(c, a.l)

			resp, err := c.SubmitSm(ctx, f.submitSm())
			if err != nil {
				return fmt.Errorf("submit_sm: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.MessageID)
			return err
		},
	}

	cmd.Flags().StringVar(&f.from, "from", "", "source address")
	cmd.Flags().StringVar(&f.to, "to", "", "destination address")
	cmd.Flags().StringVar(&f.text, "text", "", "message text")
	cmd.Flags().StringVar(&f.serviceType, "service-type", "", "service type")
	cmd.Flags().Uint8Var(&f.dataCoding, "data-coding", 0, "data_coding value")
	cmd.Flags().Uint8Var(&f.registeredDelivery, "registered-delivery", 0, "registered_delivery value (1 requests a receipt)")
	cmd.Flags().BoolVar(&f.payload, "payload", false, "send the text in the message_payload TLV")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func (f submitFlags) submitSm() pdu.SubmitSm {
	m := pdu.Message{
		ServiceType:        f.serviceType,
		SourceAddr:         f.from,
		DestinationAddr:    f.to,
		DataCoding:         f.dataCoding,
		RegisteredDelivery: f.registeredDelivery,
	}

	if f.payload {
		m.TLVs = []pdu.TLV{{Tag: pdu.TagMessagePayload, Value: []byte(f.text)}}
	} else {
		m.ShortMessage = []byte(f.text)
	}

	return pdu.SubmitSm{Message: m}
}
