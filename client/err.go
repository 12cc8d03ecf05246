package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValerySidorin/smppc/pdu"
)

var (
	ErrConnClosed                  = errors.New("connection closed")
	ErrTimeout                     = errors.New("timeout")
	ErrInvalidState                = errors.New("invalid session state")
	ErrUnexpectedResponse          = errors.New("unexpected response")
	ErrEnquireLinkTimeout          = errors.New("enquire link timeout")
	ErrUnsupportedInterfaceVersion = errors.New("unsupported interface version")
	ErrIO                          = errors.New("io")
	ErrConnect                     = errors.New("connect")

	ErrInvalidConfig = errors.New("invalid config")
)

type ResponseTimeoutError struct {
	Sequence uint32
	Timeout  time.Duration
}

func (e *ResponseTimeoutError) Error() string {
	return fmt.Sprintf("response timeout: sequence %d, timeout %s", e.Sequence, e.Timeout)
}

func (e *ResponseTimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// UnexpectedResponseError is returned when a correlated response is not the
// expected counterpart or carries a non-OK status.
type UnexpectedResponseError struct {
	Expected pdu.CommandID
	Response pdu.Command
}

func (e *UnexpectedResponseError) Error() string {
	if e.Response.ID == e.Expected {
		return fmt.Sprintf("unexpected response: %s with status %s", e.Response.ID, e.Response.Status)
	}
	return fmt.Sprintf("unexpected response: expected %s, got %s", e.Expected, e.Response)
}

func (e *UnexpectedResponseError) Is(target error) bool {
	return target == ErrUnexpectedResponse
}

// Status returns the command status carried by the response.
func (e *UnexpectedResponseError) Status() pdu.CommandStatus {
	return e.Response.Status
}

type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: invalid session state %s", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

type UnsupportedInterfaceVersionError struct {
	Version   byte
	Supported byte
}

func (e *UnsupportedInterfaceVersionError) Error() string {
	return fmt.Sprintf("unsupported interface version 0x%02x, supported up to 0x%02x", e.Version, e.Supported)
}

func (e *UnsupportedInterfaceVersionError) Is(target error) bool {
	return target == ErrUnsupportedInterfaceVersion
}

type EnquireLinkTimeoutError struct {
	Timeout time.Duration
}

func (e *EnquireLinkTimeoutError) Error() string {
	return fmt.Sprintf("enquire link timeout: %s", e.Timeout)
}

func (e *EnquireLinkTimeoutError) Is(target error) bool {
	return target == ErrEnquireLinkTimeout
}

// IOError is a read or write failure on an established stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

func (e *ConnectError) Is(target error) bool {
	return target == ErrConnect
}

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnect
	KindIO
	KindEncode
	KindDecode
	KindResponseTimeout
	KindUnexpectedResponse
	KindConnectionClosed
	KindUnsupportedInterfaceVersion
	KindPdu
	KindInvalidState
	KindEnquireLinkTimeout
	KindCanceled
)

var kindNames = [...]string{
	KindUnknown:                     "unknown",
	KindConnect:                     "connect",
	KindIO:                          "io",
	KindEncode:                      "encode",
	KindDecode:                      "decode",
	KindResponseTimeout:             "response_timeout",
	KindUnexpectedResponse:          "unexpected_response",
	KindConnectionClosed:            "connection_closed",
	KindUnsupportedInterfaceVersion: "unsupported_interface_version",
	KindPdu:                         "pdu",
	KindInvalidState:                "invalid_state",
	KindEnquireLinkTimeout:          "enquire_link_timeout",
	KindCanceled:                    "canceled",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps err onto the error taxonomy of the client.
func KindOf(err error) ErrorKind {
	var ferr *pdu.FieldError

	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrEnquireLinkTimeout):
		return KindEnquireLinkTimeout
	case errors.Is(err, ErrTimeout):
		return KindResponseTimeout
	case errors.Is(err, ErrUnexpectedResponse):
		return KindUnexpectedResponse
	case errors.Is(err, ErrUnsupportedInterfaceVersion):
		return KindUnsupportedInterfaceVersion
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrConnClosed):
		return KindConnectionClosed
	case errors.Is(err, ErrConnect):
		return KindConnect
	case errors.Is(err, pdu.ErrEncode):
		if errors.As(err, &ferr) {
			return KindPdu
		}
		return KindEncode
	case errors.Is(err, pdu.ErrDecode):
		return KindDecode
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindUnknown
}
