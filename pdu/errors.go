package pdu

import (
	"errors"
	"fmt"
)

var (
	ErrEncode = errors.New("encode")
	ErrDecode = errors.New("decode")

	ErrCommandTooLong   = errors.New("command length exceeds maximum")
	ErrInvalidLength    = errors.New("invalid command length")
	ErrUnknownCommandID = errors.New("unknown command id")
	ErrBodyMismatch     = errors.New("body does not match command id")
	ErrTrailingBytes    = errors.New("trailing bytes after body")

	ErrTooLong           = errors.New("value too long")
	ErrNotNullTerminated = errors.New("c-octet string not null terminated")
	ErrShortBuffer       = errors.New("short buffer")
	ErrInvalidValue      = errors.New("invalid value")
)

// FieldError reports a malformed field value within an otherwise
// well-formed command.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type EncodeError struct {
	ID  CommandID
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("pdu: encode %s: %v", e.ID, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// DecodeError is returned by Codec.Decode. Header holds whatever part of the
// header could be read. When Fatal is set the stream framing is lost.
type DecodeError struct {
	Header Header
	Fatal  bool
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Header.ID != 0 {
		return fmt.Sprintf("pdu: decode %s(seq=%d): %v", e.Header.ID, e.Header.Sequence, e.Err)
	}
	return fmt.Sprintf("pdu: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
