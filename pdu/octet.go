package pdu

import (
	"bytes"
	"encoding/binary"
)

// reader walks a frame body. The first error sticks.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) fail(field string, err error) {
	if r.err == nil {
		r.err = &FieldError{Field: field, Err: err}
	}
}

func (r *reader) remaining() int {
	return len(r.b) - r.off
}

func (r *reader) u8(field string) byte {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 1 {
		r.fail(field, ErrShortBuffer)
		return 0
	}
	v := r.b[r.off]
	r.off++
	return v
}

func (r *reader) u16(field string) uint16 {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 2 {
		r.fail(field, ErrShortBuffer)
		return 0
	}
	v := binary.BigEndian.Uint16(r.b[r.off:])
	r.off += 2
	return v
}

// cstring reads a NUL terminated string. max includes the terminator.
func (r *reader) cstring(field string, max int) string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.b[r.off:], 0)
	if i < 0 {
		r.fail(field, ErrNotNullTerminated)
		return ""
	}
	if i+1 > max {
		r.fail(field, ErrTooLong)
		return ""
	}
	v := string(r.b[r.off : r.off+i])
	r.off += i + 1
	return v
}

// octets copies n bytes out of the frame.
func (r *reader) octets(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.remaining() < n {
		r.fail(field, ErrShortBuffer)
		return nil
	}
	if n == 0 {
		return nil
	}
	v := make([]byte, n)
	copy(v, r.b[r.off:r.off+n])
	r.off += n
	return v
}

func appendCString(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, 0)
}

func checkCString(field, s string, max int) error {
	if len(s)+1 > max {
		return &FieldError{Field: field, Err: ErrTooLong}
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return &FieldError{Field: field, Err: ErrInvalidValue}
	}
	return nil
}

// checkTime validates schedule_delivery_time and validity_period, which are
// either empty or exactly 16 characters.
func checkTime(field, s string) error {
	if s != "" && len(s) != 16 {
		return &FieldError{Field: field, Err: ErrInvalidValue}
	}
	return nil
}
