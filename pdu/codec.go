package pdu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ValerySidorin/smppc/internal/pool"
)

const DefaultMaxCommandLength = 4096

// Codec frames commands on a byte stream. The zero value uses
// DefaultMaxCommandLength and lenient decoding.
type Codec struct {
	// MaxCommandLength bounds command_length, header included.
	MaxCommandLength int
	// Strict rejects unknown command ids instead of surfacing them as Raw.
	Strict bool
}

func (c Codec) maxLen() int {
	if c.MaxCommandLength <= 0 {
		return DefaultMaxCommandLength
	}
	return c.MaxCommandLength
}

// Encode returns the wire form of cmd.
func (c Codec) Encode(cmd Command) ([]byte, error) {
	return c.Append(nil, cmd)
}

// Append appends the wire form of cmd to dst. On error dst is returned
// unchanged.
func (c Codec) Append(dst []byte, cmd Command) ([]byte, error) {
	// A nil body is a header-only frame for any id, e.g. a failed bind_resp.
	body := cmd.Body
	if body != nil {
		if want := newBody(cmd.ID); body.kind() != kindRaw && body.kind() != want.kind() {
			return dst, &EncodeError{ID: cmd.ID, Err: ErrBodyMismatch}
		}
		if err := body.validate(); err != nil {
			return dst, &EncodeError{ID: cmd.ID, Err: err}
		}
	}

	start := len(dst)
	dst = append(dst, 0, 0, 0, 0)
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd.ID))
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd.Status))
	dst = binary.BigEndian.AppendUint32(dst, cmd.Sequence)
	if body != nil {
		dst = body.appendTo(dst)
	}

	n := len(dst) - start
	if n > c.maxLen() {
		return dst[:start], &EncodeError{
			ID:  cmd.ID,
			Err: fmt.Errorf("%w: %d > %d", ErrCommandTooLong, n, c.maxLen()),
		}
	}
	binary.BigEndian.PutUint32(dst[start:], uint32(n))

	return dst, nil
}

// Decode reads exactly one command from r. A clean end of stream before
// the first byte yields io.EOF; transport errors are returned as is.
func (c Codec) Decode(r io.Reader) (Command, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Command{}, &DecodeError{Fatal: true, Err: err}
		}
		return Command{}, err
	}

	length := binary.BigEndian.Uint32(lenBuf[:])
	if length < HeaderLen {
		return Command{}, &DecodeError{
			Header: Header{Length: length},
			Fatal:  true,
			Err:    fmt.Errorf("%w: %d", ErrInvalidLength, length),
		}
	}
	if int64(length) > int64(c.maxLen()) {
		return Command{}, &DecodeError{
			Header: Header{Length: length},
			Fatal:  true,
			Err:    fmt.Errorf("%w: %d > %d", ErrCommandTooLong, length, c.maxLen()),
		}
	}

	buf := pool.Get(int(length))
	defer pool.Put(buf)
	buf = append(buf, lenBuf[:]...)
	buf = buf[:length]
	if _, err := io.ReadFull(r, buf[4:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Command{}, &DecodeError{Header: Header{Length: length}, Fatal: true, Err: err}
		}
		return Command{}, err
	}

	return c.Unmarshal(buf)
}

// Unmarshal parses a single complete frame.
func (c Codec) Unmarshal(frame []byte) (Command, error) {
	if len(frame) < HeaderLen {
		return Command{}, &DecodeError{Fatal: true, Err: ErrShortBuffer}
	}

	h := Header{
		Length:   binary.BigEndian.Uint32(frame[0:4]),
		ID:       CommandID(binary.BigEndian.Uint32(frame[4:8])),
		Status:   CommandStatus(binary.BigEndian.Uint32(frame[8:12])),
		Sequence: binary.BigEndian.Uint32(frame[12:16]),
	}
	if int(h.Length) != len(frame) {
		return Command{}, &DecodeError{
			Header: h,
			Fatal:  true,
			Err:    fmt.Errorf("%w: header says %d, frame is %d", ErrInvalidLength, h.Length, len(frame)),
		}
	}

	if !h.ID.Known() && c.Strict {
		return Command{}, &DecodeError{Header: h, Err: ErrUnknownCommandID}
	}

	body := newBody(h.ID)
	r := &reader{b: frame[HeaderLen:]}
	body.decode(r)
	if r.err == nil && r.remaining() > 0 {
		r.err = ErrTrailingBytes
	}
	if r.err != nil {
		return Command{}, &DecodeError{Header: h, Fatal: true, Err: r.err}
	}

	return Command{
		ID:       h.ID,
		Status:   h.Status,
		Sequence: h.Sequence,
		Body:     body,
	}, nil
}
