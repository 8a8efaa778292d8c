// Package mem implements the in-memory buffer stream backing: a
// fixed-capacity byte slice with no I/O of its own, used for
// composing wire bytes before handing them to a transport, or for
// decoding bytes already received by one.
package mem

import (
	xdr "github.com/ATECoder/go-xdr"
	"github.com/ATECoder/go-xdr/internal/wire"
)

// Config configures a mem backing. A nil Config (or any zero-value
// field) selects the package defaults, following the same nil-means-
// defaults convention as xdr.Options.
type Config struct {
	xdr.Options
}

func resolve(cfg *Config) Config {
	if cfg == nil {
		cfg = &Config{}
	}
	return Config{
		Options: xdr.Options{
			BufferSize:        xdr.ResolveBufferSize(cfg.BufferSize),
			CharacterEncoding: xdr.ResolveCharacterEncoding(cfg.CharacterEncoding),
		},
	}
}

// Encoder writes XDR primitives into a fixed-size in-memory buffer.
type Encoder struct {
	buf    []byte
	cursor int
	enc    xdr.CharacterEncoding
}

// NewEncoder allocates a fresh, zero-filled encoder buffer.
func NewEncoder(cfg *Config) *Encoder {
	c := resolve(cfg)
	return &Encoder{
		buf: make([]byte, c.BufferSize),
		enc: c.CharacterEncoding,
	}
}

// Begin resets the encoder's cursor to the start of the buffer.
func (e *Encoder) Begin() { e.cursor = 0 }

// End is a no-op; it leaves cursor at the encoded length.
func (e *Encoder) End() error { return nil }

// Bytes returns the encoded slice written so far.
func (e *Encoder) Bytes() []byte { return e.buf[:e.cursor] }

// Len returns the number of octets encoded so far.
func (e *Encoder) Len() int { return e.cursor }

// CharacterEncoding returns the encoder's configured string codec.
func (e *Encoder) CharacterEncoding() xdr.CharacterEncoding { return e.enc }

func (e *Encoder) reserve(n int) error {
	if e.cursor+n > len(e.buf) {
		return xdr.NewError(xdr.BufferOverflow, "mem.Encoder", "encode would advance past buffer capacity")
	}
	return nil
}

// EncodeInt32 writes a signed 32-bit integer.
func (e *Encoder) EncodeInt32(v int32) error {
	if err := e.reserve(wire.WordSize); err != nil {
		return err
	}
	wire.PutInt32(e.buf[e.cursor:], v)
	e.cursor += wire.WordSize
	return nil
}

// EncodeUint32 writes an unsigned 32-bit integer.
func (e *Encoder) EncodeUint32(v uint32) error {
	if err := e.reserve(wire.WordSize); err != nil {
		return err
	}
	wire.PutUint32(e.buf[e.cursor:], v)
	e.cursor += wire.WordSize
	return nil
}

// EncodeOpaque writes length bytes of b starting at offset, padded to
// the next word boundary.
func (e *Encoder) EncodeOpaque(b []byte, offset, length int) error {
	padded := length + wire.Pad(length)
	if err := e.reserve(padded); err != nil {
		return err
	}
	n := copy(e.buf[e.cursor:], b[offset:offset+length])
	for i := e.cursor + n; i < e.cursor+padded; i++ {
		e.buf[i] = 0
	}
	e.cursor += padded
	return nil
}

// Decoder reads XDR primitives from a fixed-size in-memory buffer.
type Decoder struct {
	buf           []byte
	encodedLength int
	cursor        int
	highMark      int
	enc           xdr.CharacterEncoding
}

// NewDecoder wraps an already-populated buffer for decoding. encodedLength
// must be a non-negative multiple of 4.
func NewDecoder(buf []byte, encodedLength int, cfg *Config) *Decoder {
	c := resolve(cfg)
	return &Decoder{
		buf:           buf,
		encodedLength: encodedLength,
		enc:           c.CharacterEncoding,
	}
}

// Begin sets the decoder's cursor and high-water mark for a fresh pass.
func (d *Decoder) Begin() {
	d.cursor = 0
	d.highMark = d.encodedLength - wire.WordSize
}

// End is a no-op for the in-memory decoder.
func (d *Decoder) End() error { return nil }

// CharacterEncoding returns the decoder's configured string codec.
func (d *Decoder) CharacterEncoding() xdr.CharacterEncoding { return d.enc }

// Remaining returns the number of undecoded octets left before the
// encoded length. Length-prefixed decoders use it to report a declared
// length that cannot possibly be satisfied as Malformed rather than
// running into the end of the buffer.
func (d *Decoder) Remaining() int { return d.encodedLength - d.cursor }

func (d *Decoder) checkAvail(n int) error {
	if d.cursor > d.highMark {
		return xdr.NewError(xdr.BufferUnderflow, "mem.Decoder", "decode would read past the encoded length")
	}
	if d.cursor+n > d.encodedLength {
		return xdr.NewError(xdr.BufferUnderflow, "mem.Decoder", "decode would read past the encoded length")
	}
	return nil
}

// DecodeInt32 reads a signed 32-bit integer.
func (d *Decoder) DecodeInt32() (int32, error) {
	if err := d.checkAvail(wire.WordSize); err != nil {
		return 0, err
	}
	v := wire.Int32(d.buf[d.cursor:])
	d.cursor += wire.WordSize
	return v, nil
}

// DecodeUint32 reads an unsigned 32-bit integer.
func (d *Decoder) DecodeUint32() (uint32, error) {
	if err := d.checkAvail(wire.WordSize); err != nil {
		return 0, err
	}
	v := wire.Uint32(d.buf[d.cursor:])
	d.cursor += wire.WordSize
	return v, nil
}

// DecodeOpaque reads length bytes (plus padding) and returns a copy.
func (d *Decoder) DecodeOpaque(length int) ([]byte, error) {
	out := make([]byte, length)
	if err := d.DecodeOpaqueInto(out, 0, length); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeOpaqueInto reads length bytes (plus padding) into buf at offset.
func (d *Decoder) DecodeOpaqueInto(buf []byte, offset, length int) error {
	padded := length + wire.Pad(length)
	if err := d.checkAvail(padded); err != nil {
		return err
	}
	copy(buf[offset:offset+length], d.buf[d.cursor:d.cursor+length])
	d.cursor += padded
	return nil
}
