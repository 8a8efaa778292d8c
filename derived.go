package xdr

import "math"

// This file implements every derived encoding purely in terms of the
// Encoder/Decoder primitives (EncodeInt32/EncodeUint32/EncodeOpaque and
// their Decode counterparts) -- never touching a backing's internal
// buffer directly. A hyper is two words; a float is a word (or two)
// reinterpreted; i8/u8/i16/u16/char are all a single word truncated on
// decode. These are free functions over the interfaces rather than
// methods duplicated on each backing, so mem, udp, and tcp share one
// implementation.

// EncodeInt64 writes a signed 64-bit hyper as a high-order word followed
// by a low-order word, each a plain int32/uint32 encode.
func EncodeInt64(e Encoder, v int64) error {
	u := uint64(v)
	if err := e.EncodeUint32(uint32(u >> 32)); err != nil {
		return err
	}
	return e.EncodeUint32(uint32(u))
}

// DecodeInt64 reconstructs a signed 64-bit hyper as
// (high << 32) | (low & 0xFFFFFFFF); the mask on low prevents sign
// extension when combining the two words.
func DecodeInt64(d Decoder) (int64, error) {
	hi, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	lo, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	return int64(uint64(hi)<<32 | (uint64(lo) & 0xFFFFFFFF)), nil
}

// EncodeUint64 writes an unsigned 64-bit hyper, high word then low word.
func EncodeUint64(e Encoder, v uint64) error {
	if err := e.EncodeUint32(uint32(v >> 32)); err != nil {
		return err
	}
	return e.EncodeUint32(uint32(v))
}

// DecodeUint64 reads an unsigned 64-bit hyper.
func DecodeUint64(d Decoder) (uint64, error) {
	hi, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	lo, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | (uint64(lo) & 0xFFFFFFFF), nil
}

// EncodeFloat32 writes the IEEE-754 bit pattern of v as a uint32. NaN
// payload bits are preserved since Float32bits extracts the raw pattern.
func EncodeFloat32(e Encoder, v float32) error {
	return e.EncodeUint32(math.Float32bits(v))
}

// DecodeFloat32 reconstructs a float32 from its big-endian bit pattern.
func DecodeFloat32(d Decoder) (float32, error) {
	bits, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// EncodeFloat64 writes the IEEE-754 bit pattern of v as a uint64.
func EncodeFloat64(e Encoder, v float64) error {
	return EncodeUint64(e, math.Float64bits(v))
}

// DecodeFloat64 reconstructs a float64 from its big-endian bit pattern.
func DecodeFloat64(d Decoder) (float64, error) {
	bits, err := DecodeUint64(d)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// EncodeBool writes v as an int32 that is exactly 0 or 1.
func EncodeBool(e Encoder, v bool) error {
	if v {
		return e.EncodeUint32(1)
	}
	return e.EncodeUint32(0)
}

// DecodeBool decodes an XDR boolean: any non-zero value decodes as true.
func DecodeBool(d Decoder) (bool, error) {
	v, err := d.DecodeUint32()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// EncodeByte zero-extends v (an XDR "u8") into a word.
func EncodeByte(e Encoder, v byte) error { return e.EncodeUint32(uint32(v)) }

// DecodeByte reads a word and truncates to its low-order byte.
func DecodeByte(d Decoder) (byte, error) {
	v, err := d.DecodeUint32()
	return byte(v), err
}

// EncodeSByte sign-extends v (an XDR "i8") into a word.
func EncodeSByte(e Encoder, v int8) error { return e.EncodeInt32(int32(v)) }

// DecodeSByte reads a word and truncates to its low-order signed byte.
func DecodeSByte(d Decoder) (int8, error) {
	v, err := d.DecodeInt32()
	return int8(v), err
}

// EncodeChar writes a 7-bit ASCII character in its low 8 bits, zero-
// extended into a word.
func EncodeChar(e Encoder, v byte) error { return e.EncodeUint32(uint32(v)) }

// DecodeChar reads a word and truncates to its low-order byte.
func DecodeChar(d Decoder) (byte, error) {
	v, err := d.DecodeUint32()
	return byte(v), err
}

// EncodeUint16 zero-extends v (an XDR "u16") into a word.
func EncodeUint16(e Encoder, v uint16) error { return e.EncodeUint32(uint32(v)) }

// DecodeUint16 reads a word and truncates to its low-order 16 bits.
func DecodeUint16(d Decoder) (uint16, error) {
	v, err := d.DecodeUint32()
	return uint16(v), err
}

// EncodeInt16 sign-extends v (an XDR "i16") into a word.
func EncodeInt16(e Encoder, v int16) error { return e.EncodeInt32(int32(v)) }

// DecodeInt16 reads a word and truncates to its low-order signed 16
// bits.
func DecodeInt16(d Decoder) (int16, error) {
	v, err := d.DecodeInt32()
	return int16(v), err
}

// EncodeDynamicOpaque writes the int32 length of b followed by its bytes
// and padding. A zero-length slice encodes as just the length word, with
// no body and no padding.
func EncodeDynamicOpaque(e Encoder, b []byte) error {
	if err := e.EncodeUint32(uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return e.EncodeOpaque(b, 0, len(b))
}

// DecodeDynamicOpaque reads a length-prefixed opaque. A negative decoded
// length is Malformed, as is a length that exceeds the remaining data on
// a backing whose bounds are known up front (mem, udp). The tcp backing
// cannot know a record's total length ahead of its fragments, so there
// an oversized length surfaces as BufferUnderflow or CannotReceive from
// the fill loop instead.
func DecodeDynamicOpaque(d Decoder) ([]byte, error) {
	n, err := d.DecodeUint32()
	if err != nil {
		return nil, err
	}
	if int32(n) < 0 {
		return nil, newError(Malformed, "DecodeDynamicOpaque", "negative opaque length")
	}
	if rem, ok := d.(interface{ Remaining() int }); ok && int(n) > rem.Remaining() {
		return nil, newError(Malformed, "DecodeDynamicOpaque", "opaque length exceeds remaining data")
	}
	if n == 0 {
		return []byte{}, nil
	}
	return d.DecodeOpaque(int(n))
}

// EncodeString converts s under the stream's configured CharacterEncoding
// and writes it as a dynamic opaque.
func EncodeString(e Encoder, s string) error {
	return EncodeDynamicOpaque(e, e.CharacterEncoding().EncodeString(s))
}

// DecodeString reads a dynamic opaque and interprets it under the
// stream's configured CharacterEncoding.
func DecodeString(d Decoder) (string, error) {
	b, err := DecodeDynamicOpaque(d)
	if err != nil {
		return "", err
	}
	return d.CharacterEncoding().DecodeString(b), nil
}
