package xdr

// Encoder is the capability contract every stream backing's writer side
// implements. It is intentionally minimal: EncodeInt32, EncodeUint32, and
// EncodeOpaque are the only primitives a backing must provide natively;
// every other operation (the derived encodings, dynamic opaque, strings,
// vectors) is built on top of these three by the free functions in
// derived.go and vectors.go, so it is shared, tested once, and identical
// across mem, udp, and tcp.
type Encoder interface {
	// EncodeInt32 writes a signed 32-bit integer.
	EncodeInt32(v int32) error

	// EncodeUint32 writes an unsigned 32-bit integer.
	EncodeUint32(v uint32) error

	// EncodeOpaque writes length bytes of b starting at offset, followed
	// by zero-padding to the next word boundary. Fixed opaque (where n
	// is known to both sides) is just this, with no length prefix.
	EncodeOpaque(b []byte, offset, length int) error

	// CharacterEncoding returns the stream's configured string codec.
	CharacterEncoding() CharacterEncoding
}

// Decoder is the read-side mirror of Encoder.
type Decoder interface {
	// DecodeInt32 reads a signed 32-bit integer.
	DecodeInt32() (int32, error)

	// DecodeUint32 reads an unsigned 32-bit integer.
	DecodeUint32() (uint32, error)

	// DecodeOpaque reads length bytes (plus padding) and returns a
	// freshly allocated copy.
	DecodeOpaque(length int) ([]byte, error)

	// DecodeOpaqueInto reads length bytes (plus padding) into buf
	// starting at offset, avoiding an allocation.
	DecodeOpaqueInto(buf []byte, offset, length int) error

	// CharacterEncoding returns the stream's configured string codec.
	CharacterEncoding() CharacterEncoding
}
