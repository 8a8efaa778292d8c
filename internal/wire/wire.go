// Package wire implements the word-level codec the stream backings
// (mem, udp, tcp) share: big-endian 32-bit reads and writes on a
// caller-supplied []byte, plus the RFC 4506 alignment arithmetic. These
// word operations and fixed opaque are the only operations a backing
// implements natively; every other primitive (hyper, float, bool,
// byte-width ints, dynamic opaque, string, vectors) is derived from them
// by the free functions in the xdr root
// package, so it is written once against the Encoder/Decoder interfaces
// rather than per backing.
//
// Nothing here allocates, blocks, or returns a wrapped *xdr.Error --
// that's the job of the backings that call into this package.
package wire

// WordSize is the XDR alignment unit: every value occupies an integral
// number of 4-octet words.
const WordSize = 4

// Pad returns the number of zero padding octets required to bring n up to
// the next word boundary: (4 - n%4) % 4.
func Pad(n int) int {
	return (WordSize - n%WordSize) % WordSize
}

// PutUint32 writes v into b[0:4] in network (big-endian) order.
func PutUint32(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// Uint32 reads a big-endian uint32 from b[0:4].
func Uint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// PutInt32 writes the two's-complement big-endian encoding of v into
// b[0:4].
func PutInt32(b []byte, v int32) {
	PutUint32(b, uint32(v))
}

// Int32 reads a big-endian two's-complement int32 from b[0:4].
func Int32(b []byte) int32 {
	return int32(Uint32(b))
}
