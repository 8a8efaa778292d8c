package xdr

// Process-wide defaults, overridable per stream.
const (
	// DefaultBufferSize is the initial buffer size, in octets, used by a
	// stream backing when the caller does not request a specific size.
	DefaultBufferSize = 8192

	// MinBufferSize is the floor applied to the default buffer size. An
	// explicitly requested size is only rounded up to a multiple of 4;
	// this floor is not applied to it.
	MinBufferSize = 1024
)

// Options holds the configuration shared by every stream backing. Each
// backing's own Config struct embeds Options and adds backing-specific
// fields (a socket, a pre-filled buffer, and so on); a nil Config means
// all defaults (see mem.Config, udp.Config, tcp.Config).
type Options struct {
	// BufferSize is the requested buffer size in octets. Zero selects
	// DefaultBufferSize (floored at MinBufferSize). A nonzero value is
	// rounded up to a multiple of 4; MinBufferSize is not applied to it.
	BufferSize int

	// CharacterEncoding converts string wire octets to and from Go
	// strings. Nil selects UTF8.
	CharacterEncoding CharacterEncoding
}

// ResolveBufferSize applies the buffer-size rounding rule: requested
// sizes round up to the nearest multiple of 4. The MinBufferSize floor
// governs the default a caller gets by leaving BufferSize unset (zero);
// a caller who explicitly requests a small buffer (e.g. to exercise an
// exactly-full boundary) gets exactly that size, rounded up to a word
// boundary only.
func ResolveBufferSize(requested int) int {
	if requested <= 0 {
		requested = DefaultBufferSize
		if requested < MinBufferSize {
			requested = MinBufferSize
		}
	}
	if rem := requested % 4; rem != 0 {
		requested += 4 - rem
	}
	return requested
}

// ResolveCharacterEncoding returns enc if non-nil, else UTF8.
func ResolveCharacterEncoding(enc CharacterEncoding) CharacterEncoding {
	if enc == nil {
		return UTF8
	}
	return enc
}
