package xdr

// Codec is implemented by any type that knows how to serialize itself
// over an XDR stream, composing the primitives and derived operations in
// this package. Callers compose Codec for structs and
// discriminated unions themselves; this library does not generate Codec
// implementations.
type Codec interface {
	// Encode writes the value's wire representation using e.
	Encode(e Encoder) error

	// Decode populates the value's fields by reading from d.
	Decode(d Decoder) error
}

// Void is the canonical zero-length XDR value, used where a protocol
// calls for a type with no wire representation at all (an empty union
// arm, a request with no arguments). Encode and Decode are both no-ops.
type Void struct{}

func (Void) Encode(Encoder) error { return nil }
func (Void) Decode(Decoder) error { return nil }
