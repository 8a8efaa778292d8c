package xdr

// This file implements the homogeneous vector encodings: a
// count-prefixed sequence of identically-typed elements. Each element
// type gets a length-prefixed encoder/decoder pair plus a "Fixed"
// overload that skips the length prefix for callers who already know the
// element count from context (a struct field, a preceding union arm).

// EncodeInt16Vector writes len(v) followed by each element of v, each
// sign-extended into its own word.
func EncodeInt16Vector(e Encoder, v []int16) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeInt16VectorFixed(e, v)
}

// EncodeInt16VectorFixed writes each element of v with no length prefix.
func EncodeInt16VectorFixed(e Encoder, v []int16) error {
	for _, x := range v {
		if err := EncodeInt16(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInt16Vector reads a count-prefixed vector of int16.
func DecodeInt16Vector(d Decoder) ([]int16, error) {
	n, err := decodeVectorLength(d, "DecodeInt16Vector")
	if err != nil {
		return nil, err
	}
	return DecodeInt16VectorFixed(d, n)
}

// DecodeInt16VectorFixed reads exactly n int16 elements with no length
// prefix.
func DecodeInt16VectorFixed(d Decoder, n int) ([]int16, error) {
	out := make([]int16, n)
	for i := range out {
		v, err := DecodeInt16(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeInt32Vector writes len(v) followed by each element of v.
func EncodeInt32Vector(e Encoder, v []int32) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeInt32VectorFixed(e, v)
}

// EncodeInt32VectorFixed writes each element of v with no length prefix.
func EncodeInt32VectorFixed(e Encoder, v []int32) error {
	for _, x := range v {
		if err := e.EncodeInt32(x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInt32Vector reads a count-prefixed vector of int32.
func DecodeInt32Vector(d Decoder) ([]int32, error) {
	n, err := decodeVectorLength(d, "DecodeInt32Vector")
	if err != nil {
		return nil, err
	}
	return DecodeInt32VectorFixed(d, n)
}

// DecodeInt32VectorFixed reads exactly n int32 elements with no length
// prefix.
func DecodeInt32VectorFixed(d Decoder, n int) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		v, err := d.DecodeInt32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeUint32Vector writes len(v) followed by each element of v.
func EncodeUint32Vector(e Encoder, v []uint32) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeUint32VectorFixed(e, v)
}

// EncodeUint32VectorFixed writes each element of v with no length prefix.
func EncodeUint32VectorFixed(e Encoder, v []uint32) error {
	for _, x := range v {
		if err := e.EncodeUint32(x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeUint32Vector reads a count-prefixed vector of uint32.
func DecodeUint32Vector(d Decoder) ([]uint32, error) {
	n, err := decodeVectorLength(d, "DecodeUint32Vector")
	if err != nil {
		return nil, err
	}
	return DecodeUint32VectorFixed(d, n)
}

// DecodeUint32VectorFixed reads exactly n uint32 elements with no length
// prefix.
func DecodeUint32VectorFixed(d Decoder, n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := d.DecodeUint32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeInt64Vector writes len(v) followed by each element of v.
func EncodeInt64Vector(e Encoder, v []int64) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeInt64VectorFixed(e, v)
}

// EncodeInt64VectorFixed writes each element of v with no length prefix.
func EncodeInt64VectorFixed(e Encoder, v []int64) error {
	for _, x := range v {
		if err := EncodeInt64(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInt64Vector reads a count-prefixed vector of int64.
func DecodeInt64Vector(d Decoder) ([]int64, error) {
	n, err := decodeVectorLength(d, "DecodeInt64Vector")
	if err != nil {
		return nil, err
	}
	return DecodeInt64VectorFixed(d, n)
}

// DecodeInt64VectorFixed reads exactly n int64 elements with no length
// prefix.
func DecodeInt64VectorFixed(d Decoder, n int) ([]int64, error) {
	out := make([]int64, n)
	for i := range out {
		v, err := DecodeInt64(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeFloat32Vector writes len(v) followed by each element of v.
func EncodeFloat32Vector(e Encoder, v []float32) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeFloat32VectorFixed(e, v)
}

// EncodeFloat32VectorFixed writes each element of v with no length
// prefix.
func EncodeFloat32VectorFixed(e Encoder, v []float32) error {
	for _, x := range v {
		if err := EncodeFloat32(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFloat32Vector reads a count-prefixed vector of float32.
func DecodeFloat32Vector(d Decoder) ([]float32, error) {
	n, err := decodeVectorLength(d, "DecodeFloat32Vector")
	if err != nil {
		return nil, err
	}
	return DecodeFloat32VectorFixed(d, n)
}

// DecodeFloat32VectorFixed reads exactly n float32 elements with no
// length prefix.
func DecodeFloat32VectorFixed(d Decoder, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := DecodeFloat32(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeFloat64Vector writes len(v) followed by each element of v.
func EncodeFloat64Vector(e Encoder, v []float64) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeFloat64VectorFixed(e, v)
}

// EncodeFloat64VectorFixed writes each element of v with no length
// prefix.
func EncodeFloat64VectorFixed(e Encoder, v []float64) error {
	for _, x := range v {
		if err := EncodeFloat64(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFloat64Vector reads a count-prefixed vector of float64.
func DecodeFloat64Vector(d Decoder) ([]float64, error) {
	n, err := decodeVectorLength(d, "DecodeFloat64Vector")
	if err != nil {
		return nil, err
	}
	return DecodeFloat64VectorFixed(d, n)
}

// DecodeFloat64VectorFixed reads exactly n float64 elements with no
// length prefix.
func DecodeFloat64VectorFixed(d Decoder, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := DecodeFloat64(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeBoolVector writes len(v) followed by each element of v.
func EncodeBoolVector(e Encoder, v []bool) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeBoolVectorFixed(e, v)
}

// EncodeBoolVectorFixed writes each element of v with no length prefix.
func EncodeBoolVectorFixed(e Encoder, v []bool) error {
	for _, x := range v {
		if err := EncodeBool(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBoolVector reads a count-prefixed vector of bool.
func DecodeBoolVector(d Decoder) ([]bool, error) {
	n, err := decodeVectorLength(d, "DecodeBoolVector")
	if err != nil {
		return nil, err
	}
	return DecodeBoolVectorFixed(d, n)
}

// DecodeBoolVectorFixed reads exactly n bool elements with no length
// prefix.
func DecodeBoolVectorFixed(d Decoder, n int) ([]bool, error) {
	out := make([]bool, n)
	for i := range out {
		v, err := DecodeBool(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeStringVector writes len(v) followed by each element of v, each
// encoded as its own length-prefixed string.
func EncodeStringVector(e Encoder, v []string) error {
	if err := e.EncodeUint32(uint32(len(v))); err != nil {
		return err
	}
	return EncodeStringVectorFixed(e, v)
}

// EncodeStringVectorFixed writes each element of v with no vector-length
// prefix; each element still carries its own string length prefix.
func EncodeStringVectorFixed(e Encoder, v []string) error {
	for _, x := range v {
		if err := EncodeString(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStringVector reads a count-prefixed vector of strings.
func DecodeStringVector(d Decoder) ([]string, error) {
	n, err := decodeVectorLength(d, "DecodeStringVector")
	if err != nil {
		return nil, err
	}
	return DecodeStringVectorFixed(d, n)
}

// DecodeStringVectorFixed reads exactly n strings with no vector-length
// prefix.
func DecodeStringVectorFixed(d Decoder, n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		v, err := DecodeString(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeVectorLength reads and validates a vector's element count. A
// negative decoded count is Malformed.
func decodeVectorLength(d Decoder, op string) (int, error) {
	n, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 {
		return 0, newError(Malformed, op, "negative vector length")
	}
	return int(n), nil
}
