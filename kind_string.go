package xdr

// Code generated by "stringer -type=Kind"; hand-maintained here since the
// toolchain is not invoked as part of this build. Re-run stringer instead
// of hand-editing if Kind gains or reorders values.

import "strconv"

func _() {
	// An "invalid array index" compiler error signals that the Kind
	// values have drifted out of sync with this file.
	var x [1]struct{}
	_ = x[CannotSend-0]
	_ = x[CannotReceive-1]
	_ = x[BufferOverflow-2]
	_ = x[BufferUnderflow-3]
	_ = x[Malformed-4]
	_ = x[Failed-5]
}

const _Kind_name = "CannotSendCannotReceiveBufferOverflowBufferUnderflowMalformedFailed"

var _Kind_index = [...]uint8{0, 10, 23, 37, 52, 61, 67}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(_Kind_index)-1 {
		return "Kind(" + strconv.FormatInt(int64(k), 10) + ")"
	}
	return _Kind_name[_Kind_index[k]:_Kind_index[k+1]]
}
