// Package tcp implements the TCP record-marked stream backing: RFC 1831
// record marking layered over a byte-oriented net.Conn. This is the
// subsystem with real state -- the encoder cycles through
// Idle/Active/Flushed via its fragment header index and cursor, and the
// decoder tracks how much of the current fragment remains unread across
// possibly many fill calls.
package tcp

import (
	"io"
	"net"
	"sync"
	"time"

	xdr "github.com/ATECoder/go-xdr"
	"github.com/ATECoder/go-xdr/internal/bufpool"
	"github.com/ATECoder/go-xdr/internal/logger"
	"github.com/ATECoder/go-xdr/internal/wire"
	"github.com/ATECoder/go-xdr/metrics"
)

// lastFragmentBit is the top bit of an RFC 1831 fragment header: set on
// the final fragment of a record, clear otherwise. The remaining 31
// bits hold the fragment's payload length in octets.
const lastFragmentBit uint32 = 0x80000000

// Config configures a tcp backing.
type Config struct {
	xdr.Options

	// Conn is the TCP connection the backing reads from and writes to.
	// The backing takes ownership of Conn for its lifetime.
	Conn net.Conn

	// Metrics is optional; a nil Metrics disables instrumentation.
	Metrics metrics.StreamMetrics
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
		Conn:    cfg.Conn,
		Metrics: cfg.Metrics,
	}
}

// Encoder writes XDR primitives into fragments that are flushed to a
// net.Conn as RFC 1831 record-marked fragments.
//
// State: cursor is the next write position in buf;
// fragmentHeaderIndex is the offset of the 4-byte placeholder header for
// the fragment currently being accumulated.
type Encoder struct {
	conn                net.Conn
	buf                 []byte
	pooled              bool
	cursor              int
	fragmentHeaderIndex int
	enc                 xdr.CharacterEncoding
	metrics             metrics.StreamMetrics
	once                sync.Once
}

// NewEncoder creates a tcp Encoder over cfg.Conn.
func NewEncoder(cfg *Config) *Encoder {
	c := resolve(cfg)
	return &Encoder{
		conn:    c.Conn,
		buf:     bufpool.Get(c.BufferSize),
		pooled:  true,
		enc:     c.CharacterEncoding,
		metrics: c.Metrics,
	}
}

// Begin reserves the 4-byte header placeholder for the first fragment of
// a new record and advances the cursor past it. A cursor of zero is the
// encoder's only "never began" state: every flush -- batched or not --
// leaves cursor positioned past a reserved header (a batched EndBatch
// holds a pending header at a nonzero offset, and the next record's
// Begin must not clobber it). So Begin is a no-op once the encoder has
// been used at least once.
func (e *Encoder) Begin() {
	if e.cursor == 0 {
		e.fragmentHeaderIndex = 0
		e.cursor = wire.WordSize
	}
}

// End flushes the current fragment as the record's last fragment and
// writes the buffered bytes to the connection.
func (e *Encoder) End() error {
	return e.flush(true, false)
}

// EndBatch marks the current fragment as the record's last fragment but,
// when the buffer has room for another header plus a word of payload,
// holds the bytes in the buffer instead of writing them, allowing
// several complete records to coalesce into one transport write.
func (e *Encoder) EndBatch() error {
	return e.flush(true, true)
}

// Release closes the underlying connection. Idempotent.
func (e *Encoder) Release() error {
	var err error
	e.once.Do(func() {
		if e.pooled {
			bufpool.Put(e.buf)
			e.pooled = false
		}
		err = e.conn.Close()
	})
	return err
}

// CharacterEncoding returns the encoder's configured string codec.
func (e *Encoder) CharacterEncoding() xdr.CharacterEncoding { return e.enc }

// reserve ensures n more bytes fit before cursor without exceeding the
// buffer's capacity, flushing a non-last fragment first if needed.
func (e *Encoder) reserve(n int) error {
	if e.cursor+n > len(e.buf) {
		if err := e.flush(false, false); err != nil {
			return err
		}
		if e.cursor+n > len(e.buf) {
			return xdr.NewError(xdr.BufferOverflow, "tcp.Encoder", "encode would advance past buffer capacity")
		}
	}
	return nil
}

// flush stamps the pending fragment header with the accumulated payload
// length (and the last-fragment bit when last is set), then writes the
// buffer to the connection. A batched last flush with room left for
// another header plus one word keeps the bytes buffered and reserves
// the next record's header in place instead.
func (e *Encoder) flush(last, batch bool) error {
	payloadLen := e.cursor - e.fragmentHeaderIndex - wire.WordSize
	header := uint32(payloadLen)
	if last {
		header |= lastFragmentBit
	}
	wire.PutUint32(e.buf[e.fragmentHeaderIndex:], header)

	if e.metrics != nil {
		e.metrics.RecordFragment("tcp", payloadLen)
	}

	if last && batch && e.cursor+2*wire.WordSize <= len(e.buf) {
		e.fragmentHeaderIndex = e.cursor
		e.cursor += wire.WordSize
		return nil
	}

	start := time.Now()
	n, err := e.conn.Write(e.buf[:e.cursor])
	if err != nil {
		logger.Error("tcp encode flush failed",
			logger.Backing("tcp"), logger.Op("flush"),
			logger.Fragment(payloadLen), logger.LastFrag(last),
			logger.Bytes(e.cursor), logger.Err(err))
		if e.metrics != nil {
			e.metrics.RecordError("tcp", xdr.CannotSend.String())
		}
		return xdr.WrapError(xdr.CannotSend, "tcp.Encoder.flush", err)
	}
	if n != e.cursor {
		if e.metrics != nil {
			e.metrics.RecordError("tcp", xdr.CannotSend.String())
		}
		return xdr.NewError(xdr.CannotSend, "tcp.Encoder.flush", "short write to connection")
	}
	if e.metrics != nil {
		e.metrics.ObserveEncode("tcp", n, time.Since(start))
	}

	e.fragmentHeaderIndex = 0
	e.cursor = wire.WordSize
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
// the next word boundary. Large opaque values that would never fit in
// the configured buffer (net of the fragment header) are rejected with
// BufferOverflow rather than looping forever against reserve.
func (e *Encoder) EncodeOpaque(b []byte, offset, length int) error {
	padded := length + wire.Pad(length)
	if padded > len(e.buf)-wire.WordSize {
		return xdr.NewError(xdr.BufferOverflow, "tcp.Encoder.EncodeOpaque", "opaque value larger than buffer capacity")
	}
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

// Decoder reads XDR primitives from a net.Conn by undoing RFC 1831
// record marking: fragmentRemaining tracks unread octets of the fragment
// currently being consumed, lastFragment flags whether it is the
// record's final fragment.
type Decoder struct {
	conn              net.Conn
	buf               []byte
	pooled            bool
	cursor            int
	highMark          int
	fragmentRemaining int
	lastFragment      bool
	enc               xdr.CharacterEncoding
	metrics           metrics.StreamMetrics
	once              sync.Once
}

// NewDecoder creates a tcp Decoder over cfg.Conn.
func NewDecoder(cfg *Config) *Decoder {
	c := resolve(cfg)
	return &Decoder{
		conn:    c.Conn,
		buf:     bufpool.Get(c.BufferSize),
		pooled:  true,
		enc:     c.CharacterEncoding,
		metrics: c.Metrics,
	}
}

// Begin resets fragment state for a new record and performs one internal
// fill, reading the first fragment's header.
func (d *Decoder) Begin() error {
	d.reset()
	return d.fill()
}

func (d *Decoder) reset() {
	d.cursor = 0
	d.highMark = -wire.WordSize
	d.fragmentRemaining = 0
	d.lastFragment = false
}

// End drains any fragments the caller left unread, then resets state so
// the decoder is ready for the next record. It always resets state, even
// when the drain itself fails, so the stream stays reusable.
func (d *Decoder) End() error {
	for !(d.lastFragment && d.fragmentRemaining == 0) {
		if err := d.fill(); err != nil {
			d.reset()
			return err
		}
	}
	d.reset()
	return nil
}

// Release closes the underlying connection. Idempotent.
func (d *Decoder) Release() error {
	var err error
	d.once.Do(func() {
		if d.pooled {
			bufpool.Put(d.buf)
			d.pooled = false
		}
		err = d.conn.Close()
	})
	return err
}

// CharacterEncoding returns the decoder's configured string codec.
func (d *Decoder) CharacterEncoding() xdr.CharacterEncoding { return d.enc }

// fill makes more record data available in buf: when the current
// fragment is exhausted it reads and validates the next 4-byte fragment
// header, then reads up to a buffer's worth of the fragment body.
func (d *Decoder) fill() error {
	if d.fragmentRemaining == 0 && d.lastFragment {
		return xdr.NewError(xdr.BufferUnderflow, "tcp.Decoder.fill", "no more data in this record")
	}

	if d.fragmentRemaining == 0 {
		var hdr [wire.WordSize]byte
		if _, err := io.ReadFull(d.conn, hdr[:]); err != nil {
			logger.Error("tcp decode fragment header read failed",
				logger.Backing("tcp"), logger.Op("fill"),
				logger.LastFrag(d.lastFragment), logger.Err(err))
			if d.metrics != nil {
				d.metrics.RecordError("tcp", xdr.CannotReceive.String())
			}
			return xdr.WrapError(xdr.CannotReceive, "tcp.Decoder.fill", err)
		}
		val := wire.Uint32(hdr[:])
		last := val&lastFragmentBit != 0
		length := val &^ lastFragmentBit
		if length%uint32(wire.WordSize) != 0 {
			if d.metrics != nil {
				d.metrics.RecordError("tcp", xdr.Malformed.String())
			}
			return xdr.NewError(xdr.Malformed, "tcp.Decoder.fill", "fragment length is not a multiple of 4")
		}
		if length == 0 && !last {
			if d.metrics != nil {
				d.metrics.RecordError("tcp", xdr.Malformed.String())
			}
			return xdr.NewError(xdr.Malformed, "tcp.Decoder.fill", "non-last fragment has zero length")
		}
		d.lastFragment = last
		d.fragmentRemaining = int(length)
		if d.metrics != nil {
			d.metrics.RecordFragment("tcp", d.fragmentRemaining)
		}
	}

	readLen := min(d.fragmentRemaining, len(d.buf))
	start := time.Now()
	if readLen > 0 {
		if _, err := io.ReadFull(d.conn, d.buf[:readLen]); err != nil {
			logger.Error("tcp decode fragment body read failed",
				logger.Backing("tcp"), logger.Op("fill"),
				logger.Fragment(d.fragmentRemaining), logger.Bytes(readLen),
				logger.Err(err))
			if d.metrics != nil {
				d.metrics.RecordError("tcp", xdr.CannotReceive.String())
			}
			return xdr.WrapError(xdr.CannotReceive, "tcp.Decoder.fill", err)
		}
	}
	if d.metrics != nil {
		d.metrics.ObserveDecode("tcp", readLen, time.Since(start))
	}

	d.cursor = 0
	d.highMark = readLen - wire.WordSize
	d.fragmentRemaining -= readLen
	return nil
}

// ensureAvail loops fill (not merely calling it once) so a legal empty
// trailing last-fragment is skipped rather than mistaken for Malformed.
func (d *Decoder) ensureAvail(n int) error {
	for d.cursor > d.highMark {
		if err := d.fill(); err != nil {
			return err
		}
	}
	if d.cursor+n > d.highMark+wire.WordSize {
		return xdr.NewError(xdr.BufferUnderflow, "tcp.Decoder", "decode would read past the current fragment's buffered data")
	}
	return nil
}

// DecodeInt32 reads a signed 32-bit integer.
func (d *Decoder) DecodeInt32() (int32, error) {
	if err := d.ensureAvail(wire.WordSize); err != nil {
		return 0, err
	}
	v := wire.Int32(d.buf[d.cursor:])
	d.cursor += wire.WordSize
	return v, nil
}

// DecodeUint32 reads an unsigned 32-bit integer.
func (d *Decoder) DecodeUint32() (uint32, error) {
	if err := d.ensureAvail(wire.WordSize); err != nil {
		return 0, err
	}
	v := wire.Uint32(d.buf[d.cursor:])
	d.cursor += wire.WordSize
	return v, nil
}

// DecodeOpaque reads length bytes (plus padding), possibly spanning
// several fills when length exceeds the buffered chunk, and returns a
// freshly allocated copy.
func (d *Decoder) DecodeOpaque(length int) ([]byte, error) {
	out := make([]byte, length)
	if err := d.DecodeOpaqueInto(out, 0, length); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeOpaqueInto reads length bytes (plus padding) into buf at offset,
// copying what is currently buffered and calling fill to fetch the rest.
func (d *Decoder) DecodeOpaqueInto(buf []byte, offset, length int) error {
	if err := d.copyFromStream(buf[offset : offset+length]); err != nil {
		return err
	}
	if pad := wire.Pad(length); pad > 0 {
		return d.skipStream(pad)
	}
	return nil
}

// copyFromStream copies len(dst) bytes from the fragment stream into
// dst, fetching more fragment data with fill as needed.
func (d *Decoder) copyFromStream(dst []byte) error {
	pos := 0
	for pos < len(dst) {
		for d.cursor > d.highMark {
			if err := d.fill(); err != nil {
				return err
			}
		}
		avail := d.highMark + wire.WordSize - d.cursor
		n := len(dst) - pos
		if n > avail {
			n = avail
		}
		copy(dst[pos:pos+n], d.buf[d.cursor:d.cursor+n])
		d.cursor += n
		pos += n
	}
	return nil
}

// skipStream discards n bytes from the fragment stream without copying
// them. Padding content is consumed but not validated.
func (d *Decoder) skipStream(n int) error {
	for n > 0 {
		for d.cursor >= d.highMark+wire.WordSize {
			if err := d.fill(); err != nil {
				return err
			}
		}
		avail := d.highMark + wire.WordSize - d.cursor
		take := n
		if take > avail {
			take = avail
		}
		d.cursor += take
		n -= take
	}
	return nil
}
