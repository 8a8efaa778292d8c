// Package udp implements the UDP datagram stream backing: a single
// fixed buffer with no fragmentation, where Begin
// captures the destination (encode) or blocks for one datagram receive
// (decode), and End performs exactly one send (encode) or is a no-op
// (decode).
package udp

import (
	"net"
	"sync"
	"time"

	xdr "github.com/ATECoder/go-xdr"
	"github.com/ATECoder/go-xdr/internal/bufpool"
	"github.com/ATECoder/go-xdr/internal/logger"
	"github.com/ATECoder/go-xdr/internal/wire"
	"github.com/ATECoder/go-xdr/metrics"
)

// Config configures a udp backing.
type Config struct {
	xdr.Options

	// Conn is the UDP socket the backing reads from and writes to. The
	// backing takes ownership of Conn for its lifetime.
	Conn *net.UDPConn

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

// Encoder writes one datagram's worth of XDR primitives and sends them
// to a captured remote address on End.
type Encoder struct {
	conn    *net.UDPConn
	buf     []byte
	pooled  bool
	cursor  int
	remote  *net.UDPAddr
	enc     xdr.CharacterEncoding
	metrics metrics.StreamMetrics
	once    sync.Once
}

// NewEncoder creates a udp Encoder over cfg.Conn. The datagram buffer is
// drawn from internal/bufpool rather than freshly allocated: unlike
// mem's fresh zero-filled buffer, a recycled datagram buffer's stale
// bytes are never observable -- every value's own padding is zeroed
// explicitly by EncodeOpaque.
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

// Begin captures remote as the destination for the next End and resets
// the cursor.
func (e *Encoder) Begin(remote *net.UDPAddr) {
	e.remote = remote
	e.cursor = 0
}

// End sends the accumulated octets to the captured remote address in a
// single datagram write.
func (e *Encoder) End() error {
	start := time.Now()
	n, err := e.conn.WriteToUDP(e.buf[:e.cursor], e.remote)
	if err != nil {
		logger.Error("udp encode send failed",
			logger.Backing("udp"), logger.Op("End"),
			logger.Remote(e.remote.String()), logger.Bytes(e.cursor),
			logger.Err(err))
		if e.metrics != nil {
			e.metrics.RecordError("udp", xdr.CannotSend.String())
		}
		return xdr.WrapError(xdr.CannotSend, "udp.Encoder.End", err)
	}
	if e.metrics != nil {
		e.metrics.ObserveEncode("udp", n, time.Since(start))
	}
	return nil
}

// Release closes the underlying socket. Idempotent.
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

func (e *Encoder) reserve(n int) error {
	if e.cursor+n > len(e.buf) {
		return xdr.NewError(xdr.BufferOverflow, "udp.Encoder", "encode would advance past buffer capacity")
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

// Decoder reads one received datagram's worth of XDR primitives.
type Decoder struct {
	conn     *net.UDPConn
	buf      []byte
	pooled   bool
	cursor   int
	highMark int
	remote   *net.UDPAddr
	enc      xdr.CharacterEncoding
	metrics  metrics.StreamMetrics
	once     sync.Once
}

// NewDecoder creates a udp Decoder over cfg.Conn.
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

// Begin blocks for one datagram receive into the decoder's buffer.
func (d *Decoder) Begin() error {
	start := time.Now()
	n, remote, err := d.conn.ReadFromUDP(d.buf)
	if err != nil {
		logger.Error("udp decode receive failed",
			logger.Backing("udp"), logger.Op("Begin"),
			logger.BufferSize(len(d.buf)), logger.Err(err))
		if d.metrics != nil {
			d.metrics.RecordError("udp", xdr.CannotReceive.String())
		}
		return xdr.WrapError(xdr.CannotReceive, "udp.Decoder.Begin", err)
	}
	d.remote = remote
	d.cursor = 0
	d.highMark = n - wire.WordSize
	if d.metrics != nil {
		d.metrics.ObserveDecode("udp", n, time.Since(start))
	}
	return nil
}

// End is a no-op for the UDP decoder.
func (d *Decoder) End() error { return nil }

// Release closes the underlying socket. Idempotent.
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

// RemoteAddr returns the sender of the most recently received datagram.
func (d *Decoder) RemoteAddr() *net.UDPAddr { return d.remote }

// Remaining returns the number of undecoded octets left in the received
// datagram. Length-prefixed decoders use it to report a declared length
// that cannot possibly be satisfied as Malformed rather than running
// into the end of the datagram.
func (d *Decoder) Remaining() int { return d.highMark + wire.WordSize - d.cursor }

// CharacterEncoding returns the decoder's configured string codec.
func (d *Decoder) CharacterEncoding() xdr.CharacterEncoding { return d.enc }

func (d *Decoder) checkAvail(n int) error {
	if d.cursor > d.highMark {
		return xdr.NewError(xdr.BufferUnderflow, "udp.Decoder", "decode would read past the received datagram")
	}
	if d.cursor+n > d.highMark+wire.WordSize {
		return xdr.NewError(xdr.BufferUnderflow, "udp.Decoder", "decode would read past the received datagram")
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
