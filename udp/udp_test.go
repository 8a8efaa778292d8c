package udp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xdr "github.com/ATECoder/go-xdr"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	return conn
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	serverConn := listenLoopback(t)
	defer serverConn.Close()

	clientConn := listenLoopback(t)
	enc := NewEncoder(&Config{Options: xdr.Options{BufferSize: 64}, Conn: clientConn})
	defer enc.Release()

	dec := NewDecoder(&Config{Options: xdr.Options{BufferSize: 64}, Conn: serverConn})
	defer dec.Release()

	enc.Begin(serverConn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, enc.EncodeInt32(42))
	require.NoError(t, xdr.EncodeString(enc, "XDR"))
	require.NoError(t, enc.End())

	require.NoError(t, dec.Begin())
	v, err := dec.DecodeInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	s, err := xdr.DecodeString(dec)
	require.NoError(t, err)
	assert.Equal(t, "XDR", s)

	require.NoError(t, dec.End())
}

func TestNoFragmentationSingleDatagram(t *testing.T) {
	serverConn := listenLoopback(t)
	defer serverConn.Close()
	clientConn := listenLoopback(t)

	enc := NewEncoder(&Config{Options: xdr.Options{BufferSize: 64}, Conn: clientConn})
	defer enc.Release()
	dec := NewDecoder(&Config{Options: xdr.Options{BufferSize: 64}, Conn: serverConn})
	defer dec.Release()

	enc.Begin(serverConn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, xdr.EncodeInt32Vector(enc, []int32{1, 2, 3, 4, 5}))
	require.NoError(t, enc.End())

	require.NoError(t, dec.Begin())
	v, err := xdr.DecodeInt32Vector(dec)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, v)
}

func TestReleaseIsIdempotent(t *testing.T) {
	conn := listenLoopback(t)
	enc := NewEncoder(&Config{Conn: conn})

	require.NoError(t, enc.Release())
	require.NoError(t, enc.Release())
}

func TestDecodeAfterCloseFails(t *testing.T) {
	conn := listenLoopback(t)
	dec := NewDecoder(&Config{Conn: conn})
	require.NoError(t, dec.Release())

	err := dec.Begin()
	require.Error(t, err)
	assert.True(t, xdr.Is(err, xdr.CannotReceive))
}

func TestEncodeOverflow(t *testing.T) {
	conn := listenLoopback(t)
	defer conn.Close()
	enc := NewEncoder(&Config{Options: xdr.Options{BufferSize: 4}, Conn: conn})

	enc.Begin(conn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, enc.EncodeInt32(1))
	err := enc.EncodeInt32(2)
	require.Error(t, err)
	assert.True(t, xdr.Is(err, xdr.BufferOverflow))
}
