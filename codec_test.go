package xdr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xdr "github.com/ATECoder/go-xdr"
	"github.com/ATECoder/go-xdr/mem"
)

// point is a user composite record exercising the Codec trait by
// composing only primitive calls.
type point struct {
	X, Y int32
}

func (p point) Encode(e xdr.Encoder) error {
	if err := e.EncodeInt32(p.X); err != nil {
		return err
	}
	return e.EncodeInt32(p.Y)
}

func (p *point) Decode(d xdr.Decoder) error {
	x, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	y, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	p.X, p.Y = x, y
	return nil
}

func TestCodecRoundTrip(t *testing.T) {
	e := mem.NewEncoder(&mem.Config{Options: xdr.Options{BufferSize: 64}})
	e.Begin()
	want := point{X: -7, Y: 99}
	require.NoError(t, want.Encode(e))
	require.NoError(t, e.End())

	d := mem.NewDecoder(e.Bytes(), e.Len(), nil)
	d.Begin()
	var got point
	require.NoError(t, got.Decode(d))
	assert.Equal(t, want, got)
}

func TestVoidIsNoOp(t *testing.T) {
	e := mem.NewEncoder(&mem.Config{Options: xdr.Options{BufferSize: 64}})
	e.Begin()
	require.NoError(t, xdr.Void{}.Encode(e))
	assert.Equal(t, 0, e.Len())

	d := mem.NewDecoder(nil, 0, nil)
	d.Begin()
	var v xdr.Void
	require.NoError(t, v.Decode(d))
}
