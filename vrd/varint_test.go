package vrd_test

import (
	"bytes"
	"io"
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint32{
		0, 1, 0x7F, 0x80, 0xFF, 0x3FFF, 0x4000,
		1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28,
		math.MaxInt32, math.MaxInt32 + 1, math.MaxUint32,
	}
	for _, v := range values {
		b := vrd.AppendVarint(nil, v)

		want := (bits.Len32(v) + 6) / 7
		if want == 0 {
			want = 1
		}
		assert.Len(t, b, want, "encoded length of %d", v)
		assert.Equal(t, want, vrd.VarintLen(v))

		got, err := vrd.ReadVarint(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarintEncoding(t *testing.T) {
	tests := []struct {
		name string
		v    uint32
		want []byte
	}{
		{name: "zero", v: 0, want: []byte{0x00}},
		{name: "single byte", v: 0x7F, want: []byte{0x7F}},
		{name: "continuation", v: 0x80, want: []byte{0x80, 0x01}},
		{name: "replay header", v: 0xFF, want: []byte{0xFF, 0x01}},
		{name: "300", v: 300, want: []byte{0xAC, 0x02}},
		{name: "max", v: math.MaxUint32, want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vrd.AppendVarint(nil, tt.v))
		})
	}
}

func TestAppendVarintKeepsPrefix(t *testing.T) {
	b := vrd.AppendVarint([]byte{0xAA}, 0x80)
	assert.Equal(t, []byte{0xAA, 0x80, 0x01}, b)
}

func TestReadVarintErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantErr error
	}{
		{name: "empty", in: nil, wantErr: io.EOF},
		{name: "truncated", in: []byte{0x80, 0x80}, wantErr: io.ErrUnexpectedEOF},
		{name: "too long", in: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, wantErr: vrd.ErrVarintTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vrd.ReadVarint(bytes.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
