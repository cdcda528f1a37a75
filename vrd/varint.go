package vrd

import (
	"bytes"
	"errors"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
)

// MaxVarintLen is the maximum encoded size of a 32-bit varint.
const MaxVarintLen = 5

// ErrVarintTooLong is returned when a varint runs past MaxVarintLen bytes.
var ErrVarintTooLong = errors.New("vrd: varint too long")

// AppendVarint appends the LEB128 encoding of v to b.
// The bit pattern matches the Minecraft protocol VarInt, so the encoding is
// shared with go-mc.
func AppendVarint(b []byte, v uint32) []byte {
	buf := bytes.NewBuffer(b)
	_, _ = pk.VarInt(int32(v)).WriteTo(buf)
	return buf.Bytes()
}

// VarintLen returns the number of bytes AppendVarint would produce for v.
func VarintLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// ReadVarint decodes one varint from r.
func ReadVarint(r io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, ErrVarintTooLong
}
