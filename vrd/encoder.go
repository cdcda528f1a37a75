package vrd

import (
	"encoding/binary"
	"io"
	"math"

	pk "github.com/Tnze/go-mc/net/packet"
)

// Encoder writes primitive wire values to an underlying writer.
//
// The first write error is kept and every later call becomes a no-op, so a
// record can be written without checking each field; call Err once the
// record is complete.
type Encoder struct {
	w       io.Writer
	scratch [4]byte
	n       int64
	err     error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

// Written returns the number of bytes successfully handed to the writer.
func (e *Encoder) Written() int64 { return e.n }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err
}

// Varint writes v as an unsigned LEB128 varint.
func (e *Encoder) Varint(v uint32) {
	if e.err != nil {
		return
	}
	n, err := pk.VarInt(int32(v)).WriteTo(e.w)
	e.n += n
	e.err = err
}

// Int32 writes v as 4 little-endian bytes.
func (e *Encoder) Int32(v int32) {
	binary.LittleEndian.PutUint32(e.scratch[:], uint32(v))
	e.write(e.scratch[:])
}

// Float32 writes the IEEE-754 bits of v as 4 little-endian bytes.
func (e *Encoder) Float32(v float32) {
	binary.LittleEndian.PutUint32(e.scratch[:], math.Float32bits(v))
	e.write(e.scratch[:])
}

// String writes the byte length of s as a varint followed by its bytes.
// The empty string is a single zero byte.
func (e *Encoder) String(s string) {
	if e.err != nil {
		return
	}
	n, err := pk.String(s).WriteTo(e.w)
	e.n += n
	e.err = err
}

// Point writes x, y and z. A nil point is written as the origin.
func (e *Encoder) Point(p *Point) {
	if p == nil {
		p = &Point{}
	}
	e.Float32(p.X)
	e.Float32(p.Y)
	e.Float32(p.Z)
}

// Transform writes the translation then the rotation x, y, z, w.
// A nil transform is written as the identity transform.
func (e *Encoder) Transform(t *Transform) {
	if t == nil {
		t = &Transform{Rotation: Quaternion{W: 1}}
	}
	e.Point(&t.Translation)
	e.Float32(t.Rotation.X)
	e.Float32(t.Rotation.Y)
	e.Float32(t.Rotation.Z)
	e.Float32(t.Rotation.W)
}

// Color writes the ordinal of c as a varint.
func (e *Encoder) Color(c Color) {
	e.Varint(uint32(c))
}
