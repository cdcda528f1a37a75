package vrd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/klauspost/compress/flate"
)

var (
	// ErrMissingHeader is returned when a stream does not start with the
	// replay header record.
	ErrMissingHeader = errors.New("vrd: missing replay header")
	// ErrInvalidBlock is returned for a record tag that is not a known
	// block type.
	ErrInvalidBlock = errors.New("vrd: invalid block type")
	// ErrTooLarge is returned when a length field exceeds the reader limits.
	ErrTooLarge = errors.New("vrd: length exceeds limit")
)

const (
	maxStringLen   = 16 << 20
	maxMeshVertCnt = 16 << 20
	// meshPrealloc bounds the vertex capacity reserved from an unverified count.
	meshPrealloc = 1024
)

// EntityDef is the payload of an EntityDef record.
type EntityDef struct {
	ID        uint32
	Name      string
	Path      string
	TypeName  string
	Category  string
	Transform Transform
	Params    []StringPair
	Frame     uint32
}

// Record is one decoded record. Only the fields used by Type are set:
//
//	FrameStep           Frame (steps seen so far), Time
//	EntityDef           Def
//	EntitySetPos        Points[0]
//	EntitySetTransform  Transform
//	EntityLog           Category, Text, Color
//	EntityParameter     Name, Text
//	EntityValue         Name, Value
//	EntityLine          Category, Points (p1, p2), Color
//	EntityCircle        Category, Points (position, up), Radius, Color
//	EntitySphere        Category, Points[0] (center), Radius, Color
//	EntityCapsule       Category, Points (p1, p2), Radius, Color
//	EntityMesh          Category, Points (vertices), Color
//	EntityBox           Category, Transform, Points[0] (dimensions), Color
type Record struct {
	Type   BlockType
	Frame  uint32
	Entity uint32

	Time      float32
	Def       *EntityDef
	Category  string
	Name      string
	Text      string
	Value     float32
	Points    []Point
	Transform Transform
	Radius    float32
	Color     Color
}

// Reader decodes records from a capture stream, compressed or not.
type Reader struct {
	br         *bufio.Reader
	zr         io.ReadCloser
	compressed bool
	frame      uint32
	captures   int
	err        error
}

// NewReader detects whether r holds a compressed capture and consumes the
// header record.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, err
	}
	rd := &Reader{br: br}
	// An uncompressed capture starts with the varint 0xFF. A raw deflate
	// stream cannot: 0xFF would announce the reserved block type 3.
	if head[0] != 0xFF || head[1] != 0x01 {
		rd.zr = flate.NewReader(br)
		rd.br = bufio.NewReader(rd.zr)
		rd.compressed = true
	}
	v, err := ReadVarint(rd.br)
	if err != nil || BlockType(v) != BlockReplayHeader {
		_ = rd.Close()
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %w", ErrMissingHeader, err)
		}
		return nil, ErrMissingHeader
	}
	rd.captures = 1
	return rd, nil
}

// Compressed reports whether the stream was raw deflate.
func (r *Reader) Compressed() bool { return r.compressed }

// Frame returns the number of FrameStep records read so far in the current
// capture.
func (r *Reader) Frame() uint32 { return r.frame }

// Captures returns the number of headers read so far. Captures written one
// after another into the same stream each start with a header and count
// their frames from zero.
func (r *Reader) Captures() int { return r.captures }

// Close releases the decompressor, if any. It does not close the source.
func (r *Reader) Close() error {
	if r.zr == nil {
		return nil
	}
	err := r.zr.Close()
	r.zr = nil
	return err
}

// Next returns the next record, or io.EOF at the end of the stream. A record
// cut short by the end of the stream yields io.ErrUnexpectedEOF.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	return rec, nil
}

// Records iterates over the remaining records. Iteration stops after the
// first error, which is yielded with a nil record; io.EOF is not yielded.
func (r *Reader) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]*Record, error) {
	var out []*Record
	for rec, err := range r.Records() {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Reader) next() (*Record, error) {
	var tag uint32
	for {
		v, err := ReadVarint(r.br)
		if err != nil {
			return nil, err
		}
		if BlockType(v) != BlockReplayHeader {
			tag = v
			break
		}
		r.frame = 0
		r.captures++
	}

	bt := BlockType(tag)
	if !bt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlock, tag)
	}

	d := decoder{r: r.br}
	rec := &Record{Type: bt}
	if bt == BlockFrameStep {
		rec.Frame = r.frame
		rec.Time = d.f32()
		if d.err != nil {
			return nil, d.fail()
		}
		r.frame++
		return rec, nil
	}

	rec.Frame = d.varint()
	rec.Entity = d.varint()
	switch bt {
	case BlockEntityDef:
		def := &EntityDef{ID: d.varint()}
		def.Name = d.str()
		def.Path = d.str()
		def.TypeName = d.str()
		def.Category = d.str()
		def.Transform = d.transform()
		n := d.varint()
		if d.err == nil && n > maxStringLen {
			d.err = fmt.Errorf("%w: %d params", ErrTooLarge, n)
		}
		for i := uint32(0); i < n && d.err == nil; i++ {
			k := d.str()
			v := d.str()
			def.Params = append(def.Params, StringPair{Key: k, Value: v})
		}
		def.Frame = d.varint()
		rec.Def = def
	case BlockEntityUndef:
	case BlockEntitySetPos:
		rec.Points = []Point{d.point()}
	case BlockEntitySetTransform:
		rec.Transform = d.transform()
	case BlockEntityLog:
		rec.Category = d.str()
		rec.Text = d.str()
		rec.Color = d.color()
	case BlockEntityParameter:
		rec.Name = d.str()
		rec.Text = d.str()
	case BlockEntityValue:
		rec.Name = d.str()
		rec.Value = d.f32()
	case BlockEntityLine:
		rec.Category = d.str()
		rec.Points = []Point{d.point(), d.point()}
		rec.Color = d.color()
	case BlockEntityCircle:
		rec.Category = d.str()
		rec.Points = []Point{d.point(), d.point()}
		rec.Radius = d.f32()
		rec.Color = d.color()
	case BlockEntitySphere:
		rec.Category = d.str()
		rec.Points = []Point{d.point()}
		rec.Radius = d.f32()
		rec.Color = d.color()
	case BlockEntityCapsule:
		rec.Category = d.str()
		rec.Points = []Point{d.point(), d.point()}
		rec.Radius = d.f32()
		rec.Color = d.color()
	case BlockEntityMesh:
		rec.Category = d.str()
		n := d.i32()
		if d.err == nil && (n < 0 || n > maxMeshVertCnt) {
			d.err = fmt.Errorf("%w: %d vertices", ErrTooLarge, n)
		}
		if d.err == nil {
			rec.Points = make([]Point, 0, min(n, meshPrealloc))
			for i := int32(0); i < n && d.err == nil; i++ {
				rec.Points = append(rec.Points, d.point())
			}
		}
		rec.Color = d.color()
	case BlockEntityBox:
		rec.Category = d.str()
		rec.Transform = d.transform()
		rec.Points = []Point{d.point()}
		rec.Color = d.color()
	}
	if d.err != nil {
		return nil, d.fail()
	}
	return rec, nil
}

// decoder reads record fields, keeping the first error.
type decoder struct {
	r       *bufio.Reader
	scratch [4]byte
	err     error
}

// fail turns a clean EOF inside a record into io.ErrUnexpectedEOF.
func (d *decoder) fail() error {
	if errors.Is(d.err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return d.err
}

func (d *decoder) varint() uint32 {
	if d.err != nil {
		return 0
	}
	v, err := ReadVarint(d.r)
	d.err = err
	return v
}

func (d *decoder) u32() uint32 {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.scratch[:]); err != nil {
		d.err = err
		return 0
	}
	return binary.LittleEndian.Uint32(d.scratch[:])
}

func (d *decoder) i32() int32 { return int32(d.u32()) }

func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }

func (d *decoder) str() string {
	n := d.varint()
	if d.err != nil || n == 0 {
		return ""
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("%w: string of %d bytes", ErrTooLarge, n)
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = err
		return ""
	}
	return string(b)
}

func (d *decoder) point() Point {
	return Point{X: d.f32(), Y: d.f32(), Z: d.f32()}
}

func (d *decoder) transform() Transform {
	t := Transform{Translation: d.point()}
	t.Rotation = Quaternion{X: d.f32(), Y: d.f32(), Z: d.f32(), W: d.f32()}
	return t
}

func (d *decoder) color() Color { return Color(d.varint()) }
