package vrd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrMeshTooLarge is returned when a mesh has more vertices than its 32-bit
// count field can hold.
var ErrMeshTooLarge = errors.New("vrd: mesh too large")

// Context records entity lifecycle and draw events into a capture.
//
// Usage:
//
//	c, err := vrd.Create("out.vrd", true)
//	if err != nil { ... }
//	defer c.Close()
//	c.RegisterEntity(key, "Agent", "World/Agents", "Agent", "NPC", nil)
//	c.SetPosition(key, vrd.Pt(1, 2, 3))
//	c.StepFrame(0.016)
//
// Recording methods never return errors and never panic. The first failure
// (a write error, or an entity key that cannot be mapped) puts the context
// into a failed state: every later call is a no-op and Err reports the
// cause. All methods are safe to call on a nil *Context.
//
// A Context must not be used from multiple goroutines at once.
type Context struct {
	file   *os.File // owned, when created with Create
	sink   Sink
	enc    *Encoder
	rec    recordWriter
	ids    *entityMap
	frame  uint32
	err    error
	closed bool
	log    *zap.Logger
}

// New starts a capture on w and writes the header record. The caller keeps
// ownership of w; Close flushes but does not close it.
func New(w io.Writer, compressed bool, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	var sink Sink
	if compressed {
		s, err := NewDeflateSink(w, o.level, o.bufferSize)
		if err != nil {
			return nil, err
		}
		sink = s
	} else {
		sink = NewDirectSink(w, o.bufferSize)
	}

	enc := NewEncoder(sink)
	c := &Context{
		sink: sink,
		enc:  enc,
		rec:  recordWriter{enc: enc},
		ids:  newEntityMap(o.keyWidth, o.maxEntities),
		log:  o.logger,
	}
	c.rec.header()
	if err := enc.Err(); err != nil {
		return nil, fmt.Errorf("vrd: write header: %w", err)
	}
	c.log.Debug("capture started",
		zap.Bool("compressed", compressed),
		zap.Int("keyWidth", o.keyWidth))
	return c, nil
}

// Create creates or truncates the file at path and starts a capture on it.
// Close also closes the file. On failure no context is returned.
func Create(path string, compressed bool, opts ...Option) (*Context, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c, err := New(f, compressed, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	c.file = f
	c.log = c.log.With(zap.String("path", path))
	return c, nil
}

// Close flushes the sink, closes the owned file and releases the entity
// map. It returns the error that failed the context, if any, together with
// any error from flushing or closing. Calling Close again is a no-op.
func (c *Context) Close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true

	err := c.err
	err = multierr.Append(err, c.sink.Finish())
	if c.file != nil {
		err = multierr.Append(err, c.file.Close())
		c.file = nil
	}
	c.log.Debug("capture closed",
		zap.Uint32("frames", c.frame),
		zap.Int("entities", c.ids.count()),
		zap.Int64("bytes", c.enc.Written()),
		zap.Error(err))
	c.ids.reset()
	return err
}

// Err returns the error that put the context into the failed state, or nil.
func (c *Context) Err() error {
	if c == nil {
		return nil
	}
	return c.err
}

// Healthy reports whether recording calls still write records.
func (c *Context) Healthy() bool {
	return c != nil && !c.closed && c.err == nil
}

// Frame returns the current frame number: the number of StepFrame calls so far.
func (c *Context) Frame() uint32 {
	if c == nil {
		return 0
	}
	return c.frame
}

// Entities returns the number of distinct keys mapped so far in 64-bit key
// mode.
func (c *Context) Entities() int {
	if c == nil || c.ids == nil {
		return 0
	}
	return c.ids.count()
}

// ID returns the id assigned to key, if the key has been seen.
func (c *Context) ID(key uint64) (uint32, bool) {
	if c == nil || c.closed {
		return 0, false
	}
	return c.ids.lookup(key)
}

func (c *Context) fail(err error) {
	if c.err != nil {
		return
	}
	c.err = err
	c.log.Warn("capture failed, further records are dropped",
		zap.Uint32("frame", c.frame),
		zap.Error(err))
}

// entity resolves key, failing the context if it cannot be mapped.
func (c *Context) entity(key uint64) (uint32, bool) {
	if !c.Healthy() {
		return 0, false
	}
	id, err := c.ids.resolve(key)
	if err != nil {
		c.fail(err)
		return 0, false
	}
	return id, true
}

func (c *Context) flushErr() {
	if err := c.enc.Err(); err != nil {
		c.fail(fmt.Errorf("vrd: write record: %w", err))
	}
}

// RegisterEntity writes an entity definition. A nil xform is recorded as the
// identity transform. The frame of registration is recorded with it.
func (c *Context) RegisterEntity(key uint64, name, path, typeName, category string, xform *Transform, params ...StringPair) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.entityDef(id, c.frame, name, path, typeName, category, xform, params)
	c.flushErr()
}

// UnregisterEntity records the end of an entity's lifetime. The key keeps
// its id; registering it again reuses the same id.
func (c *Context) UnregisterEntity(key uint64) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.entityUndef(id, c.frame)
	c.flushErr()
}

// SetLog attaches a log line to the entity for the current frame.
func (c *Context) SetLog(key uint64, text, category string, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.log(id, c.frame, text, category, color)
	c.flushErr()
}

// SetPosition records the entity's position. A nil pos is recorded as
// the origin.
func (c *Context) SetPosition(key uint64, pos *Point) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.setPos(id, c.frame, pos)
	c.flushErr()
}

// SetTransform records the entity's transform. A nil xform is recorded as
// the identity transform.
func (c *Context) SetTransform(key uint64, xform *Transform) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.setTransform(id, c.frame, xform)
	c.flushErr()
}

// SetParamString records a named string property of the entity.
func (c *Context) SetParamString(key uint64, name, value string) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.paramString(id, c.frame, name, value)
	c.flushErr()
}

// SetParamFloat records a named numeric property of the entity.
func (c *Context) SetParamFloat(key uint64, name string, value float32) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.paramFloat(id, c.frame, name, value)
	c.flushErr()
}

// DrawSphere draws a sphere for the current frame.
func (c *Context) DrawSphere(key uint64, category string, center *Point, radius float32, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.sphere(id, c.frame, category, center, radius, color)
	c.flushErr()
}

// DrawBox draws a box of the given dimensions placed by xform.
func (c *Context) DrawBox(key uint64, category string, xform *Transform, dims *Point, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.box(id, c.frame, category, xform, dims, color)
	c.flushErr()
}

// DrawCapsule draws a capsule between p1 and p2.
func (c *Context) DrawCapsule(key uint64, category string, p1, p2 *Point, radius float32, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.capsule(id, c.frame, category, p1, p2, radius, color)
	c.flushErr()
}

// DrawMesh draws a triangle list. Viewers treat a mesh with an empty
// category drawn in the registration frame as the entity's shape.
func (c *Context) DrawMesh(key uint64, category string, verts []Point, color Color) {
	if !c.Healthy() {
		return
	}
	if len(verts) > math.MaxInt32 {
		c.fail(fmt.Errorf("%w: %d vertices", ErrMeshTooLarge, len(verts)))
		return
	}
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.mesh(id, c.frame, category, verts, color)
	c.flushErr()
}

// DrawLine draws a segment from p1 to p2.
func (c *Context) DrawLine(key uint64, category string, p1, p2 *Point, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.line(id, c.frame, category, p1, p2, color)
	c.flushErr()
}

// DrawCircle draws a circle at pos in the plane whose normal is up.
func (c *Context) DrawCircle(key uint64, category string, pos, up *Point, radius float32, color Color) {
	id, ok := c.entity(key)
	if !ok {
		return
	}
	c.rec.circle(id, c.frame, category, pos, up, radius, color)
	c.flushErr()
}

// StepFrame closes the current frame at totalTime seconds and advances the
// frame counter.
func (c *Context) StepFrame(totalTime float32) {
	if !c.Healthy() {
		return
	}
	c.rec.frameStep(totalTime)
	c.flushErr()
	c.frame++
}
