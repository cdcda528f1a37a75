// Package recorder provides a goroutine-safe helper around a vrd capture
// context. Every call is serialized with a mutex, so several simulation
// goroutines can record into one file.
//
// A Recorder can also drop redundant records (positions, transforms and
// float parameters that did not change since the last call for the same
// entity) and register entities on first use.
package recorder

import (
	"strconv"
	"sync"
	"time"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

// Recorder streams events to an underlying vrd.Context and computes frame
// times relative to its start time.
type Recorder struct {
	c      *vrd.Context
	start  time.Time
	mu     sync.Mutex
	closed bool

	suppress     bool
	autoRegister bool
	ctxOpts      []vrd.Option

	registered map[uint64]bool
	lastXform  map[uint64]vrd.Transform
	lastValue  map[uint64]map[string]float32
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithChangeSuppression drops SetPosition, SetTransform and SetParamFloat
// calls that repeat the last recorded value for the entity.
func WithChangeSuppression() Option {
	return func(r *Recorder) {
		r.suppress = true
	}
}

// WithAutoRegister registers an entity, named after its key, the first time
// an unregistered key is used.
func WithAutoRegister() Option {
	return func(r *Recorder) {
		r.autoRegister = true
	}
}

// WithContextOptions passes options to vrd.Create when using NewFile.
func WithContextOptions(opts ...vrd.Option) Option {
	return func(r *Recorder) {
		r.ctxOpts = append(r.ctxOpts, opts...)
	}
}

// New wraps c. The recorder start time is set to now. The recorder owns c
// from here on: Close closes it.
func New(c *vrd.Context, opts ...Option) *Recorder {
	r := &Recorder{
		c:          c,
		start:      time.Now(),
		registered: map[uint64]bool{},
		lastXform:  map[uint64]vrd.Transform{},
		lastValue:  map[uint64]map[string]float32{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFile creates and owns a capture file at path.
// Use Close() when finished.
func NewFile(path string, compressed bool, opts ...Option) (*Recorder, error) {
	r := New(nil, opts...)
	c, err := vrd.Create(path, compressed, r.ctxOpts...)
	if err != nil {
		return nil, err
	}
	r.c = c
	return r, nil
}

// Close finalizes the capture. Later calls are no-ops.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.c.Close()
}

// Err returns the error that failed the underlying context, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c.Err()
}

// Frame returns the current frame number.
func (r *Recorder) Frame() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c.Frame()
}

// ensure auto-registers key when enabled. Must be called with mu held.
func (r *Recorder) ensure(key uint64) {
	if !r.autoRegister || r.registered[key] {
		return
	}
	name := strconv.FormatUint(key, 10)
	r.register(key, name, name, "", "None", nil, nil)
}

func (r *Recorder) register(key uint64, name, path, typeName, category string, xform *vrd.Transform, params []vrd.StringPair) {
	r.registered[key] = true
	if xform != nil {
		r.lastXform[key] = *xform
	} else {
		r.lastXform[key] = vrd.IdentityTransform()
	}
	r.c.RegisterEntity(key, name, path, typeName, category, xform, params...)
}

// RegisterEntity records an entity definition.
func (r *Recorder) RegisterEntity(key uint64, name, path, typeName, category string, xform *vrd.Transform, params ...vrd.StringPair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.register(key, name, path, typeName, category, xform, params)
}

// UnregisterEntity ends an entity's lifetime and forgets its cached state.
func (r *Recorder) UnregisterEntity(key uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	delete(r.registered, key)
	delete(r.lastXform, key)
	delete(r.lastValue, key)
	r.c.UnregisterEntity(key)
}

// SetPosition records a position; with change suppression a repeat of the
// last translation is dropped.
func (r *Recorder) SetPosition(key uint64, pos *vrd.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ensure(key)
	var p vrd.Point
	if pos != nil {
		p = *pos
	}
	if r.suppress {
		last, ok := r.lastXform[key]
		if ok && last.Translation == p {
			return
		}
		if !ok {
			last = vrd.IdentityTransform()
		}
		last.Translation = p
		r.lastXform[key] = last
	}
	r.c.SetPosition(key, &p)
}

// SetTransform records a transform; with change suppression a repeat of the
// last transform is dropped.
func (r *Recorder) SetTransform(key uint64, xform *vrd.Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ensure(key)
	t := vrd.IdentityTransform()
	if xform != nil {
		t = *xform
	}
	if r.suppress {
		if last, ok := r.lastXform[key]; ok && last == t {
			return
		}
		r.lastXform[key] = t
	}
	r.c.SetTransform(key, &t)
}

// SetParamFloat records a numeric property; with change suppression a
// repeat of the last value for the same name is dropped.
func (r *Recorder) SetParamFloat(key uint64, name string, value float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ensure(key)
	if r.suppress {
		values := r.lastValue[key]
		if values == nil {
			values = map[string]float32{}
			r.lastValue[key] = values
		}
		if last, ok := values[name]; ok && last == value {
			return
		}
		values[name] = value
	}
	r.c.SetParamFloat(key, name, value)
}

// SetParamString records a string property.
func (r *Recorder) SetParamString(key uint64, name, value string) {
	r.with(key, func() { r.c.SetParamString(key, name, value) })
}

// SetLog records a log line.
func (r *Recorder) SetLog(key uint64, text, category string, color vrd.Color) {
	r.with(key, func() { r.c.SetLog(key, text, category, color) })
}

// DrawSphere draws a sphere.
func (r *Recorder) DrawSphere(key uint64, category string, center *vrd.Point, radius float32, color vrd.Color) {
	r.with(key, func() { r.c.DrawSphere(key, category, center, radius, color) })
}

// DrawBox draws a box.
func (r *Recorder) DrawBox(key uint64, category string, xform *vrd.Transform, dims *vrd.Point, color vrd.Color) {
	r.with(key, func() { r.c.DrawBox(key, category, xform, dims, color) })
}

// DrawCapsule draws a capsule.
func (r *Recorder) DrawCapsule(key uint64, category string, p1, p2 *vrd.Point, radius float32, color vrd.Color) {
	r.with(key, func() { r.c.DrawCapsule(key, category, p1, p2, radius, color) })
}

// DrawMesh draws a triangle list.
func (r *Recorder) DrawMesh(key uint64, category string, verts []vrd.Point, color vrd.Color) {
	r.with(key, func() { r.c.DrawMesh(key, category, verts, color) })
}

// DrawLine draws a segment.
func (r *Recorder) DrawLine(key uint64, category string, p1, p2 *vrd.Point, color vrd.Color) {
	r.with(key, func() { r.c.DrawLine(key, category, p1, p2, color) })
}

// DrawCircle draws a circle.
func (r *Recorder) DrawCircle(key uint64, category string, pos, up *vrd.Point, radius float32, color vrd.Color) {
	r.with(key, func() { r.c.DrawCircle(key, category, pos, up, radius, color) })
}

func (r *Recorder) with(key uint64, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.ensure(key)
	fn()
}

// StepFrame ends the current frame at an explicit time in seconds.
func (r *Recorder) StepFrame(totalTime float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.c.StepFrame(totalTime)
}

// StepNow ends the current frame, stamped with the time since the recorder
// was created.
func (r *Recorder) StepNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.c.StepFrame(float32(time.Since(r.start).Seconds()))
}
