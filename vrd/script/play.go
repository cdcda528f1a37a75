package script

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

// Target is what a script records into. *vrd.Context and
// *recorder.Recorder both satisfy it.
type Target interface {
	RegisterEntity(key uint64, name, path, typeName, category string, xform *vrd.Transform, params ...vrd.StringPair)
	UnregisterEntity(key uint64)
	SetLog(key uint64, text, category string, color vrd.Color)
	SetPosition(key uint64, pos *vrd.Point)
	SetParamString(key uint64, name, value string)
	SetParamFloat(key uint64, name string, value float32)
	DrawSphere(key uint64, category string, center *vrd.Point, radius float32, color vrd.Color)
	DrawBox(key uint64, category string, xform *vrd.Transform, dims *vrd.Point, color vrd.Color)
	DrawCapsule(key uint64, category string, p1, p2 *vrd.Point, radius float32, color vrd.Color)
	DrawMesh(key uint64, category string, verts []vrd.Point, color vrd.Color)
	DrawLine(key uint64, category string, p1, p2 *vrd.Point, color vrd.Color)
	DrawCircle(key uint64, category string, pos, up *vrd.Point, radius float32, color vrd.Color)
	StepFrame(totalTime float32)
	Err() error
}

func newEnv() map[string]any {
	return map[string]any{
		"t":     0.0,
		"frame": 0,
		"key":   0,
		"pi":    math.Pi,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"sqrt":  math.Sqrt,
	}
}

// point holds three compiled coordinate expressions; a zero point (all nil)
// stands for an absent point.
type point [3]*vm.Program

func (p point) absent() bool { return p[0] == nil }

type named struct {
	name string
	prog *vm.Program
}

type compiledDraw struct {
	*Draw
	at, from, to, up, size point
	radius                 *vm.Program
	verts                  []vrd.Point
}

type compiledEntity struct {
	*Entity
	params []vrd.StringPair
	pos    point
	values []named
	draws  []compiledDraw
}

func compileExpr(src string, env map[string]any) (*vm.Program, error) {
	p, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}
	return p, nil
}

func compilePoint(field string, srcs []string, env map[string]any) (point, error) {
	var p point
	if len(srcs) == 0 {
		return p, nil
	}
	if len(srcs) != 3 {
		return p, fmt.Errorf("%s: want 3 coordinates, got %d", field, len(srcs))
	}
	for i, src := range srcs {
		prog, err := compileExpr(src, env)
		if err != nil {
			return p, fmt.Errorf("%s: %w", field, err)
		}
		p[i] = prog
	}
	return p, nil
}

func sortedPairs(m map[string]string) []vrd.StringPair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]vrd.StringPair, 0, len(keys))
	for _, k := range keys {
		out = append(out, vrd.StringPair{Key: k, Value: m[k]})
	}
	return out
}

func compileDraw(d *Draw, env map[string]any) (compiledDraw, error) {
	cd := compiledDraw{Draw: d}
	var err error
	for _, f := range []struct {
		name string
		srcs []string
		dst  *point
	}{
		{"at", d.At, &cd.at},
		{"from", d.From, &cd.from},
		{"to", d.To, &cd.to},
		{"up", d.Up, &cd.up},
		{"size", d.Size, &cd.size},
	} {
		if *f.dst, err = compilePoint(f.name, f.srcs, env); err != nil {
			return cd, err
		}
	}
	if d.Radius != "" {
		if cd.radius, err = compileExpr(d.Radius, env); err != nil {
			return cd, fmt.Errorf("radius: %w", err)
		}
	}
	for _, v := range d.Vertices {
		cd.verts = append(cd.verts, vrd.Point{X: v[0], Y: v[1], Z: v[2]})
	}
	switch strings.ToLower(d.Shape) {
	case "sphere", "box", "capsule", "line", "circle", "mesh":
	default:
		return cd, fmt.Errorf("unknown shape %q", d.Shape)
	}
	return cd, nil
}

func compileEntity(e *Entity, env map[string]any) (compiledEntity, error) {
	ce := compiledEntity{Entity: e, params: sortedPairs(e.Params)}
	var err error
	if ce.pos, err = compilePoint("position", e.Position, env); err != nil {
		return ce, err
	}
	for _, kv := range sortedPairs(e.Values) {
		prog, err := compileExpr(kv.Value, env)
		if err != nil {
			return ce, fmt.Errorf("value %s: %w", kv.Key, err)
		}
		ce.values = append(ce.values, named{name: kv.Key, prog: prog})
	}
	for i := range e.Draws {
		cd, err := compileDraw(&e.Draws[i], env)
		if err != nil {
			return ce, fmt.Errorf("draw %d: %w", i, err)
		}
		ce.draws = append(ce.draws, cd)
	}
	return ce, nil
}

// player evaluates compiled expressions against a shared environment,
// keeping the first evaluation error.
type player struct {
	env map[string]any
	err error
}

func (pl *player) eval(p *vm.Program) float32 {
	if p == nil || pl.err != nil {
		return 0
	}
	out, err := expr.Run(p, pl.env)
	if err != nil {
		pl.err = err
		return 0
	}
	switch v := out.(type) {
	case float64:
		return float32(v)
	case int:
		return float32(v)
	case float32:
		return v
	case int64:
		return float32(v)
	default:
		pl.err = fmt.Errorf("expression result %T is not a number", out)
		return 0
	}
}

func (pl *player) point(p point) *vrd.Point {
	if p.absent() {
		return nil
	}
	return &vrd.Point{X: pl.eval(p[0]), Y: pl.eval(p[1]), Z: pl.eval(p[2])}
}

func (pl *player) draw(t Target, key uint64, d *compiledDraw) {
	switch strings.ToLower(d.Shape) {
	case "sphere":
		t.DrawSphere(key, d.Category, pl.point(d.at), pl.eval(d.radius), d.Color)
	case "box":
		var xform *vrd.Transform
		if at := pl.point(d.at); at != nil {
			xform = &vrd.Transform{Translation: *at, Rotation: vrd.IdentityQuaternion()}
		}
		t.DrawBox(key, d.Category, xform, pl.point(d.size), d.Color)
	case "capsule":
		t.DrawCapsule(key, d.Category, pl.point(d.from), pl.point(d.to), pl.eval(d.radius), d.Color)
	case "line":
		t.DrawLine(key, d.Category, pl.point(d.from), pl.point(d.to), d.Color)
	case "circle":
		t.DrawCircle(key, d.Category, pl.point(d.at), pl.point(d.up), pl.eval(d.radius), d.Color)
	case "mesh":
		t.DrawMesh(key, d.Category, d.verts, d.Color)
	}
}

// Play records s into t frame by frame. Each frame registers the entities
// spawning in it, unregisters the ones despawning, records positions,
// values and draws of live entities, applies the frame's events and ends
// with a frame step stamped (frame+1)*frameTime.
//
// Expressions are compiled before anything is recorded, so a script with a
// bad expression leaves t untouched.
func Play(t Target, s *Script) error {
	env := newEnv()
	entities := make([]compiledEntity, 0, len(s.Entities))
	for i := range s.Entities {
		ce, err := compileEntity(&s.Entities[i], env)
		if err != nil {
			return fmt.Errorf("entity %d: %w", s.Entities[i].Key, err)
		}
		entities = append(entities, ce)
	}
	events := map[int][]*Event{}
	for i := range s.Events {
		ev := &s.Events[i]
		events[ev.Frame] = append(events[ev.Frame], ev)
	}

	pl := &player{env: env}
	alive := map[uint64]bool{}
	for frame := 0; frame < s.Frames; frame++ {
		env["t"] = float64(frame) * s.FrameTime
		env["frame"] = frame

		for i := range entities {
			ce := &entities[i]
			env["key"] = int(ce.Key)
			if frame == ce.Spawn {
				t.RegisterEntity(ce.Key, ce.Name, ce.Path, ce.Type, ce.Category, ce.Transform.toVRD(), ce.params...)
				alive[ce.Key] = true
			}
			if ce.Despawn != nil && frame == *ce.Despawn && alive[ce.Key] {
				t.UnregisterEntity(ce.Key)
				alive[ce.Key] = false
			}
			if !alive[ce.Key] {
				continue
			}
			if !ce.pos.absent() {
				t.SetPosition(ce.Key, pl.point(ce.pos))
			}
			for _, v := range ce.values {
				t.SetParamFloat(ce.Key, v.name, pl.eval(v.prog))
			}
			for j := range ce.draws {
				d := &ce.draws[j]
				if d.Every > 0 && (frame-ce.Spawn)%d.Every != 0 {
					continue
				}
				pl.draw(t, ce.Key, d)
			}
			if pl.err != nil {
				return fmt.Errorf("entity %d, frame %d: %w", ce.Key, frame, pl.err)
			}
		}

		for _, ev := range events[frame] {
			if ev.Log != "" {
				t.SetLog(ev.Key, ev.Log, ev.Category, ev.Color)
			}
			for _, kv := range sortedPairs(ev.Params) {
				t.SetParamString(ev.Key, kv.Key, kv.Value)
			}
			if ev.Unregister {
				t.UnregisterEntity(ev.Key)
				alive[ev.Key] = false
			}
		}

		t.StepFrame(float32(float64(frame+1) * s.FrameTime))
		if err := t.Err(); err != nil {
			return err
		}
	}
	return nil
}
