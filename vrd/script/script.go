// Package script drives a capture from a YAML description: entities with
// expression-animated positions and values, periodic draws and one-shot
// events. It backs the vrd-create tool and makes captures for viewer
// testing reproducible.
//
// A minimal script:
//
//	frameTime: 0.016
//	frames: 60
//	entities:
//	  - key: 1001
//	    name: Agent
//	    type: Agent
//	    position: ["cos(t)", "sin(t)", "0"]
//	    draws:
//	      - shape: sphere
//	        category: sensing
//	        radius: "2"
//	        color: Red
//	events:
//	  - frame: 30
//	    key: 1001
//	    log: halfway
//	    color: Green
//
// Expressions are evaluated with github.com/expr-lang/expr and see t (time
// in seconds at the start of the frame), frame, key, pi and the functions
// sin, cos, sqrt, abs.
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

// DefaultFrameTime is used when a script does not set frameTime.
const DefaultFrameTime = 1.0 / 60

// Script is a parsed capture script.
type Script struct {
	FrameTime float64  `yaml:"frameTime"`
	Frames    int      `yaml:"frames"`
	Entities  []Entity `yaml:"entities"`
	Events    []Event  `yaml:"events"`
}

// Entity is an entity that lives for part of the script.
type Entity struct {
	Key      uint64            `yaml:"key"`
	Name     string            `yaml:"name"`
	Path     string            `yaml:"path"`
	Type     string            `yaml:"type"`
	Category string            `yaml:"category"`
	Params   map[string]string `yaml:"params"`
	// Transform is the initial transform; absent means identity.
	Transform *Transform `yaml:"transform"`
	Spawn     int        `yaml:"spawn"`
	// Despawn is the frame the entity is unregistered in, if set.
	Despawn *int `yaml:"despawn"`
	// Position holds x, y, z expressions evaluated every frame.
	Position []string `yaml:"position"`
	// Values are float parameters evaluated every frame.
	Values map[string]string `yaml:"values"`
	Draws  []Draw            `yaml:"draws"`
}

// Transform is a YAML-friendly vrd.Transform.
type Transform struct {
	Translation [3]float32  `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"`
}

func (t *Transform) toVRD() *vrd.Transform {
	if t == nil {
		return nil
	}
	out := vrd.Transform{
		Translation: vrd.Point{X: t.Translation[0], Y: t.Translation[1], Z: t.Translation[2]},
		Rotation:    vrd.IdentityQuaternion(),
	}
	if r := t.Rotation; r != nil {
		out.Rotation = vrd.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]}
	}
	return &out
}

// Draw is a shape drawn for an entity. Points are x, y, z expressions:
//
//	sphere   at, radius
//	box      at, size
//	capsule  from, to, radius
//	line     from, to
//	circle   at, up, radius
//	mesh     vertices (constants)
type Draw struct {
	Shape    string       `yaml:"shape"`
	Category string       `yaml:"category"`
	Color    vrd.Color    `yaml:"color"`
	At       []string     `yaml:"at"`
	From     []string     `yaml:"from"`
	To       []string     `yaml:"to"`
	Up       []string     `yaml:"up"`
	Size     []string     `yaml:"size"`
	Radius   string       `yaml:"radius"`
	Vertices [][3]float32 `yaml:"vertices"`
	// Every draws on frames that are a multiple of Every after spawn.
	// Zero means every frame.
	Every int `yaml:"every"`
}

// Event is a one-shot action at a frame.
type Event struct {
	Frame      int               `yaml:"frame"`
	Key        uint64            `yaml:"key"`
	Log        string            `yaml:"log"`
	Category   string            `yaml:"category"`
	Color      vrd.Color         `yaml:"color"`
	Params     map[string]string `yaml:"params"`
	Unregister bool              `yaml:"unregister"`
}

var errNoFrames = errors.New("script: frames must be positive")

// Parse decodes a YAML script and fills in defaults.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if s.FrameTime == 0 {
		s.FrameTime = DefaultFrameTime
	}
	if s.Frames == 0 {
		s.Frames = 1
	}
	if s.Frames < 0 {
		return nil, errNoFrames
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
