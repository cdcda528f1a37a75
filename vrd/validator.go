package vrd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// ValidateFile checks that the capture at path decodes completely and that
// its records are consistent. Problems that make the file unreadable, or
// that break format invariants, are returned as errors; oddities a viewer
// can cope with are listed in Summary.Warnings.
func ValidateFile(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("capture file not found: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("capture file is empty (0 bytes)")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Validate(f)
	if s != nil {
		s.Path = path
		s.Size = info.Size()
	}
	return s, err
}

// Validate reads a whole capture from r. The returned Summary covers the
// records read before any error.
func Validate(r io.Reader) (*Summary, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	s := &Summary{Compressed: rd.Compressed(), Blocks: map[string]int{}}
	defined := map[uint32]bool{}
	undefined := map[uint32]int{}
	var lastTime float32
	// Ids and frame numbers restart with every concatenated capture.
	capture := rd.Captures()
	endCapture := func() {
		for _, id := range slices.Sorted(maps.Keys(undefined)) {
			s.Warnings = append(s.Warnings,
				fmt.Sprintf("entity %d has %d records but no definition", id, undefined[id]))
		}
		defined = map[uint32]bool{}
		undefined = map[uint32]int{}
		lastTime = 0
	}

	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		s.Captures = rd.Captures()
		if err != nil {
			return s, fmt.Errorf("record %d: %w", s.Records+1, err)
		}
		if c := rd.Captures(); c != capture {
			endCapture()
			capture = c
		}
		s.Records++
		s.Blocks[rec.Type.String()]++

		if rec.Type == BlockFrameStep {
			if rec.Frame > 0 && rec.Time < lastTime {
				s.Warnings = append(s.Warnings,
					fmt.Sprintf("frame %d: time goes backwards (%g < %g)", rec.Frame, rec.Time, lastTime))
			}
			lastTime = rec.Time
			s.Frames++
			s.Duration = rec.Time
			continue
		}

		if rec.Entity == 0 {
			return s, fmt.Errorf("record %d (%s): entity id 0", s.Records, rec.Type)
		}
		if frame := rd.Frame(); rec.Frame != frame {
			return s, fmt.Errorf("record %d (%s): frame %d, expected %d", s.Records, rec.Type, rec.Frame, frame)
		}

		switch rec.Type {
		case BlockEntityDef:
			if rec.Def.ID != rec.Entity || rec.Def.Frame != rec.Frame {
				return s, fmt.Errorf("record %d: entity definition id/frame %d/%d disagree with header %d/%d",
					s.Records, rec.Def.ID, rec.Def.Frame, rec.Entity, rec.Frame)
			}
			if !defined[rec.Entity] {
				defined[rec.Entity] = true
				s.Entities++
			}
		case BlockEntityUndef:
			if !defined[rec.Entity] {
				s.Warnings = append(s.Warnings,
					fmt.Sprintf("frame %d: entity %d unregistered but never registered", rec.Frame, rec.Entity))
			}
		default:
			if !defined[rec.Entity] {
				undefined[rec.Entity]++
			}
		}

		switch rec.Type {
		case BlockEntityLog, BlockEntityLine, BlockEntityCircle, BlockEntitySphere,
			BlockEntityCapsule, BlockEntityMesh, BlockEntityBox:
			if !rec.Color.Valid() {
				s.Warnings = append(s.Warnings,
					fmt.Sprintf("frame %d: entity %d uses unknown color %d", rec.Frame, rec.Entity, uint32(rec.Color)))
			}
		}
	}

	endCapture()
	if s.Frames == 0 {
		s.Warnings = append(s.Warnings, "capture has no frame steps")
	}
	return s, nil
}
