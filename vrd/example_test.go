package vrd_test

import (
	"bytes"
	"fmt"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

// ExampleNew records one entity for a single frame and reads it back.
func ExampleNew() {
	var buf bytes.Buffer
	c, err := vrd.New(&buf, false)
	if err != nil {
		fmt.Printf("Error starting capture: %v\n", err)
		return
	}

	c.RegisterEntity(1001, "Agent", "World/Agents", "Agent", "NPC", nil)
	c.SetPosition(1001, vrd.Pt(1, 2, 3))
	c.DrawSphere(1001, "Sensing", vrd.Pt(1, 2, 3), 5, vrd.Red)
	c.StepFrame(0.016)
	if err := c.Close(); err != nil {
		fmt.Printf("Error closing capture: %v\n", err)
		return
	}

	rd, err := vrd.NewReader(&buf)
	if err != nil {
		fmt.Printf("Error opening reader: %v\n", err)
		return
	}
	for rec, err := range rd.Records() {
		if err != nil {
			fmt.Printf("Error reading: %v\n", err)
			return
		}
		fmt.Println(rec.Type, rec.Frame, rec.Entity)
	}
	// Output:
	// EntityDef 0 1
	// EntitySetPos 0 1
	// EntitySphere 0 1
	// FrameStep 0 0
}

// ExampleValidate summarizes a compressed capture.
func ExampleValidate() {
	var buf bytes.Buffer
	c, _ := vrd.New(&buf, true)
	c.RegisterEntity(1, "Crate", "", "Prop", "Static", vrd.At(0, 1, 0))
	c.StepFrame(0.5)
	c.StepFrame(1)
	_ = c.Close()

	s, err := vrd.Validate(&buf)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("compressed=%v frames=%d duration=%g entities=%d\n", s.Compressed, s.Frames, s.Duration, s.Entities)
	// Output:
	// compressed=true frames=2 duration=1 entities=1
}

func ExampleParseColor() {
	c, err := vrd.ParseColor("cornflowerblue")
	fmt.Println(c, err)
	// Output:
	// CornflowerBlue <nil>
}
