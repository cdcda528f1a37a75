package vrd

import "fmt"

// BlockType tags every record in a capture. Values are part of the file
// format and must not change.
type BlockType uint32

const (
	BlockNone BlockType = iota
	BlockFrameStep
	BlockEntityDef
	BlockEntityUndef
	BlockEntitySetPos
	BlockEntitySetTransform
	BlockEntityLog
	BlockEntityParameter
	BlockEntityValue
	BlockEntityLine
	BlockEntityCircle
	BlockEntitySphere
	BlockEntityCapsule
	BlockEntityMesh
	// BlockEntityBox is written for box draws. Legacy producers wrote
	// BlockEntityValue here, which made box records unreadable.
	BlockEntityBox

	BlockReplayHeader BlockType = 0xFF
)

var blockTypeNames = map[BlockType]string{
	BlockNone:               "None",
	BlockFrameStep:          "FrameStep",
	BlockEntityDef:          "EntityDef",
	BlockEntityUndef:        "EntityUndef",
	BlockEntitySetPos:       "EntitySetPos",
	BlockEntitySetTransform: "EntitySetTransform",
	BlockEntityLog:          "EntityLog",
	BlockEntityParameter:    "EntityParameter",
	BlockEntityValue:        "EntityValue",
	BlockEntityLine:         "EntityLine",
	BlockEntityCircle:       "EntityCircle",
	BlockEntitySphere:       "EntitySphere",
	BlockEntityCapsule:      "EntityCapsule",
	BlockEntityMesh:         "EntityMesh",
	BlockEntityBox:          "EntityBox",
	BlockReplayHeader:       "ReplayHeader",
}

func (b BlockType) String() string {
	if s, ok := blockTypeNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BlockType(%d)", uint32(b))
}

// Valid reports whether b may appear in a capture.
func (b BlockType) Valid() bool {
	_, ok := blockTypeNames[b]
	return ok && b != BlockNone
}

// IsEntity reports whether records of this type carry the frame/entity header.
func (b BlockType) IsEntity() bool {
	return b.Valid() && b != BlockFrameStep && b != BlockReplayHeader
}
