package vrd

// Summary describes a capture file as seen by Validate. It is the document
// printed by vrd-validate -json.
type Summary struct {
	Path       string         `json:"path,omitempty"`
	Size       int64          `json:"size,omitempty"` // bytes on disk
	Compressed bool           `json:"compressed"`
	Records    int            `json:"records"`  // excluding the header
	Captures   int            `json:"captures"` // concatenated captures, 1 for a plain file
	Frames     uint32         `json:"frames"`   // across all captures
	Duration   float32        `json:"duration"` // totalTime of the last frame step, seconds
	Entities   int            `json:"entities"` // distinct ids defined, summed over captures
	Blocks     map[string]int `json:"blocks"`   // record count per block type
	Warnings   []string       `json:"warnings,omitempty"`
}
