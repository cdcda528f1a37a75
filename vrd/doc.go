// Package vrd provides a streaming writer for visual replay debugging (.vrd)
// capture files.
//
// A capture is a flat sequence of records written in call order:
//
//	header:        varint 0xFF
//	frame step:    varint blockType, float32 totalTime
//	entity record: varint blockType, varint frame, varint entityId, payload...
//
// Integers inside records are unsigned LEB128 varints (7 payload bits per
// byte, least significant group first, high bit set on every byte except the
// last). Floats and the mesh vertex count are 4 bytes little-endian; there is
// no byte order field in the file. Strings are a varint byte length followed
// by the UTF-8 bytes.
//
// The whole stream may optionally be compressed with raw deflate (no zlib or
// gzip container, no checksum trailer). Compression is chosen when the
// context is created and is not recorded in the file; a reader tells the two
// apart by the first two bytes, which are always FF 01 for an uncompressed
// capture.
//
// Entity keys are opaque 64-bit values (pointers, handles, database ids) and
// are mapped to small dense ids starting at 1. Id 0 is never assigned.
//
// Writes are buffered; nothing is guaranteed to reach the file until Close.
// A Context is not safe for concurrent use; see package recorder for a
// serialized wrapper.
package vrd
