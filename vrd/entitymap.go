package vrd

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrKeyOutOfRange is returned in narrow key mode for a key wider than
	// the configured key width, or whose id would not fit in 32 bits.
	ErrKeyOutOfRange = errors.New("vrd: entity key out of range")
	// ErrEntityMapFull is returned when a new key would exceed the
	// configured entity limit.
	ErrEntityMapFull = errors.New("vrd: entity map full")
)

// entityMapChunk is the number of slots the key arena grows by.
const entityMapChunk = 16 << 10

// maxEntityID is the largest id that can be assigned.
const maxEntityID = math.MaxUint32

// entityMap assigns dense ids, starting at 1, to opaque entity keys.
// Ids are stable for the life of the map and never reused.
type entityMap struct {
	narrow bool
	maxKey uint64 // exclusive bound on keys in narrow mode
	limit  uint64
	keys   []uint64
	index  map[uint64]uint32
}

func newEntityMap(keyWidth, limit int) *entityMap {
	l := uint64(maxEntityID)
	if limit > 0 && uint64(limit) < l {
		l = uint64(limit)
	}
	m := &entityMap{limit: l}
	// Keys of 32 bits or fewer map arithmetically.
	if keyWidth > 0 && keyWidth <= 32 {
		m.narrow = true
		m.maxKey = min(uint64(1)<<keyWidth, maxEntityID)
	}
	return m
}

// resolve returns the id for key, assigning the next one on first sight.
func (m *entityMap) resolve(key uint64) (uint32, error) {
	if m.narrow {
		// The key already fits; shift by one to keep id 0 free.
		if key >= m.maxKey {
			return 0, fmt.Errorf("%w: %#x", ErrKeyOutOfRange, key)
		}
		return uint32(key) + 1, nil
	}
	if id, ok := m.index[key]; ok {
		return id, nil
	}
	if uint64(len(m.keys)) >= m.limit {
		return 0, fmt.Errorf("%w: %d entities", ErrEntityMapFull, len(m.keys))
	}
	if len(m.keys) == cap(m.keys) {
		grown := make([]uint64, len(m.keys), cap(m.keys)+entityMapChunk)
		copy(grown, m.keys)
		m.keys = grown
	}
	if m.index == nil {
		m.index = make(map[uint64]uint32, entityMapChunk)
	}
	m.keys = append(m.keys, key)
	id := uint32(len(m.keys))
	m.index[key] = id
	return id, nil
}

// lookup returns the id for key without assigning one.
func (m *entityMap) lookup(key uint64) (uint32, bool) {
	if m.narrow {
		if key >= m.maxKey {
			return 0, false
		}
		return uint32(key) + 1, true
	}
	id, ok := m.index[key]
	return id, ok
}

// count returns the number of keys stored in the arena. It is always 0 in
// narrow mode.
func (m *entityMap) count() int { return len(m.keys) }

func (m *entityMap) reset() {
	m.keys = nil
	m.index = nil
}
