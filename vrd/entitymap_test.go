package vrd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityMapAssignsDenseIDs(t *testing.T) {
	m := newEntityMap(64, 0)
	keys := []uint64{0xc000_0000_1000, 7, 0xc000_0000_1000, 0, math.MaxUint64, 7, 42}

	seen := map[uint64]uint32{}
	for _, k := range keys {
		id, err := m.resolve(k)
		require.NoError(t, err)
		if prev, ok := seen[k]; ok {
			assert.Equal(t, prev, id, "key %#x changed id", k)
			continue
		}
		assert.Equal(t, uint32(len(seen)+1), id, "key %#x", k)
		seen[k] = id
	}
	assert.Equal(t, len(seen), m.count())

	for k, want := range seen {
		id, ok := m.lookup(k)
		assert.True(t, ok)
		assert.Equal(t, want, id)
	}
	_, ok := m.lookup(99)
	assert.False(t, ok)
}

func TestEntityMapGrowsPastChunk(t *testing.T) {
	m := newEntityMap(64, 0)
	n := entityMapChunk + 10
	for i := 0; i < n; i++ {
		id, err := m.resolve(uint64(i) * 3)
		require.NoError(t, err)
		require.Equal(t, uint32(i+1), id)
	}
	assert.Equal(t, n, m.count())
	assert.GreaterOrEqual(t, cap(m.keys), 2*entityMapChunk)

	id, err := m.resolve(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)
}

func TestEntityMapNarrowKeys(t *testing.T) {
	m := newEntityMap(32, 0)
	tests := []struct {
		key     uint64
		want    uint32
		wantErr error
	}{
		{key: 0, want: 1},
		{key: 1000, want: 1001},
		{key: math.MaxUint32 - 1, want: math.MaxUint32},
		{key: math.MaxUint32, wantErr: ErrKeyOutOfRange},
		{key: 1 << 40, wantErr: ErrKeyOutOfRange},
	}
	for _, tt := range tests {
		id, err := m.resolve(tt.key)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "key %#x", tt.key)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, id)
	}
	assert.Zero(t, m.count())
}

func TestEntityMapKeyWidths(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		key     uint64
		narrow  bool
		want    uint32
		wantErr error
	}{
		{name: "16 bit", width: 16, key: 1000, narrow: true, want: 1001},
		{name: "16 bit max", width: 16, key: 0xFFFF, narrow: true, want: 0x10000},
		{name: "16 bit too wide", width: 16, key: 0x10000, narrow: true, wantErr: ErrKeyOutOfRange},
		{name: "8 bit too wide", width: 8, key: 256, narrow: true, wantErr: ErrKeyOutOfRange},
		{name: "1 bit", width: 1, key: 1, narrow: true, want: 2},
		{name: "zero selects table", width: 0, key: 1000, want: 1},
		{name: "48 bit selects table", width: 48, key: 1000, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newEntityMap(tt.width, 0)
			assert.Equal(t, tt.narrow, m.narrow)
			id, err := m.resolve(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			if tt.narrow {
				assert.Zero(t, m.count())
			}
		})
	}
}

func TestEntityMapLimit(t *testing.T) {
	m := newEntityMap(64, 2)
	_, err := m.resolve(10)
	require.NoError(t, err)
	_, err = m.resolve(20)
	require.NoError(t, err)

	_, err = m.resolve(30)
	assert.ErrorIs(t, err, ErrEntityMapFull)

	id, err := m.resolve(20)
	require.NoError(t, err, "known keys still resolve")
	assert.Equal(t, uint32(2), id)
}

func TestEntityMapReset(t *testing.T) {
	m := newEntityMap(64, 0)
	_, _ = m.resolve(5)
	m.reset()
	assert.Zero(t, m.count())
	_, ok := m.lookup(5)
	assert.False(t, ok)
}
