package vrd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

func TestColorNames(t *testing.T) {
	assert.Equal(t, "AliceBlue", vrd.AliceBlue.String())
	assert.Equal(t, "YellowGreen", vrd.YellowGreen.String())
	assert.Equal(t, "Color(141)", vrd.Color(vrd.NumColors).String())
	assert.False(t, vrd.Color(vrd.NumColors).Valid())

	for c := vrd.Color(0); c < vrd.NumColors; c++ {
		got, err := vrd.ParseColor(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestColorText(t *testing.T) {
	var c vrd.Color
	require.NoError(t, c.UnmarshalText([]byte("RED")))
	assert.Equal(t, vrd.Red, c)

	b, err := vrd.DarkOrange.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "DarkOrange", string(b))

	assert.Error(t, c.UnmarshalText([]byte("ultraviolet")))
	_, err = vrd.Color(999).MarshalText()
	assert.Error(t, err)
}

func TestBlockType(t *testing.T) {
	tests := []struct {
		bt       vrd.BlockType
		name     string
		valid    bool
		isEntity bool
	}{
		{bt: vrd.BlockNone, name: "None"},
		{bt: vrd.BlockFrameStep, name: "FrameStep", valid: true},
		{bt: vrd.BlockEntityDef, name: "EntityDef", valid: true, isEntity: true},
		{bt: vrd.BlockEntityBox, name: "EntityBox", valid: true, isEntity: true},
		{bt: vrd.BlockReplayHeader, name: "ReplayHeader", valid: true},
		{bt: 15, name: "BlockType(15)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.bt.String())
		assert.Equal(t, tt.valid, tt.bt.Valid(), tt.name)
		assert.Equal(t, tt.isEntity, tt.bt.IsEntity(), tt.name)
	}
	assert.Equal(t, vrd.BlockType(14), vrd.BlockEntityBox)
}
