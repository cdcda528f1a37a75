package recorder_test

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
	"github.com/reallyoldfogie/vrd-capture-go/vrd/recorder"
)

func newRecorder(t *testing.T, opts ...recorder.Option) (*recorder.Recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c, err := vrd.New(&buf, false)
	require.NoError(t, err)
	return recorder.New(c, opts...), &buf
}

func decode(t *testing.T, b []byte) []*vrd.Record {
	t.Helper()
	rd, err := vrd.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	recs, err := rd.ReadAll()
	require.NoError(t, err)
	return recs
}

func count(recs []*vrd.Record, bt vrd.BlockType) int {
	n := 0
	for _, r := range recs {
		if r.Type == bt {
			n++
		}
	}
	return n
}

func TestChangeSuppression(t *testing.T) {
	tests := []struct {
		name     string
		suppress bool
		want     map[vrd.BlockType]int
	}{
		{
			name:     "suppressed",
			suppress: true,
			want: map[vrd.BlockType]int{
				vrd.BlockEntitySetPos:       2,
				vrd.BlockEntitySetTransform: 1,
				vrd.BlockEntityValue:        3,
			},
		},
		{
			name: "everything recorded",
			want: map[vrd.BlockType]int{
				vrd.BlockEntitySetPos:       4,
				vrd.BlockEntitySetTransform: 3,
				vrd.BlockEntityValue:        5,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []recorder.Option
			if tt.suppress {
				opts = append(opts, recorder.WithChangeSuppression())
			}
			r, buf := newRecorder(t, opts...)

			r.RegisterEntity(1, "a", "", "", "", vrd.At(1, 0, 0))
			r.SetPosition(1, vrd.Pt(1, 0, 0)) // same as registered
			r.SetPosition(1, vrd.Pt(2, 0, 0))
			r.SetPosition(1, vrd.Pt(2, 0, 0))
			r.SetPosition(1, nil)

			r.SetTransform(1, vrd.At(0, 0, 0)) // same as after the nil position
			r.SetTransform(1, nil)             // identity, still the same
			r.SetTransform(1, vrd.At(0, 0, 5))

			r.SetParamFloat(1, "hp", 100)
			r.SetParamFloat(1, "hp", 100)
			r.SetParamFloat(1, "mp", 100)
			r.SetParamFloat(1, "hp", 90)
			r.SetParamFloat(1, "hp", 90)
			r.StepFrame(1)
			require.NoError(t, r.Close())

			recs := decode(t, buf.Bytes())
			for bt, n := range tt.want {
				assert.Equal(t, n, count(recs, bt), bt.String())
			}
		})
	}
}

func TestSuppressionForgetsUnregistered(t *testing.T) {
	r, buf := newRecorder(t, recorder.WithChangeSuppression())
	r.RegisterEntity(1, "a", "", "", "", nil)
	r.SetPosition(1, vrd.Pt(3, 3, 3))
	r.UnregisterEntity(1)
	r.RegisterEntity(1, "a", "", "", "", vrd.At(3, 3, 3))
	r.SetPosition(1, vrd.Pt(3, 3, 3))
	r.SetParamFloat(1, "hp", 1)
	r.UnregisterEntity(1)
	r.RegisterEntity(1, "a", "", "", "", nil)
	r.SetParamFloat(1, "hp", 1)
	require.NoError(t, r.Close())

	recs := decode(t, buf.Bytes())
	assert.Equal(t, 1, count(recs, vrd.BlockEntitySetPos))
	assert.Equal(t, 2, count(recs, vrd.BlockEntityValue))
}

func TestAutoRegister(t *testing.T) {
	r, buf := newRecorder(t, recorder.WithAutoRegister())
	r.SetPosition(42, vrd.Pt(1, 1, 1))
	r.DrawSphere(42, "", nil, 1, vrd.Red)
	r.SetLog(7, "hello", "", vrd.Green)
	r.UnregisterEntity(42)
	r.SetParamString(42, "state", "back")
	require.NoError(t, r.Close())

	recs := decode(t, buf.Bytes())
	want := []vrd.BlockType{
		vrd.BlockEntityDef, vrd.BlockEntitySetPos, vrd.BlockEntitySphere,
		vrd.BlockEntityDef, vrd.BlockEntityLog,
		vrd.BlockEntityUndef,
		vrd.BlockEntityDef, vrd.BlockEntityParameter,
	}
	got := make([]vrd.BlockType, len(recs))
	for i, rec := range recs {
		got[i] = rec.Type
	}
	assert.Equal(t, want, got)

	assert.Equal(t, "42", recs[0].Def.Name)
	assert.Equal(t, "None", recs[0].Def.Category)
	assert.Equal(t, vrd.IdentityTransform(), recs[0].Def.Transform)
	assert.Equal(t, "7", recs[3].Def.Name)
	assert.Equal(t, recs[0].Entity, recs[6].Entity, "re-registration keeps the id")
}

func TestWithoutAutoRegister(t *testing.T) {
	r, buf := newRecorder(t)
	r.SetPosition(42, vrd.Pt(1, 1, 1))
	require.NoError(t, r.Close())

	recs := decode(t, buf.Bytes())
	require.Len(t, recs, 1)
	assert.Equal(t, vrd.BlockEntitySetPos, recs[0].Type)
}

func TestConcurrentRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.vrd")
	r, err := recorder.NewFile(path, true, recorder.WithAutoRegister())
	require.NoError(t, err)

	const workers, calls = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(key uint64) {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				r.SetParamFloat(key, "i", float32(i))
				r.DrawLine(key, "", nil, vrd.Pt(float32(i), 0, 0), vrd.Blue)
			}
		}(uint64(w))
	}
	wg.Wait()
	r.StepNow()
	assert.Equal(t, uint32(1), r.Frame())
	require.NoError(t, r.Close())

	s, err := vrd.ValidateFile(path)
	require.NoError(t, err)
	assert.Equal(t, workers, s.Entities)
	assert.Equal(t, workers*calls, s.Blocks["EntityValue"])
	assert.Equal(t, workers*calls, s.Blocks["EntityLine"])
	assert.Equal(t, uint32(1), s.Frames)
	assert.Empty(t, s.Warnings)
}

func TestClosedRecorder(t *testing.T) {
	r, buf := newRecorder(t)
	require.NoError(t, r.Close())
	n := buf.Len()

	assert.NotPanics(t, func() {
		r.RegisterEntity(1, "a", "", "", "", nil)
		r.SetPosition(1, nil)
		r.SetTransform(1, nil)
		r.SetParamFloat(1, "x", 1)
		r.DrawMesh(1, "", nil, vrd.Red)
		r.StepFrame(1)
		r.StepNow()
	})
	assert.NoError(t, r.Close())
	assert.Equal(t, n, buf.Len())
}

func TestNewFileFailure(t *testing.T) {
	_, err := recorder.NewFile(filepath.Join(t.TempDir(), "no", "such", "dir.vrd"), false)
	assert.Error(t, err)
}
