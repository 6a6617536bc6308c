package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-engine/internal/grid"
)

func TestJobGrid(t *testing.T) {
	src := grid.MustFromRows([][]float64{{1, 2, 3}, {4, 5, 300}})
	job := NewJob("j1", "median", map[string]interface{}{"kernel_size": 3.0}, src)

	got, err := job.Grid()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 255}}, got.Rows())

	job.Pixels = job.Pixels[:5]
	_, err = job.Grid()
	assert.Error(t, err)
}

func TestJobGridRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		pixels        int
	}{
		{"product wraps to zero", 1 << 32, 1 << 32, 0},
		{"over max dimension", MaxDimension + 1, 1, MaxDimension + 1},
		{"width larger than buffer", 8, 1, 4},
		{"height mismatch", 2, 3, 4},
		{"ragged buffer", 3, 1, 4},
		{"negative", -2, -2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &Job{ID: "j", Width: tt.width, Height: tt.height, Pixels: make([]byte, tt.pixels)}
			_, err := job.Grid()
			assert.Error(t, err)

			res := &Result{JobID: "r", Width: tt.width, Height: tt.height, Pixels: make([]float64, tt.pixels)}
			_, err = res.Grid()
			assert.Error(t, err)
		})
	}
}

func TestResultGrid(t *testing.T) {
	res := &Result{JobID: "j1", Width: 2, Height: 1, Pixels: []float64{-4, 4}}
	got, err := res.Grid()
	require.NoError(t, err)
	assert.Equal(t, []float64{-4, 4}, got.Pix)

	_, err = (&Result{JobID: "j2", Error: "boom"}).Grid()
	assert.ErrorContains(t, err, "boom")
}

func TestDecodeStreamValues(t *testing.T) {
	job := NewJob("j1", "sobel", map[string]interface{}{"dx": 0.0, "dy": 1.0}, grid.Filled(2, 2, 9))
	b, err := json.Marshal(job)
	require.NoError(t, err)

	// go-redis hands back string values for stream fields.
	got, err := decode[Job](map[string]interface{}{"data": string(b)})
	require.NoError(t, err)
	assert.Equal(t, job, got)

	got, err = decode[Job](map[string]interface{}{"data": b})
	require.NoError(t, err)
	assert.Equal(t, "sobel", got.Algorithm)

	_, err = decode[Job](map[string]interface{}{})
	assert.ErrorIs(t, err, ErrMalformedMessage)
	_, err = decode[Result](map[string]interface{}{"data": "{"})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestIsBusyGroup(t *testing.T) {
	assert.True(t, isBusyGroup(errors.New("BUSYGROUP Consumer Group name already exists")))
	assert.False(t, isBusyGroup(errors.New("NOGROUP")))
	assert.False(t, isBusyGroup(nil))
}
