package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"image-filter-engine/internal/grid"
)

// Job asks a worker to run one registered filter over an 8-bit image
type Job struct {
	ID        string                 `json:"id"`
	Algorithm string                 `json:"algorithm"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	Pixels    []byte                 `json:"pixels"`
}

// Result carries a filter output back. Error is set instead of Pixels when
// the job failed.
type Result struct {
	JobID     string    `json:"job_id"`
	WorkerID  string    `json:"worker_id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Pixels    []float64 `json:"pixels,omitempty"`
	Error     string    `json:"error,omitempty"`
	ProcessMS float64   `json:"process_ms"`
}

// NewJob packs g as 8-bit samples.
func NewJob(id, algorithm string, params map[string]interface{}, g *grid.Grid) *Job {
	return &Job{
		ID:        id,
		Algorithm: algorithm,
		Params:    params,
		Width:     g.Width,
		Height:    g.Height,
		Pixels:    g.ToGray().Pix,
	}
}

// MaxDimension bounds the width and height of images carried on the queue
const MaxDimension = 16384

// checkShape rejects dimensions that do not describe exactly n samples.
// Width*Height is never computed before both sides are bounded.
func checkShape(width, height, n int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", width, height, MaxDimension)
	}
	if n%width != 0 || n/width != height {
		return fmt.Errorf("%dx%d image with %d samples", width, height, n)
	}
	return nil
}

// Grid unpacks the job image.
func (j *Job) Grid() (*grid.Grid, error) {
	if err := checkShape(j.Width, j.Height, len(j.Pixels)); err != nil {
		return nil, fmt.Errorf("job %s: %w", j.ID, err)
	}
	g := grid.New(j.Width, j.Height)
	for i, v := range j.Pixels {
		g.Pix[i] = float64(v)
	}
	return g, nil
}

// Grid unpacks the result image.
func (r *Result) Grid() (*grid.Grid, error) {
	if r.Error != "" {
		return nil, fmt.Errorf("job %s failed: %s", r.JobID, r.Error)
	}
	if err := checkShape(r.Width, r.Height, len(r.Pixels)); err != nil {
		return nil, fmt.Errorf("result %s: %w", r.JobID, err)
	}
	g := grid.New(r.Width, r.Height)
	copy(g.Pix, r.Pixels)
	return g, nil
}

func bytesFromInterface(v interface{}) []byte {
	switch t := v.(type) {
	case string:
		return []byte(t)
	case []byte:
		return t
	default:
		b, _ := json.Marshal(t)
		return b
	}
}

// ErrMalformedMessage marks a stream entry whose payload cannot be decoded.
// The entry ID is still returned so readers can move past it.
var ErrMalformedMessage = errors.New("malformed stream message")

func decode[T any](values map[string]interface{}) (*T, error) {
	raw, ok := values["data"]
	if !ok {
		return nil, fmt.Errorf("%w: no data field", ErrMalformedMessage)
	}
	var v T
	if err := json.Unmarshal(bytesFromInterface(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &v, nil
}
