// Core image data structure with thread-safe operations
package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"image-filter-engine/internal/grid"
)

// ImageData holds a loaded grayscale image and the filter results computed
// from it. It is shared between the UI goroutine and background workers.
type ImageData struct {
	mu       sync.RWMutex
	original *grid.Grid
	results  map[string]*grid.Grid
	filepath string
	metadata ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width  int
	Height int
	Format string
}

// NewImageData creates a new thread-safe image data container
func NewImageData() *ImageData {
	return &ImageData{
		results: make(map[string]*grid.Grid),
	}
}

// SetOriginal stores a copy of img and drops results computed from a previous image
func (img *ImageData) SetOriginal(g *grid.Grid, path string) error {
	if err := ValidateImage(g); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = g.Clone()
	img.results = make(map[string]*grid.Grid)
	img.filepath = path
	img.metadata = ImageMetadata{
		Width:  g.Width,
		Height: g.Height,
		Format: getFormatFromPath(path),
	}

	return nil
}

// ErrStaleResult is returned when a result was computed from an image that
// has since been replaced.
var ErrStaleResult = errors.New("result computed from a replaced image")

// SetResult stores the output of the named filter for the current original
func (img *ImageData) SetResult(name string, g *grid.Grid) error {
	return img.SetResultFrom(img.GetOriginal(), name, g)
}

// SetResultFrom stores the output of the named filter computed from source,
// which must still be the loaded original.
func (img *ImageData) SetResultFrom(source *grid.Grid, name string, g *grid.Grid) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.original == nil {
		return fmt.Errorf("no original image loaded")
	}
	if source != img.original {
		return fmt.Errorf("%s: %w", name, ErrStaleResult)
	}
	if g.Empty() || !g.SameSize(img.original) {
		return fmt.Errorf("result %q does not match the original image size", name)
	}

	img.results[name] = g
	return nil
}

// GetOriginal returns the original image, or nil when nothing is loaded.
// Callers must not modify the returned grid.
func (img *ImageData) GetOriginal() *grid.Grid {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.original
}

// GetResult returns the stored output of the named filter
func (img *ImageData) GetResult(name string) (*grid.Grid, bool) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	g, ok := img.results[name]
	return g, ok
}

// HasImage returns true if an image is loaded
func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.original != nil
}

// GetMetadata returns image metadata
func (img *ImageData) GetMetadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

// GetFilepath returns the current file path
func (img *ImageData) GetFilepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// Clear clears all image data
func (img *ImageData) Clear() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = nil
	img.results = make(map[string]*grid.Grid)
	img.filepath = ""
	img.metadata = ImageMetadata{}
}

// getFormatFromPath extracts image format from file path
func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage validates a grid for basic requirements
func ValidateImage(g *grid.Grid) error {
	if g.Empty() {
		return fmt.Errorf("image is empty")
	}

	// Check for reasonable size limits (prevent memory issues)
	const maxDimension = 16384
	if g.Width > maxDimension || g.Height > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", g.Width, g.Height, maxDimension)
	}

	return nil
}
