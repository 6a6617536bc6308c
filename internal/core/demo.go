package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/grid"
)

// Panel is one cell of the side-by-side filter comparison
type Panel struct {
	Title     string
	Algorithm string // empty for the original image
	Edges     bool   // signed output, rescaled for display
}

// DemoPanels lists the comparison grid in display order, row by row
var DemoPanels = []Panel{
	{Title: "Original"},
	{Title: "Gaussian Blur", Algorithm: "gaussian"},
	{Title: "Median Blur", Algorithm: "median"},
	{Title: "Bilateral Filter", Algorithm: "bilateral"},
	{Title: "Sobel Edge Detection", Algorithm: "sobel", Edges: true},
	{Title: "Laplacian Edge Detection", Algorithm: "laplacian", Edges: true},
}

// RunDemo applies every demo filter with its default parameters to the
// loaded original and stores the outputs under the algorithm names.
// Filters run concurrently; each one splits its rows over workers.
func RunDemo(ctx context.Context, data *ImageData, workers int) error {
	original := data.GetOriginal()
	if original == nil {
		return fmt.Errorf("no original image loaded")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, panel := range DemoPanels {
		if panel.Algorithm == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			algorithm, ok := algorithms.Get(panel.Algorithm)
			if !ok {
				return fmt.Errorf("%w: %s", algorithms.ErrUnknownAlgorithm, panel.Algorithm)
			}
			out, err := algorithm.Apply(original, algorithm.GetDefaultParams(), algorithms.WithWorkers(workers))
			if err != nil {
				return fmt.Errorf("%s: %w", panel.Title, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return data.SetResultFrom(original, panel.Algorithm, out)
		})
	}
	return g.Wait()
}

// Display prepares a panel output for viewing or saving as 8-bit: edge
// responses are stretched to [0,255], smoothed images are only clamped.
func (p Panel) Display(g *grid.Grid) *grid.Grid {
	if p.Edges {
		return g.Rescale()
	}
	return g
}
