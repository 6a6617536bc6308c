package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"

	"image-filter-engine/internal/core"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/io"
)

// maxPreviewSide bounds the longer side of a displayed panel image
const maxPreviewSide = 768

// PanelGrid shows one image per demo panel in a 3-column grid
type PanelGrid struct {
	panels    []core.Panel
	images    []*canvas.Image
	container *fyne.Container
}

func NewPanelGrid(panels []core.Panel) *PanelGrid {
	pg := &PanelGrid{panels: panels}

	cards := make([]fyne.CanvasObject, len(panels))
	pg.images = make([]*canvas.Image, len(panels))
	for i, panel := range panels {
		img := canvas.NewImageFromImage(placeholderImage())
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		img.SetMinSize(fyne.NewSize(240, 180))
		pg.images[i] = img
		cards[i] = widget.NewCard(panel.Title, "", img)
	}

	pg.container = container.NewGridWithColumns(3, cards...)
	return pg
}

// Show displays g in panel i. Must be called on the UI goroutine.
func (pg *PanelGrid) Show(i int, g *grid.Grid) {
	if i < 0 || i >= len(pg.images) || g == nil {
		return
	}
	pg.images[i].Image = PreviewImage(io.ToImage(g, pg.panels[i].Edges), maxPreviewSide)
	pg.images[i].Refresh()
}

func (pg *PanelGrid) Reset() {
	for _, img := range pg.images {
		img.Image = placeholderImage()
		img.Refresh()
	}
}

func (pg *PanelGrid) GetContainer() fyne.CanvasObject {
	return pg.container
}

// PreviewImage downscales src so its longer side is at most maxSide.
// Smaller images are returned unchanged.
func PreviewImage(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func placeholderImage() image.Image {
	placeholder := image.NewGray(image.Rect(0, 0, 320, 240))
	draw.Draw(placeholder, placeholder.Bounds(), &image.Uniform{C: color.Gray{Y: 240}}, image.Point{}, draw.Src)
	return placeholder
}
