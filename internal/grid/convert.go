package grid

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// FromImage converts any image to a grid of luma samples in [0,255].
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := New(b.Dx(), b.Dy())

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < g.Height; y++ {
			src := gray.Pix[y*gray.Stride : y*gray.Stride+g.Width]
			dst := g.Row(y)
			for x, v := range src {
				dst[x] = float64(v)
			}
		}
		return g
	}

	for y := 0; y < g.Height; y++ {
		dst := g.Row(y)
		for x := range dst {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			dst[x] = float64(c.Y)
		}
	}
	return g
}

// ToGray stores the grid as 8-bit samples, truncating and clamping to [0,255].
func (g *Grid) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		dst := img.Pix[y*img.Stride : y*img.Stride+g.Width]
		for x, v := range g.Row(y) {
			dst[x] = uint8(clampUint8(v))
		}
	}
	return img
}

// ToDense copies the grid into a gonum matrix of Height rows and Width columns.
func (g *Grid) ToDense() *mat.Dense {
	return mat.NewDense(g.Height, g.Width, g.Clone().Pix)
}
