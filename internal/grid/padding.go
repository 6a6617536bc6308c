package grid

import "fmt"

// Boundary selects how samples outside the grid are synthesized.
type Boundary int

const (
	// Reflect mirrors around the edge sample without repeating it:
	// d c b | a b c d | c b a.
	Reflect Boundary = iota
	// Symmetric mirrors around the edge itself, repeating the edge sample:
	// b a | a b c d | d c.
	Symmetric
)

func (b Boundary) String() string {
	switch b {
	case Reflect:
		return "reflect"
	case Symmetric:
		return "symmetric"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// MirrorIndex maps an arbitrary index onto [0, n) under boundary b.
// Indices further out than one mirror keep bouncing between both edges.
func MirrorIndex(i, n int, b Boundary) int {
	if i >= 0 && i < n {
		return i
	}
	switch b {
	case Symmetric:
		period := 2 * n
		i = mod(i, period)
		if i >= n {
			i = period - 1 - i
		}
	default:
		if n == 1 {
			return 0
		}
		period := 2 * (n - 1)
		i = mod(i, period)
		if i >= n {
			i = period - i
		}
	}
	return i
}

// Pad returns a copy of g extended by pad samples on each side.
func Pad(g *Grid, pad int, b Boundary) *Grid {
	return PadXY(g, pad, pad, b)
}

// PadXY extends g by padX columns left and right and padY rows above and below.
func PadXY(g *Grid, padX, padY int, b Boundary) *Grid {
	out := New(g.Width+2*padX, g.Height+2*padY)

	cols := make([]int, out.Width)
	for x := range cols {
		cols[x] = MirrorIndex(x-padX, g.Width, b)
	}

	for y := 0; y < out.Height; y++ {
		src := g.Row(MirrorIndex(y-padY, g.Height, b))
		dst := out.Row(y)
		for x, sx := range cols {
			dst[x] = src[sx]
		}
	}
	return out
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
