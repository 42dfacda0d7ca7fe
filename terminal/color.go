package terminal

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-cloud/surface"
)

// cubeLevels are the channel intensities of the xterm 6x6x6 colour cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// background is what translucent colours are blended over.
var background = colorful.Color{R: 0, G: 0, B: 0}

// blend composes c over the terminal background.
func blend(c surface.Color) colorful.Color {
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return background.BlendRgb(fg, c.A).Clamped()
}

// palette256 returns the xterm-256 index closest to c: either a colour cube
// entry or a step of the grayscale ramp, whichever is perceptually nearer.
func palette256(c colorful.Color) int {
	r, g, b := c.RGB255()
	ri, gi, bi := nearestLevel(r), nearestLevel(g), nearestLevel(b)
	cubeIdx := 16 + 36*ri + 6*gi + bi
	cube := colorful.Color{
		R: float64(cubeLevels[ri]) / 255,
		G: float64(cubeLevels[gi]) / 255,
		B: float64(cubeLevels[bi]) / 255,
	}

	// Ramp 232..255 covers 8, 18, ..., 238.
	avg := (int(r) + int(g) + int(b)) / 3
	step := (avg - 3) / 10
	if step < 0 {
		step = 0
	}
	if step > 23 {
		step = 23
	}
	level := float64(8+10*step) / 255
	gray := colorful.Color{R: level, G: level, B: level}

	if gray.DistanceLab(c) < cube.DistanceLab(c) {
		return 232 + step
	}
	return cubeIdx
}

func nearestLevel(v uint8) int {
	best, bestDist := 0, 256
	for i, l := range cubeLevels {
		d := int(v) - int(l)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// attribute converts a translucent surface colour to a termbox colour in
// 256 colour output mode.
func attribute(c surface.Color) termbox.Attribute {
	return termbox.Attribute(palette256(blend(c)) + 1)
}

// luminance is the perceived brightness of c once blended, in [0, 1].
func luminance(c surface.Color) float64 {
	l, _, _ := blend(c).Lab()
	return l
}
