package canvas

import (
	"image"
	"image/color"
	"strings"
)

// shades runs from blank to solid ink.
var shades = []rune(" ░▒▓█")

// Thumbnail shades img into at most cols x rows terminal cells, keeping its
// aspect ratio. Each cell covers a block twice as tall as it is wide and is
// shaded by the block's mean darkness.
func Thumbnail(img image.Image, cols, rows int) []string {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	block := max(ceilDiv(w, cols), ceilDiv(h, 2*rows), 1)
	outCols := ceilDiv(w, block)
	outRows := ceilDiv(h, 2*block)

	lines := make([]string, outRows)
	var sb strings.Builder
	for r := 0; r < outRows; r++ {
		sb.Reset()
		for c := 0; c < outCols; c++ {
			cell := image.Rect(c*block, r*2*block, (c+1)*block, (r+1)*2*block).
				Add(b.Min).Intersect(b)
			sb.WriteRune(shade(darkness(img, cell)))
		}
		lines[r] = sb.String()
	}
	return lines
}

// darkness is the mean of 1-luminance over rect, in [0, 1].
func darkness(img image.Image, rect image.Rectangle) float64 {
	var sum float64
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			sum += 1 - float64(g.Y)/0xffff
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func shade(d float64) rune {
	i := int(d*float64(len(shades)-1) + 0.5)
	return shades[min(max(i, 0), len(shades)-1)]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
