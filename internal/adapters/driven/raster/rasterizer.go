// Package raster draws ink into images with fogleman/gg.
//
// Strokes are stroked with the configured line width and round caps.
// Character replacements are drawn in Go Mono, sized to their bounds.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.InkRasterizer = (*Rasterizer)(nil)

// Default colours.
var (
	DefaultBackground = color.White
	DefaultInk        = color.Black
	DefaultSelection  = color.RGBA{R: 0xcc, G: 0xe4, B: 0xff, A: 0xff}
)

// Rasterizer renders ink. It is safe for concurrent use.
type Rasterizer struct {
	font *truetype.Font

	Background color.Color
	Ink        color.Color
	Selection  color.Color
}

// NewRasterizer creates a rasterizer with the default colours.
func NewRasterizer() (*Rasterizer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Rasterizer{
		font:       f,
		Background: DefaultBackground,
		Ink:        DefaultInk,
		Selection:  DefaultSelection,
	}, nil
}

// RenderNode draws the node on its selection background, cropped to the node frame.
func (r *Rasterizer) RenderNode(node domain.Node, settings domain.CanvasSettings) (image.Image, error) {
	if len(node.Ink) == 0 {
		return nil, fmt.Errorf("%w: node has no ink", domain.ErrInvalidInput)
	}

	dc := r.newContext(node.Frame)
	dc.SetColor(r.Selection)
	dc.DrawRoundedRectangle(node.Frame.X, node.Frame.Y, node.Frame.Width, node.Frame.Height, settings.LineWidth)
	dc.Fill()

	r.drawInk(dc, node.Ink, settings)
	return dc.Image(), nil
}

// RenderInk draws ink onto an image covering its frame plus one line width.
func (r *Rasterizer) RenderInk(ink []domain.Ink, settings domain.CanvasSettings) (image.Image, error) {
	visible := make([]domain.Ink, 0, len(ink))
	for _, unit := range ink {
		if domain.IsVisible(unit) {
			visible = append(visible, unit)
		}
	}
	frame, ok := domain.FrameOf(visible)
	if !ok {
		return nil, fmt.Errorf("%w: nothing to render", domain.ErrInvalidInput)
	}

	dc := r.newContext(frame.Expand(settings.LineWidth))
	r.drawInk(dc, visible, settings)
	return dc.Image(), nil
}

// newContext returns a cleared context whose origin maps to frame's corner.
func (r *Rasterizer) newContext(frame domain.Rect) *gg.Context {
	width := int(math.Max(1, math.Ceil(frame.Width)))
	height := int(math.Max(1, math.Ceil(frame.Height)))

	dc := gg.NewContext(width, height)
	dc.SetColor(r.Background)
	dc.Clear()
	dc.Translate(-frame.X, -frame.Y)
	return dc
}

func (r *Rasterizer) drawInk(dc *gg.Context, ink []domain.Ink, settings domain.CanvasSettings) {
	dc.SetColor(r.Ink)
	dc.SetLineWidth(settings.LineWidth)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	for _, unit := range ink {
		switch u := unit.(type) {
		case domain.Stroke:
			drawPath(dc, u.Path, settings.LineWidth)
		case domain.CharacterReplacement:
			r.drawCharacter(dc, u)
		case domain.RemovalMarker:
			continue
		}
	}
}

func drawPath(dc *gg.Context, path domain.Path, lineWidth float64) {
	// A tap has no extent to stroke.
	if len(path.Segments) == 1 {
		p := path.Segments[0].To
		dc.DrawCircle(p.X, p.Y, lineWidth/2)
		dc.Fill()
		return
	}

	for _, s := range path.Segments {
		switch s.Op {
		case domain.SegmentMove:
			dc.MoveTo(s.To.X, s.To.Y)
		case domain.SegmentLine:
			dc.LineTo(s.To.X, s.To.Y)
		case domain.SegmentQuad:
			dc.QuadraticTo(s.Control.X, s.Control.Y, s.To.X, s.To.Y)
		}
	}
	dc.Stroke()
}

func (r *Rasterizer) drawCharacter(dc *gg.Context, c domain.CharacterReplacement) {
	size := math.Max(c.Bounds.Height, 1)
	// Faces cache glyphs and are not safe to share between goroutines.
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	dc.SetFontFace(face)
	dc.DrawStringAnchored(c.Character,
		c.Bounds.X+c.Bounds.Width/2, c.Bounds.Y+c.Bounds.Height/2, 0.5, 0.5)
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("saving png: %w", err)
	}
	return nil
}
