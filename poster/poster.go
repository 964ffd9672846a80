// Package poster implements the poster compositing engine: a fixed,
// hand-tuned 2:3 template that lays out an uploaded photograph, its
// extracted color palette, free-text fields and a row of logos onto a
// raster canvas. Every coordinate is a fraction of the canvas size, so
// the same algorithm serves the live preview and the multiplied-scale
// exports with geometrically identical results.
package poster

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"CineCanvas/canvas"
)

// Color is one palette entry, channels in [0, 255].
type Color [3]uint8

// Palette is an ordered list of representative colors extracted from
// the uploaded photo. Index 0 is the dominant color. An empty palette
// means no image has been decoded yet; consumers fall back to neutral
// colors and draw zero swatches.
type Palette []Color

// Inputs is the render request payload. All fields are plain text.
// Title and name fields are display-capitalized at render time without
// mutating the stored values. Location may embed a secondary
// coordinates line separated by "\n".
type Inputs struct {
	Title        string   `json:"title"`
	Year         string   `json:"year"`
	Photographer string   `json:"photographer"`
	Location     string   `json:"location"`
	Quote        string   `json:"quote"`
	LogoRefs     []string `json:"logoRefs,omitempty"`
}

// Renderer is the poster compositor. The font set and logo loader are
// shared read-only across renders; the drawing surface itself is owned
// exclusively by one render call at a time.
type Renderer struct {
	Fonts *canvas.FontSet
	Logos LogoLoader
}

const (
	backgroundHex  = "#F6F1E5"
	inkHex         = "#000000"
	creditHex      = "#333333"
	locationHex    = "#555555"
	placeholderHex = "#CCCCCC"
	hintHex        = "#AAAAAA"
)

// Render composites a poster for the given inputs at the given quality
// tier. src is the uploaded photograph; a nil src produces the upload
// placeholder composition instead of failing. The returned image is a
// fresh buffer, never shared with a previous render.
func (r *Renderer) Render(ctx context.Context, in Inputs, pal Palette, q Quality, src image.Image) (image.Image, error) {
	w, h := q.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid render target %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	W, H := float64(w), float64(h)
	reg := Layout(W, H, len(in.LogoRefs))

	dc.SetHexColor(backgroundHex)
	dc.Clear()

	r.drawTitleRule(dc, reg, in.Year, W, H)
	r.drawTitle(dc, reg, in.Title, H)
	r.drawImageArea(dc, reg, src, W, H)
	r.drawPaletteStrip(dc, reg, pal)
	r.drawTextBlock(dc, reg, in, H)

	if err := r.drawLogos(ctx, dc, in.LogoRefs, W, H); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// drawTitleRule paints the horizontal separator near the top with the
// year right-aligned at its trailing edge.
func (r *Renderer) drawTitleRule(dc *gg.Context, reg Regions, year string, w, h float64) {
	rule := reg.TitleRule
	dc.SetHexColor(inkHex)
	dc.SetLineWidth(rule.H)
	dc.DrawLine(rule.X, rule.Y, rule.X+rule.W, rule.Y)
	dc.Stroke()

	dc.SetFontFace(r.Fonts.Face(canvas.Regular, yearFontSize*h))
	dc.DrawStringAnchored(year, rule.X+rule.W, rule.Y+yearOffsetY*h, 1, 0.5)
}

// drawTitle paints the heavy-weight title left-aligned below the rule.
func (r *Renderer) drawTitle(dc *gg.Context, reg Regions, title string, h float64) {
	dc.SetHexColor(inkHex)
	dc.SetFontFace(r.Fonts.Face(canvas.Bold, titleFontSize*h))
	dc.DrawStringAnchored(CapitalizeWords(title), reg.TitleText.X, reg.TitleText.Y, 0, 1)
}

// drawImageArea cover-crops the photo into the near-square region, or
// paints the upload placeholder when no image is available.
func (r *Renderer) drawImageArea(dc *gg.Context, reg Regions, src image.Image, w, h float64) {
	area := reg.ImageArea
	if src == nil {
		r.drawUploadPlaceholder(dc, area, w, h)
		return
	}

	b := src.Bounds()
	cx, cy, cw, ch := CoverCrop(float64(b.Dx()), float64(b.Dy()), area.W, area.H)
	cropped := imaging.Crop(src, image.Rect(
		b.Min.X+int(cx), b.Min.Y+int(cy),
		b.Min.X+int(cx+cw), b.Min.Y+int(cy+ch),
	))
	scaled := imaging.Resize(cropped, int(area.W), int(area.H), imaging.Lanczos)
	dc.DrawImage(scaled, int(area.X), int(area.Y))
}

// drawUploadPlaceholder paints the bordered area with a centered plus
// glyph and caption inviting an upload.
func (r *Renderer) drawUploadPlaceholder(dc *gg.Context, area Rect, w, h float64) {
	dc.SetHexColor(placeholderHex)
	dc.SetLineWidth(ruleThickness * h)
	dc.DrawRectangle(0.05*w, area.Y, 0.9*w, 0.9*w)
	dc.Stroke()

	centerX := 0.5 * w
	centerY := area.Y + 0.45*w
	plusSize := 0.05 * h

	dc.SetHexColor(hintHex)
	dc.SetLineWidth(0.01 * h)
	dc.DrawLine(centerX, centerY-plusSize, centerX, centerY+plusSize)
	dc.Stroke()
	dc.DrawLine(centerX-plusSize, centerY, centerX+plusSize, centerY)
	dc.Stroke()

	dc.SetFontFace(r.Fonts.Face(canvas.Regular, 0.035*h))
	dc.DrawStringAnchored("Drag image here or click to upload", centerX, centerY+plusSize+0.02*h, 0.5, 1)
}

// drawPaletteStrip paints the palette as equal-width swatches spanning
// the strip edge to edge with no gaps. An empty palette draws nothing.
func (r *Renderer) drawPaletteStrip(dc *gg.Context, reg Regions, pal Palette) {
	if len(pal) == 0 {
		return
	}
	strip := reg.PaletteStrip
	swatchW := strip.W / float64(len(pal))
	x := strip.X
	for _, c := range pal {
		dc.SetRGB255(int(c[0]), int(c[1]), int(c[2]))
		dc.DrawRectangle(x, strip.Y, swatchW, strip.H)
		dc.Fill()
		x += swatchW
	}
}

// drawTextBlock paints the credit line, the location (optionally with a
// second coordinates line) and the wrapped quote. The vertical cursor
// advances exactly as the original template does, including its small
// negative corrections.
func (r *Renderer) drawTextBlock(dc *gg.Context, reg Regions, in Inputs, h float64) {
	x := reg.TextBlock.X
	y := reg.TextBlock.Y

	dc.SetHexColor(creditHex)
	dc.SetFontFace(r.Fonts.Face(canvas.Bold, shotByFontSize*h))
	dc.DrawStringAnchored("Shot by "+CapitalizeWords(in.Photographer), x, y, 0, 1)
	y += shotByAdvance * h

	address, coordinates, _ := strings.Cut(in.Location, "\n")
	dc.SetHexColor(locationHex)
	dc.SetFontFace(r.Fonts.Face(canvas.Regular, locationFontSize*h))
	y += locationRise * h
	dc.DrawStringAnchored(CapitalizeWords(address), x, y, 0, 1)

	y += coordinateAdvance * h
	dc.SetFontFace(r.Fonts.Face(canvas.Regular, coordinateFontSize*h))
	dc.DrawStringAnchored(coordinates, x, y, 0, 1)
	y += locationAdvance * h

	dc.SetHexColor(creditHex)
	dc.SetFontFace(r.Fonts.Face(canvas.Regular, quoteFontSize*h))
	y += quoteRise * h
	WrapText(in.Quote, x, y, reg.TextBlock.W, quoteLineHeight*h,
		func(s string) float64 {
			sw, _ := dc.MeasureString(s)
			return sw
		},
		func(s string, lx, ly float64) {
			dc.DrawStringAnchored(s, lx, ly, 0, 1)
		})
}
