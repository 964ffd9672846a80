package poster

// Quality names an output resolution preset. Every tier shares the same
// 2:3 layout algorithm; only the absolute pixel scale differs.
type Quality string

const (
	QualityPreview Quality = "preview"
	QualityLow     Quality = "low"
	QualityHigh    Quality = "high"
)

// Size returns the pixel dimensions of the tier.
func (q Quality) Size() (w, h int) {
	switch q {
	case QualityHigh:
		return 6000, 9000
	case QualityLow:
		return 1500, 2250
	default:
		return 800, 1200
	}
}

// Layout fractions, carried over from the original poster template.
// Every coordinate is a fraction of canvas width or height, never an
// absolute pixel value, so the identical algorithm produces
// geometrically similar output at every quality tier.
const (
	ruleY         = 0.015 // title rule distance from top, of height
	ruleStartX    = 0.03
	ruleEndX      = 0.97
	ruleThickness = 0.002 // of height

	yearOffsetY  = 0.017 // below the rule, of height
	yearFontSize = 0.02

	titleOffsetY  = 0.05 // below the rule, of height
	titleX        = 0.025
	titleFontSize = 0.05

	imageOffsetY   = 0.055 // below the title, of height
	imageWidthFrac = 0.95  // of width; the area is square in pixels

	// The palette band deliberately overlaps the image area's bottom
	// margin by a fixed negative offset. Multiple revisions of the
	// template reproduce this tight stacking; keep it.
	paletteOffsetY     = -0.03 // of height
	paletteBandHeight  = 0.1   // of height
	paletteWidthFrac   = 0.95  // of width
	paletteX           = 0.025
	paletteSwatchFrac  = 0.2 // swatch height as fraction of the band
	textBlockOffsetY   = -0.025
	textBlockX         = 0.025
	shotByFontSize     = 0.0225
	shotByAdvance      = 0.04
	locationFontSize   = 0.0125
	locationRise       = -0.015
	coordinateFontSize = 0.01
	coordinateAdvance  = 0.015
	locationAdvance    = 0.04
	quoteRise          = -0.01
	quoteFontSize      = 0.0125
	quoteMaxWidthFrac  = 0.9
	quoteLineHeight    = 0.015

	logoBaselineY  = 0.98 // logo bottoms sit at this fraction of height
	logoSpacingX   = 0.02 // of width
	logoHeightFrac = 0.010
)

// logoWidthFracs holds the fixed per-slot logo widths as fractions of
// canvas width. References beyond the third slot reuse the last width.
var logoWidthFracs = []float64{0.02, 0.08, 0.04}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Regions names the rectangles of the fixed poster template, computed
// top to bottom in draw order. Each region's origin derives from the
// bottom edge of the previous one plus a fixed fractional gap, so the
// set is stable for a given canvas size regardless of content.
type Regions struct {
	TitleRule    Rect
	TitleText    Rect
	ImageArea    Rect
	PaletteStrip Rect // the swatch band actually painted
	TextBlock    Rect
	LogoRow      Rect
}

// Layout computes the template regions for a w by h pixel canvas with
// nLogos logo slots. It is the explicit fold that replaces an
// accumulating y-cursor: each region is derived from the previous one,
// making the stacking order a checkable property instead of an emergent
// side effect.
func Layout(w, h float64, nLogos int) Regions {
	var r Regions

	r.TitleRule = Rect{X: ruleStartX * w, Y: ruleY * h, W: (ruleEndX - ruleStartX) * w, H: ruleThickness * h}

	titleY := r.TitleRule.Y + titleOffsetY*h
	r.TitleText = Rect{X: titleX * w, Y: titleY, W: (1 - 2*titleX) * w, H: titleFontSize * h}

	imageW := imageWidthFrac * w
	r.ImageArea = Rect{X: (w - imageW) / 2, Y: titleY + imageOffsetY*h, W: imageW, H: imageW}

	bandY := r.ImageArea.Y + r.ImageArea.H + paletteOffsetY*h
	swatchH := paletteBandHeight * h * paletteSwatchFrac
	r.PaletteStrip = Rect{
		X: paletteX * w,
		Y: bandY + (paletteBandHeight*h-swatchH)/2,
		W: paletteWidthFrac * w,
		H: swatchH,
	}

	textY := bandY + paletteBandHeight*h + textBlockOffsetY*h
	r.LogoRow = logoGroupRect(w, h, nLogos)
	r.TextBlock = Rect{X: textBlockX * w, Y: textY, W: quoteMaxWidthFrac * w, H: r.LogoRow.Y - textY}

	return r
}

// logoGroupRect returns the bounding box of the centered logo group.
// With zero logos the row collapses to a zero-width box on the
// baseline so the layout still reports a well-ordered region.
func logoGroupRect(w, h float64, n int) Rect {
	logoH := logoHeightFrac * h
	total := 0.0
	for i := 0; i < n; i++ {
		total += logoWidthFrac(i) * w
	}
	if n > 1 {
		total += float64(n-1) * logoSpacingX * w
	}
	return Rect{X: (w - total) / 2, Y: logoBaselineY*h - logoH, W: total, H: logoH}
}

func logoWidthFrac(i int) float64 {
	if i < len(logoWidthFracs) {
		return logoWidthFracs[i]
	}
	return logoWidthFracs[len(logoWidthFracs)-1]
}
