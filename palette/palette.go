// Package palette adapts the external image-quantization library used
// to pull representative colors out of an uploaded photograph. The
// quantizer is treated as a black box: it is handed a decoded image and
// returns an ordered list of colors, dominant first.
package palette

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/nfnt/resize"

	"CineCanvas/poster"
)

// Count is the number of colors requested from the quantizer.
const Count = 5

// maxQuantizeDim bounds the pixel count fed to k-means; uploads can be
// arbitrarily large and the palette does not get better past this.
const maxQuantizeDim = 800

// Extract returns the ordered palette of the image, dominant color
// first. The channel values are in [0, 255].
func Extract(img image.Image) (poster.Palette, error) {
	b := img.Bounds()
	if b.Dx() > maxQuantizeDim || b.Dy() > maxQuantizeDim {
		img = resize.Thumbnail(maxQuantizeDim, maxQuantizeDim, img, resize.Lanczos3)
	}

	items, err := prominentcolor.KmeansWithAll(Count, img,
		prominentcolor.ArgumentDefault, prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks())
	if err != nil {
		return nil, fmt.Errorf("extract palette: %w", err)
	}

	pal := make(poster.Palette, 0, len(items))
	for _, item := range items {
		pal = append(pal, poster.Color{
			uint8(item.Color.R),
			uint8(item.Color.G),
			uint8(item.Color.B),
		})
	}
	return pal, nil
}
