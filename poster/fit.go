package poster

// CoverCrop computes the source crop rectangle that fills a target
// rectangle with "cover" semantics: the crop is center-aligned,
// aspect-preserving, and the drawn result has no letterboxing and no
// distortion. All dimensions must be positive; zero-area inputs are a
// programming error and the caller must not pass them.
func CoverCrop(srcW, srcH, dstW, dstH float64) (x, y, w, h float64) {
	srcAspect := srcW / srcH
	dstAspect := dstW / dstH

	if srcAspect > dstAspect {
		// Source is relatively wider: crop full height, slice the width.
		h = srcH
		w = h * dstAspect
		x = (srcW - w) / 2
		y = 0
	} else {
		// Source is relatively taller: crop full width, slice the height.
		w = srcW
		h = w / dstAspect
		x = 0
		y = (srcH - h) / 2
	}
	return x, y, w, h
}
