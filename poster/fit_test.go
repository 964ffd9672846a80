package poster

import (
	"math"
	"testing"
)

func TestCoverCropContainmentAndAspect(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
	}{
		{"wide source into square", 4000, 2000, 760, 760},
		{"tall source into square", 2000, 4000, 760, 760},
		{"matching aspect", 1500, 1500, 760, 760},
		{"wide source into tall target", 3000, 1000, 800, 1200},
		{"tall source into wide target", 1000, 3000, 1200, 800},
		{"tiny source", 3, 7, 760, 760},
		{"huge target", 640, 480, 6000, 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := CoverCrop(tt.srcW, tt.srcH, tt.dstW, tt.dstH)

			if x < 0 || y < 0 {
				t.Errorf("crop origin (%f, %f) outside source", x, y)
			}
			if x+w > tt.srcW+1e-9 {
				t.Errorf("crop right edge %f exceeds source width %f", x+w, tt.srcW)
			}
			if y+h > tt.srcH+1e-9 {
				t.Errorf("crop bottom edge %f exceeds source height %f", y+h, tt.srcH)
			}

			gotAspect := w / h
			wantAspect := tt.dstW / tt.dstH
			if math.Abs(gotAspect-wantAspect) > 1e-9 {
				t.Errorf("crop aspect = %f, want %f", gotAspect, wantAspect)
			}
		})
	}
}

func TestCoverCropCentered(t *testing.T) {
	// Wide source: the horizontal slice must be centered.
	x, y, w, _ := CoverCrop(4000, 2000, 1000, 1000)
	if y != 0 {
		t.Errorf("wide source should crop full height, got y=%f", y)
	}
	leftMargin := x
	rightMargin := 4000 - (x + w)
	if math.Abs(leftMargin-rightMargin) > 1e-9 {
		t.Errorf("crop not centered: left %f right %f", leftMargin, rightMargin)
	}

	// Tall source: the vertical slice must be centered.
	x2, y2, _, h2 := CoverCrop(2000, 4000, 1000, 1000)
	if x2 != 0 {
		t.Errorf("tall source should crop full width, got x=%f", x2)
	}
	topMargin := y2
	bottomMargin := 4000 - (y2 + h2)
	if math.Abs(topMargin-bottomMargin) > 1e-9 {
		t.Errorf("crop not centered: top %f bottom %f", topMargin, bottomMargin)
	}
}
