package poster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"CineCanvas/canvas"
)

// LogoLoader resolves a logo reference to a decoded image. Loads may be
// slow or fail entirely; the compositor treats every failure as a
// placeholder, never as a render error.
type LogoLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// FileHTTPLoader loads logo references either from disk or, for
// http(s) URLs, over the network with a bounded timeout.
type FileHTTPLoader struct {
	Client *http.Client
}

// NewLogoLoader returns the default loader with a 10 second HTTP timeout.
func NewLogoLoader() *FileHTTPLoader {
	return &FileHTTPLoader{Client: &http.Client{Timeout: 10 * time.Second}}
}

// Load fetches and decodes a single logo reference.
func (l *FileHTTPLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("logo fetch %s: status %d", ref, resp.StatusCode)
		}
		return imaging.Decode(resp.Body)
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imaging.Decode(f)
}

// LogoSlot is a precomputed logo position. Slots are fixed before any
// load starts, so a failed load can never shift a sibling.
type LogoSlot struct {
	X, Y, W, H float64
}

// LogoSlots computes the slot rectangles for n logos on a w by h
// canvas: fixed per-slot widths, fixed spacing, the whole group
// centered horizontally with bottoms aligned on the logo baseline.
func LogoSlots(w, h float64, n int) []LogoSlot {
	group := logoGroupRect(w, h, n)
	slots := make([]LogoSlot, n)
	x := group.X
	for i := range slots {
		slotW := logoWidthFrac(i) * w
		slotH := logoHeightFrac * h
		slots[i] = LogoSlot{X: x, Y: logoBaselineY*h - slotH, W: slotW, H: slotH}
		x += slotW + logoSpacingX*w
	}
	return slots
}

// drawLogos loads every logo concurrently, waits for the join of all
// load-or-fallback outcomes, then draws strictly left to right by input
// index. Completion order of the loads never influences draw order or
// positions. The only error returned is context cancellation.
func (r *Renderer) drawLogos(ctx context.Context, dc *gg.Context, refs []string, w, h float64) error {
	if len(refs) == 0 {
		return nil
	}
	slots := LogoSlots(w, h, len(refs))
	loaded := make([]image.Image, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			img, err := r.logoLoader().Load(gctx, ref)
			if err != nil {
				// Placeholder path; the slot stays reserved.
				return nil
			}
			loaded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, slot := range slots {
		if img := loaded[i]; img != nil {
			scaled := imaging.Resize(img, int(slot.W), int(slot.H), imaging.Lanczos)
			dc.DrawImage(scaled, int(slot.X), int(slot.Y))
			continue
		}
		r.drawLogoPlaceholder(dc, slot, h)
	}
	return nil
}

// drawLogoPlaceholder paints the neutral substitute for a logo that
// failed to load: a gray box of the exact slot dimensions with a
// centered "Logo" label.
func (r *Renderer) drawLogoPlaceholder(dc *gg.Context, slot LogoSlot, h float64) {
	dc.SetHexColor("#CCCCCC")
	dc.DrawRectangle(slot.X, slot.Y, slot.W, slot.H)
	dc.Fill()

	dc.SetHexColor("#666666")
	dc.SetFontFace(r.Fonts.Face(canvas.Regular, yearFontSize*h))
	dc.DrawStringAnchored("Logo", slot.X+slot.W/2, slot.Y+slot.H/2, 0.5, 0.5)
}

// logoLoader returns the configured loader, defaulting lazily so a
// zero-value Renderer still renders placeholders instead of panicking.
func (r *Renderer) logoLoader() LogoLoader {
	if r.Logos != nil {
		return r.Logos
	}
	return failingLoader{}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, string) (image.Image, error) {
	return nil, errors.New("no logo loader configured")
}
