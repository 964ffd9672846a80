package poster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"CineCanvas/canvas"
)

// gateLoader blocks every load until its context is cancelled.
type gateLoader struct{}

func (gateLoader) Load(ctx context.Context, _ string) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestPreviewer(t *testing.T, logos LogoLoader) *Previewer {
	t.Helper()
	fonts, err := canvas.Load("")
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return &Previewer{
		Renderer: &Renderer{Fonts: fonts, Logos: logos},
		Log:      zerolog.Nop(),
	}
}

func TestPreviewerEmptyUntilFirstPublish(t *testing.T) {
	p := newTestPreviewer(t, stubLoader{})
	if data, ready := p.Current(); data != nil || ready {
		t.Fatalf("Current before any render = (%d bytes, %v), want (nil, false)", len(data), ready)
	}
}

func TestPreviewerPublishesAndFlagsDownload(t *testing.T) {
	p := newTestPreviewer(t, stubLoader{})

	<-p.Update(Inputs{Title: "draft"}, nil, nil)
	data, ready := p.Current()
	if len(data) == 0 {
		t.Fatal("expected a published preview PNG")
	}
	if ready {
		t.Error("download must not be flagged ready without an uploaded image")
	}

	src := uniformImage(50, 50, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	<-p.Update(Inputs{Title: "draft"}, testPalette(), src)
	data, ready = p.Current()
	if len(data) == 0 {
		t.Fatal("expected a published preview PNG after the image upload")
	}
	if !ready {
		t.Error("download must be flagged ready once an image render published")
	}
}

func TestPreviewerNewerUpdateSupersedesInFlight(t *testing.T) {
	p := newTestPreviewer(t, gateLoader{})

	// The logo load never resolves until its context is cancelled, so
	// this render stays in flight.
	src := uniformImage(50, 50, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	first := p.Update(Inputs{Title: "one", LogoRefs: []string{"slow"}}, testPalette(), src)

	// A newer request without logos completes on its own and must win.
	<-p.Update(Inputs{Title: "two"}, nil, nil)
	winner, ready := p.Current()
	if len(winner) == 0 {
		t.Fatal("newer render did not publish")
	}
	if ready {
		t.Error("newer render had no image, downloadReady must be false")
	}

	// Cancellation released the first render; it must end discarded.
	select {
	case <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("superseded render never finished")
	}
	after, ready := p.Current()
	if !bytes.Equal(winner, after) || ready {
		t.Error("superseded render overwrote the published preview")
	}
}

func TestPreviewerStalePublishDiscarded(t *testing.T) {
	p := newTestPreviewer(t, stubLoader{})

	<-p.Update(Inputs{Title: "current"}, testPalette(), nil)
	current, _ := p.Current()

	// A render carrying an outdated generation must not publish, even
	// when it completes without being cancelled.
	src := uniformImage(50, 50, color.RGBA{R: 99, G: 99, B: 99, A: 255})
	p.render(context.Background(), 0, Inputs{Title: "stale"}, nil, src)

	after, ready := p.Current()
	if !bytes.Equal(current, after) {
		t.Error("stale generation replaced the published preview")
	}
	if ready {
		t.Error("stale generation flipped downloadReady")
	}
}
