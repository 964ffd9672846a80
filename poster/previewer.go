package poster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"

	"github.com/rs/zerolog"
)

// Previewer owns the live preview slot. Reactive input changes may
// trigger renders faster than they complete; the previewer guarantees
// that at most one in-flight render wins the slot. Each request gets a
// monotonically increasing generation and a context that the next
// request cancels; a stale render that still completes is discarded at
// publish time by comparing generations.
type Previewer struct {
	Renderer *Renderer
	Log      zerolog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	png           []byte
	downloadReady bool
}

// Update schedules a preview render for the given state, superseding
// any render still in flight. The returned channel closes when this
// particular render has either published or been discarded.
func (p *Previewer) Update(in Inputs, pal Palette, src image.Image) <-chan struct{} {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.render(ctx, gen, in, pal, src)
	}()
	return done
}

func (p *Previewer) render(ctx context.Context, gen uint64, in Inputs, pal Palette, src image.Image) {
	img, err := p.Renderer.Render(ctx, in, pal, QualityPreview, src)
	if err != nil {
		// Cancellation is the expected way stale renders end; anything
		// else is logged and the previous preview stays visible.
		if ctx.Err() == nil {
			p.Log.Error().Err(err).Msg("preview render failed")
		}
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		p.Log.Error().Err(err).Msg("preview encode failed")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// A newer render superseded this one while it was drawing.
		return
	}
	p.png = buf.Bytes()
	p.downloadReady = src != nil
}

// Current returns the latest published preview PNG and the
// download-ready flag. The flag is true only when a render with an
// available image has been published.
func (p *Previewer) Current() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.png, p.downloadReady
}
