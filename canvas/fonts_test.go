package canvas

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font"
)

func TestLoadEmbedded(t *testing.T) {
	fs, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	for _, style := range []Style{Regular, Bold, Italic, BoldItalic} {
		if fs.fonts[style] == nil {
			t.Errorf("style %d has no parsed font", style)
		}
	}
}

func TestLoadMissingDirFallsBack(t *testing.T) {
	fs, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load with missing dir = %v, want embedded fallback", err)
	}
	if fs.Face(Bold, 24) == nil {
		t.Error("fallback set produced a nil face")
	}
}

func TestLoadMalformedCustomFontFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Inter-Regular.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load with malformed custom font = %v, want fallback", err)
	}
	if fs.Face(Regular, 12) == nil {
		t.Error("malformed custom font did not fall back to embedded face")
	}
}

func TestFaceFreshPerCall(t *testing.T) {
	fs, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	a := fs.Face(Regular, 18)
	b := fs.Face(Regular, 18)
	if a == nil || b == nil {
		t.Fatal("Face returned nil")
	}
	// Faces carry mutable glyph buffers, so two callers must never
	// receive the same instance, even at identical style and size.
	if a == b {
		t.Error("same style and size returned a shared face")
	}
	if adv := font.MeasureString(a, "Mountain"); adv <= 0 {
		t.Errorf("fresh face measured advance %v", adv)
	}
}

func TestFaceConcurrentUse(t *testing.T) {
	fs, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				face := fs.Face(Bold, 60)
				if adv := font.MeasureString(face, "Glacier Lagoon MMXXIV"); adv <= 0 {
					t.Errorf("measured advance %v", adv)
					return
				}
			}
		}()
	}
	wg.Wait()
}
