package updater

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func tempFilesMatching(t *testing.T, pattern string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), pattern))
	if err != nil {
		t.Fatal(err)
	}
	return len(matches)
}

func TestDownloadRawBinaryCleansUpOnClose(t *testing.T) {
	payload := []byte("new binary bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	before := tempFilesMatching(t, "cinecanvas-update-*.tmp")

	u := NewUpdater("0.1.0", "", srv.URL)
	rc, err := u.downloadAndExtract(srv.URL+"/cinecanvas", "cinecanvas")
	if err != nil {
		t.Fatalf("downloadAndExtract: %v", err)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read binary: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("binary content = %q, want %q", got, payload)
	}

	// The download backs the returned reader, so it must survive until
	// Close and be removed by it.
	backing, ok := rc.(removeOnClose)
	if !ok {
		t.Fatalf("raw branch returned %T, want removeOnClose", rc)
	}
	name := backing.Name()
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("backing file gone before Close: %v", err)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("backing file still present after Close: %v", err)
	}

	if after := tempFilesMatching(t, "cinecanvas-update-*.tmp"); after != before {
		t.Errorf("leaked %d download temp files", after-before)
	}
}

func TestDownloadTarGzCleansUp(t *testing.T) {
	payload := []byte("extracted binary bytes")

	var archive bytes.Buffer
	gz := gzip.NewWriter(&archive)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{
		Name:     executableName(),
		Typeflag: tar.TypeReg,
		Mode:     0o755,
		Size:     int64(len(payload)),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(payload); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive.Bytes())
	}))
	defer srv.Close()

	beforeDownloads := tempFilesMatching(t, "cinecanvas-update-*.tmp")
	beforeExtracted := tempFilesMatching(t, "cinecanvas-extracted-*.tmp")

	u := NewUpdater("0.1.0", "", srv.URL)
	rc, err := u.downloadAndExtract(srv.URL+"/release.tar.gz", "release.tar.gz")
	if err != nil {
		t.Fatalf("downloadAndExtract: %v", err)
	}

	// The archive itself is already removed once extraction returned.
	if after := tempFilesMatching(t, "cinecanvas-update-*.tmp"); after != beforeDownloads {
		t.Errorf("leaked %d archive temp files", after-beforeDownloads)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read extracted binary: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("extracted content = %q, want %q", got, payload)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if after := tempFilesMatching(t, "cinecanvas-extracted-*.tmp"); after != beforeExtracted {
		t.Errorf("leaked %d extracted temp files", after-beforeExtracted)
	}
}
