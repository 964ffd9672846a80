// Package updater performs self-update of the cinecanvas binary: it
// compares the running version against a published version manifest,
// downloads the matching release archive and swaps the executable in
// place.
package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/fatih/color"
	update "github.com/inconshreveable/go-update"
	"github.com/schollz/progressbar/v3"
)

// UpdateInfo reflects the structure of the published version manifest.
type UpdateInfo struct {
	LatestVersion string     `json:"latest_version"`
	MinVersion    string     `json:"min_version"`
	Downloads     []Download `json:"downloads"`
}

// Download is a single downloadable binary entry.
type Download struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Filename string `json:"filename"`
	ID       string `json:"id"`
}

// Updater holds the endpoints and current version for an update run.
type Updater struct {
	CurrentVersion  string
	VersionInfoURL  string
	DownloadBaseURL string
}

// NewUpdater creates an Updater instance.
func NewUpdater(currentVersion, versionInfoURL, downloadBaseURL string) *Updater {
	return &Updater{
		CurrentVersion:  currentVersion,
		VersionInfoURL:  versionInfoURL,
		DownloadBaseURL: downloadBaseURL,
	}
}

// PerformUpdate runs the whole update flow. On a successful update the
// process exits so the OS loads the new binary on restart.
func (u *Updater) PerformUpdate() error {
	color.Yellow("Checking for updates...")

	info, err := u.getUpdateInfo()
	if err != nil {
		return fmt.Errorf("failed to get update info: %w", err)
	}

	color.Green("Current version: %s", u.CurrentVersion)
	color.Green("Latest available: %s", info.LatestVersion)

	current, err := semver.ParseTolerant(u.CurrentVersion)
	if err != nil {
		return fmt.Errorf("failed to parse current version '%s': %w", u.CurrentVersion, err)
	}
	latest, err := semver.ParseTolerant(info.LatestVersion)
	if err != nil {
		return fmt.Errorf("failed to parse latest version '%s': %w", info.LatestVersion, err)
	}
	minimum, err := semver.ParseTolerant(info.MinVersion)
	if err != nil {
		return fmt.Errorf("failed to parse minimum version '%s': %w", info.MinVersion, err)
	}

	if latest.LTE(current) {
		color.Yellow("You are already running the latest version.")
		return nil
	}
	if current.LT(minimum) {
		color.Red("Your current version (%s) is too old to auto-update to %s (minimum required: %s). Please update manually.",
			u.CurrentVersion, info.LatestVersion, info.MinVersion)
		return nil
	}

	color.Cyan("A new version (%s) is available. Do you want to update? (y/N): ", info.LatestVersion)
	var confirmation string
	_, _ = fmt.Scanln(&confirmation)
	if strings.ToLower(confirmation) != "y" {
		color.Red("Update cancelled by user.")
		return nil
	}

	var target *Download
	for _, dl := range info.Downloads {
		if dl.OS == runtime.GOOS && dl.Arch == runtime.GOARCH {
			target = &dl
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no update binary found for your system (%s/%s)", runtime.GOOS, runtime.GOARCH)
	}

	downloadURL := u.DownloadBaseURL + "/" + info.LatestVersion + "/" + target.Filename
	color.Yellow("Downloading update from: %s", downloadURL)

	binary, err := u.downloadAndExtract(downloadURL, target.Filename)
	if err != nil {
		return fmt.Errorf("failed to prepare new binary: %w", err)
	}

	color.Yellow("Applying update...")
	applyErr := update.Apply(binary, update.Options{})
	// Close before exiting: os.Exit skips deferred calls, and closing is
	// what deletes the spooled temp binary.
	binary.Close()
	if applyErr != nil {
		return fmt.Errorf("failed to apply update: %w", applyErr)
	}

	color.Green("Update successful! Please restart cinecanvas to apply the changes.")
	os.Exit(0)
	return nil
}

func (u *Updater) getUpdateInfo() (*UpdateInfo, error) {
	resp, err := http.Get(u.VersionInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version info from %s: %w", u.VersionInfoURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch version info, HTTP status: %s", resp.Status)
	}

	var info UpdateInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode update info JSON: %w", err)
	}
	return &info, nil
}

// downloadAndExtract downloads the release archive with a progress bar
// and returns a reader over the contained executable. The caller closes
// the returned reader.
func (u *Updater) downloadAndExtract(url, filename string) (io.ReadCloser, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file, HTTP status %s", resp.Status)
	}

	archive, err := os.CreateTemp("", "cinecanvas-update-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary download file: %w", err)
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
	if _, err := io.Copy(io.MultiWriter(archive, bar), resp.Body); err != nil {
		archive.Close()
		os.Remove(archive.Name())
		return nil, fmt.Errorf("failed to write download: %w", err)
	}
	if err := archive.Close(); err != nil {
		os.Remove(archive.Name())
		return nil, err
	}

	// The archive branches are done with the download once the entry is
	// spooled out, so it can be removed on return. The raw branch hands
	// the download itself to the caller; deleting a file that is still
	// open fails on Windows, so removal waits until Close.
	switch {
	case strings.HasSuffix(filename, ".tar.gz"):
		defer os.Remove(archive.Name())
		return extractFromTarGz(archive.Name())
	case strings.HasSuffix(filename, ".zip"):
		defer os.Remove(archive.Name())
		return extractFromZip(archive.Name())
	default:
		f, err := os.Open(archive.Name())
		if err != nil {
			os.Remove(archive.Name())
			return nil, err
		}
		return removeOnClose{f}, nil
	}
}

// removeOnClose deletes the backing temp file once the reader is closed.
type removeOnClose struct {
	*os.File
}

func (f removeOnClose) Close() error {
	err := f.File.Close()
	os.Remove(f.Name())
	return err
}

// executableName is the expected binary name inside release archives.
func executableName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, ".exe")
}

func extractFromTarGz(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzr.Close()

	want := executableName()
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar header: %w", err)
		}
		if header.Typeflag == tar.TypeReg && strings.TrimSuffix(filepath.Base(header.Name), ".exe") == want {
			return spoolToTemp(tr)
		}
	}
	return nil, fmt.Errorf("could not find executable (%s) inside .tar.gz archive", want)
}

func extractFromZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip file: %w", err)
	}
	defer zr.Close()

	want := executableName()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.TrimSuffix(filepath.Base(f.Name), ".exe") != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open executable in zip: %w", err)
		}
		defer rc.Close()
		return spoolToTemp(rc)
	}
	return nil, fmt.Errorf("could not find executable (%s) inside .zip archive", want)
}

// spoolToTemp copies an archive entry to a temp file, because
// update.Apply needs a reader that outlives the archive handles. The
// temp file is deleted when the returned reader is closed.
func spoolToTemp(r io.Reader) (io.ReadCloser, error) {
	tmp, err := os.CreateTemp("", "cinecanvas-extracted-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp exe file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to copy extracted entry: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	return removeOnClose{tmp}, nil
}
