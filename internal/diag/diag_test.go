// File: internal/diag/diag_test.go
package diag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// stubPage implements browser.Page with canned screenshot/source payloads.
type stubPage struct {
	shot      []byte
	source    string
	shotErr   error
	sourceErr error
}

func (s *stubPage) Navigate(ctx context.Context, url string) error { return nil }
func (s *stubPage) Location(ctx context.Context) (string, error)   { return "", nil }
func (s *stubPage) Title(ctx context.Context) (string, error)      { return "", nil }
func (s *stubPage) Query(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	return nil, nil
}
func (s *stubPage) Screenshot(ctx context.Context) ([]byte, error) { return s.shot, s.shotErr }
func (s *stubPage) Source(ctx context.Context) (string, error)     { return s.source, s.sourceErr }

func fixedClock() func() time.Time {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestCaptureWritesTimestampedArtifacts(t *testing.T) {
	dir := t.TempDir()
	page := &stubPage{shot: []byte("png-bytes"), source: "<html><body>hi</body></html>"}
	r := New(page, dir, true, zap.NewNop())
	r.now = fixedClock()

	r.Capture(context.Background(), "submit_button")

	shot, err := os.ReadFile(filepath.Join(dir, "20250314150926_submit_button.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), shot)

	src, err := os.ReadFile(filepath.Join(dir, "20250314150926_submit_button.html"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "<body>hi</body>")
}

func TestCaptureDisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	r := New(&stubPage{shot: []byte("x")}, dir, false, zap.NewNop())

	r.Capture(context.Background(), "submit_button")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCaptureToleratesEngineFailures(t *testing.T) {
	dir := t.TempDir()
	page := &stubPage{shotErr: errors.New("no session"), sourceErr: errors.New("no session")}
	r := New(page, dir, true, zap.NewNop())

	// Must not panic or error out.
	r.Capture(context.Background(), "filtering_error")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Capture(context.Background(), "anything")
	_, err := r.WriteCategories([]string{"Games"})
	assert.NoError(t, err)
}

func TestWriteCategories(t *testing.T) {
	dir := t.TempDir()
	r := New(&stubPage{}, dir, false, zap.NewNop())
	r.now = fixedClock()

	path, err := r.WriteCategories([]string{"Gambling", "Games", "Hacking"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250314150926_detected_categories.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Gambling\nGames\nHacking\n", string(data))
}

func TestScreenshotTo(t *testing.T) {
	dir := t.TempDir()
	page := &stubPage{shot: []byte("final-state")}
	r := New(page, dir, false, zap.NewNop())

	target := filepath.Join(dir, "nested", "final.png")
	require.NoError(t, r.ScreenshotTo(context.Background(), target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("final-state"), data)
}

func TestStageSanitization(t *testing.T) {
	assert.Equal(t, "block_Alcohol___Tobacco", Stage("block_Alcohol & Tobacco"))
	assert.Equal(t, "error_Sex_Education", Stage("error_Sex Education"))
}
