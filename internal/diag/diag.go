// File: internal/diag/diag.go

// Package diag writes post-hoc analysis artifacts: screenshots and raw markup
// dumps on failures, and the per-run detected-categories audit file. All
// captures are gated on debug mode so normal runs leave no artifacts behind.
package diag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// Recorder captures diagnostics for one run. A nil Recorder is valid and
// records nothing.
type Recorder struct {
	page    browser.Page
	dir     string
	enabled bool
	logger  *zap.Logger

	// now is swappable for deterministic filenames in tests.
	now func() time.Time
}

// New creates a Recorder writing into dir. Artifacts are only written when
// enabled (debug mode); the directory is created lazily on first write.
func New(page browser.Page, dir string, enabled bool, logger *zap.Logger) *Recorder {
	return &Recorder{
		page:    page,
		dir:     dir,
		enabled: enabled,
		logger:  logger.Named("diag"),
		now:     time.Now,
	}
}

// Timestamp returns the artifact-naming timestamp, second resolution.
func (r *Recorder) timestamp() string {
	return r.now().Format("20060102150405")
}

// Stage sanitizes a free-form stage label into a filename fragment.
func Stage(label string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, label)
}

// Capture saves a screenshot and a raw-markup dump for the given stage.
// Capture never fails the caller: it is a side effect only, and every error
// is swallowed into the log.
func (r *Recorder) Capture(ctx context.Context, stage string) {
	if r == nil || !r.enabled {
		return
	}
	ts := r.timestamp()
	base := fmt.Sprintf("%s_%s", ts, Stage(stage))

	if err := r.ensureDir(); err != nil {
		r.logger.Warn("Could not create diagnostics directory", zap.Error(err))
		return
	}

	if shot, err := r.page.Screenshot(ctx); err != nil {
		r.logger.Warn("Screenshot capture failed", zap.String("stage", stage), zap.Error(err))
	} else {
		path := filepath.Join(r.dir, base+".png")
		if err := os.WriteFile(path, shot, 0o644); err != nil {
			r.logger.Warn("Could not write screenshot", zap.String("path", path), zap.Error(err))
		} else {
			r.logger.Info("Screenshot saved", zap.String("path", path))
		}
	}

	if src, err := r.page.Source(ctx); err != nil {
		r.logger.Warn("Page source capture failed", zap.String("stage", stage), zap.Error(err))
	} else {
		path := filepath.Join(r.dir, base+".html")
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			r.logger.Warn("Could not write page source", zap.String("path", path), zap.Error(err))
		} else {
			r.logger.Info("Page source saved", zap.String("path", path))
		}
	}
}

// ScreenshotTo captures a screenshot to an explicit path, regardless of debug
// mode. Used for the operator-requested final-state screenshot.
func (r *Recorder) ScreenshotTo(ctx context.Context, path string) error {
	if r == nil {
		return nil
	}
	shot, err := r.page.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create screenshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return fmt.Errorf("could not write screenshot: %w", err)
	}
	r.logger.Info("Screenshot saved", zap.String("path", path))
	return nil
}

// WriteCategories records the dynamically discovered category names as a
// per-run audit artifact. Written regardless of debug mode; discovery output
// is cheap and valuable for post-hoc comparison.
func (r *Recorder) WriteCategories(names []string) (string, error) {
	if r == nil {
		return "", nil
	}
	if err := r.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(r.dir, r.timestamp()+"_detected_categories.txt")
	if err := os.WriteFile(path, []byte(strings.Join(names, "\n")+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("could not write detected categories: %w", err)
	}
	r.logger.Info("Detected categories saved", zap.String("path", path), zap.Int("count", len(names)))
	return path, nil
}

func (r *Recorder) ensureDir() error {
	return os.MkdirAll(r.dir, 0o755)
}
