// File: internal/locate/resolver.go

// Package locate implements element resolution over the browser engine:
// bounded-polling single lookups and ordered fallback chains. The dashboard
// markup shifts between site revisions, so almost every lookup on the
// critical path goes through a fallback chain rather than a single selector.
package locate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
	"github.com/dvalis/opendnsctl/internal/diag"
)

// NotFoundError reports that a single locator produced no match within its
// timeout.
type NotFoundError struct {
	Locator browser.Locator
	Timeout time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s (waited %s)", e.Locator, e.Timeout)
}

// NoSelectorMatchedError reports that every locator in a fallback chain was
// exhausted without a match.
type NoSelectorMatchedError struct {
	Tried []browser.Locator
}

func (e *NoSelectorMatchedError) Error() string {
	tried := make([]string, len(e.Tried))
	for i, l := range e.Tried {
		tried[i] = l.String()
	}
	return fmt.Sprintf("no selector matched: tried [%s]", strings.Join(tried, ", "))
}

// Resolver finds elements on a Page. Failure reporting depends on the stage
// label: an empty stage marks a quiet existence probe (debug-level logging,
// no diagnostic capture), a non-empty stage marks a critical-path lookup
// (error-level logging plus screenshot and markup capture on failure).
type Resolver struct {
	page   browser.Page
	diag   *diag.Recorder
	logger *zap.Logger

	// PollInterval is the pause between lookup attempts in ResolveOne.
	PollInterval time.Duration
}

// New creates a Resolver over the given page.
func New(page browser.Page, rec *diag.Recorder, logger *zap.Logger) *Resolver {
	return &Resolver{
		page:         page,
		diag:         rec,
		logger:       logger.Named("locate"),
		PollInterval: 250 * time.Millisecond,
	}
}

// ResolveOne polls for a single locator until it matches or the timeout
// elapses, then fails with *NotFoundError. When multiple elements match, the
// first in document order is returned.
func (r *Resolver) ResolveOne(ctx context.Context, loc browser.Locator, timeout time.Duration, stage string) (browser.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		elements, err := r.page.Query(ctx, loc)
		if err == nil && len(elements) > 0 {
			return elements[0], nil
		}
		if err != nil {
			r.logger.Debug("Lookup attempt failed", zap.Stringer("locator", loc), zap.Error(err))
		}

		if time.Now().After(deadline) {
			notFound := &NotFoundError{Locator: loc, Timeout: timeout}
			r.reportFailure(ctx, stage, notFound, zap.Stringer("locator", loc))
			return nil, notFound
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.PollInterval):
		}
	}
}

// Resolve tries each locator once, in the given order, and returns the first
// element found. There is no scoring: the first strategy with at least one
// match wins and later strategies are never evaluated. On exhaustion it fails
// with *NoSelectorMatchedError.
func (r *Resolver) Resolve(ctx context.Context, locs []browser.Locator, stage string) (browser.Element, error) {
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		elements, err := r.page.Query(ctx, loc)
		if err != nil {
			r.logger.Debug("Selector failed", zap.Stringer("locator", loc), zap.Error(err))
			continue
		}
		if len(elements) > 0 {
			r.logger.Info("Found element", zap.Stringer("locator", loc))
			return elements[0], nil
		}
		r.logger.Debug("Selector matched nothing", zap.Stringer("locator", loc))
	}

	exhausted := &NoSelectorMatchedError{Tried: locs}
	r.reportFailure(ctx, stage, exhausted, zap.Int("strategies", len(locs)))
	return nil, exhausted
}

// reportFailure records a resolution failure at the severity implied by the
// stage label, capturing diagnostics only for staged lookups. The capture is
// a side effect: it never alters the error returned to the caller.
func (r *Resolver) reportFailure(ctx context.Context, stage string, err error, fields ...zap.Field) {
	if stage == "" {
		r.logger.Debug("Element not found (quiet)", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Error("Element not found", append(fields, zap.String("stage", stage), zap.Error(err))...)
	r.diag.Capture(ctx, stage)
}
