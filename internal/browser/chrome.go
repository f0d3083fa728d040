// File: internal/browser/chrome.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/config"
)

// Chrome drives a headless (or headful) Chrome instance via the DevTools
// protocol and implements Page. One Chrome owns one browser process; it is
// acquired at workflow start and must be released with Close on every exit
// path.
type Chrome struct {
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
	ctx         context.Context
	logger      *zap.Logger
	navTimeout  time.Duration
}

var _ Page = (*Chrome)(nil)

// Launch starts a Chrome process configured per cfg and returns a Page over it.
func Launch(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Chrome, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.Binary != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Binary))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	c := &Chrome{
		allocCancel: allocCancel,
		ctxCancel:   ctxCancel,
		ctx:         browserCtx,
		logger:      logger.Named("chrome"),
		navTimeout:  cfg.NavigationTimeout,
	}

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	c.logger.Debug("Chrome session started", zap.Bool("headless", cfg.Headless))
	return c, nil
}

// Close tears down the browser process.
func (c *Chrome) Close() {
	c.ctxCancel()
	c.allocCancel()
	c.logger.Debug("Chrome session closed")
}

// opCtx bounds an operation by both the caller's context and the browser
// lifecycle context.
func (c *Chrome) opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	combined, cancel := combineContext(c.ctx, ctx)
	if timeout <= 0 {
		return combined, cancel
	}
	timed, timedCancel := context.WithTimeout(combined, timeout)
	return timed, func() {
		timedCancel()
		cancel()
	}
}

// Navigate loads the URL and waits for the document body to be ready.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := c.opCtx(ctx, c.navTimeout)
	defer cancel()

	c.logger.Debug("Navigating", zap.String("url", url))
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %q failed: %w", url, err)
	}
	return nil
}

// Location returns the current page URL.
func (c *Chrome) Location(ctx context.Context) (string, error) {
	opCtx, cancel := c.opCtx(ctx, 0)
	defer cancel()

	var loc string
	if err := chromedp.Run(opCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return loc, nil
}

// Title returns the current document title.
func (c *Chrome) Title(ctx context.Context) (string, error) {
	opCtx, cancel := c.opCtx(ctx, 0)
	defer cancel()

	var title string
	if err := chromedp.Run(opCtx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return title, nil
}

// Query returns every element currently matching the locator without waiting.
func (c *Chrome) Query(ctx context.Context, loc Locator) ([]Element, error) {
	opCtx, cancel := c.opCtx(ctx, 0)
	defer cancel()

	sel, byOpt := c.selectorFor(loc)

	var nodes []*cdp.Node
	if err := chromedp.Run(opCtx,
		chromedp.Nodes(sel, &nodes, byOpt, chromedp.AtLeast(0)),
	); err != nil {
		return nil, fmt.Errorf("query %s failed: %w", loc, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{
			chrome: c,
			xpath:  n.FullXPath(),
			tag:    strings.ToLower(n.NodeName),
		})
	}
	return elements, nil
}

// selectorFor maps a locator onto a chromedp selector + query option pair.
// Everything except raw CSS goes through the XPath engine.
func (c *Chrome) selectorFor(loc Locator) (string, chromedp.QueryOption) {
	switch loc.Kind {
	case ByCSS:
		return loc.Value, chromedp.ByQueryAll
	case ByXPath:
		return loc.Value, chromedp.BySearch
	default:
		rel, err := loc.RelativeXPath()
		if err != nil {
			// Unreachable for the kinds above; fall back to an impossible match.
			return "//*[false()]", chromedp.BySearch
		}
		return strings.TrimPrefix(rel, "."), chromedp.BySearch
	}
}

// Screenshot captures the visible viewport as PNG.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	opCtx, cancel := c.opCtx(ctx, 0)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(opCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Source returns the serialized markup of the current document.
func (c *Chrome) Source(ctx context.Context) (string, error) {
	opCtx, cancel := c.opCtx(ctx, 0)
	defer cancel()

	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to dump page source: %w", err)
	}
	return html, nil
}

// chromeElement addresses a node by its full document XPath. The handle is
// only valid until the next navigation.
type chromeElement struct {
	chrome *Chrome
	xpath  string
	tag    string
}

var _ Element = (*chromeElement)(nil)

func (e *chromeElement) Click(ctx context.Context) error {
	opCtx, cancel := e.chrome.opCtx(ctx, 0)
	defer cancel()

	if err := chromedp.Run(opCtx, chromedp.Click(e.xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("click on %q failed: %w", e.xpath, err)
	}
	return nil
}

func (e *chromeElement) Type(ctx context.Context, text string) error {
	opCtx, cancel := e.chrome.opCtx(ctx, 0)
	defer cancel()

	if err := chromedp.Run(opCtx, chromedp.SendKeys(e.xpath, text, chromedp.BySearch)); err != nil {
		return fmt.Errorf("typing into %q failed: %w", e.xpath, err)
	}
	return nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	opCtx, cancel := e.chrome.opCtx(ctx, 0)
	defer cancel()

	var text string
	if err := chromedp.Run(opCtx, chromedp.Text(e.xpath, &text, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("reading text of %q failed: %w", e.xpath, err)
	}
	return strings.TrimSpace(text), nil
}

func (e *chromeElement) Attr(ctx context.Context, name string) (string, bool, error) {
	opCtx, cancel := e.chrome.opCtx(ctx, 0)
	defer cancel()

	var value string
	var ok bool
	if err := chromedp.Run(opCtx, chromedp.AttributeValue(e.xpath, name, &value, &ok, chromedp.BySearch)); err != nil {
		return "", false, fmt.Errorf("reading attribute %q of %q failed: %w", name, e.xpath, err)
	}
	return value, ok, nil
}

// Selected reads the live checked property, not the markup attribute, so it
// reflects toggles made after page load.
func (e *chromeElement) Selected(ctx context.Context) (bool, error) {
	opCtx, cancel := e.chrome.opCtx(ctx, 0)
	defer cancel()

	expr := fmt.Sprintf(
		`(function() {
			const r = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
			const el = r.singleNodeValue;
			return !!(el && el.checked);
		})()`, e.xpath)

	var checked bool
	if err := chromedp.Run(opCtx, chromedp.Evaluate(expr, &checked)); err != nil {
		return false, fmt.Errorf("reading checked state of %q failed: %w", e.xpath, err)
	}
	return checked, nil
}

func (e *chromeElement) TagName() string {
	return e.tag
}

// Query finds matching descendants by anchoring the locator's relative XPath
// at this element's document XPath.
func (e *chromeElement) Query(ctx context.Context, loc Locator) ([]Element, error) {
	rel, err := loc.RelativeXPath()
	if err != nil {
		return nil, err
	}
	scoped := e.xpath + strings.TrimPrefix(rel, ".")
	return e.chrome.Query(ctx, XPath(scoped))
}

// combineContext yields a context canceled when either input is canceled.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
