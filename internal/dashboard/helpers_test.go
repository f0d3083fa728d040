// File: internal/dashboard/helpers_test.go
package dashboard

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
	"github.com/dvalis/opendnsctl/internal/diag"
)

// fakeElement is a scripted DOM node. Children are keyed by locator string so
// tests can wire exactly the lookups the code under test performs.
type fakeElement struct {
	tag      string
	text     string
	attrs    map[string]string
	selected bool

	clicks  int
	typed   []string
	onClick func()

	clickErr error
	textErr  error
	selErr   error

	children map[string][]*fakeElement
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Type(ctx context.Context, text string) error {
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	if e.textErr != nil {
		return "", e.textErr
	}
	return strings.TrimSpace(e.text), nil
}

func (e *fakeElement) Attr(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Selected(ctx context.Context) (bool, error) {
	if e.selErr != nil {
		return false, e.selErr
	}
	return e.selected, nil
}

func (e *fakeElement) TagName() string {
	return e.tag
}

func (e *fakeElement) Query(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	return asElements(e.children[loc.String()]), nil
}

// fakePage serves scripted elements keyed by locator string and records every
// navigation and query.
type fakePage struct {
	elements    map[string][]*fakeElement
	location    string
	navigations []string
	queries     map[string]int
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: make(map[string][]*fakeElement),
		queries:  make(map[string]int),
	}
}

func (p *fakePage) add(loc browser.Locator, els ...*fakeElement) {
	key := loc.String()
	p.elements[key] = append(p.elements[key], els...)
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigations = append(p.navigations, url)
	p.location = url
	return nil
}

func (p *fakePage) Location(ctx context.Context) (string, error) {
	return p.location, nil
}

func (p *fakePage) Title(ctx context.Context) (string, error) {
	return "OpenDNS Dashboard", nil
}

func (p *fakePage) Query(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	p.queries[loc.String()]++
	return asElements(p.elements[loc.String()]), nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (p *fakePage) Source(ctx context.Context) (string, error) {
	return "<html></html>", nil
}

func asElements(els []*fakeElement) []browser.Element {
	if len(els) == 0 {
		return nil
	}
	out := make([]browser.Element, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}

// newTestSession builds a Session over a fake page with timeouts short enough
// for failure-path tests to finish quickly.
func newTestSession(t *testing.T, page *fakePage) *Session {
	t.Helper()
	s := NewSession(page, nil, zap.NewNop(), Options{
		FindTimeout:    30 * time.Millisecond,
		ConfirmTimeout: 30 * time.Millisecond,
	})
	s.Resolver().PollInterval = 2 * time.Millisecond
	return s
}

// newSessionWithRecorder is newTestSession with a live artifact recorder
// writing into dir. Debug mode stays off so only ungated artifacts appear.
func newSessionWithRecorder(t *testing.T, page *fakePage, dir string) *Session {
	t.Helper()
	rec := diag.New(page, dir, false, zap.NewNop())
	s := NewSession(page, rec, zap.NewNop(), Options{
		FindTimeout:    30 * time.Millisecond,
		ConfirmTimeout: 30 * time.Millisecond,
	})
	s.Resolver().PollInterval = 2 * time.Millisecond
	return s
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

// addCategory wires one category row onto the page: a label matching both the
// tier-one discovery pattern and direct name lookup, plus the checkbox it
// points at. Clicking the label toggles the checkbox, as the browser does for
// standard label associations.
func addCategory(page *fakePage, name, id string, blocked bool) (*fakeElement, *fakeElement) {
	box := &fakeElement{
		tag:      "input",
		attrs:    map[string]string{"id": id, "type": "checkbox"},
		selected: blocked,
	}
	label := &fakeElement{
		tag:   "label",
		text:  name,
		attrs: map[string]string{"for": id},
	}
	label.onClick = func() { box.selected = !box.selected }

	page.add(browser.CSS("label[for^='dt_category[']"), label)
	page.add(labelLocator(name), label)
	page.add(browser.ID(id), box)
	return label, box
}
