// File: internal/dashboard/catalog_test.go
package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dvalis/opendnsctl/internal/browser"
)

func TestCategoriesLabelPatternTier(t *testing.T) {
	page := newFakePage()
	loc := browser.CSS("label[for^='dt_category[']")
	page.add(loc,
		&fakeElement{tag: "label", text: "  Gambling  "},
		&fakeElement{tag: "label", text: "Games"},
		&fakeElement{tag: "label", text: "Custom"},  // reserved mode name
		&fakeElement{tag: "label", text: "Games"},   // duplicate
		&fakeElement{tag: "label", text: "   "},     // blank
		&fakeElement{tag: "label", text: "Hacking"},
	)

	s := newTestSession(t, page)
	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Gambling", "Games", "Hacking"}, names)
}

func TestCategoriesResultIsCached(t *testing.T) {
	page := newFakePage()
	loc := browser.CSS("label[for^='dt_category[']")
	page.add(loc, &fakeElement{tag: "label", text: "Gambling"})

	s := newTestSession(t, page)
	_, err := s.Categories(context.Background())
	require.NoError(t, err)
	queriesAfterFirst := page.queries[loc.String()]

	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Gambling"}, names)
	assert.Equal(t, queriesAfterFirst, page.queries[loc.String()])
}

func TestCategoriesContainerTier(t *testing.T) {
	page := newFakePage()
	blockFor := func(name string) *fakeElement {
		return &fakeElement{
			tag: "div",
			children: map[string][]*fakeElement{
				browser.Tag("label").String(): {{tag: "label", text: name}},
			},
		}
	}
	container := &fakeElement{
		tag: "div",
		children: map[string][]*fakeElement{
			browser.Class("category").String(): {
				blockFor("Phishing"), blockFor("Proxies"), {tag: "div"},
			},
		},
	}
	page.add(browser.ID("custom-setting"), container)

	s := newTestSession(t, page)
	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Phishing", "Proxies"}, names)
}

func TestCategoriesCheckboxTier(t *testing.T) {
	page := newFakePage()
	page.add(browser.CSS("input[id^='dt_category[']"),
		&fakeElement{tag: "input", attrs: map[string]string{"id": "dt_category[4]"}},
		&fakeElement{tag: "input", attrs: map[string]string{"id": "dt_category[9]"}},
		&fakeElement{tag: "input", attrs: map[string]string{"id": "dt_category[12]"}},
		&fakeElement{tag: "input"}, // no id, skipped
	)
	page.add(labelForLocator("dt_category[4]"), &fakeElement{tag: "label", text: "Chat"})
	page.add(labelForLocator("dt_category[9]"), &fakeElement{tag: "label", text: "Blogs"})
	// Filtering level controls share the markup pattern in some revisions.
	page.add(labelForLocator("dt_category[12]"), &fakeElement{tag: "label", text: "High"})

	s := newTestSession(t, page)
	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chat", "Blogs"}, names)
}

func TestCategoriesFallbackList(t *testing.T) {
	page := newFakePage()
	s := newTestSession(t, page)

	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, FallbackCategories, names)

	// The fallback is a defensive copy of the reference list.
	names[0] = "mutated"
	assert.Equal(t, "Adult Themes", FallbackCategories[0])
}

func TestCategoriesFallbackLogsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSession(newFakePage(), nil, zap.New(core), Options{
		FindTimeout:    30 * time.Millisecond,
		ConfirmTimeout: 30 * time.Millisecond,
	})

	_, err := s.Categories(context.Background())
	require.NoError(t, err)

	warned := false
	for _, entry := range logs.All() {
		if entry.Level == zap.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning when discovery degrades to the reference list")
}

func TestCategoriesFallbackIsNotCached(t *testing.T) {
	page := newFakePage()
	s := newTestSession(t, page)

	_, err := s.Categories(context.Background())
	require.NoError(t, err)

	// A category appearing after the degraded first scan is picked up.
	page.add(browser.CSS("label[for^='dt_category[']"), &fakeElement{tag: "label", text: "Gambling"})
	names, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Gambling"}, names)
}

func TestCategoriesWritesAuditArtifact(t *testing.T) {
	page := newFakePage()
	page.add(browser.CSS("label[for^='dt_category[']"), &fakeElement{tag: "label", text: "Gambling"})

	dir := t.TempDir()
	s := newSessionWithRecorder(t, page, dir)
	_, err := s.Categories(context.Background())
	require.NoError(t, err)

	entries := listDir(t, dir)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "_detected_categories.txt")
}
