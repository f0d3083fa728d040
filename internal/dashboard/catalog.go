// File: internal/dashboard/catalog.go
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// FallbackCategories is the fixed reference list used when every dynamic
// discovery tier comes up empty. It can drift from the live dashboard; a
// degraded run with these names is still more useful than no run.
var FallbackCategories = []string{
	"Adult Themes", "Alcohol & Tobacco", "Anonymizers", "Arts & Entertainment",
	"Blogs", "Chat", "Chemicals", "Drugs", "Dynamic DNS", "Education",
	"Gambling", "Games", "Hacking", "Lingerie & Swimwear", "News & Media",
	"Phishing", "Proxies", "Sex Education", "Sexual & Erotica", "Shopping",
	"Social Networking", "Software & Malware", "Streaming Media", "Video Sharing",
	"Violence",
}

// reservedModeNames are the filtering level selectors that share markup with
// category labels and must never be treated as categories.
var reservedModeNames = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
	"custom": {},
	"none":   {},
}

// Categories returns the catalog of category names for this session,
// discovering it on first call. Discovery tries three tiers in order, each
// only when the previous one found nothing, and finally falls back to the
// fixed reference list with a warning. Only dynamic discoveries are cached
// and written to the per-run audit artifact.
func (s *Session) Categories(ctx context.Context) ([]string, error) {
	if s.catalog != nil {
		return s.catalog, nil
	}

	s.logger.Info("Scanning page for available categories...")
	s.rec.Capture(ctx, "before_category_scan")

	names := s.discoverByLabelPattern(ctx)
	if len(names) == 0 {
		s.logger.Info("Primary method failed, trying container structure...")
		names = s.discoverByContainer(ctx)
	}
	if len(names) == 0 {
		s.logger.Info("Trying fallback method with checkbox elements...")
		names = s.discoverByCheckbox(ctx)
	}

	if len(names) == 0 {
		s.logger.Warn("Could not dynamically detect any categories, falling back to reference list")
		return append([]string(nil), FallbackCategories...), nil
	}

	s.logger.Info("Discovered categories", zap.Int("count", len(names)))
	s.catalog = names
	if _, err := s.rec.WriteCategories(names); err != nil {
		s.logger.Warn("Could not write detected categories artifact", zap.Error(err))
	}
	return names, nil
}

// discoverByLabelPattern is the first tier: label elements whose "for"
// attribute matches the dt_category naming pattern, with an XPath variant as
// a secondary formulation of the same lookup.
func (s *Session) discoverByLabelPattern(ctx context.Context) []string {
	labels, err := s.page.Query(ctx, browser.CSS("label[for^='dt_category[']"))
	if err != nil {
		s.logger.Warn("Error finding categories with primary method", zap.Error(err))
	}
	if len(labels) == 0 {
		labels, err = s.page.Query(ctx, browser.XPath("//label[starts-with(@for, 'dt_category[')]"))
		if err != nil {
			s.logger.Warn("Error finding categories with alternative selector", zap.Error(err))
		}
	}

	collector := newNameCollector()
	for _, label := range labels {
		name, err := label.Text(ctx)
		if err != nil {
			s.logger.Debug("Error reading category label", zap.Error(err))
			continue
		}
		collector.add(name)
	}
	return collector.names
}

// discoverByContainer is the second tier: the known category container and
// its child category blocks.
func (s *Session) discoverByContainer(ctx context.Context) []string {
	containers, err := s.page.Query(ctx, browser.ID("custom-setting"))
	if err != nil || len(containers) == 0 {
		s.logger.Warn("Category container not found", zap.Error(err))
		return nil
	}

	blocks, err := containers[0].Query(ctx, browser.Class("category"))
	if err != nil {
		s.logger.Warn("Error finding category blocks", zap.Error(err))
		return nil
	}

	collector := newNameCollector()
	for _, block := range blocks {
		labels, err := block.Query(ctx, browser.Tag("label"))
		if err != nil || len(labels) == 0 {
			continue
		}
		name, err := labels[0].Text(ctx)
		if err != nil {
			continue
		}
		collector.add(name)
	}
	return collector.names
}

// discoverByCheckbox is the third tier: go at the checkboxes directly and
// resolve each one's label by identifier.
func (s *Session) discoverByCheckbox(ctx context.Context) []string {
	boxes, err := s.page.Query(ctx, browser.CSS("input[id^='dt_category[']"))
	if err != nil {
		s.logger.Warn("Error in checkbox discovery", zap.Error(err))
		return nil
	}

	collector := newNameCollector()
	for _, box := range boxes {
		id, ok, err := box.Attr(ctx, "id")
		if err != nil || !ok || id == "" {
			continue
		}
		labels, err := s.page.Query(ctx, labelForLocator(id))
		if err != nil || len(labels) == 0 {
			s.logger.Debug("Could not find label for checkbox", zap.String("id", id))
			continue
		}
		name, err := labels[0].Text(ctx)
		if err != nil {
			continue
		}
		collector.add(name)
	}
	return collector.names
}

// labelForLocator finds the label associated with the given control ID.
func labelForLocator(id string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//label[@for=%s]", browser.XPathLiteral(id)))
}

// nameCollector accumulates category names with exact-name deduplication and
// reserved mode-name exclusion.
type nameCollector struct {
	names []string
	seen  map[string]struct{}
}

func newNameCollector() *nameCollector {
	return &nameCollector{seen: make(map[string]struct{})}
}

func (c *nameCollector) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, reserved := reservedModeNames[strings.ToLower(name)]; reserved {
		return
	}
	if _, dup := c.seen[name]; dup {
		return
	}
	c.seen[name] = struct{}{}
	c.names = append(c.names, name)
}
