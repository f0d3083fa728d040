// File: internal/dashboard/mode.go
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// customModeLocators is the fallback chain for the "custom" filtering mode
// control, the most volatile markup on the settings page.
var customModeLocators = []browser.Locator{
	browser.XPath("//input[@type='radio' and @value='custom']"),
	browser.CSS("input[type='radio'][value='custom']"),
	browser.XPath("//input[@value='custom']"),
	browser.XPath("//input[contains(@id, 'custom')]"),
	browser.XPath("//label[contains(text(), 'Custom')]/input"),
	browser.XPath("//label[contains(text(), 'Custom')]"),
}

// EnsureCustomMode navigates to the content filtering settings for the given
// network and selects the "custom" filtering mode. It is idempotent: once
// custom mode is active, repeated calls change nothing.
func (s *Session) EnsureCustomMode(ctx context.Context, networkID string) error {
	url := fmt.Sprintf("%s/settings/%s/content_filtering", s.baseURL, networkID)
	if err := s.page.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to open content filtering settings: %w", err)
	}
	s.rec.Capture(ctx, "filtering_page")

	if err := s.ensureFilteringView(ctx, url); err != nil {
		return err
	}

	control, err := s.res.Resolve(ctx, customModeLocators, "filtering_custom_radio")
	if err != nil {
		return fmt.Errorf("custom mode control not found: %w", err)
	}
	control = s.followLabel(ctx, control)

	selected, err := control.Selected(ctx)
	if err != nil {
		s.rec.Capture(ctx, "filtering_error")
		return fmt.Errorf("could not read custom mode state: %w", err)
	}
	if selected {
		s.logger.Info("'Custom' filtering mode already selected")
		return nil
	}

	if err := control.Click(ctx); err != nil {
		s.rec.Capture(ctx, "select_custom_radio")
		return fmt.Errorf("could not select custom mode: %w", err)
	}
	s.logger.Info("Selected 'Custom' filtering mode")
	s.rec.Capture(ctx, "after_custom")
	return nil
}

// ensureFilteringView works around stale client-side routing: when the
// location does not show the filtering section, try one hop through the
// visible link, then fall back to direct URL navigation.
func (s *Session) ensureFilteringView(ctx context.Context, url string) error {
	loc, err := s.page.Location(ctx)
	if err != nil {
		return fmt.Errorf("could not read current location: %w", err)
	}
	if strings.Contains(loc, "content_filtering") {
		return nil
	}

	s.logger.Info("Not on content filtering page, looking for content filtering link")
	link, err := s.res.Resolve(ctx, []browser.Locator{browser.PartialLinkText("Content Filtering")}, "")
	if err == nil {
		if err := link.Click(ctx); err == nil {
			s.rec.Capture(ctx, "after_navigation")
			return nil
		}
		s.logger.Warn("Could not click Content Filtering link")
	} else {
		s.logger.Warn("Could not find Content Filtering link", zap.Error(err))
	}

	if err := s.page.Navigate(ctx, url); err != nil {
		return fmt.Errorf("direct navigation to content filtering failed: %w", err)
	}
	return nil
}

// followLabel resolves a label element to its associated control through the
// "for" attribute when present. Without the attribute the label itself is
// clicked, which toggles the control for standard HTML label associations.
func (s *Session) followLabel(ctx context.Context, el browser.Element) browser.Element {
	if el.TagName() != "label" {
		return el
	}
	forAttr, ok, err := el.Attr(ctx, "for")
	if err != nil || !ok || forAttr == "" {
		return el
	}
	control, err := s.res.ResolveOne(ctx, browser.ID(forAttr), s.findTimeout, "")
	if err != nil {
		s.logger.Info("Clicking label since input not found", zap.String("for", forAttr))
		return el
	}
	s.logger.Info("Found control via label association", zap.String("for", forAttr))
	return control
}
