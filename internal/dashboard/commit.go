// File: internal/dashboard/commit.go
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// Confirmation is the outcome of the apply/confirm protocol. An unconfirmed
// result is inconclusive, not a failure: the confirmation banner is the least
// stable part of the page and its absence says nothing about whether the
// commit landed.
type Confirmation struct {
	Confirmed bool
	// Pattern is the locator that matched, for the audit log.
	Pattern string
	// Message is the confirmation text as displayed.
	Message string
}

// confirmationLocators are the known shapes of the saved-settings banner,
// in decreasing order of specificity.
var confirmationLocators = []browser.Locator{
	browser.XPath("//div[@id='save-categories-message' and contains(text(), 'Settings saved')]"),
	browser.XPath("//div[contains(text(), 'Your settings have been updated')]"),
	browser.XPath("//div[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'settings')]"),
	browser.XPath("//div[contains(@class, 'message') and contains(text(), 'saved')]"),
}

// Commit applies the pending category changes server-side: select the
// "apply to all" auxiliary control when present (best effort), click the
// primary apply control (fatal on failure), then poll for a confirmation
// signal within the confirm timeout.
func (s *Session) Commit(ctx context.Context) (Confirmation, error) {
	s.selectApplyToAll(ctx)

	apply, err := s.res.ResolveOne(ctx, browser.ID("save-categories"), s.findTimeout, "apply_button")
	if err != nil {
		return Confirmation{}, fmt.Errorf("could not find 'Apply' control: %w", err)
	}
	if err := apply.Click(ctx); err != nil {
		s.rec.Capture(ctx, "apply_button")
		return Confirmation{}, fmt.Errorf("could not click 'Apply' control: %w", err)
	}
	s.logger.Info("Clicked 'Apply' button")

	return s.waitForConfirmation(ctx), nil
}

// selectApplyToAll checks the auxiliary apply-to-all control when it exists
// and is unchecked. Its absence is logged, never fatal.
func (s *Session) selectApplyToAll(ctx context.Context) {
	boxes, err := s.page.Query(ctx, browser.ID("save-categories-applytoall"))
	if err != nil || len(boxes) == 0 {
		s.logger.Warn("'Apply to all' checkbox not found", zap.Error(err))
		return
	}
	box := boxes[0]

	selected, err := box.Selected(ctx)
	if err != nil {
		s.logger.Warn("Could not read 'apply to all' state", zap.Error(err))
		return
	}
	if selected {
		s.logger.Info("'Apply to all' checkbox already checked")
		return
	}
	if err := box.Click(ctx); err != nil {
		s.logger.Warn("'Apply to all' checkbox could not be checked", zap.Error(err))
		return
	}
	s.logger.Info("Checked 'apply to all' checkbox")
}

// waitForConfirmation polls the confirmation patterns in priority order under
// one shared deadline and returns the first match, or an unconfirmed result
// when the deadline passes.
func (s *Session) waitForConfirmation(ctx context.Context) Confirmation {
	deadline := time.Now().Add(s.confirmTimeout)
	for {
		for _, loc := range confirmationLocators {
			els, err := s.page.Query(ctx, loc)
			if err != nil || len(els) == 0 {
				continue
			}
			msg, _ := els[0].Text(ctx)
			s.logger.Info("Settings update confirmation found",
				zap.Stringer("pattern", loc), zap.String("message", msg))
			return Confirmation{Confirmed: true, Pattern: loc.String(), Message: msg}
		}

		if time.Now().After(deadline) {
			s.logger.Warn("Could not find confirmation message after applying settings")
			return Confirmation{}
		}

		select {
		case <-ctx.Done():
			s.logger.Warn("Confirmation wait canceled", zap.Error(ctx.Err()))
			return Confirmation{}
		case <-time.After(s.res.PollInterval):
		}
	}
}
