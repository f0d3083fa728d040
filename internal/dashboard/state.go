// File: internal/dashboard/state.go
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
	"github.com/dvalis/opendnsctl/internal/diag"
)

// ToggleAction is one required click: set the named category to Block.
type ToggleAction struct {
	Name  string
	Block bool
}

// labelLocator matches a category's label by contained text.
func labelLocator(name string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//label[contains(text(), %s)]", browser.XPathLiteral(name)))
}

// ReadState reads the blocked state of every catalog category from the page.
// Categories that cannot be read are logged and omitted: under a flaky UI a
// partial snapshot is expected, and one unreadable category must not abort
// the read.
func (s *Session) ReadState(ctx context.Context, catalog []string) map[string]bool {
	status := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		blocked, err := s.readCategory(ctx, name)
		if err != nil {
			s.logger.Warn("Error reading category, skipping",
				zap.String("category", name), zap.Error(err))
			s.rec.Capture(ctx, "error_"+diag.Stage(name))
			continue
		}
		status[name] = blocked
	}
	return status
}

func (s *Session) readCategory(ctx context.Context, name string) (bool, error) {
	label, err := s.res.ResolveOne(ctx, labelLocator(name), s.findTimeout, "")
	if err != nil {
		return false, err
	}
	forAttr, ok, err := label.Attr(ctx, "for")
	if err != nil {
		return false, err
	}
	if !ok || forAttr == "" {
		return false, fmt.Errorf("label for %q has no control association", name)
	}
	control, err := s.res.ResolveOne(ctx, browser.ID(forAttr), s.findTimeout, "")
	if err != nil {
		return false, err
	}
	return control.Selected(ctx)
}

// ComputeActions diffs observed state against the desired-block list over the
// catalog. An action is produced for a category exactly when its desired
// state differs from its observed state; categories with unknown observed
// state are skipped with a warning since toggling from unknown state is
// unsafe.
func (s *Session) ComputeActions(catalog []string, observed map[string]bool, desiredBlocked []string) []ToggleAction {
	desired := make(map[string]struct{}, len(desiredBlocked))
	for _, name := range desiredBlocked {
		desired[name] = struct{}{}
	}

	var actions []ToggleAction
	for _, name := range catalog {
		blocked, known := observed[name]
		if !known {
			s.logger.Warn("No observed state for category, skipping", zap.String("category", name))
			continue
		}
		_, shouldBlock := desired[name]
		if shouldBlock != blocked {
			actions = append(actions, ToggleAction{Name: name, Block: shouldBlock})
		}
	}
	return actions
}

// ApplyActions performs each toggle in sequence by clicking the category's
// label. A failure on one category is logged and the batch continues: partial
// progress beats all-or-nothing failure across independent toggles.
func (s *Session) ApplyActions(ctx context.Context, actions []ToggleAction) {
	for _, action := range actions {
		stage := "allow_" + diag.Stage(action.Name)
		if action.Block {
			stage = "block_" + diag.Stage(action.Name)
		}

		label, err := s.res.ResolveOne(ctx, labelLocator(action.Name), s.findTimeout, "")
		if err != nil {
			s.logger.Error("Error toggling category",
				zap.String("category", action.Name), zap.Error(err))
			continue
		}
		if err := label.Click(ctx); err != nil {
			s.logger.Error("Error toggling category",
				zap.String("category", action.Name), zap.Error(err))
			s.rec.Capture(ctx, stage)
			continue
		}

		if action.Block {
			s.logger.Info("Blocked category", zap.String("category", action.Name))
		} else {
			s.logger.Info("Allowed category", zap.String("category", action.Name))
		}
	}
}
