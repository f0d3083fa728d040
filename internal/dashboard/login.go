// File: internal/dashboard/login.go
package dashboard

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
)

// LoginFailedError reports a failure anywhere between navigating to the
// sign-in page and clicking the submit control. Credential submission is
// never retried automatically: stale credentials must not be replayed.
type LoginFailedError struct {
	Cause error
}

func (e *LoginFailedError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Cause)
}

func (e *LoginFailedError) Unwrap() error {
	return e.Cause
}

// submitLocators is the fallback chain for the sign-in submit control, the
// element that has varied most across dashboard revisions.
var submitLocators = []browser.Locator{
	browser.Name("submit"),
	browser.CSS("button[type='submit']"),
	browser.XPath("//button[@type='submit']"),
	browser.XPath("//input[@type='submit']"),
	browser.XPath("//button[contains(text(), 'Sign')]"),
	browser.XPath("//button[contains(text(), 'Log')]"),
}

// Login authenticates against the dashboard. The username and password
// fields are looked up by exact field name (historically stable); only the
// submit control goes through a fallback chain.
func (s *Session) Login(ctx context.Context, user, pass string) error {
	if err := s.page.Navigate(ctx, s.baseURL+"/signin"); err != nil {
		return &LoginFailedError{Cause: err}
	}
	s.rec.Capture(ctx, "login_page")

	userField, err := s.res.ResolveOne(ctx, browser.Name("username"), s.findTimeout, "")
	if err != nil {
		return s.failLogin(ctx, fmt.Errorf("username field: %w", err))
	}
	if err := userField.Type(ctx, user); err != nil {
		return s.failLogin(ctx, fmt.Errorf("filling username field: %w", err))
	}
	s.logger.Debug("Found and filled username field")

	passField, err := s.res.ResolveOne(ctx, browser.Name("password"), s.findTimeout, "")
	if err != nil {
		return s.failLogin(ctx, fmt.Errorf("password field: %w", err))
	}
	if err := passField.Type(ctx, pass); err != nil {
		return s.failLogin(ctx, fmt.Errorf("filling password field: %w", err))
	}
	s.logger.Debug("Found and filled password field")

	submit, err := s.res.Resolve(ctx, submitLocators, "submit_button")
	if err != nil {
		return &LoginFailedError{Cause: err}
	}
	if err := submit.Click(ctx); err != nil {
		return s.failLogin(ctx, fmt.Errorf("clicking submit control: %w", err))
	}

	s.rec.Capture(ctx, "after_login")
	s.logger.Info("Credentials submitted", zap.String("user", user))
	return nil
}

func (s *Session) failLogin(ctx context.Context, cause error) error {
	s.logger.Error("Login error", zap.Error(cause))
	s.rec.Capture(ctx, "login_error")
	return &LoginFailedError{Cause: cause}
}

var networkIDPattern = regexp.MustCompile(`/settings/(\d+)/content_filtering`)

// NetworkIDs enumerates the network identifiers reachable from the settings
// page, in page order, deduplicated.
func (s *Session) NetworkIDs(ctx context.Context) ([]string, error) {
	if err := s.page.Navigate(ctx, s.baseURL+"/settings"); err != nil {
		return nil, err
	}

	linkLoc := browser.XPath("//a[contains(@href, '/settings/') and contains(@href, 'content_filtering')]")
	if _, err := s.res.ResolveOne(ctx, linkLoc, s.findTimeout, "network_links"); err != nil {
		return nil, fmt.Errorf("no content filtering links on settings page: %w", err)
	}
	links, err := s.page.Query(ctx, linkLoc)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate settings links: %w", err)
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, link := range links {
		href, ok, err := link.Attr(ctx, "href")
		if err != nil || !ok {
			continue
		}
		m := networkIDPattern.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}
	return ids, nil
}

// ResolveNetworkID returns the configured network ID, or auto-detects it when
// unset and exactly one network exists. Zero or multiple networks with no
// configured ID is a configuration error the operator must resolve.
func (s *Session) ResolveNetworkID(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	ids, err := s.NetworkIDs(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) != 1 {
		return "", fmt.Errorf("cannot auto-detect network: found %d networks; set NETWORK_ID explicitly", len(ids))
	}
	s.logger.Info("Auto-detected network ID", zap.String("network_id", ids[0]))
	return ids[0], nil
}
