// File: internal/dashboard/session.go

// Package dashboard implements the OpenDNS dashboard automation flows:
// sign-in, filtering-mode selection, category discovery, state diffing and
// the apply/confirm protocol. Every flow tolerates a shifting, loosely
// structured UI by resolving elements through ordered fallback chains; only
// the critical path (authentication, mode selection, the apply click) is
// allowed to abort a run.
package dashboard

import (
	"time"

	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
	"github.com/dvalis/opendnsctl/internal/diag"
	"github.com/dvalis/opendnsctl/internal/locate"
)

// DefaultBaseURL is the production dashboard origin.
const DefaultBaseURL = "https://dashboard.opendns.com"

// Options tune a Session. Zero values fall back to production defaults.
type Options struct {
	BaseURL        string
	FindTimeout    time.Duration
	ConfirmTimeout time.Duration
}

// Session owns one linear automation workflow against the dashboard. It
// carries the session-scoped category catalog cache; the catalog is
// discovered at most once per Session and never invalidated mid-run.
type Session struct {
	page   browser.Page
	res    *locate.Resolver
	rec    *diag.Recorder
	logger *zap.Logger

	baseURL        string
	findTimeout    time.Duration
	confirmTimeout time.Duration

	// catalog is nil until the first successful dynamic discovery.
	catalog []string
}

// NewSession wires a Session over an acquired browser page. The caller keeps
// ownership of the page and must release it when the workflow ends.
func NewSession(page browser.Page, rec *diag.Recorder, logger *zap.Logger, opts Options) *Session {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.FindTimeout <= 0 {
		opts.FindTimeout = 10 * time.Second
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 20 * time.Second
	}
	return &Session{
		page:           page,
		res:            locate.New(page, rec, logger),
		rec:            rec,
		logger:         logger.Named("dashboard"),
		baseURL:        opts.BaseURL,
		findTimeout:    opts.FindTimeout,
		confirmTimeout: opts.ConfirmTimeout,
	}
}

// Resolver exposes the session's element resolver, mainly for tests.
func (s *Session) Resolver() *locate.Resolver {
	return s.res
}
