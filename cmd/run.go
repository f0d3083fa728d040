// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/browser"
	"github.com/dvalis/opendnsctl/internal/conf"
	"github.com/dvalis/opendnsctl/internal/dashboard"
	"github.com/dvalis/opendnsctl/internal/diag"
	"github.com/dvalis/opendnsctl/internal/observability"
)

// runtime is the state every operation runs against: the authenticated
// dashboard session on the content filtering page, the discovered catalog and
// the pre-operation state snapshot.
type runtime struct {
	creds   *conf.Config
	rec     *diag.Recorder
	dash    *dashboard.Session
	catalog []string
	before  map[string]bool
	logger  *zap.Logger
}

// withDashboard runs fn against a fully prepared runtime: credentials loaded
// from confPath, browser launched, signed in, custom filtering mode ensured
// and the catalog discovered. The browser is released on every exit path.
// When needCategories is set, a credentials file without a category list is
// rejected up front instead of failing mid-flight.
func withDashboard(cmd *cobra.Command, confPath string, needCategories bool, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	var creds *conf.Config
	var err error
	if needCategories {
		creds, err = conf.Load(confPath)
	} else {
		creds, err = conf.LoadCredentials(confPath)
	}
	if err != nil {
		return err
	}
	if creds.User == "" || creds.Pass == "" {
		return fmt.Errorf("missing credentials: set %s and %s in %s or the environment",
			conf.KeyUser, conf.KeyPass, confPath)
	}

	chrome, err := browser.Launch(ctx, appCfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("could not start browser: %w", err)
	}
	defer chrome.Close()

	runID := uuid.NewString()
	rec := diag.New(chrome, filepath.Join(appCfg.Browser.ArtifactsDir, runID), appCfg.Browser.Debug, logger)
	logger.Debug("Diagnostics recorder ready", zap.String("run_id", runID))

	dash := dashboard.NewSession(chrome, rec, logger, dashboard.Options{
		FindTimeout:    appCfg.Browser.FindTimeout,
		ConfirmTimeout: appCfg.Browser.ConfirmTimeout,
	})

	if err := dash.Login(ctx, creds.User, creds.Pass); err != nil {
		return err
	}

	networkID, err := dash.ResolveNetworkID(ctx, creds.NetworkID)
	if err != nil {
		return err
	}
	if err := dash.EnsureCustomMode(ctx, networkID); err != nil {
		return err
	}

	catalog, err := dash.Categories(ctx)
	if err != nil {
		return err
	}

	rt := &runtime{
		creds:   creds,
		rec:     rec,
		dash:    dash,
		catalog: catalog,
		before:  dash.ReadState(ctx, catalog),
		logger:  logger,
	}

	if err := fn(ctx, rt); err != nil {
		return err
	}

	if creds.ScreenshotPath != "" {
		if err := rec.ScreenshotTo(ctx, creds.ScreenshotPath); err != nil {
			logger.Warn("Could not save final screenshot", zap.Error(err))
		}
	}
	return nil
}

// runMutation diffs the desired-block set against the pre-operation state,
// applies the toggles and commits them, then prints the before/after table.
func runMutation(ctx context.Context, cmd *cobra.Command, rt *runtime, desiredBlocked []string) error {
	actions := rt.dash.ComputeActions(rt.catalog, rt.before, desiredBlocked)
	if len(actions) == 0 {
		rt.logger.Info("No changes needed, settings already match")
		printStatus(cmd, rt.catalog, rt.before, nil)
		return nil
	}

	rt.dash.ApplyActions(ctx, actions)

	confirmation, err := rt.dash.Commit(ctx)
	if err != nil {
		return err
	}
	if confirmation.Confirmed {
		rt.logger.Info("Settings update confirmed", zap.String("message", confirmation.Message))
	} else {
		rt.logger.Warn("Settings applied but no confirmation was observed")
	}

	after := rt.dash.ReadState(ctx, rt.catalog)
	printStatus(cmd, rt.catalog, rt.before, after)

	// Persist the post-mutation snapshot as the audit record of what this run
	// left behind; the dashboard change already landed, so a write failure
	// only costs the artifact.
	path, err := conf.Save(rt.catalog, after,
		rt.creds.User, rt.creds.Pass, rt.creds.NetworkID, rt.creds.ScreenshotPath)
	if err != nil {
		rt.logger.Warn("Could not save post-run settings snapshot", zap.Error(err))
		return nil
	}
	rt.logger.Info("Saved post-run settings snapshot", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), "Saved settings snapshot to", path)
	return nil
}

// blockedSet returns the names currently observed blocked, in catalog order.
func blockedSet(catalog []string, observed map[string]bool) []string {
	var blocked []string
	for _, name := range catalog {
		if observed[name] {
			blocked = append(blocked, name)
		}
	}
	return blocked
}
